package models

import (
	"errors"
	"fmt"
)

// Resource names used in errors and logs.
const (
	ResourceMilk     = "milk"
	ResourcePayments = "payments"
	ResourceUsers    = "users"
)

var (
	// ErrMissingField indicates a record lacks a required key.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidDate indicates a date is not a YYYY-MM-DD calendar day.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidNumber indicates a numeric field could not be parsed.
	ErrInvalidNumber = errors.New("invalid number")
	// ErrNegativeValue indicates a quantity or amount below zero.
	ErrNegativeValue = errors.New("negative value")
)

// DataError reports a single malformed input record.
type DataError struct {
	Resource string
	Index    int
	Field    string
	Err      error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s record %d: field %q: %v", e.Resource, e.Index, e.Field, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// FetchError reports that a source could not deliver one of the collections.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
