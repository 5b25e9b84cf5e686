package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// DateLayout is the calendar-day format shared by entries and the dashboard series.
const DateLayout = "2006-01-02"

// Record is a raw row as delivered by a source, keyed by field name.
type Record map[string]any

// DecodeMilkEntries converts raw records into entries. Malformed records are
// dropped and reported as *DataError values combined into the returned error.
func DecodeMilkEntries(records []Record) ([]MilkEntry, error) {
	entries := make([]MilkEntry, 0, len(records))
	var errs error

	for i, rec := range records {
		entry, field, err := decodeMilkEntry(rec)
		if err != nil {
			errs = multierr.Append(errs, &DataError{Resource: ResourceMilk, Index: i, Field: field, Err: err})
			continue
		}
		entries = append(entries, entry)
	}

	return entries, errs
}

// DecodePayments converts raw records into payments.
func DecodePayments(records []Record) ([]Payment, error) {
	payments := make([]Payment, 0, len(records))
	var errs error

	for i, rec := range records {
		amount, err := requireDecimal(rec, "amount")
		if err != nil {
			errs = multierr.Append(errs, &DataError{Resource: ResourcePayments, Index: i, Field: "amount", Err: err})
			continue
		}
		payments = append(payments, Payment{Amount: amount})
	}

	return payments, errs
}

// DecodeUsers converts raw records into users. A missing role is kept as an
// empty role, which is simply not counted as a customer.
func DecodeUsers(records []Record) []User {
	users := make([]User, 0, len(records))
	for _, rec := range records {
		role := ""
		if v, ok := rec["role"]; ok && v != nil {
			role = strings.TrimSpace(fmt.Sprint(v))
		}
		users = append(users, User{Role: role})
	}
	return users
}

func decodeMilkEntry(rec Record) (MilkEntry, string, error) {
	raw, ok := rec["date"]
	if !ok || raw == nil {
		return MilkEntry{}, "date", ErrMissingField
	}
	day, err := ParseDay(raw)
	if err != nil {
		return MilkEntry{}, "date", err
	}

	liters, err := requireFloat(rec, "liters")
	if err != nil {
		return MilkEntry{}, "liters", err
	}

	total, err := requireDecimal(rec, "total")
	if err != nil {
		return MilkEntry{}, "total", err
	}

	var tod TimeOfDay
	if v, ok := rec["time"]; ok && v != nil {
		tod = TimeOfDay(strings.TrimSpace(fmt.Sprint(v)))
	}

	return MilkEntry{Date: day, Time: tod, Liters: liters, Total: total}, "", nil
}

// ParseDay normalises a date value to YYYY-MM-DD. Timestamps keep the calendar
// day they were written with.
func ParseDay(value any) (string, error) {
	if t, ok := value.(time.Time); ok {
		return t.Format(DateLayout), nil
	}

	str := strings.TrimSpace(fmt.Sprint(value))
	if str == "" {
		return "", ErrInvalidDate
	}
	if len(str) > 10 && (str[10] == 'T' || str[10] == ' ') {
		str = str[:10]
	}
	if _, err := time.Parse(DateLayout, str); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, str)
	}
	return str, nil
}

func requireFloat(rec Record, key string) (float64, error) {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return 0, ErrMissingField
	}
	v, err := parseFloat(raw)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, ErrNegativeValue
	}
	return v, nil
}

func requireDecimal(rec Record, key string) (decimal.Decimal, error) {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return decimal.Zero, ErrMissingField
	}
	v, err := parseDecimal(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if v.IsNegative() {
		return decimal.Zero, ErrNegativeValue
	}
	return v, nil
}

func parseFloat(value any) (float64, error) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		str := strings.TrimSpace(numberString(value))
		if str == "" {
			return 0, ErrInvalidNumber
		}
		parsed, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, str)
		}
		f = parsed
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidNumber
	}
	return f, nil
}

func parseDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, ErrInvalidNumber
		}
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	}

	str := strings.TrimSpace(numberString(value))
	if str == "" {
		return decimal.Zero, ErrInvalidNumber
	}
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, str)
	}
	return d, nil
}

func numberString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
