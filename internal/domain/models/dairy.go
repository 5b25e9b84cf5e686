package models

import "github.com/shopspring/decimal"

// TimeOfDay tags a milk delivery as a morning or evening collection.
type TimeOfDay string

const (
	Morning TimeOfDay = "morning"
	Evening TimeOfDay = "evening"
)

// RoleCustomer is the only user role counted on the dashboard.
const RoleCustomer = "customer"

// MilkEntry captures one recorded milk delivery.
type MilkEntry struct {
	Date   string          `json:"date"`
	Time   TimeOfDay       `json:"time"`
	Liters float64         `json:"liters"`
	Total  decimal.Decimal `json:"total"`
}

// Payment captures money received from a customer.
type Payment struct {
	Amount decimal.Decimal `json:"amount"`
}

// User is a dashboard account; only its role matters here.
type User struct {
	Role string `json:"role"`
}

// Snapshot is the decoded result of one load from a source.
type Snapshot struct {
	Entries  []MilkEntry
	Payments []Payment
	Users    []User
	// Skipped counts records dropped because they failed to decode.
	Skipped int
}
