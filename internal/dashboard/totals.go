package dashboard

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

// Totals holds the summary card values.
type Totals struct {
	TotalCustomers  int             `json:"totalCustomers"`
	TotalMilkLiters float64         `json:"totalMilkLiters"`
	TotalPayment    decimal.Decimal `json:"totalPayment"`
	TotalBill       decimal.Decimal `json:"totalBill"`
	// TotalDues is negative when customers have paid more than billed.
	TotalDues decimal.Decimal `json:"totalDues"`
}

// ComputeSummaryTotals aggregates the summary cards over the full collections.
func ComputeSummaryTotals(entries []models.MilkEntry, payments []models.Payment, users []models.User) Totals {
	totals := Totals{
		TotalPayment: decimal.Zero,
		TotalBill:    decimal.Zero,
	}

	for _, u := range users {
		if u.Role == models.RoleCustomer {
			totals.TotalCustomers++
		}
	}

	for _, e := range entries {
		totals.TotalMilkLiters += e.Liters
		totals.TotalBill = totals.TotalBill.Add(e.Total)
	}

	for _, p := range payments {
		totals.TotalPayment = totals.TotalPayment.Add(p.Amount)
	}

	totals.TotalDues = totals.TotalBill.Sub(totals.TotalPayment)
	return totals
}
