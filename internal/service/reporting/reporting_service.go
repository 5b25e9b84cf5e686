package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/dashboard"
	"github.com/mamadbah2/dairy/internal/service/admin"
)

// ErrNoData is returned when there is no day in the series to report on.
var ErrNoData = errors.New("no dashboard data")

// Refresher yields a freshly computed dashboard state.
type Refresher interface {
	Refresh(ctx context.Context) admin.State
}

// Service formats plain-text summaries for WhatsApp.
type Service struct {
	dashboards Refresher
	currency   string
	logger     *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(dashboards Refresher, currency string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{dashboards: dashboards, currency: currency, logger: logger}
}

// GenerateDailyDigest refreshes the dashboard and summarises the totals and
// the last day of the series.
func (s *Service) GenerateDailyDigest(ctx context.Context) (string, error) {
	state := s.dashboards.Refresh(ctx)
	switch {
	case state.Status == admin.StatusFailed:
		return "", fmt.Errorf("dashboard data unavailable: %w", state.Err)
	case state.Dashboard == nil || len(state.Dashboard.Days) == 0:
		return "", ErrNoData
	}

	d := state.Dashboard
	today := d.Days[len(d.Days)-1]

	var b strings.Builder
	fmt.Fprintf(&b, "Dairy digest %s\n", today.Date)
	fmt.Fprintf(&b, "Customers: %d\n", d.Totals.TotalCustomers)
	fmt.Fprintf(&b, "Milk delivered: %s\n", dashboard.Liters(d.Totals.TotalMilkLiters))
	fmt.Fprintf(&b, "Bill: %s | Paid: %s | Dues: %s\n",
		s.money(d.Totals.TotalBill.StringFixed(2)),
		s.money(d.Totals.TotalPayment.StringFixed(2)),
		s.money(d.Totals.TotalDues.StringFixed(2)))
	fmt.Fprintf(&b, "Today: morning %s, evening %s, total %s\n",
		today.Labels.Morning, today.Labels.Evening, dashboard.Liters(today.Total.Liters))

	if len(d.Days) > 1 {
		fmt.Fprintf(&b, "Vs yesterday: %s %s", today.GrowthDirection, today.Labels.Growth)
	} else {
		b.WriteString("Vs yesterday: n/a")
	}

	if d.Skipped > 0 {
		fmt.Fprintf(&b, "\n%d malformed records skipped.", d.Skipped)
	}

	s.logger.Debug("daily digest generated", zap.String("date", today.Date))
	return b.String(), nil
}

func (s *Service) money(amount string) string {
	if s.currency == "" {
		return amount
	}
	return s.currency + " " + amount
}
