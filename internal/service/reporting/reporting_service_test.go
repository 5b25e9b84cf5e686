package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/dairy/internal/dashboard"
	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/service/admin"
)

type stubRefresher struct {
	state admin.State
	calls int
}

func (s *stubRefresher) Refresh(context.Context) admin.State {
	s.calls++
	return s.state
}

func readyState(t *testing.T, snapshot models.Snapshot, window int) admin.State {
	t.Helper()
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	d, err := dashboard.Build(snapshot, now, dashboard.Options{WindowDays: window})
	require.NoError(t, err)
	return admin.State{Status: admin.StatusReady, Dashboard: &d, UpdatedAt: now}
}

func TestGenerateDailyDigest(t *testing.T) {
	snapshot := models.Snapshot{
		Entries: []models.MilkEntry{
			{Date: "2024-03-09", Time: models.Morning, Liters: 4, Total: decimal.NewFromInt(40)},
			{Date: "2024-03-10", Time: models.Morning, Liters: 10, Total: decimal.NewFromInt(100)},
			{Date: "2024-03-10", Time: models.Evening, Liters: 5, Total: decimal.NewFromInt(50)},
		},
		Payments: []models.Payment{{Amount: decimal.NewFromInt(60)}},
		Users:    []models.User{{Role: models.RoleCustomer}, {Role: "admin"}},
		Skipped:  3,
	}
	refresher := &stubRefresher{state: readyState(t, snapshot, 7)}

	digest, err := NewService(refresher, "RS", nil).GenerateDailyDigest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, refresher.calls)

	want := "Dairy digest 2024-03-10\n" +
		"Customers: 1\n" +
		"Milk delivered: 19.0L\n" +
		"Bill: RS 190.00 | Paid: RS 60.00 | Dues: RS 130.00\n" +
		"Today: morning 10.0L, evening 5.0L, total 15.0L\n" +
		"Vs yesterday: up 275.0%\n" +
		"3 malformed records skipped."
	assert.Equal(t, want, digest)
}

func TestGenerateDailyDigest_SingleDayWithoutCurrency(t *testing.T) {
	refresher := &stubRefresher{state: readyState(t, models.Snapshot{}, 1)}

	digest, err := NewService(refresher, "", nil).GenerateDailyDigest(context.Background())
	require.NoError(t, err)
	assert.Contains(t, digest, "Bill: 0.00 | Paid: 0.00 | Dues: 0.00\n")
	assert.Contains(t, digest, "Vs yesterday: n/a")
	assert.NotContains(t, digest, "skipped")
}

func TestGenerateDailyDigest_Failed(t *testing.T) {
	cause := &models.FetchError{Resource: models.ResourcePayments, Err: errors.New("timeout")}
	refresher := &stubRefresher{state: admin.State{Status: admin.StatusFailed, Err: cause}}

	_, err := NewService(refresher, "RS", nil).GenerateDailyDigest(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "fetch payments: timeout")
}

func TestGenerateDailyDigest_NoDays(t *testing.T) {
	refresher := &stubRefresher{state: admin.State{Status: admin.StatusReady, Dashboard: &dashboard.Dashboard{}}}

	_, err := NewService(refresher, "RS", nil).GenerateDailyDigest(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}
