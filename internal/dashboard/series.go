package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

// DefaultWindowDays is the length of the dashboard chart window.
const DefaultWindowDays = 7

// Volume is a liters/amount pair for one bucket of a day.
type Volume struct {
	Liters float64         `json:"liters"`
	Amount decimal.Decimal `json:"amount"`
}

func (v Volume) add(e models.MilkEntry) Volume {
	return Volume{Liters: v.Liters + e.Liters, Amount: v.Amount.Add(e.Total)}
}

// DaySummary aggregates one calendar day of milk entries.
//
// Total is summed over every entry of the day, so it exceeds Morning+Evening
// when entries carry a time value outside those two buckets.
type DaySummary struct {
	Date    string `json:"date"`
	Morning Volume `json:"morning"`
	Evening Volume `json:"evening"`
	Total   Volume `json:"total"`
}

// WindowDays lists the windowDays calendar days ending at reference, oldest
// first, formatted in reference's location.
func WindowDays(reference time.Time, windowDays int) []string {
	if windowDays <= 0 {
		return nil
	}
	y, m, d := reference.Date()
	anchor := time.Date(y, m, d, 12, 0, 0, 0, reference.Location())

	days := make([]string, windowDays)
	for i := range days {
		days[i] = anchor.AddDate(0, 0, i-(windowDays-1)).Format(models.DateLayout)
	}
	return days
}

// BuildDailySeries groups entries into a fixed window of days ending at
// reference. Every day of the window is present even without entries.
//
// Entries with a malformed date are left out and reported as *models.DataError
// values combined into the returned error; the series is complete regardless.
func BuildDailySeries(entries []models.MilkEntry, reference time.Time, windowDays int) ([]DaySummary, error) {
	days := WindowDays(reference, windowDays)
	series := make([]DaySummary, len(days))
	index := make(map[string]int, len(days))
	for i, day := range days {
		series[i] = DaySummary{
			Date:    day,
			Morning: Volume{Amount: decimal.Zero},
			Evening: Volume{Amount: decimal.Zero},
			Total:   Volume{Amount: decimal.Zero},
		}
		index[day] = i
	}

	var errs error
	for n, e := range entries {
		if _, err := time.Parse(models.DateLayout, e.Date); err != nil {
			errs = multierr.Append(errs, &models.DataError{Resource: models.ResourceMilk, Index: n, Field: "date", Err: models.ErrInvalidDate})
			continue
		}

		i, ok := index[e.Date]
		if !ok {
			continue
		}

		day := &series[i]
		switch e.Time {
		case models.Morning:
			day.Morning = day.Morning.add(e)
		case models.Evening:
			day.Evening = day.Evening.add(e)
		}
		day.Total = day.Total.add(e)
	}

	return series, errs
}
