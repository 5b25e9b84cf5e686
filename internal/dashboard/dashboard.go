// Package dashboard turns a snapshot of milk entries, payments and users into
// the summary cards and the daily chart shown on the admin dashboard. Every
// function here is pure.
package dashboard

import (
	"time"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

// Options configures the series window and the chart canvas.
type Options struct {
	WindowDays int
	Chart      ChartOptions
}

// Day is one slot of the chart with its figures and labels.
type Day struct {
	DayWithGrowth
	Labels DayLabels `json:"labels"`
}

// Dashboard is everything the rendering layer needs for one page.
type Dashboard struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Totals      Totals    `json:"totals"`
	Days        []Day     `json:"days"`
	Chart       Chart     `json:"chart"`
	Skipped     int       `json:"skippedRecords"`
}

// Build runs the full pipeline over snapshot with now as the last day of the
// window. The returned error only reports entries left out of the series; the
// dashboard is always usable.
func Build(snapshot models.Snapshot, now time.Time, opts Options) (Dashboard, error) {
	window := opts.WindowDays
	if window <= 0 {
		window = DefaultWindowDays
	}

	series, err := BuildDailySeries(snapshot.Entries, now, window)
	withGrowth := AnnotateGrowth(series)

	days := make([]Day, len(withGrowth))
	for i, d := range withGrowth {
		days[i] = Day{DayWithGrowth: d, Labels: LabelDay(d, i)}
	}

	return Dashboard{
		GeneratedAt: now,
		Totals:      ComputeSummaryTotals(snapshot.Entries, snapshot.Payments, snapshot.Users),
		Days:        days,
		Chart:       ProjectToChartGeometry(withGrowth, opts.Chart),
		Skipped:     snapshot.Skipped,
	}, err
}
