package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

// DayLabels are the texts printed under a day slot.
type DayLabels struct {
	Weekday    string `json:"weekday"`
	MonthDay   string `json:"monthDay"`
	Morning    string `json:"morning"`
	Evening    string `json:"evening"`
	Total      string `json:"total"`
	Growth     string `json:"growth"`
	Arrow      string `json:"arrow"`
	ShowGrowth bool   `json:"showGrowth"`
}

var arrows = map[Direction]string{
	DirectionUp:      "▲",
	DirectionDown:    "▼",
	DirectionNeutral: "—",
}

// LabelDay formats the labels of the day at position index in its series.
func LabelDay(day DayWithGrowth, index int) DayLabels {
	labels := DayLabels{
		Morning:    Liters(day.Morning.Liters),
		Evening:    Liters(day.Evening.Liters),
		Total:      "Total: " + Liters(day.Total.Liters),
		Growth:     fmt.Sprintf("%.1f%%", math.Abs(day.GrowthRate)),
		Arrow:      arrows[DirectionNeutral],
		ShowGrowth: index > 0,
	}

	if a, ok := arrows[day.GrowthDirection]; ok {
		labels.Arrow = a
	}

	if t, err := time.Parse(models.DateLayout, day.Date); err == nil {
		labels.Weekday = t.Format("Mon")
		labels.MonthDay = t.Format("Jan 2")
	}

	return labels
}

// Liters formats a volume with one decimal and an L suffix.
func Liters(v float64) string {
	return fmt.Sprintf("%.1fL", v)
}
