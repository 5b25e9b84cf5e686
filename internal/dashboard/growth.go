package dashboard

// Direction is the sign of a day-over-day change.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// fromZeroGrowth is reported when volume appears after a day with none.
const fromZeroGrowth = 100.0

// DayWithGrowth is a DaySummary annotated with its change against the
// previous day of the series.
type DayWithGrowth struct {
	DaySummary
	GrowthRate      float64   `json:"growthRate"`
	GrowthDirection Direction `json:"growthDirection"`
}

// AnnotateGrowth computes the percentage change of total liters between
// consecutive days. The first day has no predecessor and stays neutral.
func AnnotateGrowth(series []DaySummary) []DayWithGrowth {
	out := make([]DayWithGrowth, len(series))

	for i, day := range series {
		out[i] = DayWithGrowth{DaySummary: day, GrowthDirection: DirectionNeutral}
		if i == 0 {
			continue
		}

		rate := growthRate(series[i-1].Total.Liters, day.Total.Liters)
		out[i].GrowthRate = rate
		switch {
		case rate > 0:
			out[i].GrowthDirection = DirectionUp
		case rate < 0:
			out[i].GrowthDirection = DirectionDown
		}
	}

	return out
}

func growthRate(prev, curr float64) float64 {
	switch {
	case prev > 0:
		return (curr - prev) / prev * 100
	case curr > 0:
		return fromZeroGrowth
	default:
		return 0
	}
}
