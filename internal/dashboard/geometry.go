package dashboard

import "math"

// Chart defaults matching the dashboard canvas.
const (
	DefaultChartHeight = 300.0
	DefaultMinScale    = 10.0
	DefaultAxisReserve = 32.0
)

var tickRatios = []float64{0, 0.25, 0.5, 0.75, 1}

// ChartOptions controls the projection of a series onto the canvas.
// Non-positive values fall back to the defaults.
type ChartOptions struct {
	ChartHeight float64
	MinScale    float64
	// AxisReserve is the band at the bottom of the canvas kept for day labels.
	AxisReserve float64
}

func (o ChartOptions) withDefaults() ChartOptions {
	if o.ChartHeight <= 0 {
		o.ChartHeight = DefaultChartHeight
	}
	if o.MinScale <= 0 {
		o.MinScale = DefaultMinScale
	}
	if o.AxisReserve <= 0 {
		o.AxisReserve = DefaultAxisReserve
	}
	return o
}

// Bar is a rectangle. X and Width are percentages of the canvas width;
// Y and Height are canvas units measured from the top.
type Bar struct {
	X      float64 `json:"x"`
	Width  float64 `json:"width"`
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
}

// Point is a position with X in percent of the canvas width and Y in canvas units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment joins two consecutive day markers.
type Segment struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// AxisTick is a horizontal grid line with its liters label value.
type AxisTick struct {
	Ratio float64 `json:"ratio"`
	Value float64 `json:"value"`
	Y     float64 `json:"y"`
}

// DayShapes holds the drawing primitives of one day slot.
type DayShapes struct {
	Morning Bar   `json:"morning"`
	Evening Bar   `json:"evening"`
	Marker  Point `json:"marker"`
}

// Chart is the full set of positioned shapes for the series.
type Chart struct {
	Height     float64     `json:"height"`
	PlotHeight float64     `json:"plotHeight"`
	MaxValue   float64     `json:"maxValue"`
	Ticks      []AxisTick  `json:"ticks"`
	Days       []DayShapes `json:"days"`
	Line       []Segment   `json:"line"`
}

// ProjectToChartGeometry scales the series onto a fixed-height canvas. Values
// are divided by max(MinScale, largest bucket), so an empty series draws flat
// at zero instead of dividing by zero.
func ProjectToChartGeometry(series []DayWithGrowth, opts ChartOptions) Chart {
	opts = opts.withDefaults()

	maxValue := opts.MinScale
	for _, day := range series {
		maxValue = math.Max(maxValue, math.Max(day.Morning.Liters, math.Max(day.Evening.Liters, day.Total.Liters)))
	}

	plot := math.Max(0, opts.ChartHeight-opts.AxisReserve)
	scale := func(v float64) float64 { return v / maxValue * plot }

	chart := Chart{
		Height:     opts.ChartHeight,
		PlotHeight: plot,
		MaxValue:   maxValue,
		Ticks:      make([]AxisTick, len(tickRatios)),
		Days:       make([]DayShapes, len(series)),
		Line:       make([]Segment, 0, max(len(series)-1, 0)),
	}

	for i, r := range tickRatios {
		chart.Ticks[i] = AxisTick{Ratio: r, Value: math.Round(maxValue * r), Y: plot - r*plot}
	}

	n := float64(len(series))
	for i, day := range series {
		slot := float64(i) * 100 / n
		barWidth := 100 / (n * 3)

		morning := scale(day.Morning.Liters)
		evening := scale(day.Evening.Liters)
		total := scale(day.Total.Liters)

		chart.Days[i] = DayShapes{
			Morning: Bar{X: slot + barWidth*0.5, Width: barWidth, Y: plot - morning, Height: morning},
			Evening: Bar{X: slot + barWidth*1.5, Width: barWidth, Y: plot - evening, Height: evening},
			Marker:  Point{X: slot + barWidth*1.5, Y: plot - total},
		}

		if i > 0 {
			chart.Line = append(chart.Line, Segment{From: chart.Days[i-1].Marker, To: chart.Days[i].Marker})
		}
	}

	return chart
}
