package chart

import "math"

// Delta is a first-to-last percentage change rounded to one decimal
type Delta struct {
	Percent float64
	OK      bool
}

// Up reports a positive change
func (d Delta) Up() bool {
	return d.OK && d.Percent > 0
}

// Deltas holds the summary changes shown above the chart
type Deltas struct {
	Price Delta // flat rate
	Sales Delta // total sales
}

// ComputeDeltas derives the price and sales changes. A change is not OK
// when there are no points or the first value is zero or missing.
func ComputeDeltas(points []Point) Deltas {
	return Deltas{
		Price: change(points, FlatRate),
		Sales: change(points, TotalSales),
	}
}

func change(points []Point, m Metric) Delta {
	if len(points) == 0 {
		return Delta{}
	}
	first, ok := m.Value(points[0])
	if !ok || first == 0 {
		return Delta{}
	}
	last, ok := m.Value(points[len(points)-1])
	if !ok {
		return Delta{}
	}
	return Delta{Percent: round1((last - first) / first * 100), OK: true}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// Trend labels for the price direction
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// TrendThreshold is the percent change beyond which prices are trending
const TrendThreshold = 5.0

// YearRange is an inclusive span of years
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Metrics is the aggregate handed to the summary generator
type Metrics struct {
	YearRange   YearRange `json:"yearRange"`
	SalesTotal  float64   `json:"salesTotal"`
	AvgPrice    float64   `json:"avgPrice"`
	TotalUnits  int       `json:"totalUnits"`
	PriceTrend  string    `json:"priceTrend"`
	PriceChange float64   `json:"priceChange"`
}

// Default span when no chart data is available
const (
	DefaultStartYear = 2020
	DefaultEndYear   = 2024
)

// ComputeMetrics aggregates points. The average price covers only the
// points that carry a flat rate.
func ComputeMetrics(points []Point) Metrics {
	m := Metrics{
		YearRange:  YearRange{Start: DefaultStartYear, End: DefaultEndYear},
		PriceTrend: TrendStable,
	}
	if len(points) == 0 {
		return m
	}

	if y := points[0].Year; y != 0 {
		m.YearRange.Start = y
	}
	if y := points[len(points)-1].Year; y != 0 {
		m.YearRange.End = y
	}

	var priceSum float64
	var priced int
	for _, p := range points {
		m.SalesTotal += p.TotalSales
		m.TotalUnits += p.TotalSold
		if p.FlatRate != nil {
			priceSum += *p.FlatRate
			priced++
		}
	}
	if priced > 0 {
		m.AvgPrice = round2(priceSum / float64(priced))
	}
	m.SalesTotal = round2(m.SalesTotal)

	if d := change(points, FlatRate); d.OK {
		m.PriceChange = d.Percent
		m.PriceTrend = TrendFor(d.Percent)
	}
	return m
}

// TrendFor classifies a percent change
func TrendFor(percent float64) string {
	switch {
	case percent > TrendThreshold:
		return TrendIncreasing
	case percent < -TrendThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
