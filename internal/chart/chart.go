package chart

import (
	"fmt"
	"strings"
)

// Point is one year of aggregated market data
type Point struct {
	Year       int      `json:"year"`
	TotalSales float64  `json:"totalSales"` // crores
	TotalSold  int      `json:"totalSold"`
	FlatRate   *float64 `json:"flatRate,omitempty"` // per sqft, absent when no flat sales
	OfficeRate *float64 `json:"officeRate,omitempty"`
	ShopRate   *float64 `json:"shopRate,omitempty"`
	CarpetArea *float64 `json:"carpetArea,omitempty"`
}

// Mode selects how the yearly series are drawn
type Mode int

const (
	Composed Mode = iota
	Line
	Bar
	Area
)

var modeNames = []string{"composed", "line", "bar", "area"}

// Modes lists every display mode in cycle order
func Modes() []Mode {
	return []Mode{Composed, Line, Bar, Area}
}

func (m Mode) String() string {
	if m < Composed || m > Area {
		return modeNames[Composed]
	}
	return modeNames[m]
}

// Title is the label shown on the mode switcher
func (m Mode) Title() string {
	s := m.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseMode maps a name to a mode; unknown names give Composed
func ParseMode(s string) Mode {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if name == s {
			return Mode(i)
		}
	}
	return Composed
}

// Next returns the following mode, wrapping around
func (m Mode) Next() Mode {
	return Mode((int(m.normalize()) + 1) % len(modeNames))
}

func (m Mode) normalize() Mode {
	if m < Composed || m > Area {
		return Composed
	}
	return m
}

// Kind is how a single series is drawn
type Kind int

const (
	KindLine Kind = iota
	KindBar
	KindArea
)

func (k Kind) String() string {
	switch k {
	case KindBar:
		return "bar"
	case KindArea:
		return "area"
	default:
		return "line"
	}
}

// Metric identifies a series value on a Point
type Metric int

const (
	FlatRate Metric = iota
	UnitsSold
	TotalSales
)

// Value returns the metric for p; ok is false when the point has no value
func (m Metric) Value(p Point) (float64, bool) {
	switch m {
	case FlatRate:
		if p.FlatRate == nil {
			return 0, false
		}
		return *p.FlatRate, true
	case UnitsSold:
		return float64(p.TotalSold), true
	case TotalSales:
		return p.TotalSales, true
	default:
		return 0, false
	}
}

// Series is one plotted metric
type Series struct {
	Metric Metric
	Label  string
	Kind   Kind
}

// SeriesFor returns the series drawn in a mode. Composed mixes kinds;
// the single-kind modes draw every metric the same way.
func SeriesFor(mode Mode) []Series {
	base := []Series{
		{Metric: FlatRate, Label: "Flat Rate (₹/sqft)"},
		{Metric: UnitsSold, Label: "Units Sold"},
		{Metric: TotalSales, Label: "Total Sales (Cr)"},
	}

	switch mode.normalize() {
	case Line:
		for i := range base {
			base[i].Kind = KindLine
		}
	case Bar:
		for i := range base {
			base[i].Kind = KindBar
		}
	case Area:
		for i := range base {
			base[i].Kind = KindArea
		}
	default:
		base[0].Kind = KindLine
		base[1].Kind = KindBar
		base[2].Kind = KindArea
	}
	return base
}

// Values extracts a metric across points. Missing values are reported
// in the returned mask.
func Values(points []Point, m Metric) ([]float64, []bool) {
	vals := make([]float64, len(points))
	present := make([]bool, len(points))
	for i, p := range points {
		vals[i], present[i] = m.Value(p)
	}
	return vals, present
}

// Scale maps values onto 0..height-1 rows relative to the largest value.
// Missing or non-positive values map to -1.
func Scale(values []float64, present []bool, height int) []int {
	rows := make([]int, len(values))
	if height < 1 {
		height = 1
	}

	maxVal := 0.0
	for i, v := range values {
		if present[i] && v > maxVal {
			maxVal = v
		}
	}

	for i, v := range values {
		if !present[i] || v <= 0 || maxVal == 0 {
			rows[i] = -1
			continue
		}
		rows[i] = int(v / maxVal * float64(height-1))
	}
	return rows
}

// YearLabels returns the x axis labels
func YearLabels(points []Point) []string {
	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = fmt.Sprintf("%d", p.Year)
	}
	return labels
}
