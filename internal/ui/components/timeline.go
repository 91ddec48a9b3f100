package components

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/EstateInsights/internal/chart"
)

// column width per year; fits a four digit label plus spacing
const yearColumnWidth = 6

// YearlyChart draws each metric series as its own strip over a shared
// year axis. Series are scaled independently.
type YearlyChart struct {
	Title  string
	Points []chart.Point
	Mode   chart.Mode
	Width  int
	Height int // rows per series strip
}

// NewYearlyChart creates a new yearly chart
func NewYearlyChart(title string, points []chart.Point, mode chart.Mode, width, height int) *YearlyChart {
	return &YearlyChart{
		Title:  title,
		Points: points,
		Mode:   mode,
		Width:  width,
		Height: height,
	}
}

// Render renders the chart
func (c *YearlyChart) Render() string {
	titleStyle := lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1)
	if c.Width > 0 {
		boxStyle = boxStyle.Width(c.Width)
	}

	header := titleStyle.Render(c.Title) + lipgloss.NewStyle().Foreground(mutedColor).Render("  ["+c.Mode.Title()+"]")
	if len(c.Points) == 0 {
		empty := lipgloss.NewStyle().Foreground(mutedColor).Render("No chart data available")
		return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", empty))
	}

	content := []string{header, ""}
	for i, s := range chart.SeriesFor(c.Mode) {
		color := seriesColors[i%len(seriesColors)]
		content = append(content, c.renderSeries(s, color), "")
	}
	content = append(content, c.renderYearAxis())

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

func (c *YearlyChart) renderSeries(s chart.Series, color lipgloss.AdaptiveColor) string {
	height := c.Height
	if height < 2 {
		height = 2
	}

	values, present := chart.Values(c.Points, s.Metric)
	rows := chart.Scale(values, present, height)

	labelStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	style := lipgloss.NewStyle().Foreground(color)
	muted := lipgloss.NewStyle().Foreground(mutedColor)

	lines := []string{labelStyle.Render(s.Label) + muted.Render(" ("+s.Kind.String()+")")}
	for row := height - 1; row >= 0; row-- {
		var line strings.Builder
		line.WriteString(muted.Render("│"))
		for _, top := range rows {
			line.WriteString(style.Render(cell(s.Kind, top, row)))
		}
		lines = append(lines, line.String())
	}

	var valueLine strings.Builder
	valueLine.WriteString(" ")
	for i := range values {
		valueLine.WriteString(padCenter(shortValue(values[i], present[i]), yearColumnWidth))
	}
	lines = append(lines, muted.Render(valueLine.String()))

	return strings.Join(lines, "\n")
}

// cell returns the glyphs for one year column at row, given the top row
// of that year's value (-1 when missing)
func cell(kind chart.Kind, top, row int) string {
	blank := strings.Repeat(" ", yearColumnWidth)
	if top < 0 {
		if row == 0 {
			return padCenter("·", yearColumnWidth)
		}
		return blank
	}

	switch kind {
	case chart.KindBar:
		if row <= top {
			return " " + strings.Repeat("█", yearColumnWidth-2) + " "
		}
	case chart.KindArea:
		if row == top {
			return strings.Repeat("▄", yearColumnWidth)
		}
		if row < top {
			return strings.Repeat("░", yearColumnWidth)
		}
	default:
		if row == top {
			return padCenter("●", yearColumnWidth)
		}
	}
	return blank
}

func (c *YearlyChart) renderYearAxis() string {
	muted := lipgloss.NewStyle().Foreground(mutedColor)

	var axis, labels strings.Builder
	axis.WriteString("└")
	labels.WriteString(" ")
	for _, label := range chart.YearLabels(c.Points) {
		axis.WriteString(strings.Repeat("─", yearColumnWidth))
		labels.WriteString(padCenter(label, yearColumnWidth))
	}
	return muted.Render(axis.String()) + "\n" + muted.Render(labels.String())
}

// shortValue abbreviates large values so they fit a year column
func shortValue(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	switch {
	case math.Abs(v) >= 1e6:
		return trimFloat(v/1e6) + "M"
	case math.Abs(v) >= 1e3:
		return trimFloat(v/1e3) + "k"
	default:
		return trimFloat(v)
	}
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) || math.Abs(v) >= 100 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func padCenter(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

// SparklineChart represents a compact sparkline chart
type SparklineChart struct {
	Values []float64
	Width  int
	Min    float64
	Max    float64
}

// NewSparklineChart creates a new sparkline chart
func NewSparklineChart(values []float64, width int) *SparklineChart {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)

	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	return &SparklineChart{
		Values: values,
		Width:  width,
		Min:    minVal,
		Max:    maxVal,
	}
}

// Render renders the sparkline chart
func (s *SparklineChart) Render() string {
	if len(s.Values) == 0 || s.Width < 1 {
		return ""
	}

	chars := []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

	var result strings.Builder

	step := len(s.Values) / s.Width
	if step == 0 {
		step = 1
	}

	for i := 0; i < s.Width && i*step < len(s.Values); i++ {
		value := s.Values[i*step]

		normalized := 0.0
		if s.Max > s.Min {
			normalized = (value - s.Min) / (s.Max - s.Min)
		}

		charIndex := int(normalized * float64(len(chars)-1))
		if charIndex >= len(chars) {
			charIndex = len(chars) - 1
		}

		result.WriteString(chars[charIndex])
	}

	return result.String()
}

// NewPriceSparkline plots the flat rate across years, skipping years
// without one
func NewPriceSparkline(points []chart.Point, width int) *SparklineChart {
	values, present := chart.Values(points, chart.FlatRate)
	var kept []float64
	for i, v := range values {
		if present[i] {
			kept = append(kept, v)
		}
	}
	return NewSparklineChart(kept, width)
}
