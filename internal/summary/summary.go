// Package summary pulls the headline metrics shown above an analysis
// summary. Structured chart data is authoritative; the free-text summary
// is scraped only for fields the structured data cannot supply.
package summary

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yildizm/EstateInsights/internal/chart"
)

// Source records where a metric came from
type Source string

const (
	SourceNone       Source = ""
	SourceStructured Source = "structured"
	SourceText       Source = "text"
)

// KeyMetrics are the badges displayed with a summary
type KeyMetrics struct {
	AvgPrice    float64
	TotalUnits  int
	YearRange   string
	PriceChange float64

	AvgPriceFrom    Source
	TotalUnitsFrom  Source
	YearRangeFrom   Source
	PriceChangeFrom Source
}

// HasAny reports whether at least one metric was found
func (k KeyMetrics) HasAny() bool {
	return k.AvgPriceFrom != SourceNone || k.TotalUnitsFrom != SourceNone ||
		k.YearRangeFrom != SourceNone || k.PriceChangeFrom != SourceNone
}

var (
	avgPricePattern    = regexp.MustCompile(`(?i)Average.*?(?:Rate|Price).*?₹([\d,.]+)`)
	totalUnitsPattern  = regexp.MustCompile(`(?i)Total Units.*?([\d,]+)`)
	yearRangePattern   = regexp.MustCompile(`(?i)(?:Period|Time Period).*?(\d{4}-\d{4})`)
	priceChangePattern = regexp.MustCompile(`(?i)\(([+-]?\d+\.?\d*)%\s*change\)`)
)

// Extract builds key metrics from chart points and the response year range,
// falling back to the summary text for anything still missing.
func Extract(text string, points []chart.Point, yearRange string) KeyMetrics {
	k := FromPoints(points, yearRange)
	fallback := ParseText(text)

	if k.AvgPriceFrom == SourceNone && fallback.AvgPriceFrom != SourceNone {
		k.AvgPrice, k.AvgPriceFrom = fallback.AvgPrice, SourceText
	}
	if k.TotalUnitsFrom == SourceNone && fallback.TotalUnitsFrom != SourceNone {
		k.TotalUnits, k.TotalUnitsFrom = fallback.TotalUnits, SourceText
	}
	if k.YearRangeFrom == SourceNone && fallback.YearRangeFrom != SourceNone {
		k.YearRange, k.YearRangeFrom = fallback.YearRange, SourceText
	}
	if k.PriceChangeFrom == SourceNone && fallback.PriceChangeFrom != SourceNone {
		k.PriceChange, k.PriceChangeFrom = fallback.PriceChange, SourceText
	}
	return k
}

// FromPoints reads metrics from structured data only
func FromPoints(points []chart.Point, yearRange string) KeyMetrics {
	var k KeyMetrics

	if yearRange = strings.TrimSpace(yearRange); yearRange != "" {
		k.YearRange, k.YearRangeFrom = yearRange, SourceStructured
	}
	if len(points) == 0 {
		return k
	}

	m := chart.ComputeMetrics(points)
	if k.YearRangeFrom == SourceNone {
		k.YearRange = strconv.Itoa(m.YearRange.Start) + "-" + strconv.Itoa(m.YearRange.End)
		k.YearRangeFrom = SourceStructured
	}
	k.TotalUnits, k.TotalUnitsFrom = m.TotalUnits, SourceStructured

	for _, p := range points {
		if p.FlatRate != nil {
			k.AvgPrice, k.AvgPriceFrom = m.AvgPrice, SourceStructured
			break
		}
	}
	if d := chart.ComputeDeltas(points).Price; d.OK {
		k.PriceChange, k.PriceChangeFrom = d.Percent, SourceStructured
	}
	return k
}

// ParseText scrapes metrics from a generated summary
func ParseText(text string) KeyMetrics {
	var k KeyMetrics

	if m := avgPricePattern.FindStringSubmatch(text); m != nil {
		if f, err := parseNumber(m[1]); err == nil {
			k.AvgPrice, k.AvgPriceFrom = f, SourceText
		}
	}
	if m := totalUnitsPattern.FindStringSubmatch(text); m != nil {
		if f, err := parseNumber(m[1]); err == nil {
			k.TotalUnits, k.TotalUnitsFrom = int(f), SourceText
		}
	}
	if m := yearRangePattern.FindStringSubmatch(text); m != nil {
		k.YearRange, k.YearRangeFrom = m[1], SourceText
	}
	if m := priceChangePattern.FindStringSubmatch(text); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			k.PriceChange, k.PriceChangeFrom = f, SourceText
		}
	}
	return k
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimRight(strings.ReplaceAll(s, ",", ""), ".")
	return strconv.ParseFloat(s, 64)
}

// Lines splits a summary into display lines, dropping rule lines made of
// '=' and trailing blank space.
func Lines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, " \t")
		if line != "" && strings.Trim(line, "=") == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
