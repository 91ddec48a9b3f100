package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/EstateInsights/internal/chart"
	"github.com/yildizm/EstateInsights/internal/session"
	"github.com/yildizm/EstateInsights/internal/summary"
	"github.com/yildizm/EstateInsights/internal/table"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("no analysis to format")
	}
	res := report.Result
	var b strings.Builder

	fmt.Fprintf(&b, "# Real Estate Analysis: %s\n\n", res.Response.Area)
	if report.Query != "" {
		fmt.Fprintf(&b, "Query: `%s`\n\n", report.Query)
	}
	if !report.Generated.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n\n", report.Generated.Format("2006-01-02 15:04:05"))
	}

	f.writeTableOfContents(&b, report)
	f.writeSummaryTable(&b, res)
	f.writeTrendSection(&b, res.Response.ChartData)
	f.writeDataSection(&b, res.Table)
	f.writeAnalysisSection(&b, res.Response.Summary)

	if report.AISummary != "" {
		b.WriteString("## AI Summary\n\n")
		b.WriteString(strings.TrimSpace(report.AISummary) + "\n\n")
	}

	b.WriteString("---\n")
	b.WriteString("*Report generated by EstateInsights*\n")
	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeTableOfContents(b *strings.Builder, report *Report) {
	b.WriteString("## Table of Contents\n")
	b.WriteString("- [Summary](#summary)\n")
	if len(report.Result.Response.ChartData) > 0 {
		b.WriteString("- [Yearly Trend](#yearly-trend)\n")
	}
	b.WriteString("- [Data](#data)\n")
	if strings.TrimSpace(report.Result.Response.Summary) != "" {
		b.WriteString("- [Analysis](#analysis)\n")
	}
	if report.AISummary != "" {
		b.WriteString("- [AI Summary](#ai-summary)\n")
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, res *session.Result) {
	b.WriteString("## Summary\n\n")

	k := res.Key
	avgPrice := "N/A"
	if k.AvgPriceFrom != summary.SourceNone {
		avgPrice = FormatPrice(k.AvgPrice)
	}
	units := "N/A"
	if k.TotalUnitsFrom != summary.SourceNone {
		units = FormatCount(k.TotalUnits)
	}
	years := metricsRange(res.Metrics)
	if k.YearRangeFrom != summary.SourceNone {
		years = k.YearRange
	}

	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Average Price | %s |\n", avgPrice)
	fmt.Fprintf(b, "| Total Units | %s |\n", units)
	fmt.Fprintf(b, "| Year Range | %s |\n", years)
	fmt.Fprintf(b, "| Total Sales | %s |\n", FormatSales(res.Metrics.SalesTotal))
	fmt.Fprintf(b, "| Price Change | %s |\n", FormatDelta(res.Deltas.Price))
	fmt.Fprintf(b, "| Sales Change | %s |\n", FormatDelta(res.Deltas.Sales))
	fmt.Fprintf(b, "| Price Trend | %s |\n\n", res.Metrics.PriceTrend)
}

// writeTrendSection draws total sales per year as an ASCII bar chart
func (f *markdownFormatter) writeTrendSection(b *strings.Builder, points []chart.Point) {
	if len(points) == 0 {
		return
	}
	b.WriteString("## Yearly Trend\n\n")
	b.WriteString("```\n")

	maxSales := 0.0
	for _, p := range points {
		if p.TotalSales > maxSales {
			maxSales = p.TotalSales
		}
	}

	for _, p := range points {
		barLength := 0
		if maxSales > 0 {
			barLength = int(p.TotalSales / maxSales * 20)
		}
		if barLength < 0 {
			barLength = 0
		}
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 20-barLength)
		fmt.Fprintf(b, "%d │%s│ %s, %s units\n", p.Year, bar, FormatSales(p.TotalSales), FormatCount(p.TotalSold))
	}
	b.WriteString("```\n\n")
}

// writeDataSection writes every matched record in view order
func (f *markdownFormatter) writeDataSection(b *strings.Builder, tbl *table.Table) {
	b.WriteString("## Data\n\n")

	view := tbl.View()
	if len(view.Matched) == 0 {
		if view.Total == 0 {
			b.WriteString("No data available\n\n")
		} else {
			b.WriteString("No results found\n\n")
		}
		return
	}

	headers := make([]string, len(view.Columns))
	rule := make([]string, len(view.Columns))
	for i, col := range view.Columns {
		headers[i] = escapeCell(table.FormatColumnName(col))
		rule[i] = "---"
	}
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Join(rule, "|") + "|\n")

	for _, rec := range view.Matched {
		cells := make([]string, len(view.Columns))
		for i, col := range view.Columns {
			v, _ := rec.Get(col)
			cells[i] = escapeCell(v.String())
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	if state := tbl.State(); state.SearchTerm != "" {
		fmt.Fprintf(b, "\n%d of %d records match %q\n", len(view.Matched), view.Total, state.SearchTerm)
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeAnalysisSection(b *strings.Builder, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	b.WriteString("## Analysis\n\n")
	b.WriteString("```\n")
	b.WriteString(strings.Join(summary.Lines(text), "\n"))
	b.WriteString("\n```\n\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
