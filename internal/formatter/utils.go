package formatter

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/yildizm/EstateInsights/internal/chart"
	"github.com/yildizm/EstateInsights/internal/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCount formats a count with thousands separators
func FormatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// FormatAmount formats a value to two decimals with thousands separators
func FormatAmount(f float64) string {
	return message.NewPrinter(language.English).Sprintf("%.2f", f)
}

// FormatDelta renders a year-over-range change such as "+12.5%", or N/A
func FormatDelta(d chart.Delta) string {
	if !d.OK {
		return "N/A"
	}
	return fmt.Sprintf("%+.1f%%", d.Percent)
}

// FormatPrice renders a per-sqft rate in rupees
func FormatPrice(f float64) string {
	return "₹" + FormatAmount(f) + "/sqft"
}

// FormatSales renders a sales total in crores
func FormatSales(f float64) string {
	return "₹" + FormatAmount(f) + " Cr"
}

func metricsRange(m chart.Metrics) string {
	return fmt.Sprintf("%d-%d", m.YearRange.Start, m.YearRange.End)
}

// renderGrid lays out rows in aligned columns. Widths are measured in
// terminal cells so wide runes such as ₹ line up.
func renderGrid(columns []string, rows []table.Record) string {
	headers := make([]string, len(columns))
	widths := make([]int, len(columns))
	for i, col := range columns {
		headers[i] = table.FormatColumnName(col)
		widths[i] = runewidth.StringWidth(headers[i])
	}

	cells := make([][]string, len(rows))
	for r, rec := range rows {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			v, _ := rec.Get(col)
			cells[r][i] = v.String()
			if w := runewidth.StringWidth(cells[r][i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(values []string) {
		for i, v := range values {
			if i > 0 {
				b.WriteString(" │ ")
			}
			b.WriteString(runewidth.FillRight(v, widths[i]))
		}
		b.WriteString("\n")
	}

	writeRow(headers)
	for i, w := range widths {
		if i > 0 {
			b.WriteString("─┼─")
		}
		b.WriteString(strings.Repeat("─", w))
	}
	b.WriteString("\n")
	for _, row := range cells {
		writeRow(row)
	}
	return b.String()
}
