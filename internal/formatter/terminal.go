package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/EstateInsights/internal/chart"
	"github.com/yildizm/EstateInsights/internal/emoji"
	"github.com/yildizm/EstateInsights/internal/summary"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("no analysis to format")
	}
	res := report.Result
	var b strings.Builder

	f.writeHeader(&b, res.Response.Area)
	f.writeKeyMetrics(&b, res.Key)
	f.writeTrends(&b, res.Metrics, res.Deltas)
	f.writeTable(&b, report)
	f.writeSummary(&b, res.Response.Summary)
	f.writeAISummary(&b, report.AISummary)

	return []byte(b.String()), nil
}

func (f *terminalFormatter) writeHeader(b *strings.Builder, area string) {
	header := "Real Estate Analysis: " + area
	headerLen := len([]rune(header))

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeKeyMetrics writes the summary badges as a tree
func (f *terminalFormatter) writeKeyMetrics(b *strings.Builder, k summary.KeyMetrics) {
	if !k.HasAny() {
		return
	}

	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Key Metrics\n")

	var items []termfmt.TreeItem
	if k.AvgPriceFrom != summary.SourceNone {
		items = append(items, termfmt.TreeItem{Label: "Average Price", Value: FormatPrice(k.AvgPrice)})
	}
	if k.TotalUnitsFrom != summary.SourceNone {
		items = append(items, termfmt.TreeItem{Label: "Total Units", Value: FormatCount(k.TotalUnits)})
	}
	if k.YearRangeFrom != summary.SourceNone {
		items = append(items, termfmt.TreeItem{Label: "Year Range", Value: k.YearRange})
	}
	if k.PriceChangeFrom != summary.SourceNone {
		items = append(items, termfmt.TreeItem{Label: "Price Change", Value: fmt.Sprintf("%+.1f%%", k.PriceChange)})
	}
	items[len(items)-1].Last = true

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeTrends(b *strings.Builder, m chart.Metrics, d chart.Deltas) {
	b.WriteString(emoji.GetEmoji("chart") + " Trends\n")

	items := []termfmt.TreeItem{
		{Label: "Price", Value: f.delta(d.Price)},
		{Label: "Sales", Value: f.delta(d.Sales)},
		{Label: "Total Sales", Value: FormatSales(m.SalesTotal)},
		{Label: "Direction", Value: m.PriceTrend, Last: true},
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) delta(d chart.Delta) string {
	if !d.OK {
		return FormatDelta(d)
	}
	arrow := emoji.GetEmoji("down")
	if d.Up() {
		arrow = emoji.GetEmoji("up")
	}
	return arrow + " " + FormatDelta(d)
}

// writeTable writes the current page of the table view
func (f *terminalFormatter) writeTable(b *strings.Builder, report *Report) {
	tbl := report.Result.Table
	view := tbl.View()
	state := tbl.State()

	b.WriteString(emoji.GetEmoji("table") + " Data\n")
	if state.SearchTerm != "" {
		fmt.Fprintf(b, "Search: %q\n", state.SearchTerm)
	}
	if state.Sort.IsSorted() {
		fmt.Fprintf(b, "Sort: %s\n", state.Sort)
	}

	if len(view.Rows) == 0 {
		if view.Total == 0 {
			b.WriteString("No data available\n\n")
		} else {
			b.WriteString("No results found\n\n")
		}
		return
	}

	b.WriteString(renderGrid(view.Columns, view.Rows))
	fmt.Fprintf(b, "Showing %d to %d of %d results (page %d of %d)\n\n",
		view.Start, view.End, len(view.Matched), view.Page, view.TotalPages)
}

func (f *terminalFormatter) writeSummary(b *strings.Builder, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	symbol := termfmt.GetEmoji("summary", f.opts)
	if symbol == "" {
		symbol = "📝" // Fallback
	}
	fmt.Fprintf(b, "%s Summary\n", symbol)
	b.WriteString(strings.Repeat("─", 50) + "\n")
	for _, line := range summary.Lines(text) {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func (f *terminalFormatter) writeAISummary(b *strings.Builder, text string) {
	if text == "" {
		return
	}

	fmt.Fprintf(b, "%s AI Summary\n", emoji.GetEmoji("sparkles"))
	b.WriteString(strings.Repeat("─", 50) + "\n")
	b.WriteString(strings.TrimSpace(text) + "\n")
}
