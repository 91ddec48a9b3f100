package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/yildizm/EstateInsights/internal/emoji"
	"github.com/yildizm/EstateInsights/internal/table"
)

// DataTable renders one page of a table view with its sort markers,
// search line and pagination footer
type DataTable struct {
	View         table.View
	State        table.ViewState
	Width        int
	MaxCellWidth int
	Searching    bool // search input has focus
	Cursor       int  // highlighted column, -1 for none
}

// NewDataTable creates a data table for the current state of t
func NewDataTable(t *table.Table, width int) *DataTable {
	return &DataTable{
		View:         t.View(),
		State:        t.State(),
		Width:        width,
		MaxCellWidth: 22,
		Cursor:       -1,
	}
}

// Render renders the table
func (d *DataTable) Render() string {
	titleStyle := lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	muted := lipgloss.NewStyle().Foreground(mutedColor)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1)
	if d.Width > 0 {
		boxStyle = boxStyle.Width(d.Width)
	}

	content := []string{titleStyle.Render(emoji.GetEmoji("table") + " Data Table"), d.renderSearch(), ""}

	if len(d.View.Rows) == 0 {
		msg := "No data available"
		if d.View.Total > 0 {
			msg = "No results found"
		}
		content = append(content, muted.Render(msg))
		return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, content...))
	}

	widths := d.columnWidths()
	content = append(content, d.renderHeader(widths), d.renderRule(widths))
	for i, rec := range d.View.Rows {
		content = append(content, d.renderRow(rec, widths, i%2 == 1))
	}
	content = append(content, "", d.renderFooter())

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

func (d *DataTable) renderSearch() string {
	muted := lipgloss.NewStyle().Foreground(mutedColor)
	label := emoji.GetEmoji("search") + " Search: "

	term := d.State.SearchTerm
	if d.Searching {
		return muted.Render(label) + lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(term+"▏")
	}
	if term == "" {
		return muted.Render(label + "(press / to search)")
	}
	return muted.Render(label) + lipgloss.NewStyle().Foreground(warningColor).Render(term)
}

// columnWidths sizes each column to its widest header or visible cell,
// capped at MaxCellWidth
func (d *DataTable) columnWidths() []int {
	widths := make([]int, len(d.View.Columns))
	for i, col := range d.View.Columns {
		widths[i] = runewidth.StringWidth(d.headerLabel(i, col))
		for _, rec := range d.View.Rows {
			v, _ := rec.Get(col)
			if w := runewidth.StringWidth(v.String()); w > widths[i] {
				widths[i] = w
			}
		}
		if d.MaxCellWidth > 0 && widths[i] > d.MaxCellWidth {
			widths[i] = d.MaxCellWidth
		}
	}
	return widths
}

// headerLabel is the display name prefixed by its sort key and followed by
// the sort marker
func (d *DataTable) headerLabel(i int, col string) string {
	label := table.FormatColumnName(col)
	if i < 9 {
		label = fmt.Sprintf("%d %s", i+1, label)
	}
	if sorted, ok := d.State.Sort.Column(); ok && sorted == col {
		if d.State.Sort.Direction() == table.Ascending {
			label += " ▲"
		} else {
			label += " ▼"
		}
	}
	return label
}

func (d *DataTable) renderHeader(widths []int) string {
	style := lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	cells := make([]string, len(d.View.Columns))
	for i, col := range d.View.Columns {
		label := fit(d.headerLabel(i, col), widths[i])
		if i == d.Cursor {
			cells[i] = style.Underline(true).Render(label)
			continue
		}
		cells[i] = style.Render(label)
	}
	return strings.Join(cells, "  ")
}

func (d *DataTable) renderRule(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w)
	}
	return lipgloss.NewStyle().Foreground(mutedColor).Render(strings.Join(parts, "──"))
}

func (d *DataTable) renderRow(rec table.Record, widths []int, alt bool) string {
	style := lipgloss.NewStyle()
	if alt {
		style = style.Foreground(mutedColor)
	}
	cells := make([]string, len(d.View.Columns))
	for i, col := range d.View.Columns {
		v, _ := rec.Get(col)
		cells[i] = style.Render(fit(v.String(), widths[i]))
	}
	return strings.Join(cells, "  ")
}

func (d *DataTable) renderFooter() string {
	muted := lipgloss.NewStyle().Foreground(mutedColor)
	v := d.View
	return muted.Render(fmt.Sprintf("Showing %d to %d of %d results  •  Page %d of %d",
		v.Start, v.End, len(v.Matched), v.Page, v.TotalPages))
}

// fit truncates s to width cells with an ellipsis, or pads it
func fit(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
