package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/EstateInsights/internal/chart"
	"github.com/yildizm/EstateInsights/internal/emoji"
	"github.com/yildizm/EstateInsights/internal/formatter"
	"github.com/yildizm/EstateInsights/internal/summary"
)

// StatsCard is one metric badge
type StatsCard struct {
	Title       string
	Value       string
	Description string
	Status      string // "success", "warning", "error", "info"
	Icon        string
	Width       int
	Height      int
}

// NewStatsCard creates a new stats card
func NewStatsCard(title, value, description string) *StatsCard {
	return &StatsCard{
		Title:       title,
		Value:       value,
		Description: description,
		Status:      "info",
		Width:       20,
		Height:      4,
	}
}

// SetStatus sets the status color of the card
func (s *StatsCard) SetStatus(status string) *StatsCard {
	s.Status = status
	return s
}

// SetIcon sets the icon for the card
func (s *StatsCard) SetIcon(icon string) *StatsCard {
	s.Icon = icon
	return s
}

// SetSize sets the size of the card
func (s *StatsCard) SetSize(width, height int) *StatsCard {
	s.Width = width
	s.Height = height
	return s
}

// Render renders the stats card
func (s *StatsCard) Render() string {
	var valueStyle lipgloss.Style
	switch s.Status {
	case "success":
		valueStyle = lipgloss.NewStyle().Foreground(successColor)
	case "warning":
		valueStyle = lipgloss.NewStyle().Foreground(warningColor)
	case "error":
		valueStyle = lipgloss.NewStyle().Foreground(errorColor)
	case "info":
		valueStyle = lipgloss.NewStyle().Foreground(infoColor)
	default:
		valueStyle = lipgloss.NewStyle().Foreground(mutedColor)
	}

	titleStyle := lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(mutedColor)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1)

	title := titleStyle.Render(s.Title)
	if s.Icon != "" {
		title = s.Icon + " " + title
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		valueStyle.Bold(true).Render(s.Value),
		mutedStyle.Render(s.Description),
	)

	return boxStyle.
		Width(s.Width).
		Height(s.Height).
		Render(content)
}

// StatsDashboard lays cards out in rows
type StatsDashboard struct {
	cards      []*StatsCard
	columns    int
	cardWidth  int
	cardHeight int
}

// NewStatsDashboard creates a new stats dashboard
func NewStatsDashboard(columns int) *StatsDashboard {
	if columns < 1 {
		columns = 1
	}
	return &StatsDashboard{
		columns:    columns,
		cardWidth:  20,
		cardHeight: 3,
	}
}

// AddCard adds a stats card to the dashboard
func (d *StatsDashboard) AddCard(card *StatsCard) {
	card.SetSize(d.cardWidth, d.cardHeight)
	d.cards = append(d.cards, card)
}

// Len returns the number of cards
func (d *StatsDashboard) Len() int {
	return len(d.cards)
}

// SetCardSize sets the size of every card
func (d *StatsDashboard) SetCardSize(width, height int) {
	d.cardWidth = width
	d.cardHeight = height
	for _, card := range d.cards {
		card.SetSize(width, height)
	}
}

// Render renders the stats dashboard
func (d *StatsDashboard) Render() string {
	if len(d.cards) == 0 {
		return ""
	}

	var rows []string
	for i := 0; i < len(d.cards); i += d.columns {
		end := i + d.columns
		if end > len(d.cards) {
			end = len(d.cards)
		}

		var rowCards []string
		for j := i; j < end; j++ {
			rowCards = append(rowCards, d.cards[j].Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowCards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// NewKeyMetricsDashboard builds the badges shown above the summary. Only
// metrics that were found get a card.
func NewKeyMetricsDashboard(k summary.KeyMetrics, columns int) *StatsDashboard {
	dashboard := NewStatsDashboard(columns)

	if k.AvgPriceFrom != summary.SourceNone {
		dashboard.AddCard(NewStatsCard("Avg Price", formatter.FormatPrice(k.AvgPrice), "per sqft").
			SetIcon(emoji.GetEmoji("money")))
	}
	if k.TotalUnitsFrom != summary.SourceNone {
		dashboard.AddCard(NewStatsCard("Total Units", formatter.FormatCount(k.TotalUnits), "sold").
			SetIcon(emoji.GetEmoji("units")))
	}
	if k.YearRangeFrom != summary.SourceNone {
		dashboard.AddCard(NewStatsCard("Period", k.YearRange, "years").
			SetIcon(emoji.GetEmoji("calendar")))
	}
	if k.PriceChangeFrom != summary.SourceNone {
		card := NewStatsCard("Price Change", fmt.Sprintf("%+.1f%%", k.PriceChange), "over period").
			SetIcon(emoji.GetEmoji("chart"))
		if k.PriceChange >= 0 {
			card.SetStatus("success")
		} else {
			card.SetStatus("error")
		}
		dashboard.AddCard(card)
	}

	return dashboard
}

// RenderDelta renders a change with an arrow, green up and red down
func RenderDelta(label string, d chart.Delta) string {
	muted := lipgloss.NewStyle().Foreground(mutedColor)
	if !d.OK {
		return muted.Render(label + ": N/A")
	}

	arrow, color := emoji.GetEmoji("down"), errorColor
	if d.Up() {
		arrow, color = emoji.GetEmoji("up"), successColor
	}
	value := lipgloss.NewStyle().Foreground(color).Bold(true).Render(arrow + " " + formatter.FormatDelta(d))
	return muted.Render(label+": ") + value
}

// SummaryBox is a titled box of text lines
type SummaryBox struct {
	Title   string
	Content []string
	Width   int
}

// NewSummaryBox creates a new summary box
func NewSummaryBox(title string, width int) *SummaryBox {
	return &SummaryBox{
		Title: title,
		Width: width,
	}
}

// AddLine adds a line to the summary
func (s *SummaryBox) AddLine(line string) {
	s.Content = append(s.Content, line)
}

// AddLines adds several lines
func (s *SummaryBox) AddLines(lines []string) {
	s.Content = append(s.Content, lines...)
}

// AddKeyValue adds a key-value pair to the summary
func (s *SummaryBox) AddKeyValue(key, value string) {
	s.Content = append(s.Content, fmt.Sprintf("%-15s: %s", key, value))
}

// Render renders the summary box
func (s *SummaryBox) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1)

	content := make([]string, 0, len(s.Content)+2)
	content = append(content, headerStyle.Render(s.Title), "")

	bodyStyle := lipgloss.NewStyle().Foreground(mutedColor)
	for _, line := range s.Content {
		content = append(content, bodyStyle.Render(line))
	}

	joined := lipgloss.JoinVertical(lipgloss.Left, content...)
	if s.Width > 0 {
		boxStyle = boxStyle.Width(s.Width)
	}
	return boxStyle.Render(joined)
}
