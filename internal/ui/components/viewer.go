package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/EstateInsights/internal/api"
	"github.com/yildizm/EstateInsights/internal/emoji"
)

// DetailViewer represents a detailed view of a specific item
type DetailViewer struct {
	Title   string
	Content []DetailSection
	Width   int
	Height  int
}

// DetailSection represents a section in the detail view
type DetailSection struct {
	Title   string
	Content []string
	Style   string // "info", "warning", "error", "success"
}

// NewDetailViewer creates a new detail viewer
func NewDetailViewer(title string, width, height int) *DetailViewer {
	return &DetailViewer{
		Title:  title,
		Width:  width,
		Height: height,
	}
}

// AddSection adds a section to the detail view
func (d *DetailViewer) AddSection(section DetailSection) {
	d.Content = append(d.Content, section)
}

// Clear clears all content
func (d *DetailViewer) Clear() {
	d.Content = d.Content[:0]
}

// Render renders the detail viewer
func (d *DetailViewer) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	panelStyle := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(mutedColor).Padding(0, 1)
	if d.Width > 0 {
		panelStyle = panelStyle.Width(d.Width)
	}

	content := make([]string, 0, len(d.Content)*3+2)
	content = append(content, headerStyle.Render(d.Title), "")

	for i, section := range d.Content {
		content = append(content, d.renderSection(section)...)
		if i < len(d.Content)-1 {
			content = append(content, "")
		}
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

func (d *DetailViewer) renderSection(section DetailSection) []string {
	var titleColor lipgloss.AdaptiveColor
	switch section.Style {
	case "success":
		titleColor = successColor
	case "warning":
		titleColor = warningColor
	case "error":
		titleColor = errorColor
	case "info":
		titleColor = infoColor
	default:
		titleColor = mutedColor
	}

	lines := make([]string, 0, len(section.Content)+1)
	if section.Title != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(titleColor).Bold(true).Render(section.Title))
	}

	body := lipgloss.NewStyle()
	for _, line := range section.Content {
		lines = append(lines, body.Render("  "+line))
	}
	return lines
}

// NewErrorViewer lays out a failed query: category title, message and the
// suggestions for fixing it
func NewErrorViewer(err error, width int) *DetailViewer {
	title, message := "Something Went Wrong", "An unexpected error occurred."
	var suggestions []string
	if err != nil {
		message = err.Error()
	}
	if apiErr, ok := api.AsError(err); ok {
		title = apiErr.Title()
		message = apiErr.Message
		suggestions = apiErr.Suggestions()
	}

	viewer := NewDetailViewer(emoji.GetEmoji("error")+" "+title, width, 0)
	viewer.AddSection(DetailSection{Content: []string{message}, Style: "error"})
	if len(suggestions) > 0 {
		items := make([]string, len(suggestions))
		for i, s := range suggestions {
			items[i] = "• " + s
		}
		viewer.AddSection(DetailSection{
			Title:   emoji.GetEmoji("help") + " Suggestions",
			Content: items,
			Style:   "info",
		})
	}
	return viewer
}
