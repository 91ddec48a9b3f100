package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/EstateInsights/internal/api"
	"github.com/yildizm/EstateInsights/internal/emoji"
)

// ListItem represents an item in a list
type ListItem struct {
	ID          string
	Title       string
	Description string
	Icon        string
}

// List is a navigable, filterable list
type List struct {
	Title         string
	Items         []ListItem
	Selected      int
	Focused       bool
	Width         int
	Height        int
	ShowNumbers   bool
	searchQuery   string
	filteredItems []int
}

// NewList creates a new list component
func NewList(title string, width, height int) *List {
	return &List{
		Title:       title,
		Width:       width,
		Height:      height,
		ShowNumbers: true,
	}
}

// SetItems sets all items in the list
func (l *List) SetItems(items []ListItem) {
	l.Items = items
	l.Selected = 0
	l.updateFilter()
}

// SetFocused sets the focus state of the list
func (l *List) SetFocused(focused bool) {
	l.Focused = focused
}

// Len returns the number of visible items
func (l *List) Len() int {
	return len(l.filteredItems)
}

// GetSelectedItem returns the currently selected item
func (l *List) GetSelectedItem() *ListItem {
	if len(l.filteredItems) == 0 || l.Selected >= len(l.filteredItems) {
		return nil
	}
	return &l.Items[l.filteredItems[l.Selected]]
}

// MoveUp moves selection up
func (l *List) MoveUp() {
	if l.Selected > 0 {
		l.Selected--
	}
}

// MoveDown moves selection down
func (l *List) MoveDown() {
	if l.Selected < len(l.filteredItems)-1 {
		l.Selected++
	}
}

// SetSearch filters items by a case-insensitive substring
func (l *List) SetSearch(query string) {
	l.searchQuery = query
	l.Selected = 0
	l.updateFilter()
}

func (l *List) updateFilter() {
	l.filteredItems = l.filteredItems[:0]
	query := strings.ToLower(l.searchQuery)
	for i, item := range l.Items {
		if query == "" ||
			strings.Contains(strings.ToLower(item.Title), query) ||
			strings.Contains(strings.ToLower(item.Description), query) {
			l.filteredItems = append(l.filteredItems, i)
		}
	}
}

// Render renders the list
func (l *List) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(mutedColor)

	content := []string{headerStyle.Render(l.Title)}
	if l.searchQuery != "" {
		content = append(content, normalStyle.Render(fmt.Sprintf("Filter: %s (%d results)", l.searchQuery, len(l.filteredItems))))
	}
	content = append(content, "")

	if len(l.filteredItems) == 0 {
		content = append(content, normalStyle.Render("No areas loaded"))
	}

	maxVisible := l.Height - 4
	if maxVisible < 1 {
		maxVisible = 1
	}

	startIndex := 0
	if l.Selected >= maxVisible {
		startIndex = l.Selected - maxVisible + 1
	}
	endIndex := startIndex + maxVisible
	if endIndex > len(l.filteredItems) {
		endIndex = len(l.filteredItems)
	}

	for i := startIndex; i < endIndex; i++ {
		item := l.Items[l.filteredItems[i]]
		content = append(content, l.renderItem(&item, i+1, l.Focused && i == l.Selected))
	}

	if len(l.filteredItems) > maxVisible {
		content = append(content, "", normalStyle.Render(fmt.Sprintf("(%d-%d of %d)", startIndex+1, endIndex, len(l.filteredItems))))
	}

	border := mutedColor
	if l.Focused {
		border = infoColor
	}
	panelStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)
	if l.Width > 0 {
		panelStyle = panelStyle.Width(l.Width)
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

func (l *List) renderItem(item *ListItem, number int, selected bool) string {
	var parts []string
	if selected {
		parts = append(parts, "▶")
	} else {
		parts = append(parts, " ")
	}
	if l.ShowNumbers {
		parts = append(parts, fmt.Sprintf("%2d.", number))
	}
	if item.Icon != "" {
		parts = append(parts, item.Icon)
	}
	parts = append(parts, item.Title)
	line := strings.Join(parts, " ")

	if selected {
		return lipgloss.NewStyle().Background(selectedColor).Foreground(infoColor).Bold(true).Render(line)
	}
	line = lipgloss.NewStyle().Foreground(mutedColor).Render(line)
	if item.Description != "" {
		line += lipgloss.NewStyle().Foreground(mutedColor).Faint(true).Render("  " + item.Description)
	}
	return line
}

// NewAreaList builds the quick-analyze picker. Details are used when the
// service sent them; otherwise only names are listed.
func NewAreaList(areas []string, details []api.AreaDetail, width, height int) *List {
	list := NewList(emoji.GetEmoji("location")+" Quick Analyze", width, height)

	byName := make(map[string]api.AreaDetail, len(details))
	for _, d := range details {
		byName[d.Name] = d
	}

	items := make([]ListItem, 0, len(areas))
	for _, area := range areas {
		item := ListItem{ID: area, Title: area, Icon: emoji.GetEmoji("building")}
		if d, ok := byName[area]; ok {
			item.Description = fmt.Sprintf("%s • %d records • %s", d.Years, d.Records, d.AvgPrice)
		}
		items = append(items, item)
	}
	list.SetItems(items)
	return list
}
