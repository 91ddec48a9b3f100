package components

import "github.com/charmbracelet/lipgloss"

var (
	successColor  = lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"}
	warningColor  = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"}
	errorColor    = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"}
	infoColor     = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	mutedColor    = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	accentColor   = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A855F7"}
	selectedColor = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"}

	// flat rate, units, sales
	seriesColors = []lipgloss.AdaptiveColor{
		{Light: "#7C3AED", Dark: "#A855F7"},
		{Light: "#059669", Dark: "#10B981"},
		{Light: "#D97706", Dark: "#F59E0B"},
	}
)

// Palette is the set of colors components draw with
type Palette struct {
	Success  lipgloss.AdaptiveColor
	Warning  lipgloss.AdaptiveColor
	Error    lipgloss.AdaptiveColor
	Info     lipgloss.AdaptiveColor
	Muted    lipgloss.AdaptiveColor
	Accent   lipgloss.AdaptiveColor
	Selected lipgloss.AdaptiveColor
	Series   []lipgloss.AdaptiveColor
}

// SetPalette replaces the component colors. It is not safe to call while
// rendering.
func SetPalette(p Palette) {
	successColor = p.Success
	warningColor = p.Warning
	errorColor = p.Error
	infoColor = p.Info
	mutedColor = p.Muted
	accentColor = p.Accent
	selectedColor = p.Selected
	if len(p.Series) > 0 {
		seriesColors = append([]lipgloss.AdaptiveColor(nil), p.Series...)
	}
}
