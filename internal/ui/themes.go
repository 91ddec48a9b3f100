package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/EstateInsights/internal/ui/components"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	// Primary colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	// Semantic colors
	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor

	// UI colors
	Border   lipgloss.AdaptiveColor
	Muted    lipgloss.AdaptiveColor
	Selected lipgloss.AdaptiveColor

	// Chart series: flat rate, units, sales
	Series [3]lipgloss.AdaptiveColor
}

func pair(c [2]string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: c[0], Dark: c[1]}
}

// buildTheme creates a theme with the given colors
func buildTheme(name string, primary, secondary, accent, success, warning, errorColor, info, border, muted, selected [2]string, series [3][2]string) Theme {
	return Theme{
		Name:      name,
		Primary:   pair(primary),
		Secondary: pair(secondary),
		Accent:    pair(accent),
		Success:   pair(success),
		Warning:   pair(warning),
		Error:     pair(errorColor),
		Info:      pair(info),
		Border:    pair(border),
		Muted:     pair(muted),
		Selected:  pair(selected),
		Series:    [3]lipgloss.AdaptiveColor{pair(series[0]), pair(series[1]), pair(series[2])},
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default",
		[2]string{"#1E40AF", "#3B82F6"}, [2]string{"#6B7280", "#9CA3AF"}, [2]string{"#7C3AED", "#A855F7"},
		[2]string{"#059669", "#10B981"}, [2]string{"#D97706", "#F59E0B"}, [2]string{"#DC2626", "#EF4444"},
		[2]string{"#0891B2", "#06B6D4"}, [2]string{"#D1D5DB", "#374151"}, [2]string{"#6B7280", "#9CA3AF"},
		[2]string{"#DBEAFE", "#1E3A8A"},
		[3][2]string{{"#7C3AED", "#A855F7"}, {"#059669", "#10B981"}, {"#D97706", "#F59E0B"}})

	HighContrastTheme = buildTheme("high-contrast",
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"}, [2]string{"#000080", "#8080FF"},
		[2]string{"#006600", "#00FF00"}, [2]string{"#CC6600", "#FFAA00"}, [2]string{"#CC0000", "#FF4444"},
		[2]string{"#0066CC", "#4499FF"}, [2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"},
		[2]string{"#CCCCCC", "#333333"},
		[3][2]string{{"#800080", "#FF80FF"}, {"#006600", "#00FF00"}, {"#CC6600", "#FFAA00"}})

	MinimalTheme = buildTheme("minimal",
		[2]string{"#2D3748", "#E2E8F0"}, [2]string{"#718096", "#A0AEC0"}, [2]string{"#4A5568", "#CBD5E0"},
		[2]string{"#2F855A", "#68D391"}, [2]string{"#C05621", "#F6AD55"}, [2]string{"#C53030", "#FC8181"},
		[2]string{"#2B6CB0", "#63B3ED"}, [2]string{"#E2E8F0", "#2D3748"}, [2]string{"#A0AEC0", "#718096"},
		[2]string{"#EDF2F7", "#2D3748"},
		[3][2]string{{"#553C9A", "#B794F6"}, {"#2F855A", "#68D391"}, {"#C05621", "#F6AD55"}})
)

// Current active theme
var currentTheme = DefaultTheme

// GetTheme returns the current active theme
func GetTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme and recolors the components
func SetTheme(theme *Theme) {
	currentTheme = *theme
	components.SetPalette(components.Palette{
		Success:  theme.Success,
		Warning:  theme.Warning,
		Error:    theme.Error,
		Info:     theme.Info,
		Muted:    theme.Muted,
		Accent:   theme.Accent,
		Selected: theme.Selected,
		Series:   theme.Series[:],
	})
}

// SetThemeByName sets the theme by name
func SetThemeByName(name string) bool {
	switch name {
	case "", "default":
		SetTheme(&DefaultTheme)
		return true
	case "high-contrast":
		SetTheme(&HighContrastTheme)
		return true
	case "minimal":
		SetTheme(&MinimalTheme)
		return true
	default:
		return false
	}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// GetStyles returns the app chrome styles for the current theme
func GetStyles() *Styles {
	theme := GetTheme()

	return &Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Secondary),
	}
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	Title  lipgloss.Style
	Header lipgloss.Style
	Muted  lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	Input     lipgloss.Style
	Box       lipgloss.Style
	StatusBar lipgloss.Style
}
