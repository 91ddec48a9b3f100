package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner represents a spinning progress indicator
type Spinner struct {
	Frame int
	Label string
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{}
}

// SetLabel sets the spinner label
func (s *Spinner) SetLabel(label string) {
	s.Label = label
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	spinner := lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(spinnerFrames[s.Frame%len(spinnerFrames)])
	if s.Label != "" {
		return fmt.Sprintf("%s %s", spinner, s.Label)
	}
	return spinner
}

// LoadingIndicator shows a spinner, a sweeping bar and elapsed time while
// a request is outstanding. The service gives no progress, so the bar is
// indeterminate.
type LoadingIndicator struct {
	spinner   *Spinner
	width     int
	frame     int
	startTime time.Time
	message   string
}

// NewLoadingIndicator creates a new loading indicator
func NewLoadingIndicator(width int, started time.Time) *LoadingIndicator {
	if width < 6 {
		width = 6
	}
	return &LoadingIndicator{
		spinner:   NewSpinner(),
		width:     width,
		startTime: started,
	}
}

// SetMessage sets the loading message
func (l *LoadingIndicator) SetMessage(message string) {
	l.message = message
	l.spinner.SetLabel(message)
}

// SetFrame positions the animation at frame
func (l *LoadingIndicator) SetFrame(frame int) {
	l.frame = frame
	l.spinner.Frame = frame % len(spinnerFrames)
}

// Render renders the loading indicator at now
func (l *LoadingIndicator) Render(now time.Time) string {
	barStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	muted := lipgloss.NewStyle().Foreground(mutedColor)

	pos := l.frame % l.width
	var bar strings.Builder
	for i := 0; i < l.width; i++ {
		if i >= pos && i < pos+3 {
			bar.WriteString(barStyle.Render("█"))
		} else {
			bar.WriteString(muted.Render("░"))
		}
	}

	elapsed := now.Sub(l.startTime)
	if elapsed < 0 {
		elapsed = 0
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		l.spinner.Render(),
		"",
		"["+bar.String()+"]",
		muted.Render("Elapsed: "+formatDuration(elapsed)),
	)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1fm", d.Minutes())
	default:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
}
