package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/EstateInsights/internal/session"
)

// Report is one analysis result ready for rendering
type Report struct {
	Query     string
	Result    *session.Result
	AISummary string
	Generated time.Time
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// Formats lists the accepted output format names
var Formats = []string{"text", "json", "markdown", "csv", "prompt"}

// New returns the formatter for format
func New(format string, color bool) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text", "terminal":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	case "prompt":
		return NewPrompt(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (valid: %s)", format, strings.Join(Formats, ", "))
	}
}
