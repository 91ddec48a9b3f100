package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// VerboseChecker reports whether debug output is enabled
type VerboseChecker interface {
	IsVerbose() bool
}

// Logger writes component-tagged lines to stderr. Debug and Info are only
// emitted in verbose mode; Warn and Error are always written.
type Logger struct {
	component      string
	verboseChecker VerboseChecker
	fields         []Field

	mu     *sync.Mutex
	writer io.Writer
}

// Field is a key/value pair appended to a log line
type Field struct {
	Key   string
	Value interface{}
}

// New creates a logger for a component
func New(component string, verboseChecker VerboseChecker) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: verboseChecker,
		mu:             &sync.Mutex{},
		writer:         os.Stderr,
	}
}

// NewWithCallback creates a logger whose verbosity is read from a callback
func NewWithCallback(component string, verboseCheck func() bool) *Logger {
	return New(component, &callbackChecker{callback: verboseCheck})
}

// Discard returns a logger that drops everything, used by tests and library callers
func Discard() *Logger {
	l := New("discard", nil)
	l.writer = io.Discard
	return l
}

// SetOutput redirects the logger
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

// WithComponent returns a logger sharing output and verbosity under another component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: l.verboseChecker,
		fields:         l.fields,
		mu:             l.mu,
		writer:         l.writer,
	}
}

// With returns a logger that appends fields to every line
func (l *Logger) With(fields ...Field) *Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)

	child := l.WithComponent(l.component)
	child.fields = merged
	return child
}

type callbackChecker struct {
	callback func() bool
}

func (c *callbackChecker) IsVerbose() bool {
	if c.callback == nil {
		return false
	}
	return c.callback()
}

func (l *Logger) verbose() bool {
	return l.verboseChecker != nil && l.verboseChecker.IsVerbose()
}

// Debug logs only in verbose mode
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.verbose() {
		l.write("DEBUG", msg, nil, args...)
	}
}

// Info logs only in verbose mode
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.verbose() {
		l.write("INFO", msg, nil, args...)
	}
}

// Warn always logs
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.write("WARN", msg, nil, args...)
}

// Error always logs
func (l *Logger) Error(msg string, args ...interface{}) {
	l.write("ERROR", msg, nil, args...)
}

// DebugWithFields logs a debug line with extra fields
func (l *Logger) DebugWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		l.write("DEBUG", msg, fields, args...)
	}
}

// InfoWithFields logs an info line with extra fields
func (l *Logger) InfoWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		l.write("INFO", msg, fields, args...)
	}
}

func (l *Logger) write(level, msg string, extra []Field, args ...interface{}) {
	component := l.component
	if component == "" {
		component = "main"
	}

	line := fmt.Sprintf("[%s] %s [%s] %s", time.Now().Format("15:04:05.000"), level, component, fmt.Sprintf(msg, args...))

	all := make([]string, 0, len(l.fields)+len(extra))
	for _, f := range l.fields {
		all = append(all, fmt.Sprintf("%s=%v", f.Key, f.Value))
	}
	for _, f := range extra {
		all = append(all, fmt.Sprintf("%s=%v", f.Key, f.Value))
	}
	if len(all) > 0 {
		line += " [" + strings.Join(all, " ") + "]"
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// nowhere to report a failed log write
	_, _ = fmt.Fprintln(l.writer, line)
}

// F builds a field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func Count(value int) Field {
	return Field{Key: "count", Value: value}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

func RequestID(id string) Field {
	return Field{Key: "request_id", Value: id}
}
