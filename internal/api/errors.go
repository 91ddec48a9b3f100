package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind categorizes a failed call
type ErrorKind string

const (
	// ErrKindNetwork means the service could not be reached
	ErrKindNetwork ErrorKind = "network"

	// ErrKindStatus means the service answered with a non-2xx status
	ErrKindStatus ErrorKind = "status"

	// ErrKindMalformed means a 2xx body could not be decoded
	ErrKindMalformed ErrorKind = "malformed"
)

// Error is the single error value every client call returns
type Error struct {
	Kind       ErrorKind
	Op         string // endpoint, e.g. "analyze"
	Message    string // display message
	StatusCode int

	// Sent by the service alongside some 4xx errors
	AvailableAreas []string
	Suggestion     string

	Cause error
}

// Error returns the display message
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Detail renders kind, endpoint, status and cause for logs
func (e *Error) Detail() string {
	parts := []string{fmt.Sprintf("kind=%s", e.Kind)}
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	parts = append(parts, e.Message)
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}
	return strings.Join(parts, ": ")
}

// Category groups errors for display
type Category int

const (
	CategoryGeneric Category = iota
	CategoryConnection
	CategoryInvalidQuery
	CategoryNotFound
)

// Category classifies the error by kind, then by message wording, then by status
func (e *Error) Category() Category {
	msg := strings.ToLower(e.Message)
	switch {
	case e.Kind == ErrKindNetwork || strings.Contains(msg, "network") || strings.Contains(msg, "fetch"):
		return CategoryConnection
	case strings.Contains(msg, "area") || strings.Contains(msg, "query"):
		return CategoryInvalidQuery
	case e.StatusCode == 404 || strings.Contains(msg, "404") || strings.Contains(msg, "not found"):
		return CategoryNotFound
	default:
		return CategoryGeneric
	}
}

// Title is the headline shown above the message
func (e *Error) Title() string {
	switch e.Category() {
	case CategoryConnection:
		return "Connection Error"
	case CategoryInvalidQuery:
		return "Invalid Query"
	case CategoryNotFound:
		return "Data Not Found"
	default:
		return "Something Went Wrong"
	}
}

// DefaultAreas are suggested when the service does not list its own
var DefaultAreas = []string{"Wakad", "Aundh", "Akurdi", "Ambegaon Budruk"}

// Suggestions lists follow-up hints for the user
func (e *Error) Suggestions() []string {
	var out []string
	switch e.Category() {
	case CategoryInvalidQuery:
		areas := e.AvailableAreas
		if len(areas) == 0 {
			areas = DefaultAreas
		}
		out = []string{
			fmt.Sprintf("Include an area name (%s)", joinOr(areas)),
			fmt.Sprintf("Try: 'Analyze %s' or 'Price trend of %s'", areas[0], areas[len(areas)/2]),
		}
	case CategoryConnection:
		out = []string{
			"Check your internet connection",
			"Verify the backend server is running",
		}
	default:
		out = []string{
			"Retry the query",
			"Check your query format",
		}
	}
	if e.Suggestion != "" {
		out = append(out, e.Suggestion)
	}
	return out
}

func joinOr(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
	}
}

// AsError extracts an *Error from err
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNetwork reports a connection failure
func IsNetwork(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == ErrKindNetwork
}

// IsStatus reports a non-2xx response, optionally with a specific code
func IsStatus(err error, codes ...int) bool {
	apiErr, ok := AsError(err)
	if !ok || apiErr.Kind != ErrKindStatus {
		return false
	}
	if len(codes) == 0 {
		return true
	}
	for _, c := range codes {
		if apiErr.StatusCode == c {
			return true
		}
	}
	return false
}

func newNetworkError(op string, cause error) *Error {
	return &Error{
		Kind:    ErrKindNetwork,
		Op:      op,
		Message: "Network error: failed to fetch from the analysis service",
		Cause:   cause,
	}
}

func newMalformedError(op string, cause error) *Error {
	return &Error{
		Kind:    ErrKindMalformed,
		Op:      op,
		Message: fmt.Sprintf("Unexpected response from the analysis service (%s)", op),
		Cause:   cause,
	}
}
