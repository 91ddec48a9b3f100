package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yildizm/EstateInsights/internal/chart"
	"github.com/yildizm/EstateInsights/internal/logger"
)

const (
	// RequestIDHeader tags every request for correlation with server logs
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 1 << 20
)

// statusFallbacks are the messages used when an error body carries no
// "error" field. Other operations report the bare status.
var statusFallbacks = map[string]string{
	"areas":            "Failed to fetch areas",
	"generate-summary": "Failed to generate AI summary",
}

func fallbackMessage(op string, status int) string {
	if msg, ok := statusFallbacks[op]; ok {
		return msg
	}
	return fmt.Sprintf("HTTP error! status: %d", status)
}

// Client talks to the analysis service. Calls are plain request/response:
// no retry, no backoff, no streaming.
type Client struct {
	baseURL   *url.URL
	client    *http.Client
	userAgent string
	log       *logger.Logger
	newID     func() string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the request logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for the service rooted at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL:   u,
		client:    &http.Client{Timeout: 60 * time.Second},
		userAgent: "estateinsights",
		log:       logger.Discard(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Analyze runs a free-text query such as "Analyze Wakad"
func (c *Client) Analyze(ctx context.Context, query string) (*AnalysisResponse, error) {
	var out AnalysisResponse
	if err := c.do(ctx, http.MethodPost, "analyze", queryRequest{Query: query}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAreas returns the localities in the dataset
func (c *Client) ListAreas(ctx context.Context) (*AreasResponse, error) {
	var out AreasResponse
	if err := c.do(ctx, http.MethodGet, "areas", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateSummary asks the service for a narrative summary of metrics
func (c *Client) GenerateSummary(ctx context.Context, area string, metrics chart.Metrics) (*SummaryResponse, error) {
	var out SummaryResponse
	if err := c.do(ctx, http.MethodPost, "generate-summary", SummaryRequest{Area: area, Data: metrics}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Compare runs a query naming two or more areas
func (c *Client) Compare(ctx context.Context, query string) (*CompareResponse, error) {
	var out CompareResponse
	if err := c.do(ctx, http.MethodPost, "compare", queryRequest{Query: query}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health reports whether the service and its dataset are up
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download fetches the service's own CSV of the raw records for the
// area named in query
func (c *Client) Download(ctx context.Context, query string) (*Download, error) {
	const op = "download"

	resp, done, err := c.send(ctx, http.MethodPost, op, queryRequest{Query: query})
	if err != nil {
		return nil, err
	}
	defer done()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(op, err)
	}

	name := "download.csv"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}
	return &Download{Filename: name, Data: data}, nil
}

func (c *Client) endpoint(op string) string {
	u := c.baseURL.JoinPath(op)
	// the service routes only slash-terminated paths
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, op string, body, out interface{}) error {
	resp, done, err := c.send(ctx, method, op, body)
	if err != nil {
		return err
	}
	defer done()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newMalformedError(op, err)
	}
	return nil
}

// send issues one request. On success the caller owns resp.Body and must
// call done; on failure the body is already consumed and closed.
func (c *Client) send(ctx context.Context, method, op string, body interface{}) (*http.Response, func(), error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, nil, &Error{Kind: ErrKindMalformed, Op: op, Message: "failed to encode request", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(op), reader)
	if err != nil {
		return nil, nil, newNetworkError(op, err)
	}

	requestID := c.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.With(logger.RequestID(requestID))
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		log.DebugWithFields("%s %s failed", []logger.Field{logger.Duration(time.Since(start)), logger.Error(err)}, method, op)
		return nil, nil, newNetworkError(op, err)
	}

	log.DebugWithFields("%s %s", []logger.Field{
		logger.F("status", resp.StatusCode),
		logger.Duration(time.Since(start)),
	}, method, op)

	done := func() { _ = resp.Body.Close() }

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer done()
		return nil, nil, c.handleErrorResponse(op, resp)
	}
	return resp, done, nil
}

// handleErrorResponse maps a non-2xx response to an *Error using the
// service's {"error": ...} body when present, else the operation's
// fallback message
func (c *Client) handleErrorResponse(op string, resp *http.Response) *Error {
	apiErr := &Error{
		Kind:       ErrKindStatus,
		Op:         op,
		StatusCode: resp.StatusCode,
		Message:    fallbackMessage(op, resp.StatusCode),
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return apiErr
	}
	if body.Error != "" {
		apiErr.Message = body.Error
	}
	apiErr.AvailableAreas = body.AvailableAreas
	apiErr.Suggestion = body.Suggestion
	return apiErr
}
