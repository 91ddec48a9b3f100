// Package session drives analysis queries against the remote service and
// owns the dataset, table view and AI summary of the latest result.
//
// Only the most recently started query is authoritative. A result that
// arrives after a newer query has begun is discarded; the superseded network
// call itself is left to finish.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/yildizm/EstateInsights/internal/api"
	"github.com/yildizm/EstateInsights/internal/chart"
	"github.com/yildizm/EstateInsights/internal/logger"
	"github.com/yildizm/EstateInsights/internal/summary"
	"github.com/yildizm/EstateInsights/internal/table"
	"golang.org/x/text/language"
)

var (
	ErrEmptyQuery     = errors.New("query is empty")
	ErrNothingToRetry = errors.New("no previous query to retry")
	ErrNoResult       = errors.New("no analysis result")
	ErrSuperseded     = errors.New("result superseded by a newer query")
)

// Service is the part of the analysis client the controller needs
type Service interface {
	Analyze(ctx context.Context, query string) (*api.AnalysisResponse, error)
	ListAreas(ctx context.Context) (*api.AreasResponse, error)
	GenerateSummary(ctx context.Context, area string, metrics chart.Metrics) (*api.SummaryResponse, error)
}

// State of the current query
type State int

const (
	StateIdle State = iota
	StatePending
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// SummaryState tracks the AI summary of the current result
type SummaryState int

const (
	SummaryIdle SummaryState = iota
	SummaryLoading
	SummaryReady
	SummaryFailed
)

func (s SummaryState) String() string {
	switch s {
	case SummaryLoading:
		return "loading"
	case SummaryReady:
		return "ready"
	case SummaryFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Ticket identifies one started query
type Ticket struct {
	ID    string
	Query string
	seq   uint64
}

// SummaryTicket identifies one AI summary request
type SummaryTicket struct {
	Area    string
	Metrics chart.Metrics
	seq     uint64
}

// Result is a successful analysis with its derived views
type Result struct {
	Response *api.AnalysisResponse
	Table    *table.Table
	Metrics  chart.Metrics
	Deltas   chart.Deltas
	Key      summary.KeyMetrics
}

// Snapshot is a consistent copy of the controller state
type Snapshot struct {
	State     State
	Query     string
	RequestID string
	Result    *Result
	Err       error

	Summary    SummaryState
	AISummary  string
	SummaryErr error
}

// Controller runs queries and holds the authoritative result.
// It is safe for concurrent use.
type Controller struct {
	svc         Service
	log         *logger.Logger
	rowsPerPage int
	locale      language.Tag
	newID       func() string

	mu        sync.Mutex
	seq       uint64
	current   Ticket
	state     State
	lastQuery string
	result    *Result
	err       error

	summaryState SummaryState
	aiSummary    string
	summaryErr   error

	areas []string
}

// Option configures a Controller
type Option func(*Controller)

// WithRowsPerPage sets the page size of result tables
func WithRowsPerPage(n int) Option {
	return func(c *Controller) {
		c.rowsPerPage = n
	}
}

// WithLocale sets the collation locale of result tables
func WithLocale(tag language.Tag) Option {
	return func(c *Controller) {
		c.locale = tag
	}
}

// WithLogger sets the controller logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates an idle controller
func New(svc Service, opts ...Option) *Controller {
	c := &Controller{
		svc:         svc,
		log:         logger.Discard(),
		rowsPerPage: table.DefaultRowsPerPage,
		locale:      language.English,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin starts a query and makes it the authoritative one
func (c *Controller) Begin(query string) (Ticket, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Ticket{}, ErrEmptyQuery
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.current = Ticket{ID: c.newID(), Query: query, seq: c.seq}
	c.state = StatePending
	c.lastQuery = query
	c.err = nil
	c.resetSummary()

	c.log.DebugWithFields("query started", []logger.Field{
		logger.RequestID(c.current.ID),
		logger.F("query", query),
	})
	return c.current, nil
}

// Resolve applies the outcome of t. It reports false, changing nothing, when
// a newer query has started since t.
func (c *Controller) Resolve(t Ticket, resp *api.AnalysisResponse, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.seq != c.seq || c.state != StatePending {
		c.log.Debug("dropping stale result for %q", t.Query)
		return false
	}

	if err == nil && resp == nil {
		err = errors.New("empty analysis response")
	}
	if err != nil {
		c.state = StateError
		c.err = err
		c.result = nil
		if apiErr, ok := api.AsError(err); ok {
			c.log.Warn("query %q failed: %s", t.Query, apiErr.Detail())
		} else {
			c.log.Warn("query %q failed: %v", t.Query, err)
		}
		return true
	}

	c.state = StateSuccess
	c.result = c.newResult(resp)
	c.log.InfoWithFields("query %q resolved", []logger.Field{
		logger.Count(len(resp.TableData)),
		logger.F("area", resp.Area),
	}, t.Query)
	return true
}

func (c *Controller) newResult(resp *api.AnalysisResponse) *Result {
	return &Result{
		Response: resp,
		Table:    table.New(resp.TableData, table.WithRowsPerPage(c.rowsPerPage), table.WithLocale(c.locale)),
		Metrics:  chart.ComputeMetrics(resp.ChartData),
		Deltas:   chart.ComputeDeltas(resp.ChartData),
		Key:      summary.Extract(resp.Summary, resp.ChartData, string(resp.YearRange)),
	}
}

// Run performs the network call for t and resolves it
func (c *Controller) Run(ctx context.Context, t Ticket) bool {
	resp, err := c.svc.Analyze(ctx, t.Query)
	return c.Resolve(t, resp, err)
}

// Submit runs query to completion and returns its result
func (c *Controller) Submit(ctx context.Context, query string) (*Result, error) {
	t, err := c.Begin(query)
	if err != nil {
		return nil, err
	}
	return c.finish(ctx, t)
}

// Retry re-issues the last query
func (c *Controller) Retry() (Ticket, error) {
	c.mu.Lock()
	last := c.lastQuery
	c.mu.Unlock()

	if last == "" {
		return Ticket{}, ErrNothingToRetry
	}
	return c.Begin(last)
}

// RetrySync re-issues the last query and waits for it
func (c *Controller) RetrySync(ctx context.Context) (*Result, error) {
	t, err := c.Retry()
	if err != nil {
		return nil, err
	}
	return c.finish(ctx, t)
}

func (c *Controller) finish(ctx context.Context, t Ticket) (*Result, error) {
	if !c.Run(ctx, t) {
		return nil, ErrSuperseded
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq != t.seq {
		return nil, ErrSuperseded
	}
	if c.state == StateError {
		return nil, c.err
	}
	return c.result, nil
}

// Reset returns to idle. In-flight results are discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.current = Ticket{}
	c.state = StateIdle
	c.result = nil
	c.err = nil
	c.resetSummary()
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		State:      c.state,
		Query:      c.current.Query,
		RequestID:  c.current.ID,
		Result:     c.result,
		Err:        c.err,
		Summary:    c.summaryState,
		AISummary:  c.aiSummary,
		SummaryErr: c.summaryErr,
	}
}

// State returns the query state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns the current result, or nil
func (c *Controller) Result() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// LastQuery returns the most recently started query
func (c *Controller) LastQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastQuery
}

func (c *Controller) resetSummary() {
	c.summaryState = SummaryIdle
	c.aiSummary = ""
	c.summaryErr = nil
}

// BeginSummary marks the AI summary of the current result as loading
func (c *Controller) BeginSummary() (SummaryTicket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateSuccess || c.result == nil {
		return SummaryTicket{}, ErrNoResult
	}

	c.summaryState = SummaryLoading
	c.aiSummary = ""
	c.summaryErr = nil
	return SummaryTicket{
		Area:    c.result.Response.Area,
		Metrics: c.result.Metrics,
		seq:     c.seq,
	}, nil
}

// ResolveSummary applies an AI summary outcome. It reports false when the
// result it was requested for has been replaced.
func (c *Controller) ResolveSummary(t SummaryTicket, text string, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.seq != c.seq || c.state != StateSuccess || c.summaryState != SummaryLoading {
		c.log.Debug("dropping stale summary for %s", t.Area)
		return false
	}

	if err != nil {
		c.summaryState = SummaryFailed
		c.summaryErr = err
		c.log.Warn("AI summary for %s failed: %v", t.Area, err)
		return true
	}
	c.summaryState = SummaryReady
	c.aiSummary = text
	return true
}

// RunSummary performs the network call for t and resolves it
func (c *Controller) RunSummary(ctx context.Context, t SummaryTicket) bool {
	resp, err := c.svc.GenerateSummary(ctx, t.Area, t.Metrics)
	text := ""
	if err == nil {
		text = resp.AISummary
	}
	return c.ResolveSummary(t, text, err)
}

// Summarize requests the AI summary of the current result and waits for it
func (c *Controller) Summarize(ctx context.Context) (string, error) {
	t, err := c.BeginSummary()
	if err != nil {
		return "", err
	}
	if !c.RunSummary(ctx, t) {
		return "", ErrSuperseded
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.summaryState == SummaryFailed {
		return "", c.summaryErr
	}
	return c.aiSummary, nil
}

// Areas returns the service's localities, fetched once and then cached
func (c *Controller) Areas(ctx context.Context) ([]string, error) {
	if cached := c.CachedAreas(); cached != nil {
		return cached, nil
	}

	resp, err := c.svc.ListAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.areas == nil {
		c.areas = append([]string{}, resp.Areas...)
	}
	return append([]string(nil), c.areas...), nil
}

// CachedAreas returns the cached areas without a network call
func (c *Controller) CachedAreas() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.areas == nil {
		return nil
	}
	return append([]string{}, c.areas...)
}

// QuickQuery is the query a quick-analyze action submits for area
func QuickQuery(area string) string {
	return "Analyze " + area
}
