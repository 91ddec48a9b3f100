package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yildizm/EstateInsights/internal/api"
	"github.com/yildizm/EstateInsights/internal/chart"
	"github.com/yildizm/EstateInsights/internal/summary"
	"github.com/yildizm/EstateInsights/internal/table"
	"golang.org/x/text/language"
)

const snapshotVersion = 1

// Saved is an analysis written to disk with its table view state
type Saved struct {
	Version   int                   `json:"version"`
	Query     string                `json:"query"`
	SavedAt   time.Time             `json:"saved_at"`
	Response  *api.AnalysisResponse `json:"response"`
	View      table.ViewState       `json:"view"`
	AISummary string                `json:"ai_summary,omitempty"`
}

// Save captures the current result
func (c *Controller) Save(now time.Time) (*Saved, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateSuccess || c.result == nil {
		return nil, ErrNoResult
	}

	s := &Saved{
		Version:  snapshotVersion,
		Query:    c.current.Query,
		SavedAt:  now.UTC(),
		Response: c.result.Response,
		View:     c.result.Table.State(),
	}
	if c.summaryState == SummaryReady {
		s.AISummary = c.aiSummary
	}
	return s, nil
}

// Result rebuilds the derived views, restoring the saved table state
func (s *Saved) Result(locale language.Tag) *Result {
	resp := s.Response
	tbl := table.New(resp.TableData, table.WithRowsPerPage(s.View.RowsPerPage), table.WithLocale(locale))
	tbl.Restore(s.View)

	return &Result{
		Response: resp,
		Table:    tbl,
		Metrics:  chart.ComputeMetrics(resp.ChartData),
		Deltas:   chart.ComputeDeltas(resp.ChartData),
		Key:      summary.Extract(resp.Summary, resp.ChartData, string(resp.YearRange)),
	}
}

// WriteSnapshot writes s as indented JSON
func WriteSnapshot(path string, s *Saved) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads a snapshot written by WriteSnapshot
func ReadSnapshot(path string) (*Saved, error) {
	data, err := os.ReadFile(path) // #nosec G304 - user-specified snapshot file
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var s Saved
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	if s.Response == nil {
		return nil, errors.New("snapshot has no analysis response")
	}
	return &s, nil
}
