package ui

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/EstateInsights/internal/api"
	"github.com/yildizm/EstateInsights/internal/chart"
	"github.com/yildizm/EstateInsights/internal/session"
	"github.com/yildizm/EstateInsights/internal/table"
)

type fakeService struct {
	mu         sync.Mutex
	queries    []string
	analyzeErr error
}

func (f *fakeService) Analyze(ctx context.Context, query string) (*api.AnalysisResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return testResponse(), nil
}

func (f *fakeService) ListAreas(ctx context.Context) (*api.AreasResponse, error) {
	return &api.AreasResponse{Areas: []string{"Akurdi", "Wakad"}, Count: 2}, nil
}

func (f *fakeService) GenerateSummary(ctx context.Context, area string, metrics chart.Metrics) (*api.SummaryResponse, error) {
	return &api.SummaryResponse{AISummary: area + " prices are rising", Area: area}, nil
}

func testResponse() *api.AnalysisResponse {
	data := make(table.Dataset, 7)
	for i := range data {
		data[i] = table.NewRecord(
			table.Field{Column: "Year", Value: table.Number(float64(2018 + i))},
			table.Field{Column: "Area", Value: table.Text("Wakad")},
		)
	}
	r1, r2 := 5000.0, 6000.0
	return &api.AnalysisResponse{
		Area:    "Wakad",
		Summary: "Average price: ₹5,500 per sqft\nTotal units sold: 300",
		ChartData: []chart.Point{
			{Year: 2018, TotalSales: 10, TotalSold: 100, FlatRate: &r1},
			{Year: 2019, TotalSales: 12, TotalSold: 200, FlatRate: &r2},
		},
		TableData: data,
		YearRange: "2018-2024",
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func newTestModel(svc session.Service) (*Model, *session.Controller) {
	ctrl := session.New(svc)
	m := NewModel(ctrl, Options{
		ExportDir: os.TempDir(),
		Now:       func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) },
	})
	return m, ctrl
}

// send applies msg and returns the follow-up command
func send(t *testing.T, m *Model, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(msg)
	return cmd
}

// analyze types query, submits it and feeds the result back
func analyze(t *testing.T, m *Model, query string) {
	t.Helper()
	send(t, m, runes(query))
	cmd := send(t, m, key(tea.KeyEnter))
	if m.CurrentView() != ViewLoading {
		t.Fatalf("Expected loading view after submit, got %d", m.CurrentView())
	}
	if cmd == nil {
		t.Fatal("Expected analysis command")
	}
	send(t, m, cmd())
}

func TestSubmitShowsResults(t *testing.T) {
	svc := &fakeService{}
	m, ctrl := newTestModel(svc)

	analyze(t, m, "Analyze Wakad")

	if m.CurrentView() != ViewResults {
		t.Fatalf("Expected results view, got %d", m.CurrentView())
	}
	if ctrl.LastQuery() != "Analyze Wakad" {
		t.Errorf("Expected last query 'Analyze Wakad', got %q", ctrl.LastQuery())
	}
	if !strings.Contains(m.View(), "Real Estate Analysis: Wakad") {
		t.Error("Expected results header in view")
	}
}

func TestEmptyQueryStaysHome(t *testing.T) {
	m, _ := newTestModel(&fakeService{})

	if cmd := send(t, m, key(tea.KeyEnter)); cmd != nil {
		t.Error("Expected no command for empty query")
	}
	if m.CurrentView() != ViewHome {
		t.Errorf("Expected home view, got %d", m.CurrentView())
	}
	if m.status == "" || !m.statusErr {
		t.Error("Expected an error status for empty query")
	}
}

func TestErrorViewAndRetry(t *testing.T) {
	svc := &fakeService{analyzeErr: &api.Error{Kind: api.ErrKindStatus, StatusCode: 400, Message: "Please specify an area"}}
	m, _ := newTestModel(svc)

	analyze(t, m, "prices")
	if m.CurrentView() != ViewError {
		t.Fatalf("Expected error view, got %d", m.CurrentView())
	}
	if !strings.Contains(m.View(), "Invalid Query") {
		t.Error("Expected error title in view")
	}

	svc.mu.Lock()
	svc.analyzeErr = nil
	svc.mu.Unlock()

	cmd := send(t, m, runes("r"))
	if m.CurrentView() != ViewLoading || cmd == nil {
		t.Fatal("Expected retry to start loading")
	}
	send(t, m, cmd())
	if m.CurrentView() != ViewResults {
		t.Errorf("Expected results after retry, got %d", m.CurrentView())
	}
	if len(svc.queries) != 2 || svc.queries[1] != "prices" {
		t.Errorf("Expected retried query 'prices', got %v", svc.queries)
	}
}

func TestCancelDropsResult(t *testing.T) {
	m, ctrl := newTestModel(&fakeService{})

	send(t, m, runes("Analyze Wakad"))
	cmd := send(t, m, key(tea.KeyEnter))
	send(t, m, key(tea.KeyEsc))
	if m.CurrentView() != ViewHome {
		t.Fatalf("Expected home after cancel, got %d", m.CurrentView())
	}

	send(t, m, cmd())
	if m.CurrentView() != ViewHome {
		t.Errorf("Expected superseded result to be ignored, got view %d", m.CurrentView())
	}
	if ctrl.State() != session.StateIdle {
		t.Errorf("Expected idle controller, got %s", ctrl.State())
	}
}

func TestResultsTableKeys(t *testing.T) {
	m, ctrl := newTestModel(&fakeService{})
	analyze(t, m, "Analyze Wakad")
	tbl := ctrl.Result().Table

	send(t, m, runes("1"))
	if col, ok := tbl.State().Sort.Column(); !ok || col != "Year" {
		t.Errorf("Expected sort on Year, got %s", tbl.State().Sort)
	}
	send(t, m, runes("1"))
	if tbl.State().Sort.Direction() != table.Descending {
		t.Errorf("Expected descending after second press, got %s", tbl.State().Sort)
	}

	send(t, m, key(tea.KeyRight))
	if got := tbl.View().Page; got != 2 {
		t.Errorf("Expected page 2, got %d", got)
	}
	send(t, m, key(tea.KeyLeft))
	if got := tbl.View().Page; got != 1 {
		t.Errorf("Expected page 1, got %d", got)
	}

	send(t, m, runes("9"))
	if col, _ := tbl.State().Sort.Column(); col != "Year" {
		t.Errorf("Expected out of range column key to be ignored, got %s", tbl.State().Sort)
	}

	send(t, m, runes("c"))
	if tbl.HasFilters() {
		t.Error("Expected filters cleared")
	}
}

func TestColumnCursorSort(t *testing.T) {
	m, ctrl := newTestModel(&fakeService{})
	analyze(t, m, "Analyze Wakad")
	tbl := ctrl.Result().Table

	send(t, m, runes("["))
	send(t, m, runes("s"))
	if col, ok := tbl.State().Sort.Column(); !ok || col != "Year" {
		t.Errorf("Expected cursor to stay on the first column, got %s", tbl.State().Sort)
	}

	// past the last column the cursor stays put
	send(t, m, runes("]"))
	send(t, m, runes("]"))
	send(t, m, runes("]"))
	send(t, m, runes("s"))
	if col, ok := tbl.State().Sort.Column(); !ok || col != "Area" {
		t.Errorf("Expected sort on Area, got %s", tbl.State().Sort)
	}
	send(t, m, runes("s"))
	if tbl.State().Sort.Direction() != table.Descending {
		t.Errorf("Expected descending after second press, got %s", tbl.State().Sort)
	}

	send(t, m, runes("1"))
	send(t, m, runes("]"))
	send(t, m, runes("s"))
	if col, _ := tbl.State().Sort.Column(); col != "Area" {
		t.Errorf("Expected number key to move the cursor, got %s", tbl.State().Sort)
	}
}

func TestSearchMode(t *testing.T) {
	m, ctrl := newTestModel(&fakeService{})
	analyze(t, m, "Analyze Wakad")
	tbl := ctrl.Result().Table

	send(t, m, runes("/"))
	if !m.searching {
		t.Fatal("Expected search mode")
	}
	send(t, m, runes("2019"))
	if got := len(tbl.Matched()); got != 1 {
		t.Errorf("Expected 1 match for 2019, got %d", got)
	}
	send(t, m, key(tea.KeyBackspace))
	if got := tbl.State().SearchTerm; got != "201" {
		t.Errorf("Expected term '201', got %q", got)
	}

	// keys are text while searching
	send(t, m, runes("q"))
	if m.quitting {
		t.Error("Expected q to be typed, not quit")
	}

	send(t, m, key(tea.KeyEsc))
	if m.searching || tbl.State().SearchTerm != "" {
		t.Error("Expected esc to leave search and clear the term")
	}
}

func TestChartModeCycles(t *testing.T) {
	m, _ := newTestModel(&fakeService{})
	analyze(t, m, "Analyze Wakad")

	want := []chart.Mode{chart.Line, chart.Bar, chart.Area, chart.Composed}
	for _, mode := range want {
		send(t, m, runes("t"))
		if m.chartMode != mode {
			t.Errorf("Expected %s, got %s", mode, m.chartMode)
		}
	}
}

func TestExportWritesFile(t *testing.T) {
	m, _ := newTestModel(&fakeService{})
	m.exportDir = t.TempDir()
	analyze(t, m, "Analyze Wakad")

	cmd := send(t, m, runes("e"))
	if cmd == nil {
		t.Fatal("Expected export command")
	}
	msg := cmd()
	done, ok := msg.(exportDoneMsg)
	if !ok {
		t.Fatalf("Expected exportDoneMsg, got %T", msg)
	}
	if done.err != nil {
		t.Fatalf("Export failed: %v", done.err)
	}
	send(t, m, msg)

	data, err := os.ReadFile(done.path)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "Year,Area\n") {
		t.Errorf("Unexpected export header: %q", string(data))
	}
	if !strings.Contains(m.status, "Exported to") {
		t.Errorf("Expected export status, got %q", m.status)
	}
}

func TestAISummary(t *testing.T) {
	m, ctrl := newTestModel(&fakeService{})
	analyze(t, m, "Analyze Wakad")

	cmd := send(t, m, runes("g"))
	if cmd == nil {
		t.Fatal("Expected summary command")
	}
	if ctrl.Snapshot().Summary != session.SummaryLoading {
		t.Error("Expected summary loading")
	}
	send(t, m, cmd())

	snap := ctrl.Snapshot()
	if snap.Summary != session.SummaryReady || snap.AISummary != "Wakad prices are rising" {
		t.Errorf("Expected ready summary, got %s %q", snap.Summary, snap.AISummary)
	}
}

func TestHelpReturnsToPreviousView(t *testing.T) {
	m, _ := newTestModel(&fakeService{})
	analyze(t, m, "Analyze Wakad")

	send(t, m, runes("?"))
	if m.CurrentView() != ViewHelp {
		t.Fatalf("Expected help view, got %d", m.CurrentView())
	}
	if !strings.Contains(m.View(), "EstateInsights Help") {
		t.Error("Expected help title")
	}
	send(t, m, key(tea.KeyEsc))
	if m.CurrentView() != ViewResults {
		t.Errorf("Expected results view, got %d", m.CurrentView())
	}
}

func TestQuickAreaSubmitsQuery(t *testing.T) {
	svc := &fakeService{}
	m, ctrl := newTestModel(svc)

	send(t, m, CreateAreasCommand(context.Background(), ctrl)())
	send(t, m, key(tea.KeyTab))
	send(t, m, key(tea.KeyDown))
	cmd := send(t, m, key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("Expected analysis command")
	}
	send(t, m, cmd())

	if len(svc.queries) != 1 || svc.queries[0] != "Analyze Wakad" {
		t.Errorf("Expected quick query 'Analyze Wakad', got %v", svc.queries)
	}
}

func TestAreasErrorShown(t *testing.T) {
	m, _ := newTestModel(&fakeService{})
	send(t, m, areasMsg{err: errors.New("offline")})
	if !strings.Contains(m.View(), "Could not load areas") {
		t.Error("Expected areas warning on home view")
	}
}

func TestThemeByName(t *testing.T) {
	defer SetThemeByName("default")

	for _, name := range GetAvailableThemes() {
		if !SetThemeByName(name) {
			t.Errorf("Expected theme %s to be accepted", name)
		}
		if GetTheme().Name != name {
			t.Errorf("Expected active theme %s, got %s", name, GetTheme().Name)
		}
	}
	if SetThemeByName("neon") {
		t.Error("Expected unknown theme to be rejected")
	}
}
