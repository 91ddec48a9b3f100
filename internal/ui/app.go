package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/EstateInsights/internal/chart"
	"github.com/yildizm/EstateInsights/internal/emoji"
	"github.com/yildizm/EstateInsights/internal/logger"
	"github.com/yildizm/EstateInsights/internal/session"
	"github.com/yildizm/EstateInsights/internal/summary"
	"github.com/yildizm/EstateInsights/internal/ui/components"
)

// ViewState represents the screens of the dashboard
type ViewState int

const (
	ViewHome ViewState = iota
	ViewLoading
	ViewResults
	ViewError
	ViewHelp
)

// focus on the home screen
const (
	focusInput = iota
	focusAreas
)

// Options configures the dashboard
type Options struct {
	Context      context.Context
	InitialQuery string
	ChartMode    chart.Mode
	ChartHeight  int
	ExportDir    string
	Theme        string
	Logger       *logger.Logger
	Now          func() time.Time
}

// Model is the interactive dashboard
type Model struct {
	ctrl *session.Controller
	ctx  context.Context
	log  *logger.Logger
	now  func() time.Time

	width    int
	height   int
	quitting bool

	view     ViewState
	helpFrom ViewState

	// home
	input    string
	focus    int
	areaList *components.List
	areaErr  error

	// loading
	pending session.Ticket
	started time.Time

	// results
	searching   bool
	sortCursor  int // column index the s key sorts
	chartMode   chart.Mode
	chartHeight int
	exportDir   string
	scroll      int
	status      string
	statusErr   bool

	tick int
}

// NewModel creates the dashboard model for ctrl
func NewModel(ctrl *session.Controller, opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	height := opts.ChartHeight
	if height < 2 {
		height = 4
	}

	return &Model{
		ctrl:        ctrl,
		ctx:         ctx,
		log:         log.WithComponent("ui"),
		now:         now,
		width:       100,
		height:      40,
		input:       opts.InitialQuery,
		areaList:    components.NewAreaList(nil, nil, 40, 12),
		chartMode:   opts.ChartMode,
		chartHeight: height,
		exportDir:   opts.ExportDir,
	}
}

// Init loads the quick areas and runs the initial query, if any
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick(), CreateAreasCommand(m.ctx, m.ctrl)}
	if strings.TrimSpace(m.input) != "" {
		cmds = append(cmds, m.submit(m.input))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and navigation
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		return m.handleTick()
	case analysisDoneMsg:
		return m.handleAnalysisDone(msg)
	case summaryDoneMsg:
		return m.handleSummaryDone(msg)
	case areasMsg:
		return m.handleAreas(msg)
	case exportDoneMsg:
		return m.handleExportDone(msg)
	}
	return m, nil
}

// CurrentView returns the screen being shown
func (m *Model) CurrentView() ViewState {
	return m.view
}

func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.areaList.Width = max(20, min(m.width-8, 60))
	m.areaList.Height = max(6, m.height/3)
	return m, nil
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	m.tick++
	return m, tick()
}

// submit starts query and switches to the loading screen
func (m *Model) submit(query string) tea.Cmd {
	ticket, err := m.ctrl.Begin(query)
	if err != nil {
		m.setStatus(err.Error(), true)
		return nil
	}
	return m.startLoading(ticket)
}

func (m *Model) startLoading(ticket session.Ticket) tea.Cmd {
	m.pending = ticket
	m.started = m.now()
	m.view = ViewLoading
	m.searching = false
	m.scroll = 0
	m.status = ""
	m.log.Debug("running query %q", ticket.Query)
	return CreateAnalysisCommand(m.ctx, m.ctrl, ticket)
}

func (m *Model) handleAnalysisDone(msg analysisDoneMsg) (tea.Model, tea.Cmd) {
	if !msg.applied || msg.ticket.ID != m.pending.ID {
		m.log.Debug("ignoring superseded result for %q", msg.ticket.Query)
		return m, nil
	}

	switch m.ctrl.State() {
	case session.StateSuccess:
		m.view = ViewResults
		m.sortCursor = 0
	case session.StateError:
		m.view = ViewError
	}
	return m, nil
}

func (m *Model) handleSummaryDone(msg summaryDoneMsg) (tea.Model, tea.Cmd) {
	if !msg.applied {
		return m, nil
	}
	snap := m.ctrl.Snapshot()
	if snap.Summary == session.SummaryFailed {
		m.setStatus("AI summary failed: "+snap.SummaryErr.Error(), true)
	}
	return m, nil
}

func (m *Model) handleAreas(msg areasMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.areaErr = msg.err
		return m, nil
	}
	list := components.NewAreaList(msg.areas, nil, m.areaList.Width, m.areaList.Height)
	list.SetFocused(m.focus == focusAreas)
	m.areaList = list
	return m, nil
}

func (m *Model) handleExportDone(msg exportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatus("Export failed: "+msg.err.Error(), true)
		return m, nil
	}
	m.setStatus("Exported to "+msg.path, false)
	return m, nil
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.handleQuit()
	}

	switch m.view {
	case ViewHome:
		return m.handleHomeKey(msg)
	case ViewLoading:
		return m.handleLoadingKey(msg)
	case ViewResults:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleResultsKey(msg)
	case ViewError:
		return m.handleErrorKey(msg)
	case ViewHelp:
		return m.handleHelpKey(msg)
	}
	return m, nil
}

func (m *Model) handleQuit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) handleHelp() (tea.Model, tea.Cmd) {
	m.helpFrom = m.view
	m.view = ViewHelp
	return m, nil
}

func (m *Model) goHome() {
	m.view = ViewHome
	m.searching = false
	m.scroll = 0
	m.status = ""
}

func (m *Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.input != "" {
			m.input = ""
			return m, nil
		}
		return m.handleQuit()
	case "tab":
		if m.focus == focusInput && m.areaList.Len() > 0 {
			m.focus = focusAreas
		} else {
			m.focus = focusInput
		}
		m.areaList.SetFocused(m.focus == focusAreas)
		return m, nil
	case "enter":
		if m.focus == focusAreas {
			if item := m.areaList.GetSelectedItem(); item != nil {
				return m, m.submit(session.QuickQuery(item.ID))
			}
			return m, nil
		}
		return m, m.submit(m.input)
	}

	if m.focus == focusAreas {
		switch msg.String() {
		case "up", "k":
			m.areaList.MoveUp()
		case "down", "j":
			m.areaList.MoveDown()
		case "?":
			return m.handleHelp()
		case "q":
			return m.handleQuit()
		}
		return m, nil
	}

	m.input = editText(m.input, msg)
	return m, nil
}

func (m *Model) handleLoadingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.handleQuit()
	case "esc":
		m.ctrl.Reset()
		m.goHome()
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res := m.ctrl.Result()
	if res == nil {
		m.searching = false
		return m, nil
	}

	switch msg.String() {
	case "enter":
		m.searching = false
		return m, nil
	case "esc":
		m.searching = false
		res.Table.SetSearchTerm("")
		return m, nil
	}

	term := editText(res.Table.State().SearchTerm, msg)
	res.Table.SetSearchTerm(term)
	return m, nil
}

func (m *Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res := m.ctrl.Result()
	if res == nil {
		m.goHome()
		return m, nil
	}

	key := msg.String()
	switch key {
	case "q":
		return m.handleQuit()
	case "?", "h":
		return m.handleHelp()
	case "esc", "n":
		m.input = ""
		m.focus = focusInput
		m.areaList.SetFocused(false)
		m.goHome()
	case "/":
		m.searching = true
	case "left":
		res.Table.PrevPage()
	case "right":
		res.Table.NextPage()
	case "c":
		res.Table.ClearFilters()
		m.setStatus("Filters cleared", false)
	case "t":
		m.chartMode = m.chartMode.Next()
	case "up", "k":
		if m.scroll > 0 {
			m.scroll--
		}
	case "down", "j":
		m.scroll++
	case "e":
		data := res.Table.Export()
		if len(data) == 0 {
			m.setStatus("Nothing to export", true)
			return m, nil
		}
		return m, CreateExportCommand(m.exportDir, data, m.now())
	case "g":
		ticket, err := m.ctrl.BeginSummary()
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		return m, CreateSummaryCommand(m.ctx, m.ctrl, ticket)
	case "r":
		return m.retry()
	case "[":
		if m.sortCursor > 0 {
			m.sortCursor--
		}
	case "]":
		if m.sortCursor < len(res.Table.Columns())-1 {
			m.sortCursor++
		}
	case "s":
		if cols := res.Table.Columns(); m.sortCursor < len(cols) {
			res.Table.ToggleSort(cols[m.sortCursor])
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			cols := res.Table.Columns()
			if i := int(key[0] - '1'); i < len(cols) {
				m.sortCursor = i
				res.Table.ToggleSort(cols[i])
			}
		}
	}
	return m, nil
}

func (m *Model) handleErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.handleQuit()
	case "?", "h":
		return m.handleHelp()
	case "r", "enter":
		return m.retry()
	case "esc", "n":
		m.goHome()
	}
	return m, nil
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.handleQuit()
	case "esc", "?", "h", "enter":
		m.view = m.helpFrom
	}
	return m, nil
}

func (m *Model) retry() (tea.Model, tea.Cmd) {
	ticket, err := m.ctrl.Retry()
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	return m, m.startLoading(ticket)
}

// editText applies a typing key to s
func editText(s string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyBackspace:
		if r := []rune(s); len(r) > 0 {
			return string(r[:len(r)-1])
		}
		return s
	case tea.KeySpace:
		return s + " "
	case tea.KeyRunes:
		return s + string(msg.Runes)
	}
	return s
}

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case ViewLoading:
		return m.renderLoadingView()
	case ViewResults:
		return m.renderResultsView()
	case ViewError:
		return m.renderErrorView()
	case ViewHelp:
		return m.renderHelpView()
	default:
		return m.renderHomeView()
	}
}

func (m *Model) renderHomeView() string {
	styles := GetStyles()

	title := styles.Title.Render(emoji.GetEmoji("building") + " EstateInsights")
	subtitle := styles.Muted.Render("Real estate locality analysis")

	input := m.input
	if input == "" && m.focus != focusInput {
		input = styles.Muted.Render(`e.g. "Analyze Wakad"`)
	} else if m.focus == focusInput {
		input += "▏"
	}
	inputStyle := styles.Input.Width(max(20, min(m.width-8, 60)))
	if m.focus != focusInput {
		inputStyle = inputStyle.BorderForeground(styles.Theme.Border)
	}
	inputBox := inputStyle.Render(emoji.GetEmoji("search") + " " + input)

	parts := []string{title, subtitle, "", inputBox, ""}
	if m.areaErr != nil {
		parts = append(parts, styles.Warning.Render(emoji.GetEmoji("warning")+" Could not load areas"))
	} else {
		parts = append(parts, m.areaList.Render())
	}

	if m.status != "" {
		parts = append(parts, "", m.renderStatus())
	}
	parts = append(parts, "", styles.Muted.Render("Enter analyze • Tab switch focus • ↑↓ choose area • Esc quit"))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderLoadingView() string {
	styles := GetStyles()

	indicator := components.NewLoadingIndicator(30, m.started)
	indicator.SetFrame(m.tick)
	indicator.SetMessage(fmt.Sprintf("Analyzing %q...", m.pending.Query))

	content := lipgloss.JoinVertical(lipgloss.Left,
		indicator.Render(m.now()),
		"",
		styles.Muted.Render("Esc cancel • q quit"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, styles.Box.Render(content))
}

func (m *Model) renderErrorView() string {
	styles := GetStyles()
	snap := m.ctrl.Snapshot()

	viewer := components.NewErrorViewer(snap.Err, min(m.width-4, 80))
	content := lipgloss.JoinVertical(lipgloss.Left,
		viewer.Render(),
		"",
		styles.Muted.Render("r retry • n new query • q quit"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderResultsView() string {
	styles := GetStyles()
	snap := m.ctrl.Snapshot()
	res := snap.Result
	if res == nil {
		return m.renderHomeView()
	}
	width := max(40, m.width-2)

	header := styles.Title.Render(emoji.GetEmoji("location") + " Real Estate Analysis: " + res.Response.Area)
	sections := []string{header, styles.Muted.Render("  Query: " + snap.Query), ""}

	if dashboard := components.NewKeyMetricsDashboard(res.Key, 4); dashboard.Len() > 0 {
		sections = append(sections, dashboard.Render(), "")
	}

	trend := components.RenderDelta("Price change", res.Deltas.Price) + "   " +
		components.RenderDelta("Sales change", res.Deltas.Sales)
	if spark := components.NewPriceSparkline(res.Response.ChartData, 20).Render(); spark != "" {
		trend += "   " + styles.Muted.Render(spark)
	}
	sections = append(sections, trend, "")

	if lines := summary.Lines(res.Response.Summary); len(lines) > 0 {
		box := components.NewSummaryBox(emoji.GetEmoji("statistics")+" Summary", width)
		box.AddLines(lines)
		sections = append(sections, box.Render())
	}

	yearly := components.NewYearlyChart(emoji.GetEmoji("chart")+" Yearly Trend", res.Response.ChartData, m.chartMode, width, m.chartHeight)
	sections = append(sections, yearly.Render())

	dataTable := components.NewDataTable(res.Table, width)
	dataTable.Searching = m.searching
	dataTable.Cursor = m.sortCursor
	sections = append(sections, dataTable.Render())

	if ai := m.renderAISummary(snap, width); ai != "" {
		sections = append(sections, ai)
	}

	body := strings.Split(lipgloss.JoinVertical(lipgloss.Left, sections...), "\n")
	footer := []string{}
	if m.status != "" {
		footer = append(footer, m.renderStatus())
	}
	footer = append(footer, styles.StatusBar.Render(
		"/ search • [ ] column • s/1-9 sort • ←→ page • c clear • t chart • e export • g AI summary • n new • ? help • q quit"))

	visible := m.height - len(footer)
	if visible < 1 {
		visible = len(body)
	}
	maxScroll := max(0, len(body)-visible)
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	end := min(len(body), m.scroll+visible)

	return strings.Join(append(body[m.scroll:end], footer...), "\n")
}

func (m *Model) renderAISummary(snap session.Snapshot, width int) string {
	styles := GetStyles()
	title := emoji.GetEmoji("sparkles") + " AI Summary"

	switch snap.Summary {
	case session.SummaryLoading:
		spinner := components.NewSpinner()
		spinner.Frame = m.tick
		spinner.SetLabel("Generating AI summary...")
		return styles.Box.Padding(0, 1).Width(width).Render(title + "\n\n" + spinner.Render())
	case session.SummaryReady:
		box := components.NewSummaryBox(title, width)
		box.AddLines(summary.Lines(snap.AISummary))
		return box.Render()
	case session.SummaryFailed:
		return styles.Error.Render(emoji.GetEmoji("error") + " AI summary unavailable (press g to retry)")
	default:
		return ""
	}
}

func (m *Model) renderStatus() string {
	styles := GetStyles()
	if m.statusErr {
		return styles.Error.Render(emoji.GetEmoji("warning") + " " + m.status)
	}
	return styles.Success.Render(emoji.GetEmoji("success") + " " + m.status)
}

func (m *Model) renderHelpView() string {
	styles := GetStyles()

	sections := []components.DetailSection{
		{Title: emoji.GetEmoji("search") + " Home", Content: []string{
			"Enter        Analyze the typed query or selected area",
			"Tab          Switch between query input and area list",
			"Esc          Clear input, or quit when empty",
		}},
		{Title: emoji.GetEmoji("table") + " Results", Content: []string{
			"/            Search the table (Enter keep, Esc clear)",
			"[ ]          Move the column cursor",
			"s            Sort by the cursor column; again to reverse, third to reset",
			"1-9          Sort by one of the first nine columns",
			"← →          Previous / next page",
			"c            Clear search, sort and page",
			"t            Cycle chart mode",
			"e            Export the filtered table to CSV",
			"g            Generate AI summary",
			"↑↓ j/k       Scroll",
		}},
		{Title: emoji.GetEmoji("door") + " Anywhere", Content: []string{
			"r            Retry the last query",
			"n            New query",
			"?            Toggle this help",
			"q / Ctrl+C   Quit",
		}},
	}

	viewer := components.NewDetailViewer(emoji.GetEmoji("help")+" EstateInsights Help", min(m.width-4, 80), 0)
	for _, s := range sections {
		s.Style = "info"
		viewer.AddSection(s)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		viewer.Render(),
		"",
		styles.Warning.Render("Press Esc to go back"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// Run runs the dashboard until the user quits
func Run(ctrl *session.Controller, opts Options) error {
	if opts.Theme != "" && !SetThemeByName(opts.Theme) {
		return fmt.Errorf("unknown theme %q (available: %s)", opts.Theme, strings.Join(GetAvailableThemes(), ", "))
	}
	model := NewModel(ctrl, opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
