package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/EstateInsights/internal/session"
	"github.com/yildizm/EstateInsights/internal/table"
)

// Message types shared across UI models
type tickMsg time.Time

// analysisDoneMsg reports a finished query. applied is false when a newer
// query or a reset superseded it.
type analysisDoneMsg struct {
	ticket  session.Ticket
	applied bool
}

type summaryDoneMsg struct {
	area    string
	applied bool
}

type areasMsg struct {
	areas []string
	err   error
}

type exportDoneMsg struct {
	path string
	err  error
}

func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// CreateAnalysisCommand creates a tea command that runs the query for ticket
func CreateAnalysisCommand(ctx context.Context, ctrl *session.Controller, ticket session.Ticket) tea.Cmd {
	return func() tea.Msg {
		return analysisDoneMsg{
			ticket:  ticket,
			applied: ctrl.Run(ctx, ticket),
		}
	}
}

// CreateSummaryCommand creates a tea command that requests the AI summary
func CreateSummaryCommand(ctx context.Context, ctrl *session.Controller, ticket session.SummaryTicket) tea.Cmd {
	return func() tea.Msg {
		return summaryDoneMsg{
			area:    ticket.Area,
			applied: ctrl.RunSummary(ctx, ticket),
		}
	}
}

// CreateAreasCommand creates a tea command that loads the quick-analyze areas
func CreateAreasCommand(ctx context.Context, ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		areas, err := ctrl.Areas(ctx)
		return areasMsg{areas: areas, err: err}
	}
}

// CreateExportCommand creates a tea command that writes a CSV export
func CreateExportCommand(dir string, data []byte, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path, err := table.WriteExport(dir, data, now)
		return exportDoneMsg{path: path, err: err}
	}
}
