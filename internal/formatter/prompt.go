package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/EstateInsights/internal/chart"
	"github.com/yildizm/go-promptfmt"
)

// promptFormatter renders the analysis as an LLM-ready prompt. No model is
// called; the output is meant to be pasted elsewhere.
type promptFormatter struct{}

// NewPrompt creates a new prompt formatter
func NewPrompt() Formatter {
	return &promptFormatter{}
}

// MarketBriefing is the response shape the prompt asks for
type MarketBriefing struct {
	Summary    string   `json:"summary"`
	Outlook    string   `json:"outlook"` // "bullish", "neutral", "bearish"
	Highlights []string `json:"highlights"`
	Risks      []string `json:"risks"`
}

func (f *promptFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("no analysis to format")
	}
	prompt := BuildPrompt(report)

	var b strings.Builder
	if prompt.SystemPrompt != "" {
		b.WriteString("## System\n\n")
		b.WriteString(prompt.SystemPrompt + "\n\n")
	}
	b.WriteString("## Prompt\n\n")
	b.WriteString(prompt.String() + "\n")
	return []byte(b.String()), nil
}

// BuildPrompt assembles the market briefing prompt for report
func BuildPrompt(report *Report) *promptfmt.Prompt {
	res := report.Result
	m := res.Metrics

	pb := promptfmt.New().
		System("You are a real estate market analyst. Write concise, factual briefings for home buyers and investors using only the data provided.").
		User("Write a market briefing for %s covering %s.\n\nAverage Flat Rate: %s\nTotal Units Sold: %s\nTotal Sales: %s\nPrice Trend: %s (%s)",
			res.Response.Area,
			metricsRange(m),
			FormatPrice(m.AvgPrice),
			FormatCount(m.TotalUnits),
			FormatSales(m.SalesTotal),
			m.PriceTrend,
			FormatDelta(res.Deltas.Price))

	if len(res.Response.ChartData) > 0 {
		pb.AddContext("yearly_data", yearlyContext(res.Response.ChartData))
	}
	if text := strings.TrimSpace(res.Response.Summary); text != "" {
		pb.AddContext("service_summary", text)
	}
	if report.AISummary != "" {
		pb.AddContext("previous_ai_summary", report.AISummary)
	}

	return pb.ExpectJSON(&MarketBriefing{}).Build()
}

func yearlyContext(points []chart.Point) string {
	var lines []string
	for _, p := range points {
		rate := "n/a"
		if p.FlatRate != nil {
			rate = FormatPrice(*p.FlatRate)
		}
		lines = append(lines, fmt.Sprintf("%d: sales %s, units %s, flat rate %s",
			p.Year, FormatSales(p.TotalSales), FormatCount(p.TotalSold), rate))
	}
	return strings.Join(lines, "\n")
}
