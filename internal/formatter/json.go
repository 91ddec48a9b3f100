package formatter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yildizm/EstateInsights/internal/chart"
	"github.com/yildizm/EstateInsights/internal/summary"
	"github.com/yildizm/EstateInsights/internal/table"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("no analysis to format")
	}
	res := report.Result
	view := res.Table.View()

	output := &JSONOutput{
		Query:       report.Query,
		Area:        res.Response.Area,
		YearRange:   string(res.Response.YearRange),
		RecordCount: res.Response.RecordCount,
		Metrics:     res.Metrics,
		Deltas: DeltaOutput{
			PriceChange: deltaValue(res.Deltas.Price),
			SalesChange: deltaValue(res.Deltas.Sales),
		},
		KeyMetrics: createKeyMetricsOutput(res.Key),
		View: ViewOutput{
			State:      res.Table.State(),
			Page:       view.Page,
			TotalPages: view.TotalPages,
			Matched:    len(view.Matched),
			Total:      view.Total,
		},
		Columns:   view.Columns,
		Rows:      view.Matched,
		ChartData: res.Response.ChartData,
		Summary:   res.Response.Summary,
		AISummary: report.AISummary,
	}
	if !report.Generated.IsZero() {
		output.Generated = report.Generated.UTC().Format(time.RFC3339)
	}

	return json.MarshalIndent(output, "", "  ")
}

// JSONOutput is the machine-readable analysis. Rows carries every matched
// record in view order, not just the current page.
type JSONOutput struct {
	Query       string            `json:"query,omitempty"`
	Area        string            `json:"area"`
	YearRange   string            `json:"year_range"`
	RecordCount int               `json:"record_count"`
	Generated   string            `json:"generated,omitempty"`
	Metrics     chart.Metrics     `json:"metrics"`
	Deltas      DeltaOutput       `json:"deltas"`
	KeyMetrics  *KeyMetricsOutput `json:"key_metrics,omitempty"`
	View        ViewOutput        `json:"view"`
	Columns     []string          `json:"columns"`
	Rows        []table.Record    `json:"rows"`
	ChartData   []chart.Point     `json:"chart_data"`
	Summary     string            `json:"summary"`
	AISummary   string            `json:"ai_summary,omitempty"`
}

// DeltaOutput holds first-to-last changes; null when not computable
type DeltaOutput struct {
	PriceChange *float64 `json:"price_change"`
	SalesChange *float64 `json:"sales_change"`
}

// KeyMetricsOutput mirrors the summary badges; absent fields were not found
type KeyMetricsOutput struct {
	AvgPrice    *float64 `json:"avg_price,omitempty"`
	TotalUnits  *int     `json:"total_units,omitempty"`
	YearRange   string   `json:"year_range,omitempty"`
	PriceChange *float64 `json:"price_change,omitempty"`
}

// ViewOutput describes the table view the rows were taken from
type ViewOutput struct {
	State      table.ViewState `json:"state"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	Matched    int             `json:"matched"`
	Total      int             `json:"total"`
}

func deltaValue(d chart.Delta) *float64 {
	if !d.OK {
		return nil
	}
	v := d.Percent
	return &v
}

func createKeyMetricsOutput(k summary.KeyMetrics) *KeyMetricsOutput {
	if !k.HasAny() {
		return nil
	}

	out := &KeyMetricsOutput{}
	if k.AvgPriceFrom != summary.SourceNone {
		v := k.AvgPrice
		out.AvgPrice = &v
	}
	if k.TotalUnitsFrom != summary.SourceNone {
		v := k.TotalUnits
		out.TotalUnits = &v
	}
	if k.YearRangeFrom != summary.SourceNone {
		out.YearRange = k.YearRange
	}
	if k.PriceChangeFrom != summary.SourceNone {
		v := k.PriceChange
		out.PriceChange = &v
	}
	return out
}
