package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yildizm/EstateInsights/internal/chart"
	"github.com/yildizm/EstateInsights/internal/table"
)

// YearSpan is a "2020-2024" range. Older service builds sent
// {"start":2020,"end":2024}; both decode to the same text.
type YearSpan string

func (y *YearSpan) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var r chart.YearRange
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		*y = YearSpan(fmt.Sprintf("%d-%d", r.Start, r.End))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*y = YearSpan(s)
	return nil
}

// AnalysisResponse is the result of an analyze query
type AnalysisResponse struct {
	Area         string        `json:"area"`
	Summary      string        `json:"summary"`
	ChartData    []chart.Point `json:"chartData"`
	TableData    table.Dataset `json:"tableData"`
	Query        string        `json:"query"`
	RecordCount  int           `json:"recordCount"`
	YearRange    YearSpan      `json:"yearRange"`
	AIGenerated  bool          `json:"aiGenerated,omitempty"`
	BasicSummary string        `json:"basicSummary,omitempty"`
}

// AreaDetail describes one locality in the dataset
type AreaDetail struct {
	Name     string `json:"name"`
	Years    string `json:"years"`
	Records  int    `json:"records"`
	AvgPrice string `json:"avgPrice"`
}

// AreasResponse lists the localities the service knows about
type AreasResponse struct {
	Areas   []string     `json:"areas"`
	Count   int          `json:"count"`
	Details []AreaDetail `json:"details"`
}

// SummaryRequest asks for a narrative summary of computed metrics
type SummaryRequest struct {
	Area string        `json:"area"`
	Data chart.Metrics `json:"data"`
}

// SummaryResponse carries the generated narrative
type SummaryResponse struct {
	AISummary string `json:"aiSummary"`
	Area      string `json:"area"`
	Timestamp string `json:"timestamp"`
}

// AreaComparison is one locality in a comparison
type AreaComparison struct {
	Area           string        `json:"area"`
	AvgFlatRate    float64       `json:"avgFlatRate"`
	TotalSales     float64       `json:"totalSales"`
	TotalUnitsSold int           `json:"totalUnitsSold"`
	ChartData      []chart.Point `json:"chartData"`
}

// CompareResponse is the result of a multi-area query
type CompareResponse struct {
	Areas      []string         `json:"areas"`
	Comparison []AreaComparison `json:"comparison"`
	Query      string           `json:"query"`
}

// HealthResponse reports service status
type HealthResponse struct {
	Status        string   `json:"status"`
	Message       string   `json:"message"`
	DatasetLoaded bool     `json:"datasetLoaded"`
	TotalRecords  int      `json:"totalRecords"`
	Areas         []string `json:"areas"`
	YearRange     YearSpan `json:"yearRange"`
	Timestamp     string   `json:"timestamp"`
}

// Download is a server-rendered CSV of an area's raw records
type Download struct {
	Filename string
	Data     []byte
}

type queryRequest struct {
	Query string `json:"query"`
}

type errorBody struct {
	Error          string   `json:"error"`
	AvailableAreas []string `json:"availableAreas"`
	Suggestion     string   `json:"suggestion"`
}
