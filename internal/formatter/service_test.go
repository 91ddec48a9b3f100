package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/yildizm/EstateInsights/internal/api"
	"github.com/yildizm/EstateInsights/internal/emoji"
)

func testAreas() *api.AreasResponse {
	return &api.AreasResponse{
		Areas: []string{"Akurdi", "Wakad"},
		Count: 2,
		Details: []api.AreaDetail{
			{Name: "Wakad", Years: "2020-2024", Records: 12, AvgPrice: "₹8,200/sqft"},
		},
	}
}

func testComparison() *api.CompareResponse {
	return &api.CompareResponse{
		Areas: []string{"Wakad", "Aundh"},
		Query: "Compare Wakad and Aundh",
		Comparison: []api.AreaComparison{
			{Area: "Wakad", AvgFlatRate: 8000, TotalSales: 5e9, TotalUnitsSold: 1200},
			{Area: "Aundh", AvgFlatRate: 11000, TotalSales: 3e9, TotalUnitsSold: 800},
		},
	}
}

func TestFormatAreas(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	defer emoji.SetEmojiDisabled(false)

	tests := []struct {
		format string
		want   []string
	}{
		{"text", []string{"[LOC] Areas (2)", "Akurdi", "Wakad", "2020-2024"}},
		{"markdown", []string{"# Areas", "| Area | Years | Records | Avg Price |", "| Wakad | 2020-2024 | 12 |"}},
		{"csv", []string{"area,years,records,avg_price\n", `"Akurdi","","0",""`, `"Wakad","2020-2024","12"`}},
		{"json", []string{`"areas": [`, `"avgPrice"`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := FormatAreas(testAreas(), tt.format, false)
			if err != nil {
				t.Fatalf("FormatAreas() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(string(out), want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestFormatAreasEmpty(t *testing.T) {
	out, err := FormatAreas(&api.AreasResponse{}, "text", false)
	if err != nil {
		t.Fatalf("FormatAreas() error = %v", err)
	}
	if !strings.Contains(string(out), "No areas available") {
		t.Errorf("expected empty notice, got:\n%s", out)
	}
}

func TestFormatComparison(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	defer emoji.SetEmojiDisabled(false)

	out, err := FormatComparison(testComparison(), "text", false)
	if err != nil {
		t.Fatalf("FormatComparison() error = %v", err)
	}
	text := string(out)
	for _, want := range []string{"Comparison: Wakad vs Aundh", "Avg Flat Rate", "Highest flat rate", "Aundh (", "Most sales", "Wakad ("} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	csv, err := FormatComparison(testComparison(), "csv", false)
	if err != nil {
		t.Fatalf("FormatComparison(csv) error = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(csv), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(lines))
	}
	if lines[0] != "area,avg_flat_rate,total_sales,total_units_sold" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[2] != `"Aundh","11000","3000000000","800"` {
		t.Errorf("unexpected row %q", lines[2])
	}

	md, err := FormatComparison(testComparison(), "md", false)
	if err != nil {
		t.Fatalf("FormatComparison(md) error = %v", err)
	}
	if !strings.Contains(string(md), "**Query:** Compare Wakad and Aundh") {
		t.Errorf("markdown missing query:\n%s", md)
	}
}

func TestFormatComparisonEmpty(t *testing.T) {
	out, err := FormatComparison(&api.CompareResponse{Areas: []string{"Nowhere"}}, "text", false)
	if err != nil {
		t.Fatalf("FormatComparison() error = %v", err)
	}
	if !strings.Contains(string(out), "No comparison data available") {
		t.Errorf("expected empty notice, got:\n%s", out)
	}
}

func TestFormatHealth(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	defer emoji.SetEmojiDisabled(false)

	resp := &api.HealthResponse{
		Status:        "healthy",
		Message:       "ok",
		DatasetLoaded: true,
		TotalRecords:  1500,
		Areas:         []string{"Wakad", "Aundh"},
		YearRange:     "2020-2024",
	}

	out, err := FormatHealth(resp, "http://localhost:5000", "text", false)
	if err != nil {
		t.Fatalf("FormatHealth() error = %v", err)
	}
	text := string(out)
	for _, want := range []string{"[OK] Service Health", "http://localhost:5000", "2020-2024", "Dataset loaded"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Checked at") {
		t.Errorf("empty timestamp should be omitted:\n%s", text)
	}

	resp.DatasetLoaded = false
	out, _ = FormatHealth(resp, "", "text", false)
	if !strings.HasPrefix(string(out), "[WRN]") {
		t.Errorf("unloaded dataset should warn, got:\n%s", out)
	}

	data, err := FormatHealth(resp, "", "json", false)
	if err != nil {
		t.Fatalf("FormatHealth(json) error = %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["status"] != "healthy" {
		t.Errorf("status = %v", decoded["status"])
	}

	if _, err := FormatHealth(resp, "", "csv", false); err == nil {
		t.Error("expected csv to be rejected")
	}
}

func TestServiceFormatRejected(t *testing.T) {
	if _, err := FormatAreas(testAreas(), "yaml", false); err == nil {
		t.Error("expected unsupported format error")
	}
	if _, err := FormatComparison(nil, "text", false); err == nil {
		t.Error("expected error for nil comparison")
	}
}
