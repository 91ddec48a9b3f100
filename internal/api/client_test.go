package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yildizm/EstateInsights/internal/chart"
)

const analyzeBody = `{
  "area": "Wakad",
  "summary": "Real Estate Analysis: Wakad",
  "chartData": [
    {"year": 2022, "totalSales": 120.5, "totalSold": 800, "flatRate": 8200.5},
    {"year": 2023, "totalSales": 150.25, "totalSold": 900, "flatRate": null, "carpetArea": 1200}
  ],
  "tableData": [
    {"Year": 2023, "Area": "Wakad", "Total Sales (₹ Cr)": "150.25", "Units Sold": 900, "Flat Rate (₹/sqft)": "0.00"},
    {"Year": 2022, "Area": "Wakad", "Total Sales (₹ Cr)": "120.50", "Units Sold": 800, "Flat Rate (₹/sqft)": "8200.50"}
  ],
  "query": "Analyze Wakad",
  "recordCount": 2,
  "yearRange": "2022-2023"
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(server.URL+"/api", WithUserAgent("estateinsights/test"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestAnalyze(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/analyze/" {
			t.Errorf("Expected /api/analyze/, got %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %s", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("User-Agent") != "estateinsights/test" {
			t.Errorf("Unexpected user agent %s", r.Header.Get("User-Agent"))
		}
		if _, err := uuid.Parse(r.Header.Get(RequestIDHeader)); err != nil {
			t.Errorf("Expected a UUID request id, got %q", r.Header.Get(RequestIDHeader))
		}

		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Query != "Analyze Wakad" {
			t.Errorf("Expected query 'Analyze Wakad', got %q", req.Query)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(analyzeBody))
	})

	resp, err := client.Analyze(context.Background(), "Analyze Wakad")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if resp.Area != "Wakad" || resp.RecordCount != 2 || resp.YearRange != "2022-2023" {
		t.Errorf("Unexpected response header fields: %+v", resp)
	}
	if len(resp.ChartData) != 2 || resp.ChartData[1].FlatRate != nil {
		t.Errorf("Expected null flat rate to decode as nil")
	}
	if resp.ChartData[1].CarpetArea == nil || *resp.ChartData[1].CarpetArea != 1200 {
		t.Errorf("Expected carpet area 1200")
	}
	cols := resp.TableData.Columns()
	if len(cols) != 5 || cols[0] != "Year" || cols[2] != "Total Sales (₹ Cr)" {
		t.Errorf("Unexpected table columns %v", cols)
	}
}

func TestStatusErrorUsesBodyMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Could not identify area in query","availableAreas":["Aundh","Wakad"],"suggestion":"Try: Analyze Wakad"}`))
	})

	_, err := client.Analyze(context.Background(), "hello")
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("Expected *Error, got %T", err)
	}

	if apiErr.Kind != ErrKindStatus || apiErr.StatusCode != 400 {
		t.Errorf("Expected status error 400, got %s %d", apiErr.Kind, apiErr.StatusCode)
	}
	if apiErr.Error() != "Could not identify area in query" {
		t.Errorf("Unexpected message %q", apiErr.Error())
	}
	if apiErr.Title() != "Invalid Query" {
		t.Errorf("Expected Invalid Query title, got %s", apiErr.Title())
	}
	suggestions := apiErr.Suggestions()
	if len(suggestions) != 3 || suggestions[0] != "Include an area name (Aundh or Wakad)" || suggestions[2] != "Try: Analyze Wakad" {
		t.Errorf("Unexpected suggestions %q", suggestions)
	}
	if !IsStatus(err) || !IsStatus(err, 400) || IsStatus(err, 500) {
		t.Error("IsStatus mismatch")
	}
}

func TestStatusErrorFallbackMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	ctx := context.Background()
	tests := []struct {
		name  string
		call  func() error
		want  string
		title string
	}{
		{
			name:  "analyze",
			call:  func() error { _, err := client.Analyze(ctx, "Analyze Wakad"); return err },
			want:  "HTTP error! status: 502",
			title: "Something Went Wrong",
		},
		{
			name:  "areas",
			call:  func() error { _, err := client.ListAreas(ctx); return err },
			want:  "Failed to fetch areas",
			title: "Connection Error",
		},
		{
			name:  "generate-summary",
			call:  func() error { _, err := client.GenerateSummary(ctx, "Wakad", chart.Metrics{}); return err },
			want:  "Failed to generate AI summary",
			title: "Something Went Wrong",
		},
		{
			name:  "compare",
			call:  func() error { _, err := client.Compare(ctx, "Wakad vs Aundh"); return err },
			want:  "HTTP error! status: 502",
			title: "Something Went Wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			apiErr, ok := AsError(err)
			if !ok {
				t.Fatalf("Expected *Error, got %v", err)
			}
			if apiErr.Message != tt.want || apiErr.StatusCode != 502 {
				t.Errorf("Expected %q with status 502, got %q %d", tt.want, apiErr.Message, apiErr.StatusCode)
			}
			if apiErr.Title() != tt.title {
				t.Errorf("Unexpected title %s", apiErr.Title())
			}
		})
	}
}

func TestStatusErrorBodyBeatsFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"AI service is not configured"}`))
	})

	_, err := client.GenerateSummary(context.Background(), "Wakad", chart.Metrics{})
	if err == nil || err.Error() != "AI service is not configured" {
		t.Errorf("Expected body message, got %v", err)
	}
}

func TestNotFoundTitle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"No data found for Baner"}`))
	})

	_, err := client.Analyze(context.Background(), "Analyze Baner")
	apiErr, ok := AsError(err)
	if !ok || apiErr.Title() != "Data Not Found" {
		t.Errorf("Expected Data Not Found, got %v", err)
	}
}

func TestMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"area": `))
	})

	_, err := client.Analyze(context.Background(), "Analyze Wakad")
	apiErr, ok := AsError(err)
	if !ok || apiErr.Kind != ErrKindMalformed {
		t.Fatalf("Expected malformed error, got %v", err)
	}
	if apiErr.Cause == nil {
		t.Error("Expected decode cause to be kept")
	}
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := New(url)
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Health(context.Background())
	if !IsNetwork(err) {
		t.Fatalf("Expected network error, got %v", err)
	}
	apiErr, _ := AsError(err)
	if apiErr.Title() != "Connection Error" {
		t.Errorf("Unexpected title %s", apiErr.Title())
	}
	if got := apiErr.Suggestions(); len(got) != 2 || got[0] != "Check your internet connection" {
		t.Errorf("Unexpected suggestions %q", got)
	}
}

func TestContextTimeoutIsNetworkError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Analyze(ctx, "Analyze Wakad")
	if !IsNetwork(err) {
		t.Fatalf("Expected network error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline cause, got %v", err)
	}
}

func TestListAreas(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/areas/" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "" {
			t.Errorf("GET should carry no content type")
		}
		_, _ = w.Write([]byte(`{"areas":["Akurdi","Aundh"],"count":2,"details":[{"name":"Akurdi","years":"2020-2024","records":5,"avgPrice":"₹6500.00/sqft"}]}`))
	})

	resp, err := client.ListAreas(context.Background())
	if err != nil {
		t.Fatalf("ListAreas failed: %v", err)
	}
	if resp.Count != 2 || len(resp.Areas) != 2 || resp.Details[0].Records != 5 {
		t.Errorf("Unexpected areas response %+v", resp)
	}
}

func TestGenerateSummary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-summary/" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}

		var raw map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("Failed to decode body: %v", err)
		}
		if raw["area"] != "Aundh" {
			t.Errorf("Expected area Aundh, got %v", raw["area"])
		}
		data, _ := raw["data"].(map[string]interface{})
		for _, key := range []string{"yearRange", "salesTotal", "avgPrice", "totalUnits", "priceTrend", "priceChange"} {
			if _, ok := data[key]; !ok {
				t.Errorf("Metrics missing %s", key)
			}
		}

		_, _ = w.Write([]byte(`{"aiSummary":"Aundh is a premium locality.","area":"Aundh","timestamp":"2024-05-01T10:00:00"}`))
	})

	metrics := chart.ComputeMetrics(nil)
	resp, err := client.GenerateSummary(context.Background(), "Aundh", metrics)
	if err != nil {
		t.Fatalf("GenerateSummary failed: %v", err)
	}
	if resp.AISummary != "Aundh is a premium locality." {
		t.Errorf("Unexpected summary %q", resp.AISummary)
	}
}

func TestCompareAndHealth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/compare/":
			_, _ = w.Write([]byte(`{"areas":["Wakad","Aundh"],"comparison":[{"area":"Wakad","avgFlatRate":8100.5,"totalSales":900.1,"totalUnitsSold":7000,"chartData":[]}],"query":"Compare Wakad and Aundh"}`))
		case "/api/health/":
			_, _ = w.Write([]byte(`{"status":"healthy","message":"ok","datasetLoaded":true,"totalRecords":20,"areas":["Wakad"],"yearRange":{"start":2020,"end":2024},"timestamp":"now"}`))
		default:
			http.NotFound(w, r)
		}
	})

	cmp, err := client.Compare(context.Background(), "Compare Wakad and Aundh")
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(cmp.Comparison) != 1 || cmp.Comparison[0].TotalUnitsSold != 7000 {
		t.Errorf("Unexpected comparison %+v", cmp)
	}

	health, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if !health.DatasetLoaded || health.YearRange != "2020-2024" {
		t.Errorf("Unexpected health %+v", health)
	}
}

func TestDownload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/download/" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="Wakad_RealEstate_Data_20240501.csv"`)
		_, _ = w.Write([]byte("year,area\n2024,Wakad\n"))
	})

	dl, err := client.Download(context.Background(), "Analyze Wakad")
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if dl.Filename != "Wakad_RealEstate_Data_20240501.csv" {
		t.Errorf("Unexpected filename %s", dl.Filename)
	}
	if !strings.HasPrefix(string(dl.Data), "year,area") {
		t.Errorf("Unexpected data %q", dl.Data)
	}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8000", "://bad"} {
		if _, err := New(raw); err == nil {
			t.Errorf("Expected error for %q", raw)
		}
	}
}

func TestEndpointKeepsBasePath(t *testing.T) {
	client, err := New("https://example.com/api/")
	if err != nil {
		t.Fatal(err)
	}
	if got := client.endpoint("generate-summary"); got != "https://example.com/api/generate-summary/" {
		t.Errorf("Unexpected endpoint %s", got)
	}
}

func TestErrorDetail(t *testing.T) {
	err := &Error{Kind: ErrKindStatus, Op: "analyze", StatusCode: 500, Message: "boom", Cause: errors.New("eof")}
	if got := err.Detail(); got != "kind=status: op=analyze: status=500: boom: cause=eof" {
		t.Errorf("Unexpected detail %q", got)
	}
}
