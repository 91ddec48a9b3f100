package formatter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yildizm/EstateInsights/internal/api"
	"github.com/yildizm/EstateInsights/internal/emoji"
	"github.com/yildizm/EstateInsights/internal/table"
	"github.com/yildizm/go-termfmt"
)

// ServiceFormats lists the formats accepted for areas, compare and health
var ServiceFormats = []string{"text", "json", "markdown", "csv"}

func normalizeServiceFormat(format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "text", "terminal":
		return "text", nil
	case "json":
		return "json", nil
	case "markdown", "md":
		return "markdown", nil
	case "csv":
		return "csv", nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (valid: %s)", format, strings.Join(ServiceFormats, ", "))
	}
}

func treeOptions(color bool) *termfmt.TerminalOptions {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return opts
}

func marshalJSON(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// FormatAreas renders the area list
func FormatAreas(resp *api.AreasResponse, format string, color bool) ([]byte, error) {
	if resp == nil {
		return nil, fmt.Errorf("no areas to format")
	}
	format, err := normalizeServiceFormat(format)
	if err != nil {
		return nil, err
	}

	columns := []string{"area", "years", "records", "avg_price"}
	records := areaRecords(resp)

	switch format {
	case "json":
		return marshalJSON(resp)
	case "csv":
		return append(table.Export(records, columns), '\n'), nil
	case "markdown":
		return []byte("# Areas\n\n" + markdownGrid(columns, records)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Areas (%d)\n", emoji.GetEmoji("location"), len(resp.Areas))
	if len(resp.Areas) == 0 {
		b.WriteString("No areas available\n")
		return []byte(b.String()), nil
	}

	details := areaDetails(resp)
	items := make([]termfmt.TreeItem, len(resp.Areas))
	for i, area := range resp.Areas {
		items[i] = termfmt.TreeItem{Label: area}
		if d, ok := details[area]; ok {
			items[i].Value = fmt.Sprintf("%s • %s records • %s", d.Years, FormatCount(d.Records), d.AvgPrice)
		}
	}
	items[len(items)-1].Last = true
	b.WriteString(termfmt.TreeViewWithOptions(items, treeOptions(color)) + "\n")
	return []byte(b.String()), nil
}

func areaDetails(resp *api.AreasResponse) map[string]api.AreaDetail {
	out := make(map[string]api.AreaDetail, len(resp.Details))
	for _, d := range resp.Details {
		out[d.Name] = d
	}
	return out
}

func areaRecords(resp *api.AreasResponse) []table.Record {
	details := areaDetails(resp)
	records := make([]table.Record, len(resp.Areas))
	for i, area := range resp.Areas {
		d := details[area]
		records[i] = table.NewRecord(
			table.Field{Column: "area", Value: table.Text(area)},
			table.Field{Column: "years", Value: table.Text(d.Years)},
			table.Field{Column: "records", Value: table.Number(float64(d.Records))},
			table.Field{Column: "avg_price", Value: table.Text(d.AvgPrice)},
		)
	}
	return records
}

// FormatComparison renders a side-by-side comparison of areas
func FormatComparison(resp *api.CompareResponse, format string, color bool) ([]byte, error) {
	if resp == nil {
		return nil, fmt.Errorf("no comparison to format")
	}
	format, err := normalizeServiceFormat(format)
	if err != nil {
		return nil, err
	}

	columns := []string{"area", "avg_flat_rate", "total_sales", "total_units_sold"}
	records := make([]table.Record, len(resp.Comparison))
	for i, c := range resp.Comparison {
		records[i] = table.NewRecord(
			table.Field{Column: "area", Value: table.Text(c.Area)},
			table.Field{Column: "avg_flat_rate", Value: table.Number(c.AvgFlatRate)},
			table.Field{Column: "total_sales", Value: table.Number(c.TotalSales)},
			table.Field{Column: "total_units_sold", Value: table.Number(float64(c.TotalUnitsSold))},
		)
	}

	switch format {
	case "json":
		return marshalJSON(resp)
	case "csv":
		return append(table.Export(records, columns), '\n'), nil
	case "markdown":
		var b strings.Builder
		fmt.Fprintf(&b, "# Comparison: %s\n\n", strings.Join(resp.Areas, " vs "))
		if resp.Query != "" {
			fmt.Fprintf(&b, "**Query:** %s\n\n", resp.Query)
		}
		b.WriteString(markdownGrid(columns, displayComparison(resp.Comparison)))
		return []byte(b.String()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Comparison: %s\n\n", emoji.GetEmoji("target"), strings.Join(resp.Areas, " vs "))
	if len(resp.Comparison) == 0 {
		b.WriteString("No comparison data available\n")
		return []byte(b.String()), nil
	}
	b.WriteString(renderGrid(columns, displayComparison(resp.Comparison)))

	price, sales := leaders(resp.Comparison)
	b.WriteString("\n")
	items := []termfmt.TreeItem{
		{Label: "Highest flat rate", Value: fmt.Sprintf("%s (%s)", price.Area, FormatPrice(price.AvgFlatRate))},
		{Label: "Most sales", Value: fmt.Sprintf("%s (%s)", sales.Area, FormatSales(sales.TotalSales)), Last: true},
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, treeOptions(color)) + "\n")
	return []byte(b.String()), nil
}

// displayComparison formats the numeric cells for reading
func displayComparison(rows []api.AreaComparison) []table.Record {
	records := make([]table.Record, len(rows))
	for i, c := range rows {
		records[i] = table.NewRecord(
			table.Field{Column: "area", Value: table.Text(c.Area)},
			table.Field{Column: "avg_flat_rate", Value: table.Text(FormatPrice(c.AvgFlatRate))},
			table.Field{Column: "total_sales", Value: table.Text(FormatSales(c.TotalSales))},
			table.Field{Column: "total_units_sold", Value: table.Text(FormatCount(c.TotalUnitsSold))},
		)
	}
	return records
}

// leaders returns the areas with the highest flat rate and sales; ties go
// to the first listed
func leaders(rows []api.AreaComparison) (price, sales api.AreaComparison) {
	price, sales = rows[0], rows[0]
	for _, c := range rows[1:] {
		if c.AvgFlatRate > price.AvgFlatRate {
			price = c
		}
		if c.TotalSales > sales.TotalSales {
			sales = c
		}
	}
	return price, sales
}

// FormatHealth renders the service health check
func FormatHealth(resp *api.HealthResponse, baseURL, format string, color bool) ([]byte, error) {
	if resp == nil {
		return nil, fmt.Errorf("no health status to format")
	}
	format, err := normalizeServiceFormat(format)
	if err != nil {
		return nil, err
	}

	switch format {
	case "json":
		return marshalJSON(resp)
	case "csv":
		return nil, fmt.Errorf("csv output is not available for health")
	}

	loaded := "no"
	if resp.DatasetLoaded {
		loaded = "yes"
	}
	rows := [][2]string{
		{"Service", baseURL},
		{"Status", resp.Status},
		{"Message", resp.Message},
		{"Dataset loaded", loaded},
		{"Total records", FormatCount(resp.TotalRecords)},
		{"Areas", fmt.Sprintf("%d", len(resp.Areas))},
		{"Year range", string(resp.YearRange)},
		{"Checked at", resp.Timestamp},
	}

	var b strings.Builder
	if format == "markdown" {
		b.WriteString("# Service Health\n\n| Check | Value |\n|---|---|\n")
		for _, r := range rows {
			fmt.Fprintf(&b, "| %s | %s |\n", r[0], escapeCell(r[1]))
		}
		return []byte(b.String()), nil
	}

	symbol := emoji.GetEmoji("success")
	if !strings.EqualFold(resp.Status, "healthy") || !resp.DatasetLoaded {
		symbol = emoji.GetEmoji("warning")
	}
	fmt.Fprintf(&b, "%s Service Health\n", symbol)
	items := make([]termfmt.TreeItem, 0, len(rows))
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		items = append(items, termfmt.TreeItem{Label: r[0], Value: r[1]})
	}
	items[len(items)-1].Last = true
	b.WriteString(termfmt.TreeViewWithOptions(items, treeOptions(color)) + "\n")
	return []byte(b.String()), nil
}

// markdownGrid writes records as a markdown table with display headers
func markdownGrid(columns []string, rows []table.Record) string {
	var b strings.Builder
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = table.FormatColumnName(c)
	}
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(columns)) + "\n")
	for _, r := range rows {
		cells := make([]string, len(columns))
		for i, c := range columns {
			v, _ := r.Get(c)
			cells[i] = escapeCell(v.String())
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}
