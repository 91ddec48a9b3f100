package formatter

import "fmt"

// csvFormatter writes the table view in export form: every matched record,
// sorted, unpaginated.
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("no analysis to format")
	}
	return report.Result.Table.Export(), nil
}
