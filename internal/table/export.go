package table

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// Export renders rows as comma separated text: a header of column names,
// then one line per record with every raw value wrapped in double quotes.
// Lines are joined by "\n" with no trailing newline. Embedded quotes and
// commas are written as-is.
func Export(rows []Record, columns []string) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(columns, ","))

	cells := make([]string, len(columns))
	for _, r := range rows {
		for i, c := range columns {
			v, _ := r.Get(c)
			cells[i] = `"` + v.String() + `"`
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join(cells, ","))
	}
	return []byte(b.String())
}

// ExportFilename returns real-estate-data-<epoch millis>.csv
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("real-estate-data-%d.csv", now.UnixMilli())
}

// WriteExport writes data into dir under ExportFilename(now) and returns the path
func WriteExport(dir string, data []byte, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, ExportFilename(now))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// FormatColumnName turns underscores into spaces and upper-cases the
// first letter or digit of every word. Sort and filter keys always use
// the raw name.
func FormatColumnName(column string) string {
	s := strings.ReplaceAll(column, "_", " ")

	var b strings.Builder
	b.Grow(len(s))
	prevWord := false
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		word := isWordRune(r)
		if word && !prevWord && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		b.WriteRune(r)
		prevWord = word
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
