package table

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction of the active sort
type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return "unsorted"
	}
}

// ParseDirection accepts "asc", "ascending", "desc", "descending" or "" / "none" / "unsorted"
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	case "", "none", "unsorted":
		return Unsorted, nil
	default:
		return Unsorted, fmt.Errorf("unknown sort direction %q", s)
	}
}

// SortState is Unsorted, Ascending(column) or Descending(column).
// The zero value is Unsorted; a direction always carries its column.
type SortState struct {
	dir    Direction
	column string
}

// NoSort returns the unsorted state
func NoSort() SortState {
	return SortState{}
}

// SortBy returns a sort on column in the given direction. An empty column
// or the Unsorted direction yields NoSort.
func SortBy(column string, dir Direction) SortState {
	if column == "" || dir == Unsorted {
		return NoSort()
	}
	return SortState{dir: dir, column: column}
}

// Direction returns the current direction
func (s SortState) Direction() Direction {
	return s.dir
}

// Column returns the sorted column, ok is false when unsorted
func (s SortState) Column() (string, bool) {
	if s.dir == Unsorted {
		return "", false
	}
	return s.column, true
}

// IsSorted reports whether a column sort is active
func (s SortState) IsSorted() bool {
	return s.dir != Unsorted
}

// Toggle advances the sort cycle for a column:
// unsorted -> ascending -> descending -> unsorted. A different column
// always starts ascending.
func (s SortState) Toggle(column string) SortState {
	if s.dir == Unsorted || s.column != column {
		return SortBy(column, Ascending)
	}
	if s.dir == Ascending {
		return SortBy(column, Descending)
	}
	return NoSort()
}

func (s SortState) String() string {
	if s.dir == Unsorted {
		return "unsorted"
	}
	return fmt.Sprintf("%s (%s)", s.column, s.dir)
}

type sortStateJSON struct {
	Direction string `json:"direction"`
	Column    string `json:"column,omitempty"`
}

func (s SortState) MarshalJSON() ([]byte, error) {
	return json.Marshal(sortStateJSON{Direction: s.dir.String(), Column: s.column})
}

func (s *SortState) UnmarshalJSON(data []byte) error {
	var raw sortStateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	dir, err := ParseDirection(raw.Direction)
	if err != nil {
		return err
	}
	if dir != Unsorted && raw.Column == "" {
		return fmt.Errorf("sort direction %s requires a column", dir)
	}
	*s = SortBy(raw.Column, dir)
	return nil
}

// Sort returns a stably ordered copy of rows. Two numbers compare
// numerically; anything else compares lower-cased string forms with a
// collator for tag. Unsorted preserves input order.
func Sort(rows []Record, state SortState, tag language.Tag) []Record {
	out := make([]Record, len(rows))
	copy(out, rows)

	column, ok := state.Column()
	if !ok || len(out) < 2 {
		return out
	}

	// collators keep internal buffers, one per call
	col := collate.New(tag, collate.Numeric)
	sign := 1
	if state.Direction() == Descending {
		sign = -1
	}

	// missing cells read as the empty string
	keys := make([]Value, len(out))
	for i, r := range out {
		keys[i], _ = r.Get(column)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(i, j int) bool {
		return sign*compareValues(col, keys[idx[i]], keys[idx[j]]) < 0
	})

	for i, k := range idx {
		out[i] = rows[k]
	}
	return out
}

func compareValues(col *collate.Collator, a, b Value) int {
	if af, ok := a.Float(); ok {
		if bf, ok := b.Float(); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	return col.CompareString(strings.ToLower(a.String()), strings.ToLower(b.String()))
}
