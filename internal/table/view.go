package table

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultRowsPerPage is the page size when none is configured
const DefaultRowsPerPage = 5

// ViewState is the whole mutable configuration of a table view
type ViewState struct {
	SearchTerm  string    `json:"searchTerm"`
	Sort        SortState `json:"sort"`
	Page        int       `json:"page"`
	RowsPerPage int       `json:"rowsPerPage"`
}

// NewViewState returns a cleared state on page 1
func NewViewState(rowsPerPage int) ViewState {
	if rowsPerPage < 1 {
		rowsPerPage = DefaultRowsPerPage
	}
	return ViewState{Page: 1, RowsPerPage: rowsPerPage}
}

// Filter keeps the records where any cell's lower-cased string form
// contains the lower-cased term. Order is preserved.
func Filter(rows []Record, term string) []Record {
	out := make([]Record, 0, len(rows))
	if term == "" {
		return append(out, rows...)
	}

	needle := strings.ToLower(term)
	for _, r := range rows {
		for _, f := range r {
			if strings.Contains(strings.ToLower(f.Value.String()), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// TotalPages is ceil(count/pageSize), never less than 1
func TotalPages(count, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultRowsPerPage
	}
	if count <= 0 {
		return 1
	}
	return 1 + (count-1)/pageSize
}

// Paginate returns the one-indexed page of rows, clipped to the available
// length. Pages below 1 read as page 1; pages past the end are empty.
func Paginate(rows []Record, page, pageSize int) []Record {
	if pageSize < 1 {
		pageSize = DefaultRowsPerPage
	}
	if page < 1 {
		page = 1
	}
	// compare before multiplying so huge pages cannot overflow
	if len(rows) == 0 || page > TotalPages(len(rows), pageSize) {
		return []Record{}
	}

	start := (page - 1) * pageSize
	end := len(rows)
	if end-start > pageSize {
		end = start + pageSize
	}
	return rows[start:end:end]
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// View is one rendered projection of a dataset
type View struct {
	Columns     []string
	Rows        []Record // current page
	Matched     []Record // filtered and sorted, all pages
	Page        int
	TotalPages  int
	RowsPerPage int
	Total       int // records in the dataset

	// Start and End are the one-indexed bounds of Rows within Matched;
	// both are 0 when nothing matched.
	Start int
	End   int
}

// Table holds a dataset and its view state. It is not safe for
// concurrent use.
type Table struct {
	data    Dataset
	columns []string
	state   ViewState
	locale  language.Tag
}

// Option configures a Table
type Option func(*Table)

// WithRowsPerPage sets the page size; values below 1 keep the default
func WithRowsPerPage(n int) Option {
	return func(t *Table) {
		if n >= 1 {
			t.state.RowsPerPage = n
		}
	}
}

// WithLocale sets the collation locale for string sorting
func WithLocale(tag language.Tag) Option {
	return func(t *Table) {
		t.locale = tag
	}
}

// New creates a view over data with all filters cleared on page 1
func New(data Dataset, opts ...Option) *Table {
	t := &Table{
		data:    data,
		columns: data.Columns(),
		state:   NewViewState(DefaultRowsPerPage),
		locale:  language.English,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Columns returns the column order of the dataset
func (t *Table) Columns() []string {
	return t.columns
}

// Len returns the number of records in the dataset
func (t *Table) Len() int {
	return len(t.data)
}

// State returns a copy of the view state
func (t *Table) State() ViewState {
	return t.state
}

// Locale returns the collation locale
func (t *Table) Locale() language.Tag {
	return t.locale
}

// SetSearchTerm stores term verbatim and returns to page 1
func (t *Table) SetSearchTerm(term string) {
	t.state.SearchTerm = term
	t.state.Page = 1
}

// ToggleSort advances the sort cycle for column. The page is unchanged.
func (t *Table) ToggleSort(column string) {
	t.state.Sort = t.state.Sort.Toggle(column)
}

// SetSort replaces the sort state. The page is unchanged.
func (t *Table) SetSort(s SortState) {
	t.state.Sort = s
}

// SetPage moves to page n clamped into [1, totalPages]
func (t *Table) SetPage(n int) {
	t.state.Page = clampPage(n, t.totalPages())
}

// NextPage moves forward one page if possible
func (t *Table) NextPage() {
	t.SetPage(t.state.Page + 1)
}

// PrevPage moves back one page if possible
func (t *Table) PrevPage() {
	t.SetPage(t.state.Page - 1)
}

// ClearFilters resets search, sort and page together
func (t *Table) ClearFilters() {
	t.state = NewViewState(t.state.RowsPerPage)
}

// Restore applies a saved state, re-clamping its page
func (t *Table) Restore(s ViewState) {
	if s.RowsPerPage < 1 {
		s.RowsPerPage = t.state.RowsPerPage
	}
	t.state = s
	t.state.Page = clampPage(s.Page, t.totalPages())
}

// HasFilters reports whether a search or sort is active
func (t *Table) HasFilters() bool {
	return t.state.SearchTerm != "" || t.state.Sort.IsSorted()
}

func (t *Table) totalPages() int {
	return TotalPages(len(Filter(t.data, t.state.SearchTerm)), t.state.RowsPerPage)
}

// Matched returns the filtered and sorted records, ignoring pagination
func (t *Table) Matched() []Record {
	return Sort(Filter(t.data, t.state.SearchTerm), t.state.Sort, t.locale)
}

// View projects the dataset through the current state
func (t *Table) View() View {
	matched := t.Matched()
	total := TotalPages(len(matched), t.state.RowsPerPage)
	page := clampPage(t.state.Page, total)
	rows := Paginate(matched, page, t.state.RowsPerPage)

	v := View{
		Columns:     t.columns,
		Rows:        rows,
		Matched:     matched,
		Page:        page,
		TotalPages:  total,
		RowsPerPage: t.state.RowsPerPage,
		Total:       len(t.data),
	}
	if len(rows) > 0 {
		v.Start = (page-1)*t.state.RowsPerPage + 1
		v.End = v.Start + len(rows) - 1
	}
	return v
}

// Export renders the matched records as delimited text
func (t *Table) Export() []byte {
	return Export(t.Matched(), t.columns)
}
