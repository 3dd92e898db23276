package dataset

import (
	"time"
)

// Derived column names added by date normalization
const (
	ColumnYear      = "year"
	ColumnMonthName = "month_name"
)

// Row is an immutable mapping from column name to value
type Row struct {
	cells map[string]Value
}

// NewRow copies cells into a new row
func NewRow(cells map[string]Value) Row {
	cp := make(map[string]Value, len(cells))
	for k, v := range cells {
		cp[k] = v
	}
	return Row{cells: cp}
}

// Get returns the value stored under column, or null
func (r Row) Get(column string) Value {
	return r.cells[column]
}

// Has reports whether the row carries a cell for column
func (r Row) Has(column string) bool {
	_, ok := r.cells[column]
	return ok
}

// With returns a copy of the row with the given cells set
func (r Row) With(cells map[string]Value) Row {
	cp := make(map[string]Value, len(r.cells)+len(cells))
	for k, v := range r.cells {
		cp[k] = v
	}
	for k, v := range cells {
		cp[k] = v
	}
	return Row{cells: cp}
}

// Map returns a copy of the row restricted to columns, in a form ready for JSON.
func (r Row) Map(columns []string) map[string]Value {
	out := make(map[string]Value, len(columns))
	for _, c := range columns {
		out[c] = r.cells[c]
	}
	return out
}

// Table is an ordered, immutable collection of rows over named columns.
// Every transformation returns a new Table; the receiver is never modified.
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// NewTable builds a table. Duplicate column names keep their first position.
func NewTable(columns []string, rows []Row) *Table {
	t := &Table{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
		rows:    make([]Row, len(rows)),
	}
	for _, c := range columns {
		if _, dup := t.index[c]; dup {
			continue
		}
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	copy(t.rows, rows)
	return t
}

// Columns returns the column names in order
func (t *Table) Columns() []string {
	if t == nil {
		return []string{}
	}
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether column is part of the table
func (t *Table) HasColumn(column string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[column]
	return ok
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Row returns row i
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Value returns the cell at row i, column
func (t *Table) Value(i int, column string) Value {
	return t.rows[i].Get(column)
}

// Filter returns a new table with the rows for which keep returns true
func (t *Table) Filter(keep func(Row) bool) *Table {
	rows := make([]Row, 0, t.Len())
	for _, r := range t.rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return t.derive(t.columns, rows)
}

// Select returns a new table with the rows at the given indices, in that order
func (t *Table) Select(indices []int) *Table {
	rows := make([]Row, 0, len(indices))
	for _, i := range indices {
		rows = append(rows, t.rows[i])
	}
	return t.derive(t.columns, rows)
}

// WithRows returns a new table over columns (existing columns first, new
// names appended) holding rows.
func (t *Table) WithRows(extra []string, rows []Row) *Table {
	cols := t.Columns()
	for _, c := range extra {
		if !t.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	return NewTable(cols, rows)
}

// Head returns up to n rows as column maps
func (t *Table) Head(n int) []map[string]Value {
	if n > t.Len() {
		n = t.Len()
	}
	out := make([]map[string]Value, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, t.rows[i].Map(t.columns))
	}
	return out
}

// Unique returns the distinct values of column in first-seen order
func (t *Table) Unique(column string) []Value {
	seen := make(map[string]bool)
	var out []Value
	for _, r := range t.rows {
		v := r.Get(column)
		k := string(v.Kind()) + "\x00" + v.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

func (t *Table) derive(columns []string, rows []Row) *Table {
	return &Table{columns: columns, index: t.index, rows: rows}
}

// DateBounds is the inclusive calendar-date range observed in a normalized
// date column. Min <= Max and both occur in at least one row.
type DateBounds struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// Contains reports whether the calendar date d lies within the bounds
func (b DateBounds) Contains(d time.Time) bool {
	return !d.Before(b.Min) && !d.After(b.Max)
}

// MarshalJSON renders the bounds as YYYY-MM-DD strings
func (b DateBounds) MarshalJSON() ([]byte, error) {
	return []byte(`{"min":"` + b.Min.Format("2006-01-02") + `","max":"` + b.Max.Format("2006-01-02") + `"}`), nil
}
