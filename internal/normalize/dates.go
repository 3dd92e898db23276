// Package normalize parses a chosen date column and derives calendar fields.
package normalize

import (
	"fmt"

	"dataviz/adapters/datareadiness/coercer"
	"dataviz/domain/core"
	"dataviz/domain/dataset"
)

// Result is a normalized table together with the observed date range.
// Bounds is nil when no row survived.
type Result struct {
	Table   *dataset.Table
	Bounds  *dataset.DateBounds
	Dropped int
}

// NormalizeDates parses every value of column permissively and rewrites it as
// a date. Rows whose value is null or unparseable are dropped. The derived
// columns year ("2021") and month_name ("January") are set on every
// surviving row and appended to the column list if absent.
//
// A date column named year or month_name keeps its parsed dates; the
// colliding derived field is not written.
//
// Values that already are dates are kept unchanged, so normalizing an
// already normalized table on the same column returns an equal table.
func NormalizeDates(table *dataset.Table, column string) (Result, error) {
	if !table.HasColumn(column) {
		return Result{}, core.NewColumnNotFoundError(column, table.Columns())
	}

	rows := make([]dataset.Row, 0, table.Len())
	var bounds *dataset.DateBounds
	dropped := 0

	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		ts, ok := coercer.ParseDate(row.Get(column))
		if !ok {
			dropped++
			continue
		}

		cells := map[string]dataset.Value{
			dataset.ColumnYear:      dataset.String(fmt.Sprintf("%04d", ts.Year())),
			dataset.ColumnMonthName: dataset.String(ts.Month().String()),
		}
		// the parsed date wins when the date column shares a derived name
		cells[column] = dataset.Date(ts)
		rows = append(rows, row.With(cells))

		day := core.CalendarDate(ts)
		switch {
		case bounds == nil:
			bounds = &dataset.DateBounds{Min: day, Max: day}
		case day.Before(bounds.Min):
			bounds.Min = day
		case day.After(bounds.Max):
			bounds.Max = day
		}
	}

	out := table.WithRows([]string{dataset.ColumnYear, dataset.ColumnMonthName}, rows)
	return Result{Table: out, Bounds: bounds, Dropped: dropped}, nil
}
