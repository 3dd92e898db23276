package excel

import (
	"dataviz/adapters/datareadiness/coercer"
	"dataviz/domain/dataset"
)

// RawRowData represents a row of raw cell text keyed by header
type RawRowData map[string]string

// ExcelData represents a sheet or CSV file before type coercion
type ExcelData struct {
	Headers []string     // Column headers, deduplicated
	Rows    []RawRowData // Data rows
}

// ToTable coerces every cell and returns the immutable table. Cells absent
// from a short row become null.
func (d *ExcelData) ToTable(c *coercer.TypeCoercer) *dataset.Table {
	rows := make([]dataset.Row, 0, len(d.Rows))
	for _, raw := range d.Rows {
		cells := make(map[string]dataset.Value, len(d.Headers))
		for _, h := range d.Headers {
			cells[h] = c.CoerceCell(raw[h])
		}
		rows = append(rows, dataset.NewRow(cells))
	}
	return dataset.NewTable(d.Headers, rows)
}
