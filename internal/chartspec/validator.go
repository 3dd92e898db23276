package chartspec

import (
	"math"

	"dataviz/domain/chart"
	"dataviz/domain/dataset"
)

// Validate checks spec against the table snapshot it will be drawn from.
// Every required role must be filled and every referenced column must exist.
// Sunburst values must additionally be finite numbers >= 0 on every row,
// since slices are drawn as areas.
func Validate(spec chart.Spec, table *dataset.Table) chart.ValidationResult {
	if p, ok := spec.(*chart.SunburstSpec); ok && p == nil {
		return chart.Incomplete(chart.Sunburst, []chart.Role{chart.RoleLayer1, chart.RoleValue})
	}
	if missing := spec.Missing(); len(missing) > 0 {
		return chart.Incomplete(spec.Archetype(), missing)
	}
	for _, col := range spec.Columns() {
		if !table.HasColumn(col) {
			return chart.MissingColumn(col)
		}
	}

	var values string
	switch s := spec.(type) {
	case chart.SunburstSpec:
		values = s.Values
	case *chart.SunburstSpec:
		values = s.Values
	}
	if values != "" {
		if bad := countInvalidMagnitudes(table, values); bad > 0 {
			return chart.DomainFailure(values, bad)
		}
	}

	return chart.Valid()
}

// countInvalidMagnitudes counts rows whose column value is not a finite,
// non-negative number. Nulls and text count as invalid.
func countInvalidMagnitudes(table *dataset.Table, column string) int {
	bad := 0
	for i := 0; i < table.Len(); i++ {
		n, ok := table.Value(i, column).AsNumber()
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
			bad++
		}
	}
	return bad
}
