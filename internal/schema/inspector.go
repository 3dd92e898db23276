// Package schema lists and profiles the columns of a table so callers can
// offer them for role selection.
package schema

import (
	"dataviz/adapters/datareadiness/coercer"
	"dataviz/domain/chart"
	"dataviz/domain/dataset"
	"dataviz/internal/profiling"
)

// None is the option that leaves an optional role unbound
const None = ""

const sampleSize = 5

// ColumnProfile is an advisory description of one column. Role selection
// never depends on it; any column may be bound to any role.
type ColumnProfile struct {
	Name     string               `json:"name"`
	Type     coercer.ColumnType   `json:"type"`
	Count    int                  `json:"count"`
	Missing  int                  `json:"missing"`
	Unique   int                  `json:"unique"`
	Numeric  *profiling.Summary   `json:"numeric,omitempty"`
	Samples  []dataset.Value      `json:"samples"`
	Analysis coercer.TypeAnalysis `json:"-"`
}

// ListColumns returns the column names of table in order.
// A nil or empty table yields an empty, non-nil slice.
func ListColumns(table *dataset.Table) []string {
	return table.Columns()
}

// Options returns the choices offered for role. Roles that may stay unbound
// (date, category filter, color, second hierarchy layer) start with None.
func Options(table *dataset.Table, role chart.Role) []string {
	cols := table.Columns()
	switch role {
	case chart.RoleDate, chart.RoleCategoryFilter, chart.RoleColor, chart.RoleLayer2:
		return append([]string{None}, cols...)
	}
	return cols
}

// Profile describes every column of table in column order
func Profile(table *dataset.Table) []ColumnProfile {
	tc := coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	analyzer := profiling.NewDistributionAnalyzer()

	columns := table.Columns()
	profiles := make([]ColumnProfile, 0, len(columns))
	for _, name := range columns {
		values := make([]dataset.Value, table.Len())
		var numbers []float64
		for i := range values {
			v := table.Value(i, name)
			values[i] = v
			if n, ok := v.AsNumber(); ok {
				numbers = append(numbers, n)
			}
		}

		analysis := tc.AnalyzeTypeDistribution(values)
		p := ColumnProfile{
			Name:     name,
			Type:     analysis.RecommendedType,
			Count:    analysis.ValidCount,
			Missing:  analysis.TotalCount - analysis.ValidCount,
			Unique:   analysis.UniqueCount,
			Samples:  samples(table, name),
			Analysis: analysis,
		}
		if len(numbers) > 0 {
			if summary, err := analyzer.Summarize(numbers); err == nil || summary.NonFinite > 0 {
				p.Numeric = &summary
			}
		}
		profiles = append(profiles, p)
	}
	return profiles
}

func samples(table *dataset.Table, column string) []dataset.Value {
	out := make([]dataset.Value, 0, sampleSize)
	for _, v := range table.Unique(column) {
		if v.IsNull() {
			continue
		}
		out = append(out, v)
		if len(out) == sampleSize {
			break
		}
	}
	return out
}
