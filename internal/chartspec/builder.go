// Package chartspec resolves role bindings into chart specs and checks a spec
// against the table it will be drawn from.
package chartspec

import (
	"fmt"
	"strings"

	"dataviz/domain/chart"
	"dataviz/domain/core"
	"dataviz/domain/dataset"
)

// Rendering hints carried by every spec of the archetype
const (
	SunburstTextInfo = "label+percent entry"
	HeatmapHistFunc  = "sum"
	HeatmapScale     = "Magma"
)

// entry describes one archetype: the roles it needs, the roles it accepts,
// and how resolved bindings become a spec.
type entry struct {
	required []chart.Role
	optional []chart.Role
	build    func(chart.Archetype, chart.Bindings) chart.Spec
}

var registry = map[chart.Archetype]entry{
	chart.Scatter: xy,
	chart.Line:    xy,
	chart.Bar:     xy,
	chart.Pie: {
		required: []chart.Role{chart.RoleX, chart.RoleY},
		build: func(_ chart.Archetype, b chart.Bindings) chart.Spec {
			return chart.PieSpec{
				Type:   chart.Pie,
				Title:  fmt.Sprintf("%s share by %s", b.Y, b.X),
				Labels: b.X,
				Values: b.Y,
			}
		},
	},
	chart.Histogram: {
		required: []chart.Role{chart.RoleX},
		optional: []chart.Role{chart.RoleColor},
		build: func(_ chart.Archetype, b chart.Bindings) chart.Spec {
			return chart.HistogramSpec{
				Type:  chart.Histogram,
				Title: "Distribution of " + b.X,
				X:     b.X,
				Color: b.Color,
			}
		},
	},
	chart.Heatmap: {
		required: []chart.Role{chart.RoleX, chart.RoleY, chart.RoleValue},
		build: func(_ chart.Archetype, b chart.Bindings) chart.Spec {
			return chart.HeatmapSpec{
				Type:       chart.Heatmap,
				Title:      fmt.Sprintf("Sum of %s by %s and %s", b.Value, b.X, b.Y),
				X:          b.X,
				Y:          b.Y,
				Z:          b.Value,
				HistFunc:   HeatmapHistFunc,
				ColorScale: HeatmapScale,
			}
		},
	},
	chart.Sunburst: {
		required: []chart.Role{chart.RoleLayer1, chart.RoleValue},
		optional: []chart.Role{chart.RoleLayer2, chart.RoleColor},
		build: func(_ chart.Archetype, b chart.Bindings) chart.Spec {
			path := []string{b.Layer1}
			if b.Layer2 != "" {
				path = append(path, b.Layer2)
			}
			color := b.Color
			if color == "" {
				color = b.Layer1
			}
			return chart.SunburstSpec{
				Type:     chart.Sunburst,
				Title:    fmt.Sprintf("%s hierarchy by %s", strings.Join(path, " > "), b.Value),
				Path:     path,
				Values:   b.Value,
				Color:    color,
				TextInfo: SunburstTextInfo,
			}
		},
	},
}

var xy = entry{
	required: []chart.Role{chart.RoleX, chart.RoleY},
	optional: []chart.Role{chart.RoleColor},
	build: func(a chart.Archetype, b chart.Bindings) chart.Spec {
		return chart.XYSpec{
			Type:  a,
			Title: fmt.Sprintf("%s by %s", b.Y, b.X),
			X:     b.X,
			Y:     b.Y,
			Color: b.Color,
		}
	},
}

// Build resolves bindings for archetype against table. It returns a
// *chart.IncompleteError when a required role is unbound and an
// ErrColumnNotFound error when a bound column is not in the table. Roles the
// archetype does not use are ignored.
func Build(archetype chart.Archetype, bindings chart.Bindings, table *dataset.Table) (chart.Spec, error) {
	e, ok := registry[archetype]
	if !ok {
		return nil, core.NewUnknownArchetypeError(string(archetype))
	}

	var missing []chart.Role
	for _, role := range e.required {
		if bindings.Column(role) == "" {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		return nil, &chart.IncompleteError{Archetype: archetype, Missing: missing}
	}

	for _, role := range append(append([]chart.Role{}, e.required...), e.optional...) {
		if col := bindings.Column(role); col != "" && !table.HasColumn(col) {
			return nil, core.NewColumnNotFoundError(col, table.Columns())
		}
	}

	return e.build(archetype, bindings), nil
}

// Roles returns the required and optional roles of archetype
func Roles(archetype chart.Archetype) (required, optional []chart.Role, err error) {
	e, ok := registry[archetype]
	if !ok {
		return nil, nil, core.NewUnknownArchetypeError(string(archetype))
	}
	return append([]chart.Role{}, e.required...), append([]chart.Role{}, e.optional...), nil
}
