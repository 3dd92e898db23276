package chart

import (
	"fmt"
	"sort"
	"strings"

	"dataviz/domain/core"
)

// Archetype names a family of charts the renderer knows how to draw
type Archetype string

const (
	Scatter   Archetype = "scatter"
	Line      Archetype = "line"
	Bar       Archetype = "bar"
	Pie       Archetype = "pie"
	Histogram Archetype = "histogram"
	Heatmap   Archetype = "heatmap"
	Sunburst  Archetype = "sunburst"
)

// Archetypes lists every supported archetype in menu order
var Archetypes = []Archetype{Scatter, Line, Bar, Pie, Histogram, Heatmap, Sunburst}

// ParseArchetype accepts the archetype name in any case; "hierarchical" is
// an alias for sunburst.
func ParseArchetype(s string) (Archetype, error) {
	a := Archetype(strings.ToLower(strings.TrimSpace(s)))
	if a == "hierarchical" {
		return Sunburst, nil
	}
	for _, known := range Archetypes {
		if a == known {
			return a, nil
		}
	}
	return "", core.NewUnknownArchetypeError(s)
}

// Role is the semantic purpose a column plays
type Role string

const (
	RoleDate           Role = "date"
	RoleCategoryFilter Role = "category-filter"
	RoleX              Role = "x-axis"
	RoleY              Role = "y-axis"
	RoleColor          Role = "color"
	RoleLayer1         Role = "hierarchy-layer-1"
	RoleLayer2         Role = "hierarchy-layer-2"
	RoleValue          Role = "aggregation-value"
)

// Bindings is the user's current role selection. Empty strings are unbound.
// One column may back several roles.
type Bindings struct {
	X      string `json:"x,omitempty" yaml:"x,omitempty"`
	Y      string `json:"y,omitempty" yaml:"y,omitempty"`
	Color  string `json:"color,omitempty" yaml:"color,omitempty"`
	Layer1 string `json:"layer1,omitempty" yaml:"layer1,omitempty"`
	Layer2 string `json:"layer2,omitempty" yaml:"layer2,omitempty"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Column returns the column bound to role, or ""
func (b Bindings) Column(role Role) string {
	switch role {
	case RoleX:
		return b.X
	case RoleY:
		return b.Y
	case RoleColor:
		return b.Color
	case RoleLayer1:
		return b.Layer1
	case RoleLayer2:
		return b.Layer2
	case RoleValue:
		return b.Value
	}
	return ""
}

// Spec is a fully resolved chart description handed to the renderer.
// chartspec.Build is the only constructor; a struct literal may leave required
// fields empty, which Missing reports and validation rejects.
type Spec interface {
	Archetype() Archetype
	// Columns lists every column the spec references, without duplicates
	Columns() []string
	// Missing lists the required roles whose column is empty
	Missing() []Role
	sealed()
}

// XYSpec covers scatter, line and bar charts
type XYSpec struct {
	Type  Archetype `json:"archetype"`
	Title string    `json:"title"`
	X     string    `json:"x"`
	Y     string    `json:"y"`
	Color string    `json:"color,omitempty"`
}

// PieSpec draws slices named by Labels sized by Values
type PieSpec struct {
	Type   Archetype `json:"archetype"`
	Title  string    `json:"title"`
	Labels string    `json:"labels"`
	Values string    `json:"values"`
}

// HistogramSpec bins X, optionally split by Color
type HistogramSpec struct {
	Type  Archetype `json:"archetype"`
	Title string    `json:"title"`
	X     string    `json:"x"`
	Color string    `json:"color,omitempty"`
}

// HeatmapSpec is a density heatmap of Z aggregated over (X, Y) bins
type HeatmapSpec struct {
	Type       Archetype `json:"archetype"`
	Title      string    `json:"title"`
	X          string    `json:"x"`
	Y          string    `json:"y"`
	Z          string    `json:"z"`
	HistFunc   string    `json:"histfunc"`
	ColorScale string    `json:"color_continuous_scale"`
}

// SunburstSpec is a hierarchical chart. Path order is inner ring first.
type SunburstSpec struct {
	Type     Archetype `json:"archetype"`
	Title    string    `json:"title"`
	Path     []string  `json:"path"`
	Values   string    `json:"values"`
	Color    string    `json:"color"`
	TextInfo string    `json:"textinfo"`
}

func (s XYSpec) Archetype() Archetype        { return s.Type }
func (s PieSpec) Archetype() Archetype       { return Pie }
func (s HistogramSpec) Archetype() Archetype { return Histogram }
func (s HeatmapSpec) Archetype() Archetype   { return Heatmap }
func (s SunburstSpec) Archetype() Archetype  { return Sunburst }

func (s XYSpec) Columns() []string        { return distinct(s.X, s.Y, s.Color) }
func (s PieSpec) Columns() []string       { return distinct(s.Labels, s.Values) }
func (s HistogramSpec) Columns() []string { return distinct(s.X, s.Color) }
func (s HeatmapSpec) Columns() []string   { return distinct(s.X, s.Y, s.Z) }
func (s SunburstSpec) Columns() []string {
	return distinct(append(append([]string{}, s.Path...), s.Values, s.Color)...)
}

func (s XYSpec) Missing() []Role {
	return unset(bound{RoleX, s.X}, bound{RoleY, s.Y})
}
func (s PieSpec) Missing() []Role {
	return unset(bound{RoleX, s.Labels}, bound{RoleY, s.Values})
}
func (s HistogramSpec) Missing() []Role { return unset(bound{RoleX, s.X}) }
func (s HeatmapSpec) Missing() []Role {
	return unset(bound{RoleX, s.X}, bound{RoleY, s.Y}, bound{RoleValue, s.Z})
}
func (s SunburstSpec) Missing() []Role {
	layer1 := ""
	if len(s.Path) > 0 {
		layer1 = s.Path[0]
	}
	return unset(bound{RoleLayer1, layer1}, bound{RoleValue, s.Values})
}

type bound struct {
	role   Role
	column string
}

func unset(required ...bound) []Role {
	var missing []Role
	for _, b := range required {
		if b.column == "" {
			missing = append(missing, b.role)
		}
	}
	return missing
}

func (XYSpec) sealed()        {}
func (PieSpec) sealed()       {}
func (HistogramSpec) sealed() {}
func (HeatmapSpec) sealed()   {}
func (SunburstSpec) sealed()  {}

func distinct(cols ...string) []string {
	seen := make(map[string]bool, len(cols))
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// IncompleteError reports the required roles still unbound for an archetype.
// It wraps core.ErrConfigIncomplete.
type IncompleteError struct {
	Archetype Archetype
	Missing   []Role
}

func (e *IncompleteError) Error() string {
	names := make([]string, len(e.Missing))
	for i, r := range e.Missing {
		names[i] = string(r)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s needs %s", core.ErrConfigIncomplete, e.Archetype, strings.Join(names, ", "))
}

func (e *IncompleteError) Unwrap() error { return core.ErrConfigIncomplete }
