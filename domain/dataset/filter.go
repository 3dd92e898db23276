package dataset

import (
	"time"
)

// FilterSpec selects rows of a table. Components compose with AND; a nil
// component is a no-op, never an exclude-all.
type FilterSpec struct {
	Date     *DateRange      `json:"date,omitempty" yaml:"date,omitempty"`
	Category *CategoryFilter `json:"category,omitempty" yaml:"category,omitempty"`
}

// DateRange keeps rows whose calendar date lies in [From, To]. A nil bound
// leaves that side open.
type DateRange struct {
	Column string     `json:"column" yaml:"column"`
	From   *time.Time `json:"from,omitempty" yaml:"from,omitempty"`
	To     *time.Time `json:"to,omitempty" yaml:"to,omitempty"`
}

// Unbounded reports whether neither side of the range is set
func (r DateRange) Unbounded() bool {
	return r.From == nil && r.To == nil
}

// CategoryFilter keeps rows whose Column value is in Allowed.
// An empty Allowed set matches nothing.
type CategoryFilter struct {
	Column  string   `json:"column" yaml:"column"`
	Allowed []string `json:"allowed" yaml:"allowed"`
}

// AllowedSet returns Allowed as a lookup set
func (c CategoryFilter) AllowedSet() map[string]bool {
	set := make(map[string]bool, len(c.Allowed))
	for _, v := range c.Allowed {
		set[v] = true
	}
	return set
}

// IsEmpty returns true if no component is configured
func (f FilterSpec) IsEmpty() bool {
	return f.Date == nil && f.Category == nil
}
