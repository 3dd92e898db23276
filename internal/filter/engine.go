// Package filter applies date-range and categorical row filters to a table.
package filter

import (
	"dataviz/adapters/datareadiness/coercer"
	"dataviz/domain/core"
	"dataviz/domain/dataset"

	"golang.org/x/sync/errgroup"
)

// minChunk keeps tiny tables on the calling goroutine
const minChunk = 1024

type predicate func(dataset.Row) bool

type options struct {
	workers int
}

// Option tunes Apply
type Option func(*options)

// WithWorkers evaluates rows in n contiguous chunks concurrently.
// Output order always equals input order.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// Apply returns the rows of table that satisfy every configured component of
// spec. A nil component passes every row; a categorical component with an
// empty allow-set passes none. Column references are checked before any row
// is evaluated.
func Apply(table *dataset.Table, spec dataset.FilterSpec, opts ...Option) (*dataset.Table, error) {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	preds, err := compile(table, spec)
	if err != nil {
		return nil, err
	}
	if len(preds) == 0 {
		return table, nil
	}

	match := func(r dataset.Row) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}

	return table.Select(evaluate(table, match, o.workers)), nil
}

// DefaultAllowed returns every observed key of column in first-seen order,
// the selection that makes a categorical filter a passthrough.
func DefaultAllowed(table *dataset.Table, column string) ([]string, error) {
	if !table.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column, table.Columns())
	}
	values := table.Unique(column)
	seen := make(map[string]bool, len(values))
	keys := make([]string, 0, len(values))
	for _, v := range values {
		k := v.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys, nil
}

func compile(table *dataset.Table, spec dataset.FilterSpec) ([]predicate, error) {
	var preds []predicate

	if r := spec.Date; r != nil && r.Column != "" {
		if !table.HasColumn(r.Column) {
			return nil, core.NewColumnNotFoundError(r.Column, table.Columns())
		}
		if !r.Unbounded() {
			preds = append(preds, dateRange(*r))
		}
	}

	if c := spec.Category; c != nil && c.Column != "" {
		if !table.HasColumn(c.Column) {
			return nil, core.NewColumnNotFoundError(c.Column, table.Columns())
		}
		preds = append(preds, category(*c))
	}

	return preds, nil
}

func dateRange(r dataset.DateRange) predicate {
	lower, upper := r.From, r.To
	if lower != nil {
		d := core.CalendarDate(*lower)
		lower = &d
	}
	if upper != nil {
		d := core.CalendarDate(*upper)
		upper = &d
	}

	return func(row dataset.Row) bool {
		ts, ok := coercer.ParseDate(row.Get(r.Column))
		if !ok {
			return false
		}
		d := core.CalendarDate(ts)
		if lower != nil && d.Before(*lower) {
			return false
		}
		if upper != nil && d.After(*upper) {
			return false
		}
		return true
	}
}

func category(c dataset.CategoryFilter) predicate {
	allowed := c.AllowedSet()
	return func(row dataset.Row) bool {
		return allowed[row.Get(c.Column).Key()]
	}
}

// evaluate returns the indices of matching rows in ascending order
func evaluate(table *dataset.Table, match predicate, workers int) []int {
	n := table.Len()
	if workers <= 1 || n < 2*minChunk {
		return scan(table, match, 0, n)
	}

	chunk := (n + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}
	parts := make([][]int, (n+chunk-1)/chunk)

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range parts {
		i := i // per-iteration copy; module targets go 1.21 loop semantics
		lo, hi := i*chunk, min((i+1)*chunk, n)
		g.Go(func() error {
			parts[i] = scan(table, match, lo, hi)
			return nil
		})
	}
	_ = g.Wait()

	var out []int
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func scan(table *dataset.Table, match predicate, lo, hi int) []int {
	var out []int
	for i := lo; i < hi; i++ {
		if match(table.Row(i)) {
			out = append(out, i)
		}
	}
	return out
}
