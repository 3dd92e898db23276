package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dataviz/domain/chart"
	"dataviz/domain/core"
	"dataviz/domain/dataset"
	"dataviz/domain/stage"
	"dataviz/internal"
	"dataviz/internal/chartspec"
	"dataviz/internal/config"
	apperrors "dataviz/internal/errors"
	"dataviz/internal/filter"
	"dataviz/internal/normalize"
	"dataviz/internal/schema"
)

// Readiness tells the caller whether the chart spec can be handed to a renderer
type Readiness string

const (
	ReadinessNone       Readiness = "none"       // no archetype chosen
	ReadinessIncomplete Readiness = "incomplete" // required roles unbound
	ReadinessInvalid    Readiness = "invalid"    // data violates the archetype's constraints
	ReadinessReady      Readiness = "ready"
)

// Params are the user's current selections. A nil CategoryValues selects
// every observed value; an empty, non-nil one selects nothing.
type Params struct {
	DateColumn     string
	DateFrom       *time.Time
	DateTo         *time.Time
	CategoryColumn string
	CategoryValues []string
	Archetype      chart.Archetype
	Bindings       chart.Bindings
}

// Request is the wire form of Params used by the HTTP API and the CLI
// parameter file. Dates are YYYY-MM-DD.
type Request struct {
	DateColumn     string         `json:"date_column,omitempty" yaml:"date_column,omitempty"`
	DateFrom       string         `json:"date_from,omitempty" yaml:"date_from,omitempty"`
	DateTo         string         `json:"date_to,omitempty" yaml:"date_to,omitempty"`
	CategoryColumn string         `json:"category_column,omitempty" yaml:"category_column,omitempty"`
	CategoryValues []string       `json:"category_values" yaml:"category_values"`
	Archetype      string         `json:"archetype,omitempty" yaml:"archetype,omitempty"`
	Bindings       chart.Bindings `json:"bindings" yaml:"bindings"`
}

// Params parses the request. Malformed dates are invalid input; an unknown
// archetype is a configuration error.
func (r Request) Params() (Params, error) {
	p := Params{
		DateColumn:     strings.TrimSpace(r.DateColumn),
		CategoryColumn: strings.TrimSpace(r.CategoryColumn),
		CategoryValues: r.CategoryValues,
		Bindings:       r.Bindings,
	}

	for _, d := range []struct {
		raw string
		dst **time.Time
	}{{r.DateFrom, &p.DateFrom}, {r.DateTo, &p.DateTo}} {
		if strings.TrimSpace(d.raw) == "" {
			continue
		}
		t, err := core.ParseCalendarDate(strings.TrimSpace(d.raw))
		if err != nil {
			return Params{}, apperrors.InvalidInput(err.Error())
		}
		*d.dst = &t
	}

	if strings.TrimSpace(r.Archetype) != "" {
		a, err := chart.ParseArchetype(r.Archetype)
		if err != nil {
			return Params{}, err
		}
		p.Archetype = a
	}
	return p, nil
}

// Hash fingerprints the parameters for logs and response caching
func (p Params) Hash() core.ParamsHash {
	m := map[string]interface{}{
		"date_column":     p.DateColumn,
		"category_column": p.CategoryColumn,
		"archetype":       p.Archetype,
		"bindings":        fmt.Sprintf("%+v", p.Bindings),
	}
	if p.DateFrom != nil {
		m["date_from"] = core.FormatDate(*p.DateFrom)
	}
	if p.DateTo != nil {
		m["date_to"] = core.FormatDate(*p.DateTo)
	}
	if p.CategoryValues != nil {
		m["category_values"] = strings.Join(p.CategoryValues, "\x1f")
	}
	return core.ComputeParamsHash(m)
}

// DateWindow is the inclusive range the date filter applied
type DateWindow struct {
	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

// MarshalJSON renders the window as YYYY-MM-DD strings
func (w DateWindow) MarshalJSON() ([]byte, error) {
	return []byte(`{"from":"` + core.FormatDate(w.From) + `","to":"` + core.FormatDate(w.To) + `"}`), nil
}

// Outcome is everything one pipeline run derives from the cached table
type Outcome struct {
	Columns         []string                `json:"columns"`
	Bounds          *dataset.DateBounds     `json:"bounds,omitempty"`
	Window          *DateWindow             `json:"window,omitempty"`
	Dropped         int                     `json:"dropped_rows"`
	CategoryOptions []string                `json:"category_options,omitempty"`
	RowsIn          int                     `json:"rows_in"`
	RowsOut         int                     `json:"rows_out"`
	Table           *dataset.Table          `json:"-"`
	Spec            chart.Spec              `json:"spec,omitempty"`
	Readiness       Readiness               `json:"readiness"`
	Missing         []chart.Role            `json:"missing_roles,omitempty"`
	Validation      *chart.ValidationResult `json:"validation,omitempty"`
	Audit           *stage.PipelineResult   `json:"audit"`
	ParamsHash      core.ParamsHash         `json:"params_hash"`
}

// Renderable reports whether Spec may be handed to a renderer
func (o *Outcome) Renderable() bool {
	return o.Readiness == ReadinessReady
}

// PipelineService recomputes the filtered table and chart spec from the
// original upload on every call. It holds no per-dataset state.
type PipelineService struct {
	runner  *StageRunner
	logger  *internal.Logger
	workers int
}

// NewPipelineService creates a pipeline using cfg's filter parallelism
func NewPipelineService(cfg config.PipelineConfig, logger *internal.Logger) *PipelineService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	workers := cfg.FilterWorkers
	if workers < 1 {
		workers = 1
	}
	return &PipelineService{
		runner:  NewStageRunner(logger),
		logger:  logger,
		workers: workers,
	}
}

// Run executes inspect, normalize, filter, build and validate over table.
// Configuration errors (unknown columns or archetype) are returned as errors.
// Unbound roles and invalid magnitudes are reported through Readiness.
func (s *PipelineService) Run(ctx context.Context, table *dataset.Table, p Params) (*Outcome, error) {
	out := &Outcome{
		RowsIn:     table.Len(),
		Readiness:  ReadinessNone,
		Audit:      stage.NewPipelineResult(),
		ParamsHash: p.Hash(),
	}
	current := table

	err := s.runner.Run(ctx, out.Audit, stage.StageInspect, func(context.Context) (StageOutput, error) {
		out.Columns = schema.ListColumns(current)
		return StageOutput{Metrics: stage.StageMetrics{RowsIn: current.Len(), RowsOut: current.Len()}}, nil
	})
	if err != nil {
		return nil, err
	}

	err = s.runner.Run(ctx, out.Audit, stage.StageNormalize, func(context.Context) (StageOutput, error) {
		if p.DateColumn == "" {
			return StageOutput{Skipped: true, Metrics: stage.StageMetrics{RowsIn: current.Len(), RowsOut: current.Len()}}, nil
		}
		res, err := normalize.NormalizeDates(current, p.DateColumn)
		if err != nil {
			return StageOutput{}, err
		}
		rowsIn := current.Len()
		current = res.Table
		out.Bounds = res.Bounds
		out.Dropped = res.Dropped
		out.Columns = schema.ListColumns(current)
		return StageOutput{Metrics: stage.StageMetrics{RowsIn: rowsIn, RowsOut: current.Len(), Dropped: res.Dropped}}, nil
	})
	if err != nil {
		return nil, apperrors.Wrapf(err, "normalize dates on %q", p.DateColumn)
	}

	err = s.runner.Run(ctx, out.Audit, stage.StageFilter, func(context.Context) (StageOutput, error) {
		spec, err := s.filterSpec(current, p, out)
		if err != nil {
			return StageOutput{}, err
		}
		rowsIn := current.Len()
		if spec.IsEmpty() {
			return StageOutput{Skipped: true, Metrics: stage.StageMetrics{RowsIn: rowsIn, RowsOut: rowsIn}}, nil
		}
		filtered, err := filter.Apply(current, spec, filter.WithWorkers(s.workers))
		if err != nil {
			return StageOutput{}, err
		}
		current = filtered
		return StageOutput{Metrics: stage.StageMetrics{RowsIn: rowsIn, RowsOut: current.Len()}}, nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "apply filters")
	}
	out.Table = current
	out.RowsOut = current.Len()

	err = s.runner.Run(ctx, out.Audit, stage.StageBuild, func(context.Context) (StageOutput, error) {
		metrics := stage.StageMetrics{RowsIn: current.Len(), RowsOut: current.Len()}
		if p.Archetype == "" {
			return StageOutput{Skipped: true, Metrics: metrics, Note: "no archetype selected"}, nil
		}
		spec, err := chartspec.Build(p.Archetype, p.Bindings, current)
		var incomplete *chart.IncompleteError
		if errors.As(err, &incomplete) {
			out.Readiness = ReadinessIncomplete
			out.Missing = incomplete.Missing
			return StageOutput{Metrics: metrics, Note: incomplete.Error()}, nil
		}
		if err != nil {
			return StageOutput{}, err
		}
		out.Spec = spec
		return StageOutput{Metrics: metrics}, nil
	})
	if err != nil {
		return nil, apperrors.Wrapf(err, "build %s chart", p.Archetype)
	}

	err = s.runner.Run(ctx, out.Audit, stage.StageValidate, func(context.Context) (StageOutput, error) {
		metrics := stage.StageMetrics{RowsIn: current.Len(), RowsOut: current.Len()}
		if out.Spec == nil {
			return StageOutput{Skipped: true, Metrics: metrics}, nil
		}
		res := chartspec.Validate(out.Spec, current)
		out.Validation = &res
		switch res.Kind {
		case chart.FailureNone:
			out.Readiness = ReadinessReady
		case chart.FailureDomain:
			out.Readiness = ReadinessInvalid
			return StageOutput{Metrics: metrics, Note: res.Message}, nil
		default:
			return StageOutput{}, res.Err()
		}
		return StageOutput{Metrics: metrics}, nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "validate chart")
	}

	s.logger.Info("[Pipeline] params %s: %d -> %d rows, readiness %s",
		core.Hash(out.ParamsHash).Short(), out.RowsIn, out.RowsOut, out.Readiness)
	return out, nil
}

// filterSpec resolves the user's selections against the normalized table.
// Missing date bounds default to the observed range; a nil category
// selection defaults to every observed value.
func (s *PipelineService) filterSpec(current *dataset.Table, p Params, out *Outcome) (dataset.FilterSpec, error) {
	var spec dataset.FilterSpec

	if p.DateColumn != "" && out.Bounds != nil {
		from, to := out.Bounds.Min, out.Bounds.Max
		if p.DateFrom != nil {
			from = core.CalendarDate(*p.DateFrom)
		}
		if p.DateTo != nil {
			to = core.CalendarDate(*p.DateTo)
		}
		out.Window = &DateWindow{From: from, To: to}
		spec.Date = &dataset.DateRange{Column: p.DateColumn, From: &from, To: &to}
	}

	if p.CategoryColumn != "" {
		options, err := filter.DefaultAllowed(current, p.CategoryColumn)
		if err != nil {
			return spec, err
		}
		out.CategoryOptions = options
		allowed := p.CategoryValues
		if allowed == nil {
			allowed = options
		}
		spec.Category = &dataset.CategoryFilter{Column: p.CategoryColumn, Allowed: allowed}
	}

	return spec, nil
}
