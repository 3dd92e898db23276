package app

import (
	"context"
	"time"

	"dataviz/domain/stage"
	"dataviz/internal"
)

// StageOutput is what a stage reports back to the runner
type StageOutput struct {
	Metrics stage.StageMetrics
	Skipped bool
	Note    string
}

// StageFunc executes one pipeline stage
type StageFunc func(ctx context.Context) (StageOutput, error)

// StageRunner executes pipeline stages in order and records their audit
type StageRunner struct {
	logger *internal.Logger
}

// NewStageRunner creates a new stage runner
func NewStageRunner(logger *internal.Logger) *StageRunner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &StageRunner{logger: logger}
}

// Run executes fn as stage name and appends its result to audit. A cancelled
// context stops the run before the stage starts.
func (r *StageRunner) Run(ctx context.Context, audit *stage.PipelineResult, name stage.StageName, fn StageFunc) error {
	if err := ctx.Err(); err != nil {
		audit.AddResult(stage.StageResult{StageName: name, Error: err.Error()})
		return err
	}

	start := time.Now()
	out, err := fn(ctx)
	result := stage.StageResult{
		StageName: name,
		Success:   err == nil,
		Skipped:   out.Skipped,
		Metrics:   out.Metrics,
		Note:      out.Note,
		Duration:  time.Since(start).Microseconds(),
	}

	if err != nil {
		result.Error = err.Error()
		r.logger.Warn("[Pipeline] stage %s failed after %dus: %v", name, result.Duration, err)
	} else if out.Skipped {
		r.logger.Trace("[Pipeline] stage %s skipped", name)
	} else {
		r.logger.Debug("[Pipeline] stage %s: %d -> %d rows in %dus", name, out.Metrics.RowsIn, out.Metrics.RowsOut, result.Duration)
	}

	audit.AddResult(result)
	return err
}
