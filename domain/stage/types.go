package stage

// StageName represents a named stage in the pipeline
type StageName string

// Predefined stage names, in execution order
const (
	StageInspect   StageName = "inspect"
	StageNormalize StageName = "normalize"
	StageFilter    StageName = "filter"
	StageBuild     StageName = "build"
	StageValidate  StageName = "validate"
)

// Plan is the fixed stage order of one pipeline run
var Plan = []StageName{StageInspect, StageNormalize, StageFilter, StageBuild, StageValidate}

// StageMetrics contains row accounting for one stage
type StageMetrics struct {
	RowsIn  int `json:"rows_in"`
	RowsOut int `json:"rows_out"`
	Dropped int `json:"dropped,omitempty"`
}

// StageResult represents the output of a stage execution
type StageResult struct {
	StageName StageName    `json:"stage_name"`
	Success   bool         `json:"success"`
	Skipped   bool         `json:"skipped,omitempty"`
	Metrics   StageMetrics `json:"metrics"`
	Note      string       `json:"note,omitempty"`
	Error     string       `json:"error,omitempty"`
	Duration  int64        `json:"duration_us"` // microseconds
}

// PipelineSummary provides high-level pipeline statistics
type PipelineSummary struct {
	TotalStages   int   `json:"total_stages"`
	Successful    int   `json:"successful"`
	Skipped       int   `json:"skipped"`
	Failed        int   `json:"failed"`
	TotalDuration int64 `json:"total_duration_us"`
}

// PipelineResult is the audit trail of a pipeline run
type PipelineResult struct {
	Results []StageResult   `json:"results"`
	Overall PipelineSummary `json:"overall"`
}

// NewPipelineResult creates an empty audit trail
func NewPipelineResult() *PipelineResult {
	return &PipelineResult{Results: make([]StageResult, 0, len(Plan))}
}

// AddResult adds a stage result and updates summary
func (r *PipelineResult) AddResult(result StageResult) {
	r.Results = append(r.Results, result)
	r.Overall.TotalStages++

	switch {
	case !result.Success:
		r.Overall.Failed++
	case result.Skipped:
		r.Overall.Skipped++
	default:
		r.Overall.Successful++
	}

	r.Overall.TotalDuration += result.Duration
}

// Success returns true if no stage failed
func (r *PipelineResult) Success() bool {
	return r.Overall.Failed == 0
}

// Stage returns the recorded result for name
func (r *PipelineResult) Stage(name StageName) (StageResult, bool) {
	for _, res := range r.Results {
		if res.StageName == name {
			return res, true
		}
	}
	return StageResult{}, false
}
