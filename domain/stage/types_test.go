package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineResultSummary(t *testing.T) {
	r := NewPipelineResult()
	r.AddResult(StageResult{StageName: StageInspect, Success: true, Duration: 3})
	r.AddResult(StageResult{StageName: StageNormalize, Success: true, Skipped: true, Duration: 1})
	r.AddResult(StageResult{StageName: StageFilter, Success: false, Error: "boom", Duration: 2})

	assert.Equal(t, 3, r.Overall.TotalStages)
	assert.Equal(t, 1, r.Overall.Successful)
	assert.Equal(t, 1, r.Overall.Skipped)
	assert.Equal(t, 1, r.Overall.Failed)
	assert.Equal(t, int64(6), r.Overall.TotalDuration)
	assert.False(t, r.Success())

	res, ok := r.Stage(StageFilter)
	assert.True(t, ok)
	assert.Equal(t, "boom", res.Error)

	_, ok = r.Stage(StageValidate)
	assert.False(t, ok)
}
