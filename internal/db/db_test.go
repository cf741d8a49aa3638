package db

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/hiring-agent/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONListRoundTrip(t *testing.T) {
	raw := toJSONList([]string{"Go", "SQL"})
	assert.JSONEq(t, `["Go","SQL"]`, string(raw))
	assert.Equal(t, []string{"Go", "SQL"}, fromJSONList(raw))
}

func TestJSONList_NilNormalizesToEmptyArray(t *testing.T) {
	assert.Equal(t, "[]", string(toJSONList(nil)))
	assert.Equal(t, []string{}, fromJSONList(nil))
	assert.Equal(t, []string{}, fromJSONList([]byte("null")))
}

func TestJSONList_GarbageReadsAsEmpty(t *testing.T) {
	assert.Equal(t, []string{}, fromJSONList([]byte("{broken")))
}

func TestAnalysisRunJSONShape(t *testing.T) {
	run := AnalysisRun{
		ID:               3,
		CandidateID:      1,
		JobDescriptionID: 2,
		Skills:           []string{"Go"},
		Result: scoring.Result{
			FinalScore: 89.5,
			Decision:   scoring.DecisionStrongHire,
			RiskLevel:  scoring.RiskLow,
		},
	}

	data, err := json.Marshal(run)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	// Engine result fields flatten into the run record.
	assert.Equal(t, 89.5, fields["final_score"])
	assert.Equal(t, "strong_hire", fields["decision"])
	assert.Equal(t, "low", fields["risk_level"])
	assert.Equal(t, float64(1), fields["candidate_id"])
	assert.NotContains(t, fields, "Result")
}

func TestActionTypeConstants(t *testing.T) {
	for _, action := range []string{
		ActionCandidateAdded,
		ActionCandidateAnalyzed,
		ActionCandidateUpdated,
		ActionCandidateDeleted,
	} {
		assert.NotEmpty(t, action)
	}
}
