package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightsValidate_Defaults(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.Equal(t, 100.0, DefaultWeights().Total())
}

func TestWeightsValidate_WrongTotal(t *testing.T) {
	w := Weights{SkillMatch: 40, Experience: 25, DomainKnowledge: 15, ProjectComplexity: 10, SoftSkills: 5}
	err := w.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 100")
}

func TestWeightsValidate_NegativeWeightRejectedEvenWhenTotalIs100(t *testing.T) {
	// Sums to 100 but carries a negative weight; must still be rejected at load.
	w := Weights{SkillMatch: 30, Experience: 30, DomainKnowledge: 30, ProjectComplexity: 15, SoftSkills: -5}
	err := w.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
}

func TestThresholdsValidate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())
	assert.NoError(t, Thresholds{StrongHire: 60, Borderline: 60}.Validate())

	err := Thresholds{StrongHire: 50, Borderline: 70}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below borderline")
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hiring_test")
	t.Setenv("WEIGHT_SKILL_MATCH", "50")
	t.Setenv("WEIGHT_EXPERIENCE", "20")
	t.Setenv("WEIGHT_DOMAIN_KNOWLEDGE", "10")
	t.Setenv("WEIGHT_PROJECT_COMPLEXITY", "10")
	t.Setenv("WEIGHT_SOFT_SKILLS", "10")
	t.Setenv("THRESHOLD_STRONG_HIRE", "80")
	t.Setenv("THRESHOLD_BORDERLINE", "60")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50.0, cfg.Weights.SkillMatch)
	assert.Equal(t, 80.0, cfg.Thresholds.StrongHire)
	assert.Equal(t, 60.0, cfg.Thresholds.Borderline)
}

func TestLoad_MalformedWeightIsFatal(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hiring_test")
	t.Setenv("WEIGHT_SKILL_MATCH", "abc")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEIGHT_SKILL_MATCH")
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestLoad_MalformedPortIsFatal(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hiring_test")
	t.Setenv("HIRING_PORT", "eighty")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HIRING_PORT")
}

func TestLoad_GeminiProviderRequiresKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hiring_test")
	t.Setenv("HIRING_LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}
