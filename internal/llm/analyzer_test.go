package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient returns canned responses and records prompts.
type stubClient struct {
	response   string
	err        error
	lastSystem string
	lastUser   string
}

func (s *stubClient) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.lastSystem = systemPrompt
	s.lastUser = userPrompt
	return s.response, s.err
}

func (s *stubClient) Ping(_ context.Context) error { return nil }
func (s *stubClient) Model() string                { return "stub" }
func (s *stubClient) Close() error                 { return nil }

func TestAnalyzeResume_PromptCarriesBothDocuments(t *testing.T) {
	stub := &stubClient{response: wellFormedAnalysis}
	analyzer := NewAnalyzer(stub)

	raw := analyzer.AnalyzeResume(context.Background(), "RESUME BODY", "JD BODY")

	require.NotNil(t, raw)
	assert.Contains(t, stub.lastSystem, "AI hiring agent")
	assert.Contains(t, stub.lastUser, "RESUME BODY")
	assert.Contains(t, stub.lastUser, "JD BODY")
	assert.Equal(t, "senior", raw.Seniority)
}

func TestAnalyzeResume_FallbackOnClientError(t *testing.T) {
	stub := &stubClient{err: errors.New("connection refused")}
	analyzer := NewAnalyzer(stub)

	raw := analyzer.AnalyzeResume(context.Background(), "resume", "jd")

	require.NotNil(t, raw)
	require.NotNil(t, raw.SkillMatchScore)
	assert.Equal(t, 0.0, *raw.SkillMatchScore)
	require.NotNil(t, raw.SoftSkillsScore)
	assert.Equal(t, 0.0, *raw.SoftSkillsScore)
	assert.Equal(t, "low", raw.RiskLevel)
	assert.Contains(t, raw.Recommendation, "LLM analysis failed")
	assert.True(t, raw.Malformed())
}

func TestAnalyzeResume_FallbackOnGarbageResponse(t *testing.T) {
	stub := &stubClient{response: "sorry, I cannot help with that"}
	analyzer := NewAnalyzer(stub)

	raw := analyzer.AnalyzeResume(context.Background(), "resume", "jd")

	require.NotNil(t, raw)
	assert.Contains(t, raw.Recommendation, "LLM analysis failed")
}

func TestExtractJobInfo(t *testing.T) {
	stub := &stubClient{response: `{
		"title": "Senior Backend Engineer",
		"required_skills": ["Go", "PostgreSQL"],
		"min_experience_years": 5,
		"domain": "payments",
		"preferred_skills": ["Kubernetes"],
		"responsibilities": ["Own services end to end"],
		"qualifications": ["BS or equivalent experience"]
	}`}
	analyzer := NewAnalyzer(stub)

	info, err := analyzer.ExtractJobInfo(context.Background(), "jd text")

	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer", info.Title)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, info.RequiredSkills)
	assert.Equal(t, 5.0, info.MinExperienceYears)
	assert.Equal(t, "payments", info.Domain)
}

func TestExtractJobInfo_PropagatesClientError(t *testing.T) {
	stub := &stubClient{err: errors.New("timeout")}
	analyzer := NewAnalyzer(stub)

	_, err := analyzer.ExtractJobInfo(context.Background(), "jd text")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to extract job info")
}

func TestGenerateInterviewQuestions_FocusAreas(t *testing.T) {
	stub := &stubClient{response: `{
		"technical_questions": ["q1"],
		"system_design_questions": ["q2"],
		"behavioral_questions": ["q3"],
		"custom_questions": ["q4"]
	}`}
	analyzer := NewAnalyzer(stub)

	qs, err := analyzer.GenerateInterviewQuestions(context.Background(), "resume", "jd", []string{"caching", "observability"})

	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, qs.TechnicalQuestions)
	assert.Equal(t, []string{"q4"}, qs.CustomQuestions)
	assert.Contains(t, stub.lastUser, "- caching")
	assert.Contains(t, stub.lastUser, "- observability")
}

func TestGenerateInterviewQuestions_NoFocusAreas(t *testing.T) {
	stub := &stubClient{response: `{"technical_questions": []}`}
	analyzer := NewAnalyzer(stub)

	_, err := analyzer.GenerateInterviewQuestions(context.Background(), "resume", "jd", nil)

	require.NoError(t, err)
	assert.True(t, strings.Contains(stub.lastUser, "No specific focus areas provided."))
}
