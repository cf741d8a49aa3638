package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-agent/internal/config"
	"github.com/jonathan/hiring-agent/internal/db"
	"github.com/jonathan/hiring-agent/internal/scoring"
)

// fakeStore is an in-memory Store for agent tests.
type fakeStore struct {
	candidates map[int64]*db.Candidate
	jobs       map[int64]*db.JobDescription
	runs       []db.AnalysisRun
	profiles   []db.CandidateProfile
	actions    []db.HiringAction
	nextID     int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		candidates: map[int64]*db.Candidate{},
		jobs:       map[int64]*db.JobDescription{},
		nextID:     1,
	}
}

func (s *fakeStore) GetCandidate(_ context.Context, id int64) (*db.Candidate, error) {
	return s.candidates[id], nil
}

func (s *fakeStore) CreateCandidate(_ context.Context, c *db.Candidate) (*db.Candidate, error) {
	created := *c
	created.ID = s.nextID
	s.nextID++
	s.candidates[created.ID] = &created
	return &created, nil
}

func (s *fakeStore) ListCandidates(_ context.Context, filters db.CandidateFilters) ([]db.Candidate, error) {
	var out []db.Candidate
	for _, c := range s.candidates {
		if filters.JobDescriptionID != nil &&
			(c.JobDescriptionID == nil || *c.JobDescriptionID != *filters.JobDescriptionID) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (s *fakeStore) FindDuplicateCandidate(_ context.Context, name, email string) (*db.Candidate, error) {
	for _, c := range s.candidates {
		if email != "" && strings.EqualFold(c.Email, email) {
			return c, nil
		}
		if email == "" && name != "" && strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) SaveProfile(_ context.Context, p *db.CandidateProfile) (*db.CandidateProfile, error) {
	s.profiles = append(s.profiles, *p)
	return p, nil
}

func (s *fakeStore) GetJobDescription(_ context.Context, id int64) (*db.JobDescription, error) {
	return s.jobs[id], nil
}

func (s *fakeStore) InsertAnalysisRun(_ context.Context, run *db.AnalysisRun) (*db.AnalysisRun, error) {
	stored := *run
	stored.ID = s.nextID
	s.nextID++
	s.runs = append(s.runs, stored)
	return &stored, nil
}

func (s *fakeStore) LogAction(_ context.Context, candidateID int64, actionType, description string) error {
	s.actions = append(s.actions, db.HiringAction{
		CandidateID: candidateID,
		ActionType:  actionType,
		Description: description,
	})
	return nil
}

// stubLLM is a canned llm.Client.
type stubLLM struct {
	response string
	err      error
	calls    int
}

func (s *stubLLM) GenerateJSON(_ context.Context, _, _ string) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubLLM) Ping(_ context.Context) error { return nil }
func (s *stubLLM) Model() string                { return "stub-model" }
func (s *stubLLM) Close() error                 { return nil }

const analysisResponse = `{
  "skills": ["Go", "PostgreSQL"],
  "experience_years": 6,
  "tech_stack": ["Go", "Docker"],
  "domain_knowledge": ["fintech"],
  "seniority": "senior",
  "strengths": ["strong backend experience"],
  "weaknesses": ["limited frontend exposure"],
  "skill_match_score": 90,
  "experience_score": 85,
  "domain_score": 95,
  "project_complexity_score": 100,
  "soft_skills_score": 80,
  "risks": ["short tenure at last role"],
  "risk_level": "low",
  "technical_questions": ["Describe your experience with Go concurrency."],
  "system_design_questions": [],
  "behavioral_questions": null,
  "custom_questions": [],
  "interview_focus_areas": ["distributed systems"],
  "recommendation": "Strong candidate."
}`

func newTestAgent(t *testing.T, store Store, client *stubLLM) *Agent {
	t.Helper()
	engine := scoring.NewEngine(config.DefaultWeights(), config.DefaultThresholds())
	return New(store, client, engine, t.TempDir())
}

func seedStore(store *fakeStore) (candidateID, jobID int64) {
	jobID = 100
	store.jobs[jobID] = &db.JobDescription{
		ID:                 jobID,
		Title:              "Backend Engineer",
		Description:        "Build and operate Go services.",
		RequiredSkills:     []string{"Go", "PostgreSQL"},
		MinExperienceYears: 5,
		Domain:             "fintech",
	}
	candidateID = 1
	store.candidates[candidateID] = &db.Candidate{
		ID:               candidateID,
		Name:             "Jane Doe",
		Email:            "jane@example.com",
		ResumeText:       "Experienced Go engineer.",
		JobDescriptionID: &jobID,
	}
	return candidateID, jobID
}

func TestAnalyzeCandidate_StoresScoredRun(t *testing.T) {
	store := newFakeStore()
	candidateID, jobID := seedStore(store)
	agent := newTestAgent(t, store, &stubLLM{response: analysisResponse})

	run, err := agent.AnalyzeCandidate(context.Background(), candidateID, nil)
	require.NoError(t, err)

	assert.Equal(t, candidateID, run.CandidateID)
	assert.Equal(t, jobID, run.JobDescriptionID)
	assert.Equal(t, 89.5, run.FinalScore)
	assert.Equal(t, scoring.DecisionStrongHire, run.Decision)
	assert.Equal(t, "stub-model", run.ModelUsed)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, run.Skills)
	assert.False(t, run.Partial)
	require.Len(t, store.runs, 1)
}

func TestAnalyzeCandidate_TopsUpQuestionSections(t *testing.T) {
	store := newFakeStore()
	candidateID, _ := seedStore(store)
	agent := newTestAgent(t, store, &stubLLM{response: analysisResponse})

	run, err := agent.AnalyzeCandidate(context.Background(), candidateID, nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(run.TechnicalQuestions), 5)
	assert.GreaterOrEqual(t, len(run.SystemDesignQuestions), 5)
	assert.GreaterOrEqual(t, len(run.BehavioralQuestions), 5)
	assert.GreaterOrEqual(t, len(run.CustomQuestions), 5)
	// The model's own question survives at the front.
	assert.Equal(t, "Describe your experience with Go concurrency.", run.TechnicalQuestions[0])
}

func TestAnalyzeCandidate_LogsAction(t *testing.T) {
	store := newFakeStore()
	candidateID, _ := seedStore(store)
	agent := newTestAgent(t, store, &stubLLM{response: analysisResponse})

	_, err := agent.AnalyzeCandidate(context.Background(), candidateID, nil)
	require.NoError(t, err)

	require.Len(t, store.actions, 1)
	assert.Equal(t, db.ActionCandidateAnalyzed, store.actions[0].ActionType)
	assert.Contains(t, store.actions[0].Description, "89.5")
}

func TestAnalyzeCandidate_ExplicitJobOverridesLink(t *testing.T) {
	store := newFakeStore()
	candidateID, _ := seedStore(store)
	otherID := int64(200)
	store.jobs[otherID] = &db.JobDescription{ID: otherID, Title: "SRE", Description: "Keep things up."}
	agent := newTestAgent(t, store, &stubLLM{response: analysisResponse})

	run, err := agent.AnalyzeCandidate(context.Background(), candidateID, &otherID)
	require.NoError(t, err)
	assert.Equal(t, otherID, run.JobDescriptionID)
}

func TestAnalyzeCandidate_NoJobDescriptionAnywhere(t *testing.T) {
	store := newFakeStore()
	store.candidates[1] = &db.Candidate{ID: 1, Name: "Lone", ResumeText: "text"}
	agent := newTestAgent(t, store, &stubLLM{response: analysisResponse})

	_, err := agent.AnalyzeCandidate(context.Background(), 1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no linked job description")
}

func TestAnalyzeCandidate_CandidateNotFound(t *testing.T) {
	store := newFakeStore()
	agent := newTestAgent(t, store, &stubLLM{response: analysisResponse})

	_, err := agent.AnalyzeCandidate(context.Background(), 42, nil)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "candidate", notFound.Resource)
}

func TestAnalyzeCandidate_LLMFailureStillRecordsRun(t *testing.T) {
	store := newFakeStore()
	candidateID, _ := seedStore(store)
	agent := newTestAgent(t, store, &stubLLM{err: errors.New("connection refused")})

	run, err := agent.AnalyzeCandidate(context.Background(), candidateID, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, run.FinalScore)
	assert.Equal(t, scoring.DecisionReject, run.Decision)
	assert.True(t, run.Partial)
	require.Len(t, store.runs, 1)
}

func TestAnalyzeAll_AnalyzesEveryLinkedCandidate(t *testing.T) {
	store := newFakeStore()
	_, jobID := seedStore(store)
	store.candidates[2] = &db.Candidate{ID: 2, Name: "John Roe", ResumeText: "Go developer.", JobDescriptionID: &jobID}
	unlinked := int64(999)
	store.candidates[3] = &db.Candidate{ID: 3, Name: "Other", ResumeText: "text", JobDescriptionID: &unlinked}
	agent := newTestAgent(t, store, &stubLLM{response: analysisResponse})

	res, err := agent.AnalyzeAll(context.Background(), jobID, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Analyzed)
	assert.Equal(t, 0, res.Failed)
	require.Len(t, res.Runs, 2)
	assert.Equal(t, int64(1), res.Runs[0].CandidateID)
	assert.Equal(t, int64(2), res.Runs[1].CandidateID)
}

func TestAnalyzeAll_UnknownJobDescription(t *testing.T) {
	store := newFakeStore()
	agent := newTestAgent(t, store, &stubLLM{response: analysisResponse})

	_, err := agent.AnalyzeAll(context.Background(), 12345, 0)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "job description", notFound.Resource)
}

func TestRegenerateInterviewQuestions(t *testing.T) {
	store := newFakeStore()
	candidateID, _ := seedStore(store)
	questionsJSON := `{
		"technical_questions": ["Explain Go's memory model."],
		"system_design_questions": ["Design a rate limiter."],
		"behavioral_questions": ["Tell me about a conflict you resolved."],
		"custom_questions": ["Why this company?"]
	}`
	agent := newTestAgent(t, store, &stubLLM{response: questionsJSON})

	qs, err := agent.RegenerateInterviewQuestions(context.Background(), candidateID, []string{"distributed systems"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Explain Go's memory model."}, qs.TechnicalQuestions)
	assert.Equal(t, []string{"Design a rate limiter."}, qs.SystemDesignQuestions)
}

func TestRegenerateInterviewQuestions_NoLinkedJob(t *testing.T) {
	store := newFakeStore()
	store.candidates[1] = &db.Candidate{ID: 1, Name: "Lone", ResumeText: "text"}
	agent := newTestAgent(t, store, &stubLLM{response: analysisResponse})

	_, err := agent.RegenerateInterviewQuestions(context.Background(), 1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no linked job description")
}

const uploadedResume = `Jane Doe
Senior Backend Engineer
jane.doe@example.com | +1 415 555 0100

Summary
Seasoned engineer with deep experience building Go services.

Experience
Lead Backend Engineer, Acme Corp (2019-2025)
- Designed and shipped payment processing services in Go.

Education
B.S. Computer Science

Skills
Go, PostgreSQL, Docker, Kubernetes
`

func TestCreateCandidateFromResume_ExtractsContactDetails(t *testing.T) {
	store := newFakeStore()
	_, jobID := seedStore(store)
	delete(store.candidates, 1)
	agent := newTestAgent(t, store, &stubLLM{response: analysisResponse})

	cand, err := agent.CreateCandidateFromResume(context.Background(), ResumeUpload{
		Filename:         "jane_doe.txt",
		Content:          []byte(uploadedResume),
		JobDescriptionID: &jobID,
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", cand.Name)
	assert.Equal(t, "jane.doe@example.com", cand.Email)
	assert.NotEmpty(t, cand.Phone)
	require.NotNil(t, cand.JobDescriptionID)
	assert.Equal(t, jobID, *cand.JobDescriptionID)
	assert.Contains(t, cand.ResumeText, "payment processing")
}

func TestCreateCandidateFromResume_StoresFileWithSafeUniqueName(t *testing.T) {
	store := newFakeStore()
	agent := newTestAgent(t, store, &stubLLM{response: analysisResponse})

	cand, err := agent.CreateCandidateFromResume(context.Background(), ResumeUpload{
		Filename: "jane doe (final)!.txt",
		Content:  []byte(uploadedResume),
	})
	require.NoError(t, err)

	require.NotEmpty(t, cand.ResumeFilePath)
	base := filepath.Base(cand.ResumeFilePath)
	assert.True(t, strings.HasPrefix(base, "jane_doe_"), "sanitized stem kept as prefix, got %q", base)
	assert.Greater(t, len(base), len("jane_doe_.txt"), "random suffix appended")
	assert.Equal(t, ".txt", filepath.Ext(cand.ResumeFilePath))
	data, err := os.ReadFile(cand.ResumeFilePath)
	require.NoError(t, err)
	assert.Equal(t, uploadedResume, string(data))
}

func TestCreateCandidateFromResume_FlagsNonResumeText(t *testing.T) {
	store := newFakeStore()
	agent := newTestAgent(t, store, &stubLLM{response: analysisResponse})

	longNote := "Grocery list: " + strings.Repeat("milk, eggs, bread, ", 20)
	_, err := agent.CreateCandidateFromResume(context.Background(), ResumeUpload{
		Filename: "note.txt",
		Content:  []byte(longNote),
	})
	require.NoError(t, err)

	require.Len(t, store.profiles, 1)
	assert.True(t, store.profiles[0].InvalidResume)
}

func TestCreateCandidateFromResume_DetectsDuplicateByEmail(t *testing.T) {
	store := newFakeStore()
	store.candidates[7] = &db.Candidate{ID: 7, Name: "Jane Doe", Email: "jane.doe@example.com"}
	agent := newTestAgent(t, store, &stubLLM{response: analysisResponse})

	_, err := agent.CreateCandidateFromResume(context.Background(), ResumeUpload{
		Filename: "jane_doe.txt",
		Content:  []byte(uploadedResume),
	})
	var dup *DuplicateCandidateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, int64(7), dup.Existing.ID)
}

func TestCreateCandidateFromResume_UnknownJobDescription(t *testing.T) {
	store := newFakeStore()
	missing := int64(404)
	agent := newTestAgent(t, store, &stubLLM{response: analysisResponse})

	_, err := agent.CreateCandidateFromResume(context.Background(), ResumeUpload{
		Filename:         "jane_doe.txt",
		Content:          []byte(uploadedResume),
		JobDescriptionID: &missing,
	})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCreateCandidateFromResume_NameFallsBackToFilename(t *testing.T) {
	store := newFakeStore()
	agent := newTestAgent(t, store, &stubLLM{response: analysisResponse})

	body := fmt.Sprintf("resume@nowhere\n%s", strings.Repeat("experience education skills project ", 10))
	cand, err := agent.CreateCandidateFromResume(context.Background(), ResumeUpload{
		Filename: "john_smith.txt",
		Content:  []byte(body),
	})
	require.NoError(t, err)
	assert.Equal(t, "john smith", cand.Name)
}
