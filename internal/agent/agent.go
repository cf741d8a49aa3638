// Package agent orchestrates the hiring workflow: resume intake, LLM
// analysis, scoring, and the append-only analysis history.
package agent

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-agent/internal/db"
	"github.com/jonathan/hiring-agent/internal/ingestion"
	"github.com/jonathan/hiring-agent/internal/llm"
	"github.com/jonathan/hiring-agent/internal/scoring"
)

// Store is the persistence surface the agent needs. *db.DB satisfies it; tests
// substitute an in-memory fake.
type Store interface {
	GetCandidate(ctx context.Context, id int64) (*db.Candidate, error)
	CreateCandidate(ctx context.Context, c *db.Candidate) (*db.Candidate, error)
	ListCandidates(ctx context.Context, filters db.CandidateFilters) ([]db.Candidate, error)
	FindDuplicateCandidate(ctx context.Context, name, email string) (*db.Candidate, error)
	SaveProfile(ctx context.Context, p *db.CandidateProfile) (*db.CandidateProfile, error)
	GetJobDescription(ctx context.Context, id int64) (*db.JobDescription, error)
	InsertAnalysisRun(ctx context.Context, run *db.AnalysisRun) (*db.AnalysisRun, error)
	LogAction(ctx context.Context, candidateID int64, actionType, description string) error
}

// Agent wires the store, the LLM analyzer, and the scoring engine together.
type Agent struct {
	store     Store
	client    llm.Client
	analyzer  *llm.Analyzer
	engine    *scoring.Engine
	resumeDir string
}

// New creates an agent. resumeDir is where uploaded resume files are stored.
func New(store Store, client llm.Client, engine *scoring.Engine, resumeDir string) *Agent {
	return &Agent{
		store:     store,
		client:    client,
		analyzer:  llm.NewAnalyzer(client),
		engine:    engine,
		resumeDir: resumeDir,
	}
}

// NotFoundError reports a missing candidate or job description.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// DuplicateCandidateError reports that a candidate with the same email or
// name already exists.
type DuplicateCandidateError struct {
	Existing *db.Candidate
}

func (e *DuplicateCandidateError) Error() string {
	return fmt.Sprintf("candidate already exists with id %d", e.Existing.ID)
}

// AnalyzeCandidate runs a full analysis of one candidate against a job
// description and appends the result to the candidate's analysis history.
// When jobDescriptionID is nil the candidate's linked job description is used.
func (a *Agent) AnalyzeCandidate(ctx context.Context, candidateID int64, jobDescriptionID *int64) (*db.AnalysisRun, error) {
	cand, err := a.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}
	if cand == nil {
		return nil, &NotFoundError{Resource: "candidate", ID: candidateID}
	}

	jdID := cand.JobDescriptionID
	if jobDescriptionID != nil {
		jdID = jobDescriptionID
	}
	if jdID == nil {
		return nil, fmt.Errorf("candidate %d has no linked job description and none was given", candidateID)
	}

	jd, err := a.store.GetJobDescription(ctx, *jdID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job description: %w", err)
	}
	if jd == nil {
		return nil, &NotFoundError{Resource: "job description", ID: *jdID}
	}

	raw := a.analyzer.AnalyzeResume(ctx, cand.ResumeText, jobDescriptionText(jd))
	ensureMinimumQuestions(raw, jd)

	result := a.engine.Score(scoring.Input{
		SubScores: scoring.SubScores{
			SkillMatch:        raw.SkillMatchScore,
			Experience:        raw.ExperienceScore,
			DomainKnowledge:   raw.DomainScore,
			ProjectComplexity: raw.ProjectComplexityScore,
			SoftSkills:        raw.SoftSkillsScore,
		},
		RiskLevel:              raw.RiskLevel,
		Seniority:              raw.Seniority,
		Strengths:              raw.Strengths,
		Weaknesses:             raw.Weaknesses,
		Risks:                  raw.Risks,
		TechnicalQuestions:     raw.TechnicalQuestions,
		SystemDesignQuestions:  raw.SystemDesignQuestions,
		BehavioralQuestions:    raw.BehavioralQuestions,
		CustomQuestions:        raw.CustomQuestions,
		InterviewFocusAreas:    raw.InterviewFocusAreas,
		MalformedNarrativeSeen: raw.Malformed(),
	})

	run := &db.AnalysisRun{
		CandidateID:      cand.ID,
		JobDescriptionID: jd.ID,
		Skills:           raw.Skills,
		ExperienceYears:  raw.ExperienceYears,
		TechStack:        raw.TechStack,
		DomainKnowledge:  raw.DomainKnowledge,
		Result:           result,
		ModelUsed:        a.client.Model(),
	}

	stored, err := a.store.InsertAnalysisRun(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis run: %w", err)
	}

	if err := a.store.LogAction(ctx, cand.ID, db.ActionCandidateAnalyzed,
		fmt.Sprintf("Candidate analyzed with score %v/100", result.FinalScore)); err != nil {
		log.Printf("failed to log analysis action for candidate %d: %v", cand.ID, err)
	}

	return stored, nil
}

// ExtractJobInfo asks the LLM to pull structured job fields out of raw job
// description text.
func (a *Agent) ExtractJobInfo(ctx context.Context, jobDescriptionText string) (*llm.JobInfo, error) {
	return a.analyzer.ExtractJobInfo(ctx, jobDescriptionText)
}

// RegenerateInterviewQuestions produces a fresh question set for a candidate,
// optionally steered toward the given focus areas. Nothing is persisted; the
// stored analysis history keeps the questions from analysis time.
func (a *Agent) RegenerateInterviewQuestions(ctx context.Context, candidateID int64, focusAreas []string) (*llm.QuestionSet, error) {
	cand, err := a.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}
	if cand == nil {
		return nil, &NotFoundError{Resource: "candidate", ID: candidateID}
	}
	if cand.JobDescriptionID == nil {
		return nil, fmt.Errorf("candidate %d has no linked job description", candidateID)
	}

	jd, err := a.store.GetJobDescription(ctx, *cand.JobDescriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job description: %w", err)
	}
	if jd == nil {
		return nil, &NotFoundError{Resource: "job description", ID: *cand.JobDescriptionID}
	}

	return a.analyzer.GenerateInterviewQuestions(ctx, cand.ResumeText, jobDescriptionText(jd), focusAreas)
}

// ResumeUpload is the input for CreateCandidateFromResume. Name, Email, and
// Phone override the values extracted from the resume text when set.
type ResumeUpload struct {
	Filename         string
	Content          []byte
	Name             string
	Email            string
	Phone            string
	JobDescriptionID *int64
}

// CreateCandidateFromResume parses an uploaded resume file, extracts contact
// details, checks for duplicates, stores the file under the resume directory,
// and creates the candidate record with an initial profile.
func (a *Agent) CreateCandidateFromResume(ctx context.Context, up ResumeUpload) (*db.Candidate, error) {
	text, err := ingestion.ParseAndClean(up.Filename, up.Content)
	if err != nil {
		return nil, err
	}

	if up.JobDescriptionID != nil {
		jd, err := a.store.GetJobDescription(ctx, *up.JobDescriptionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load job description: %w", err)
		}
		if jd == nil {
			return nil, &NotFoundError{Resource: "job description", ID: *up.JobDescriptionID}
		}
	}

	name := strings.TrimSpace(up.Name)
	if name == "" {
		name = ingestion.ExtractName(text)
	}
	if name == "" {
		stem := strings.TrimSuffix(filepath.Base(up.Filename), filepath.Ext(up.Filename))
		name = strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(stem))
	}
	if name == "" {
		name = "Unknown Candidate"
	}

	email := strings.TrimSpace(up.Email)
	if email == "" {
		email = ingestion.ExtractEmail(text)
	}
	phone := strings.TrimSpace(up.Phone)
	if phone == "" {
		phone = ingestion.ExtractPhone(text)
	}

	existing, err := a.store.FindDuplicateCandidate(ctx, name, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate candidate: %w", err)
	}
	if existing != nil {
		return nil, &DuplicateCandidateError{Existing: existing}
	}

	storedPath, err := a.storeResumeFile(up.Filename, up.Content)
	if err != nil {
		return nil, err
	}

	cand, err := a.store.CreateCandidate(ctx, &db.Candidate{
		Name:             name,
		Email:            email,
		Phone:            phone,
		ResumeText:       text,
		ResumeFilePath:   storedPath,
		JobDescriptionID: up.JobDescriptionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}

	if _, err := a.store.SaveProfile(ctx, &db.CandidateProfile{
		CandidateID:   cand.ID,
		InvalidResume: !ingestion.IsLikelyResume(text),
	}); err != nil {
		log.Printf("failed to save profile for candidate %d: %v", cand.ID, err)
	}

	if err := a.store.LogAction(ctx, cand.ID, db.ActionCandidateAdded,
		fmt.Sprintf("Candidate created from resume file %s", filepath.Base(up.Filename))); err != nil {
		log.Printf("failed to log creation action for candidate %d: %v", cand.ID, err)
	}

	return cand, nil
}

// storeResumeFile writes the uploaded file under the resume directory. The
// stored name keeps a sanitized stem of the original for browsability plus a
// random suffix so uploads can never collide or traverse paths.
func (a *Agent) storeResumeFile(filename string, content []byte) (string, error) {
	if a.resumeDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(a.resumeDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create resume directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	stem := ingestion.SafeFilename(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	stored := filepath.Join(a.resumeDir, stem+"_"+uuid.NewString()+ext)
	if err := os.WriteFile(stored, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to store resume file: %w", err)
	}
	return stored, nil
}

// jobDescriptionText renders a job description into the flat text block the
// analysis prompt expects.
func jobDescriptionText(jd *db.JobDescription) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", jd.Title)
	if jd.Domain != "" {
		fmt.Fprintf(&b, "Domain: %s\n", jd.Domain)
	}
	if jd.MinExperienceYears > 0 {
		fmt.Fprintf(&b, "Minimum experience: %d years\n", jd.MinExperienceYears)
	}
	if len(jd.RequiredSkills) > 0 {
		fmt.Fprintf(&b, "Required skills: %s\n", strings.Join(jd.RequiredSkills, ", "))
	}
	b.WriteString("\n")
	b.WriteString(jd.Description)
	return b.String()
}
