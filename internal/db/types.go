package db

import (
	"time"

	"github.com/jonathan/hiring-agent/internal/scoring"
)

// JobDescription represents a stored job description record.
type JobDescription struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	RequiredSkills     []string  `json:"required_skills"`
	MinExperienceYears int       `json:"min_experience_years"`
	Domain             string    `json:"domain,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Candidate represents a candidate record with raw resume text.
type Candidate struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	ResumeText       string    `json:"resume_text"`
	ResumeFilePath   string    `json:"resume_file_path,omitempty"`
	JobDescriptionID *int64    `json:"job_description_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// CandidateProfile holds extended profile details extracted from the resume.
type CandidateProfile struct {
	ID                   int64     `json:"id"`
	CandidateID          int64     `json:"candidate_id"`
	// CurrentRole is stored in the role_title column; CURRENT_ROLE is a
	// reserved word in PostgreSQL.
	CurrentRole          string    `json:"current_role,omitempty"`
	Headline             string    `json:"headline,omitempty"`
	TotalExperienceYears float64   `json:"total_experience_years"`
	PrimarySkills        []string  `json:"primary_skills"`
	SecondarySkills      []string  `json:"secondary_skills"`
	Education            string    `json:"education,omitempty"`
	Certifications       []string  `json:"certifications"`
	Summary              string    `json:"summary,omitempty"`
	Location             string    `json:"location,omitempty"`
	InvalidResume        bool      `json:"invalid_resume"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// AnalysisRun is one immutable analysis record for a candidate against a job
// description. Rows are append-only; re-analyzing a candidate adds a new run.
type AnalysisRun struct {
	ID               int64 `json:"id"`
	CandidateID      int64 `json:"candidate_id"`
	JobDescriptionID int64 `json:"job_description_id"`

	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experience_years"`
	TechStack       []string `json:"tech_stack"`
	DomainKnowledge []string `json:"domain_knowledge"`

	scoring.Result

	AnalysisTimestamp time.Time `json:"analysis_timestamp"`
	ModelUsed         string    `json:"model_used,omitempty"`
}

// HiringAction is one entry in the per-candidate audit log.
type HiringAction struct {
	ID          int64     `json:"id"`
	CandidateID int64     `json:"candidate_id"`
	ActionType  string    `json:"action_type"`
	Description string    `json:"description,omitempty"`
	PerformedAt time.Time `json:"performed_at"`
	PerformedBy string    `json:"performed_by"`
}

// Hiring action types.
const (
	ActionCandidateAdded    = "candidate_added"
	ActionCandidateAnalyzed = "candidate_analyzed"
	ActionCandidateUpdated  = "candidate_updated"
	ActionCandidateDeleted  = "candidate_deleted"
)
