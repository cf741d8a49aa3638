// Package report derives hiring reports, candidate rankings, and interview
// strategies from stored analysis results. Everything here is a pure function
// over the most recent analysis per candidate; persistence hands us the rows.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/jonathan/hiring-agent/internal/scoring"
)

// CandidateAnalysis pairs a candidate with their most recent analysis for one
// job description.
type CandidateAnalysis struct {
	CandidateID    int64          `json:"candidate_id"`
	CandidateName  string         `json:"candidate_name"`
	CandidateEmail string         `json:"candidate_email,omitempty"`
	AnalyzedAt     time.Time      `json:"analyzed_at"`
	Analysis       scoring.Result `json:"analysis"`
}

// RankedCandidate is a CandidateAnalysis with its 1-based position.
type RankedCandidate struct {
	Rank int `json:"rank"`
	CandidateAnalysis
}

// Summary holds the per-job aggregate statistics.
type Summary struct {
	TotalCandidates int     `json:"total_candidates"`
	StrongHires     int     `json:"strong_hires"`
	Borderline      int     `json:"borderline"`
	Rejects         int     `json:"rejects"`
	AverageScore    float64 `json:"average_score"`
}

// HiringReport is the full report payload for one job description.
type HiringReport struct {
	JobDescriptionID int64               `json:"job_description_id"`
	JobTitle         string              `json:"job_title"`
	Summary          Summary             `json:"summary"`
	RankedCandidates []RankedCandidate   `json:"ranked_candidates"`
	StrongHires      []CandidateAnalysis `json:"strong_hires"`
	Borderline       []CandidateAnalysis `json:"borderline"`
	Rejects          []CandidateAnalysis `json:"rejects"`
	GeneratedAt      time.Time           `json:"generated_at"`
}

// InterviewStrategy shapes one candidate's question lists and risk context
// for the interviewer-facing view.
type InterviewStrategy struct {
	TechnicalQuestions    []string `json:"technical_questions"`
	SystemDesignQuestions []string `json:"system_design_questions"`
	BehavioralQuestions   []string `json:"behavioral_questions"`
	CustomQuestions       []string `json:"custom_questions"`
	FocusAreas            []string `json:"focus_areas"`
	RiskLevel             string   `json:"risk_level"`
	RisksToExplore        []string `json:"risks_to_explore"`
}

// Rank sorts entries descending by final score; ties go to the lower
// candidate id so ordering is deterministic across runs. The input slice is
// not modified.
func Rank(entries []CandidateAnalysis) []RankedCandidate {
	sorted := make([]CandidateAnalysis, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Analysis.FinalScore != sorted[j].Analysis.FinalScore {
			return sorted[i].Analysis.FinalScore > sorted[j].Analysis.FinalScore
		}
		return sorted[i].CandidateID < sorted[j].CandidateID
	})

	ranked := make([]RankedCandidate, len(sorted))
	for i, entry := range sorted {
		ranked[i] = RankedCandidate{Rank: i + 1, CandidateAnalysis: entry}
	}
	return ranked
}

// Build assembles the hiring report for a job description from the latest
// analysis per candidate.
func Build(jobID int64, jobTitle string, entries []CandidateAnalysis, now time.Time) HiringReport {
	rep := HiringReport{
		JobDescriptionID: jobID,
		JobTitle:         jobTitle,
		RankedCandidates: Rank(entries),
		StrongHires:      []CandidateAnalysis{},
		Borderline:       []CandidateAnalysis{},
		Rejects:          []CandidateAnalysis{},
		GeneratedAt:      now,
	}

	var total float64
	for _, entry := range entries {
		total += entry.Analysis.FinalScore
		switch entry.Analysis.Decision {
		case scoring.DecisionStrongHire:
			rep.StrongHires = append(rep.StrongHires, entry)
		case scoring.DecisionBorderline:
			rep.Borderline = append(rep.Borderline, entry)
		default:
			rep.Rejects = append(rep.Rejects, entry)
		}
	}

	rep.Summary = Summary{
		TotalCandidates: len(entries),
		StrongHires:     len(rep.StrongHires),
		Borderline:      len(rep.Borderline),
		Rejects:         len(rep.Rejects),
	}
	if len(entries) > 0 {
		rep.Summary.AverageScore = math.Round(total/float64(len(entries))*100) / 100
	}
	return rep
}

// Strategy extracts the interview strategy view from a scored analysis.
func Strategy(res scoring.Result) InterviewStrategy {
	return InterviewStrategy{
		TechnicalQuestions:    res.TechnicalQuestions,
		SystemDesignQuestions: res.SystemDesignQuestions,
		BehavioralQuestions:   res.BehavioralQuestions,
		CustomQuestions:       res.CustomQuestions,
		FocusAreas:            res.InterviewFocusAreas,
		RiskLevel:             res.RiskLevel,
		RisksToExplore:        res.Risks,
	}
}
