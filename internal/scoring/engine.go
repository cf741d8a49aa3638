// Package scoring turns a raw per-dimension analysis payload into a ranked,
// classified, report-ready result.
package scoring

import (
	"math"

	"github.com/jonathan/hiring-agent/internal/config"
)

// Scoring dimension names. These match the keys the LLM collaborator is
// instructed to return.
const (
	DimSkillMatch        = "skill_match"
	DimExperience        = "experience"
	DimDomainKnowledge   = "domain_knowledge"
	DimProjectComplexity = "project_complexity"
	DimSoftSkills        = "soft_skills"
)

// Hiring decision values.
const (
	DecisionStrongHire = "strong_hire"
	DecisionBorderline = "borderline"
	DecisionReject     = "reject"
)

// Risk level values, supplied by the upstream analysis and copied verbatim.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// SubScores holds the five dimension ratings. A nil entry means the upstream
// analysis did not supply that dimension.
type SubScores struct {
	SkillMatch        *float64
	Experience        *float64
	DomainKnowledge   *float64
	ProjectComplexity *float64
	SoftSkills        *float64
}

// Input is everything the engine consumes for one candidate/job pair.
// Narrative fields pass through untouched apart from nil normalization.
type Input struct {
	SubScores SubScores

	RiskLevel string
	Seniority string

	Strengths  []string
	Weaknesses []string
	Risks      []string

	TechnicalQuestions     []string
	SystemDesignQuestions  []string
	BehavioralQuestions    []string
	CustomQuestions        []string
	InterviewFocusAreas    []string
	MalformedNarrativeSeen bool // set by the payload decoder when a list field arrived non-list-shaped
}

// Result is the computed analysis outcome. Persistence adds candidate/job ids
// and a timestamp around it.
type Result struct {
	SkillMatchScore        float64 `json:"skill_match_score"`
	ExperienceScore        float64 `json:"experience_score"`
	DomainScore            float64 `json:"domain_score"`
	ProjectComplexityScore float64 `json:"project_complexity_score"`
	SoftSkillsScore        float64 `json:"soft_skills_score"`

	FinalScore     float64 `json:"final_score"`
	Decision       string  `json:"decision"`
	Recommendation string  `json:"recommendation"`

	RiskLevel string `json:"risk_level"`
	Seniority string `json:"seniority"`

	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Risks      []string `json:"risks"`

	TechnicalQuestions    []string `json:"technical_questions"`
	SystemDesignQuestions []string `json:"system_design_questions"`
	BehavioralQuestions   []string `json:"behavioral_questions"`
	CustomQuestions       []string `json:"custom_questions"`
	InterviewFocusAreas   []string `json:"interview_focus_areas"`

	// Partial is the data-quality flag: true when the engine had to
	// substitute for missing or malformed input rather than score what the
	// upstream analysis actually said.
	Partial           bool     `json:"partial"`
	MissingDimensions []string `json:"missing_dimensions,omitempty"`
}

// Engine computes final scores and hiring decisions. It is stateless apart
// from the immutable configured weights and thresholds, and safe for
// concurrent use.
type Engine struct {
	weights    config.Weights
	thresholds config.Thresholds
}

// NewEngine builds an engine from validated configuration. Callers are
// expected to have run config validation at startup; the engine does not
// re-check per invocation.
func NewEngine(weights config.Weights, thresholds config.Thresholds) *Engine {
	return &Engine{weights: weights, thresholds: thresholds}
}

// Score computes the weighted final score and decision for one input.
// Recoverable input problems never fail the call: missing dimensions score 0,
// out-of-range values are clamped, and the result is flagged partial where
// substitution happened.
func (e *Engine) Score(in Input) Result {
	res := Result{
		RiskLevel: in.RiskLevel,
		Seniority: in.Seniority,

		Strengths:  orEmpty(in.Strengths),
		Weaknesses: orEmpty(in.Weaknesses),
		Risks:      orEmpty(in.Risks),

		TechnicalQuestions:    orEmpty(in.TechnicalQuestions),
		SystemDesignQuestions: orEmpty(in.SystemDesignQuestions),
		BehavioralQuestions:   orEmpty(in.BehavioralQuestions),
		CustomQuestions:       orEmpty(in.CustomQuestions),
		InterviewFocusAreas:   orEmpty(in.InterviewFocusAreas),

		Partial: in.MalformedNarrativeSeen,
	}

	res.SkillMatchScore = e.takeScore(in.SubScores.SkillMatch, DimSkillMatch, &res)
	res.ExperienceScore = e.takeScore(in.SubScores.Experience, DimExperience, &res)
	res.DomainScore = e.takeScore(in.SubScores.DomainKnowledge, DimDomainKnowledge, &res)
	res.ProjectComplexityScore = e.takeScore(in.SubScores.ProjectComplexity, DimProjectComplexity, &res)
	res.SoftSkillsScore = e.takeScore(in.SubScores.SoftSkills, DimSoftSkills, &res)

	res.FinalScore = round2(
		res.SkillMatchScore*e.weights.SkillMatch/100 +
			res.ExperienceScore*e.weights.Experience/100 +
			res.DomainScore*e.weights.DomainKnowledge/100 +
			res.ProjectComplexityScore*e.weights.ProjectComplexity/100 +
			res.SoftSkillsScore*e.weights.SoftSkills/100,
	)
	res.Decision = e.Classify(res.FinalScore)
	res.Recommendation = buildRecommendation(res)

	return res
}

// Classify maps a final score to a decision using the configured thresholds.
func (e *Engine) Classify(finalScore float64) string {
	switch {
	case finalScore >= e.thresholds.StrongHire:
		return DecisionStrongHire
	case finalScore >= e.thresholds.Borderline:
		return DecisionBorderline
	default:
		return DecisionReject
	}
}

// takeScore resolves one dimension: missing degrades to 0 and flags the
// result partial, out-of-range values clamp silently.
func (e *Engine) takeScore(value *float64, dim string, res *Result) float64 {
	if value == nil {
		res.Partial = true
		res.MissingDimensions = append(res.MissingDimensions, dim)
		return 0
	}
	return Clamp(*value)
}

// Clamp bounds a sub-score to [0,100]. LLM over/undershoot is treated as
// data noise, not an error.
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
