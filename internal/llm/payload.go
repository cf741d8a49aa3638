package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// RawAnalysis is the analysis payload as the LLM produced it, after lenient
// decoding. Sub-scores are pointers so a missing dimension is distinguishable
// from an explicit zero; the scoring engine owns clamping and weighting.
type RawAnalysis struct {
	Skills          []string
	ExperienceYears float64
	TechStack       []string
	DomainKnowledge []string
	Seniority       string

	Strengths  []string
	Weaknesses []string

	SkillMatchScore        *float64
	ExperienceScore        *float64
	DomainScore            *float64
	ProjectComplexityScore *float64
	SoftSkillsScore        *float64

	Risks     []string
	RiskLevel string

	TechnicalQuestions    []string
	SystemDesignQuestions []string
	BehavioralQuestions   []string
	CustomQuestions       []string
	InterviewFocusAreas   []string

	Recommendation string

	// SchemaViolations lists the shape problems found in the payload. The
	// offending fields are coerced or dropped rather than failing the call;
	// a non-empty list marks the downstream result partial.
	SchemaViolations []string
}

// Malformed reports whether any field arrived in a non-conforming shape.
func (r *RawAnalysis) Malformed() bool {
	return len(r.SchemaViolations) > 0
}

// DecodeRawAnalysis parses an LLM response into a RawAnalysis. Non-JSON noise
// around the object and trailing commas are tolerated; type mismatches inside
// the object are coerced where a sensible reading exists and recorded as
// schema violations otherwise. An error is returned only when no JSON object
// can be decoded at all.
func DecodeRawAnalysis(responseText string) (*RawAnalysis, error) {
	jsonText := ExtractJSONObject(responseText)

	var fields map[string]any
	if err := json.Unmarshal([]byte(jsonText), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response as JSON: %w", err)
	}

	raw := &RawAnalysis{SchemaViolations: validateShape(jsonText)}

	raw.Skills = listField(fields, "skills")
	raw.ExperienceYears = numberFieldOrZero(fields, "experience_years")
	raw.TechStack = listField(fields, "tech_stack")
	raw.DomainKnowledge = listField(fields, "domain_knowledge")
	raw.Seniority = stringField(fields, "seniority")

	raw.Strengths = listField(fields, "strengths")
	raw.Weaknesses = listField(fields, "weaknesses")

	raw.SkillMatchScore = numberField(fields, "skill_match_score")
	raw.ExperienceScore = numberField(fields, "experience_score")
	raw.DomainScore = numberField(fields, "domain_score")
	raw.ProjectComplexityScore = numberField(fields, "project_complexity_score")
	raw.SoftSkillsScore = numberField(fields, "soft_skills_score")

	raw.Risks = listField(fields, "risks")
	raw.RiskLevel = stringField(fields, "risk_level")

	raw.TechnicalQuestions = listField(fields, "technical_questions")
	raw.SystemDesignQuestions = listField(fields, "system_design_questions")
	raw.BehavioralQuestions = listField(fields, "behavioral_questions")
	raw.CustomQuestions = listField(fields, "custom_questions")
	raw.InterviewFocusAreas = listField(fields, "interview_focus_areas")

	raw.Recommendation = stringField(fields, "recommendation")

	return raw, nil
}

// listField coerces a field into a string slice: arrays keep their string
// elements and stringify scalars, a bare string is wrapped in a single-item
// slice, anything else reads as absent.
func listField(fields map[string]any, key string) []string {
	value, ok := fields[key]
	if !ok || value == nil {
		return nil
	}

	switch v := value.(type) {
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			switch it := item.(type) {
			case string:
				items = append(items, it)
			case float64:
				items = append(items, strconv.FormatFloat(it, 'f', -1, 64))
			}
		}
		return items
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// numberField reads an optional numeric field. Numeric strings are accepted;
// a missing or unreadable field is nil.
func numberField(fields map[string]any, key string) *float64 {
	value, ok := fields[key]
	if !ok || value == nil {
		return nil
	}

	switch v := value.(type) {
	case float64:
		return &v
	case string:
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return &parsed
		}
		return nil
	default:
		return nil
	}
}

func numberFieldOrZero(fields map[string]any, key string) float64 {
	if v := numberField(fields, key); v != nil {
		return *v
	}
	return 0
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
