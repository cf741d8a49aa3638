package llm

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// rawAnalysisSchema describes the shape the analysis prompt asks for. No
// field is required: a partial answer degrades the score downstream, it does
// not abort the pipeline. Type mismatches on present fields are what we want
// to catch here.
const rawAnalysisSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "skills":            {"type": ["array", "null"], "items": {"type": "string"}},
    "experience_years":  {"type": ["number", "null"]},
    "tech_stack":        {"type": ["array", "null"], "items": {"type": "string"}},
    "domain_knowledge":  {"type": ["array", "null"], "items": {"type": "string"}},
    "seniority":         {"type": ["string", "null"]},
    "strengths":         {"type": ["array", "null"], "items": {"type": "string"}},
    "weaknesses":        {"type": ["array", "null"], "items": {"type": "string"}},
    "skill_match_score":        {"type": ["number", "null"]},
    "experience_score":         {"type": ["number", "null"]},
    "domain_score":             {"type": ["number", "null"]},
    "project_complexity_score": {"type": ["number", "null"]},
    "soft_skills_score":        {"type": ["number", "null"]},
    "risks":      {"type": ["array", "null"], "items": {"type": "string"}},
    "risk_level": {"type": ["string", "null"], "enum": ["low", "medium", "high", null]},
    "technical_questions":     {"type": ["array", "null"], "items": {"type": "string"}},
    "system_design_questions": {"type": ["array", "null"], "items": {"type": "string"}},
    "behavioral_questions":    {"type": ["array", "null"], "items": {"type": "string"}},
    "custom_questions":        {"type": ["array", "null"], "items": {"type": "string"}},
    "interview_focus_areas":   {"type": ["array", "null"], "items": {"type": "string"}},
    "recommendation": {"type": ["string", "null"]}
  }
}`

// validateShape checks a decoded payload against the analysis schema and
// returns one "field: problem" string per violation. A schema that fails to
// load is a programming error, reported as a single violation rather than a
// panic.
func validateShape(jsonText string) []string {
	schemaLoader := gojsonschema.NewStringLoader(rawAnalysisSchema)
	documentLoader := gojsonschema.NewStringLoader(jsonText)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return []string{fmt.Sprintf("(root): schema validation failed during load: %v", err)}
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		violations = append(violations, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return violations
}
