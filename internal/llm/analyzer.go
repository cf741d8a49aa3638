package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

const analyzeSystemPrompt = `You are an AI hiring agent for an IT company. Your task is to analyze resumes against job descriptions and provide structured, objective assessments.

You must:
1. Extract skills, experience, domain knowledge, strengths, and weaknesses from the resume
2. Compare with the job description
3. Score the candidate on multiple dimensions (0-100)
4. Identify potential risks
5. Suggest interview questions
6. Provide a hiring recommendation

Be objective and fair. Focus on evidence from the resume rather than assumptions.`

const analyzePromptFormat = `Analyze the following resume against the job description.

RESUME:
%s

JOB DESCRIPTION:
%s

Provide your analysis in the following JSON format:
{
    "skills": ["skill1", "skill2", ...],
    "experience_years": <number>,
    "tech_stack": ["tech1", "tech2", ...],
    "domain_knowledge": ["domain1", "domain2", ...],
    "seniority": "<junior|mid-level|senior|lead|principal>",
    "strengths": ["strength1", "strength2", ...],
    "weaknesses": ["weakness1", "weakness2", ...],
    "skill_match_score": <0-100>,
    "experience_score": <0-100>,
    "domain_score": <0-100>,
    "project_complexity_score": <0-100>,
    "soft_skills_score": <0-100>,
    "risks": ["risk1", "risk2", ...],
    "risk_level": "<low|medium|high>",
    "technical_questions": ["question1", "question2", ...],
    "system_design_questions": ["question1", "question2", ...],
    "behavioral_questions": ["question1", "question2", ...],
    "custom_questions": ["question1", "question2", ...],
    "interview_focus_areas": ["area1", "area2", ...],
    "recommendation": "<detailed recommendation text>"
}

Ensure all scores are between 0 and 100. Be specific and evidence-based in your analysis.`

const extractJobSystemPrompt = `You are an AI assistant that extracts structured information from job descriptions.`

const extractJobPromptFormat = `Extract the following information from this job description:

JOB DESCRIPTION:
%s

Provide your analysis in the following JSON format:
{
    "title": "<job title>",
    "required_skills": ["skill1", "skill2", ...],
    "min_experience_years": <number>,
    "domain": "<primary domain if applicable>",
    "preferred_skills": ["skill1", "skill2", ...],
    "responsibilities": ["responsibility1", "responsibility2", ...],
    "qualifications": ["qualification1", "qualification2", ...]
}

If any field is not clearly specified, use null or an empty list.`

const questionsSystemPrompt = `You are an AI hiring assistant that generates interview questions.`

const questionsPromptFormat = `Generate interview questions for a candidate based on their resume and the job description.

RESUME:
%s

JOB DESCRIPTION:
%s

FOCUS AREAS:
%s

Provide your response in the following JSON format:
{
    "technical_questions": ["question1", "question2", ...],
    "system_design_questions": ["question1", "question2", ...],
    "behavioral_questions": ["question1", "question2", ...],
    "custom_questions": ["question1", "question2", ...]
}

Generate 3-5 questions per category. Make questions specific to the candidate's background and the role requirements.`

// JobInfo is structured information extracted from a job description.
type JobInfo struct {
	Title              string   `json:"title"`
	RequiredSkills     []string `json:"required_skills"`
	MinExperienceYears float64  `json:"min_experience_years"`
	Domain             string   `json:"domain"`
	PreferredSkills    []string `json:"preferred_skills"`
	Responsibilities   []string `json:"responsibilities"`
	Qualifications     []string `json:"qualifications"`
}

// QuestionSet groups generated interview questions by category.
type QuestionSet struct {
	TechnicalQuestions    []string `json:"technical_questions"`
	SystemDesignQuestions []string `json:"system_design_questions"`
	BehavioralQuestions   []string `json:"behavioral_questions"`
	CustomQuestions       []string `json:"custom_questions"`
}

// Analyzer runs the structured analysis calls against an LLM client.
type Analyzer struct {
	client Client
}

// NewAnalyzer creates an analyzer backed by the given client.
func NewAnalyzer(client Client) *Analyzer {
	return &Analyzer{client: client}
}

// AnalyzeResume analyzes a resume against a job description. An LLM failure
// or unparseable response degrades to a zeroed payload so the analysis flow
// records a result instead of crashing; the returned payload's recommendation
// carries the failure reason.
func (a *Analyzer) AnalyzeResume(ctx context.Context, resumeText, jdText string) *RawAnalysis {
	userPrompt := fmt.Sprintf(analyzePromptFormat, resumeText, jdText)

	response, err := a.client.GenerateJSON(ctx, analyzeSystemPrompt, userPrompt)
	if err != nil {
		log.Printf("resume analysis call failed, using fallback result: %v", err)
		return fallbackAnalysis(err)
	}

	raw, err := DecodeRawAnalysis(response)
	if err != nil {
		log.Printf("resume analysis response unusable, using fallback result: %v", err)
		return fallbackAnalysis(err)
	}
	return raw
}

// fallbackAnalysis is the zeroed payload returned when the LLM call fails.
// Explicit zero sub-scores (not missing) push the candidate to reject rather
// than leaving the analysis half-recorded.
func fallbackAnalysis(cause error) *RawAnalysis {
	zero := 0.0
	return &RawAnalysis{
		RiskLevel:              "low",
		SkillMatchScore:        &zero,
		ExperienceScore:        &zero,
		DomainScore:            &zero,
		ProjectComplexityScore: &zero,
		SoftSkillsScore:        &zero,
		Recommendation:         fmt.Sprintf("LLM analysis failed: %v", cause),
		SchemaViolations:       []string{fmt.Sprintf("(root): analysis unavailable: %v", cause)},
	}
}

// ExtractJobInfo pulls structured fields out of raw job description text.
func (a *Analyzer) ExtractJobInfo(ctx context.Context, jdText string) (*JobInfo, error) {
	userPrompt := fmt.Sprintf(extractJobPromptFormat, jdText)

	response, err := a.client.GenerateJSON(ctx, extractJobSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to extract job info: %w", err)
	}

	var info JobInfo
	if err := json.Unmarshal([]byte(ExtractJSONObject(response)), &info); err != nil {
		return nil, fmt.Errorf("failed to parse job info response: %w", err)
	}
	return &info, nil
}

// GenerateInterviewQuestions produces categorized interview questions for a
// candidate, optionally steered toward specific focus areas.
func (a *Analyzer) GenerateInterviewQuestions(ctx context.Context, resumeText, jdText string, focusAreas []string) (*QuestionSet, error) {
	focusText := "No specific focus areas provided."
	if len(focusAreas) > 0 {
		var sb strings.Builder
		for i, area := range focusAreas {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("- ")
			sb.WriteString(area)
		}
		focusText = sb.String()
	}

	userPrompt := fmt.Sprintf(questionsPromptFormat, resumeText, jdText, focusText)

	response, err := a.client.GenerateJSON(ctx, questionsSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate interview questions: %w", err)
	}

	var questions QuestionSet
	if err := json.Unmarshal([]byte(ExtractJSONObject(response)), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse interview questions response: %w", err)
	}
	return &questions, nil
}
