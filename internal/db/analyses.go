package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const analysisRunColumns = `id, candidate_id, job_description_id,
	skills, experience_years, tech_stack, domain_knowledge,
	COALESCE(seniority, ''), strengths, weaknesses,
	skill_match_score, experience_score, domain_score,
	project_complexity_score, soft_skills_score, final_score,
	COALESCE(decision, ''), COALESCE(recommendation, ''),
	risks, COALESCE(risk_level, ''),
	technical_questions, system_design_questions, behavioral_questions,
	custom_questions, interview_focus_areas,
	partial, missing_dimensions, analysis_timestamp, COALESCE(model_used, '')`

// InsertAnalysisRun appends an immutable analysis record and returns it with
// the generated id and timestamp. Existing runs are never modified.
func (db *DB) InsertAnalysisRun(ctx context.Context, run *AnalysisRun) (*AnalysisRun, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO analysis_runs
		   (candidate_id, job_description_id,
		    skills, experience_years, tech_stack, domain_knowledge,
		    seniority, strengths, weaknesses,
		    skill_match_score, experience_score, domain_score,
		    project_complexity_score, soft_skills_score, final_score,
		    decision, recommendation, risks, risk_level,
		    technical_questions, system_design_questions, behavioral_questions,
		    custom_questions, interview_focus_areas,
		    partial, missing_dimensions, model_used)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9,
		         $10, $11, $12, $13, $14, $15,
		         NULLIF($16, ''), NULLIF($17, ''), $18, NULLIF($19, ''),
		         $20, $21, $22, $23, $24, $25, $26, NULLIF($27, ''))
		 RETURNING id, analysis_timestamp`,
		run.CandidateID, run.JobDescriptionID,
		toJSONList(run.Skills), run.ExperienceYears, toJSONList(run.TechStack), toJSONList(run.DomainKnowledge),
		run.Seniority, toJSONList(run.Strengths), toJSONList(run.Weaknesses),
		run.SkillMatchScore, run.ExperienceScore, run.DomainScore,
		run.ProjectComplexityScore, run.SoftSkillsScore, run.FinalScore,
		run.Decision, run.Recommendation, toJSONList(run.Risks), run.RiskLevel,
		toJSONList(run.TechnicalQuestions), toJSONList(run.SystemDesignQuestions), toJSONList(run.BehavioralQuestions),
		toJSONList(run.CustomQuestions), toJSONList(run.InterviewFocusAreas),
		run.Partial, toJSONList(run.MissingDimensions), run.ModelUsed,
	)

	inserted := *run
	if err := row.Scan(&inserted.ID, &inserted.AnalysisTimestamp); err != nil {
		return nil, fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return &inserted, nil
}

// ListAnalysisRuns retrieves a candidate's analysis history, newest first.
func (db *DB) ListAnalysisRuns(ctx context.Context, candidateID int64, limit int) ([]AnalysisRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+analysisRunColumns+`
		 FROM analysis_runs WHERE candidate_id = $1
		 ORDER BY id DESC LIMIT $2`,
		candidateID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	defer rows.Close()

	return collectAnalysisRuns(rows)
}

// LatestAnalysisRun retrieves the most recent analysis of a candidate against
// a job description. Returns (nil, nil) when the pair was never analyzed.
func (db *DB) LatestAnalysisRun(ctx context.Context, candidateID, jobDescriptionID int64) (*AnalysisRun, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+analysisRunColumns+`
		 FROM analysis_runs
		 WHERE candidate_id = $1 AND job_description_id = $2
		 ORDER BY id DESC LIMIT 1`,
		candidateID, jobDescriptionID,
	)

	run, err := scanAnalysisRun(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest analysis run: %w", err)
	}
	return run, nil
}

// LatestAnalysisForCandidate retrieves a candidate's most recent analysis
// against any job description. Returns (nil, nil) when never analyzed.
func (db *DB) LatestAnalysisForCandidate(ctx context.Context, candidateID int64) (*AnalysisRun, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+analysisRunColumns+`
		 FROM analysis_runs WHERE candidate_id = $1
		 ORDER BY id DESC LIMIT 1`,
		candidateID,
	)

	run, err := scanAnalysisRun(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest analysis run: %w", err)
	}
	return run, nil
}

// LatestAnalysesForJob retrieves the most recent analysis per candidate for a
// job description, one row per candidate. Ordering is left to the reporting
// layer.
func (db *DB) LatestAnalysesForJob(ctx context.Context, jobDescriptionID int64) ([]AnalysisRun, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT ON (candidate_id) `+analysisRunColumns+`
		 FROM analysis_runs
		 WHERE job_description_id = $1
		 ORDER BY candidate_id, id DESC`,
		jobDescriptionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest analyses: %w", err)
	}
	defer rows.Close()

	return collectAnalysisRuns(rows)
}

func collectAnalysisRuns(rows pgx.Rows) ([]AnalysisRun, error) {
	var runs []AnalysisRun
	for rows.Next() {
		run, err := scanAnalysisRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func scanAnalysisRun(row pgx.Row) (*AnalysisRun, error) {
	var run AnalysisRun
	var skills, techStack, domainKnowledge, strengths, weaknesses []byte
	var risks, technical, systemDesign, behavioral, custom, focusAreas, missing []byte

	err := row.Scan(&run.ID, &run.CandidateID, &run.JobDescriptionID,
		&skills, &run.ExperienceYears, &techStack, &domainKnowledge,
		&run.Seniority, &strengths, &weaknesses,
		&run.SkillMatchScore, &run.ExperienceScore, &run.DomainScore,
		&run.ProjectComplexityScore, &run.SoftSkillsScore, &run.FinalScore,
		&run.Decision, &run.Recommendation,
		&risks, &run.RiskLevel,
		&technical, &systemDesign, &behavioral,
		&custom, &focusAreas,
		&run.Partial, &missing, &run.AnalysisTimestamp, &run.ModelUsed)
	if err != nil {
		return nil, err
	}

	run.Skills = fromJSONList(skills)
	run.TechStack = fromJSONList(techStack)
	run.DomainKnowledge = fromJSONList(domainKnowledge)
	run.Strengths = fromJSONList(strengths)
	run.Weaknesses = fromJSONList(weaknesses)
	run.Risks = fromJSONList(risks)
	run.TechnicalQuestions = fromJSONList(technical)
	run.SystemDesignQuestions = fromJSONList(systemDesign)
	run.BehavioralQuestions = fromJSONList(behavioral)
	run.CustomQuestions = fromJSONList(custom)
	run.InterviewFocusAreas = fromJSONList(focusAreas)
	run.MissingDimensions = fromJSONList(missing)
	return &run, nil
}
