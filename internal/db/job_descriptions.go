package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreateJobDescription inserts a job description and returns the stored row.
func (db *DB) CreateJobDescription(ctx context.Context, jd *JobDescription) (*JobDescription, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO job_descriptions (title, description, required_skills, min_experience_years, domain)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		 RETURNING id, created_at, updated_at`,
		jd.Title, jd.Description, toJSONList(jd.RequiredSkills), jd.MinExperienceYears, jd.Domain,
	)

	created := *jd
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create job description: %w", err)
	}
	if created.RequiredSkills == nil {
		created.RequiredSkills = []string{}
	}
	return &created, nil
}

// GetJobDescription retrieves a job description by ID. Returns (nil, nil)
// when no row exists.
func (db *DB) GetJobDescription(ctx context.Context, id int64) (*JobDescription, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, title, description, required_skills, min_experience_years,
		        COALESCE(domain, ''), created_at, updated_at
		 FROM job_descriptions WHERE id = $1`,
		id,
	)

	jd, err := scanJobDescription(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job description: %w", err)
	}
	return jd, nil
}

// ListJobDescriptions retrieves job descriptions, newest first.
func (db *DB) ListJobDescriptions(ctx context.Context, limit int) ([]JobDescription, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, title, description, required_skills, min_experience_years,
		        COALESCE(domain, ''), created_at, updated_at
		 FROM job_descriptions ORDER BY id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job descriptions: %w", err)
	}
	defer rows.Close()

	var jds []JobDescription
	for rows.Next() {
		jd, err := scanJobDescription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job description: %w", err)
		}
		jds = append(jds, *jd)
	}
	return jds, rows.Err()
}

// UpdateJobDescription updates a job description in place. Returns (nil, nil)
// when no row exists.
func (db *DB) UpdateJobDescription(ctx context.Context, jd *JobDescription) (*JobDescription, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE job_descriptions
		 SET title = $2, description = $3, required_skills = $4,
		     min_experience_years = $5, domain = NULLIF($6, ''), updated_at = NOW()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		jd.ID, jd.Title, jd.Description, toJSONList(jd.RequiredSkills), jd.MinExperienceYears, jd.Domain,
	)

	updated := *jd
	if err := row.Scan(&updated.CreatedAt, &updated.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update job description: %w", err)
	}
	if updated.RequiredSkills == nil {
		updated.RequiredSkills = []string{}
	}
	return &updated, nil
}

// DeleteJobDescription removes a job description and its dependent analysis
// runs via cascade. Returns false when no row existed.
func (db *DB) DeleteJobDescription(ctx context.Context, id int64) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM job_descriptions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job description: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func scanJobDescription(row pgx.Row) (*JobDescription, error) {
	var jd JobDescription
	var skills []byte
	if err := row.Scan(&jd.ID, &jd.Title, &jd.Description, &skills,
		&jd.MinExperienceYears, &jd.Domain, &jd.CreatedAt, &jd.UpdatedAt); err != nil {
		return nil, err
	}
	jd.RequiredSkills = fromJSONList(skills)
	return &jd, nil
}
