package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// CreateCandidate inserts a candidate and returns the stored row.
func (db *DB) CreateCandidate(ctx context.Context, c *Candidate) (*Candidate, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO candidates (name, email, phone, resume_text, resume_file_path, job_description_id)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, NULLIF($5, ''), $6)
		 RETURNING id, created_at`,
		c.Name, c.Email, c.Phone, c.ResumeText, c.ResumeFilePath, c.JobDescriptionID,
	)

	created := *c
	if err := row.Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}
	return &created, nil
}

// GetCandidate retrieves a candidate by ID. Returns (nil, nil) when no row
// exists.
func (db *DB) GetCandidate(ctx context.Context, id int64) (*Candidate, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), resume_text,
		        COALESCE(resume_file_path, ''), job_description_id, created_at
		 FROM candidates WHERE id = $1`,
		id,
	)

	c, err := scanCandidate(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

// CandidateFilters holds optional filters for listing candidates.
type CandidateFilters struct {
	JobDescriptionID *int64
	Limit            int
}

// ListCandidates retrieves candidates, newest first, optionally restricted to
// one job description.
func (db *DB) ListCandidates(ctx context.Context, filters CandidateFilters) ([]Candidate, error) {
	if filters.Limit <= 0 {
		filters.Limit = 100
	}

	query := `SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), resume_text,
	                 COALESCE(resume_file_path, ''), job_description_id, created_at
	          FROM candidates WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.JobDescriptionID != nil {
		query += fmt.Sprintf(" AND job_description_id = $%d", argNum)
		args = append(args, *filters.JobDescriptionID)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	return candidates, rows.Err()
}

// UpdateCandidate updates a candidate's contact fields and job link. Returns
// (nil, nil) when no row exists.
func (db *DB) UpdateCandidate(ctx context.Context, c *Candidate) (*Candidate, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE candidates
		 SET name = $2, email = NULLIF($3, ''), phone = NULLIF($4, ''),
		     resume_text = $5, job_description_id = $6
		 WHERE id = $1
		 RETURNING created_at`,
		c.ID, c.Name, c.Email, c.Phone, c.ResumeText, c.JobDescriptionID,
	)

	updated := *c
	if err := row.Scan(&updated.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update candidate: %w", err)
	}
	return &updated, nil
}

// DeleteCandidate removes a candidate and their analysis history via cascade.
// Returns false when no row existed.
func (db *DB) DeleteCandidate(ctx context.Context, id int64) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete candidate: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// FindDuplicateCandidate looks for an existing candidate with the same email
// or the same normalized name. Returns (nil, nil) when none matches.
func (db *DB) FindDuplicateCandidate(ctx context.Context, name, email string) (*Candidate, error) {
	query := `SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), resume_text,
	                 COALESCE(resume_file_path, ''), job_description_id, created_at
	          FROM candidates WHERE `
	var args []any

	switch {
	case email != "":
		query += `LOWER(email) = $1`
		args = append(args, strings.ToLower(email))
	case name != "":
		query += `LOWER(name) = $1`
		args = append(args, strings.ToLower(name))
	default:
		return nil, nil
	}
	query += ` ORDER BY id LIMIT 1`

	c, err := scanCandidate(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find duplicate candidate: %w", err)
	}
	return c, nil
}

// SaveProfile inserts or replaces the extended profile for a candidate.
func (db *DB) SaveProfile(ctx context.Context, p *CandidateProfile) (*CandidateProfile, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO candidate_profiles
		   (candidate_id, role_title, headline, total_experience_years,
		    primary_skills, secondary_skills, education, certifications,
		    summary, location, invalid_resume)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''), $8, NULLIF($9, ''), NULLIF($10, ''), $11)
		 ON CONFLICT (candidate_id) DO UPDATE SET
		   role_title = EXCLUDED.role_title,
		   headline = EXCLUDED.headline,
		   total_experience_years = EXCLUDED.total_experience_years,
		   primary_skills = EXCLUDED.primary_skills,
		   secondary_skills = EXCLUDED.secondary_skills,
		   education = EXCLUDED.education,
		   certifications = EXCLUDED.certifications,
		   summary = EXCLUDED.summary,
		   location = EXCLUDED.location,
		   invalid_resume = EXCLUDED.invalid_resume,
		   updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		p.CandidateID, p.CurrentRole, p.Headline, p.TotalExperienceYears,
		toJSONList(p.PrimarySkills), toJSONList(p.SecondarySkills), p.Education,
		toJSONList(p.Certifications), p.Summary, p.Location, p.InvalidResume,
	)

	saved := *p
	if err := row.Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to save candidate profile: %w", err)
	}
	return &saved, nil
}

// GetProfile retrieves the extended profile for a candidate. Returns
// (nil, nil) when none exists.
func (db *DB) GetProfile(ctx context.Context, candidateID int64) (*CandidateProfile, error) {
	var p CandidateProfile
	var primary, secondary, certs []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, candidate_id, COALESCE(role_title, ''), COALESCE(headline, ''),
		        total_experience_years, primary_skills, secondary_skills,
		        COALESCE(education, ''), certifications, COALESCE(summary, ''),
		        COALESCE(location, ''), invalid_resume, created_at, updated_at
		 FROM candidate_profiles WHERE candidate_id = $1`,
		candidateID,
	).Scan(&p.ID, &p.CandidateID, &p.CurrentRole, &p.Headline,
		&p.TotalExperienceYears, &primary, &secondary,
		&p.Education, &certs, &p.Summary,
		&p.Location, &p.InvalidResume, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate profile: %w", err)
	}

	p.PrimarySkills = fromJSONList(primary)
	p.SecondarySkills = fromJSONList(secondary)
	p.Certifications = fromJSONList(certs)
	return &p, nil
}

func scanCandidate(row pgx.Row) (*Candidate, error) {
	var c Candidate
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.ResumeText,
		&c.ResumeFilePath, &c.JobDescriptionID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
