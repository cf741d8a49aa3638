// Package db provides PostgreSQL persistence for job descriptions,
// candidates, and analysis history.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// EnsureSchema creates the application tables when they do not exist yet.
// Runs at startup; statements are idempotent.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS job_descriptions (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			required_skills JSONB NOT NULL DEFAULT '[]',
			min_experience_years INT NOT NULL DEFAULT 0,
			domain TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			resume_text TEXT NOT NULL,
			resume_file_path TEXT,
			job_description_id BIGINT REFERENCES job_descriptions(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS candidate_profiles (
			id BIGSERIAL PRIMARY KEY,
			candidate_id BIGINT NOT NULL UNIQUE REFERENCES candidates(id) ON DELETE CASCADE,
			role_title TEXT,
			headline TEXT,
			total_experience_years DOUBLE PRECISION NOT NULL DEFAULT 0,
			primary_skills JSONB NOT NULL DEFAULT '[]',
			secondary_skills JSONB NOT NULL DEFAULT '[]',
			education TEXT,
			certifications JSONB NOT NULL DEFAULT '[]',
			summary TEXT,
			location TEXT,
			invalid_resume BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id BIGSERIAL PRIMARY KEY,
			candidate_id BIGINT NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
			job_description_id BIGINT NOT NULL REFERENCES job_descriptions(id) ON DELETE CASCADE,
			skills JSONB NOT NULL DEFAULT '[]',
			experience_years DOUBLE PRECISION NOT NULL DEFAULT 0,
			tech_stack JSONB NOT NULL DEFAULT '[]',
			domain_knowledge JSONB NOT NULL DEFAULT '[]',
			seniority TEXT,
			strengths JSONB NOT NULL DEFAULT '[]',
			weaknesses JSONB NOT NULL DEFAULT '[]',
			skill_match_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			experience_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			domain_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			project_complexity_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			soft_skills_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			final_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			decision TEXT,
			recommendation TEXT,
			risks JSONB NOT NULL DEFAULT '[]',
			risk_level TEXT,
			technical_questions JSONB NOT NULL DEFAULT '[]',
			system_design_questions JSONB NOT NULL DEFAULT '[]',
			behavioral_questions JSONB NOT NULL DEFAULT '[]',
			custom_questions JSONB NOT NULL DEFAULT '[]',
			interview_focus_areas JSONB NOT NULL DEFAULT '[]',
			partial BOOLEAN NOT NULL DEFAULT FALSE,
			missing_dimensions JSONB NOT NULL DEFAULT '[]',
			analysis_timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			model_used TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_runs_candidate_job
			ON analysis_runs (candidate_id, job_description_id, id DESC)`,
		`CREATE TABLE IF NOT EXISTS hiring_actions (
			id BIGSERIAL PRIMARY KEY,
			candidate_id BIGINT NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
			action_type TEXT NOT NULL,
			description TEXT,
			performed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			performed_by TEXT NOT NULL DEFAULT 'system'
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// toJSONList marshals a string slice for a JSONB column, normalizing nil to
// an empty array so stored rows never carry JSON null.
func toJSONList(items []string) []byte {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return b
}

// fromJSONList unmarshals a JSONB column into a string slice. Unreadable or
// null content reads as an empty slice.
func fromJSONList(raw []byte) []string {
	var items []string
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &items)
	}
	if items == nil {
		items = []string{}
	}
	return items
}
