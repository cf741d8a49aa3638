package db

import (
	"context"
	"fmt"
)

// LogAction appends an entry to the per-candidate audit log.
func (db *DB) LogAction(ctx context.Context, candidateID int64, actionType, description string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO hiring_actions (candidate_id, action_type, description)
		 VALUES ($1, $2, NULLIF($3, ''))`,
		candidateID, actionType, description,
	)
	if err != nil {
		return fmt.Errorf("failed to log hiring action %s: %w", actionType, err)
	}
	return nil
}

// ListActions retrieves a candidate's audit log, newest first.
func (db *DB) ListActions(ctx context.Context, candidateID int64, limit int) ([]HiringAction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, candidate_id, action_type, COALESCE(description, ''), performed_at, performed_by
		 FROM hiring_actions WHERE candidate_id = $1
		 ORDER BY id DESC LIMIT $2`,
		candidateID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list hiring actions: %w", err)
	}
	defer rows.Close()

	var actions []HiringAction
	for rows.Next() {
		var a HiringAction
		if err := rows.Scan(&a.ID, &a.CandidateID, &a.ActionType, &a.Description, &a.PerformedAt, &a.PerformedBy); err != nil {
			return nil, fmt.Errorf("failed to scan hiring action: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
