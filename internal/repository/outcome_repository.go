package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-rating-sync/internal/models"
)

// OutcomeRepository journals synchronizer outcomes in Postgres.
type OutcomeRepository struct {
	db *sqlx.DB
}

// NewOutcomeRepository constructs the repository.
func NewOutcomeRepository(db *sqlx.DB) *OutcomeRepository {
	return &OutcomeRepository{db: db}
}

const outcomeSchema = `CREATE TABLE IF NOT EXISTS roster_outcomes (
	id UUID PRIMARY KEY,
	operation TEXT NOT NULL,
	severity TEXT NOT NULL,
	category TEXT NOT NULL,
	message TEXT NOT NULL,
	student_id BIGINT NULL,
	request_id TEXT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// EnsureSchema creates the journal table when missing.
func (r *OutcomeRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, outcomeSchema); err != nil {
		return fmt.Errorf("ensure outcome schema: %w", err)
	}
	return nil
}

// Create inserts one outcome row.
func (r *OutcomeRepository) Create(ctx context.Context, outcome *models.Outcome) error {
	if outcome.ID == "" {
		outcome.ID = uuid.NewString()
	}
	if outcome.CreatedAt.IsZero() {
		outcome.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO roster_outcomes
	(id, operation, severity, category, message, student_id, request_id, created_at)
	VALUES (:id, :operation, :severity, :category, :message, :student_id, :request_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, outcome); err != nil {
		return fmt.Errorf("create outcome: %w", err)
	}
	return nil
}

// ListRecent returns the latest outcomes, newest first.
func (r *OutcomeRepository) ListRecent(ctx context.Context, limit int) ([]models.Outcome, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	const query = `SELECT id, operation, severity, category, message, student_id, request_id, created_at
	FROM roster_outcomes ORDER BY created_at DESC LIMIT $1`
	var outcomes []models.Outcome
	if err := r.db.SelectContext(ctx, &outcomes, query, limit); err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	return outcomes, nil
}
