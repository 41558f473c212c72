package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hoopsleague/database"
	"hoopsleague/domain/entities"

	"github.com/jackc/pgx/v5"
)

// SchedulerRunRepository implements the SchedulerRunRepository interface
type SchedulerRunRepository struct {
	q queryable
}

// NewSchedulerRunRepository creates a new scheduler run repository
func NewSchedulerRunRepository(db *database.DB) *SchedulerRunRepository {
	return &SchedulerRunRepository{q: db.Pool}
}

func newSchedulerRunRepository(q queryable) *SchedulerRunRepository {
	return &SchedulerRunRepository{q: q}
}

// Record stores the outcome of one scheduler tick
func (r *SchedulerRunRepository) Record(ctx context.Context, run *entities.SchedulerRun) error {
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal scheduler summary: %w", err)
	}

	query := `
		INSERT INTO scheduler_runs (started_at, finished_at, summary)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query, run.StartedAt, run.FinishedAt, summaryJSON).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record scheduler run started at %s: %w", run.StartedAt.Format("2006-01-02T15:04:05Z07:00"), err)
	}

	return nil
}

// GetLatest returns the most recent scheduler run
func (r *SchedulerRunRepository) GetLatest(ctx context.Context) (*entities.SchedulerRun, error) {
	query := `
		SELECT id, started_at, finished_at, summary, created_at
		FROM scheduler_runs
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`

	var run entities.SchedulerRun
	var summaryJSON []byte

	err := r.q.QueryRow(ctx, query).Scan(
		&run.ID,
		&run.StartedAt,
		&run.FinishedAt,
		&summaryJSON,
		&run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest scheduler run: %w", err)
	}

	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &run.Summary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scheduler summary: %w", err)
		}
	}

	return &run, nil
}
