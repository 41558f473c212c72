package repository

import (
	"context"
	"errors"
	"fmt"

	"hoopsleague/database"
	"hoopsleague/domain/entities"

	"github.com/jackc/pgx/v5"
)

const teamColumns = `id, name, coach_id, status, entry_fee, rejection_reason, approved_at, created_at, updated_at`

// TeamRepository implements the TeamRepository interface
type TeamRepository struct {
	q queryable
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *database.DB) *TeamRepository {
	return &TeamRepository{q: db.Pool}
}

func newTeamRepository(q queryable) *TeamRepository {
	return &TeamRepository{q: q}
}

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var team entities.Team
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.CoachID,
		&team.Status,
		&team.EntryFee,
		&team.RejectionReason,
		&team.ApprovedAt,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetByID retrieves a team by id
func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*entities.Team, error) {
	team, err := scanTeam(r.q.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return team, nil
}

// GetForUpdate retrieves a team and locks its row
func (r *TeamRepository) GetForUpdate(ctx context.Context, id int64) (*entities.Team, error) {
	team, err := scanTeam(r.q.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock team %d: %w", id, err)
	}
	return team, nil
}

// Create inserts a new team awaiting review
func (r *TeamRepository) Create(ctx context.Context, team *entities.Team) error {
	if team.Status == "" {
		team.Status = entities.ApprovalStatusPending
	}

	query := `
		INSERT INTO teams (name, coach_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, entry_fee, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query, team.Name, team.CoachID, team.Status).
		Scan(&team.ID, &team.EntryFee, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team %q: %w", team.Name, err)
	}
	return nil
}

// Update writes the review outcome of a team
func (r *TeamRepository) Update(ctx context.Context, team *entities.Team) error {
	query := `
		UPDATE teams
		SET name = $2, status = $3, entry_fee = $4, rejection_reason = $5, approved_at = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		team.ID,
		team.Name,
		team.Status,
		team.EntryFee,
		team.RejectionReason,
		team.ApprovedAt,
	).Scan(&team.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("team %d not found", team.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update team %d: %w", team.ID, err)
	}
	return nil
}
