package repository

import (
	"context"
	"errors"
	"fmt"

	"hoopsleague/database"
	"hoopsleague/domain/entities"

	"github.com/jackc/pgx/v5"
)

const registrationColumns = `id, tournament_id, team_id, group_name, status, rejection_reason, created_at, updated_at`

// RegistrationRepository implements the RegistrationRepository interface on tournament_teams
type RegistrationRepository struct {
	q queryable
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *database.DB) *RegistrationRepository {
	return &RegistrationRepository{q: db.Pool}
}

func newRegistrationRepository(q queryable) *RegistrationRepository {
	return &RegistrationRepository{q: q}
}

func scanRegistration(row pgx.Row) (*entities.TeamRegistration, error) {
	var reg entities.TeamRegistration
	err := row.Scan(
		&reg.ID,
		&reg.TournamentID,
		&reg.TeamID,
		&reg.GroupName,
		&reg.Status,
		&reg.RejectionReason,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// GetByID retrieves a registration by id
func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*entities.TeamRegistration, error) {
	reg, err := scanRegistration(r.q.QueryRow(ctx, `SELECT `+registrationColumns+` FROM tournament_teams WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration %d: %w", id, err)
	}
	return reg, nil
}

// GetForUpdate retrieves a registration and locks its row
func (r *RegistrationRepository) GetForUpdate(ctx context.Context, id int64) (*entities.TeamRegistration, error) {
	reg, err := scanRegistration(r.q.QueryRow(ctx, `SELECT `+registrationColumns+` FROM tournament_teams WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock registration %d: %w", id, err)
	}
	return reg, nil
}

// Create inserts a pending registration
func (r *RegistrationRepository) Create(ctx context.Context, reg *entities.TeamRegistration) error {
	if reg.Status == "" {
		reg.Status = entities.ApprovalStatusPending
	}

	query := `
		INSERT INTO tournament_teams (tournament_id, team_id, group_name, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query, reg.TournamentID, reg.TeamID, reg.GroupName, reg.Status).
		Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to register team %d for tournament %d: %w", reg.TeamID, reg.TournamentID, err)
	}
	return nil
}

// Update writes the review outcome of a registration. Approving fires the
// trigger that creates the team's standing.
func (r *RegistrationRepository) Update(ctx context.Context, reg *entities.TeamRegistration) error {
	query := `
		UPDATE tournament_teams
		SET group_name = $2, status = $3, rejection_reason = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, reg.ID, reg.GroupName, reg.Status, reg.RejectionReason).Scan(&reg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("registration %d not found", reg.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update registration %d: %w", reg.ID, err)
	}
	return nil
}

// CountApproved returns how many teams are approved for a tournament
func (r *RegistrationRepository) CountApproved(ctx context.Context, tournamentID int64) (int, error) {
	query := `SELECT COUNT(*) FROM tournament_teams WHERE tournament_id = $1 AND status = $2`

	var count int
	if err := r.q.QueryRow(ctx, query, tournamentID, entities.ApprovalStatusApproved).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count approved teams for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}
