package repository

import (
	"context"
	"errors"
	"fmt"

	"hoopsleague/database"
	"hoopsleague/domain/entities"

	"github.com/jackc/pgx/v5"
)

const tournamentColumns = `id, name, description, venue, sponsor_id, status, max_teams, current_teams,
	total_prize_money, registration_deadline, start_date, end_date, update_count,
	rejection_reason, created_at, updated_at`

// TournamentRepository implements the TournamentRepository interface
type TournamentRepository struct {
	q queryable
}

// NewTournamentRepository creates a new tournament repository
func NewTournamentRepository(db *database.DB) *TournamentRepository {
	return &TournamentRepository{q: db.Pool}
}

func newTournamentRepository(q queryable) *TournamentRepository {
	return &TournamentRepository{q: q}
}

func scanTournament(row pgx.Row) (*entities.Tournament, error) {
	var t entities.Tournament
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.Venue,
		&t.SponsorID,
		&t.Status,
		&t.MaxTeams,
		&t.CurrentTeams,
		&t.TotalPrizeMoney,
		&t.RegistrationDeadline,
		&t.StartDate,
		&t.EndDate,
		&t.UpdateCount,
		&t.RejectionReason,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID retrieves a tournament by id
func (r *TournamentRepository) GetByID(ctx context.Context, id int64) (*entities.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	tournament, err := scanTournament(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return tournament, nil
}

// GetForUpdate retrieves a tournament and locks its row
func (r *TournamentRepository) GetForUpdate(ctx context.Context, id int64) (*entities.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1 FOR UPDATE`

	tournament, err := scanTournament(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock tournament %d: %w", id, err)
	}
	return tournament, nil
}

// Create inserts a new tournament and fills in its generated fields
func (r *TournamentRepository) Create(ctx context.Context, t *entities.Tournament) error {
	if t.Status == "" {
		t.Status = entities.TournamentStatusDraft
	}

	query := `
		INSERT INTO tournaments
		(name, description, venue, sponsor_id, status, max_teams, total_prize_money,
		 registration_deadline, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, current_teams, update_count, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		t.Name,
		t.Description,
		t.Venue,
		t.SponsorID,
		t.Status,
		t.MaxTeams,
		t.TotalPrizeMoney,
		t.RegistrationDeadline,
		t.StartDate,
		t.EndDate,
	).Scan(&t.ID, &t.CurrentTeams, &t.UpdateCount, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tournament %q: %w", t.Name, err)
	}

	return nil
}

// Update writes every mutable tournament field
func (r *TournamentRepository) Update(ctx context.Context, t *entities.Tournament) error {
	query := `
		UPDATE tournaments
		SET name = $2,
		    description = $3,
		    venue = $4,
		    status = $5,
		    max_teams = $6,
		    total_prize_money = $7,
		    registration_deadline = $8,
		    start_date = $9,
		    end_date = $10,
		    update_count = $11,
		    rejection_reason = $12,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		t.ID,
		t.Name,
		t.Description,
		t.Venue,
		t.Status,
		t.MaxTeams,
		t.TotalPrizeMoney,
		t.RegistrationDeadline,
		t.StartDate,
		t.EndDate,
		t.UpdateCount,
		t.RejectionReason,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("tournament %d not found", t.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update tournament %d: %w", t.ID, err)
	}

	return nil
}

// UpdateStatus changes only the status of a tournament
func (r *TournamentRepository) UpdateStatus(ctx context.Context, id int64, status entities.TournamentStatus) error {
	query := `UPDATE tournaments SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update status of tournament %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tournament %d not found", id)
	}

	return nil
}

// IncrementCurrentTeams takes one free place. Returns false if the tournament is full.
func (r *TournamentRepository) IncrementCurrentTeams(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE tournaments
		SET current_teams = current_teams + 1, updated_at = NOW()
		WHERE id = $1 AND current_teams < max_teams
	`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to increment team count of tournament %d: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

// ListByStatus returns every tournament in the given status, oldest first
func (r *TournamentRepository) ListByStatus(ctx context.Context, status entities.TournamentStatus) ([]*entities.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE status = $1 ORDER BY id`

	rows, err := r.q.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s tournaments: %w", status, err)
	}
	defer rows.Close()

	var tournaments []*entities.Tournament
	for rows.Next() {
		tournament, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		tournaments = append(tournaments, tournament)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournaments: %w", err)
	}

	return tournaments, nil
}
