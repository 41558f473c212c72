package repository

import (
	"context"
	"errors"
	"fmt"

	"hoopsleague/database"
	"hoopsleague/domain/entities"

	"github.com/jackc/pgx/v5"
)

const standingColumns = `id, tournament_id, team_id, group_name, matches_played, wins, draws, losses,
	points, goals_for, goals_against, goal_difference, position, created_at, updated_at`

// StandingRepository implements the StandingRepository interface.
// Standing rows are created by the database when a registration is approved.
type StandingRepository struct {
	q queryable
}

// NewStandingRepository creates a new standing repository
func NewStandingRepository(db *database.DB) *StandingRepository {
	return &StandingRepository{q: db.Pool}
}

func newStandingRepository(q queryable) *StandingRepository {
	return &StandingRepository{q: q}
}

func scanStanding(row pgx.Row) (*entities.Standing, error) {
	var s entities.Standing
	err := row.Scan(
		&s.ID,
		&s.TournamentID,
		&s.TeamID,
		&s.GroupName,
		&s.MatchesPlayed,
		&s.Wins,
		&s.Draws,
		&s.Losses,
		&s.Points,
		&s.GoalsFor,
		&s.GoalsAgainst,
		&s.GoalDifference,
		&s.Position,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetForUpdate retrieves a team's standing in a tournament and locks the row
func (r *StandingRepository) GetForUpdate(ctx context.Context, tournamentID, teamID int64) (*entities.Standing, error) {
	query := `SELECT ` + standingColumns + ` FROM standings WHERE tournament_id = $1 AND team_id = $2 FOR UPDATE`

	standing, err := scanStanding(r.q.QueryRow(ctx, query, tournamentID, teamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock standing of team %d in tournament %d: %w", teamID, tournamentID, err)
	}
	return standing, nil
}

// ListByTournament returns every standing of a tournament in creation order
func (r *StandingRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]*entities.Standing, error) {
	query := `SELECT ` + standingColumns + ` FROM standings WHERE tournament_id = $1 ORDER BY id`

	rows, err := r.q.Query(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	var standings []*entities.Standing
	for rows.Next() {
		standing, err := scanStanding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		standings = append(standings, standing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating standings: %w", err)
	}

	return standings, nil
}

// Update writes the match counters of a standing. Positions are written by UpdatePositions.
func (r *StandingRepository) Update(ctx context.Context, s *entities.Standing) error {
	query := `
		UPDATE standings
		SET matches_played = $2,
		    wins = $3,
		    draws = $4,
		    losses = $5,
		    points = $6,
		    goals_for = $7,
		    goals_against = $8,
		    goal_difference = $9,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		s.ID,
		s.MatchesPlayed,
		s.Wins,
		s.Draws,
		s.Losses,
		s.Points,
		s.GoalsFor,
		s.GoalsAgainst,
		s.GoalDifference,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("standing %d not found", s.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update standing %d: %w", s.ID, err)
	}
	return nil
}

// UpdatePositions writes the position of every given standing in one batch
func (r *StandingRepository) UpdatePositions(ctx context.Context, standings []*entities.Standing) error {
	if len(standings) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(standings))
	positions := make([]int32, 0, len(standings))
	for _, s := range standings {
		ids = append(ids, s.ID)
		positions = append(positions, int32(s.Position))
	}

	query := `
		UPDATE standings AS s
		SET position = p.position, updated_at = NOW()
		FROM UNNEST($1::bigint[], $2::int[]) AS p(id, position)
		WHERE s.id = p.id
	`

	if _, err := r.q.Exec(ctx, query, ids, positions); err != nil {
		return fmt.Errorf("failed to update standing positions: %w", err)
	}
	return nil
}
