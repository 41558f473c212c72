package repository

import (
	"context"
	"fmt"

	"hoopsleague/database"
	"hoopsleague/domain/entities"
)

// AthleteRepository implements the AthleteRepository and RosterProvider interfaces
type AthleteRepository struct {
	q queryable
}

// NewAthleteRepository creates a new athlete repository
func NewAthleteRepository(db *database.DB) *AthleteRepository {
	return &AthleteRepository{q: db.Pool}
}

// Create adds an athlete to a team roster
func (r *AthleteRepository) Create(ctx context.Context, athlete *entities.Athlete) error {
	query := `
		INSERT INTO athletes (team_id, user_id, name, position, jersey_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		athlete.TeamID,
		athlete.UserID,
		athlete.Name,
		athlete.Position,
		athlete.JerseyNumber,
	).Scan(&athlete.ID, &athlete.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add athlete %q to team %d: %w", athlete.Name, athlete.TeamID, err)
	}
	return nil
}

// ListByTeam returns a team's roster in jersey number order
func (r *AthleteRepository) ListByTeam(ctx context.Context, teamID int64) ([]*entities.Athlete, error) {
	query := `
		SELECT id, team_id, user_id, name, position, jersey_number, created_at
		FROM athletes
		WHERE team_id = $1
		ORDER BY jersey_number, id
	`

	rows, err := r.q.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster of team %d: %w", teamID, err)
	}
	defer rows.Close()

	var roster []*entities.Athlete
	for rows.Next() {
		var athlete entities.Athlete
		err := rows.Scan(
			&athlete.ID,
			&athlete.TeamID,
			&athlete.UserID,
			&athlete.Name,
			&athlete.Position,
			&athlete.JerseyNumber,
			&athlete.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan athlete: %w", err)
		}
		roster = append(roster, &athlete)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster: %w", err)
	}

	return roster, nil
}

// Roster returns the team's roster for lineup selection
func (r *AthleteRepository) Roster(ctx context.Context, teamID int64) ([]*entities.Athlete, error) {
	return r.ListByTeam(ctx, teamID)
}
