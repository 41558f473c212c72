package repository

import (
	"context"
	"fmt"

	"hoopsleague/database"
	"hoopsleague/domain/entities"
)

// LineupRepository implements the LineupRepository interface on match_lineups
type LineupRepository struct {
	q queryable
}

// NewLineupRepository creates a new lineup repository
func NewLineupRepository(db *database.DB) *LineupRepository {
	return &LineupRepository{q: db.Pool}
}

func newLineupRepository(q queryable) *LineupRepository {
	return &LineupRepository{q: q}
}

// Exists reports whether the team already has a lineup for the match
func (r *LineupRepository) Exists(ctx context.Context, matchID, teamID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM match_lineups WHERE match_id = $1 AND team_id = $2)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, matchID, teamID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check lineup of team %d for match %d: %w", teamID, matchID, err)
	}
	return exists, nil
}

// CreateEntries stores a lineup
func (r *LineupRepository) CreateEntries(ctx context.Context, entries []*entities.LineupEntry) error {
	query := `
		INSERT INTO match_lineups (match_id, team_id, athlete_id, position, auto_filled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	for _, entry := range entries {
		err := r.q.QueryRow(ctx, query,
			entry.MatchID,
			entry.TeamID,
			entry.AthleteID,
			entry.Position,
			entry.AutoFilled,
		).Scan(&entry.ID, &entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to store lineup entry for athlete %d: %w", entry.AthleteID, err)
		}
	}
	return nil
}

// ListByMatchAndTeam returns a team's lineup for a match
func (r *LineupRepository) ListByMatchAndTeam(ctx context.Context, matchID, teamID int64) ([]*entities.LineupEntry, error) {
	query := `
		SELECT id, match_id, team_id, athlete_id, position, auto_filled, created_at
		FROM match_lineups
		WHERE match_id = $1 AND team_id = $2
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, matchID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lineup of team %d for match %d: %w", teamID, matchID, err)
	}
	defer rows.Close()

	var entries []*entities.LineupEntry
	for rows.Next() {
		var entry entities.LineupEntry
		err := rows.Scan(
			&entry.ID,
			&entry.MatchID,
			&entry.TeamID,
			&entry.AthleteID,
			&entry.Position,
			&entry.AutoFilled,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lineup entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lineup entries: %w", err)
	}

	return entries, nil
}
