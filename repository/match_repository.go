package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hoopsleague/database"
	"hoopsleague/domain/entities"

	"github.com/jackc/pgx/v5"
)

const matchColumns = `id, tournament_id, stage, match_round, home_team_id, away_team_id, status,
	home_score, away_score, venue_id, main_referee_id, scheduled_at, standings_applied_at,
	created_at, updated_at`

// MatchRepository implements the MatchRepository interface
type MatchRepository struct {
	q queryable
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *database.DB) *MatchRepository {
	return &MatchRepository{q: db.Pool}
}

func newMatchRepository(q queryable) *MatchRepository {
	return &MatchRepository{q: q}
}

func scanMatch(row pgx.Row) (*entities.Match, error) {
	var m entities.Match
	err := row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.Stage,
		&m.Round,
		&m.HomeTeamID,
		&m.AwayTeamID,
		&m.Status,
		&m.HomeScore,
		&m.AwayScore,
		&m.VenueID,
		&m.MainRefereeID,
		&m.ScheduledAt,
		&m.StandingsAppliedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMatches(rows pgx.Rows) ([]*entities.Match, error) {
	defer rows.Close()

	var matches []*entities.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}
	return matches, nil
}

// GetByID retrieves a match by id
func (r *MatchRepository) GetByID(ctx context.Context, id int64) (*entities.Match, error) {
	match, err := scanMatch(r.q.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return match, nil
}

// GetForUpdate retrieves a match and locks its row
func (r *MatchRepository) GetForUpdate(ctx context.Context, id int64) (*entities.Match, error) {
	match, err := scanMatch(r.q.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock match %d: %w", id, err)
	}
	return match, nil
}

// Create inserts a match. Bracket placeholders are created with no teams.
func (r *MatchRepository) Create(ctx context.Context, m *entities.Match) error {
	if m.Status == "" {
		m.Status = entities.MatchStatusScheduled
	}
	if m.Round == 0 {
		m.Round = 1
	}

	query := `
		INSERT INTO matches
		(tournament_id, stage, match_round, home_team_id, away_team_id, status,
		 home_score, away_score, venue_id, main_referee_id, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		m.TournamentID,
		m.Stage,
		m.Round,
		m.HomeTeamID,
		m.AwayTeamID,
		m.Status,
		m.HomeScore,
		m.AwayScore,
		m.VenueID,
		m.MainRefereeID,
		m.ScheduledAt,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create %s match for tournament %d: %w", m.Stage, m.TournamentID, err)
	}
	return nil
}

// ListByTournament returns every match of a tournament ordered by round then id
func (r *MatchRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]*entities.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY match_round, id`

	rows, err := r.q.Query(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	return collectMatches(rows)
}

// UpdateResult writes the score and status of a match
func (r *MatchRepository) UpdateResult(ctx context.Context, m *entities.Match) error {
	query := `
		UPDATE matches
		SET status = $2, home_score = $3, away_score = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, m.ID, m.Status, m.HomeScore, m.AwayScore).Scan(&m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("match %d not found", m.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update result of match %d: %w", m.ID, err)
	}
	return nil
}

// MarkStandingsApplied records that the match result has been counted
func (r *MatchRepository) MarkStandingsApplied(ctx context.Context, id int64, appliedAt time.Time) error {
	query := `UPDATE matches SET standings_applied_at = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.q.Exec(ctx, query, id, appliedAt)
	if err != nil {
		return fmt.Errorf("failed to mark match %d applied: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("match %d not found", id)
	}
	return nil
}

// AssignTeams fills an empty bracket slot. Returns false if either side is already set.
func (r *MatchRepository) AssignTeams(ctx context.Context, id int64, homeTeamID, awayTeamID int64) (bool, error) {
	query := `
		UPDATE matches
		SET home_team_id = $2, away_team_id = $3, updated_at = NOW()
		WHERE id = $1 AND home_team_id IS NULL AND away_team_id IS NULL
	`

	result, err := r.q.Exec(ctx, query, id, homeTeamID, awayTeamID)
	if err != nil {
		return false, fmt.Errorf("failed to assign teams to match %d: %w", id, err)
	}
	return result.RowsAffected() == 1, nil
}

// ListUnappliedResults returns completed matches whose result has not been counted yet
func (r *MatchRepository) ListUnappliedResults(ctx context.Context) ([]*entities.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = $1 AND standings_applied_at IS NULL
		  AND home_score IS NOT NULL AND away_score IS NOT NULL
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, entities.MatchStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to query unapplied match results: %w", err)
	}
	return collectMatches(rows)
}

// ListScheduledBefore returns scheduled matches with both teams set that start before cutoff
func (r *MatchRepository) ListScheduledBefore(ctx context.Context, cutoff time.Time) ([]*entities.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = $1
		  AND scheduled_at IS NOT NULL AND scheduled_at <= $2
		  AND home_team_id IS NOT NULL AND away_team_id IS NOT NULL
		ORDER BY scheduled_at, id
	`

	rows, err := r.q.Query(ctx, query, entities.MatchStatusScheduled, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming matches: %w", err)
	}
	return collectMatches(rows)
}
