package entities

import "time"

// MatchStage identifies the part of the tournament a match belongs to
type MatchStage string

const (
	MatchStageGroup     MatchStage = "group_stage"
	MatchStageSemifinal MatchStage = "semifinal"
	MatchStageFinal     MatchStage = "final"
	MatchStageHome      MatchStage = "home"
	MatchStageAway      MatchStage = "away"
)

// IsKnockout returns true for bracket stages that do not count towards standings
func (s MatchStage) IsKnockout() bool {
	return s == MatchStageSemifinal || s == MatchStageFinal
}

// MatchStatus represents the state of a match
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusCancelled MatchStatus = "cancelled"
)

// Match is a single game between two teams. Bracket matches are created as
// placeholders with no teams and filled in once earlier rounds finish.
type Match struct {
	ID                 int64       `db:"id"`
	TournamentID       int64       `db:"tournament_id"`
	Stage              MatchStage  `db:"stage"`
	Round              int         `db:"match_round"`
	HomeTeamID         *int64      `db:"home_team_id"`
	AwayTeamID         *int64      `db:"away_team_id"`
	Status             MatchStatus `db:"status"`
	HomeScore          *int        `db:"home_score"`
	AwayScore          *int        `db:"away_score"`
	VenueID            *int64      `db:"venue_id"`
	MainRefereeID      *int64      `db:"main_referee_id"`
	ScheduledAt        *time.Time  `db:"scheduled_at"`
	StandingsAppliedAt *time.Time  `db:"standings_applied_at"`
	CreatedAt          time.Time   `db:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at"`
}

// HasTeams returns true once both sides are known
func (m *Match) HasTeams() bool {
	return m.HomeTeamID != nil && m.AwayTeamID != nil
}

// IsEmptySlot returns true for a bracket placeholder with no teams yet
func (m *Match) IsEmptySlot() bool {
	return m.HomeTeamID == nil && m.AwayTeamID == nil
}

// HasResult returns true if both scores are recorded
func (m *Match) HasResult() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// IsCompleted returns true if the match has been played
func (m *Match) IsCompleted() bool {
	return m.Status == MatchStatusCompleted
}

// StandingsApplied returns true if the result has already been counted
func (m *Match) StandingsApplied() bool {
	return m.StandingsAppliedAt != nil
}

// WinnerID returns the winning team. The second value is false when the match
// has no result yet or ended level.
func (m *Match) WinnerID() (int64, bool) {
	if !m.HasTeams() || !m.HasResult() {
		return 0, false
	}
	switch {
	case *m.HomeScore > *m.AwayScore:
		return *m.HomeTeamID, true
	case *m.AwayScore > *m.HomeScore:
		return *m.AwayTeamID, true
	default:
		return 0, false
	}
}
