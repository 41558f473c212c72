package entities

import "time"

// Points awarded per match outcome
const (
	PointsForWin  = 3
	PointsForDraw = 1
	PointsForLoss = 0
)

// Standing is a team's cumulative record within one tournament
type Standing struct {
	ID             int64     `db:"id"`
	TournamentID   int64     `db:"tournament_id"`
	TeamID         int64     `db:"team_id"`
	GroupName      string    `db:"group_name"`
	MatchesPlayed  int       `db:"matches_played"`
	Wins           int       `db:"wins"`
	Draws          int       `db:"draws"`
	Losses         int       `db:"losses"`
	Points         int       `db:"points"`
	GoalsFor       int       `db:"goals_for"`
	GoalsAgainst   int       `db:"goals_against"`
	GoalDifference int       `db:"goal_difference"`
	Position       int       `db:"position"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// RecordResult adds one played match to the standing, seen from this team's side
func (s *Standing) RecordResult(scored, conceded int) {
	s.MatchesPlayed++
	switch {
	case scored > conceded:
		s.Wins++
		s.Points += PointsForWin
	case scored < conceded:
		s.Losses++
		s.Points += PointsForLoss
	default:
		s.Draws++
		s.Points += PointsForDraw
	}
	s.GoalsFor += scored
	s.GoalsAgainst += conceded
	s.GoalDifference = s.GoalsFor - s.GoalsAgainst
}

// Reset clears every derived counter so the standing can be replayed
func (s *Standing) Reset() {
	s.MatchesPlayed = 0
	s.Wins = 0
	s.Draws = 0
	s.Losses = 0
	s.Points = 0
	s.GoalsFor = 0
	s.GoalsAgainst = 0
	s.GoalDifference = 0
	s.Position = 0
}

// RanksAbove compares two standings by points, goal difference and goals scored
func (s *Standing) RanksAbove(other *Standing) bool {
	if s.Points != other.Points {
		return s.Points > other.Points
	}
	if s.GoalDifference != other.GoalDifference {
		return s.GoalDifference > other.GoalDifference
	}
	return s.GoalsFor > other.GoalsFor
}
