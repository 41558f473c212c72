package entities

import "time"

// Position is a basketball playing position
type Position string

const (
	PositionPointGuard    Position = "PG"
	PositionShootingGuard Position = "SG"
	PositionSmallForward  Position = "SF"
	PositionPowerForward  Position = "PF"
	PositionCenter        Position = "C"
)

// CanonicalPositions is the order in which lineup slots are filled
var CanonicalPositions = []Position{
	PositionPointGuard,
	PositionShootingGuard,
	PositionSmallForward,
	PositionPowerForward,
	PositionCenter,
}

// Athlete is a rostered player on a team
type Athlete struct {
	ID           int64     `db:"id"`
	TeamID       int64     `db:"team_id"`
	UserID       *int64    `db:"user_id"`
	Name         string    `db:"name"`
	Position     Position  `db:"position"`
	JerseyNumber int       `db:"jersey_number"`
	CreatedAt    time.Time `db:"created_at"`
}

// LineupEntry assigns one athlete to one position for a match
type LineupEntry struct {
	ID         int64     `db:"id"`
	MatchID    int64     `db:"match_id"`
	TeamID     int64     `db:"team_id"`
	AthleteID  int64     `db:"athlete_id"`
	Position   Position  `db:"position"`
	AutoFilled bool      `db:"auto_filled"`
	CreatedAt  time.Time `db:"created_at"`
}
