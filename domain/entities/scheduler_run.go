package entities

import "time"

// SchedulerRunSummary counts what one scheduler tick did
type SchedulerRunSummary struct {
	PromotedToOngoing   int `json:"promoted_to_ongoing"`
	PromotedToCompleted int `json:"promoted_to_completed"`
	StandingsApplied    int `json:"standings_applied"`
	PlayoffSlotsFilled  int `json:"playoff_slots_filled"`
	LineupsFilled       int `json:"lineups_filled"`
	Failures            int `json:"failures"`
}

// Changes returns the number of state changes made during the tick
func (s *SchedulerRunSummary) Changes() int {
	return s.PromotedToOngoing + s.PromotedToCompleted + s.StandingsApplied + s.PlayoffSlotsFilled + s.LineupsFilled
}

// SchedulerRun is the persisted record of one scheduler tick
type SchedulerRun struct {
	ID         int64               `db:"id"`
	StartedAt  time.Time           `db:"started_at"`
	FinishedAt time.Time           `db:"finished_at"`
	Summary    SchedulerRunSummary `db:"summary"`
	CreatedAt  time.Time           `db:"created_at"`
}
