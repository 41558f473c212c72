package entities

import "time"

// TournamentStatus represents where a tournament is in its lifecycle
type TournamentStatus string

const (
	TournamentStatusDraft        TournamentStatus = "draft"
	TournamentStatusRegistration TournamentStatus = "registration"
	TournamentStatusOngoing      TournamentStatus = "ongoing"
	TournamentStatusCompleted    TournamentStatus = "completed"
	TournamentStatusCancelled    TournamentStatus = "cancelled"
)

var tournamentStatusOrder = map[TournamentStatus]int{
	TournamentStatusDraft:        0,
	TournamentStatusRegistration: 1,
	TournamentStatusOngoing:      2,
	TournamentStatusCompleted:    3,
}

// IsValid checks if the status is one of the known statuses
func (s TournamentStatus) IsValid() bool {
	_, ok := tournamentStatusOrder[s]
	return ok || s == TournamentStatusCancelled
}

// IsTerminal returns true for statuses a tournament can never leave
func (s TournamentStatus) IsTerminal() bool {
	return s == TournamentStatusCompleted || s == TournamentStatusCancelled
}

// CanTransitionTo reports whether moving from s to next keeps the lifecycle monotonic.
// Cancellation is reachable from every non-terminal status.
func (s TournamentStatus) CanTransitionTo(next TournamentStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == TournamentStatusCancelled {
		return true
	}
	from, ok := tournamentStatusOrder[s]
	if !ok {
		return false
	}
	to, ok := tournamentStatusOrder[next]
	if !ok {
		return false
	}
	return to > from
}

// AcceptsRegistrations returns true while teams may still be approved into the
// tournament. Only the registration phase qualifies: a draft has not been approved
// and an ongoing tournament is already in play.
func (s TournamentStatus) AcceptsRegistrations() bool {
	return s == TournamentStatusRegistration
}

// Tournament represents a sponsored competition
type Tournament struct {
	ID                   int64            `db:"id"`
	Name                 string           `db:"name"`
	Description          string           `db:"description"`
	Venue                string           `db:"venue"`
	SponsorID            int64            `db:"sponsor_id"`
	Status               TournamentStatus `db:"status"`
	MaxTeams             int              `db:"max_teams"`
	CurrentTeams         int              `db:"current_teams"`
	TotalPrizeMoney      int64            `db:"total_prize_money"`
	RegistrationDeadline time.Time        `db:"registration_deadline"`
	StartDate            time.Time        `db:"start_date"`
	EndDate              time.Time        `db:"end_date"`
	UpdateCount          int              `db:"update_count"`
	RejectionReason      *string          `db:"rejection_reason"`
	CreatedAt            time.Time        `db:"created_at"`
	UpdatedAt            time.Time        `db:"updated_at"`
}

// IsFull returns true when no more teams can be approved
func (t *Tournament) IsFull() bool {
	return t.CurrentTeams >= t.MaxTeams
}

// HasStarted returns true once the start date has been reached
func (t *Tournament) HasStarted(now time.Time) bool {
	return !now.Before(t.StartDate)
}

// HasEnded returns true once the end date has passed
func (t *Tournament) HasEnded(now time.Time) bool {
	return now.After(t.EndDate)
}
