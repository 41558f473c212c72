package events

import "hoopsleague/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange           EventType = "balance_change"
	EventTypeTournamentStatusChanged EventType = "tournament_status_changed"
	EventTypeUpdateRequestReviewed   EventType = "update_request_reviewed"
	EventTypeTeamReviewed            EventType = "team_reviewed"
	EventTypeRegistrationReviewed    EventType = "registration_reviewed"
	EventTypeStandingsUpdated        EventType = "standings_updated"
	EventTypePlayoffSlotFilled       EventType = "playoff_slot_filled"
	EventTypeLineupAutoFilled        EventType = "lineup_auto_filled"
	EventTypeNotificationRequested   EventType = "notification_requested"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	AccountID       int64
	OldBalance      int64
	NewBalance      int64
	ChangeAmount    int64
	TransactionType entities.TransactionType
	RelatedID       *int64
	RelatedType     *entities.RelatedType
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// TournamentStatusChangedEvent is emitted for every tournament status transition
type TournamentStatusChangedEvent struct {
	TournamentID int64
	SponsorID    int64
	OldStatus    entities.TournamentStatus
	NewStatus    entities.TournamentStatus
	FeeCharged   int64
	Reason       string
}

func (e TournamentStatusChangedEvent) Type() EventType {
	return EventTypeTournamentStatusChanged
}

// UpdateRequestReviewedEvent is emitted when an admin decides on an update request
type UpdateRequestReviewedEvent struct {
	RequestID    int64
	TournamentID int64
	Status       entities.ApprovalStatus
	FeeDelta     int64
}

func (e UpdateRequestReviewedEvent) Type() EventType {
	return EventTypeUpdateRequestReviewed
}

// TeamReviewedEvent is emitted when an admin decides on a new team
type TeamReviewedEvent struct {
	TeamID  int64
	CoachID int64
	Status  entities.ApprovalStatus
	Fee     int64
}

func (e TeamReviewedEvent) Type() EventType {
	return EventTypeTeamReviewed
}

// RegistrationReviewedEvent is emitted when an admin decides on a team registration
type RegistrationReviewedEvent struct {
	RegistrationID int64
	TournamentID   int64
	TeamID         int64
	Status         entities.ApprovalStatus
}

func (e RegistrationReviewedEvent) Type() EventType {
	return EventTypeRegistrationReviewed
}

// StandingsUpdatedEvent is emitted after a match result has been counted
type StandingsUpdatedEvent struct {
	TournamentID int64
	MatchID      int64
}

func (e StandingsUpdatedEvent) Type() EventType {
	return EventTypeStandingsUpdated
}

// PlayoffSlotFilledEvent is emitted when a bracket placeholder gets its teams
type PlayoffSlotFilledEvent struct {
	TournamentID int64
	MatchID      int64
	Stage        entities.MatchStage
	HomeTeamID   int64
	AwayTeamID   int64
}

func (e PlayoffSlotFilledEvent) Type() EventType {
	return EventTypePlayoffSlotFilled
}

// LineupAutoFilledEvent is emitted when a default lineup was generated for a team
type LineupAutoFilledEvent struct {
	MatchID    int64
	TeamID     int64
	AthleteIDs []int64
}

func (e LineupAutoFilledEvent) Type() EventType {
	return EventTypeLineupAutoFilled
}

// NotificationRequestedEvent carries a notification to the delivery side once the
// surrounding transaction has committed
type NotificationRequestedEvent struct {
	Notification entities.Notification
}

func (e NotificationRequestedEvent) Type() EventType {
	return EventTypeNotificationRequested
}
