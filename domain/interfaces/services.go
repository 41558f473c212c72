package interfaces

import (
	"context"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/events"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher holds events until the surrounding transaction ends
type TransactionalEventPublisher interface {
	EventPublisher
	// Flush publishes everything held so far. Called after commit.
	Flush(ctx context.Context) error
	// Discard drops everything held so far. Called on rollback.
	Discard()
}

// NotificationSink delivers notifications. Delivery is best-effort.
type NotificationSink interface {
	Notify(ctx context.Context, notification entities.Notification) error
}

// RosterProvider gives read access to a team's athletes, ordered by jersey number
type RosterProvider interface {
	Roster(ctx context.Context, teamID int64) ([]*entities.Athlete, error)
}

// UnitOfWork exposes the repositories bound to one database transaction.
// Every state-changing domain operation receives one explicitly.
type UnitOfWork interface {
	AccountRepository() AccountRepository
	FinancialTransactionRepository() FinancialTransactionRepository
	TournamentRepository() TournamentRepository
	TeamRepository() TeamRepository
	RegistrationRepository() RegistrationRepository
	StandingRepository() StandingRepository
	MatchRepository() MatchRepository
	UpdateRequestRepository() UpdateRequestRepository
	LineupRepository() LineupRepository
	SchedulerRunRepository() SchedulerRunRepository
	EventBus() EventPublisher
}
