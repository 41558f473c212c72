package infrastructure

import (
	"fmt"

	"hoopsleague/domain/events"
)

var eventSubjects = map[events.EventType]string{
	events.EventTypeBalanceChange:           "ledger.balance_changed",
	events.EventTypeTournamentStatusChanged: "tournaments.status_changed",
	events.EventTypeUpdateRequestReviewed:   "tournaments.update_request_reviewed",
	events.EventTypeTeamReviewed:            "teams.reviewed",
	events.EventTypeRegistrationReviewed:    "tournaments.registration_reviewed",
	events.EventTypeStandingsUpdated:        "standings.updated",
	events.EventTypePlayoffSlotFilled:       "playoffs.slot_filled",
	events.EventTypeLineupAutoFilled:        "lineups.auto_filled",
	events.EventTypeNotificationRequested:   "notifications.requested",
}

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := eventSubjects[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range eventSubjects {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"ledger.balance_changed",
		"tournaments.status_changed",
		"tournaments.update_request_reviewed",
		"teams.reviewed",
		"tournaments.registration_reviewed",
		"standings.updated",
		"playoffs.slot_filled",
		"lineups.auto_filled",
		"notifications.requested",
	}
}
