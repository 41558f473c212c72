package entities

import "time"

// NotificationType categorizes a notification for the delivery side
type NotificationType string

const (
	NotificationTypeTournamentApproved    NotificationType = "tournament_approved"
	NotificationTypeTournamentRejected    NotificationType = "tournament_rejected"
	NotificationTypeTournamentStatus      NotificationType = "tournament_status"
	NotificationTypeUpdateRequestReviewed NotificationType = "update_request_reviewed"
	NotificationTypeTeamReviewed          NotificationType = "team_reviewed"
	NotificationTypeRegistrationReviewed  NotificationType = "registration_reviewed"
	NotificationTypePlayoffScheduled      NotificationType = "playoff_scheduled"
	NotificationTypeLineupAutoFilled      NotificationType = "lineup_auto_filled"
)

// Notification is a message for a user or a team. Exactly one target is set.
type Notification struct {
	ID        int64                  `db:"id"`
	UserID    *int64                 `db:"user_id"`
	TeamID    *int64                 `db:"team_id"`
	Type      NotificationType       `db:"type"`
	Title     string                 `db:"title"`
	Message   string                 `db:"message"`
	Metadata  map[string]interface{} `db:"metadata"`
	CreatedAt time.Time              `db:"created_at"`
}

// ForUser creates a notification addressed to a user
func ForUser(userID int64, notificationType NotificationType, title, message string) Notification {
	return Notification{
		UserID:   &userID,
		Type:     notificationType,
		Title:    title,
		Message:  message,
		Metadata: map[string]interface{}{},
	}
}

// ForTeam creates a notification addressed to a team
func ForTeam(teamID int64, notificationType NotificationType, title, message string) Notification {
	return Notification{
		TeamID:   &teamID,
		Type:     notificationType,
		Title:    title,
		Message:  message,
		Metadata: map[string]interface{}{},
	}
}
