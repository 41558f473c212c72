package infrastructure

import (
	"context"
	"fmt"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/interfaces"
)

// DatabaseNotificationSink stores notifications for the delivery side to pick up
type DatabaseNotificationSink struct {
	repo interfaces.NotificationRepository
}

// NewDatabaseNotificationSink creates a new notification sink
func NewDatabaseNotificationSink(repo interfaces.NotificationRepository) *DatabaseNotificationSink {
	return &DatabaseNotificationSink{repo: repo}
}

// Notify stores the notification
func (s *DatabaseNotificationSink) Notify(ctx context.Context, notification entities.Notification) error {
	if err := s.repo.Create(ctx, &notification); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}
