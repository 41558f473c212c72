package infrastructure

import (
	"context"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/events"
	"hoopsleague/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// NotificationCounter counts delivery outcomes
type NotificationCounter interface {
	IncNotificationSent()
	IncNotificationFailed()
}

// RegisterNotificationHandler delivers every committed notification request to the
// sink. Delivery is best-effort: failures are logged and counted, never returned.
func RegisterNotificationHandler(publisher *NATSEventPublisher, sink interfaces.NotificationSink, counter NotificationCounter) {
	publisher.RegisterLocalHandler(events.EventTypeNotificationRequested, func(ctx context.Context, event events.Event) error {
		requested, ok := event.(events.NotificationRequestedEvent)
		if !ok {
			log.WithField("eventType", event.Type()).Warn("Unexpected event for notification handler")
			return nil
		}

		if err := sink.Notify(ctx, requested.Notification); err != nil {
			log.WithFields(log.Fields{
				"notificationType": requested.Notification.Type,
				"error":            err,
			}).Error("Failed to deliver notification")
			if counter != nil {
				counter.IncNotificationFailed()
			}
			return nil
		}

		if counter != nil {
			counter.IncNotificationSent()
		}
		return nil
	})
}

// BalanceChangeCounter counts committed balance changes
type BalanceChangeCounter interface {
	IncBalanceChange(transactionType entities.TransactionType)
}

// RegisterBalanceChangeMetrics counts every committed balance change
func RegisterBalanceChangeMetrics(publisher *NATSEventPublisher, counter BalanceChangeCounter) {
	publisher.RegisterLocalHandler(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) error {
		if change, ok := event.(events.BalanceChangeEvent); ok {
			counter.IncBalanceChange(change.TransactionType)
		}
		return nil
	})
}
