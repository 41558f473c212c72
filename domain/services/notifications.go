package services

import (
	"hoopsleague/domain/entities"
	"hoopsleague/domain/events"
	"hoopsleague/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// requestNotification queues a notification on the unit of work's event bus.
// It only leaves the process after commit and failures never reach the caller.
func requestNotification(uow interfaces.UnitOfWork, notification entities.Notification) {
	if err := uow.EventBus().Publish(events.NotificationRequestedEvent{Notification: notification}); err != nil {
		log.WithFields(log.Fields{
			"notificationType": notification.Type,
			"error":            err,
		}).Error("Failed to queue notification")
	}
}

// publishEvent publishes a domain event, logging instead of failing
func publishEvent(uow interfaces.UnitOfWork, event events.Event) {
	if err := uow.EventBus().Publish(event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to publish event")
	}
}
