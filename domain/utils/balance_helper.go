package utils

import (
	"context"
	"fmt"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/events"
	"hoopsleague/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RecordBalanceChange records a financial transaction and emits a balance change event.
// This is the single entry point for recording balance changes in the system.
func RecordBalanceChange(ctx context.Context, txRepo interfaces.FinancialTransactionRepository, eventPublisher interfaces.EventPublisher, record *entities.FinancialTransaction) error {
	if err := txRepo.Record(ctx, record); err != nil {
		return fmt.Errorf("failed to record financial transaction: %w", err)
	}

	event := events.BalanceChangeEvent{
		AccountID:       record.AccountID,
		OldBalance:      record.BalanceBefore,
		NewBalance:      record.BalanceAfter,
		ChangeAmount:    record.ChangeAmount,
		TransactionType: record.TransactionType,
		RelatedID:       record.RelatedID,
		RelatedType:     record.RelatedType,
	}
	log.WithFields(log.Fields{
		"accountID":       event.AccountID,
		"oldBalance":      event.OldBalance,
		"newBalance":      event.NewBalance,
		"transactionType": event.TransactionType,
		"changeAmount":    event.ChangeAmount,
	}).Debug("Publishing BalanceChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	return nil
}
