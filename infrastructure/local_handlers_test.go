package infrastructure

import (
	"context"
	"errors"
	"testing"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotificationSink struct {
	mock.Mock
}

func (m *mockNotificationSink) Notify(ctx context.Context, notification entities.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

type countingMetrics struct {
	sent, failed int
	changes      map[entities.TransactionType]int
}

func (c *countingMetrics) IncNotificationSent()   { c.sent++ }
func (c *countingMetrics) IncNotificationFailed() { c.failed++ }
func (c *countingMetrics) IncBalanceChange(transactionType entities.TransactionType) {
	if c.changes == nil {
		c.changes = map[entities.TransactionType]int{}
	}
	c.changes[transactionType]++
}

func TestRegisterNotificationHandler(t *testing.T) {
	notification := entities.ForUser(5, entities.NotificationTypeTournamentApproved, "Approved", "Your tournament is open")

	t.Run("delivered", func(t *testing.T) {
		publisher := NewNATSEventPublisher(nil, NewEventSubjectMapper())
		sink := &mockNotificationSink{}
		counter := &countingMetrics{}
		sink.On("Notify", mock.Anything, notification).Return(nil).Once()

		RegisterNotificationHandler(publisher, sink, counter)
		require.NoError(t, publisher.Publish(events.NotificationRequestedEvent{Notification: notification}))

		sink.AssertExpectations(t)
		assert.Equal(t, 1, counter.sent)
		assert.Equal(t, 0, counter.failed)
	})

	t.Run("sink failure is swallowed and counted", func(t *testing.T) {
		publisher := NewNATSEventPublisher(nil, NewEventSubjectMapper())
		sink := &mockNotificationSink{}
		counter := &countingMetrics{}
		sink.On("Notify", mock.Anything, notification).Return(errors.New("db down")).Once()

		RegisterNotificationHandler(publisher, sink, counter)
		err := publisher.Publish(events.NotificationRequestedEvent{Notification: notification})

		assert.NoError(t, err)
		sink.AssertExpectations(t)
		assert.Equal(t, 0, counter.sent)
		assert.Equal(t, 1, counter.failed)
	})

	t.Run("nothing delivered before commit", func(t *testing.T) {
		publisher := NewNATSEventPublisher(nil, NewEventSubjectMapper())
		sink := &mockNotificationSink{}
		RegisterNotificationHandler(publisher, sink, nil)

		transactional := NewTransactionalPublisher(publisher)
		require.NoError(t, transactional.Publish(events.NotificationRequestedEvent{Notification: notification}))
		transactional.Discard()

		sink.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})
}

func TestRegisterBalanceChangeMetrics(t *testing.T) {
	publisher := NewNATSEventPublisher(nil, NewEventSubjectMapper())
	counter := &countingMetrics{}
	RegisterBalanceChangeMetrics(publisher, counter)

	require.NoError(t, publisher.Publish(events.BalanceChangeEvent{AccountID: 1, TransactionType: entities.TransactionTypeTournamentCreationFee}))
	require.NoError(t, publisher.Publish(events.BalanceChangeEvent{AccountID: 2, TransactionType: entities.TransactionTypeTournamentCreationFee}))

	assert.Equal(t, 2, counter.changes[entities.TransactionTypeTournamentCreationFee])
}
