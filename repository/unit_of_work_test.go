package repository

import (
	"context"
	"testing"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/events"
	"hoopsleague/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitFlushesEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	account := createAccount(t, testDB.DB, "coach", entities.UserRoleCoach, 1000)
	publisher := &recordingPublisher{}

	uow := CreateTestUnitOfWork(testDB.DB, publisher)
	require.NoError(t, uow.Begin(ctx))

	updated, err := uow.AccountRepository().Debit(ctx, account.ID, 400)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.NoError(t, uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:       account.ID,
		OldBalance:      1000,
		NewBalance:      600,
		ChangeAmount:    -400,
		TransactionType: entities.TransactionTypeTeamCreationFee,
	}))
	assert.Empty(t, publisher.Published(), "events wait for the commit")

	require.NoError(t, uow.Commit())
	// Rollback after commit is harmless
	require.NoError(t, uow.Rollback())

	assert.Len(t, publisher.Published(), 1)

	stored, err := NewAccountRepository(testDB.DB).GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(600), stored.Balance)
}

func TestUnitOfWork_RollbackDiscardsEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	account := createAccount(t, testDB.DB, "coach", entities.UserRoleCoach, 1000)
	publisher := &recordingPublisher{}

	uow := CreateTestUnitOfWork(testDB.DB, publisher)
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.AccountRepository().Credit(ctx, account.ID, 250)
	require.NoError(t, err)
	require.NoError(t, uow.EventBus().Publish(events.BalanceChangeEvent{AccountID: account.ID, ChangeAmount: 250}))

	require.NoError(t, uow.Rollback())

	assert.Empty(t, publisher.Published())
	assert.Equal(t, 1, publisher.discarded)

	stored, err := NewAccountRepository(testDB.DB).GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), stored.Balance)
}

func TestUnitOfWork_Lifecycle(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	t.Run("repositories need Begin", func(t *testing.T) {
		uow := CreateTestUnitOfWork(testDB.DB, &recordingPublisher{})
		assert.Panics(t, func() { uow.AccountRepository() })
	})

	t.Run("double Begin", func(t *testing.T) {
		uow := CreateTestUnitOfWork(testDB.DB, &recordingPublisher{})
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		assert.Error(t, uow.Begin(ctx))
	})

	t.Run("rollback without Begin", func(t *testing.T) {
		uow := CreateTestUnitOfWork(testDB.DB, &recordingPublisher{})
		assert.NoError(t, uow.Rollback())
	})

	t.Run("missing publisher", func(t *testing.T) {
		uow := CreateTestUnitOfWork(testDB.DB, nil)
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		assert.Panics(t, func() { uow.EventBus() })
	})
}
