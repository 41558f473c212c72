package repository

import (
	"context"
	"testing"

	"hoopsleague/domain/entities"
	"hoopsleague/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTournamentRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTournamentRepository(testDB.DB)
	ctx := context.Background()
	sponsor := createAccount(t, testDB.DB, "sponsor", entities.UserRoleSponsor, 100000)

	t.Run("tournament not found", func(t *testing.T) {
		tournament, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, tournament)
	})

	t.Run("defaults to draft", func(t *testing.T) {
		tournament := testutil.CreateTestTournament(sponsor.ID, "Autumn Classic")
		tournament.Status = ""

		require.NoError(t, repo.Create(ctx, tournament))
		assert.NotZero(t, tournament.ID)
		assert.Equal(t, entities.TournamentStatusDraft, tournament.Status)
		assert.Equal(t, 0, tournament.CurrentTeams)

		stored, err := repo.GetByID(ctx, tournament.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "Autumn Classic", stored.Name)
		assert.True(t, stored.StartDate.Equal(tournament.StartDate))
	})

	t.Run("end before start is rejected by the schema", func(t *testing.T) {
		tournament := testutil.CreateTestTournament(sponsor.ID, "Backwards")
		tournament.EndDate = tournament.StartDate.Add(-1)

		assert.Error(t, repo.Create(ctx, tournament))
	})
}

func TestTournamentRepository_Update(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTournamentRepository(testDB.DB)
	ctx := context.Background()
	sponsor := createAccount(t, testDB.DB, "sponsor", entities.UserRoleSponsor, 0)
	tournament := createTournament(t, testDB.DB, sponsor.ID, entities.TournamentStatusDraft)

	reason := "venue unavailable"
	tournament.Status = entities.TournamentStatusCancelled
	tournament.RejectionReason = &reason
	tournament.UpdateCount = 1
	require.NoError(t, repo.Update(ctx, tournament))

	stored, err := repo.GetByID(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.TournamentStatusCancelled, stored.Status)
	require.NotNil(t, stored.RejectionReason)
	assert.Equal(t, reason, *stored.RejectionReason)
	assert.Equal(t, 1, stored.UpdateCount)

	t.Run("status only", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, tournament.ID, entities.TournamentStatusDraft))
		stored, err := repo.GetByID(ctx, tournament.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.TournamentStatusDraft, stored.Status)
	})

	t.Run("status of unknown tournament", func(t *testing.T) {
		assert.Error(t, repo.UpdateStatus(ctx, 999999, entities.TournamentStatusOngoing))
	})
}

func TestTournamentRepository_IncrementCurrentTeams(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTournamentRepository(testDB.DB)
	ctx := context.Background()
	sponsor := createAccount(t, testDB.DB, "sponsor", entities.UserRoleSponsor, 0)

	tournament := testutil.CreateTestTournament(sponsor.ID, "Small Cup")
	tournament.MaxTeams = 2
	require.NoError(t, repo.Create(ctx, tournament))

	for i := 0; i < 2; i++ {
		ok, err := repo.IncrementCurrentTeams(ctx, tournament.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := repo.IncrementCurrentTeams(ctx, tournament.ID)
	require.NoError(t, err)
	assert.False(t, ok, "a full tournament must not take another team")

	stored, err := repo.GetByID(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.CurrentTeams)
}

func TestTournamentRepository_ListByStatus(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTournamentRepository(testDB.DB)
	ctx := context.Background()
	sponsor := createAccount(t, testDB.DB, "sponsor", entities.UserRoleSponsor, 0)

	first := createTournament(t, testDB.DB, sponsor.ID, entities.TournamentStatusOngoing)
	createTournament(t, testDB.DB, sponsor.ID, entities.TournamentStatusDraft)
	second := createTournament(t, testDB.DB, sponsor.ID, entities.TournamentStatusOngoing)

	ongoing, err := repo.ListByStatus(ctx, entities.TournamentStatusOngoing)
	require.NoError(t, err)
	require.Len(t, ongoing, 2)
	assert.Equal(t, first.ID, ongoing[0].ID)
	assert.Equal(t, second.ID, ongoing[1].ID)

	completed, err := repo.ListByStatus(ctx, entities.TournamentStatusCompleted)
	require.NoError(t, err)
	assert.Empty(t, completed)
}
