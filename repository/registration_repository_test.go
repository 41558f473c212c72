package repository

import (
	"context"
	"testing"

	"hoopsleague/domain/entities"
	"hoopsleague/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationRepository_ApprovalCreatesStanding(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRegistrationRepository(testDB.DB)
	standings := NewStandingRepository(testDB.DB)
	ctx := context.Background()

	sponsor := createAccount(t, testDB.DB, "sponsor", entities.UserRoleSponsor, 0)
	coach := createAccount(t, testDB.DB, "coach", entities.UserRoleCoach, 0)
	tournament := createTournament(t, testDB.DB, sponsor.ID, entities.TournamentStatusRegistration)
	team := createApprovedTeam(t, testDB.DB, coach.ID, "Riverside Rockets")

	registration := testutil.CreateTestRegistration(tournament.ID, team.ID, "A")
	require.NoError(t, repo.Create(ctx, registration))
	assert.NotZero(t, registration.ID)

	t.Run("pending registration has no standing", func(t *testing.T) {
		list, err := standings.ListByTournament(ctx, tournament.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("approving creates exactly one standing", func(t *testing.T) {
		registration.Status = entities.ApprovalStatusApproved
		require.NoError(t, repo.Update(ctx, registration))

		// A second update with the same status must not add another row
		require.NoError(t, repo.Update(ctx, registration))

		list, err := standings.ListByTournament(ctx, tournament.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, team.ID, list[0].TeamID)
		assert.Equal(t, "A", list[0].GroupName)
		assert.Equal(t, 0, list[0].Points)

		count, err := repo.CountApproved(ctx, tournament.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		duplicate := testutil.CreateTestRegistration(tournament.ID, team.ID, "B")
		assert.Error(t, repo.Create(ctx, duplicate))
	})
}

func TestRegistrationRepository_Reject(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRegistrationRepository(testDB.DB)
	ctx := context.Background()

	sponsor := createAccount(t, testDB.DB, "sponsor", entities.UserRoleSponsor, 0)
	coach := createAccount(t, testDB.DB, "coach", entities.UserRoleCoach, 0)
	tournament := createTournament(t, testDB.DB, sponsor.ID, entities.TournamentStatusRegistration)
	team := createApprovedTeam(t, testDB.DB, coach.ID, "Late Arrivals")

	registration := testutil.CreateTestRegistration(tournament.ID, team.ID, "")
	require.NoError(t, repo.Create(ctx, registration))

	reason := "roster incomplete"
	registration.Status = entities.ApprovalStatusRejected
	registration.RejectionReason = &reason
	require.NoError(t, repo.Update(ctx, registration))

	stored, err := repo.GetByID(ctx, registration.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entities.ApprovalStatusRejected, stored.Status)
	assert.Equal(t, reason, *stored.RejectionReason)

	standings, err := NewStandingRepository(testDB.DB).ListByTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Empty(t, standings)
}
