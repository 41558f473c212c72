package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hoopsleague/domain/entities"
	"hoopsleague/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateRequestRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUpdateRequestRepository(testDB.DB)
	ctx := context.Background()

	admin := createAccount(t, testDB.DB, "admin", entities.UserRoleAdmin, 0)
	sponsor := createAccount(t, testDB.DB, "sponsor", entities.UserRoleSponsor, 0)
	tournament := createTournament(t, testDB.DB, sponsor.ID, entities.TournamentStatusRegistration)

	prize := int64(25000)
	changes, err := json.Marshal(entities.TournamentPatch{TotalPrizeMoney: &prize})
	require.NoError(t, err)

	request := &entities.TournamentUpdateRequest{
		TournamentID:    tournament.ID,
		RequestedBy:     sponsor.ID,
		ProposedChanges: changes,
	}
	require.NoError(t, repo.Create(ctx, request))
	assert.Equal(t, entities.ApprovalStatusPending, request.Status)

	t.Run("stored changes decode back", func(t *testing.T) {
		stored, err := repo.GetByID(ctx, request.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)

		patch, err := entities.DecodeTournamentPatch(stored.ProposedChanges)
		require.NoError(t, err)
		require.NotNil(t, patch.TotalPrizeMoney)
		assert.Equal(t, prize, *patch.TotalPrizeMoney)
	})

	t.Run("review is recorded", func(t *testing.T) {
		reviewedAt := time.Now().UTC().Truncate(time.Microsecond)
		request.Status = entities.ApprovalStatusApproved
		request.ReviewedBy = &admin.ID
		request.ReviewedAt = &reviewedAt
		require.NoError(t, repo.Update(ctx, request))

		stored, err := repo.GetByID(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.ApprovalStatusApproved, stored.Status)
		require.NotNil(t, stored.ReviewedBy)
		assert.Equal(t, admin.ID, *stored.ReviewedBy)
		assert.True(t, stored.ReviewedAt.Equal(reviewedAt))
	})

	t.Run("unknown request", func(t *testing.T) {
		stored, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, stored)

		missing := &entities.TournamentUpdateRequest{ID: 999999, Status: entities.ApprovalStatusRejected}
		assert.Error(t, repo.Update(ctx, missing))
	})
}

func TestTeamRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTeamRepository(testDB.DB)
	ctx := context.Background()
	coach := createAccount(t, testDB.DB, "coach", entities.UserRoleCoach, 0)

	team := testutil.CreateTestTeam(coach.ID, "Bayview Bulls")
	require.NoError(t, repo.Create(ctx, team))
	assert.Equal(t, int64(0), team.EntryFee)

	approvedAt := time.Now().UTC().Truncate(time.Microsecond)
	team.Status = entities.ApprovalStatusApproved
	team.EntryFee = 500000
	team.ApprovedAt = &approvedAt
	require.NoError(t, repo.Update(ctx, team))

	stored, err := repo.GetByID(ctx, team.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entities.ApprovalStatusApproved, stored.Status)
	assert.Equal(t, int64(500000), stored.EntryFee)
	assert.True(t, stored.ApprovedAt.Equal(approvedAt))

	missing, err := repo.GetByID(ctx, 999999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
