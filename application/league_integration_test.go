package application_test

import (
	"context"
	"testing"
	"time"

	"hoopsleague/application"
	"hoopsleague/database"
	"hoopsleague/domain/entities"
	"hoopsleague/domain/services"
	"hoopsleague/infrastructure"
	"hoopsleague/repository"
	"hoopsleague/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTeamFee int64 = 500_000

type leagueHarness struct {
	db      *database.DB
	league  *application.LeagueService
	worker  *application.SchedulerWorker
	sponsor *entities.Account
	coach   *entities.Account
	admins  []*entities.Account
}

func setupLeague(t *testing.T) *leagueHarness {
	t.Helper()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := infrastructure.NewNATSEventPublisher(nil, infrastructure.NewEventSubjectMapper())
	notifications := repository.NewNotificationRepository(testDB.DB)
	infrastructure.RegisterNotificationHandler(publisher, infrastructure.NewDatabaseNotificationSink(notifications), nil)

	uowFactory := infrastructure.NewUnitOfWorkFactory(testDB.DB, publisher)
	lineups := services.NewLineupAutoFiller(repository.NewAthleteRepository(testDB.DB))
	lifecycle := services.NewTournamentLifecycle(services.NewLedger(), services.NewFeePolicy(testTeamFee))
	standings := services.NewStandingsEngine()
	advancer := services.NewPlayoffAdvancer(lineups)

	accounts := repository.NewAccountRepository(testDB.DB)
	h := &leagueHarness{
		db:     testDB.DB,
		league: application.NewLeagueService(uowFactory, lifecycle, standings, advancer, nil),
		worker: application.NewSchedulerWorker(uowFactory, lifecycle, standings, advancer, lineups, nil, application.SchedulerSettings{}),
	}

	var err error
	h.sponsor, err = accounts.Create(ctx, "sponsor", entities.UserRoleSponsor, 1_000_000)
	require.NoError(t, err)
	h.coach, err = accounts.Create(ctx, "coach", entities.UserRoleCoach, 2_000_000)
	require.NoError(t, err)
	for _, name := range []string{"admin_a", "admin_b"} {
		admin, err := accounts.Create(ctx, name, entities.UserRoleAdmin, 0)
		require.NoError(t, err)
		h.admins = append(h.admins, admin)
	}
	return h
}

func (h *leagueHarness) balance(t *testing.T, id int64) int64 {
	t.Helper()
	account, err := repository.NewAccountRepository(h.db).GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, account)
	return account.Balance
}

func (h *leagueHarness) total(t *testing.T) int64 {
	total := h.balance(t, h.sponsor.ID) + h.balance(t, h.coach.ID)
	for _, admin := range h.admins {
		total += h.balance(t, admin.ID)
	}
	return total
}

func TestLeagueService_TournamentLifecycleEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	t.Parallel()

	h := setupLeague(t)
	ctx := context.Background()
	startingTotal := h.total(t)

	now := time.Now().UTC()
	tournament := &entities.Tournament{
		Name:                 "City Championship",
		SponsorID:            h.sponsor.ID,
		MaxTeams:             2,
		TotalPrizeMoney:      100_000,
		RegistrationDeadline: now.Add(-2 * time.Hour),
		StartDate:            now.Add(-time.Hour),
		EndDate:              now.Add(7 * 24 * time.Hour),
	}
	require.NoError(t, h.league.CreateTournament(ctx, tournament))
	assert.Equal(t, entities.TournamentStatusDraft, tournament.Status)

	// 1% of the prize pool split evenly between the two admins
	approval, err := h.league.ApproveTournamentCreation(ctx, tournament.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), approval.Fee)
	assert.Equal(t, entities.TournamentStatusRegistration, approval.Tournament.Status)
	assert.Equal(t, int64(999_000), h.balance(t, h.sponsor.ID))
	assert.Equal(t, int64(500), h.balance(t, h.admins[0].ID))
	assert.Equal(t, int64(500), h.balance(t, h.admins[1].ID))

	t.Run("second approval is rejected", func(t *testing.T) {
		_, err := h.league.ApproveTournamentCreation(ctx, tournament.ID, "")
		var processed *services.AlreadyProcessedError
		assert.ErrorAs(t, err, &processed)
	})

	var teams []*entities.Team
	for _, name := range []string{"North Stars", "South Suns"} {
		team := &entities.Team{Name: name, CoachID: h.coach.ID}
		require.NoError(t, h.league.CreateTeam(ctx, team))

		review, err := h.league.ReviewTeamCreation(ctx, team.ID, entities.ApprovalStatusApproved, "")
		require.NoError(t, err)
		assert.Equal(t, testTeamFee, review.Fee)
		teams = append(teams, review.Team)
	}
	assert.Equal(t, int64(1_000_000), h.balance(t, h.coach.ID))

	for _, team := range teams {
		registration := &entities.TeamRegistration{TournamentID: tournament.ID, TeamID: team.ID, GroupName: "A"}
		require.NoError(t, h.league.RegisterTeam(ctx, registration))
		_, err := h.league.ReviewTeamRegistration(ctx, registration.ID, entities.ApprovalStatusApproved, "")
		require.NoError(t, err)
	}

	standings, err := h.league.ListStandings(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, standings, 2, "each approved registration gets a standing")

	// Start date has passed and the tournament is full
	run, err := h.worker.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Summary.PromotedToOngoing)
	assert.Equal(t, 0, run.Summary.Failures)

	current, err := h.league.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.TournamentStatusOngoing, current.Status)
	assert.Equal(t, 2, current.CurrentTeams)

	match := &entities.Match{
		TournamentID: tournament.ID,
		Stage:        entities.MatchStageGroup,
		HomeTeamID:   &teams[0].ID,
		AwayTeamID:   &teams[1].ID,
	}
	require.NoError(t, h.league.ScheduleMatch(ctx, match))

	recorded, err := h.league.RecordMatchResult(ctx, match.ID, 81, 92)
	require.NoError(t, err)
	assert.Equal(t, entities.MatchStatusCompleted, recorded.Status)

	standings, err = h.league.ListStandings(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, teams[1].ID, standings[0].TeamID, "the away winner leads")
	assert.Equal(t, 1, standings[0].Wins)
	assert.Equal(t, 11, standings[0].GoalDifference)
	assert.Equal(t, 1, standings[1].Losses)

	t.Run("result counts once", func(t *testing.T) {
		_, err := h.league.RecordMatchResult(ctx, match.ID, 100, 0)
		var processed *services.AlreadyProcessedError
		require.ErrorAs(t, err, &processed)

		run, err := h.worker.Tick(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, run.Summary.StandingsApplied)

		rebuilt, err := h.league.RebuildStandings(ctx, tournament.ID)
		require.NoError(t, err)
		for _, s := range rebuilt {
			assert.Equal(t, 1, s.MatchesPlayed)
		}
	})

	// Money only moved between accounts
	assert.Equal(t, startingTotal, h.total(t))

	history, err := h.league.ListTransactions(ctx, h.sponsor.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entities.TransactionTypeTournamentCreationFee, history[0].TransactionType)
	assert.Equal(t, int64(-1000), history[0].ChangeAmount)

	notifications, err := repository.NewNotificationRepository(h.db).ListByUser(ctx, h.sponsor.ID, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, notifications, "notifications are delivered after commit")
}

func TestLeagueService_InsufficientFundsRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	t.Parallel()

	h := setupLeague(t)
	ctx := context.Background()

	now := time.Now().UTC()
	tournament := &entities.Tournament{
		Name:                 "Too Expensive",
		SponsorID:            h.sponsor.ID,
		MaxTeams:             4,
		TotalPrizeMoney:      500_000_000,
		RegistrationDeadline: now.Add(24 * time.Hour),
		StartDate:            now.Add(48 * time.Hour),
		EndDate:              now.Add(96 * time.Hour),
	}
	require.NoError(t, h.league.CreateTournament(ctx, tournament))

	_, err := h.league.ApproveTournamentCreation(ctx, tournament.ID, entities.TournamentStatusOngoing)
	var insufficient *services.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(5_000_000), insufficient.Required)
	assert.Equal(t, int64(1_000_000), insufficient.Available)
	assert.Equal(t, int64(4_000_000), insufficient.Shortage)

	current, err := h.league.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.TournamentStatusDraft, current.Status)
	assert.Equal(t, int64(1_000_000), h.balance(t, h.sponsor.ID))

	history, err := h.league.ListTransactions(ctx, h.sponsor.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}
