package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hoopsleague/application"
	"hoopsleague/domain/entities"
	"hoopsleague/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLeague struct {
	mock.Mock
}

func (m *mockLeague) CreateTournament(ctx context.Context, tournament *entities.Tournament) error {
	args := m.Called(ctx, tournament)
	return args.Error(0)
}

func (m *mockLeague) GetTournament(ctx context.Context, tournamentID int64) (*entities.Tournament, error) {
	args := m.Called(ctx, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tournament), args.Error(1)
}

func (m *mockLeague) ApproveTournamentCreation(ctx context.Context, tournamentID int64, target entities.TournamentStatus) (*services.TournamentApproval, error) {
	args := m.Called(ctx, tournamentID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TournamentApproval), args.Error(1)
}

func (m *mockLeague) RejectTournamentCreation(ctx context.Context, tournamentID int64, reason string) (*entities.Tournament, error) {
	args := m.Called(ctx, tournamentID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tournament), args.Error(1)
}

func (m *mockLeague) SubmitUpdateRequest(ctx context.Context, tournamentID, requestedBy int64, patch *entities.TournamentPatch) (*entities.TournamentUpdateRequest, error) {
	args := m.Called(ctx, tournamentID, requestedBy, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TournamentUpdateRequest), args.Error(1)
}

func (m *mockLeague) ReviewTournamentUpdateRequest(ctx context.Context, requestID int64, decision entities.ApprovalStatus, reason string, reviewerID int64) (*services.UpdateRequestReview, error) {
	args := m.Called(ctx, requestID, decision, reason, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UpdateRequestReview), args.Error(1)
}

func (m *mockLeague) CreateTeam(ctx context.Context, team *entities.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *mockLeague) ReviewTeamCreation(ctx context.Context, teamID int64, decision entities.ApprovalStatus, reason string) (*services.TeamReview, error) {
	args := m.Called(ctx, teamID, decision, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TeamReview), args.Error(1)
}

func (m *mockLeague) RegisterTeam(ctx context.Context, registration *entities.TeamRegistration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *mockLeague) ReviewTeamRegistration(ctx context.Context, registrationID int64, decision entities.ApprovalStatus, reason string) (*entities.TeamRegistration, error) {
	args := m.Called(ctx, registrationID, decision, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TeamRegistration), args.Error(1)
}

func (m *mockLeague) ScheduleMatch(ctx context.Context, match *entities.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *mockLeague) RecordMatchResult(ctx context.Context, matchID int64, homeScore, awayScore int) (*entities.Match, error) {
	args := m.Called(ctx, matchID, homeScore, awayScore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Match), args.Error(1)
}

func (m *mockLeague) ListMatches(ctx context.Context, tournamentID int64) ([]*entities.Match, error) {
	args := m.Called(ctx, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Match), args.Error(1)
}

func (m *mockLeague) ListStandings(ctx context.Context, tournamentID int64) ([]*entities.Standing, error) {
	args := m.Called(ctx, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Standing), args.Error(1)
}

func (m *mockLeague) RebuildStandings(ctx context.Context, tournamentID int64) ([]*entities.Standing, error) {
	args := m.Called(ctx, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Standing), args.Error(1)
}

func (m *mockLeague) AdvancePlayoffs(ctx context.Context, tournamentID int64) (*services.AdvanceResult, error) {
	args := m.Called(ctx, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AdvanceResult), args.Error(1)
}

func (m *mockLeague) ListTransactions(ctx context.Context, accountID int64, limit int) ([]*entities.FinancialTransaction, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FinancialTransaction), args.Error(1)
}

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) Tick(ctx context.Context) (*entities.SchedulerRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SchedulerRun), args.Error(1)
}

func newTestServer(league *mockLeague, scheduler *mockScheduler) http.Handler {
	return NewRouter(NewHandler(league, scheduler), nil)
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	decoded := map[string]interface{}{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestApproveTournament(t *testing.T) {
	t.Run("returns fee and settlement", func(t *testing.T) {
		league := new(mockLeague)
		league.On("ApproveTournamentCreation", mock.Anything, int64(7), entities.TournamentStatusRegistration).
			Return(&services.TournamentApproval{
				Tournament: &entities.Tournament{ID: 7, Name: "Spring Cup", Status: entities.TournamentStatusRegistration},
				Fee:        300,
				Settlement: &services.PoolSettlement{Amount: 300, Share: 150, Distributed: 300, AccountIDs: []int64{1, 2}},
			}, nil)

		rec, body := doRequest(t, newTestServer(league, nil), http.MethodPost, "/admin/tournaments/7/approve", `{"target":"registration"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(300), body["fee"])
		tournament := body["tournament"].(map[string]interface{})
		assert.Equal(t, "registration", tournament["status"])
		settlement := body["settlement"].(map[string]interface{})
		assert.Equal(t, float64(150), settlement["share"])
		league.AssertExpectations(t)
	})

	t.Run("insufficient funds reports the shortage", func(t *testing.T) {
		league := new(mockLeague)
		league.On("ApproveTournamentCreation", mock.Anything, int64(7), entities.TournamentStatusOngoing).
			Return(nil, &services.InsufficientFundsError{Payer: "sponsor", AccountID: 3, Required: 500, Available: 200, Shortage: 300})

		rec, body := doRequest(t, newTestServer(league, nil), http.MethodPost, "/admin/tournaments/7/approve", `{"target":"ongoing"}`)

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Equal(t, float64(300), body["shortage"])
		assert.Equal(t, float64(500), body["required"])
		assert.Equal(t, float64(200), body["available"])
	})

	t.Run("invalid id", func(t *testing.T) {
		league := new(mockLeague)

		rec, _ := doRequest(t, newTestServer(league, nil), http.MethodPost, "/admin/tournaments/abc/approve", `{"target":"ongoing"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		league.AssertNotCalled(t, "ApproveTournamentCreation", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		league := new(mockLeague)

		rec, body := doRequest(t, newTestServer(league, nil), http.MethodPost, "/admin/tournaments/7/approve", `{"target":"ongoing","fee":0}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, body["error"], "unknown key")
	})
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid transition", &services.InvalidStateTransitionError{Entity: "tournament", From: "completed", To: "ongoing"}, http.StatusConflict},
		{"already processed", &services.AlreadyProcessedError{Entity: "team", CurrentStatus: "approved"}, http.StatusConflict},
		{"not found", &services.NotFoundError{Entity: "tournament", ID: 9}, http.StatusNotFound},
		{"validation", &services.ValidationError{Field: "reason", Reason: "is required"}, http.StatusUnprocessableEntity},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			league := new(mockLeague)
			league.On("RejectTournamentCreation", mock.Anything, int64(9), "late").Return(nil, tt.err)

			rec, body := doRequest(t, newTestServer(league, nil), http.MethodPost, "/admin/tournaments/9/reject", `{"reason":"late"}`)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, body["error"], "connection reset")
			}
		})
	}
}

func TestRecordMatchResult(t *testing.T) {
	t.Run("scores are required", func(t *testing.T) {
		league := new(mockLeague)

		rec, _ := doRequest(t, newTestServer(league, nil), http.MethodPost, "/admin/matches/4/result", `{"home_score":80}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		league.AssertNotCalled(t, "RecordMatchResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("records the final score", func(t *testing.T) {
		home, away := 88, 81
		league := new(mockLeague)
		league.On("RecordMatchResult", mock.Anything, int64(4), 88, 81).
			Return(&entities.Match{ID: 4, Status: entities.MatchStatusCompleted, HomeScore: &home, AwayScore: &away}, nil)

		rec, body := doRequest(t, newTestServer(league, nil), http.MethodPost, "/admin/matches/4/result", `{"home_score":88,"away_score":81}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		match := body["match"].(map[string]interface{})
		assert.Equal(t, "completed", match["status"])
		assert.Equal(t, float64(88), match["home_score"])
	})
}

func TestCreateTeam(t *testing.T) {
	league := new(mockLeague)
	league.On("CreateTeam", mock.Anything, mock.MatchedBy(func(team *entities.Team) bool {
		return team.Name == "Harbor Hawks" && team.CoachID == 12
	})).Run(func(args mock.Arguments) {
		team := args.Get(1).(*entities.Team)
		team.ID = 31
		team.Status = entities.ApprovalStatusPending
	}).Return(nil)

	rec, body := doRequest(t, newTestServer(league, nil), http.MethodPost, "/admin/teams", `{"name":"Harbor Hawks","coach_id":12}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	team := body["team"].(map[string]interface{})
	assert.Equal(t, float64(31), team["id"])
	assert.Equal(t, "pending", team["status"])
	league.AssertExpectations(t)
}

func TestListTransactions(t *testing.T) {
	t.Run("passes the limit through", func(t *testing.T) {
		league := new(mockLeague)
		league.On("ListTransactions", mock.Anything, int64(5), 20).Return([]*entities.FinancialTransaction{
			{ID: 1, AccountID: 5, BalanceBefore: 1000, BalanceAfter: 700, ChangeAmount: -300, TransactionType: entities.TransactionTypeTournamentCreationFee},
		}, nil)

		rec, body := doRequest(t, newTestServer(league, nil), http.MethodGet, "/admin/accounts/5/transactions?limit=20", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		transactions := body["transactions"].([]interface{})
		require.Len(t, transactions, 1)
		first := transactions[0].(map[string]interface{})
		assert.Equal(t, float64(-300), first["change_amount"])
	})

	t.Run("non numeric limit", func(t *testing.T) {
		league := new(mockLeague)

		rec, _ := doRequest(t, newTestServer(league, nil), http.MethodGet, "/admin/accounts/5/transactions?limit=all", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListStandings(t *testing.T) {
	league := new(mockLeague)
	league.On("ListStandings", mock.Anything, int64(2)).Return([]*entities.Standing{
		{TeamID: 10, GroupName: "A", Position: 1, Points: 6, Wins: 2},
		{TeamID: 11, GroupName: "A", Position: 2, Points: 3, Wins: 1, Losses: 1},
	}, nil)

	rec, body := doRequest(t, newTestServer(league, nil), http.MethodGet, "/admin/tournaments/2/standings", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	standings := body["standings"].([]interface{})
	require.Len(t, standings, 2)
	assert.Equal(t, float64(10), standings[0].(map[string]interface{})["team_id"])
}

func TestSchedulerTick(t *testing.T) {
	t.Run("returns the run summary", func(t *testing.T) {
		scheduler := new(mockScheduler)
		now := time.Now().UTC()
		scheduler.On("Tick", mock.Anything).Return(&entities.SchedulerRun{
			ID:         3,
			StartedAt:  now,
			FinishedAt: now,
			Summary:    entities.SchedulerRunSummary{PromotedToOngoing: 1, StandingsApplied: 2},
		}, nil)

		rec, body := doRequest(t, newTestServer(new(mockLeague), scheduler), http.MethodPost, "/admin/scheduler/tick", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		summary := body["summary"].(map[string]interface{})
		assert.Equal(t, float64(2), summary["standings_applied"])
	})

	t.Run("overlapping tick conflicts", func(t *testing.T) {
		scheduler := new(mockScheduler)
		scheduler.On("Tick", mock.Anything).Return(nil, application.ErrTickInProgress)

		rec, _ := doRequest(t, newTestServer(new(mockLeague), scheduler), http.MethodPost, "/admin/scheduler/tick", "")

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHealthz(t *testing.T) {
	rec, body := doRequest(t, newTestServer(new(mockLeague), nil), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}
