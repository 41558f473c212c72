package testhelpers

import (
	"context"
	"time"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/events"
	"hoopsleague/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAdminsForUpdate(ctx context.Context) ([]*entities.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, username string, role entities.UserRole, balance int64) (*entities.Account, error) {
	args := m.Called(ctx, username, role, balance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Credit(ctx context.Context, id int64, amount int64) (*entities.Account, error) {
	args := m.Called(ctx, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Debit(ctx context.Context, id int64, amount int64) (*entities.Account, error) {
	args := m.Called(ctx, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

// MockFinancialTransactionRepository is a mock implementation of FinancialTransactionRepository
type MockFinancialTransactionRepository struct {
	mock.Mock
}

func (m *MockFinancialTransactionRepository) Record(ctx context.Context, tx *entities.FinancialTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockFinancialTransactionRepository) ListByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.FinancialTransaction, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FinancialTransaction), args.Error(1)
}

func (m *MockFinancialTransactionRepository) ListByRelated(ctx context.Context, relatedType entities.RelatedType, relatedID int64) ([]*entities.FinancialTransaction, error) {
	args := m.Called(ctx, relatedType, relatedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FinancialTransaction), args.Error(1)
}

// MockTournamentRepository is a mock implementation of TournamentRepository
type MockTournamentRepository struct {
	mock.Mock
}

func (m *MockTournamentRepository) GetByID(ctx context.Context, id int64) (*entities.Tournament, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tournament), args.Error(1)
}

func (m *MockTournamentRepository) GetForUpdate(ctx context.Context, id int64) (*entities.Tournament, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tournament), args.Error(1)
}

func (m *MockTournamentRepository) Create(ctx context.Context, tournament *entities.Tournament) error {
	args := m.Called(ctx, tournament)
	return args.Error(0)
}

func (m *MockTournamentRepository) Update(ctx context.Context, tournament *entities.Tournament) error {
	args := m.Called(ctx, tournament)
	return args.Error(0)
}

func (m *MockTournamentRepository) UpdateStatus(ctx context.Context, id int64, status entities.TournamentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTournamentRepository) IncrementCurrentTeams(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTournamentRepository) ListByStatus(ctx context.Context, status entities.TournamentStatus) ([]*entities.Tournament, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Tournament), args.Error(1)
}

// MockTeamRepository is a mock implementation of TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id int64) (*entities.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *MockTeamRepository) GetForUpdate(ctx context.Context, id int64) (*entities.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *MockTeamRepository) Create(ctx context.Context, team *entities.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) Update(ctx context.Context, team *entities.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

// MockRegistrationRepository is a mock implementation of RegistrationRepository
type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) GetByID(ctx context.Context, id int64) (*entities.TeamRegistration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TeamRegistration), args.Error(1)
}

func (m *MockRegistrationRepository) GetForUpdate(ctx context.Context, id int64) (*entities.TeamRegistration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TeamRegistration), args.Error(1)
}

func (m *MockRegistrationRepository) Create(ctx context.Context, registration *entities.TeamRegistration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *MockRegistrationRepository) Update(ctx context.Context, registration *entities.TeamRegistration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *MockRegistrationRepository) CountApproved(ctx context.Context, tournamentID int64) (int, error) {
	args := m.Called(ctx, tournamentID)
	return args.Int(0), args.Error(1)
}

// MockStandingRepository is a mock implementation of StandingRepository
type MockStandingRepository struct {
	mock.Mock
}

func (m *MockStandingRepository) GetForUpdate(ctx context.Context, tournamentID, teamID int64) (*entities.Standing, error) {
	args := m.Called(ctx, tournamentID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Standing), args.Error(1)
}

func (m *MockStandingRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]*entities.Standing, error) {
	args := m.Called(ctx, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Standing), args.Error(1)
}

func (m *MockStandingRepository) Update(ctx context.Context, standing *entities.Standing) error {
	args := m.Called(ctx, standing)
	return args.Error(0)
}

func (m *MockStandingRepository) UpdatePositions(ctx context.Context, standings []*entities.Standing) error {
	args := m.Called(ctx, standings)
	return args.Error(0)
}

// MockMatchRepository is a mock implementation of MatchRepository
type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) GetByID(ctx context.Context, id int64) (*entities.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Match), args.Error(1)
}

func (m *MockMatchRepository) GetForUpdate(ctx context.Context, id int64) (*entities.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Match), args.Error(1)
}

func (m *MockMatchRepository) Create(ctx context.Context, match *entities.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]*entities.Match, error) {
	args := m.Called(ctx, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Match), args.Error(1)
}

func (m *MockMatchRepository) UpdateResult(ctx context.Context, match *entities.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) MarkStandingsApplied(ctx context.Context, id int64, appliedAt time.Time) error {
	args := m.Called(ctx, id, appliedAt)
	return args.Error(0)
}

func (m *MockMatchRepository) AssignTeams(ctx context.Context, id int64, homeTeamID, awayTeamID int64) (bool, error) {
	args := m.Called(ctx, id, homeTeamID, awayTeamID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMatchRepository) ListUnappliedResults(ctx context.Context) ([]*entities.Match, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Match), args.Error(1)
}

func (m *MockMatchRepository) ListScheduledBefore(ctx context.Context, cutoff time.Time) ([]*entities.Match, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Match), args.Error(1)
}

// MockUpdateRequestRepository is a mock implementation of UpdateRequestRepository
type MockUpdateRequestRepository struct {
	mock.Mock
}

func (m *MockUpdateRequestRepository) GetByID(ctx context.Context, id int64) (*entities.TournamentUpdateRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TournamentUpdateRequest), args.Error(1)
}

func (m *MockUpdateRequestRepository) GetForUpdate(ctx context.Context, id int64) (*entities.TournamentUpdateRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TournamentUpdateRequest), args.Error(1)
}

func (m *MockUpdateRequestRepository) Create(ctx context.Context, request *entities.TournamentUpdateRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockUpdateRequestRepository) Update(ctx context.Context, request *entities.TournamentUpdateRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

// MockLineupRepository is a mock implementation of LineupRepository
type MockLineupRepository struct {
	mock.Mock
}

func (m *MockLineupRepository) Exists(ctx context.Context, matchID, teamID int64) (bool, error) {
	args := m.Called(ctx, matchID, teamID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLineupRepository) CreateEntries(ctx context.Context, entries []*entities.LineupEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLineupRepository) ListByMatchAndTeam(ctx context.Context, matchID, teamID int64) ([]*entities.LineupEntry, error) {
	args := m.Called(ctx, matchID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LineupEntry), args.Error(1)
}

// MockSchedulerRunRepository is a mock implementation of SchedulerRunRepository
type MockSchedulerRunRepository struct {
	mock.Mock
}

func (m *MockSchedulerRunRepository) Record(ctx context.Context, run *entities.SchedulerRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSchedulerRunRepository) GetLatest(ctx context.Context) (*entities.SchedulerRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SchedulerRun), args.Error(1)
}

// MockRosterProvider is a mock implementation of RosterProvider
type MockRosterProvider struct {
	mock.Mock
}

func (m *MockRosterProvider) Roster(ctx context.Context, teamID int64) ([]*entities.Athlete, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Athlete), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockUnitOfWork hands out the mock repositories it holds
type MockUnitOfWork struct {
	Accounts       *MockAccountRepository
	Transactions   *MockFinancialTransactionRepository
	Tournaments    *MockTournamentRepository
	Teams          *MockTeamRepository
	Registrations  *MockRegistrationRepository
	Standings      *MockStandingRepository
	Matches        *MockMatchRepository
	UpdateRequests *MockUpdateRequestRepository
	Lineups        *MockLineupRepository
	SchedulerRuns  *MockSchedulerRunRepository
	Events         *MockEventPublisher

	// FakeAccounts replaces Accounts when set
	FakeAccounts *FakeAccountRepository
}

// NewMockUnitOfWork creates a unit of work backed by fresh mocks
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Accounts:       new(MockAccountRepository),
		Transactions:   new(MockFinancialTransactionRepository),
		Tournaments:    new(MockTournamentRepository),
		Teams:          new(MockTeamRepository),
		Registrations:  new(MockRegistrationRepository),
		Standings:      new(MockStandingRepository),
		Matches:        new(MockMatchRepository),
		UpdateRequests: new(MockUpdateRequestRepository),
		Lineups:        new(MockLineupRepository),
		SchedulerRuns:  new(MockSchedulerRunRepository),
		Events:         new(MockEventPublisher),
	}
}

// WithFakeAccounts swaps the account mock for an in-memory repository seeded with accounts
func (u *MockUnitOfWork) WithFakeAccounts(accounts ...*entities.Account) *FakeAccountRepository {
	u.FakeAccounts = NewFakeAccountRepository(accounts...)
	return u.FakeAccounts
}

// AllowTransactionRecords accepts every financial transaction record
func (u *MockUnitOfWork) AllowTransactionRecords() *MockUnitOfWork {
	u.Transactions.On("Record", mock.Anything, mock.Anything).Return(nil)
	return u
}

// AllowEvents accepts any published event
func (u *MockUnitOfWork) AllowEvents() *MockUnitOfWork {
	u.Events.On("Publish", mock.Anything).Return(nil)
	return u
}

// PublishedEvents returns every event published so far
func (u *MockUnitOfWork) PublishedEvents() []events.Event {
	var published []events.Event
	for _, call := range u.Events.Calls {
		if call.Method == "Publish" {
			published = append(published, call.Arguments.Get(0).(events.Event))
		}
	}
	return published
}

// AssertExpectations checks every mock held by the unit of work
func (u *MockUnitOfWork) AssertExpectations(t mock.TestingT) {
	u.Accounts.AssertExpectations(t)
	u.Transactions.AssertExpectations(t)
	u.Tournaments.AssertExpectations(t)
	u.Teams.AssertExpectations(t)
	u.Registrations.AssertExpectations(t)
	u.Standings.AssertExpectations(t)
	u.Matches.AssertExpectations(t)
	u.UpdateRequests.AssertExpectations(t)
	u.Lineups.AssertExpectations(t)
	u.SchedulerRuns.AssertExpectations(t)
}

func (u *MockUnitOfWork) AccountRepository() interfaces.AccountRepository {
	if u.FakeAccounts != nil {
		return u.FakeAccounts
	}
	return u.Accounts
}
func (u *MockUnitOfWork) FinancialTransactionRepository() interfaces.FinancialTransactionRepository {
	return u.Transactions
}
func (u *MockUnitOfWork) TournamentRepository() interfaces.TournamentRepository { return u.Tournaments }
func (u *MockUnitOfWork) TeamRepository() interfaces.TeamRepository             { return u.Teams }
func (u *MockUnitOfWork) RegistrationRepository() interfaces.RegistrationRepository {
	return u.Registrations
}
func (u *MockUnitOfWork) StandingRepository() interfaces.StandingRepository { return u.Standings }
func (u *MockUnitOfWork) MatchRepository() interfaces.MatchRepository       { return u.Matches }
func (u *MockUnitOfWork) UpdateRequestRepository() interfaces.UpdateRequestRepository {
	return u.UpdateRequests
}
func (u *MockUnitOfWork) LineupRepository() interfaces.LineupRepository { return u.Lineups }
func (u *MockUnitOfWork) SchedulerRunRepository() interfaces.SchedulerRunRepository {
	return u.SchedulerRuns
}
func (u *MockUnitOfWork) EventBus() interfaces.EventPublisher { return u.Events }
