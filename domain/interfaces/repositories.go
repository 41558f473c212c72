package interfaces

import (
	"context"
	"time"

	"hoopsleague/domain/entities"
)

// AccountRepository reads and adjusts account balances.
// Getters return (nil, nil) when the account does not exist.
type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Account, error)
	GetForUpdate(ctx context.Context, id int64) (*entities.Account, error)
	// ListAdminsForUpdate locks every admin account, ordered by id
	ListAdminsForUpdate(ctx context.Context) ([]*entities.Account, error)
	Create(ctx context.Context, username string, role entities.UserRole, balance int64) (*entities.Account, error)
	// Credit adds amount to the balance and returns the updated account
	Credit(ctx context.Context, id int64, amount int64) (*entities.Account, error)
	// Debit subtracts amount only if the balance covers it. Returns (nil, nil)
	// when the balance is insufficient.
	Debit(ctx context.Context, id int64, amount int64) (*entities.Account, error)
}

// FinancialTransactionRepository keeps the per-account money trail
type FinancialTransactionRepository interface {
	Record(ctx context.Context, tx *entities.FinancialTransaction) error
	ListByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.FinancialTransaction, error)
	ListByRelated(ctx context.Context, relatedType entities.RelatedType, relatedID int64) ([]*entities.FinancialTransaction, error)
}

// TournamentRepository defines the interface for tournament data access
type TournamentRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Tournament, error)
	GetForUpdate(ctx context.Context, id int64) (*entities.Tournament, error)
	Create(ctx context.Context, tournament *entities.Tournament) error
	// Update writes every mutable field, including status and update_count
	Update(ctx context.Context, tournament *entities.Tournament) error
	UpdateStatus(ctx context.Context, id int64, status entities.TournamentStatus) error
	// IncrementCurrentTeams bumps current_teams unless the tournament is full.
	// Returns false when the tournament was already full.
	IncrementCurrentTeams(ctx context.Context, id int64) (bool, error)
	ListByStatus(ctx context.Context, status entities.TournamentStatus) ([]*entities.Tournament, error)
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Team, error)
	GetForUpdate(ctx context.Context, id int64) (*entities.Team, error)
	Create(ctx context.Context, team *entities.Team) error
	Update(ctx context.Context, team *entities.Team) error
}

// RegistrationRepository defines the interface for tournament_teams access
type RegistrationRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.TeamRegistration, error)
	GetForUpdate(ctx context.Context, id int64) (*entities.TeamRegistration, error)
	Create(ctx context.Context, registration *entities.TeamRegistration) error
	Update(ctx context.Context, registration *entities.TeamRegistration) error
	CountApproved(ctx context.Context, tournamentID int64) (int, error)
}

// StandingRepository defines the interface for standings access.
// Standing rows are created by the database when a registration is approved.
type StandingRepository interface {
	// GetForUpdate locks the standing of one team in one tournament
	GetForUpdate(ctx context.Context, tournamentID, teamID int64) (*entities.Standing, error)
	// ListByTournament returns all standings in creation order
	ListByTournament(ctx context.Context, tournamentID int64) ([]*entities.Standing, error)
	Update(ctx context.Context, standing *entities.Standing) error
	UpdatePositions(ctx context.Context, standings []*entities.Standing) error
}

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Match, error)
	GetForUpdate(ctx context.Context, id int64) (*entities.Match, error)
	Create(ctx context.Context, match *entities.Match) error
	// ListByTournament returns matches ordered by round then id
	ListByTournament(ctx context.Context, tournamentID int64) ([]*entities.Match, error)
	UpdateResult(ctx context.Context, match *entities.Match) error
	MarkStandingsApplied(ctx context.Context, id int64, appliedAt time.Time) error
	// AssignTeams fills an empty bracket slot. Returns false if the slot was already filled.
	AssignTeams(ctx context.Context, id int64, homeTeamID, awayTeamID int64) (bool, error)
	// ListUnappliedResults returns completed matches whose result has not been counted
	ListUnappliedResults(ctx context.Context) ([]*entities.Match, error)
	// ListScheduledBefore returns scheduled matches with both teams that start before the cutoff
	ListScheduledBefore(ctx context.Context, cutoff time.Time) ([]*entities.Match, error)
}

// UpdateRequestRepository defines the interface for tournament update requests
type UpdateRequestRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.TournamentUpdateRequest, error)
	GetForUpdate(ctx context.Context, id int64) (*entities.TournamentUpdateRequest, error)
	Create(ctx context.Context, request *entities.TournamentUpdateRequest) error
	Update(ctx context.Context, request *entities.TournamentUpdateRequest) error
}

// LineupRepository defines the interface for match lineups
type LineupRepository interface {
	Exists(ctx context.Context, matchID, teamID int64) (bool, error)
	CreateEntries(ctx context.Context, entries []*entities.LineupEntry) error
	ListByMatchAndTeam(ctx context.Context, matchID, teamID int64) ([]*entities.LineupEntry, error)
}

// AthleteRepository defines the interface for team rosters
type AthleteRepository interface {
	Create(ctx context.Context, athlete *entities.Athlete) error
	// ListByTeam returns the roster ordered by jersey number
	ListByTeam(ctx context.Context, teamID int64) ([]*entities.Athlete, error)
}

// NotificationRepository stores notifications for the delivery side
type NotificationRepository interface {
	Create(ctx context.Context, notification *entities.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.Notification, error)
}

// SchedulerRunRepository records scheduler ticks
type SchedulerRunRepository interface {
	Record(ctx context.Context, run *entities.SchedulerRun) error
	GetLatest(ctx context.Context) (*entities.SchedulerRun, error)
}
