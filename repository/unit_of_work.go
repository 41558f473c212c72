package repository

import (
	"context"
	"errors"
	"fmt"

	"hoopsleague/application"
	"hoopsleague/database"
	"hoopsleague/domain/interfaces"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// unitOfWork implements the application.UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher
	accountRepo            interfaces.AccountRepository
	financialTxRepo        interfaces.FinancialTransactionRepository
	tournamentRepo         interfaces.TournamentRepository
	teamRepo               interfaces.TeamRepository
	registrationRepo       interfaces.RegistrationRepository
	standingRepo           interfaces.StandingRepository
	matchRepo              interfaces.MatchRepository
	updateRequestRepo      interfaces.UpdateRequestRepository
	lineupRepo             interfaces.LineupRepository
	schedulerRunRepo       interfaces.SchedulerRunRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db: db,
	}
}

// UnitOfWorkFactory creates transaction-scoped units of work
type UnitOfWorkFactory struct {
	db *database.DB
}

// CreateWithPublisher creates a new UnitOfWork that flushes the given publisher on commit
func (f *UnitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.accountRepo = newAccountRepository(tx)
	u.financialTxRepo = newFinancialTransactionRepository(tx)
	u.tournamentRepo = newTournamentRepository(tx)
	u.teamRepo = newTeamRepository(tx)
	u.registrationRepo = newRegistrationRepository(tx)
	u.standingRepo = newStandingRepository(tx)
	u.matchRepo = newMatchRepository(tx)
	u.updateRequestRepo = newUpdateRequestRepository(tx)
	u.lineupRepo = newLineupRepository(tx)
	u.schedulerRunRepo = newSchedulerRunRepository(tx)

	return nil
}

// Commit commits the transaction and then flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Events are best-effort once the transaction is committed
	if u.transactionalPublisher != nil {
		if err := u.transactionalPublisher.Flush(u.ctx); err != nil {
			log.WithError(err).Error("Failed to flush events after commit")
		}
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

func (u *unitOfWork) FinancialTransactionRepository() interfaces.FinancialTransactionRepository {
	if u.financialTxRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.financialTxRepo
}

func (u *unitOfWork) TournamentRepository() interfaces.TournamentRepository {
	if u.tournamentRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.tournamentRepo
}

func (u *unitOfWork) TeamRepository() interfaces.TeamRepository {
	if u.teamRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.teamRepo
}

func (u *unitOfWork) RegistrationRepository() interfaces.RegistrationRepository {
	if u.registrationRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.registrationRepo
}

func (u *unitOfWork) StandingRepository() interfaces.StandingRepository {
	if u.standingRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.standingRepo
}

func (u *unitOfWork) MatchRepository() interfaces.MatchRepository {
	if u.matchRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.matchRepo
}

func (u *unitOfWork) UpdateRequestRepository() interfaces.UpdateRequestRepository {
	if u.updateRequestRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.updateRequestRepo
}

func (u *unitOfWork) LineupRepository() interfaces.LineupRepository {
	if u.lineupRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.lineupRepo
}

func (u *unitOfWork) SchedulerRunRepository() interfaces.SchedulerRunRepository {
	if u.schedulerRunRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.schedulerRunRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("transactional publisher not configured")
	}
	return u.transactionalPublisher
}
