package application

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/services"

	log "github.com/sirupsen/logrus"
)

// ErrTickInProgress is returned by Tick when the previous tick has not finished
var ErrTickInProgress = errors.New("scheduler tick already running")

// SchedulerWorker periodically promotes tournaments, counts finished matches,
// advances playoff brackets and fills missing lineups
type SchedulerWorker struct {
	uowFactory     UnitOfWorkFactory
	lifecycle      *services.TournamentLifecycle
	standings      *services.StandingsEngine
	advancer       *services.PlayoffAdvancer
	lineups        *services.LineupAutoFiller
	metrics        Metrics
	interval       time.Duration
	lineupDeadline time.Duration
	now            func() time.Time
	running        atomic.Bool
}

// SchedulerSettings holds the worker timings
type SchedulerSettings struct {
	Interval       time.Duration
	LineupDeadline time.Duration
}

// NewSchedulerWorker creates a new scheduler worker
func NewSchedulerWorker(
	uowFactory UnitOfWorkFactory,
	lifecycle *services.TournamentLifecycle,
	standings *services.StandingsEngine,
	advancer *services.PlayoffAdvancer,
	lineups *services.LineupAutoFiller,
	metrics Metrics,
	settings SchedulerSettings,
) *SchedulerWorker {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if settings.Interval <= 0 {
		settings.Interval = 30 * time.Second
	}
	if settings.LineupDeadline <= 0 {
		settings.LineupDeadline = time.Hour
	}
	return &SchedulerWorker{
		uowFactory:     uowFactory,
		lifecycle:      lifecycle,
		standings:      standings,
		advancer:       advancer,
		lineups:        lineups,
		metrics:        metrics,
		interval:       settings.Interval,
		lineupDeadline: settings.LineupDeadline,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Start runs Tick on every interval until ctx is cancelled or the returned stop
// function is called
func (w *SchedulerWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.WithField("interval", w.interval).Info("Scheduler worker started")

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Scheduler worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Scheduler worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				// A slow tick must not stall the ticker, so each one runs on its own
				go func() {
					if _, err := w.Tick(ctx); err != nil {
						if errors.Is(err, ErrTickInProgress) {
							log.Warn("Previous scheduler tick still running, skipping")
							return
						}
						log.Errorf("Scheduler tick failed: %v", err)
					}
				}()
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// Tick runs one scheduler pass. Every tournament and match is handled in its own
// unit of work so one failure does not block the rest.
func (w *SchedulerWorker) Tick(ctx context.Context) (*entities.SchedulerRun, error) {
	if !w.running.CompareAndSwap(false, true) {
		return nil, ErrTickInProgress
	}
	defer w.running.Store(false)

	started := w.now()
	summary := entities.SchedulerRunSummary{}

	w.promoteToOngoing(ctx, started, &summary)
	w.promoteToCompleted(ctx, started, &summary)
	w.applyResults(ctx, &summary)
	w.advancePlayoffs(ctx, &summary)
	w.fillLineups(ctx, started, &summary)

	run := &entities.SchedulerRun{
		StartedAt:  started,
		FinishedAt: w.now(),
		Summary:    summary,
	}
	if err := w.inUnitOfWork(ctx, func(uow UnitOfWork) error {
		return uow.SchedulerRunRepository().Record(ctx, run)
	}); err != nil {
		return nil, fmt.Errorf("failed to record scheduler run: %w", err)
	}

	w.metrics.ObserveSchedulerRun(summary, run.FinishedAt.Sub(run.StartedAt))

	log.WithFields(log.Fields{
		"promotedToOngoing":   summary.PromotedToOngoing,
		"promotedToCompleted": summary.PromotedToCompleted,
		"standingsApplied":    summary.StandingsApplied,
		"playoffSlotsFilled":  summary.PlayoffSlotsFilled,
		"lineupsFilled":       summary.LineupsFilled,
		"failures":            summary.Failures,
	}).Info("Completed scheduler tick")

	return run, nil
}

func (w *SchedulerWorker) promoteToOngoing(ctx context.Context, now time.Time, summary *entities.SchedulerRunSummary) {
	tournaments, err := w.listTournaments(ctx, entities.TournamentStatusRegistration)
	if err != nil {
		log.Errorf("Failed to list tournaments in registration: %v", err)
		summary.Failures++
		return
	}

	for _, tournament := range tournaments {
		var promoted bool
		err := w.inUnitOfWork(ctx, func(uow UnitOfWork) error {
			var err error
			promoted, err = w.lifecycle.AutoPromoteToOngoing(ctx, uow, tournament.ID, now)
			return err
		})
		if err != nil {
			log.Errorf("Error promoting tournament %d to ongoing: %v", tournament.ID, err)
			summary.Failures++
			continue
		}
		if promoted {
			summary.PromotedToOngoing++
		}
	}
}

func (w *SchedulerWorker) promoteToCompleted(ctx context.Context, now time.Time, summary *entities.SchedulerRunSummary) {
	tournaments, err := w.listTournaments(ctx, entities.TournamentStatusOngoing)
	if err != nil {
		log.Errorf("Failed to list ongoing tournaments: %v", err)
		summary.Failures++
		return
	}

	for _, tournament := range tournaments {
		var promoted bool
		err := w.inUnitOfWork(ctx, func(uow UnitOfWork) error {
			var err error
			promoted, err = w.lifecycle.AutoPromoteToCompleted(ctx, uow, tournament.ID, now)
			return err
		})
		if err != nil {
			log.Errorf("Error promoting tournament %d to completed: %v", tournament.ID, err)
			summary.Failures++
			continue
		}
		if promoted {
			summary.PromotedToCompleted++
		}
	}
}

func (w *SchedulerWorker) applyResults(ctx context.Context, summary *entities.SchedulerRunSummary) {
	var matches []*entities.Match
	err := w.readOnly(ctx, func(uow UnitOfWork) error {
		var err error
		matches, err = uow.MatchRepository().ListUnappliedResults(ctx)
		return err
	})
	if err != nil {
		log.Errorf("Failed to list unapplied match results: %v", err)
		summary.Failures++
		return
	}

	for _, match := range matches {
		var applied bool
		err := w.inUnitOfWork(ctx, func(uow UnitOfWork) error {
			var err error
			applied, err = w.standings.ApplyMatchResult(ctx, uow, match.ID)
			return err
		})
		if err != nil {
			log.Errorf("Error applying result of match %d: %v", match.ID, err)
			summary.Failures++
			continue
		}
		if applied {
			summary.StandingsApplied++
		}
	}
}

func (w *SchedulerWorker) advancePlayoffs(ctx context.Context, summary *entities.SchedulerRunSummary) {
	tournaments, err := w.listTournaments(ctx, entities.TournamentStatusOngoing)
	if err != nil {
		log.Errorf("Failed to list ongoing tournaments: %v", err)
		summary.Failures++
		return
	}

	for _, tournament := range tournaments {
		var result *services.AdvanceResult
		err := w.inUnitOfWork(ctx, func(uow UnitOfWork) error {
			var err error
			result, err = w.advancer.Advance(ctx, uow, tournament.ID)
			return err
		})
		if err != nil {
			log.Errorf("Error advancing playoffs of tournament %d: %v", tournament.ID, err)
			summary.Failures++
			continue
		}
		summary.PlayoffSlotsFilled += len(result.Filled)
		summary.LineupsFilled += result.LineupsFilled
	}
}

func (w *SchedulerWorker) fillLineups(ctx context.Context, now time.Time, summary *entities.SchedulerRunSummary) {
	var matches []*entities.Match
	err := w.readOnly(ctx, func(uow UnitOfWork) error {
		var err error
		matches, err = uow.MatchRepository().ListScheduledBefore(ctx, now.Add(w.lineupDeadline))
		return err
	})
	if err != nil {
		log.Errorf("Failed to list upcoming matches: %v", err)
		summary.Failures++
		return
	}

	for _, match := range matches {
		for _, teamID := range []int64{*match.HomeTeamID, *match.AwayTeamID} {
			var entries []*entities.LineupEntry
			err := w.inUnitOfWork(ctx, func(uow UnitOfWork) error {
				var err error
				entries, err = w.lineups.AutoFill(ctx, uow, match, teamID)
				return err
			})
			if err != nil {
				log.Errorf("Error filling lineup of team %d for match %d: %v", teamID, match.ID, err)
				summary.Failures++
				continue
			}
			if entries != nil {
				summary.LineupsFilled++
			}
		}
	}
}

func (w *SchedulerWorker) listTournaments(ctx context.Context, status entities.TournamentStatus) ([]*entities.Tournament, error) {
	var tournaments []*entities.Tournament
	err := w.readOnly(ctx, func(uow UnitOfWork) error {
		var err error
		tournaments, err = uow.TournamentRepository().ListByStatus(ctx, status)
		return err
	})
	return tournaments, err
}

func (w *SchedulerWorker) inUnitOfWork(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (w *SchedulerWorker) readOnly(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()
	return fn(uow)
}
