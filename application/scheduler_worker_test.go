package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/services"
	"hoopsleague/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSchedulerWorker(factory *fakeUnitOfWorkFactory, metrics Metrics) *SchedulerWorker {
	lineups := services.NewLineupAutoFiller(new(testhelpers.MockRosterProvider))
	worker := NewSchedulerWorker(
		factory,
		services.NewTournamentLifecycle(services.NewLedger(), services.NewFeePolicy(500000)),
		services.NewStandingsEngine(),
		services.NewPlayoffAdvancer(lineups),
		lineups,
		metrics,
		SchedulerSettings{},
	)
	fixed := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	worker.now = func() time.Time { return fixed }
	return worker
}

func expectIdleTick(mocks *testhelpers.MockUnitOfWork) {
	mocks.Tournaments.On("ListByStatus", mock.Anything, entities.TournamentStatusRegistration).Return([]*entities.Tournament{}, nil)
	mocks.Tournaments.On("ListByStatus", mock.Anything, entities.TournamentStatusOngoing).Return([]*entities.Tournament{}, nil)
	mocks.Matches.On("ListUnappliedResults", mock.Anything).Return([]*entities.Match{}, nil)
	mocks.Matches.On("ListScheduledBefore", mock.Anything, mock.Anything).Return([]*entities.Match{}, nil)
}

func TestSchedulerWorker_IdleTick(t *testing.T) {
	t.Parallel()

	factory := newFakeUnitOfWorkFactory()
	metrics := &recordingMetrics{}
	worker := newTestSchedulerWorker(factory, metrics)

	expectIdleTick(factory.mocks)
	factory.mocks.SchedulerRuns.On("Record", mock.Anything, mock.Anything).Return(nil)

	run, err := worker.Tick(context.Background())
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.Equal(t, entities.SchedulerRunSummary{}, run.Summary)
	assert.Equal(t, 1, factory.commits, "only the run record is committed")
	require.Len(t, metrics.runs, 1)

	// The lineup window uses the default deadline of one hour
	factory.mocks.Matches.AssertCalled(t, "ListScheduledBefore", mock.Anything, worker.now().Add(time.Hour))
}

func TestSchedulerWorker_FailuresAreCounted(t *testing.T) {
	t.Parallel()

	factory := newFakeUnitOfWorkFactory()
	metrics := &recordingMetrics{}
	worker := newTestSchedulerWorker(factory, metrics)

	factory.mocks.Tournaments.On("ListByStatus", mock.Anything, entities.TournamentStatusRegistration).Return([]*entities.Tournament{}, nil)
	factory.mocks.Tournaments.On("ListByStatus", mock.Anything, entities.TournamentStatusOngoing).Return([]*entities.Tournament{}, nil)
	factory.mocks.Matches.On("ListUnappliedResults", mock.Anything).Return(nil, errors.New("statement timeout"))
	factory.mocks.Matches.On("ListScheduledBefore", mock.Anything, mock.Anything).Return([]*entities.Match{}, nil)
	factory.mocks.SchedulerRuns.On("Record", mock.Anything, mock.MatchedBy(func(run *entities.SchedulerRun) bool {
		return run.Summary.Failures == 1
	})).Return(nil)

	run, err := worker.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, run.Summary.Failures)
	factory.mocks.SchedulerRuns.AssertExpectations(t)
}

func TestSchedulerWorker_PerItemFailureDoesNotStopTheRest(t *testing.T) {
	t.Parallel()

	factory := newFakeUnitOfWorkFactory()
	worker := newTestSchedulerWorker(factory, nil)

	factory.mocks.Tournaments.On("ListByStatus", mock.Anything, entities.TournamentStatusRegistration).Return([]*entities.Tournament{}, nil)
	factory.mocks.Tournaments.On("ListByStatus", mock.Anything, entities.TournamentStatusOngoing).Return([]*entities.Tournament{}, nil)
	factory.mocks.Matches.On("ListUnappliedResults", mock.Anything).Return([]*entities.Match{{ID: 1}, {ID: 2}}, nil)
	factory.mocks.Matches.On("GetForUpdate", mock.Anything, int64(1)).Return(nil, errors.New("lock timeout"))
	factory.mocks.Matches.On("GetForUpdate", mock.Anything, int64(2)).Return(nil, nil)
	factory.mocks.Matches.On("ListScheduledBefore", mock.Anything, mock.Anything).Return([]*entities.Match{}, nil)
	factory.mocks.SchedulerRuns.On("Record", mock.Anything, mock.Anything).Return(nil)

	run, err := worker.Tick(context.Background())
	require.NoError(t, err)

	// Match 1 fails, match 2 is looked at in its own transaction
	factory.mocks.Matches.AssertCalled(t, "GetForUpdate", mock.Anything, int64(2))
	assert.GreaterOrEqual(t, run.Summary.Failures, 1)
	assert.Equal(t, 0, run.Summary.StandingsApplied)
}

func TestSchedulerWorker_OverlappingTick(t *testing.T) {
	t.Parallel()

	factory := newFakeUnitOfWorkFactory()
	worker := newTestSchedulerWorker(factory, nil)
	worker.running.Store(true)

	run, err := worker.Tick(context.Background())
	assert.ErrorIs(t, err, ErrTickInProgress)
	assert.Nil(t, run)
	assert.Equal(t, 0, factory.created)
}

func TestSchedulerWorker_RecordFailure(t *testing.T) {
	t.Parallel()

	factory := newFakeUnitOfWorkFactory()
	metrics := &recordingMetrics{}
	worker := newTestSchedulerWorker(factory, metrics)

	expectIdleTick(factory.mocks)
	factory.mocks.SchedulerRuns.On("Record", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := worker.Tick(context.Background())
	require.Error(t, err)
	assert.Empty(t, metrics.runs)

	// The guard is released even when the tick fails
	assert.False(t, worker.running.Load())
}

func TestSchedulerWorker_StartAndStop(t *testing.T) {
	t.Parallel()

	factory := newFakeUnitOfWorkFactory()
	metrics := &recordingMetrics{}
	lineups := services.NewLineupAutoFiller(new(testhelpers.MockRosterProvider))
	worker := NewSchedulerWorker(
		factory,
		services.NewTournamentLifecycle(services.NewLedger(), services.NewFeePolicy(500000)),
		services.NewStandingsEngine(),
		services.NewPlayoffAdvancer(lineups),
		lineups,
		metrics,
		SchedulerSettings{Interval: 10 * time.Millisecond},
	)

	expectIdleTick(factory.mocks)
	factory.mocks.SchedulerRuns.On("Record", mock.Anything, mock.Anything).Return(nil)

	stop := worker.Start(context.Background())
	assert.Eventually(t, func() bool {
		metrics.mu.Lock()
		defer metrics.mu.Unlock()
		return len(metrics.runs) > 0
	}, time.Second, 5*time.Millisecond)
	stop()
}
