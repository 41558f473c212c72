package application

import (
	"context"
	"sync"
	"time"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/testhelpers"
)

// fakeUnitOfWork wraps the shared mock repositories with transaction bookkeeping
type fakeUnitOfWork struct {
	*testhelpers.MockUnitOfWork
	factory    *fakeUnitOfWorkFactory
	committed  bool
	rolledBack bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	return u.factory.beginErr
}

func (u *fakeUnitOfWork) Commit() error {
	if u.factory.commitErr != nil {
		return u.factory.commitErr
	}
	u.committed = true
	u.factory.mu.Lock()
	u.factory.commits++
	u.factory.mu.Unlock()
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if u.committed || u.rolledBack {
		return nil
	}
	u.rolledBack = true
	u.factory.mu.Lock()
	u.factory.rollbacks++
	u.factory.mu.Unlock()
	return nil
}

type fakeUnitOfWorkFactory struct {
	mu        sync.Mutex
	mocks     *testhelpers.MockUnitOfWork
	beginErr  error
	commitErr error
	created   int
	commits   int
	rollbacks int
}

func newFakeUnitOfWorkFactory() *fakeUnitOfWorkFactory {
	return &fakeUnitOfWorkFactory{mocks: testhelpers.NewMockUnitOfWork()}
}

func (f *fakeUnitOfWorkFactory) Create() UnitOfWork {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	return &fakeUnitOfWork{MockUnitOfWork: f.mocks, factory: f}
}

type observedOperation struct {
	operation string
	outcome   string
}

type recordingMetrics struct {
	mu         sync.Mutex
	operations []observedOperation
	runs       []entities.SchedulerRunSummary
}

func (m *recordingMetrics) ObserveOperation(operation, outcome string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations = append(m.operations, observedOperation{operation: operation, outcome: outcome})
}

func (m *recordingMetrics) ObserveSchedulerRun(summary entities.SchedulerRunSummary, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, summary)
}

func (m *recordingMetrics) last() observedOperation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.operations) == 0 {
		return observedOperation{}
	}
	return m.operations[len(m.operations)-1]
}
