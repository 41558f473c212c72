package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"hoopsleague/database"
	"hoopsleague/domain/entities"
	"hoopsleague/domain/events"
	"hoopsleague/repository/testutil"

	"github.com/stretchr/testify/require"
)

func createAccount(t *testing.T, db *database.DB, username string, role entities.UserRole, balance int64) *entities.Account {
	t.Helper()
	account, err := NewAccountRepository(db).Create(context.Background(), username, role, balance)
	require.NoError(t, err)
	return account
}

func createTournament(t *testing.T, db *database.DB, sponsorID int64, status entities.TournamentStatus) *entities.Tournament {
	t.Helper()
	tournament := testutil.CreateTestTournamentWithStatus(sponsorID, fmt.Sprintf("Cup %s", t.Name()), status)
	require.NoError(t, NewTournamentRepository(db).Create(context.Background(), tournament))
	return tournament
}

func createApprovedTeam(t *testing.T, db *database.DB, coachID int64, name string) *entities.Team {
	t.Helper()
	team := testutil.CreateTestTeam(coachID, name)
	team.Status = entities.ApprovalStatusApproved
	require.NoError(t, NewTeamRepository(db).Create(context.Background(), team))
	return team
}

// recordingPublisher is a minimal transactional publisher for unit of work tests
type recordingPublisher struct {
	mu        sync.Mutex
	pending   []events.Event
	published []events.Event
	discarded int
}

func (p *recordingPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, event)
	return nil
}

func (p *recordingPublisher) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, p.pending...)
	p.pending = nil
	return nil
}

func (p *recordingPublisher) Discard() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.discarded += len(p.pending)
	p.pending = nil
}

func (p *recordingPublisher) Published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.published...)
}
