package services

import (
	"context"
	"errors"
	"testing"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/events"
	"hoopsleague/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func lineupByPosition(entries []*entities.LineupEntry) map[entities.Position]int64 {
	byPosition := make(map[entities.Position]int64, len(entries))
	for _, entry := range entries {
		byPosition[entry.Position] = entry.AthleteID
	}
	return byPosition
}

func TestSelectLineup(t *testing.T) {
	t.Parallel()

	t.Run("one athlete per declared position", func(t *testing.T) {
		t.Parallel()

		roster := []*entities.Athlete{
			createTestAthlete(5, 1, entities.PositionCenter, 50),
			createTestAthlete(1, 1, entities.PositionPointGuard, 10),
			createTestAthlete(3, 1, entities.PositionSmallForward, 30),
			createTestAthlete(2, 1, entities.PositionShootingGuard, 20),
			createTestAthlete(4, 1, entities.PositionPowerForward, 40),
		}

		entries := SelectLineup(roster)

		require.Len(t, entries, LineupSize)
		for i, position := range entities.CanonicalPositions {
			assert.Equal(t, position, entries[i].Position)
			assert.Equal(t, int64(i+1), entries[i].AthleteID)
			assert.True(t, entries[i].AutoFilled)
		}
	})

	t.Run("uncovered position is back-filled by the next unused athlete", func(t *testing.T) {
		t.Parallel()

		roster := []*entities.Athlete{
			createTestAthlete(11, 1, entities.PositionPointGuard, 1),
			createTestAthlete(12, 1, entities.PositionPointGuard, 2),
			createTestAthlete(13, 1, entities.PositionShootingGuard, 3),
			createTestAthlete(14, 1, entities.PositionSmallForward, 4),
			createTestAthlete(15, 1, entities.PositionPowerForward, 5),
			createTestAthlete(16, 1, entities.PositionPowerForward, 6),
		}

		entries := SelectLineup(roster)

		require.Len(t, entries, LineupSize)
		lineup := lineupByPosition(entries)
		assert.Equal(t, int64(11), lineup[entities.PositionPointGuard])
		assert.Equal(t, int64(13), lineup[entities.PositionShootingGuard])
		assert.Equal(t, int64(14), lineup[entities.PositionSmallForward])
		assert.Equal(t, int64(15), lineup[entities.PositionPowerForward])
		assert.Equal(t, int64(12), lineup[entities.PositionCenter])
	})

	t.Run("every athlete appears at most once", func(t *testing.T) {
		t.Parallel()

		roster := []*entities.Athlete{
			createTestAthlete(1, 1, entities.PositionCenter, 1),
			createTestAthlete(2, 1, entities.PositionCenter, 2),
			createTestAthlete(3, 1, entities.PositionCenter, 3),
			createTestAthlete(4, 1, entities.PositionCenter, 4),
			createTestAthlete(5, 1, entities.PositionCenter, 5),
		}

		entries := SelectLineup(roster)

		require.Len(t, entries, LineupSize)
		seen := make(map[int64]bool)
		for _, entry := range entries {
			assert.False(t, seen[entry.AthleteID], "athlete %d used twice", entry.AthleteID)
			seen[entry.AthleteID] = true
		}
		assert.Equal(t, int64(1), lineupByPosition(entries)[entities.PositionCenter])
		assert.Equal(t, int64(2), lineupByPosition(entries)[entities.PositionPointGuard])
	})

	t.Run("roster too small", func(t *testing.T) {
		t.Parallel()

		roster := []*entities.Athlete{
			createTestAthlete(1, 1, entities.PositionPointGuard, 1),
			createTestAthlete(2, 1, entities.PositionShootingGuard, 2),
			createTestAthlete(3, 1, entities.PositionSmallForward, 3),
			createTestAthlete(4, 1, entities.PositionPowerForward, 4),
		}

		assert.Nil(t, SelectLineup(roster))
	})
}

func fullRoster(teamID int64) []*entities.Athlete {
	var roster []*entities.Athlete
	for i, position := range entities.CanonicalPositions {
		roster = append(roster, createTestAthlete(teamID*100+int64(i), teamID, position, i+1))
	}
	return roster
}

func TestLineupAutoFiller_AutoFill(t *testing.T) {
	t.Parallel()

	match := createTestMatch(70, 1, entities.MatchStageFinal, 3, int64Ptr(10), int64Ptr(20))

	t.Run("stores a lineup for a team without one", func(t *testing.T) {
		t.Parallel()

		uow := testhelpers.NewMockUnitOfWork().AllowEvents()
		roster := new(testhelpers.MockRosterProvider)

		uow.Lineups.On("Exists", mock.Anything, int64(70), int64(10)).Return(false, nil)
		roster.On("Roster", mock.Anything, int64(10)).Return(fullRoster(10), nil)
		uow.Lineups.On("CreateEntries", mock.Anything, mock.MatchedBy(func(entries []*entities.LineupEntry) bool {
			if len(entries) != LineupSize {
				return false
			}
			for _, entry := range entries {
				if entry.MatchID != 70 || entry.TeamID != 10 || !entry.AutoFilled {
					return false
				}
			}
			return true
		})).Return(nil)

		entries, err := NewLineupAutoFiller(roster).AutoFill(context.Background(), uow, match, 10)

		require.NoError(t, err)
		assert.Len(t, entries, LineupSize)

		var sawLineupEvent, sawNotification bool
		for _, event := range uow.PublishedEvents() {
			switch e := event.(type) {
			case events.LineupAutoFilledEvent:
				sawLineupEvent = true
				assert.Len(t, e.AthleteIDs, LineupSize)
			case events.NotificationRequestedEvent:
				sawNotification = true
				require.NotNil(t, e.Notification.TeamID)
				assert.Equal(t, int64(10), *e.Notification.TeamID)
				assert.Equal(t, entities.NotificationTypeLineupAutoFilled, e.Notification.Type)
			}
		}
		assert.True(t, sawLineupEvent)
		assert.True(t, sawNotification)
		uow.AssertExpectations(t)
		roster.AssertExpectations(t)
	})

	t.Run("existing lineup is left alone", func(t *testing.T) {
		t.Parallel()

		uow := testhelpers.NewMockUnitOfWork()
		roster := new(testhelpers.MockRosterProvider)
		uow.Lineups.On("Exists", mock.Anything, int64(70), int64(10)).Return(true, nil)

		entries, err := NewLineupAutoFiller(roster).AutoFill(context.Background(), uow, match, 10)

		require.NoError(t, err)
		assert.Nil(t, entries)
		roster.AssertNotCalled(t, "Roster", mock.Anything, mock.Anything)
		uow.Lineups.AssertNotCalled(t, "CreateEntries", mock.Anything, mock.Anything)
	})

	t.Run("small roster is skipped without error", func(t *testing.T) {
		t.Parallel()

		uow := testhelpers.NewMockUnitOfWork()
		roster := new(testhelpers.MockRosterProvider)
		uow.Lineups.On("Exists", mock.Anything, int64(70), int64(20)).Return(false, nil)
		roster.On("Roster", mock.Anything, int64(20)).Return(fullRoster(20)[:3], nil)

		entries, err := NewLineupAutoFiller(roster).AutoFill(context.Background(), uow, match, 20)

		require.NoError(t, err)
		assert.Nil(t, entries)
		uow.Lineups.AssertNotCalled(t, "CreateEntries", mock.Anything, mock.Anything)
	})

	t.Run("roster error", func(t *testing.T) {
		t.Parallel()

		uow := testhelpers.NewMockUnitOfWork()
		roster := new(testhelpers.MockRosterProvider)
		uow.Lineups.On("Exists", mock.Anything, int64(70), int64(20)).Return(false, nil)
		roster.On("Roster", mock.Anything, int64(20)).Return(nil, errors.New("connection reset"))

		_, err := NewLineupAutoFiller(roster).AutoFill(context.Background(), uow, match, 20)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get roster")
	})
}
