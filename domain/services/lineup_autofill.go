package services

import (
	"context"
	"fmt"
	"sort"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/events"
	"hoopsleague/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// LineupSize is the number of athletes in a lineup
const LineupSize = 5

// SelectLineup picks one athlete per canonical position. Each position first goes
// to the earliest unused athlete declaring it; positions still open afterwards go
// to the earliest unused athletes regardless of declared position. Roster order is
// jersey number. Returns nil if the roster is too small.
func SelectLineup(roster []*entities.Athlete) []*entities.LineupEntry {
	if len(roster) < LineupSize {
		return nil
	}

	ordered := make([]*entities.Athlete, len(roster))
	copy(ordered, roster)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].JerseyNumber < ordered[j].JerseyNumber
	})

	used := make(map[int64]bool, len(ordered))
	assigned := make(map[entities.Position]*entities.Athlete, LineupSize)

	for _, position := range entities.CanonicalPositions {
		for _, athlete := range ordered {
			if !used[athlete.ID] && athlete.Position == position {
				assigned[position] = athlete
				used[athlete.ID] = true
				break
			}
		}
	}

	for _, position := range entities.CanonicalPositions {
		if assigned[position] != nil {
			continue
		}
		for _, athlete := range ordered {
			if !used[athlete.ID] {
				assigned[position] = athlete
				used[athlete.ID] = true
				break
			}
		}
	}

	entries := make([]*entities.LineupEntry, 0, LineupSize)
	for _, position := range entities.CanonicalPositions {
		entries = append(entries, &entities.LineupEntry{
			AthleteID:  assigned[position].ID,
			Position:   position,
			AutoFilled: true,
		})
	}
	return entries
}

// LineupAutoFiller generates a default lineup for a team that has not set one
type LineupAutoFiller struct {
	roster interfaces.RosterProvider
}

// NewLineupAutoFiller creates a new lineup auto-filler
func NewLineupAutoFiller(roster interfaces.RosterProvider) *LineupAutoFiller {
	return &LineupAutoFiller{roster: roster}
}

// AutoFill stores a default lineup for the team in the match. It does nothing if a
// lineup already exists or the roster has fewer than five athletes, and returns
// nil entries in both cases.
func (f *LineupAutoFiller) AutoFill(ctx context.Context, uow interfaces.UnitOfWork, match *entities.Match, teamID int64) ([]*entities.LineupEntry, error) {
	exists, err := uow.LineupRepository().Exists(ctx, match.ID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to check lineup: %w", err)
	}
	if exists {
		return nil, nil
	}

	roster, err := f.roster.Roster(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster for team %d: %w", teamID, err)
	}

	entries := SelectLineup(roster)
	if entries == nil {
		log.WithFields(log.Fields{
			"matchID":    match.ID,
			"teamID":     teamID,
			"rosterSize": len(roster),
		}).Warn("Roster too small for an automatic lineup")
		return nil, nil
	}

	athleteIDs := make([]int64, 0, len(entries))
	for _, entry := range entries {
		entry.MatchID = match.ID
		entry.TeamID = teamID
		athleteIDs = append(athleteIDs, entry.AthleteID)
	}

	if err := uow.LineupRepository().CreateEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to store lineup: %w", err)
	}

	publishEvent(uow, events.LineupAutoFilledEvent{
		MatchID:    match.ID,
		TeamID:     teamID,
		AthleteIDs: athleteIDs,
	})
	requestNotification(uow, entities.ForTeam(teamID, entities.NotificationTypeLineupAutoFilled,
		"Lineup set automatically",
		fmt.Sprintf("A default lineup was set for match %d because none was submitted.", match.ID)))

	log.WithFields(log.Fields{
		"matchID": match.ID,
		"teamID":  teamID,
	}).Info("Auto-filled lineup")
	return entries, nil
}
