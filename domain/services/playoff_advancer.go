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

// Group names used for playoff seeding
const (
	GroupA = "A"
	GroupB = "B"
)

// AdvanceResult lists the bracket matches filled by one Advance call
type AdvanceResult struct {
	Filled        []*entities.Match
	LineupsFilled int
}

// PlayoffAdvancer fills pre-created semifinal and final placeholders once the
// previous stage is complete. It never creates matches.
type PlayoffAdvancer struct {
	lineups *LineupAutoFiller
}

// NewPlayoffAdvancer creates a new playoff advancer
func NewPlayoffAdvancer(lineups *LineupAutoFiller) *PlayoffAdvancer {
	return &PlayoffAdvancer{lineups: lineups}
}

// Advance seeds the semifinals when every group match is completed and counted in
// the standings, and the final when both semifinals are completed. Each slot is
// filled at most once, so seeding waits for results the standings have not seen.
func (a *PlayoffAdvancer) Advance(ctx context.Context, uow interfaces.UnitOfWork, tournamentID int64) (*AdvanceResult, error) {
	matches, err := uow.MatchRepository().ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	var group, semifinals, finals []*entities.Match
	for _, match := range matches {
		switch match.Stage {
		case entities.MatchStageGroup:
			group = append(group, match)
		case entities.MatchStageSemifinal:
			semifinals = append(semifinals, match)
		case entities.MatchStageFinal:
			finals = append(finals, match)
		}
	}
	sortByRound(semifinals)
	sortByRound(finals)

	result := &AdvanceResult{}

	if len(semifinals) >= 2 && (semifinals[0].IsEmptySlot() || semifinals[1].IsEmptySlot()) && groupStageCounted(group) {
		if err := a.seedSemifinals(ctx, uow, tournamentID, semifinals[0], semifinals[1], result); err != nil {
			return nil, err
		}
	}

	if len(finals) >= 1 && len(semifinals) >= 2 && finals[0].IsEmptySlot() &&
		semifinals[0].IsCompleted() && semifinals[1].IsCompleted() {
		if err := a.seedFinal(ctx, uow, semifinals[0], semifinals[1], finals[0], result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// seedSemifinals cross-seeds the two groups: SF1 = A1 vs B2, SF2 = A2 vs B1
func (a *PlayoffAdvancer) seedSemifinals(ctx context.Context, uow interfaces.UnitOfWork, tournamentID int64, sf1, sf2 *entities.Match, result *AdvanceResult) error {
	standings, err := uow.StandingRepository().ListByTournament(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to list standings: %w", err)
	}

	groupA := rankGroup(standings, GroupA)
	groupB := rankGroup(standings, GroupB)
	if len(groupA) < 2 {
		return &ValidationError{Field: "group", Reason: fmt.Sprintf("group %s needs at least two ranked teams, has %d", GroupA, len(groupA))}
	}
	if len(groupB) < 2 {
		return &ValidationError{Field: "group", Reason: fmt.Sprintf("group %s needs at least two ranked teams, has %d", GroupB, len(groupB))}
	}

	if sf1.IsEmptySlot() {
		if err := a.fillSlot(ctx, uow, sf1, groupA[0].TeamID, groupB[1].TeamID, result); err != nil {
			return err
		}
	}
	if sf2.IsEmptySlot() {
		if err := a.fillSlot(ctx, uow, sf2, groupA[1].TeamID, groupB[0].TeamID, result); err != nil {
			return err
		}
	}
	return nil
}

func (a *PlayoffAdvancer) seedFinal(ctx context.Context, uow interfaces.UnitOfWork, sf1, sf2, final *entities.Match, result *AdvanceResult) error {
	home, ok := sf1.WinnerID()
	if !ok {
		return &ValidationError{Field: "semifinal", Reason: fmt.Sprintf("match %d has no winner", sf1.ID)}
	}
	away, ok := sf2.WinnerID()
	if !ok {
		return &ValidationError{Field: "semifinal", Reason: fmt.Sprintf("match %d has no winner", sf2.ID)}
	}
	return a.fillSlot(ctx, uow, final, home, away, result)
}

func (a *PlayoffAdvancer) fillSlot(ctx context.Context, uow interfaces.UnitOfWork, match *entities.Match, homeTeamID, awayTeamID int64, result *AdvanceResult) error {
	filled, err := uow.MatchRepository().AssignTeams(ctx, match.ID, homeTeamID, awayTeamID)
	if err != nil {
		return fmt.Errorf("failed to assign teams to match %d: %w", match.ID, err)
	}
	if !filled {
		log.WithField("matchID", match.ID).Debug("Bracket slot already filled, skipping")
		return nil
	}

	match.HomeTeamID = &homeTeamID
	match.AwayTeamID = &awayTeamID
	result.Filled = append(result.Filled, match)

	publishEvent(uow, events.PlayoffSlotFilledEvent{
		TournamentID: match.TournamentID,
		MatchID:      match.ID,
		Stage:        match.Stage,
		HomeTeamID:   homeTeamID,
		AwayTeamID:   awayTeamID,
	})

	for _, teamID := range []int64{homeTeamID, awayTeamID} {
		requestNotification(uow, entities.ForTeam(teamID, entities.NotificationTypePlayoffScheduled,
			"Playoff match scheduled",
			fmt.Sprintf("Your team advanced to the %s (match %d).", match.Stage, match.ID)))

		entries, err := a.lineups.AutoFill(ctx, uow, match, teamID)
		if err != nil {
			return err
		}
		if entries != nil {
			result.LineupsFilled++
		}
	}

	log.WithFields(log.Fields{
		"matchID":      match.ID,
		"tournamentID": match.TournamentID,
		"stage":        match.Stage,
		"homeTeamID":   homeTeamID,
		"awayTeamID":   awayTeamID,
	}).Info("Filled playoff slot")
	return nil
}

// rankGroup returns the standings of one group ordered by the ranking keys
func rankGroup(standings []*entities.Standing, group string) []*entities.Standing {
	var ranked []*entities.Standing
	for _, standing := range standings {
		if standing.GroupName == group {
			ranked = append(ranked, standing)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RanksAbove(ranked[j])
	})
	return ranked
}

func groupStageCounted(matches []*entities.Match) bool {
	if len(matches) == 0 {
		return false
	}
	for _, match := range matches {
		if !match.IsCompleted() || !match.StandingsApplied() {
			return false
		}
	}
	return true
}

func sortByRound(matches []*entities.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].ID < matches[j].ID
	})
}
