package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/events"
	"hoopsleague/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// StandingsEngine keeps standings in line with completed match results
type StandingsEngine struct {
	now func() time.Time
}

// NewStandingsEngine creates a new standings engine
func NewStandingsEngine() *StandingsEngine {
	return &StandingsEngine{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// RankStandings orders standings by points, goal difference and goals scored and
// assigns 1-based positions. Teams level on all three keep their incoming order.
func RankStandings(standings []*entities.Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].RanksAbove(standings[j])
	})
	for i, standing := range standings {
		standing.Position = i + 1
	}
}

// ApplyMatchResult counts a completed match towards the standings and re-ranks
// the tournament. It returns false if the match had already been counted.
func (e *StandingsEngine) ApplyMatchResult(ctx context.Context, uow interfaces.UnitOfWork, matchID int64) (bool, error) {
	match, err := uow.MatchRepository().GetForUpdate(ctx, matchID)
	if err != nil {
		return false, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return false, &NotFoundError{Entity: "match", ID: matchID}
	}
	if !match.IsCompleted() {
		return false, &ValidationError{Field: "status", Reason: fmt.Sprintf("match %d is %s, not completed", match.ID, match.Status)}
	}
	if !match.HasResult() {
		return false, &ValidationError{Field: "score", Reason: fmt.Sprintf("match %d has no final score", match.ID)}
	}
	if match.StandingsApplied() {
		log.WithField("matchID", match.ID).Debug("Match result already counted, skipping")
		return false, nil
	}

	if !match.Stage.IsKnockout() {
		if !match.HasTeams() {
			return false, &ValidationError{Field: "teams", Reason: fmt.Sprintf("match %d has no teams assigned", match.ID)}
		}
		if err := e.applyToTeams(ctx, uow, match); err != nil {
			return false, err
		}
		if _, err := e.Rerank(ctx, uow, match.TournamentID); err != nil {
			return false, err
		}
	}

	if err := uow.MatchRepository().MarkStandingsApplied(ctx, match.ID, e.now()); err != nil {
		return false, fmt.Errorf("failed to mark match %d applied: %w", match.ID, err)
	}

	publishEvent(uow, events.StandingsUpdatedEvent{
		TournamentID: match.TournamentID,
		MatchID:      match.ID,
	})

	log.WithFields(log.Fields{
		"matchID":      match.ID,
		"tournamentID": match.TournamentID,
		"stage":        match.Stage,
		"homeScore":    *match.HomeScore,
		"awayScore":    *match.AwayScore,
	}).Info("Applied match result to standings")
	return true, nil
}

// RecordMatchResult stores the final score of a scheduled match, completes it and
// counts it towards the standings in the same unit of work
func (e *StandingsEngine) RecordMatchResult(ctx context.Context, uow interfaces.UnitOfWork, matchID int64, homeScore, awayScore int) (*entities.Match, error) {
	if homeScore < 0 || awayScore < 0 {
		return nil, &ValidationError{Field: "score", Reason: "scores cannot be negative"}
	}

	match, err := uow.MatchRepository().GetForUpdate(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, &NotFoundError{Entity: "match", ID: matchID}
	}
	if match.Status != entities.MatchStatusScheduled {
		return nil, &AlreadyProcessedError{Entity: "match", CurrentStatus: string(match.Status)}
	}
	if !match.HasTeams() {
		return nil, &ValidationError{Field: "teams", Reason: fmt.Sprintf("match %d has no teams assigned", match.ID)}
	}

	match.HomeScore = &homeScore
	match.AwayScore = &awayScore
	match.Status = entities.MatchStatusCompleted
	if err := uow.MatchRepository().UpdateResult(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to update match result: %w", err)
	}

	if _, err := e.ApplyMatchResult(ctx, uow, match.ID); err != nil {
		return nil, err
	}
	return match, nil
}

// Rerank reads every standing of the tournament and rewrites positions
func (e *StandingsEngine) Rerank(ctx context.Context, uow interfaces.UnitOfWork, tournamentID int64) ([]*entities.Standing, error) {
	standings, err := uow.StandingRepository().ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}

	RankStandings(standings)

	if err := uow.StandingRepository().UpdatePositions(ctx, standings); err != nil {
		return nil, fmt.Errorf("failed to update positions: %w", err)
	}
	return standings, nil
}

// RebuildStandings recomputes every standing of a tournament from its completed
// matches, replaying them in id order
func (e *StandingsEngine) RebuildStandings(ctx context.Context, uow interfaces.UnitOfWork, tournamentID int64) ([]*entities.Standing, error) {
	tournament, err := uow.TournamentRepository().GetForUpdate(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	if tournament == nil {
		return nil, &NotFoundError{Entity: "tournament", ID: tournamentID}
	}

	standings, err := uow.StandingRepository().ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}
	byTeam := make(map[int64]*entities.Standing, len(standings))
	for _, standing := range standings {
		standing.Reset()
		byTeam[standing.TeamID] = standing
	}

	matches, err := uow.MatchRepository().ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].ID < matches[j].ID
	})

	now := e.now()
	replayed := 0
	for _, match := range matches {
		if !match.IsCompleted() || !match.HasResult() {
			continue
		}
		if !match.Stage.IsKnockout() && match.HasTeams() {
			home, okHome := byTeam[*match.HomeTeamID]
			away, okAway := byTeam[*match.AwayTeamID]
			if !okHome || !okAway {
				return nil, &ValidationError{Field: "standings", Reason: fmt.Sprintf("match %d references a team without a standing", match.ID)}
			}
			home.RecordResult(*match.HomeScore, *match.AwayScore)
			away.RecordResult(*match.AwayScore, *match.HomeScore)
			replayed++
		}
		if !match.StandingsApplied() {
			if err := uow.MatchRepository().MarkStandingsApplied(ctx, match.ID, now); err != nil {
				return nil, fmt.Errorf("failed to mark match %d applied: %w", match.ID, err)
			}
		}
	}

	for _, standing := range standings {
		if err := uow.StandingRepository().Update(ctx, standing); err != nil {
			return nil, fmt.Errorf("failed to update standing %d: %w", standing.ID, err)
		}
	}

	RankStandings(standings)
	if err := uow.StandingRepository().UpdatePositions(ctx, standings); err != nil {
		return nil, fmt.Errorf("failed to update positions: %w", err)
	}

	log.WithFields(log.Fields{
		"tournamentID":    tournamentID,
		"matchesReplayed": replayed,
		"standings":       len(standings),
	}).Info("Rebuilt standings from match history")
	return standings, nil
}

func (e *StandingsEngine) applyToTeams(ctx context.Context, uow interfaces.UnitOfWork, match *entities.Match) error {
	home, err := e.lockStanding(ctx, uow, match.TournamentID, *match.HomeTeamID)
	if err != nil {
		return err
	}
	away, err := e.lockStanding(ctx, uow, match.TournamentID, *match.AwayTeamID)
	if err != nil {
		return err
	}

	home.RecordResult(*match.HomeScore, *match.AwayScore)
	away.RecordResult(*match.AwayScore, *match.HomeScore)

	if err := uow.StandingRepository().Update(ctx, home); err != nil {
		return fmt.Errorf("failed to update home standing: %w", err)
	}
	if err := uow.StandingRepository().Update(ctx, away); err != nil {
		return fmt.Errorf("failed to update away standing: %w", err)
	}
	return nil
}

func (e *StandingsEngine) lockStanding(ctx context.Context, uow interfaces.UnitOfWork, tournamentID, teamID int64) (*entities.Standing, error) {
	standing, err := uow.StandingRepository().GetForUpdate(ctx, tournamentID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get standing for team %d: %w", teamID, err)
	}
	if standing == nil {
		return nil, &NotFoundError{Entity: "standing", ID: teamID}
	}
	return standing, nil
}
