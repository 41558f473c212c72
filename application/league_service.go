package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/services"

	log "github.com/sirupsen/logrus"
)

// LeagueService runs admin actions. Each call gets its own unit of work and is
// committed only if the domain operation succeeds.
type LeagueService struct {
	uowFactory UnitOfWorkFactory
	lifecycle  *services.TournamentLifecycle
	standings  *services.StandingsEngine
	advancer   *services.PlayoffAdvancer
	metrics    Metrics
}

// NewLeagueService creates a new league service
func NewLeagueService(
	uowFactory UnitOfWorkFactory,
	lifecycle *services.TournamentLifecycle,
	standings *services.StandingsEngine,
	advancer *services.PlayoffAdvancer,
	metrics Metrics,
) *LeagueService {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &LeagueService{
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
		standings:  standings,
		advancer:   advancer,
		metrics:    metrics,
	}
}

// ApproveTournamentCreation charges the creation fee and opens the tournament
func (s *LeagueService) ApproveTournamentCreation(ctx context.Context, tournamentID int64, target entities.TournamentStatus) (*services.TournamentApproval, error) {
	var approval *services.TournamentApproval
	err := s.withinUnitOfWork(ctx, "approve_tournament", func(uow UnitOfWork) error {
		var err error
		approval, err = s.lifecycle.ApproveTournamentCreation(ctx, uow, tournamentID, target)
		return err
	})
	if err != nil {
		return nil, err
	}
	return approval, nil
}

// RejectTournamentCreation cancels a draft tournament
func (s *LeagueService) RejectTournamentCreation(ctx context.Context, tournamentID int64, reason string) (*entities.Tournament, error) {
	var tournament *entities.Tournament
	err := s.withinUnitOfWork(ctx, "reject_tournament", func(uow UnitOfWork) error {
		var err error
		tournament, err = s.lifecycle.RejectTournamentCreation(ctx, uow, tournamentID, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tournament, nil
}

// ReviewTournamentUpdateRequest approves or rejects a pending update request
func (s *LeagueService) ReviewTournamentUpdateRequest(ctx context.Context, requestID int64, decision entities.ApprovalStatus, reason string, reviewerID int64) (*services.UpdateRequestReview, error) {
	var review *services.UpdateRequestReview
	err := s.withinUnitOfWork(ctx, "review_update_request", func(uow UnitOfWork) error {
		var err error
		review, err = s.lifecycle.ReviewTournamentUpdateRequest(ctx, uow, requestID, decision, reason, reviewerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ReviewTeamCreation approves or rejects a pending team
func (s *LeagueService) ReviewTeamCreation(ctx context.Context, teamID int64, decision entities.ApprovalStatus, reason string) (*services.TeamReview, error) {
	var review *services.TeamReview
	err := s.withinUnitOfWork(ctx, "review_team", func(uow UnitOfWork) error {
		var err error
		review, err = s.lifecycle.ReviewTeamCreation(ctx, uow, teamID, decision, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ReviewTeamRegistration approves or rejects a team's entry into a tournament
func (s *LeagueService) ReviewTeamRegistration(ctx context.Context, registrationID int64, decision entities.ApprovalStatus, reason string) (*entities.TeamRegistration, error) {
	var registration *entities.TeamRegistration
	err := s.withinUnitOfWork(ctx, "review_registration", func(uow UnitOfWork) error {
		var err error
		registration, err = s.lifecycle.ReviewTeamRegistration(ctx, uow, registrationID, decision, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return registration, nil
}

// RecordMatchResult stores a final score and counts it towards the standings
func (s *LeagueService) RecordMatchResult(ctx context.Context, matchID int64, homeScore, awayScore int) (*entities.Match, error) {
	var match *entities.Match
	err := s.withinUnitOfWork(ctx, "record_match_result", func(uow UnitOfWork) error {
		var err error
		match, err = s.standings.RecordMatchResult(ctx, uow, matchID, homeScore, awayScore)
		return err
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// RebuildStandings recomputes a tournament's standings from its match history
func (s *LeagueService) RebuildStandings(ctx context.Context, tournamentID int64) ([]*entities.Standing, error) {
	var standings []*entities.Standing
	err := s.withinUnitOfWork(ctx, "rebuild_standings", func(uow UnitOfWork) error {
		var err error
		standings, err = s.standings.RebuildStandings(ctx, uow, tournamentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return standings, nil
}

// AdvancePlayoffs fills whichever bracket slots are ready
func (s *LeagueService) AdvancePlayoffs(ctx context.Context, tournamentID int64) (*services.AdvanceResult, error) {
	var result *services.AdvanceResult
	err := s.withinUnitOfWork(ctx, "advance_playoffs", func(uow UnitOfWork) error {
		if _, err := requireTournament(ctx, uow, tournamentID); err != nil {
			return err
		}
		var err error
		result, err = s.advancer.Advance(ctx, uow, tournamentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateTournament stores a draft tournament for a sponsor. No money moves until approval.
func (s *LeagueService) CreateTournament(ctx context.Context, tournament *entities.Tournament) error {
	return s.withinUnitOfWork(ctx, "create_tournament", func(uow UnitOfWork) error {
		sponsor, err := uow.AccountRepository().GetByID(ctx, tournament.SponsorID)
		if err != nil {
			return fmt.Errorf("failed to get sponsor: %w", err)
		}
		if sponsor == nil {
			return &services.NotFoundError{Entity: "account", ID: tournament.SponsorID}
		}
		if sponsor.Role != entities.UserRoleSponsor {
			return &services.ValidationError{Field: "sponsor_id", Reason: fmt.Sprintf("account %d is not a sponsor", sponsor.ID)}
		}

		tournament.Name = strings.TrimSpace(tournament.Name)
		tournament.Status = entities.TournamentStatusDraft
		tournament.CurrentTeams = 0
		if err := services.ValidateTournament(tournament); err != nil {
			return err
		}
		return uow.TournamentRepository().Create(ctx, tournament)
	})
}

// SubmitUpdateRequest stores a sponsor's proposed changes for admin review
func (s *LeagueService) SubmitUpdateRequest(ctx context.Context, tournamentID, requestedBy int64, patch *entities.TournamentPatch) (*entities.TournamentUpdateRequest, error) {
	if patch == nil || patch.IsEmpty() {
		return nil, &services.ValidationError{Field: "proposed_changes", Reason: "must change at least one field"}
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode proposed changes: %w", err)
	}

	request := &entities.TournamentUpdateRequest{
		TournamentID:    tournamentID,
		RequestedBy:     requestedBy,
		ProposedChanges: raw,
		Status:          entities.ApprovalStatusPending,
	}
	err = s.withinUnitOfWork(ctx, "submit_update_request", func(uow UnitOfWork) error {
		tournament, err := requireTournament(ctx, uow, tournamentID)
		if err != nil {
			return err
		}
		if tournament.Status.IsTerminal() {
			return &services.InvalidStateTransitionError{Entity: "tournament", From: string(tournament.Status), To: "updated"}
		}
		return uow.UpdateRequestRepository().Create(ctx, request)
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// CreateTeam stores a pending team for a coach
func (s *LeagueService) CreateTeam(ctx context.Context, team *entities.Team) error {
	return s.withinUnitOfWork(ctx, "create_team", func(uow UnitOfWork) error {
		team.Name = strings.TrimSpace(team.Name)
		if team.Name == "" {
			return &services.ValidationError{Field: "name", Reason: "cannot be empty"}
		}
		coach, err := uow.AccountRepository().GetByID(ctx, team.CoachID)
		if err != nil {
			return fmt.Errorf("failed to get coach: %w", err)
		}
		if coach == nil {
			return &services.NotFoundError{Entity: "account", ID: team.CoachID}
		}
		if coach.Role != entities.UserRoleCoach {
			return &services.ValidationError{Field: "coach_id", Reason: fmt.Sprintf("account %d is not a coach", coach.ID)}
		}
		team.Status = entities.ApprovalStatusPending
		return uow.TeamRepository().Create(ctx, team)
	})
}

// RegisterTeam asks for an approved team to enter a tournament
func (s *LeagueService) RegisterTeam(ctx context.Context, registration *entities.TeamRegistration) error {
	return s.withinUnitOfWork(ctx, "register_team", func(uow UnitOfWork) error {
		tournament, err := requireTournament(ctx, uow, registration.TournamentID)
		if err != nil {
			return err
		}
		if !tournament.Status.AcceptsRegistrations() {
			return &services.InvalidStateTransitionError{Entity: "tournament", From: string(tournament.Status), To: "registration"}
		}

		team, err := uow.TeamRepository().GetByID(ctx, registration.TeamID)
		if err != nil {
			return fmt.Errorf("failed to get team: %w", err)
		}
		if team == nil {
			return &services.NotFoundError{Entity: "team", ID: registration.TeamID}
		}
		if team.Status != entities.ApprovalStatusApproved {
			return &services.ValidationError{Field: "team_id", Reason: fmt.Sprintf("team %d is %s, not approved", team.ID, team.Status)}
		}

		registration.Status = entities.ApprovalStatusPending
		return uow.RegistrationRepository().Create(ctx, registration)
	})
}

// ScheduleMatch creates a match. Bracket matches may be created without teams.
func (s *LeagueService) ScheduleMatch(ctx context.Context, match *entities.Match) error {
	return s.withinUnitOfWork(ctx, "schedule_match", func(uow UnitOfWork) error {
		if _, err := requireTournament(ctx, uow, match.TournamentID); err != nil {
			return err
		}
		if !match.Stage.IsKnockout() && !match.HasTeams() {
			return &services.ValidationError{Field: "teams", Reason: "group matches need both teams"}
		}
		if match.HasTeams() && *match.HomeTeamID == *match.AwayTeamID {
			return &services.ValidationError{Field: "away_team_id", Reason: "a team cannot play itself"}
		}
		match.Status = entities.MatchStatusScheduled
		return uow.MatchRepository().Create(ctx, match)
	})
}

// GetTournament returns a tournament
func (s *LeagueService) GetTournament(ctx context.Context, tournamentID int64) (*entities.Tournament, error) {
	var tournament *entities.Tournament
	err := s.readOnly(ctx, func(uow UnitOfWork) error {
		var err error
		tournament, err = requireTournament(ctx, uow, tournamentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tournament, nil
}

// ListStandings returns a tournament's standings in position order
func (s *LeagueService) ListStandings(ctx context.Context, tournamentID int64) ([]*entities.Standing, error) {
	var standings []*entities.Standing
	err := s.readOnly(ctx, func(uow UnitOfWork) error {
		if _, err := requireTournament(ctx, uow, tournamentID); err != nil {
			return err
		}
		var err error
		standings, err = uow.StandingRepository().ListByTournament(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list standings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByPosition(standings)
	return standings, nil
}

// ListMatches returns a tournament's matches ordered by round
func (s *LeagueService) ListMatches(ctx context.Context, tournamentID int64) ([]*entities.Match, error) {
	var matches []*entities.Match
	err := s.readOnly(ctx, func(uow UnitOfWork) error {
		if _, err := requireTournament(ctx, uow, tournamentID); err != nil {
			return err
		}
		var err error
		matches, err = uow.MatchRepository().ListByTournament(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// ListTransactions returns an account's most recent balance changes
func (s *LeagueService) ListTransactions(ctx context.Context, accountID int64, limit int) ([]*entities.FinancialTransaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var history []*entities.FinancialTransaction
	err := s.readOnly(ctx, func(uow UnitOfWork) error {
		account, err := uow.AccountRepository().GetByID(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return &services.NotFoundError{Entity: "account", ID: accountID}
		}
		history, err = uow.FinancialTransactionRepository().ListByAccount(ctx, accountID, limit)
		if err != nil {
			return fmt.Errorf("failed to list transactions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// withinUnitOfWork runs fn in a fresh transaction, commits on success and reports
// the outcome to metrics
func (s *LeagueService) withinUnitOfWork(ctx context.Context, operation string, fn func(uow UnitOfWork) error) error {
	start := time.Now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		s.metrics.ObserveOperation(operation, OutcomeError, time.Since(start))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		outcome := classifyError(err)
		s.metrics.ObserveOperation(operation, outcome, time.Since(start))
		if outcome == OutcomeError {
			log.WithFields(log.Fields{
				"operation": operation,
				"error":     err,
			}).Error("League operation failed")
		} else {
			log.WithFields(log.Fields{
				"operation": operation,
				"reason":    err.Error(),
			}).Info("League operation rejected")
		}
		return err
	}

	if err := uow.Commit(); err != nil {
		s.metrics.ObserveOperation(operation, OutcomeError, time.Since(start))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.metrics.ObserveOperation(operation, OutcomeSuccess, time.Since(start))
	return nil
}

// readOnly runs fn in a transaction that is always rolled back
func (s *LeagueService) readOnly(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()
	return fn(uow)
}

func requireTournament(ctx context.Context, uow UnitOfWork, tournamentID int64) (*entities.Tournament, error) {
	tournament, err := uow.TournamentRepository().GetByID(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	if tournament == nil {
		return nil, &services.NotFoundError{Entity: "tournament", ID: tournamentID}
	}
	return tournament, nil
}

// classifyError separates business-rule refusals from infrastructure failures
func classifyError(err error) string {
	var (
		insufficient *services.InsufficientFundsError
		transition   *services.InvalidStateTransitionError
		notFound     *services.NotFoundError
		validation   *services.ValidationError
		processed    *services.AlreadyProcessedError
	)
	switch {
	case errors.As(err, &insufficient),
		errors.As(err, &transition),
		errors.As(err, &notFound),
		errors.As(err, &validation),
		errors.As(err, &processed):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

func sortByPosition(standings []*entities.Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Position < standings[j].Position
	})
}
