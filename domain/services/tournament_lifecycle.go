package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/events"
	"hoopsleague/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// TournamentApproval is the outcome of approving a tournament
type TournamentApproval struct {
	Tournament *entities.Tournament
	Fee        int64
	Settlement *PoolSettlement
}

// UpdateRequestReview is the outcome of reviewing a tournament update request
type UpdateRequestReview struct {
	Request    *entities.TournamentUpdateRequest
	Tournament *entities.Tournament
	FeeDelta   int64
	Settlement *PoolSettlement
}

// TeamReview is the outcome of reviewing a new team
type TeamReview struct {
	Team       *entities.Team
	Fee        int64
	Settlement *PoolSettlement
}

// TournamentLifecycle drives tournament, team, registration and update-request
// transitions. Every method works inside the caller's unit of work: business rules
// are checked before any write, and money always moves before the status flips.
type TournamentLifecycle struct {
	ledger *Ledger
	fees   *FeePolicy
	now    func() time.Time
}

// NewTournamentLifecycle creates a new tournament lifecycle service
func NewTournamentLifecycle(ledger *Ledger, fees *FeePolicy) *TournamentLifecycle {
	return &TournamentLifecycle{
		ledger: ledger,
		fees:   fees,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ApproveTournamentCreation charges the creation fee to the sponsor and opens the
// tournament. target defaults to registration; ongoing is also accepted.
func (s *TournamentLifecycle) ApproveTournamentCreation(ctx context.Context, uow interfaces.UnitOfWork, tournamentID int64, target entities.TournamentStatus) (*TournamentApproval, error) {
	if target == "" {
		target = entities.TournamentStatusRegistration
	}
	if target != entities.TournamentStatusRegistration && target != entities.TournamentStatusOngoing {
		return nil, &ValidationError{Field: "target_status", Reason: fmt.Sprintf("%s is not a valid approval target", target)}
	}

	tournament, err := s.lockTournament(ctx, uow, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := requireDraft(tournament, target); err != nil {
		return nil, err
	}

	approval := &TournamentApproval{
		Tournament: tournament,
		Fee:        s.fees.TournamentCreationFee(tournament.TotalPrizeMoney),
	}

	if approval.Fee > 0 {
		settlement, err := s.ledger.ChargeToPool(ctx, uow, tournament.SponsorID, approval.Fee, TransferRef{
			DebitType:   entities.TransactionTypeTournamentCreationFee,
			CreditType:  entities.TransactionTypeAdminFeeShare,
			RelatedID:   tournament.ID,
			RelatedType: entities.RelatedTypeTournament,
			Metadata: map[string]interface{}{
				"total_prize_money": tournament.TotalPrizeMoney,
			},
		})
		if err != nil {
			return nil, err
		}
		approval.Settlement = settlement
	}

	oldStatus := tournament.Status
	if err := uow.TournamentRepository().UpdateStatus(ctx, tournament.ID, target); err != nil {
		return nil, fmt.Errorf("failed to update tournament status: %w", err)
	}
	tournament.Status = target

	publishEvent(uow, events.TournamentStatusChangedEvent{
		TournamentID: tournament.ID,
		SponsorID:    tournament.SponsorID,
		OldStatus:    oldStatus,
		NewStatus:    target,
		FeeCharged:   approval.Fee,
	})
	requestNotification(uow, entities.ForUser(tournament.SponsorID, entities.NotificationTypeTournamentApproved,
		"Tournament approved",
		fmt.Sprintf("Your tournament %q was approved. A fee of %d was charged.", tournament.Name, approval.Fee)))

	log.WithFields(log.Fields{
		"tournamentID": tournament.ID,
		"sponsorID":    tournament.SponsorID,
		"fee":          approval.Fee,
		"newStatus":    target,
	}).Info("Approved tournament creation")
	return approval, nil
}

// RejectTournamentCreation cancels a draft tournament. No money moves.
func (s *TournamentLifecycle) RejectTournamentCreation(ctx context.Context, uow interfaces.UnitOfWork, tournamentID int64, reason string) (*entities.Tournament, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Reason: "a rejection reason is required"}
	}

	tournament, err := s.lockTournament(ctx, uow, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := requireDraft(tournament, entities.TournamentStatusCancelled); err != nil {
		return nil, err
	}

	oldStatus := tournament.Status
	tournament.Status = entities.TournamentStatusCancelled
	tournament.RejectionReason = &reason
	if err := uow.TournamentRepository().Update(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}

	publishEvent(uow, events.TournamentStatusChangedEvent{
		TournamentID: tournament.ID,
		SponsorID:    tournament.SponsorID,
		OldStatus:    oldStatus,
		NewStatus:    tournament.Status,
		Reason:       reason,
	})
	requestNotification(uow, entities.ForUser(tournament.SponsorID, entities.NotificationTypeTournamentRejected,
		"Tournament rejected",
		fmt.Sprintf("Your tournament %q was rejected: %s", tournament.Name, reason)))

	log.WithFields(log.Fields{
		"tournamentID": tournament.ID,
		"reason":       reason,
	}).Info("Rejected tournament creation")
	return tournament, nil
}

// AutoPromoteToOngoing starts a tournament in registration once its start date has
// arrived and it has as many approved teams as it allows. Returns false when the
// tournament is not ready.
func (s *TournamentLifecycle) AutoPromoteToOngoing(ctx context.Context, uow interfaces.UnitOfWork, tournamentID int64, now time.Time) (bool, error) {
	tournament, err := s.lockTournament(ctx, uow, tournamentID)
	if err != nil {
		return false, err
	}
	if tournament.Status != entities.TournamentStatusRegistration || !tournament.HasStarted(now) {
		return false, nil
	}

	approved, err := uow.RegistrationRepository().CountApproved(ctx, tournament.ID)
	if err != nil {
		return false, fmt.Errorf("failed to count approved teams: %w", err)
	}
	if approved < tournament.MaxTeams {
		log.WithFields(log.Fields{
			"tournamentID":  tournament.ID,
			"approvedTeams": approved,
			"maxTeams":      tournament.MaxTeams,
		}).Debug("Tournament start date reached but not enough approved teams")
		return false, nil
	}

	if err := s.promote(ctx, uow, tournament, entities.TournamentStatusOngoing); err != nil {
		return false, err
	}
	return true, nil
}

// AutoPromoteToCompleted closes an ongoing tournament once its end date has passed,
// whether or not every match was played
func (s *TournamentLifecycle) AutoPromoteToCompleted(ctx context.Context, uow interfaces.UnitOfWork, tournamentID int64, now time.Time) (bool, error) {
	tournament, err := s.lockTournament(ctx, uow, tournamentID)
	if err != nil {
		return false, err
	}
	if tournament.Status != entities.TournamentStatusOngoing || !tournament.HasEnded(now) {
		return false, nil
	}

	if err := s.promote(ctx, uow, tournament, entities.TournamentStatusCompleted); err != nil {
		return false, err
	}
	return true, nil
}

// ReviewTournamentUpdateRequest approves or rejects a pending update request.
// Approval applies the patch and settles the fee delta when the prize pool changes.
func (s *TournamentLifecycle) ReviewTournamentUpdateRequest(ctx context.Context, uow interfaces.UnitOfWork, requestID int64, decision entities.ApprovalStatus, reason string, reviewerID int64) (*UpdateRequestReview, error) {
	if !decision.IsDecision() {
		return nil, &ValidationError{Field: "decision", Reason: fmt.Sprintf("%q is not a decision", decision)}
	}
	reason = strings.TrimSpace(reason)

	request, err := uow.UpdateRequestRepository().GetForUpdate(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get update request: %w", err)
	}
	if request == nil {
		return nil, &NotFoundError{Entity: "update request", ID: requestID}
	}
	if !request.IsPending() {
		return nil, &AlreadyProcessedError{Entity: "update request", CurrentStatus: string(request.Status)}
	}

	tournament, err := s.lockTournament(ctx, uow, request.TournamentID)
	if err != nil {
		return nil, err
	}

	review := &UpdateRequestReview{Request: request, Tournament: tournament}

	if decision == entities.ApprovalStatusRejected {
		if reason == "" {
			return nil, &ValidationError{Field: "reason", Reason: "a rejection reason is required"}
		}
		request.RejectionReason = &reason
		if err := s.closeRequest(ctx, uow, request, decision, reviewerID); err != nil {
			return nil, err
		}
		s.announceUpdateReview(uow, review)
		return review, nil
	}

	patch, err := entities.DecodeTournamentPatch(request.ProposedChanges)
	if err != nil {
		return nil, &ValidationError{Field: "proposed_changes", Reason: err.Error()}
	}

	updated := *tournament
	patch.ApplyTo(&updated)
	if err := ValidateTournament(&updated); err != nil {
		return nil, err
	}

	if patch.ChangesPrizeMoney(tournament.TotalPrizeMoney) {
		review.FeeDelta = s.fees.FeeDelta(tournament.TotalPrizeMoney, updated.TotalPrizeMoney)
	}

	ref := TransferRef{
		RelatedID:   request.ID,
		RelatedType: entities.RelatedTypeUpdateRequest,
		Metadata: map[string]interface{}{
			"tournament_id":         tournament.ID,
			"old_total_prize_money": tournament.TotalPrizeMoney,
			"new_total_prize_money": updated.TotalPrizeMoney,
		},
	}
	switch {
	case review.FeeDelta > 0:
		ref.DebitType = entities.TransactionTypeTournamentFeeAdjustment
		ref.CreditType = entities.TransactionTypeAdminFeeShare
		review.Settlement, err = s.ledger.ChargeToPool(ctx, uow, tournament.SponsorID, review.FeeDelta, ref)
	case review.FeeDelta < 0:
		ref.DebitType = entities.TransactionTypeAdminFeeRefund
		ref.CreditType = entities.TransactionTypeTournamentFeeRefund
		review.Settlement, err = s.ledger.RefundFromPool(ctx, uow, tournament.SponsorID, -review.FeeDelta, ref)
	}
	if err != nil {
		return nil, err
	}

	updated.UpdateCount++
	if err := uow.TournamentRepository().Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}
	review.Tournament = &updated

	if err := s.closeRequest(ctx, uow, request, decision, reviewerID); err != nil {
		return nil, err
	}
	s.announceUpdateReview(uow, review)

	log.WithFields(log.Fields{
		"requestID":    request.ID,
		"tournamentID": updated.ID,
		"feeDelta":     review.FeeDelta,
		"updateCount":  updated.UpdateCount,
	}).Info("Approved tournament update request")
	return review, nil
}

// ReviewTeamCreation approves or rejects a pending team. Approval charges the
// team creation fee to the coach before the status changes.
func (s *TournamentLifecycle) ReviewTeamCreation(ctx context.Context, uow interfaces.UnitOfWork, teamID int64, decision entities.ApprovalStatus, reason string) (*TeamReview, error) {
	if !decision.IsDecision() {
		return nil, &ValidationError{Field: "decision", Reason: fmt.Sprintf("%q is not a decision", decision)}
	}
	reason = strings.TrimSpace(reason)

	team, err := uow.TeamRepository().GetForUpdate(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if team == nil {
		return nil, &NotFoundError{Entity: "team", ID: teamID}
	}
	if !team.IsPending() {
		return nil, &AlreadyProcessedError{Entity: "team", CurrentStatus: string(team.Status)}
	}

	review := &TeamReview{Team: team}

	if decision == entities.ApprovalStatusRejected {
		if reason == "" {
			return nil, &ValidationError{Field: "reason", Reason: "a rejection reason is required"}
		}
		team.RejectionReason = &reason
	} else {
		review.Fee = s.fees.TeamCreationFee()
		review.Settlement, err = s.ledger.ChargeToPool(ctx, uow, team.CoachID, review.Fee, TransferRef{
			DebitType:   entities.TransactionTypeTeamCreationFee,
			CreditType:  entities.TransactionTypeAdminFeeShare,
			RelatedID:   team.ID,
			RelatedType: entities.RelatedTypeTeam,
			Metadata: map[string]interface{}{
				"team_name": team.Name,
			},
		})
		if err != nil {
			return nil, err
		}
		approvedAt := s.now()
		team.ApprovedAt = &approvedAt
		team.EntryFee = review.Fee
	}

	team.Status = decision
	if err := uow.TeamRepository().Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	publishEvent(uow, events.TeamReviewedEvent{
		TeamID:  team.ID,
		CoachID: team.CoachID,
		Status:  team.Status,
		Fee:     review.Fee,
	})
	message := fmt.Sprintf("Your team %q was approved. A fee of %d was charged.", team.Name, review.Fee)
	if decision == entities.ApprovalStatusRejected {
		message = fmt.Sprintf("Your team %q was rejected: %s", team.Name, reason)
	}
	requestNotification(uow, entities.ForUser(team.CoachID, entities.NotificationTypeTeamReviewed, "Team reviewed", message))

	log.WithFields(log.Fields{
		"teamID":   team.ID,
		"coachID":  team.CoachID,
		"decision": decision,
		"fee":      review.Fee,
	}).Info("Reviewed team creation")
	return review, nil
}

// ReviewTeamRegistration approves or rejects a team's entry into a tournament.
// Approval takes one of the tournament's free places; the standing row is created
// by the database when the registration becomes approved.
func (s *TournamentLifecycle) ReviewTeamRegistration(ctx context.Context, uow interfaces.UnitOfWork, registrationID int64, decision entities.ApprovalStatus, reason string) (*entities.TeamRegistration, error) {
	if !decision.IsDecision() {
		return nil, &ValidationError{Field: "decision", Reason: fmt.Sprintf("%q is not a decision", decision)}
	}
	reason = strings.TrimSpace(reason)

	registration, err := uow.RegistrationRepository().GetForUpdate(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	if registration == nil {
		return nil, &NotFoundError{Entity: "registration", ID: registrationID}
	}
	if !registration.IsPending() {
		return nil, &AlreadyProcessedError{Entity: "registration", CurrentStatus: string(registration.Status)}
	}

	if decision == entities.ApprovalStatusApproved {
		tournament, err := s.lockTournament(ctx, uow, registration.TournamentID)
		if err != nil {
			return nil, err
		}
		if !tournament.Status.AcceptsRegistrations() {
			return nil, &ValidationError{Field: "tournament_status", Reason: fmt.Sprintf("tournament is %s", tournament.Status)}
		}
		if tournament.IsFull() {
			return nil, &ValidationError{Field: "current_teams", Reason: fmt.Sprintf("tournament is full (%d/%d)", tournament.CurrentTeams, tournament.MaxTeams)}
		}

		incremented, err := uow.TournamentRepository().IncrementCurrentTeams(ctx, tournament.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to increment team count: %w", err)
		}
		if !incremented {
			return nil, &ValidationError{Field: "current_teams", Reason: fmt.Sprintf("tournament is full (%d/%d)", tournament.CurrentTeams, tournament.MaxTeams)}
		}
	} else if reason != "" {
		registration.RejectionReason = &reason
	}

	registration.Status = decision
	if err := uow.RegistrationRepository().Update(ctx, registration); err != nil {
		return nil, fmt.Errorf("failed to update registration: %w", err)
	}

	publishEvent(uow, events.RegistrationReviewedEvent{
		RegistrationID: registration.ID,
		TournamentID:   registration.TournamentID,
		TeamID:         registration.TeamID,
		Status:         registration.Status,
	})
	requestNotification(uow, entities.ForTeam(registration.TeamID, entities.NotificationTypeRegistrationReviewed,
		"Tournament registration reviewed",
		fmt.Sprintf("Your registration for tournament %d was %s.", registration.TournamentID, registration.Status)))

	log.WithFields(log.Fields{
		"registrationID": registration.ID,
		"tournamentID":   registration.TournamentID,
		"teamID":         registration.TeamID,
		"decision":       decision,
	}).Info("Reviewed team registration")
	return registration, nil
}

func (s *TournamentLifecycle) promote(ctx context.Context, uow interfaces.UnitOfWork, tournament *entities.Tournament, next entities.TournamentStatus) error {
	if !tournament.Status.CanTransitionTo(next) {
		return &InvalidStateTransitionError{Entity: "tournament", From: string(tournament.Status), To: string(next)}
	}

	oldStatus := tournament.Status
	if err := uow.TournamentRepository().UpdateStatus(ctx, tournament.ID, next); err != nil {
		return fmt.Errorf("failed to update tournament status: %w", err)
	}
	tournament.Status = next

	publishEvent(uow, events.TournamentStatusChangedEvent{
		TournamentID: tournament.ID,
		SponsorID:    tournament.SponsorID,
		OldStatus:    oldStatus,
		NewStatus:    next,
	})
	requestNotification(uow, entities.ForUser(tournament.SponsorID, entities.NotificationTypeTournamentStatus,
		"Tournament status changed",
		fmt.Sprintf("Tournament %q is now %s.", tournament.Name, next)))

	log.WithFields(log.Fields{
		"tournamentID": tournament.ID,
		"oldStatus":    oldStatus,
		"newStatus":    next,
	}).Info("Promoted tournament")
	return nil
}

func (s *TournamentLifecycle) closeRequest(ctx context.Context, uow interfaces.UnitOfWork, request *entities.TournamentUpdateRequest, decision entities.ApprovalStatus, reviewerID int64) error {
	reviewedAt := s.now()
	request.Status = decision
	request.ReviewedAt = &reviewedAt
	if reviewerID != 0 {
		request.ReviewedBy = &reviewerID
	}
	if err := uow.UpdateRequestRepository().Update(ctx, request); err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	return nil
}

func (s *TournamentLifecycle) announceUpdateReview(uow interfaces.UnitOfWork, review *UpdateRequestReview) {
	publishEvent(uow, events.UpdateRequestReviewedEvent{
		RequestID:    review.Request.ID,
		TournamentID: review.Request.TournamentID,
		Status:       review.Request.Status,
		FeeDelta:     review.FeeDelta,
	})

	message := fmt.Sprintf("Your changes to %q were approved.", review.Tournament.Name)
	if review.Request.Status == entities.ApprovalStatusRejected {
		message = fmt.Sprintf("Your changes to %q were rejected: %s", review.Tournament.Name, *review.Request.RejectionReason)
	}
	requestNotification(uow, entities.ForUser(review.Tournament.SponsorID, entities.NotificationTypeUpdateRequestReviewed,
		"Tournament update reviewed", message))
}

func (s *TournamentLifecycle) lockTournament(ctx context.Context, uow interfaces.UnitOfWork, tournamentID int64) (*entities.Tournament, error) {
	tournament, err := uow.TournamentRepository().GetForUpdate(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	if tournament == nil {
		return nil, &NotFoundError{Entity: "tournament", ID: tournamentID}
	}
	return tournament, nil
}

// requireDraft checks that a tournament is still awaiting its creation review
func requireDraft(tournament *entities.Tournament, target entities.TournamentStatus) error {
	switch {
	case tournament.Status == entities.TournamentStatusDraft:
		return nil
	case tournament.Status == entities.TournamentStatusCancelled:
		return &InvalidStateTransitionError{Entity: "tournament", From: string(tournament.Status), To: string(target)}
	default:
		return &AlreadyProcessedError{Entity: "tournament", CurrentStatus: string(tournament.Status)}
	}
}

// ValidateTournament checks a new or patched tournament before anything is written
func ValidateTournament(t *entities.Tournament) error {
	if strings.TrimSpace(t.Name) == "" {
		return &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if t.MaxTeams <= 0 {
		return &ValidationError{Field: "max_teams", Reason: "must be positive"}
	}
	if t.MaxTeams < t.CurrentTeams {
		return &ValidationError{Field: "max_teams", Reason: fmt.Sprintf("cannot be below the %d teams already approved", t.CurrentTeams)}
	}
	if t.TotalPrizeMoney < 0 {
		return &ValidationError{Field: "total_prize_money", Reason: "cannot be negative"}
	}
	if !t.StartDate.Before(t.EndDate) {
		return &ValidationError{Field: "end_date", Reason: "must be after start_date"}
	}
	if t.RegistrationDeadline.After(t.StartDate) {
		return &ValidationError{Field: "registration_deadline", Reason: "cannot be after start_date"}
	}
	return nil
}
