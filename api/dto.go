package api

import (
	"time"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/services"
)

// Requests

type createTournamentRequest struct {
	SponsorID            int64     `json:"sponsor_id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Venue                string    `json:"venue"`
	MaxTeams             int       `json:"max_teams"`
	TotalPrizeMoney      int64     `json:"total_prize_money"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
}

type approveTournamentRequest struct {
	Target entities.TournamentStatus `json:"target"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type reviewRequest struct {
	Decision   entities.ApprovalStatus `json:"decision"`
	Reason     string                  `json:"reason"`
	ReviewerID int64                   `json:"reviewer_id"`
}

type submitUpdateRequest struct {
	RequestedBy int64                    `json:"requested_by"`
	Changes     entities.TournamentPatch `json:"changes"`
}

type createTeamRequest struct {
	Name    string `json:"name"`
	CoachID int64  `json:"coach_id"`
}

type registerTeamRequest struct {
	TeamID    int64  `json:"team_id"`
	GroupName string `json:"group_name"`
}

type scheduleMatchRequest struct {
	Stage       entities.MatchStage `json:"stage"`
	Round       int                 `json:"round"`
	HomeTeamID  *int64              `json:"home_team_id"`
	AwayTeamID  *int64              `json:"away_team_id"`
	ScheduledAt *time.Time          `json:"scheduled_at"`
}

type matchResultRequest struct {
	HomeScore *int `json:"home_score"`
	AwayScore *int `json:"away_score"`
}

// Responses

type tournamentResponse struct {
	ID                   int64                     `json:"id"`
	Name                 string                    `json:"name"`
	Description          string                    `json:"description"`
	Venue                string                    `json:"venue"`
	SponsorID            int64                     `json:"sponsor_id"`
	Status               entities.TournamentStatus `json:"status"`
	MaxTeams             int                       `json:"max_teams"`
	CurrentTeams         int                       `json:"current_teams"`
	TotalPrizeMoney      int64                     `json:"total_prize_money"`
	RegistrationDeadline time.Time                 `json:"registration_deadline"`
	StartDate            time.Time                 `json:"start_date"`
	EndDate              time.Time                 `json:"end_date"`
	UpdateCount          int                       `json:"update_count"`
	RejectionReason      *string                   `json:"rejection_reason,omitempty"`
}

func newTournamentResponse(t *entities.Tournament) tournamentResponse {
	return tournamentResponse{
		ID:                   t.ID,
		Name:                 t.Name,
		Description:          t.Description,
		Venue:                t.Venue,
		SponsorID:            t.SponsorID,
		Status:               t.Status,
		MaxTeams:             t.MaxTeams,
		CurrentTeams:         t.CurrentTeams,
		TotalPrizeMoney:      t.TotalPrizeMoney,
		RegistrationDeadline: t.RegistrationDeadline,
		StartDate:            t.StartDate,
		EndDate:              t.EndDate,
		UpdateCount:          t.UpdateCount,
		RejectionReason:      t.RejectionReason,
	}
}

type settlementResponse struct {
	Amount      int64   `json:"amount"`
	Share       int64   `json:"share"`
	Distributed int64   `json:"distributed"`
	Remainder   int64   `json:"remainder"`
	AccountIDs  []int64 `json:"account_ids"`
}

func newSettlementResponse(s *services.PoolSettlement) *settlementResponse {
	if s == nil {
		return nil
	}
	return &settlementResponse{
		Amount:      s.Amount,
		Share:       s.Share,
		Distributed: s.Distributed,
		Remainder:   s.Remainder,
		AccountIDs:  s.AccountIDs,
	}
}

type teamResponse struct {
	ID              int64                   `json:"id"`
	Name            string                  `json:"name"`
	CoachID         int64                   `json:"coach_id"`
	Status          entities.ApprovalStatus `json:"status"`
	EntryFee        int64                   `json:"entry_fee"`
	RejectionReason *string                 `json:"rejection_reason,omitempty"`
}

func newTeamResponse(t *entities.Team) teamResponse {
	return teamResponse{
		ID:              t.ID,
		Name:            t.Name,
		CoachID:         t.CoachID,
		Status:          t.Status,
		EntryFee:        t.EntryFee,
		RejectionReason: t.RejectionReason,
	}
}

type registrationResponse struct {
	ID              int64                   `json:"id"`
	TournamentID    int64                   `json:"tournament_id"`
	TeamID          int64                   `json:"team_id"`
	GroupName       string                  `json:"group_name"`
	Status          entities.ApprovalStatus `json:"status"`
	RejectionReason *string                 `json:"rejection_reason,omitempty"`
}

func newRegistrationResponse(r *entities.TeamRegistration) registrationResponse {
	return registrationResponse{
		ID:              r.ID,
		TournamentID:    r.TournamentID,
		TeamID:          r.TeamID,
		GroupName:       r.GroupName,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
	}
}

type updateRequestResponse struct {
	ID              int64                   `json:"id"`
	TournamentID    int64                   `json:"tournament_id"`
	RequestedBy     int64                   `json:"requested_by"`
	Status          entities.ApprovalStatus `json:"status"`
	RejectionReason *string                 `json:"rejection_reason,omitempty"`
}

func newUpdateRequestResponse(r *entities.TournamentUpdateRequest) updateRequestResponse {
	return updateRequestResponse{
		ID:              r.ID,
		TournamentID:    r.TournamentID,
		RequestedBy:     r.RequestedBy,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
	}
}

type standingResponse struct {
	TeamID         int64  `json:"team_id"`
	GroupName      string `json:"group_name"`
	Position       int    `json:"position"`
	MatchesPlayed  int    `json:"matches_played"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	Points         int    `json:"points"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
}

func newStandingResponses(standings []*entities.Standing) []standingResponse {
	out := make([]standingResponse, 0, len(standings))
	for _, s := range standings {
		out = append(out, standingResponse{
			TeamID:         s.TeamID,
			GroupName:      s.GroupName,
			Position:       s.Position,
			MatchesPlayed:  s.MatchesPlayed,
			Wins:           s.Wins,
			Draws:          s.Draws,
			Losses:         s.Losses,
			Points:         s.Points,
			GoalsFor:       s.GoalsFor,
			GoalsAgainst:   s.GoalsAgainst,
			GoalDifference: s.GoalDifference,
		})
	}
	return out
}

type matchResponse struct {
	ID           int64                `json:"id"`
	TournamentID int64                `json:"tournament_id"`
	Stage        entities.MatchStage  `json:"stage"`
	Round        int                  `json:"round"`
	HomeTeamID   *int64               `json:"home_team_id"`
	AwayTeamID   *int64               `json:"away_team_id"`
	Status       entities.MatchStatus `json:"status"`
	HomeScore    *int                 `json:"home_score"`
	AwayScore    *int                 `json:"away_score"`
	ScheduledAt  *time.Time           `json:"scheduled_at,omitempty"`
}

func newMatchResponse(m *entities.Match) matchResponse {
	return matchResponse{
		ID:           m.ID,
		TournamentID: m.TournamentID,
		Stage:        m.Stage,
		Round:        m.Round,
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		Status:       m.Status,
		HomeScore:    m.HomeScore,
		AwayScore:    m.AwayScore,
		ScheduledAt:  m.ScheduledAt,
	}
}

func newMatchResponses(matches []*entities.Match) []matchResponse {
	out := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, newMatchResponse(m))
	}
	return out
}

type transactionResponse struct {
	ID              int64                    `json:"id"`
	BalanceBefore   int64                    `json:"balance_before"`
	BalanceAfter    int64                    `json:"balance_after"`
	ChangeAmount    int64                    `json:"change_amount"`
	TransactionType entities.TransactionType `json:"transaction_type"`
	RelatedID       *int64                   `json:"related_id,omitempty"`
	RelatedType     *entities.RelatedType    `json:"related_type,omitempty"`
	Metadata        map[string]interface{}   `json:"metadata,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
}

func newTransactionResponses(history []*entities.FinancialTransaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(history))
	for _, tx := range history {
		out = append(out, transactionResponse{
			ID:              tx.ID,
			BalanceBefore:   tx.BalanceBefore,
			BalanceAfter:    tx.BalanceAfter,
			ChangeAmount:    tx.ChangeAmount,
			TransactionType: tx.TransactionType,
			RelatedID:       tx.RelatedID,
			RelatedType:     tx.RelatedType,
			Metadata:        tx.Metadata,
			CreatedAt:       tx.CreatedAt,
		})
	}
	return out
}
