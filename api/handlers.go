package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"hoopsleague/application"
	"hoopsleague/domain/entities"
	"hoopsleague/domain/services"
)

// LeagueOperations is the application surface exposed over HTTP
type LeagueOperations interface {
	CreateTournament(ctx context.Context, tournament *entities.Tournament) error
	GetTournament(ctx context.Context, tournamentID int64) (*entities.Tournament, error)
	ApproveTournamentCreation(ctx context.Context, tournamentID int64, target entities.TournamentStatus) (*services.TournamentApproval, error)
	RejectTournamentCreation(ctx context.Context, tournamentID int64, reason string) (*entities.Tournament, error)
	SubmitUpdateRequest(ctx context.Context, tournamentID, requestedBy int64, patch *entities.TournamentPatch) (*entities.TournamentUpdateRequest, error)
	ReviewTournamentUpdateRequest(ctx context.Context, requestID int64, decision entities.ApprovalStatus, reason string, reviewerID int64) (*services.UpdateRequestReview, error)
	CreateTeam(ctx context.Context, team *entities.Team) error
	ReviewTeamCreation(ctx context.Context, teamID int64, decision entities.ApprovalStatus, reason string) (*services.TeamReview, error)
	RegisterTeam(ctx context.Context, registration *entities.TeamRegistration) error
	ReviewTeamRegistration(ctx context.Context, registrationID int64, decision entities.ApprovalStatus, reason string) (*entities.TeamRegistration, error)
	ScheduleMatch(ctx context.Context, match *entities.Match) error
	RecordMatchResult(ctx context.Context, matchID int64, homeScore, awayScore int) (*entities.Match, error)
	ListMatches(ctx context.Context, tournamentID int64) ([]*entities.Match, error)
	ListStandings(ctx context.Context, tournamentID int64) ([]*entities.Standing, error)
	RebuildStandings(ctx context.Context, tournamentID int64) ([]*entities.Standing, error)
	AdvancePlayoffs(ctx context.Context, tournamentID int64) (*services.AdvanceResult, error)
	ListTransactions(ctx context.Context, accountID int64, limit int) ([]*entities.FinancialTransaction, error)
}

// SchedulerRunner runs a single scheduler pass on demand
type SchedulerRunner interface {
	Tick(ctx context.Context) (*entities.SchedulerRun, error)
}

// Handler serves the admin API
type Handler struct {
	league    LeagueOperations
	scheduler SchedulerRunner
}

// NewHandler creates a new admin API handler
func NewHandler(league LeagueOperations, scheduler SchedulerRunner) *Handler {
	return &Handler{league: league, scheduler: scheduler}
}

func (h *Handler) createTournament(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament := &entities.Tournament{
		SponsorID:            req.SponsorID,
		Name:                 req.Name,
		Description:          req.Description,
		Venue:                req.Venue,
		MaxTeams:             req.MaxTeams,
		TotalPrizeMoney:      req.TotalPrizeMoney,
		RegistrationDeadline: req.RegistrationDeadline,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
	}
	if err := h.league.CreateTournament(r.Context(), tournament); err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"tournament": newTournamentResponse(tournament)})
}

func (h *Handler) getTournament(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	tournament, err := h.league.GetTournament(r.Context(), id)
	if err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"tournament": newTournamentResponse(tournament)})
}

func (h *Handler) approveTournament(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req approveTournamentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	approval, err := h.league.ApproveTournamentCreation(r.Context(), id, req.Target)
	if err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"tournament": newTournamentResponse(approval.Tournament),
		"fee":        approval.Fee,
		"settlement": newSettlementResponse(approval.Settlement),
	})
}

func (h *Handler) rejectTournament(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req reasonRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.league.RejectTournamentCreation(r.Context(), id, req.Reason)
	if err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"tournament": newTournamentResponse(tournament)})
}

func (h *Handler) submitUpdateRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req submitUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	request, err := h.league.SubmitUpdateRequest(r.Context(), id, req.RequestedBy, &req.Changes)
	if err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"update_request": newUpdateRequestResponse(request)})
}

func (h *Handler) reviewUpdateRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req reviewRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	review, err := h.league.ReviewTournamentUpdateRequest(r.Context(), id, req.Decision, req.Reason, req.ReviewerID)
	if err != nil {
		serviceErrorResponse(w, r, err)
		return
	}

	body := envelope{
		"update_request": newUpdateRequestResponse(review.Request),
		"fee_delta":      review.FeeDelta,
		"settlement":     newSettlementResponse(review.Settlement),
	}
	if review.Tournament != nil {
		body["tournament"] = newTournamentResponse(review.Tournament)
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) createTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	team := &entities.Team{Name: req.Name, CoachID: req.CoachID}
	if err := h.league.CreateTeam(r.Context(), team); err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"team": newTeamResponse(team)})
}

func (h *Handler) reviewTeam(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req reviewRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	review, err := h.league.ReviewTeamCreation(r.Context(), id, req.Decision, req.Reason)
	if err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"team":       newTeamResponse(review.Team),
		"fee":        review.Fee,
		"settlement": newSettlementResponse(review.Settlement),
	})
}

func (h *Handler) registerTeam(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req registerTeamRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	registration := &entities.TeamRegistration{TournamentID: id, TeamID: req.TeamID, GroupName: req.GroupName}
	if err := h.league.RegisterTeam(r.Context(), registration); err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"registration": newRegistrationResponse(registration)})
}

func (h *Handler) reviewRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req reviewRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	registration, err := h.league.ReviewTeamRegistration(r.Context(), id, req.Decision, req.Reason)
	if err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"registration": newRegistrationResponse(registration)})
}

func (h *Handler) scheduleMatch(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req scheduleMatchRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	match := &entities.Match{
		TournamentID: id,
		Stage:        req.Stage,
		Round:        req.Round,
		HomeTeamID:   req.HomeTeamID,
		AwayTeamID:   req.AwayTeamID,
		ScheduledAt:  req.ScheduledAt,
	}
	if err := h.league.ScheduleMatch(r.Context(), match); err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"match": newMatchResponse(match)})
}

func (h *Handler) recordMatchResult(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	var req matchResultRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}
	if req.HomeScore == nil || req.AwayScore == nil {
		errorResponse(w, http.StatusBadRequest, "home_score and away_score are required", nil)
		return
	}

	match, err := h.league.RecordMatchResult(r.Context(), id, *req.HomeScore, *req.AwayScore)
	if err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"match": newMatchResponse(match)})
}

func (h *Handler) listMatches(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	matches, err := h.league.ListMatches(r.Context(), id)
	if err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"matches": newMatchResponses(matches)})
}

func (h *Handler) listStandings(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	standings, err := h.league.ListStandings(r.Context(), id)
	if err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"standings": newStandingResponses(standings)})
}

func (h *Handler) rebuildStandings(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	standings, err := h.league.RebuildStandings(r.Context(), id)
	if err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"standings": newStandingResponses(standings)})
}

func (h *Handler) advancePlayoffs(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	result, err := h.league.AdvancePlayoffs(r.Context(), id)
	if err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"filled":         newMatchResponses(result.Filled),
		"lineups_filled": result.LineupsFilled,
	})
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			errorResponse(w, http.StatusBadRequest, "limit must be an integer", nil)
			return
		}
	}

	history, err := h.league.ListTransactions(r.Context(), id, limit)
	if err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"transactions": newTransactionResponses(history)})
}

func (h *Handler) schedulerTick(w http.ResponseWriter, r *http.Request) {
	run, err := h.scheduler.Tick(r.Context())
	if errors.Is(err, application.ErrTickInProgress) {
		errorResponse(w, http.StatusConflict, err.Error(), nil)
		return
	}
	if err != nil {
		serviceErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"run_id":      run.ID,
		"started_at":  run.StartedAt,
		"finished_at": run.FinishedAt,
		"summary":     run.Summary,
	})
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{"status": "ok"})
}
