package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the admin HTTP router. metrics may be nil.
func NewRouter(h *Handler, metrics http.Handler) http.Handler {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.Timeout(30 * time.Second))

	router.Get("/healthz", h.healthz)
	if metrics != nil {
		router.Method(http.MethodGet, "/metrics", metrics)
	}

	router.Route("/admin", func(r chi.Router) {
		r.Route("/tournaments", func(r chi.Router) {
			r.Post("/", h.createTournament)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getTournament)
				r.Post("/approve", h.approveTournament)
				r.Post("/reject", h.rejectTournament)
				r.Post("/update-requests", h.submitUpdateRequest)
				r.Post("/registrations", h.registerTeam)
				r.Get("/matches", h.listMatches)
				r.Post("/matches", h.scheduleMatch)
				r.Get("/standings", h.listStandings)
				r.Post("/standings/rebuild", h.rebuildStandings)
				r.Post("/advance", h.advancePlayoffs)
			})
		})

		r.Post("/update-requests/{id}/review", h.reviewUpdateRequest)

		r.Post("/teams", h.createTeam)
		r.Post("/teams/{id}/review", h.reviewTeam)

		r.Post("/registrations/{id}/review", h.reviewRegistration)

		r.Post("/matches/{id}/result", h.recordMatchResult)

		r.Get("/accounts/{id}/transactions", h.listTransactions)

		r.Post("/scheduler/tick", h.schedulerTick)
	})

	return router
}
