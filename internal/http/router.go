package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"rocketvote/internal/domain/poll"
	"rocketvote/internal/domain/reveal"
	"rocketvote/internal/domain/tally"
	"rocketvote/internal/notify"
	jwtpkg "rocketvote/internal/platform/jwt"
	"rocketvote/internal/platform/keyval"
)

type Handler struct {
	repo        *poll.Repository
	tally       *tally.Engine
	coordinator *reveal.Coordinator
	bus         *notify.Bus
	jwtMgr      *jwtpkg.Manager
	store       keyval.Store
}

func NewRouter(
	repo *poll.Repository,
	tallyEngine *tally.Engine,
	coordinator *reveal.Coordinator,
	bus *notify.Bus,
	jwtMgr *jwtpkg.Manager,
	store keyval.Store,
) http.Handler {
	h := &Handler{
		repo:        repo,
		tally:       tallyEngine,
		coordinator: coordinator,
		bus:         bus,
		jwtMgr:      jwtMgr,
		store:       store,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(RequestLogger)
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(jwtMgr))
			r.Use(chimw.Timeout(60 * time.Second))

			r.Post("/polls", h.handleCreatePoll)
			r.Get("/polls/{pollID}", h.handleGetPoll)
			r.With(RateLimitVotes(rate.Every(time.Second), 5)).
				Patch("/polls/{pollID}/vote", h.handleCastBallot)

			r.Get("/manage/{creationID}", h.handleManageGet)
			r.Patch("/manage/{creationID}/reveal", h.handleReveal)
			r.Delete("/manage/{creationID}", h.handleDeletePoll)
		})

		// The event stream outlives the request timeout on purpose.
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(jwtMgr))
			r.Get("/polls/{pollID}/events", h.handleEvents)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.store == nil || h.store.Ping(ctx) != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "store_unavailable",
			"message": "store not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
