// Package handler provides the HTTP API for the progression server.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"taskquest-server/internal/engine"
	"taskquest-server/internal/repository"
	"taskquest-server/internal/service"
)

// Server bundles the services behind the HTTP API.
type Server struct {
	account     *service.AccountService
	progression *service.ProgressionService
	daily       *service.DailyService
	settlement  *service.SettlementService
	purchase    *service.PurchaseService
	ranking     *service.RankingService

	ledgerLimit    int
	historyLimit   int
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(
	account *service.AccountService,
	progression *service.ProgressionService,
	daily *service.DailyService,
	settlement *service.SettlementService,
	purchase *service.PurchaseService,
	ranking *service.RankingService,
	ledgerLimit, historyLimit int,
) *Server {
	return &Server{
		account:      account,
		progression:  progression,
		daily:        daily,
		settlement:   settlement,
		purchase:     purchase,
		ranking:      ranking,
		ledgerLimit:  ledgerLimit,
		historyLimit: historyLimit,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Router returns the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/classes", s.handleListClasses)
			r.Get("/skills", s.handleListSkills)
			r.Get("/achievements", s.handleListAchievements)
		})

		r.Route("/players/{playerID}", func(r chi.Router) {
			r.Get("/profile", s.handleProfile)
			r.Get("/ledger", s.handleLedger)
			r.Get("/achievements", s.handleAchievements)
			r.Put("/settings/gamification", s.handleGamification)
			r.Delete("/progress", s.handleReset)

			r.Post("/activities", s.handleActivity)
			r.Post("/daily/claim", s.handleDailyClaim)

			r.Post("/games/result", s.handleGameResult)
			r.Get("/games/history", s.handleGameHistory)
			r.Get("/games/stats", s.handleGameStats)

			r.Post("/classes/buy", s.handleBuyClass)
			r.Post("/classes/equip", s.handleEquipClass)
			r.Post("/skills/unlock", s.handleUnlockSkill)
		})
	})

	return r
}

func playerID(r *http.Request) string {
	return chi.URLParam(r, "playerID")
}

// limitParam reads an optional ?limit= query, falling back to def and
// clamping to a sane ceiling.
func limitParam(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > 200 {
		return 200
	}
	return n
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// decodeQuiet decodes an optional JSON body, treating absence as empty.
func decodeQuiet(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors onto HTTP statuses. Anything
// unrecognized is a 500 and gets logged.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInsufficientXP):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, service.ErrUnknownActivity),
		errors.Is(err, service.ErrUnknownClass),
		errors.Is(err, service.ErrUnknownSkill),
		errors.Is(err, service.ErrNotPurchasable),
		errors.Is(err, engine.ErrUnknownResult),
		errors.Is(err, engine.ErrNegativeBet),
		errors.Is(err, engine.ErrNegativePayout):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAlreadyOwned),
		errors.Is(err, service.ErrClassNotOwned),
		errors.Is(err, service.ErrSkillClassLock),
		errors.Is(err, service.ErrSkillMaxLevel),
		errors.Is(err, service.ErrSkillPrereq):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
