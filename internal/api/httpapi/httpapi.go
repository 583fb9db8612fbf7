// Package httpapi exposes match play over a JSON HTTP API.
//
// Routes live under /api/v1. Error bodies carry a machine-readable code
// and a message localized from the Accept-Language header.
package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/louisbranch/farkle-engine/internal/farkle/service"
	apperrors "github.com/louisbranch/farkle-engine/internal/platform/errors"
	"github.com/louisbranch/farkle-engine/internal/storage"
)

// MatchService is the service surface the API drives.
type MatchService interface {
	CreateMatch(ctx context.Context, in service.CreateMatchInput) (service.MatchState, error)
	State(ctx context.Context, matchID string) (service.MatchState, error)
	StartTurn(ctx context.Context, matchID string) (service.TurnResult, error)
	Keep(ctx context.Context, matchID string, values []int) (service.KeepResult, error)
	Reroll(ctx context.Context, matchID string) (service.TurnResult, error)
	Bank(ctx context.Context, matchID string) (service.BankResult, error)
	Leaderboard(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error)
	FinishedMatch(ctx context.Context, matchID string) (storage.FinishedMatch, error)
}

// Handler serves the match API endpoints.
type Handler struct {
	service MatchService
}

// NewHandler creates the API handler over a match service.
func NewHandler(service MatchService) *Handler {
	return &Handler{service: service}
}

// NewRouter mounts the API under /api/v1 with recovery, tracing, and CORS.
func NewRouter(service MatchService) http.Handler {
	h := NewHandler(service)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(Tracing)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/matches", h.CreateMatch)
		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", h.MatchState)
			r.Post("/start-turn", h.StartTurn)
			r.Post("/keep", h.Keep)
			r.Post("/reroll", h.Reroll)
			r.Post("/bank", h.Bank)
		})
		r.Get("/leaderboard", h.Leaderboard)
		r.Get("/archive/{matchID}", h.ArchivedMatch)
	})
	return r
}

type createMatchRequest struct {
	Players []string `json:"players"`
	RuleSet string   `json:"rule_set,omitempty"`
	Seed    *int64   `json:"seed,omitempty"`
}

type keepRequest struct {
	Dice []int `json:"dice"`
}

// CreateMatch registers a new match and returns its initial state.
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	state, err := h.service.CreateMatch(r.Context(), service.CreateMatchInput{
		Players: req.Players,
		RuleSet: req.RuleSet,
		Seed:    req.Seed,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, matchToView(state))
}

// MatchState returns the current snapshot of a live match.
func (h *Handler) MatchState(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.State(r.Context(), matchID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matchToView(state))
}

// StartTurn rolls the full dice set for the current player.
func (h *Handler) StartTurn(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.StartTurn(r.Context(), matchID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rollToView(result))
}

// Keep sets aside a scoring selection for the current player.
func (h *Handler) Keep(w http.ResponseWriter, r *http.Request) {
	var req keepRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.service.Keep(r.Context(), matchID(r), req.Dice)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, keepToView(result))
}

// Reroll rolls the remaining dice for the current player.
func (h *Handler) Reroll(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Reroll(r.Context(), matchID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rollToView(result))
}

// Bank commits the current player's turn score.
func (h *Handler) Bank(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Bank(r.Context(), matchID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bankToView(result))
}

// Leaderboard lists archived winners, best first. The optional limit query
// parameter caps the page size.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "parse leaderboard limit", err))
			return
		}
		limit = parsed
	}
	entries, err := h.service.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboardToView(entries))
}

// ArchivedMatch returns the archived record of a finished match.
func (h *Handler) ArchivedMatch(w http.ResponseWriter, r *http.Request) {
	match, err := h.service.FinishedMatch(r.Context(), matchID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, archivedMatchToView(match))
}

func matchID(r *http.Request) string {
	return chi.URLParam(r, "matchID")
}
