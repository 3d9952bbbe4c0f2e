package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/entity"
	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/repository"
)

const leaderboardLimit = 10

type scoreService interface {
	TopPlayers(ctx context.Context, limit int) ([]entity.Score, error)
	GetByName(ctx context.Context, name string) (*entity.Score, error)
}

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type Handlers struct {
	logger *slog.Logger
	scores scoreService
}

func NewHandlers(logger *slog.Logger, scores scoreService) *Handlers {
	return &Handlers{
		logger: logger,
		scores: scores,
	}
}

// Router - wires all HTTP routes.
func (that *Handlers) Router() http.Handler {
	router := chi.NewRouter()

	router.Get("/ping", that.Ping)
	router.Get("/api/leaderboard", that.Leaderboard)
	router.Get("/api/leaderboard/player/{username}", that.PlayerScore)

	return router
}

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// Leaderboard - returns the top players ordered by wins.
func (that *Handlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Leaderboard")

	scores, err := that.scores.TopPlayers(r.Context(), leaderboardLimit)
	if err != nil {
		log.Error("failed to load leaderboard", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})

		return
	}

	that.writeJSON(w, http.StatusOK, successResponse{Success: true, Data: scores})
}

// PlayerScore - returns one player's score record by name.
func (that *Handlers) PlayerScore(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "PlayerScore")

	username := chi.URLParam(r, "username")

	score, err := that.scores.GetByName(r.Context(), username)
	if errors.Is(err, repository.ErrScoreNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Player not found"})

		return
	}

	if err != nil {
		log.Error("failed to load player score", "error", err, "username", username)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})

		return
	}

	that.writeJSON(w, http.StatusOK, successResponse{Success: true, Data: score})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
