package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

type sessionManager interface {
	Create(ctx context.Context, player string) (usecase.Play, error)
	Apply(ctx context.Context, id string, fn func(game *usecase.GameManager) ([]entity.Result, error)) (usecase.Play, error)
	View(ctx context.Context, id string) (usecase.View, error)
	Start(ctx context.Context, id string) (usecase.Play, error)
	PlayTurn(ctx context.Context, id string, row, col int) (usecase.Play, error)
	RequestAIMove(ctx context.Context, id string) (usecase.Play, error)
	Delete(ctx context.Context, id string) error
}

type gameHandlers struct {
	logger   *slog.Logger
	sessions sessionManager
}

func newGameHandlers(logger *slog.Logger, sessions sessionManager) *gameHandlers {
	return &gameHandlers{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
	}
}

func (that *gameHandlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

// create accepts an optional {"player": name}; a named player gets their stored score back.
func (that *gameHandlers) create(w http.ResponseWriter, r *http.Request) {
	var request createRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be empty or {\"player\": string}"})
		return
	}

	play, err := that.sessions.Create(r.Context(), request.Player)
	if err != nil {
		that.writeError(w, "create", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, toPlay(play))
}

func (that *gameHandlers) state(w http.ResponseWriter, r *http.Request) {
	view, err := that.sessions.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "state", err)
		return
	}

	that.writeJSON(w, http.StatusOK, toState(view))
}

func (that *gameHandlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := that.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, "delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *gameHandlers) start(w http.ResponseWriter, r *http.Request) {
	play, err := that.sessions.Start(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "start", err)
		return
	}

	that.writeJSON(w, http.StatusOK, toPlay(play))
}

func (that *gameHandlers) move(w http.ResponseWriter, r *http.Request) {
	var request moveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Row == nil || request.Col == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"row\": int, \"col\": int}"})
		return
	}

	play, err := that.sessions.PlayTurn(r.Context(), chi.URLParam(r, "id"), *request.Row, *request.Col)
	if err != nil {
		that.writeError(w, "move", err)
		return
	}

	that.writeJSON(w, http.StatusOK, toPlay(play))
}

func (that *gameHandlers) aiMove(w http.ResponseWriter, r *http.Request) {
	play, err := that.sessions.RequestAIMove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "aiMove", err)
		return
	}

	that.writeJSON(w, http.StatusOK, toPlay(play))
}

func (that *gameHandlers) setMode(w http.ResponseWriter, r *http.Request) {
	var request modeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"mode\": \"pvp\"|\"pvc\"}"})
		return
	}

	that.update(w, r, "setMode", func(game *usecase.GameManager) error {
		return game.SetMode(entity.Mode(request.Mode))
	})
}

func (that *gameHandlers) setDifficulty(w http.ResponseWriter, r *http.Request) {
	var request difficultyRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"difficulty\": \"easy\"|\"intermediate\"|\"hard\"}"})
		return
	}

	that.update(w, r, "setDifficulty", func(game *usecase.GameManager) error {
		return game.SetAIDifficulty(entity.Difficulty(request.Difficulty))
	})
}

func (that *gameHandlers) score(w http.ResponseWriter, r *http.Request) {
	view, err := that.sessions.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "score", err)
		return
	}

	that.writeJSON(w, http.StatusOK, view.Score)
}

func (that *gameHandlers) resetScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	that.update(w, r, "resetScore", func(game *usecase.GameManager) error {
		game.ResetScore(ctx)
		return nil
	})
}

// update applies fn to the session and answers with the state it left behind.
func (that *gameHandlers) update(w http.ResponseWriter, r *http.Request, method string, fn func(game *usecase.GameManager) error) {
	play, err := that.sessions.Apply(r.Context(), chi.URLParam(r, "id"), func(game *usecase.GameManager) ([]entity.Result, error) {
		return nil, fn(game)
	})
	if err != nil {
		that.writeError(w, method, err)
		return
	}

	that.writeJSON(w, http.StatusOK, toState(play.View))
}

func (that *gameHandlers) writeError(w http.ResponseWriter, method string, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrOutOfRange),
		errors.Is(err, apperror.ErrInvalidMode),
		errors.Is(err, apperror.ErrInvalidDifficulty):
		status = http.StatusBadRequest
	default:
		that.logger.Error("request failed", "method", method, "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *gameHandlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
