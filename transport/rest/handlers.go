package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/tictactoe-commentary/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-commentary/internal/usecase"
)

type sessionManager interface {
	Create(ctx context.Context, vsComputer bool) (string, usecase.Snapshot)
	Get(id string) (usecase.Snapshot, error)
	Move(ctx context.Context, id string, cell int) (usecase.MoveOutcome, error)
	Restart(ctx context.Context, id string) (usecase.Snapshot, error)
	Close(ctx context.Context, id string) error
}

type createRequest struct {
	VsComputer bool `json:"vs_computer"`
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type sessionResponse struct {
	ID string `json:"id"`
	usecase.Snapshot
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger   *slog.Logger
	sessions sessionManager
}

func (that *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	// an empty body means a two-player session
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	id, snapshot := that.sessions.Create(r.Context(), req.VsComputer)

	that.writeJSON(w, http.StatusCreated, sessionResponse{ID: id, Snapshot: snapshot})
}

func (that *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snapshot, err := that.sessions.Get(id)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: snapshot})
}

func (that *handlers) makeMove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell is required"})
		return
	}

	outcome, err := that.sessions.Move(r.Context(), id, *req.Cell)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, outcome)
}

func (that *handlers) restartSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snapshot, err := that.sessions.Restart(r.Context(), id)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, sessionResponse{ID: id, Snapshot: snapshot})
}

func (that *handlers) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := that.sessions.Close(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
	case errors.Is(err, apperror.ErrInvalidMove):
		that.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		that.logger.Error("request failed", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
	}
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
