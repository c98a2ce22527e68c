package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/pelmanism/internal/apperror"
	"github.com/rocketscienceinc/pelmanism/internal/entity"
	"github.com/rocketscienceinc/pelmanism/internal/service"
)

const maxBodySize = 4096

type sessionUseCase interface {
	CreateSession(ctx context.Context) (*entity.Snapshot, error)
	GetSnapshot(ctx context.Context, sessionID string) (*entity.Snapshot, error)
	SendInput(ctx context.Context, sessionID string, input service.Input) error
	Restart(ctx context.Context, sessionID string) error
	CloseSession(ctx context.Context, sessionID string) error
}

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	CreateSession(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
	CloseSession(w http.ResponseWriter, r *http.Request)
	RestartSession(w http.ResponseWriter, r *http.Request)
	Pointer(w http.ResponseWriter, r *http.Request)
}

type handlers struct {
	logger         *slog.Logger
	sessionUseCase sessionUseCase
}

type errorResponse struct {
	Error string `json:"error"`
}

type pointerRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Select bool    `json:"select"`
}

func NewHandlers(logger *slog.Logger, sessionUseCase sessionUseCase) Handlers {
	return &handlers{
		logger:         logger.With("component", "rest"),
		sessionUseCase: sessionUseCase,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.sessionUseCase.CreateSession(r.Context())
	if err != nil {
		that.writeError(w, "CreateSession", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, snapshot)
}

func (that *handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.sessionUseCase.GetSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "GetSession", err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *handlers) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := that.sessionUseCase.CloseSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, "CloseSession", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) RestartSession(w http.ResponseWriter, r *http.Request) {
	if err := that.sessionUseCase.Restart(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, "RestartSession", err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (that *handlers) Pointer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_json"})
		return
	}

	input := service.Input{X: req.X, Y: req.Y, Select: req.Select}
	if err := that.sessionUseCase.SendInput(r.Context(), chi.URLParam(r, "id"), input); err != nil {
		that.writeError(w, "Pointer", err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (that *handlers) writeError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found"})
	case errors.Is(err, apperror.ErrSessionClosed):
		that.writeJSON(w, http.StatusGone, errorResponse{Error: "closed"})
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal"})
	}
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
