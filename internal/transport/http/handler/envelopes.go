package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/soundseek/api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LoginEnvelope wraps successful login responses.
type LoginEnvelope struct {
	User         *domain.SafeUser `json:"user"`
	SessionToken string           `json:"sessionToken"`
}

// UserEnvelope wraps session-check and profile responses.
type UserEnvelope struct {
	User *domain.SafeUser `json:"user"`
}

// AvatarEnvelope wraps avatar upload responses.
type AvatarEnvelope struct {
	Image string `json:"image"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP statuses. Anything that is
// not a sentinel is a store failure: it is logged with detail server-side
// and surfaced as a generic 500.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
