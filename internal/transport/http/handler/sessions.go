package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/soundseek/api/internal/application/session"
	"github.com/soundseek/api/internal/domain"
	"github.com/soundseek/api/internal/pkg/validate"
	"github.com/soundseek/api/internal/transport/http/middleware"
)

// SessionHandler handles login, session-check and logout for the mobile client.
type SessionHandler struct {
	svc session.Service
}

func NewSessionHandler(svc session.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Reject incomplete requests before any store access.
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.svc.Login(r.Context(), req)
	if err != nil {
		// One response for unknown account, passwordless account and wrong
		// password; anything else is a store failure.
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginEnvelope{
		User:         result.User.Safe(),
		SessionToken: result.SessionToken,
	})
}

// Current is the session-check endpoint: the auth middleware has already
// validated the bearer token and resolved the user.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: u.Safe()})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tok, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Revoke(r.Context(), tok); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}
