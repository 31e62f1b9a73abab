package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/soundseek/api/internal/application/passwordreset"
	"github.com/soundseek/api/internal/domain"
	"github.com/soundseek/api/internal/pkg/validate"
)

// PasswordResetHandler handles the password reset request/confirm flow.
type PasswordResetHandler struct {
	svc passwordreset.Service
}

func NewPasswordResetHandler(svc passwordreset.Service) *PasswordResetHandler {
	return &PasswordResetHandler{svc: svc}
}

// Request issues a reset token and emails it. The response is the same
// whether or not the email belongs to an account.
func (h *PasswordResetHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req domain.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.Request(r.Context(), req.Email); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "If that email exists, a reset link has been sent"})
}

// Confirm consumes a reset token and sets the new password.
func (h *PasswordResetHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req domain.PasswordResetConfirm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Token and password are required")
		return
	}
	if err := h.svc.Confirm(r.Context(), req.Token, req.Password); err != nil {
		// Wrong, expired, consumed and superseded tokens all read the same.
		if errors.Is(err, passwordreset.ErrInvalidOrExpired) {
			writeError(w, http.StatusBadRequest, "Invalid or expired token")
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Password has been reset"})
}
