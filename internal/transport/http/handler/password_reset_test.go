package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/soundseek/api/internal/application/passwordreset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockResetService struct{ mock.Mock }

func (m *mockResetService) Request(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *mockResetService) Confirm(ctx context.Context, resetToken, newPassword string) error {
	return m.Called(ctx, resetToken, newPassword).Error(0)
}

// --- Request ---

func TestResetRequest_HappyPath(t *testing.T) {
	svc := &mockResetService{}
	svc.On("Request", mock.Anything, "a@x.com").Return(nil)

	rr := postJSON(t, NewPasswordResetHandler(svc).Request, `{"email":"a@x.com"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"If that email exists, a reset link has been sent"}`, rr.Body.String())
}

func TestResetRequest_UnknownEmail_SameResponse(t *testing.T) {
	// The service reports success for unknown emails; the handler response
	// is identical either way.
	svc := &mockResetService{}
	svc.On("Request", mock.Anything, mock.AnythingOfType("string")).Return(nil)

	h := NewPasswordResetHandler(svc).Request
	rrKnown := postJSON(t, h, `{"email":"a@x.com"}`)
	rrUnknown := postJSON(t, h, `{"email":"ghost@x.com"}`)

	assert.Equal(t, rrKnown.Code, rrUnknown.Code)
	assert.Equal(t, rrKnown.Body.Bytes(), rrUnknown.Body.Bytes())
}

func TestResetRequest_InvalidEmail(t *testing.T) {
	svc := &mockResetService{}
	rr := postJSON(t, NewPasswordResetHandler(svc).Request, `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Request", mock.Anything, mock.Anything)
}

// --- Confirm ---

func TestResetConfirm_HappyPath(t *testing.T) {
	svc := &mockResetService{}
	svc.On("Confirm", mock.Anything, "abc", "newpass").Return(nil)

	rr := postJSON(t, NewPasswordResetHandler(svc).Confirm, `{"token":"abc","password":"newpass"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Password has been reset"}`, rr.Body.String())
}

func TestResetConfirm_MissingFields(t *testing.T) {
	svc := &mockResetService{}

	for _, body := range []string{
		`{"token":"","password":"x"}`,
		`{"token":"abc","password":""}`,
		`{}`,
	} {
		rr := postJSON(t, NewPasswordResetHandler(svc).Confirm, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "body: %s", body)
		assert.JSONEq(t, `{"error":"Token and password are required"}`, rr.Body.String())
	}
	svc.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything, mock.Anything)
}

func TestResetConfirm_InvalidOrExpired(t *testing.T) {
	svc := &mockResetService{}
	svc.On("Confirm", mock.Anything, "abc", "newpass2").Return(passwordreset.ErrInvalidOrExpired)

	rr := postJSON(t, NewPasswordResetHandler(svc).Confirm, `{"token":"abc","password":"newpass2"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid or expired token"}`, rr.Body.String())
}

func TestResetConfirm_StoreFailure_Generic500(t *testing.T) {
	svc := &mockResetService{}
	svc.On("Confirm", mock.Anything, "abc", "newpass").Return(assert.AnError)

	rr := postJSON(t, NewPasswordResetHandler(svc).Confirm, `{"token":"abc","password":"newpass"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
}
