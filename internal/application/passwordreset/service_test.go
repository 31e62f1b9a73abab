package passwordreset

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/soundseek/api/internal/domain"
	"github.com/soundseek/api/internal/pkg/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) SetResetToken(ctx context.Context, userID, token string, expiresAt int64) error {
	return m.Called(ctx, userID, token, expiresAt).Error(0)
}
func (m *mockUserStore) ConsumePasswordReset(ctx context.Context, userID, resetToken, newHash string, now time.Time) error {
	return m.Called(ctx, userID, resetToken, newHash, now).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

// --- helpers ---

const tokenTTL = time.Hour

func newSvc(us *mockUserStore, ml *mockMailer) Service {
	return NewService(ServiceDeps{
		UserRepo:   us,
		Mailer:     ml,
		TokenTTL:   tokenTTL,
		AppBaseURL: "https://soundseek.app",
	})
}

// --- Request ---

func TestRequest_HappyPath(t *testing.T) {
	us, ml := &mockUserStore{}, &mockMailer{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{UserID: "u1", Email: "a@x.com"}, nil)

	var issuedToken string
	var issuedExpiry int64
	us.On("SetResetToken", mock.Anything, "u1", mock.AnythingOfType("string"), mock.AnythingOfType("int64")).
		Run(func(args mock.Arguments) {
			issuedToken = args.String(2)
			issuedExpiry = args.Get(3).(int64)
		}).
		Return(nil)
	ml.On("SendEmail", "a@x.com", mock.Anything, mock.Anything).Return(nil)

	before := time.Now()
	err := newSvc(us, ml).Request(context.Background(), "a@x.com")
	require.NoError(t, err)

	// High-entropy hex token with the configured horizon.
	assert.Len(t, issuedToken, 64)
	_, decErr := hex.DecodeString(issuedToken)
	assert.NoError(t, decErr)
	assert.GreaterOrEqual(t, issuedExpiry, before.Add(tokenTTL).Unix())
	assert.LessOrEqual(t, issuedExpiry, time.Now().Add(tokenTTL).Unix())

	// The token leaves the system only via the email body.
	ml.AssertCalled(t, "SendEmail", "a@x.com", mock.Anything, mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, issuedToken)
	}))
}

func TestRequest_UnknownEmail_ReportsSuccess(t *testing.T) {
	us, ml := &mockUserStore{}, &mockMailer{}
	us.On("GetByEmail", mock.Anything, "ghost@x.com").Return(nil, domain.ErrNotFound)

	err := newSvc(us, ml).Request(context.Background(), "ghost@x.com")
	assert.NoError(t, err)
	us.AssertNotCalled(t, "SetResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	ml.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequest_StoreFailurePropagates(t *testing.T) {
	us, ml := &mockUserStore{}, &mockMailer{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{UserID: "u1", Email: "a@x.com"}, nil)
	us.On("SetResetToken", mock.Anything, "u1", mock.Anything, mock.Anything).Return(errors.New("throttled"))

	err := newSvc(us, ml).Request(context.Background(), "a@x.com")
	assert.Error(t, err)
	ml.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

// --- Confirm ---

func TestConfirm_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByResetToken", mock.Anything, "abc").Return(&domain.User{UserID: "u1"}, nil)

	var newHash string
	us.On("ConsumePasswordReset", mock.Anything, "u1", "abc", mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) { newHash = args.String(3) }).
		Return(nil)

	err := newSvc(us, &mockMailer{}).Confirm(context.Background(), "abc", "newpass")
	require.NoError(t, err)
	assert.True(t, password.Verify(newHash, "newpass"))
}

func TestConfirm_UnknownToken(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByResetToken", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	err := newSvc(us, &mockMailer{}).Confirm(context.Background(), "nope", "newpass")
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
	us.AssertNotCalled(t, "ConsumePasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_ConditionalWriteLost_SameError(t *testing.T) {
	// The consume condition fails identically for expired, already-consumed
	// and superseded tokens, and for the loser of a concurrent race.
	us := &mockUserStore{}
	us.On("GetByResetToken", mock.Anything, "abc").Return(&domain.User{UserID: "u1"}, nil)
	us.On("ConsumePasswordReset", mock.Anything, "u1", "abc", mock.Anything, mock.Anything).
		Return(domain.ErrNotFound)

	err := newSvc(us, &mockMailer{}).Confirm(context.Background(), "abc", "newpass")
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestConfirm_SecondUseRejected(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByResetToken", mock.Anything, "abc").Return(&domain.User{UserID: "u1"}, nil).Once()
	us.On("ConsumePasswordReset", mock.Anything, "u1", "abc", mock.Anything, mock.Anything).Return(nil).Once()
	// After consumption the token no longer resolves to any user.
	us.On("GetByResetToken", mock.Anything, "abc").Return(nil, domain.ErrNotFound)

	svc := newSvc(us, &mockMailer{})
	require.NoError(t, svc.Confirm(context.Background(), "abc", "newpass"))

	err := svc.Confirm(context.Background(), "abc", "newpass2")
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestConfirm_StoreFailureIsNotMasked(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByResetToken", mock.Anything, "abc").Return(&domain.User{UserID: "u1"}, nil)
	us.On("ConsumePasswordReset", mock.Anything, "u1", "abc", mock.Anything, mock.Anything).
		Return(errors.New("throttled"))

	err := newSvc(us, &mockMailer{}).Confirm(context.Background(), "abc", "newpass")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidOrExpired)
}
