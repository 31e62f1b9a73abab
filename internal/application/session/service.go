package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/soundseek/api/internal/domain"
	"github.com/soundseek/api/internal/pkg/id"
	"github.com/soundseek/api/internal/pkg/password"
	"github.com/soundseek/api/internal/pkg/token"
)

// Both failures are 401 upstream; the strings differ so diagnostics can tell
// them apart, but neither reveals whether the account or session ever existed.
var (
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("invalid session token: %w", domain.ErrUnauthorized)
	ErrExpiredToken       = fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
)

type LoginResult struct {
	SessionToken string
	Session      *domain.Session
	User         *domain.User
}

// UserStore is the user lookup surface the session service needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// SessionStore owns Session records.
type SessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

type Service interface {
	// Login verifies credentials and issues a new opaque bearer session.
	// Every successful call creates a distinct session; concurrent sessions
	// per user are allowed.
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
	// Validate resolves a bearer token to its user. Expired sessions are
	// deleted on encounter (lazy expiry) and reported as ErrExpiredToken;
	// validation never extends the session lifetime.
	Validate(ctx context.Context, sessionToken string) (*domain.User, error)
	// Revoke deletes the session for the given token. Unknown tokens are a
	// no-op so logout is idempotent.
	Revoke(ctx context.Context, sessionToken string) error
}

type ServiceDeps struct {
	UserRepo    UserStore
	SessionRepo SessionStore
	SessionTTL  time.Duration
}

type service struct {
	userRepo    UserStore
	sessionRepo SessionStore
	sessionTTL  time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		userRepo:    deps.UserRepo,
		sessionRepo: deps.SessionRepo,
		sessionTTL:  deps.SessionTTL,
	}
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || u.PasswordHash == nil {
		// Burn a bcrypt comparison so a missing account or absent local
		// password takes as long as a wrong password.
		password.VerifyDummy(req.Password)
		return nil, ErrInvalidCredentials
	}
	if !password.Verify(*u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	tok, err := token.NewSessionToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID:    id.New(),
		SessionToken: tok,
		UserID:       u.UserID,
		ExpiresAt:    now.Add(s.sessionTTL).Unix(),
		CreatedAt:    now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, err
	}
	return &LoginResult{SessionToken: tok, Session: sess, User: u}, nil
}

func (s *service) Validate(ctx context.Context, sessionToken string) (*domain.User, error) {
	sess, err := s.sessionRepo.GetByToken(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if sess.Expired(time.Now()) {
		if err := s.sessionRepo.Delete(ctx, sess.SessionID); err != nil {
			slog.Warn("failed to delete expired session", "session_id", sess.SessionID, "err", err)
		}
		return nil, ErrExpiredToken
	}
	u, err := s.userRepo.Get(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Session outlived its user; treat the token as invalid.
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Revoke(ctx context.Context, sessionToken string) error {
	sess, err := s.sessionRepo.GetByToken(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.sessionRepo.Delete(ctx, sess.SessionID)
}
