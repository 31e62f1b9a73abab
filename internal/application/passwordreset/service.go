package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/soundseek/api/internal/domain"
	"github.com/soundseek/api/internal/infrastructure/smtp"
	"github.com/soundseek/api/internal/pkg/password"
	"github.com/soundseek/api/internal/pkg/token"
)

// ErrInvalidOrExpired covers every consume failure: wrong token, expired
// token, already-consumed token, superseded token. One error for all causes
// so a caller cannot probe which applied.
var ErrInvalidOrExpired = fmt.Errorf("invalid or expired token: %w", domain.ErrBadRequest)

// UserStore is the user mutation surface the reset flow needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	SetResetToken(ctx context.Context, userID, token string, expiresAt int64) error
	ConsumePasswordReset(ctx context.Context, userID, resetToken, newHash string, now time.Time) error
}

type Service interface {
	// Request issues a fresh reset token for the account behind email and
	// delivers it out-of-band. Issuing overwrites any pending token, so only
	// the latest one is ever honored. Unknown emails are reported as success
	// to prevent account enumeration.
	Request(ctx context.Context, email string) error
	// Confirm consumes a pending reset token exactly once: the new password
	// hash is written and both reset fields are cleared in one conditional
	// update. Losing a race, reusing a consumed token, or presenting an
	// expired one all return ErrInvalidOrExpired.
	Confirm(ctx context.Context, resetToken, newPassword string) error
}

type ServiceDeps struct {
	UserRepo   UserStore
	Mailer     smtp.Mailer
	TokenTTL   time.Duration
	AppBaseURL string
}

type service struct {
	userRepo   UserStore
	mailer     smtp.Mailer
	tokenTTL   time.Duration
	appBaseURL string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		userRepo:   deps.UserRepo,
		mailer:     deps.Mailer,
		tokenTTL:   deps.TokenTTL,
		appBaseURL: deps.AppBaseURL,
	}
}

func (s *service) Request(ctx context.Context, email string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	tok, err := token.NewResetToken()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(s.tokenTTL).Unix()
	if err := s.userRepo.SetResetToken(ctx, u.UserID, tok, expiresAt); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Someone requested a password reset for your soundseek account.\r\n\r\n"+
			"Reset link: %s/reset-password?token=%s\r\n\r\n"+
			"The link expires in %d minutes. If this wasn't you, ignore this email.",
		s.appBaseURL, tok, int(s.tokenTTL.Minutes()),
	)
	return s.mailer.SendEmail(u.Email, "Reset your soundseek password", body)
}

func (s *service) Confirm(ctx context.Context, resetToken, newPassword string) error {
	u, err := s.userRepo.GetByResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidOrExpired
		}
		return err
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	// The conditional write re-checks token equality and strict future expiry
	// at consume time; the lookup above only located the candidate user.
	if err := s.userRepo.ConsumePasswordReset(ctx, u.UserID, resetToken, hash, time.Now()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidOrExpired
		}
		return err
	}
	return nil
}
