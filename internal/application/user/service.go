package user

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/soundseek/api/internal/domain"
	s3infra "github.com/soundseek/api/internal/infrastructure/s3"
)

// UserStore is the user surface the profile service needs.
type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// ObjectStore stores avatar images.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type Service interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	// UploadAvatar stores the image and points the user's image URL at it.
	UploadAvatar(ctx context.Context, userID, filename string, r io.Reader) (string, error)
}

type ServiceDeps struct {
	UserRepo UserStore
	Objects  ObjectStore
}

type service struct {
	userRepo UserStore
	objects  ObjectStore
}

func NewService(deps ServiceDeps) Service {
	return &service{userRepo: deps.UserRepo, objects: deps.Objects}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.Get(ctx, userID)
}

func (s *service) UploadAvatar(ctx context.Context, userID, filename string, r io.Reader) (string, error) {
	safeName := sanitizeFilename(filename)
	contentType := s3infra.DetectImageContentType(safeName)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("avatar must be a jpeg, png or webp image: %w", domain.ErrBadRequest)
	}
	key := fmt.Sprintf("avatars/%s/%s", userID, safeName)
	url, err := s.objects.Upload(ctx, key, r, contentType)
	if err != nil {
		return "", err
	}
	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"image": url}); err != nil {
		return "", err
	}
	return url, nil
}

func sanitizeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}
