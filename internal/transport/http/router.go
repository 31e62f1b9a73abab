package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/soundseek/api/internal/application/passwordreset"
	"github.com/soundseek/api/internal/application/session"
	userapp "github.com/soundseek/api/internal/application/user"
	"github.com/soundseek/api/internal/config"
	"github.com/soundseek/api/internal/infrastructure/dynamo"
	s3infra "github.com/soundseek/api/internal/infrastructure/s3"
	"github.com/soundseek/api/internal/infrastructure/smtp"
	"github.com/soundseek/api/internal/transport/http/handler"
	appmiddleware "github.com/soundseek/api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	SessionRepo *dynamo.SessionRepo
	S3Store     *s3infra.Store
	Mailer      smtp.Mailer
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	sessionSvc := session.NewService(session.ServiceDeps{
		UserRepo:    deps.UserRepo,
		SessionRepo: deps.SessionRepo,
		SessionTTL:  cfg.SessionTTL,
	})
	resetSvc := passwordreset.NewService(passwordreset.ServiceDeps{
		UserRepo:   deps.UserRepo,
		Mailer:     deps.Mailer,
		TokenTTL:   cfg.ResetTokenTTL,
		AppBaseURL: cfg.AppBaseURL,
	})
	userSvc := userapp.NewService(userapp.ServiceDeps{
		UserRepo: deps.UserRepo,
		Objects:  deps.S3Store,
	})

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(sessionSvc)
	resetH := handler.NewPasswordResetHandler(resetSvc)
	userH := handler.NewUserHandler(userSvc)

	authMw := appmiddleware.Auth(sessionSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.With(sensitiveRL.Limit).Post("/password-reset/request", resetH.Request)
		r.With(sensitiveRL.Limit).Post("/password-reset/confirm", resetH.Confirm)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.Current)
			r.Post("/sessions/logout", sessionH.Logout)
			r.Get("/users/me", userH.Me)
			r.Post("/users/me/avatar", userH.UploadAvatar)
		})
	})

	return r
}
