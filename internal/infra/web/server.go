package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-admin-backend/internal/config"
	"telegram-admin-backend/internal/infra/logging"
	"telegram-admin-backend/internal/usecase"
)

const maxBodyBytes = 1 << 20

// LoginLimiter throttles login attempts per key.
type LoginLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// TokenRevoker tracks logged-out session tokens.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Deps collects the collaborators of the HTTP surface. AuthUC and MessageUC
// are nil in degraded mode; Limiter and Revoker are nil without Redis.
type Deps struct {
	WebhookUC usecase.WebhookUseCase
	AuthUC    usecase.AuthUseCase
	MessageUC usecase.MessageUseCase
	Auth      *AuthManager
	Limiter   LoginLimiter
	Revoker   TokenRevoker
}

type Server struct {
	webhookUC usecase.WebhookUseCase
	authUC    usecase.AuthUseCase
	messageUC usecase.MessageUseCase
	auth      *AuthManager
	limiter   LoginLimiter
	revoker   TokenRevoker

	serviceName    string
	dev            bool
	allowedOrigins []string
	loginLimit     int
	loginWindow    time.Duration
	log            *zerolog.Logger
}

func NewServer(cfg *config.Config, deps Deps, logger *zerolog.Logger) *Server {
	compLog := logger.With().Str("component", "http").Logger()
	return &Server{
		webhookUC:      deps.WebhookUC,
		authUC:         deps.AuthUC,
		messageUC:      deps.MessageUC,
		auth:           deps.Auth,
		limiter:        deps.Limiter,
		revoker:        deps.Revoker,
		serviceName:    cfg.Server.ServiceName,
		dev:            cfg.Dev(),
		allowedOrigins: cfg.Server.AllowedOrigins,
		loginLimit:     cfg.Auth.LoginRateLimit,
		loginWindow:    cfg.Auth.LoginRateWindow,
		log:            &compLog,
	}
}

func (s *Server) logFor(r *http.Request) *zerolog.Logger {
	return logging.With(r.Context(), s.log)
}

// Router builds the full HTTP surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(CORS(s.allowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TraceID())
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log, s.dev))

	r.Get("/health", s.handleHealth)
	r.Post(config.WebhookPath, s.handleWebhook)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(s.requirePersistence)
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.With(s.requireAdmin).Get("/me", s.handleMe)
	})

	r.Route("/api/messages", func(r chi.Router) {
		r.Use(s.requirePersistence)
		r.Use(s.requireAdmin)
		r.Get("/", s.handleListMessages)
		r.Get("/stats", s.handleMessageStats)
		r.Get("/{id}", s.handleGetMessage)
		r.Patch("/{id}", s.handleUpdateMessage)
		r.Delete("/{id}", s.handleDeleteMessage)
		r.Post("/{id}/reply", s.handleReplyMessage)
	})

	r.NotFound(handleRouteNotFound)
	r.MethodNotAllowed(handleRouteNotFound)
	return r
}

// requirePersistence answers 503 when the service runs without a database.
func (s *Server) requirePersistence(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authUC == nil || s.messageUC == nil || s.auth == nil {
			writeError(w, http.StatusServiceUnavailable, "Persistence is disabled")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleRouteNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   s.serviceName,
	})
}
