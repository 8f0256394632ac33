package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"telegram-admin-backend/internal/config"
	"telegram-admin-backend/internal/domain/ports/adapter"
	"telegram-admin-backend/internal/domain/ports/repository"
	pg "telegram-admin-backend/internal/infra/db/postgres"
	httpapi "telegram-admin-backend/internal/infra/http"
	"telegram-admin-backend/internal/infra/logging"
	"telegram-admin-backend/internal/infra/metrics"
	red "telegram-admin-backend/internal/infra/redis"
	"telegram-admin-backend/internal/infra/sched"
	"telegram-admin-backend/internal/infra/telegram"
	"telegram-admin-backend/internal/infra/web"
	"telegram-admin-backend/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to optional YAML config file")
	flag.Parse()

	cfg := config.Load(*cfgPath)
	logger := logging.New(cfg.Log, cfg.Dev())
	cfg.LogWarnings(logger)
	metrics.MustRegister()
	port := config.ResolvePort(cfg.Server.RawPort, logger)
	logger.Info().
		Str("env", cfg.Server.Env).
		Bool("persistence", cfg.PersistenceEnabled()).
		Bool("gateway", cfg.GatewayEnabled()).
		Msg("starting " + cfg.Server.ServiceName)

	// ---- Telegram ----
	var gateway adapter.MessagingGateway
	if cfg.GatewayEnabled() {
		gateway = telegram.NewGateway(&cfg.Telegram, logger)
	} else {
		logger.Warn().Msg("TELEGRAM_BOT_TOKEN not set; telegram gateway disabled")
		gateway = telegram.NewNoopGateway(logger)
	}

	// ---- Postgres ----
	deps := web.Deps{}
	var db *pg.DB
	var messages repository.MessageRepository
	if cfg.PersistenceEnabled() {
		db = pg.NewDB(cfg.Database.URL, cfg.Database.MaxConns, logger)
		if err := db.InitializeTables(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize database tables")
		}
		messages = pg.NewMessageRepo(db)
		tm := pg.NewTxManager(db)
		admins := pg.NewAdminUserRepo(db)

		deps.AuthUC = usecase.NewAuthUseCase(admins, tm, cfg.Auth.AllowRegistration, logger)
		deps.MessageUC = usecase.NewMessageUseCase(messages, gateway, tm, logger)
		deps.Auth = web.NewAuthManager(jwtSecret(cfg, logger), !cfg.Dev(), cfg.Auth.CookieDomain, cfg.Auth.TTL)

		go func() { _ = sched.NewPoolStatsWorker(time.Minute, db, logger).Run(ctx) }()
	} else {
		logger.Warn().Msg("DATABASE_URL not set; persistence disabled")
	}
	deps.WebhookUC = usecase.NewWebhookUseCase(cfg.PersistenceEnabled(), messages, gateway, cfg.Dev(), logger)

	// ---- Redis (optional) ----
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable; login rate limiting and logout revocation disabled")
		} else {
			defer redisClient.Close()
			if cfg.RateLimitEnabled() {
				deps.Limiter = red.NewRateLimiter(redisClient)
			}
			deps.Revoker = red.NewTokenDenylist(redisClient)
		}
	}

	// ---- Startup checks ----
	if id, ok := gateway.GetBotIdentity(ctx); ok {
		logger.Info().Int64("bot_id", id.ID).Str("username", id.Username).Msg("telegram bot connected")
	} else {
		logger.Warn().Msg("telegram bot identity unavailable; continuing without it")
	}
	if url := cfg.WebhookURL(); url != "" {
		if !gateway.RegisterWebhook(ctx, url) {
			logger.Warn().Str("url", url).Msg("webhook registration failed")
		}
	} else {
		logger.Warn().Msg("PUBLIC_BASE_URL not set; webhook not registered")
	}

	// ---- HTTP ----
	srv := httpapi.NewServer(port, web.NewServer(cfg, deps, logger).Router(), logger)
	if err := srv.Listen(); err != nil {
		logger.Fatal().Err(err).Msg("cannot bind HTTP port")
	}
	go func() {
		if err := srv.Serve(); err != nil {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Shutdown ----
	// In-flight requests are not drained; the database is closed before exit.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	logger.Info().Str("signal", sig.String()).Msg("shutdown requested")
	cancel()
	_ = srv.Close()
	if db != nil {
		db.Close()
	}
	logger.Info().Msg("shutdown complete")
}

// jwtSecret falls back to a per-process random secret, which logs every admin out on restart.
func jwtSecret(cfg *config.Config, logger *zerolog.Logger) string {
	if cfg.Auth.JWTSecret != "" {
		return cfg.Auth.JWTSecret
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		logger.Fatal().Err(err).Msg("cannot generate session secret")
	}
	logger.Warn().Msg("JWT_SECRET not set; using a random secret for this process")
	return hex.EncodeToString(b)
}
