// Package main is the entrypoint for the qrforge API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/qrforge/qrforge/internal/auth"
	"github.com/qrforge/qrforge/internal/cache"
	"github.com/qrforge/qrforge/internal/config"
	"github.com/qrforge/qrforge/internal/handler"
	"github.com/qrforge/qrforge/internal/metrics"
	"github.com/qrforge/qrforge/internal/middleware"
	"github.com/qrforge/qrforge/internal/repository"
	"github.com/qrforge/qrforge/internal/server"
	"github.com/qrforge/qrforge/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize services
	metricsRecorder := metrics.NewNoop()
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)
	authService := service.NewAuthService(repo, tokens, cfg.BcryptCost, metricsRecorder)
	qrcodeService := service.NewQRCodeService(repo, cacheClient, metricsRecorder)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(authService, logger)
	qrcodeHandler := handler.NewQRCodeHandler(qrcodeService, logger)

	// Setup router
	r := setupRouter(healthHandler, authHandler, qrcodeHandler, tokens, cacheClient, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	qrcodeHandler *handler.QRCodeHandler,
	tokens *auth.TokenIssuer,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", handler.Root)

	sessionCfg := middleware.SessionConfig{
		Logger: logger,
		Tokens: tokens,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  logger,
		Cache:   cacheClient,
		Enabled: cfg.RateLimitPublicEnabled,
		RPS:     cfg.RateLimitPublicRPS,
		Burst:   cfg.RateLimitPublicBurst,
	}

	// Auth routes; register and login are rate limited per IP
	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/register", authHandler.Register)
		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/login", authHandler.Login)
		r.With(middleware.Session(sessionCfg)).Get("/me", authHandler.Me)
	})

	// QR code routes
	r.Route("/qrcodes", func(r chi.Router) {
		// Stateless preview is public but rate limited per IP
		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/preview", qrcodeHandler.Preview)

		// Everything else requires a session
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(sessionCfg))
			r.Post("/", qrcodeHandler.Create)
			r.Get("/", qrcodeHandler.List)
			r.Get("/{id}", qrcodeHandler.Get)
			r.Put("/{id}", qrcodeHandler.Update)
			r.Delete("/{id}", qrcodeHandler.Delete)
		})
	})

	// 404 and 405 handlers
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
