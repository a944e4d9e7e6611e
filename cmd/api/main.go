// Package main is the entrypoint for the Mallfront API server.
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

	"github.com/mallfront/mallfront/internal/auth"
	"github.com/mallfront/mallfront/internal/cache"
	"github.com/mallfront/mallfront/internal/config"
	"github.com/mallfront/mallfront/internal/handler"
	"github.com/mallfront/mallfront/internal/mail"
	"github.com/mallfront/mallfront/internal/metrics"
	"github.com/mallfront/mallfront/internal/middleware"
	"github.com/mallfront/mallfront/internal/repository"
	"github.com/mallfront/mallfront/internal/server"
	"github.com/mallfront/mallfront/internal/service"
)

func main() {
	// Initialize context
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

	metricsRecorder := metrics.NewInMemory()

	// Outbound mail. Without an SMTP address, verification mails are
	// logged instead of delivered.
	var sender mail.Sender
	if cfg.SMTPAddr != "" {
		sender = mail.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	} else {
		logger.Warn("SMTP_ADDR not set, verification mails will only be logged")
		sender = mail.NewLogSender(logger)
	}
	mailer := mail.NewDispatcher(sender, logger, metricsRecorder)

	// Initialize services
	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.SessionTokenTTL, cfg.VerifyTokenTTL)
	cartService := service.NewCartService(cacheClient, metricsRecorder)
	userService := service.NewUserService(repo, tokens, mailer, cartService, cfg.VerifyBaseURL, logger, metricsRecorder)
	addressService := service.NewAddressService(repo, cfg.AddressLimit, metricsRecorder)
	historyService := service.NewHistoryService(repo, cacheClient, cfg.HistoryLimit, logger, metricsRecorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)
	userHandler := handler.NewUserHandler(userService, logger)
	addressHandler := handler.NewAddressHandler(addressService, logger)
	historyHandler := handler.NewHistoryHandler(historyService, logger)

	// Setup router
	r := setupRouter(h, healthHandler, metricsHandler, userHandler, addressHandler, historyHandler, tokens, cacheClient, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Drain in-flight verification mails on shutdown.
	srv.OnShutdown("mail dispatcher", mailer.Shutdown)

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
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	metricsHandler *handler.MetricsHandler,
	userHandler *handler.UserHandler,
	addressHandler *handler.AddressHandler,
	historyHandler *handler.HistoryHandler,
	tokens *auth.TokenManager,
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
	r.Use(middleware.Security(middleware.DefaultSecurityConfig()))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	// Root info endpoint
	r.Get("/", h.Index)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger: logger,
		Tokens: tokens,
	}

	// Rate limit middleware configuration
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:       logger,
		Cache:        cacheClient,
		LoginEnabled: cfg.LoginRateLimitEnabled,
		LoginRPM:     cfg.LoginRateLimitRPM,
		LoginBurst:   cfg.LoginRateLimitBurst,
	}

	// Public account routes
	r.Get("/usernames/{username}/count/", userHandler.UsernameCount)
	r.Get("/mobiles/{mobile}/count/", userHandler.MobileCount)
	r.Post("/users/", userHandler.Register)
	r.Get("/emails/verification/", userHandler.VerifyEmail)
	r.With(middleware.RateLimitLogin(rateLimitCfg)).Post("/authorizations/", userHandler.Login)

	// Routes requiring a session token
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))

		r.Get("/user/", userHandler.Detail)
		r.Put("/email/", userHandler.UpdateEmail)

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", addressHandler.List)
			r.Post("/", addressHandler.Create)
			r.Delete("/{id}/", addressHandler.Delete)
			r.Put("/{id}/status/", addressHandler.SetDefault)
			r.Put("/{id}/title/", addressHandler.RenameTitle)
		})

		r.Get("/browse_histories/", historyHandler.List)
		r.Post("/browse_histories/", historyHandler.Push)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

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
