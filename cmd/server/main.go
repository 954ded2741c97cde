package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DukeRupert/parkiez/internal"
	"github.com/DukeRupert/parkiez/internal/analytics"
	"github.com/DukeRupert/parkiez/internal/backend"
	"github.com/DukeRupert/parkiez/internal/csrf"
	"github.com/DukeRupert/parkiez/internal/handler"
	"github.com/DukeRupert/parkiez/internal/metrics"
	"github.com/DukeRupert/parkiez/internal/middleware"
	"github.com/DukeRupert/parkiez/internal/service"
	"github.com/DukeRupert/parkiez/internal/session"
	"github.com/DukeRupert/parkiez/web"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Backend API client
	client, err := backend.New(backend.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("backend client initialization failed: %w", err)
	}

	// Initialize template renderer; TEMPLATES_DIR enables hot reload from disk
	var templates fs.FS = web.Templates()
	if cfg.TemplatesDir != "" {
		templates = os.DirFS(cfg.TemplatesDir)
	}
	renderer, err := handler.NewRenderer(handler.RendererConfig{
		FS:     templates,
		Logger: logger,
		IsDev:  cfg.IsDevelopment() && cfg.TemplatesDir != "",
	})
	if err != nil {
		return fmt.Errorf("renderer initialization failed: %w", err)
	}

	// Initialize services
	authService := service.NewAuthService(client, logger)
	attendantService := service.NewAttendantService(client, cfg.PasswordPolicy, logger)
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)

	// Initialize middleware
	isSecure := !cfg.IsDevelopment()
	authMw := middleware.NewAuthMiddleware(sessions, logger, isSecure)
	limiter := middleware.NewConsoleRateLimiter(
		cfg.LoginRateLimit, cfg.LoginRateWindow,
		cfg.AttendantRateLimit, cfg.AttendantRateWindow,
		logger,
	)
	go limiter.Run(ctx)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword, logger)
	if !metricsAuth.Enabled() {
		logger.Warn("metrics endpoint is unprotected; set METRICS_USERNAME and METRICS_PASSWORD")
	}
	csrfProtect := csrf.Protect(logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, sessions, limiter, renderer, logger, isSecure)
	dashboardHandler := handler.NewDashboardHandler(renderer, logger, isSecure)
	attendantHandler := handler.NewAttendantHandler(attendantService, renderer, logger, isSecure)
	analyticsHandler := handler.NewAnalyticsHandler(analytics.Default(), cfg.ChartLayout, renderer, logger, isSecure)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(web.Static())))

	mux.HandleFunc("GET /health", handler.Health)
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	authHandler.RegisterRoutes(mux, limiter.LimitLogin, csrfProtect)
	dashboardHandler.RegisterRoutes(mux, authMw.RequireOperator)
	attendantHandler.RegisterRoutes(mux, authMw.RequireOperator, csrfProtect, limiter.LimitAttendantSubmission)
	analyticsHandler.RegisterRoutes(mux, authMw.RequireOperator)

	// metrics.Middleware wraps the mux directly so it sees the matched pattern
	h := middleware.Stack(
		middleware.RequestID,
		loggingMw.Handler,
		securityMw.Handler,
		authMw.WithOperator,
	)(metrics.Middleware(mux))

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env, "backend", cfg.BackendURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
