package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daybook/daybook/internal/api"
	"github.com/daybook/daybook/internal/api/services"
	"github.com/daybook/daybook/internal/config"
	"github.com/daybook/daybook/internal/metrics"
	"github.com/daybook/daybook/internal/repositories"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

// @title Daybook API
// @version 1.0
// @description Per-date todos and journal with AI replies.
// @host localhost:4000
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	db, err := repositories.ConnectDatabase(cfg.DB_URL)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	defer sqlDB.Close()

	var model services.TextModel
	if cfg.Gemini.APIKey != "" {
		gemini, err := services.NewGeminiModel(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return err
		}
		model = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, journal summaries disabled")
	}

	var archive services.Archive
	if cfg.R2.Enabled() {
		archive = repositories.NewR2Archive(
			cfg.R2.AccessKeyID,
			cfg.R2.SecretAccessKey,
			cfg.R2.AccountID,
			cfg.R2.BucketName,
			cfg.R2.Region,
		)
	}

	m := metrics.New()
	docs := repositories.NewUserDataRepository(db)

	handler := api.SetupRouter(api.Deps{
		Identity:      services.NewIdentityService(repositories.NewUserRepository(db), bcrypt.DefaultCost),
		Tokens:        services.NewTokenIssuer(cfg.JWTSecret),
		Documents:     services.NewDocumentService(docs, m),
		Summary:       services.NewSummaryService(model),
		Export:        services.NewExportService(docs, archive),
		Metrics:       m,
		CorsOptions:   cfg.CorsOptions(),
		AuthEnabled:   cfg.AuthEnabled(),
		SecureCookies: cfg.IsProduction(),
		StaticDir:     cfg.StaticDir,
	})

	server := &http.Server{
		Addr:    cfg.Address(),
		Handler: handler,
		// Timeouts prevent resource exhaustion from slow clients.
		// WriteTimeout leaves room for a slow model reply on /api/summary.
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting Daybook server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped successfully")
	return nil
}
