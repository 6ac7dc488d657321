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

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/stash/internal/advice"
	"github.com/MrJamesThe3rd/stash/internal/auth"
	"github.com/MrJamesThe3rd/stash/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/stash/internal/budget/store"
	"github.com/MrJamesThe3rd/stash/internal/config"
	"github.com/MrJamesThe3rd/stash/internal/export"
	stashHttp "github.com/MrJamesThe3rd/stash/internal/http"
	accountHandler "github.com/MrJamesThe3rd/stash/internal/http/account"
	budgetHandler "github.com/MrJamesThe3rd/stash/internal/http/budget"
	coachHandler "github.com/MrJamesThe3rd/stash/internal/http/coach"
	exportHandler "github.com/MrJamesThe3rd/stash/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/stash/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/stash/internal/http/matching"
	"github.com/MrJamesThe3rd/stash/internal/identity"
	"github.com/MrJamesThe3rd/stash/internal/importer"
	"github.com/MrJamesThe3rd/stash/internal/logging"
	"github.com/MrJamesThe3rd/stash/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/stash/internal/matching/store"
	"github.com/MrJamesThe3rd/stash/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := cfg.Validate(true); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	_, closeLog, err := logging.Setup(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer closeStore()

	hasher, err := identity.NewHasher(cfg.Auth.Hasher, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	budgetOpts := []budgetStore.Option{budgetStore.WithDefaultCurrency(cfg.App.DefaultCurrency)}
	if cfg.Storage.LegacyFallback {
		budgetOpts = append(budgetOpts, budgetStore.WithLegacyFallback())
	}

	advisor := advice.NewClient(advice.ClientConfig{
		APIKey:    cfg.Advice.APIKey,
		Model:     cfg.Advice.Model,
		MaxTokens: cfg.Advice.MaxTokens,
		Timeout:   cfg.Advice.Timeout,
	})
	if !advisor.Enabled() {
		slog.Warn("ANTHROPIC_API_KEY not set; the coach will not give advice")
	}

	var (
		identityStore   = identity.NewStore(store, hasher, identity.WithoutSessionRecord())
		budgetService   = budget.NewService(budgetStore.New(store, budgetOpts...))
		coach           = advice.NewCoach(advisor)
		matchingService = matching.NewService(matchingStore.New(store))
		importService   = importer.NewService(matchingService)
		exportService   = export.NewService(time.Now)
		tokens          = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	)

	router := stashHttp.New(
		stashHttp.Options{AllowedOrigins: cfg.CORS.AllowedOrigins, Timeout: cfg.Server.Timeout},
		tokens,
		accountHandler.NewHandler(identityStore, tokens, budgetService, coach),
		budgetHandler.NewHandler(budgetService),
		coachHandler.NewHandler(coach, budgetService),
		importHandler.NewHandler(importService, budgetService),
		exportHandler.NewHandler(exportService, budgetService),
		matchingHandler.NewHandler(matchingService),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + cfg.Advice.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "storage", cfg.Storage.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
