// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starling/noteboard/internal/api"
	"github.com/starling/noteboard/internal/attachments"
	"github.com/starling/noteboard/internal/models"
	"github.com/starling/noteboard/internal/noteservice"
	"github.com/starling/noteboard/internal/repo"
	"github.com/starling/noteboard/internal/sse"
	"github.com/starling/noteboard/internal/storage"
	"github.com/starling/noteboard/internal/summarizer"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("uploads_path", cfg.Uploads.Path),
		slog.String("persistence_mode", cfg.Persistence.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize blob storage for attachments.
	store, err := storage.NewFS(cfg.Uploads.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Initialize the repository.
	repository, err := openRepository(cfg)
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer repository.Close()

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	// Build the service stack.
	manager := attachments.NewManager(repository, store, cfg.Uploads.AllowedExtensions, cfg.Uploads.MaxBytes, logger)
	sum := summarizer.New(summarizer.Config{
		Keywords:      cfg.Summarizer.Keywords,
		Boilerplate:   cfg.Summarizer.Boilerplate,
		Junk:          cfg.Summarizer.Junk,
		Abbreviations: cfg.Summarizer.Abbreviations,
	})
	svc := noteservice.NewService(repository, manager, sum, cfg.Board.Classes, cfg.Board.PageSize, broker)

	if app.mcpMode {
		return runMCP(svc, logger)
	}

	apiRouter := api.NewRouter(svc, cfg.Uploads.MaxBytes, cfg.Auth.AuthEnabled(), tokenResolver(cfg), broker)

	// Build the root router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the uploads directory for objects vanishing underneath us.
	g.Go(func() error {
		return storage.Watch(gCtx, store.Root(), logger, func(name string) {
			broker.PublishAttachmentMissing(name)
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

func openRepository(cfg *Config) (repo.Repository, error) {
	if cfg.Persistence.Mode == PersistenceMemory {
		return repo.NewMemory(), nil
	}
	return repo.Open(cfg.Persistence.SQLitePath)
}

// tokenResolver builds the principal resolver from the configured token map.
func tokenResolver(cfg *Config) api.Resolver {
	return func(token string) (models.Principal, bool) {
		tp, ok := cfg.Auth.Tokens[token]
		if !ok {
			return models.Principal{}, false
		}
		id := tp.ID
		if id == "" {
			id = tp.Name
		}
		return models.Principal{ID: id, Name: tp.Name, IsAdmin: tp.Admin}, true
	}
}
