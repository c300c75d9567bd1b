// Package server is the composition root: it builds every dependency from
// the configuration, mounts the routes and runs the HTTP server until a
// shutdown signal arrives.
//
// DEPENDENCY FLOW:
//
//	config → sqlite.DB ─────────────→ session.Provider ─→ guards
//	       → http.Client → limiter → github.Client → StaleDataClient(bbolt) → CachedClient
//	       → http.Client → backend.Client
//	services (contributor, company, maintainer, auth) → handlers → chi router
//
// Each layer only receives the interfaces it needs; nothing below this
// package knows how its dependencies are constructed.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/pullquest-dashboard/internal/auth"
	"github.com/sakif/pullquest-dashboard/internal/backend"
	"github.com/sakif/pullquest-dashboard/internal/config"
	"github.com/sakif/pullquest-dashboard/internal/database"
	"github.com/sakif/pullquest-dashboard/internal/github"
	"github.com/sakif/pullquest-dashboard/internal/handler"
	"github.com/sakif/pullquest-dashboard/internal/limiter"
	sqliteRepo "github.com/sakif/pullquest-dashboard/internal/repository/sqlite"
	"github.com/sakif/pullquest-dashboard/internal/service"
	"github.com/sakif/pullquest-dashboard/internal/session"
)

// snapshotBucket is the bbolt bucket holding GitHub repository snapshots.
const snapshotBucket = "github"

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the SQLite connection and the bbolt snapshot store. Both
// are closed by Close, which Start calls on shutdown.
type Server struct {
	router    *chi.Mux
	config    *config.Config
	logger    *slog.Logger
	db        *sqliteRepo.DB
	snapshots *database.BoltKVStore
	sessions  *session.Provider
}

// New wires the whole dashboard from cfg.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if err := ensureDir(cfg.DBPath); err != nil {
		return nil, err
	}
	if err := ensureDir(cfg.GitHubSnapshotPath); err != nil {
		return nil, err
	}

	// === STORAGE ===
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	snapshots, err := database.NewBoltKVStore(cfg.GitHubSnapshotPath, snapshotBucket)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}

	s := &Server{
		config:    cfg,
		logger:    logger,
		db:        db,
		snapshots: snapshots,
	}
	if err := s.wire(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Server) wire() error {
	cfg, logger := s.config, s.logger

	// === SESSIONS ===
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	views, err := service.NewViewStore(cfg.ViewStateSize)
	if err != nil {
		return err
	}
	s.sessions = session.NewProvider(s.db, tokens, logger.With(slog.String("component", "sessions"))).
		WithSecureCookies(cfg.SecureCookies)
	s.sessions.OnClear(views.Drop)

	// === OUTBOUND CLIENTS ===
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}

	githubClient := github.NewClient(
		limiter.NewHTTPDoer(httpClient, cfg.GitHubAPIRateLimit),
		cfg.GitHubAPIAddress,
	)
	githubStaleDataClient := github.NewStaleDataClient(
		githubClient,
		s.snapshots,
		cfg.GitHubSnapshotTTL,
		logger.With(slog.String("component", "githubStaleDataClient")),
	)
	githubCachedClient, err := github.NewCachedClient(
		githubStaleDataClient,
		cfg.GitHubCacheSize,
		cfg.GitHubCacheTTL,
	)
	if err != nil {
		return fmt.Errorf("creating github client cache: %w", err)
	}

	backendClient := backend.NewClient(httpClient, cfg.APIBase())

	// === SERVICES ===
	contributors := service.NewContributorService(backendClient, githubCachedClient, views, logger)
	companies := service.NewCompanyService(backendClient, views, logger)
	maintainers := service.NewMaintainerService(githubCachedClient, logger)
	authService := service.NewAuthService(s.db, logger)

	// === HANDLERS ===
	pages, err := handler.NewRenderer(views, logger)
	if err != nil {
		return err
	}
	githubOAuth := auth.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubCallbackURL)

	s.router = NewRouter(s.sessions, Handlers{
		Auth:        handler.NewAuthHandler(githubOAuth, authService, s.sessions, pages, logger).WithSecureCookies(cfg.SecureCookies),
		Contributor: handler.NewContributorHandler(contributors, authService, s.sessions, pages, logger),
		Company:     handler.NewCompanyHandler(companies, pages, logger),
		Maintainer:  handler.NewMaintainerHandler(maintainers, pages, logger),
		API:         handler.NewAPIHandler(contributors, s.sessions, views, logger),
	}, cfg.CORSAllowedOrigins, logger)

	return nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database and the snapshot store.
func (s *Server) Close() error {
	return errors.Join(s.snapshots.Close(), s.db.Close())
}

// Start runs the server and the session sweeper, and shuts both down
// gracefully on SIGINT or SIGTERM.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new connections
//  2. Wait up to 30s for in-flight requests
//  3. Stop the sweeper and close the stores
func (s *Server) Start() error {
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go s.sessions.RunSweeper(ctx, s.config.SessionSweepInterval)

	srv := &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		// Analysis calls can be slow; leave room over the outbound timeout.
		WriteTimeout: s.config.HTTPClientTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.String("port", s.config.Port),
			slog.String("url", "http://localhost:"+s.config.Port),
			slog.String("backend", s.config.APIBase()),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// ensureDir creates the parent directory of a database file.
func ensureDir(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}
