package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/anitrack/internal/api/v1"
	"github.com/vmunix/anitrack/internal/catalog"
	"github.com/vmunix/anitrack/internal/config"
	"github.com/vmunix/anitrack/internal/library"
	"github.com/vmunix/anitrack/internal/migrations"
	syncer "github.com/vmunix/anitrack/internal/sync"
	"github.com/vmunix/anitrack/pkg/bangumi"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func runServer(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	// Surface config problems at startup; 'anitrack config test' gives
	// the same report without starting the server.
	for _, msg := range cfg.Validate() {
		logger.Warn("config issue", "issue", msg)
	}

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	// Open database with foreign keys on; cascade deletes depend on it.
	db, err := sql.Open("sqlite", cfg.Database.Path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Run migrations
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// === Stores ===
	libraryStore := library.NewStore(db)
	cache := catalog.NewCache(db)

	// === Catalog client & service ===
	clientOpts := []bangumi.Option{
		bangumi.WithBaseURL(cfg.Catalog.URL),
		bangumi.WithLogger(logger),
	}
	if cfg.Catalog.AccessToken != "" {
		clientOpts = append(clientOpts, bangumi.WithAccessToken(cfg.Catalog.AccessToken))
	}
	client := bangumi.New(clientOpts...)

	catalogService := catalog.NewService(client, cache, logger.With("component", "catalog"),
		catalog.WithSubjectTTL(time.Duration(cfg.Catalog.CacheHours)*time.Hour))

	// === Sync engine ===
	engine := syncer.NewEngine(libraryStore, catalogService, logger.With("component", "sync"))

	// === Background Jobs ===
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runCachePruner(ctx, cache, logger.With("component", "cache"))

	// === HTTP Setup ===
	mux := http.NewServeMux()

	apiV1 := v1.New(libraryStore, engine)
	apiV1.SetDefaultImportUser(cfg.Import.DefaultUsername)
	apiV1.RegisterRoutes(mux)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"catalog", cfg.Catalog.URL,
		"authenticated", cfg.Catalog.AccessToken != "",
		"log_level", cfg.Server.LogLevel,
	)

	srv := &http.Server{Addr: addr, Handler: logRequests(mux, logger)}

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())

	// Cancel background jobs
	cancel()

	// Graceful HTTP shutdown with 30s timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// runCachePruner drops expired catalog cache rows once an hour.
func runCachePruner(ctx context.Context, cache *catalog.Cache, log *slog.Logger) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := cache.Prune(ctx); err != nil {
				log.Error("cache prune failed", "error", err)
			} else if n > 0 {
				log.Debug("pruned expired cache entries", "count", n)
			}
		}
	}
}
