package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/screenforge/screenforge/internal/api"
	"github.com/screenforge/screenforge/internal/audit"
	"github.com/screenforge/screenforge/internal/config"
	"github.com/screenforge/screenforge/internal/database"
	"github.com/screenforge/screenforge/internal/knowledge"
	"github.com/screenforge/screenforge/internal/llm"
	"github.com/screenforge/screenforge/internal/pipeline"
	"github.com/screenforge/screenforge/internal/queue"
	"github.com/screenforge/screenforge/internal/template"
	"github.com/screenforge/screenforge/internal/validator"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Knowledge: live DB corpus behind an atomic snapshot, static YAML
	// files as the fallback.
	pgStore := knowledge.NewPGStore(db)
	snap, err := knowledge.NewSnapshotStore(ctx, pgStore, knowledge.BaseTags(validator.Products()))
	if err != nil {
		slog.Warn("initial knowledge snapshot failed, relying on file corpus", "error", err)
	} else {
		go snap.RunRefresher(ctx, cfg.Knowledge.RefreshInterval)
	}

	fileStore, err := knowledge.NewFileStore(cfg.Knowledge.CorpusDir)
	if err != nil {
		slog.Warn("file corpus unavailable", "dir", cfg.Knowledge.CorpusDir, "error", err)
		fileStore = nil
	}

	var primary, fallback knowledge.Store
	if snap != nil {
		primary = snap
	}
	if fileStore != nil {
		fallback = fileStore
	}
	if primary == nil {
		primary, fallback = fallback, nil
	}
	if primary == nil {
		slog.Error("no knowledge source available")
		os.Exit(1)
	}
	selector := knowledge.NewSelector(primary, fallback, cfg.Knowledge.TokenBudget)

	gw, err := llm.NewGateway(cfg.LLM)
	if err != nil {
		slog.Error("failed to build LLM gateway", "error", err)
		os.Exit(1)
	}

	// Audit: enqueue to the worker when Redis answers, else write
	// directly from this process.
	var sink pipeline.Sink
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, auditing synchronously", "error", err)
		sink = audit.NewDirectSink(audit.NewService(db))
	} else {
		qc := queue.NewClient(cfg.Redis)
		defer qc.Close()
		sink = queue.NewAuditSink(qc)
	}

	orch := pipeline.NewOrchestrator(selector, template.NewPGSource(db), gw, sink, pipeline.Config{
		MaxRegenerations: cfg.Pipeline.MaxRegenerations,
		AuditRetention:   cfg.Audit.Retention,
	})

	router := api.NewRouter(db, rdb, cfg, gw, orch)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
