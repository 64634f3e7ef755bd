package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/josephheron/devlens/internal/application"
	appanalysis "github.com/josephheron/devlens/internal/application/analysis"
	appconv "github.com/josephheron/devlens/internal/application/conversation"
	"github.com/josephheron/devlens/internal/config"
	aiclient "github.com/josephheron/devlens/internal/infra/ai/openai"
	"github.com/josephheron/devlens/internal/infra/db/mysql"
	"github.com/josephheron/devlens/internal/infra/db/postgres"
	"github.com/josephheron/devlens/internal/infra/httpserver"
	"github.com/josephheron/devlens/internal/infra/images"
	"github.com/josephheron/devlens/internal/infra/sessionstore"
	minioStore "github.com/josephheron/devlens/internal/infra/storage"
	"github.com/josephheron/devlens/internal/middleware"

	"github.com/josephheron/devlens/internal/domain/faults"
	"github.com/josephheron/devlens/internal/domain/history"
	"github.com/josephheron/devlens/internal/domain/screenshot"
)

func main() {
	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	)

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.Error("config load", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Optional persistence: analysis history and failure log
	var historyRepo history.Repository
	var faultRepo faults.Repository
	health := make(map[string]middleware.HealthChecker)
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysql.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			logger.Error("mysql connect", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		historyRepo = mysql.NewHistoryRepository(db)
		faultRepo = mysql.NewFaultRepository(db)
		health["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			logger.Error("postgres connect", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		historyRepo = postgres.NewHistoryRepository(db)
		health["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "":
		logger.Info("no database configured, history disabled")
	default:
		logger.Error("unknown database driver", "driver", cfg.Database.Driver)
		os.Exit(1)
	}

	// Optional object storage: screenshot source and archive
	var objects screenshot.Source
	var archive appanalysis.Archiver
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logger.Error("minio init", "err", err)
			os.Exit(1)
		}
		objects = store
		archive = store
	}

	sessions := sessionstore.NewMemory()
	client := aiclient.NewClient(cfg.OpenAI.Model, cfg.OpenAI.MaxTokens)
	clock := application.SystemClock{}

	analysisSvc := &appanalysis.Service{
		Client:      client,
		Source:      images.FileSource{},
		Sessions:    sessions,
		History:     historyRepo,
		Faults:      faultRepo,
		Archive:     archive,
		Clock:       clock,
		Logger:      logger,
		Temperature: cfg.OpenAI.AnalysisTemperature,
	}
	convSvc := &appconv.Service{
		Client:      client,
		Sessions:    sessions,
		Faults:      faultRepo,
		Clock:       clock,
		Logger:      logger,
		Temperature: cfg.OpenAI.ChatTemperature,
		Window:      cfg.Conversation.Window,
	}

	handler := httpserver.NewRouter(httpserver.Options{
		Analysis:            analysisSvc,
		Conv:                convSvc,
		Sessions:            sessions,
		History:             historyRepo,
		Faults:              faultRepo,
		Objects:             objects,
		Logger:              logger,
		Health:              health,
		RateLimitCapacity:   cfg.RateLimit.Capacity,
		RateLimitRefillRate: cfg.RateLimit.RefillRate,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		// Analyse streams its result; give the model call room.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "model", cfg.OpenAI.Model)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
