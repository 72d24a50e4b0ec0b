package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/anonto42/aura/backend/internal/events"
	"github.com/anonto42/aura/backend/internal/repositories"
	"github.com/anonto42/aura/backend/internal/services"
	"github.com/anonto42/aura/backend/internal/tasks"
	"github.com/anonto42/aura/backend/pkg/config"
	"github.com/hibiken/asynq"
)

func main() {
	if err := run(); err != nil {
		slog.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}
	defer db.CloseDB()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NatsURL != "" {
		js, err := events.NewJetStreamPublisher(ctx, cfg.NatsURL, cfg.NatsInit, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer js.Close()
		publisher = js
	}

	notifier := services.NewNotifier(repositories.NewPostgresNotificationRepository(db.Postgres), publisher, logger)
	processor := tasks.NewPostProcessor(
		repositories.NewPostgresPostRepository(db.Postgres),
		repositories.NewPostgresUserRepository(db.Postgres),
		repositories.NewPostgresTagRepository(db.Postgres),
		notifier,
		logger,
	)

	queue := cfg.TaskQueue
	if queue == "" {
		queue = tasks.DefaultQueue
	}
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Queues:      map[string]int{queue: 1},
			Logger:      workerLogger{logger.With("component", "asynq")},
		},
	)
	if err := srv.Start(processor.NewServeMux()); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	logger.Info("worker started", "queue", queue, "concurrency", cfg.WorkerConcurrency)

	<-ctx.Done()
	logger.Info("shutting down worker")
	srv.Shutdown()
	return nil
}

// workerLogger routes asynq's own logging through slog.
type workerLogger struct{ l *slog.Logger }

func (w workerLogger) Debug(args ...interface{}) { w.l.Debug(fmt.Sprint(args...)) }
func (w workerLogger) Info(args ...interface{})  { w.l.Info(fmt.Sprint(args...)) }
func (w workerLogger) Warn(args ...interface{})  { w.l.Warn(fmt.Sprint(args...)) }
func (w workerLogger) Error(args ...interface{}) { w.l.Error(fmt.Sprint(args...)) }
func (w workerLogger) Fatal(args ...interface{}) {
	w.l.Error(fmt.Sprint(args...))
	os.Exit(1)
}
