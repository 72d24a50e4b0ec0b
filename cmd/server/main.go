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

	"github.com/anonto42/aura/backend/internal/events"
	"github.com/anonto42/aura/backend/internal/handlers"
	"github.com/anonto42/aura/backend/internal/router"
	"github.com/anonto42/aura/backend/internal/services"
	"github.com/anonto42/aura/backend/internal/tasks"
	"github.com/anonto42/aura/backend/pkg/config"
	"github.com/anonto42/aura/backend/pkg/firebase"
	"github.com/anonto42/aura/backend/pkg/storage"
	"github.com/anonto42/aura/backend/validators"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg := config.Load()

	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}
	defer db.CloseDB()

	var verifier services.TokenVerifier
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	switch {
	case err == nil:
		verifier = firebaseApp.AuthClient
	case errors.Is(err, firebase.ErrNotConfigured):
		logger.Warn("firebase login disabled, FIREBASE_CREDENTIALS_PATH is empty")
	default:
		return fmt.Errorf("failed to initialize firebase: %w", err)
	}

	blobs, err := openBlobStore(ctx, cfg, db, logger)
	if err != nil {
		return err
	}

	health := map[string]handlers.HealthChecker{}
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NatsURL != "" {
		js, err := events.NewJetStreamPublisher(ctx, cfg.NatsURL, cfg.NatsInit, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer js.Close()
		publisher = js
		health["nats"] = js
	}

	submitter := tasks.NewAsynqSubmitter(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, cfg.TaskQueue, logger)
	defer submitter.Close()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, logger)

	if _, err := router.SetupRoutes(e, router.Deps{
		DB:        db.Postgres,
		Redis:     db.Redis,
		Blobs:     blobs,
		Submitter: submitter,
		Publisher: publisher,
		Verifier:  verifier,
		JWTSecret: cfg.JWTSecret,
		MaxUpload: int64(cfg.MaxUploadMB) << 20,
		Health:    health,
		Logger:    logger,
	}); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openBlobStore picks the media backend. GridFS needs MONGO_URI; without it
// media is kept in memory.
func openBlobStore(ctx context.Context, cfg *config.Config, db *config.DB, logger *slog.Logger) (storage.BlobStore, error) {
	switch cfg.MediaBackend {
	case "gcs":
		store, err := storage.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS store: %w", err)
		}
		logger.Info("media stored in GCS", "bucket", cfg.GCSBucket)
		return store, nil
	case "gridfs", "":
		if db.Mongo == nil {
			logger.Warn("MONGO_URI not set, media is kept in memory")
			return storage.NewMemoryStore(), nil
		}
		store, err := storage.NewGridFSStore(db.Mongo.Database(cfg.MongoDatabase), cfg.MediaBaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GridFS store: %w", err)
		}
		logger.Info("media stored in GridFS", "database", cfg.MongoDatabase)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown MEDIA_BACKEND %q", cfg.MediaBackend)
	}
}
