package router

import (
	"fmt"
	"log/slog"

	"github.com/anonto42/aura/backend/internal/cache"
	"github.com/anonto42/aura/backend/internal/events"
	"github.com/anonto42/aura/backend/internal/handlers"
	"github.com/anonto42/aura/backend/internal/middleware"
	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
	"github.com/anonto42/aura/backend/internal/services"
	"github.com/anonto42/aura/backend/internal/tasks"
	"github.com/anonto42/aura/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the process-level dependencies the routes are built from.
type Deps struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Blobs     storage.BlobStore
	Submitter tasks.Submitter
	Publisher events.Publisher
	Verifier  services.TokenVerifier
	JWTSecret string
	MaxUpload int64
	Health    map[string]handlers.HealthChecker
	Logger    *slog.Logger
}

// Services bundles the business layer built by NewServices.
type Services struct {
	Users         *services.UserService
	Relations     *services.RelationService
	Posts         *services.PostService
	Engagement    *services.EngagementService
	Notifications *services.NotificationService
	Notifier      *services.Notifier
}

// NewServices wires repositories into services.
func NewServices(d Deps) *Services {
	userRepo := repositories.NewPostgresUserRepository(d.DB)
	followRepo := repositories.NewPostgresFollowRepository(d.DB)
	blockRepo := repositories.NewPostgresBlockRepository(d.DB)
	visRepo := repositories.NewPostgresVisibilityRepository(d.DB)
	commentRepo := repositories.NewPostgresCommentRepository(d.DB)
	likeRepo := repositories.NewPostgresLikeRepository(d.DB)
	notificationRepo := repositories.NewPostgresNotificationRepository(d.DB)

	var counters cache.CounterCache = cache.NopCounterCache{}
	if d.Redis != nil {
		counters = cache.NewRedisCounterCache(d.Redis)
	}

	notifier := services.NewNotifier(notificationRepo, d.Publisher, d.Logger)
	posts := services.NewPostService(services.PostServiceConfig{
		Users:      userRepo,
		Posts:      repositories.NewPostgresPostRepository(d.DB),
		Tags:       repositories.NewPostgresTagRepository(d.DB),
		Locations:  repositories.NewPostgresLocationRepository(d.DB),
		Likes:      likeRepo,
		Comments:   commentRepo,
		Visibility: visRepo,
		Blobs:      d.Blobs,
		Submitter:  d.Submitter,
		Counters:   counters,
		MaxUpload:  d.MaxUpload,
		Logger:     d.Logger,
	})

	return &Services{
		Users:         services.NewUserService(userRepo, followRepo, visRepo),
		Relations:     services.NewRelationService(userRepo, followRepo, blockRepo, visRepo, notifier),
		Posts:         posts,
		Engagement:    services.NewEngagementService(posts, followRepo, commentRepo, likeRepo, repositories.NewPostgresSaveRepository(d.DB), notifier),
		Notifications: services.NewNotificationService(notificationRepo),
		Notifier:      notifier,
	}
}

// SetupRoutes migrates the schema and registers every route.
func SetupRoutes(e *echo.Echo, d Deps) (*Services, error) {
	if err := models.AutoMigrate(d.DB); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	d.Logger.Info("PostgreSQL auto-migrations completed")

	svc := NewServices(d)

	e.GET("/health", handlers.NewHealthHandler(d.DB, d.Redis, d.Health).HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	public := e.Group("/api/v1")
	if reader, ok := d.Blobs.(storage.Reader); ok {
		handlers.NewMediaHandler(reader).RegisterMediaRoutes(public)
	}

	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(svc.Users, d.Verifier, d.JWTSecret).RegisterAuthRoutes(authGroup)

	api := e.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(d.JWTSecret, d.Verifier, svc.Users))

	handlers.NewUserHandler(svc.Users).RegisterUserRoutes(api)
	handlers.NewPostHandler(svc.Posts).RegisterPostRoutes(api)
	handlers.NewFeedHandler(svc.Posts).RegisterFeedRoutes(api)
	handlers.NewTagHandler(svc.Posts, svc.Users).RegisterTagRoutes(api)
	handlers.NewCommentHandler(svc.Engagement).RegisterCommentRoutes(api)
	handlers.NewLikeHandler(svc.Engagement).RegisterLikeRoutes(api)
	handlers.NewSaveHandler(svc.Engagement).RegisterSaveRoutes(api)
	handlers.NewFollowHandler(svc.Relations).RegisterFollowRoutes(api)
	handlers.NewFriendshipHandler(svc.Relations).RegisterFriendshipRoutes(api)
	handlers.NewNotificationHandler(svc.Notifications).RegisterNotificationRoutes(api)

	d.Logger.Info("all routes configured")
	return svc, nil
}
