package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthChecker is implemented by optional dependencies such as the event
// publisher.
type HealthChecker interface {
	HealthCheck() error
}

// HealthHandler reports the state of the service's datastores
type HealthHandler struct {
	db     *gorm.DB
	redis  *redis.Client
	checks map[string]HealthChecker
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client, checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb, checks: checks}
}

func (h *HealthHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	components := map[string]string{}
	healthy := true
	record := func(name string, err error) {
		if err != nil {
			components[name] = err.Error()
			healthy = false
			return
		}
		components[name] = "ok"
	}

	if sqlDB, err := h.db.DB(); err != nil {
		record("postgres", err)
	} else {
		record("postgres", sqlDB.PingContext(ctx))
	}
	if h.redis != nil {
		record("redis", h.redis.Ping(ctx).Err())
	}
	for name, check := range h.checks {
		record(name, check.HealthCheck())
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	return c.JSON(code, echo.Map{
		"status":     status,
		"service":    "aura-api",
		"components": components,
	})
}
