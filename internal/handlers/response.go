package handlers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/anonto42/aura/backend/internal/middleware"
	"github.com/anonto42/aura/backend/internal/repositories"
	"github.com/anonto42/aura/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// pageFrom reads page and limit query values; bad values fall back to the
// defaults.
func pageFrom(c echo.Context) repositories.Page {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	p := repositories.Page{Page: page, Limit: limit}
	if p.Page < 1 {
		p.Page = 1
	}
	p.Limit = p.Size()
	return p
}

func paginated(c echo.Context, key string, items interface{}, total int64, p repositories.Page) error {
	totalPages := int(math.Ceil(float64(total) / float64(p.Limit)))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			key: items,
		},
		"meta": echo.Map{
			"currentPage":     p.Page,
			"totalPages":      totalPages,
			"totalItems":      total,
			"itemsPerPage":    p.Limit,
			"hasNextPage":     p.Page < totalPages,
			"hasPreviousPage": p.Page > 1,
		},
	})
}

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

func currentUser(c echo.Context) uint {
	return middleware.UserID(c)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}

// httpError maps a service error to the HTTP error returned to clients.
func httpError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	msg := services.Message(err)
	var v *services.ValidationError
	switch {
	case errors.As(err, &v):
		return echo.NewHTTPError(http.StatusBadRequest, msg)
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, fallback(msg, "Not found"))
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, fallback(msg, "Forbidden"))
	case errors.Is(err, services.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, fallback(msg, "Unauthorized"))
	case repositories.IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, repositories.ErrDuplicate):
		return echo.NewHTTPError(http.StatusBadRequest, "Duplicate record")
	}

	slog.Error("unhandled request error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

func fallback(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}
