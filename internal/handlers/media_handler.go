package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/anonto42/aura/backend/pkg/storage"
	"github.com/labstack/echo/v4"
)

// MediaHandler streams stored media for backends without public URLs
type MediaHandler struct {
	store storage.Reader
}

func NewMediaHandler(store storage.Reader) *MediaHandler {
	return &MediaHandler{store: store}
}

func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group) {
	g.GET("/media/*", h.GetMedia)
}

func (h *MediaHandler) GetMedia(c echo.Context) error {
	key := c.Param("*")
	if key == "" {
		return echo.NewHTTPError(http.StatusNotFound, "Media not found")
	}
	var buf bytes.Buffer
	contentType, err := h.store.Open(c.Request().Context(), key, &buf)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Media not found")
		}
		return httpError(err)
	}
	if contentType == "" {
		contentType = http.DetectContentType(buf.Bytes())
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
