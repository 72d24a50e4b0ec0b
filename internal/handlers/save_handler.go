package handlers

import (
	"net/http"

	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// SaveHandler handles HTTP requests related to saved posts
type SaveHandler struct {
	engagement *services.EngagementService
}

func NewSaveHandler(engagement *services.EngagementService) *SaveHandler {
	return &SaveHandler{engagement: engagement}
}

func (h *SaveHandler) RegisterSaveRoutes(g *echo.Group) {
	g.GET("/saves", h.GetMySaves)
	g.POST("/saves", h.SavePost)
	g.DELETE("/saves/:id", h.Unsave)
	g.DELETE("/posts/:id/saves", h.UnsavePost)
}

// GetMySaves lists the caller's saved posts still visible to them
func (h *SaveHandler) GetMySaves(c echo.Context) error {
	page := pageFrom(c)
	saves, total, err := h.engagement.MySaves(c.Request().Context(), currentUser(c), page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "saves", saves, total, page)
}

func (h *SaveHandler) SavePost(c echo.Context) error {
	var req models.PostRefRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	save, err := h.engagement.Save(c.Request().Context(), currentUser(c), req.PostID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, save)
}

func (h *SaveHandler) Unsave(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.engagement.Unsave(currentUser(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SaveHandler) UnsavePost(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.engagement.UnsavePost(currentUser(c), postID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
