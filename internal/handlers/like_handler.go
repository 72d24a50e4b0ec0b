package handlers

import (
	"net/http"

	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	engagement *services.EngagementService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(engagement *services.EngagementService) *LikeHandler {
	return &LikeHandler{engagement: engagement}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.GET("/likes", h.GetMyLikes)
	g.POST("/likes", h.LikePost)
	g.DELETE("/likes/:id", h.Unlike)
	g.GET("/posts/:id/likes", h.GetPostLikes)
	g.DELETE("/posts/:id/likes", h.UnlikePost)
}

func (h *LikeHandler) GetMyLikes(c echo.Context) error {
	page := pageFrom(c)
	likes, total, err := h.engagement.MyLikes(c.Request().Context(), currentUser(c), page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "likes", likes, total, page)
}

// LikePost handles liking a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	var req models.PostRefRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	like, err := h.engagement.Like(c.Request().Context(), currentUser(c), req.PostID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, like)
}

func (h *LikeHandler) Unlike(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.engagement.Unlike(c.Request().Context(), currentUser(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UnlikePost removes the caller's like on the post in the path
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.engagement.UnlikePost(c.Request().Context(), currentUser(c), postID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *LikeHandler) GetPostLikes(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	page := pageFrom(c)
	likes, total, err := h.engagement.PostLikes(currentUser(c), postID, page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "likes", likes, total, page)
}
