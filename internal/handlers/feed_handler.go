package handlers

import (
	"github.com/anonto42/aura/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the home feed
type FeedHandler struct {
	posts *services.PostService
}

func NewFeedHandler(posts *services.PostService) *FeedHandler {
	return &FeedHandler{posts: posts}
}

func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed lists posts of accepted followings, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	page := pageFrom(c)
	posts, total, err := h.posts.Feed(c.Request().Context(), currentUser(c), page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "posts", posts, total, page)
}
