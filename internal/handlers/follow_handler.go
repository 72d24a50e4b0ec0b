package handlers

import (
	"net/http"

	"github.com/anonto42/aura/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow and block edges
type FollowHandler struct {
	relations *services.RelationService
}

func NewFollowHandler(relations *services.RelationService) *FollowHandler {
	return &FollowHandler{relations: relations}
}

func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.GET("/followers/:username", h.GetFollowers)
	g.GET("/followings/:username", h.GetFollowings)
	g.POST("/follow/:username", h.Follow)
	g.DELETE("/follow/:username", h.Unfollow)
	g.GET("/blocked-users", h.GetBlockedUsers)
	g.POST("/block/:username", h.Block)
	g.DELETE("/block/:username", h.Unblock)
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	page := pageFrom(c)
	entries, total, err := h.relations.Followers(currentUser(c), c.Param("username"), c.QueryParam("search"), page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "followers", entries, total, page)
}

func (h *FollowHandler) GetFollowings(c echo.Context) error {
	page := pageFrom(c)
	entries, total, err := h.relations.Followings(currentUser(c), c.Param("username"), c.QueryParam("search"), page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "followings", entries, total, page)
}

// Follow follows a public account or sends a request to a private one
func (h *FollowHandler) Follow(c echo.Context) error {
	follow, err := h.relations.Follow(c.Request().Context(), currentUser(c), c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, echo.Map{"is_accepted": follow.IsAccepted, "created_at": follow.CreatedAt})
}

func (h *FollowHandler) Unfollow(c echo.Context) error {
	if err := h.relations.Unfollow(currentUser(c), c.Param("username")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FollowHandler) GetBlockedUsers(c echo.Context) error {
	page := pageFrom(c)
	entries, total, err := h.relations.BlockedUsers(currentUser(c), c.QueryParam("search"), page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "blocked_users", entries, total, page)
}

// Block blocks a user and drops follow edges in both directions
func (h *FollowHandler) Block(c echo.Context) error {
	block, err := h.relations.Block(currentUser(c), c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, echo.Map{"created_at": block.CreatedAt})
}

func (h *FollowHandler) Unblock(c echo.Context) error {
	if err := h.relations.Unblock(currentUser(c), c.Param("username")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
