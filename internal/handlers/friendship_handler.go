package handlers

import (
	"net/http"

	"github.com/anonto42/aura/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FriendshipHandler handles pending follow requests
type FriendshipHandler struct {
	relations *services.RelationService
}

func NewFriendshipHandler(relations *services.RelationService) *FriendshipHandler {
	return &FriendshipHandler{relations: relations}
}

func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.GET("/sent-requests", h.GetSentRequests)
	g.GET("/received-requests", h.GetReceivedRequests)
	g.POST("/received-requests/:username", h.AcceptRequest)
	g.DELETE("/received-requests/:username", h.DeclineRequest)
}

func (h *FriendshipHandler) GetSentRequests(c echo.Context) error {
	page := pageFrom(c)
	entries, total, err := h.relations.SentRequests(currentUser(c), c.QueryParam("search"), page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "requests", entries, total, page)
}

func (h *FriendshipHandler) GetReceivedRequests(c echo.Context) error {
	page := pageFrom(c)
	entries, total, err := h.relations.ReceivedRequests(currentUser(c), c.QueryParam("search"), page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "requests", entries, total, page)
}

// AcceptRequest accepts the pending request sent by username
func (h *FriendshipHandler) AcceptRequest(c echo.Context) error {
	follow, err := h.relations.Accept(c.Request().Context(), currentUser(c), c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"is_accepted": follow.IsAccepted})
}

// DeclineRequest drops the pending request sent by username
func (h *FriendshipHandler) DeclineRequest(c echo.Context) error {
	if err := h.relations.Decline(currentUser(c), c.Param("username")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
