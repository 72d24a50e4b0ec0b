package handlers

import (
	"net/http"

	"github.com/anonto42/aura/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles HTTP requests related to notifications
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
}

// GetNotifications lists the caller's notifications, filtered by type and is_read
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	filter, err := services.ParseFilter(c.QueryParam("type"), c.QueryParam("is_read"))
	if err != nil {
		return httpError(err)
	}
	page := pageFrom(c)
	notifications, total, err := h.notifications.List(currentUser(c), filter, page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "notifications", notifications, total, page)
}

func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notifications.UnreadCount(currentUser(c))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"unread_count": count})
}

func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(currentUser(c), id); err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"id": id, "is_read": true})
}

func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	n, err := h.notifications.MarkAllRead(currentUser(c))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"updated": n})
}
