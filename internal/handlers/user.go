package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
	"github.com/anonto42/aura/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler serves profiles and the user directory
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
	g.GET("/users/me", h.GetMe)
	g.PUT("/users/me", h.UpdateMe)
	g.POST("/users/deactivate", h.Deactivate)
	g.GET("/users/:username", h.GetProfile)
}

func optionalBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be true or false")
	}
	return &b, nil
}

// ListUsers is the directory with search, is_verified and is_private filters
func (h *UserHandler) ListUsers(c echo.Context) error {
	verified, err := optionalBool(c, "is_verified")
	if err != nil {
		return err
	}
	private, err := optionalBool(c, "is_private")
	if err != nil {
		return err
	}
	filter := repositories.UserFilter{Search: c.QueryParam("search"), IsVerified: verified, IsPrivate: private}

	page := pageFrom(c)
	users, total, err := h.users.List(currentUser(c), filter, page)
	if err != nil {
		return httpError(err)
	}
	compact := make([]models.UserCompact, 0, len(users))
	for i := range users {
		compact = append(compact, users[i].ToCompact())
	}
	return paginated(c, "users", compact, total, page)
}

func (h *UserHandler) GetMe(c echo.Context) error {
	profile, err := h.users.Me(currentUser(c))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, profile)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateProfile(currentUser(c), req)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, user)
}

func (h *UserHandler) Deactivate(c echo.Context) error {
	if err := h.users.Deactivate(currentUser(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.users.Profile(currentUser(c), c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, profile)
}
