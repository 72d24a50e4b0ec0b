package handlers

import (
	"net/http"

	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// TagHandler serves hashtags and locations
type TagHandler struct {
	posts *services.PostService
	users *services.UserService
}

func NewTagHandler(posts *services.PostService, users *services.UserService) *TagHandler {
	return &TagHandler{posts: posts, users: users}
}

func (h *TagHandler) RegisterTagRoutes(g *echo.Group) {
	g.GET("/tags", h.ListTags)
	g.GET("/tags/:id", h.GetTag)
	g.GET("/tags/:id/posts", h.GetTagPosts)
	g.GET("/locations", h.ListLocations)
	g.POST("/locations", h.CreateLocation)
}

func (h *TagHandler) ListTags(c echo.Context) error {
	page := pageFrom(c)
	tags, total, err := h.posts.ListTags(c.QueryParam("search"), page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "tags", tags, total, page)
}

func (h *TagHandler) GetTag(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tag, err := h.posts.GetTag(id)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, tag)
}

func (h *TagHandler) GetTagPosts(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	page := pageFrom(c)
	posts, total, err := h.posts.TagPosts(c.Request().Context(), currentUser(c), id, page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "posts", posts, total, page)
}

func (h *TagHandler) ListLocations(c echo.Context) error {
	page := pageFrom(c)
	locations, total, err := h.posts.ListLocations(c.QueryParam("search"), page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "locations", locations, total, page)
}

// CreateLocation is staff only
func (h *TagHandler) CreateLocation(c echo.Context) error {
	var req models.CreateLocationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	actor, err := h.users.GetByID(currentUser(c))
	if err != nil {
		return httpError(err)
	}
	loc, err := h.posts.CreateLocation(actor, req)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, loc)
}
