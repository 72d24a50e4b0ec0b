package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:username/posts", h.GetUserPosts)
}

func toUpload(fh *multipart.FileHeader) services.Upload {
	return services.Upload{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// CreatePost accepts multipart form data: caption, location_id and one or
// more media files.
func (h *PostHandler) CreatePost(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Request must be multipart/form-data")
	}

	in := services.NewPost{Caption: c.FormValue("caption")}
	if raw := c.FormValue("location_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid location_id")
		}
		loc := uint(id)
		in.LocationID = &loc
	}
	for _, fh := range form.File["media"] {
		in.Files = append(in.Files, toUpload(fh))
	}

	post, err := h.posts.CreatePost(c.Request().Context(), currentUser(c), in)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, post.ToView())
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.posts.GetPost(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, post)
}

// UpdatePost edits caption and location of the caller's post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.posts.UpdatePost(c.Request().Context(), currentUser(c), id, req)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, post.ToView())
}

// DeletePost deletes the caller's post
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.posts.DeletePost(c.Request().Context(), currentUser(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PostHandler) GetUserPosts(c echo.Context) error {
	page := pageFrom(c)
	posts, total, err := h.posts.UserPosts(c.Request().Context(), currentUser(c), c.Param("username"), page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "posts", posts, total, page)
}
