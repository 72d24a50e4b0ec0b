package handlers

import (
	"net/http"

	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	engagement *services.EngagementService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(engagement *services.EngagementService) *CommentHandler {
	return &CommentHandler{engagement: engagement}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/comments", h.GetMyComments)
	g.POST("/comments", h.CreateComment)
	g.GET("/comments/:id", h.GetComment)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.GET("/posts/:id/comments", h.GetPostComments)
	g.POST("/posts/:id/comments", h.CreatePostComment)
	g.POST("/posts/:id/comments/:comment_id/replies", h.CreateReply)
}

func (h *CommentHandler) GetMyComments(c echo.Context) error {
	page := pageFrom(c)
	comments, total, err := h.engagement.MyComments(currentUser(c), page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "comments", comments, total, page)
}

// CreateComment takes post_id and an optional reply_to_id in the body
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.engagement.CreateComment(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, comment)
}

func (h *CommentHandler) CreatePostComment(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req models.CommentTextRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.engagement.CreateComment(c.Request().Context(), currentUser(c),
		models.CreateCommentRequest{PostID: postID, Text: req.Text})
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, comment)
}

func (h *CommentHandler) CreateReply(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	parentID, err := parseID(c, "comment_id")
	if err != nil {
		return err
	}
	var req models.CommentTextRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.engagement.Reply(c.Request().Context(), currentUser(c), postID, parentID, req.Text)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, comment)
}

func (h *CommentHandler) GetComment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	comment, err := h.engagement.GetComment(currentUser(c), id)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, comment)
}

func (h *CommentHandler) UpdateComment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req models.CommentTextRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.engagement.UpdateComment(currentUser(c), id, req.Text)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, comment)
}

// DeleteComment removes the caller's comment along with its replies
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.engagement.DeleteComment(c.Request().Context(), currentUser(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CommentHandler) GetPostComments(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	page := pageFrom(c)
	comments, total, err := h.engagement.PostComments(currentUser(c), postID, page)
	if err != nil {
		return httpError(err)
	}
	return paginated(c, "comments", comments, total, page)
}
