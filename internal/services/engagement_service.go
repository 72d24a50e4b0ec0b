package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/anonto42/aura/backend/internal/cache"
	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
	"github.com/anonto42/aura/backend/internal/visibility"
)

// EngagementService manages comments, likes and saves
type EngagementService struct {
	content  *PostService
	follows  repositories.FollowRepository
	comments repositories.CommentRepository
	likes    repositories.LikeRepository
	saves    repositories.SaveRepository
	notifier *Notifier
}

func NewEngagementService(
	content *PostService,
	follows repositories.FollowRepository,
	comments repositories.CommentRepository,
	likes repositories.LikeRepository,
	saves repositories.SaveRepository,
	notifier *Notifier,
) *EngagementService {
	return &EngagementService{
		content:  content,
		follows:  follows,
		comments: comments,
		likes:    likes,
		saves:    saves,
		notifier: notifier,
	}
}

// writablePost loads a post and applies the write gate. verb names the
// action in the rejection message.
func (s *EngagementService) writablePost(viewerID, postID uint, verb string) (*models.Post, error) {
	post, err := s.content.posts.GetPostByID(postID)
	if err != nil {
		return nil, lookup(err, "Post not found")
	}
	facts, err := s.content.gate.visibility.Facts(viewerID, &post.User)
	if err != nil {
		return nil, err
	}
	switch visibility.CanEngage(facts) {
	case visibility.Allow:
		return post, nil
	case visibility.DenyPrivate:
		return nil, invalid(fmt.Sprintf("You can't %s this post because the user is private and you don't follow them.", verb))
	case visibility.DenyBlocked:
		return nil, invalid(fmt.Sprintf("You can't %s this post.", verb))
	default:
		return nil, notFound("Post not found")
	}
}

// readablePost loads a post whose engagement listings the viewer may read.
func (s *EngagementService) readablePost(viewerID, postID uint) (*models.Post, error) {
	post, err := s.content.posts.GetPostByID(postID)
	if err != nil {
		return nil, lookup(err, "Post not found")
	}
	if err := s.content.gate.canViewUser(viewerID, &post.User); err != nil {
		return nil, err
	}
	return post, nil
}

func validateComment(text string) error {
	if n := utf8.RuneCountInString(text); n == 0 || n > models.MaxCommentLength {
		return invalid("Comment text must be between 1 and 256 characters.")
	}
	return nil
}

// CreateComment adds a comment or a reply to a top-level comment.
func (s *EngagementService) CreateComment(ctx context.Context, viewerID uint, req models.CreateCommentRequest) (*models.CommentView, error) {
	post, err := s.writablePost(viewerID, req.PostID, "comment on")
	if err != nil {
		return nil, err
	}

	if req.ReplyToID != nil {
		parent, err := s.comments.GetCommentByID(*req.ReplyToID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return nil, invalid("You can't reply to a comment that is not part of this post.")
			}
			return nil, err
		}
		if parent.PostID != post.ID {
			return nil, invalid("You can't reply to a comment that is not part of this post.")
		}
		if parent.ReplyToID != nil {
			return nil, invalid("Recursive replies are not allowed.")
		}
	}

	if viewerID != post.UserID {
		follows, err := s.follows.HasAnyFollow(viewerID, post.UserID)
		if err != nil {
			return nil, err
		}
		if !follows {
			return nil, forbidden("You are not allowed to perform this action")
		}
	}

	if err := validateComment(req.Text); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:      req.Text,
		UserID:    viewerID,
		PostID:    post.ID,
		ReplyToID: req.ReplyToID,
	}
	if err := s.comments.CreateComment(comment); err != nil {
		return nil, err
	}
	s.content.invalidate(ctx, cache.CommentsCounter, post.ID)
	s.notifier.Commented(ctx, comment, post)

	v := comment.ToView()
	return &v, nil
}

// Reply answers a top-level comment of postID.
func (s *EngagementService) Reply(ctx context.Context, viewerID, postID, parentID uint, text string) (*models.CommentView, error) {
	return s.CreateComment(ctx, viewerID, models.CreateCommentRequest{PostID: postID, Text: text, ReplyToID: &parentID})
}

func (s *EngagementService) ownedComment(viewerID, id uint) (*models.Comment, error) {
	comment, err := s.comments.GetCommentByID(id)
	if err != nil {
		return nil, lookup(err, "Comment not found")
	}
	if comment.UserID != viewerID {
		return nil, forbidden("You do not have permission to perform this action.")
	}
	return comment, nil
}

func (s *EngagementService) UpdateComment(viewerID, id uint, text string) (*models.CommentView, error) {
	comment, err := s.ownedComment(viewerID, id)
	if err != nil {
		return nil, err
	}
	if err := validateComment(text); err != nil {
		return nil, err
	}
	comment.Text = text
	if err := s.comments.UpdateComment(comment); err != nil {
		return nil, err
	}
	v := comment.ToView()
	return &v, nil
}

// DeleteComment removes the comment and its replies.
func (s *EngagementService) DeleteComment(ctx context.Context, viewerID, id uint) error {
	comment, err := s.ownedComment(viewerID, id)
	if err != nil {
		return err
	}
	if err := s.comments.DeleteComment(comment.ID); err != nil {
		return lookup(err, "Comment not found")
	}
	s.content.invalidate(ctx, cache.CommentsCounter, comment.PostID)
	return nil
}

// PostComments lists top-level comments of a post with their replies.
func (s *EngagementService) PostComments(viewerID, postID uint, page repositories.Page) ([]models.CommentView, int64, error) {
	post, err := s.readablePost(viewerID, postID)
	if err != nil {
		return nil, 0, err
	}
	comments, total, err := s.comments.GetTopLevelComments(viewerID, post.ID, page)
	if err != nil {
		return nil, 0, err
	}
	return commentViews(comments), total, nil
}

// GetComment returns a comment with its replies when its post is visible.
func (s *EngagementService) GetComment(viewerID, id uint) (*models.CommentView, error) {
	comment, err := s.comments.GetCommentWithReplies(viewerID, id)
	if err != nil {
		return nil, lookup(err, "Comment not found")
	}
	post, err := s.content.posts.GetPostByID(comment.PostID)
	if err != nil {
		return nil, lookup(err, "Comment not found")
	}
	if err := s.content.gate.canViewPost(viewerID, post); err != nil {
		return nil, notFound("Comment not found")
	}
	if d, err := s.content.gate.decide(viewerID, &comment.User); err != nil {
		return nil, err
	} else if d == visibility.DenyBlocked {
		return nil, notFound("Comment not found")
	}
	v := comment.ToView()
	return &v, nil
}

func (s *EngagementService) MyComments(viewerID uint, page repositories.Page) ([]models.CommentView, int64, error) {
	comments, total, err := s.comments.GetCommentsByUserID(viewerID, page)
	if err != nil {
		return nil, 0, err
	}
	return commentViews(comments), total, nil
}

func commentViews(comments []models.Comment) []models.CommentView {
	views := make([]models.CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, comments[i].ToView())
	}
	return views
}

// Like records a like; a second like on the same post is rejected.
func (s *EngagementService) Like(ctx context.Context, viewerID, postID uint) (*models.EngagementView, error) {
	post, err := s.writablePost(viewerID, postID, "like")
	if err != nil {
		return nil, err
	}
	duplicate := invalid("You can't like a post more than once.")
	liked, err := s.likes.HasUserLikedPost(post.ID, viewerID)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, duplicate
	}

	like := &models.Like{UserID: viewerID, PostID: post.ID}
	if err := s.likes.CreateLike(like); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, duplicate
		}
		return nil, err
	}
	s.content.invalidate(ctx, cache.LikesCounter, post.ID)
	s.notifier.Liked(ctx, like, post)

	return &models.EngagementView{ID: like.ID, CreatedAt: like.CreatedAt}, nil
}

// Unlike removes a like by id. Only its author may remove it.
func (s *EngagementService) Unlike(ctx context.Context, viewerID, likeID uint) error {
	like, err := s.likes.GetLikeByID(likeID)
	if err != nil {
		return lookup(err, "Like not found")
	}
	return s.dropLike(ctx, viewerID, like)
}

// UnlikePost removes the viewer's like on a post.
func (s *EngagementService) UnlikePost(ctx context.Context, viewerID, postID uint) error {
	like, err := s.likes.GetLikeByPost(postID, viewerID)
	if err != nil {
		return lookup(err, "Like not found")
	}
	return s.dropLike(ctx, viewerID, like)
}

func (s *EngagementService) dropLike(ctx context.Context, viewerID uint, like *models.Like) error {
	if like.UserID != viewerID {
		return forbidden("You do not have permission to perform this action.")
	}
	if err := s.likes.DeleteLike(like.ID); err != nil {
		return lookup(err, "Like not found")
	}
	s.content.invalidate(ctx, cache.LikesCounter, like.PostID)
	return nil
}

// PostLikes lists who liked a post, minus the viewer's block counterparts.
func (s *EngagementService) PostLikes(viewerID, postID uint, page repositories.Page) ([]models.EngagementView, int64, error) {
	post, err := s.readablePost(viewerID, postID)
	if err != nil {
		return nil, 0, err
	}
	likes, total, err := s.likes.GetLikesByPostID(viewerID, post.ID, page)
	if err != nil {
		return nil, 0, err
	}
	views := make([]models.EngagementView, 0, len(likes))
	for _, l := range likes {
		views = append(views, models.EngagementView{ID: l.ID, User: l.User.ToCompact(), CreatedAt: l.CreatedAt})
	}
	return views, total, nil
}

func (s *EngagementService) MyLikes(ctx context.Context, viewerID uint, page repositories.Page) ([]models.EngagementView, int64, error) {
	likes, total, err := s.likes.GetLikesByUserID(viewerID, page)
	if err != nil {
		return nil, 0, err
	}
	views := make([]models.EngagementView, 0, len(likes))
	for _, l := range likes {
		v, err := s.withPost(ctx, l.ID, l.User, l.Post, l.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, v)
	}
	return views, total, nil
}

// Save bookmarks a post; a second save of the same post is rejected.
func (s *EngagementService) Save(ctx context.Context, viewerID, postID uint) (*models.EngagementView, error) {
	post, err := s.writablePost(viewerID, postID, "save")
	if err != nil {
		return nil, err
	}
	duplicate := invalid("You can't save a post more than once.")
	saved, err := s.saves.IsPostSaved(post.ID, viewerID)
	if err != nil {
		return nil, err
	}
	if saved {
		return nil, duplicate
	}

	save := &models.Save{UserID: viewerID, PostID: post.ID}
	if err := s.saves.CreateSave(save); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, duplicate
		}
		return nil, err
	}
	s.notifier.Saved(ctx, save, post)

	return &models.EngagementView{ID: save.ID, CreatedAt: save.CreatedAt}, nil
}

func (s *EngagementService) Unsave(viewerID, saveID uint) error {
	save, err := s.saves.GetSaveByID(saveID)
	if err != nil {
		return lookup(err, "Save not found")
	}
	return s.dropSave(viewerID, save)
}

func (s *EngagementService) UnsavePost(viewerID, postID uint) error {
	save, err := s.saves.GetSaveByPost(postID, viewerID)
	if err != nil {
		return lookup(err, "Save not found")
	}
	return s.dropSave(viewerID, save)
}

func (s *EngagementService) dropSave(viewerID uint, save *models.Save) error {
	if save.UserID != viewerID {
		return forbidden("You do not have permission to perform this action.")
	}
	return lookup(s.saves.DeleteSave(save.ID), "Save not found")
}

func (s *EngagementService) MySaves(ctx context.Context, viewerID uint, page repositories.Page) ([]models.EngagementView, int64, error) {
	saves, total, err := s.saves.GetSavesByUserID(viewerID, page)
	if err != nil {
		return nil, 0, err
	}
	views := make([]models.EngagementView, 0, len(saves))
	for _, sv := range saves {
		v, err := s.withPost(ctx, sv.ID, sv.User, sv.Post, sv.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, v)
	}
	return views, total, nil
}

func (s *EngagementService) withPost(ctx context.Context, id uint, user models.User, post models.Post, at time.Time) (models.EngagementView, error) {
	posts, err := s.content.views(ctx, []models.Post{post})
	if err != nil {
		return models.EngagementView{}, err
	}
	return models.EngagementView{ID: id, User: user.ToCompact(), Post: &posts[0], CreatedAt: at}, nil
}
