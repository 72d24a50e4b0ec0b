package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/aura/backend/internal/cache"
	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
	"github.com/anonto42/aura/backend/internal/tasks"
	"github.com/anonto42/aura/backend/pkg/storage"
)

var mediaExtensions = map[string]models.MediaType{
	"jpg":  models.MediaImage,
	"jpeg": models.MediaImage,
	"png":  models.MediaImage,
	"mp4":  models.MediaVideo,
	"wmv":  models.MediaVideo,
	"flv":  models.MediaVideo,
}

// Upload is one media file of a post create request.
type Upload struct {
	Filename    string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// NewPost is the input of CreatePost.
type NewPost struct {
	Caption    string
	LocationID *uint
	Files      []Upload
}

// PostService manages posts, tags and locations
type PostService struct {
	posts     repositories.PostRepository
	tags      repositories.TagRepository
	locations repositories.LocationRepository
	likes     repositories.LikeRepository
	comments  repositories.CommentRepository
	blobs     storage.BlobStore
	submitter tasks.Submitter
	counters  cache.CounterCache
	gate      gate
	maxUpload int64
	logger    *slog.Logger
}

type PostServiceConfig struct {
	Users      repositories.UserRepository
	Posts      repositories.PostRepository
	Tags       repositories.TagRepository
	Locations  repositories.LocationRepository
	Likes      repositories.LikeRepository
	Comments   repositories.CommentRepository
	Visibility repositories.VisibilityRepository
	Blobs      storage.BlobStore
	Submitter  tasks.Submitter
	Counters   cache.CounterCache
	MaxUpload  int64
	Logger     *slog.Logger
}

func NewPostService(cfg PostServiceConfig) *PostService {
	counters := cfg.Counters
	if counters == nil {
		counters = cache.NopCounterCache{}
	}
	maxUpload := cfg.MaxUpload
	if maxUpload <= 0 || maxUpload > models.MaxMediaSize {
		maxUpload = models.MaxMediaSize
	}
	return &PostService{
		posts:     cfg.Posts,
		tags:      cfg.Tags,
		locations: cfg.Locations,
		likes:     cfg.Likes,
		comments:  cfg.Comments,
		blobs:     cfg.Blobs,
		submitter: cfg.Submitter,
		counters:  counters,
		gate:      gate{users: cfg.Users, visibility: cfg.Visibility},
		maxUpload: maxUpload,
		logger:    cfg.Logger,
	}
}

func validateCaption(caption string) error {
	if utf8.RuneCountInString(caption) > models.MaxCaptionLength {
		return invalid("Caption cannot exceed 400 characters.")
	}
	return nil
}

func (s *PostService) mediaTypeFor(f Upload) (models.MediaType, error) {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(f.Filename)), ".")
	t, ok := mediaExtensions[ext]
	if !ok {
		return 0, invalid(fmt.Sprintf("File extension %q is not allowed. Allowed extensions are: jpg, jpeg, png, mp4, wmv, flv.", ext))
	}
	if f.Size > s.maxUpload {
		return 0, invalid(fmt.Sprintf("File %s exceeds the maximum size of %d MB.", f.Filename, s.maxUpload/(1024*1024)))
	}
	return t, nil
}

func (s *PostService) checkLocation(id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := s.locations.GetLocationByID(*id); err != nil {
		if repositories.IsNotFound(err) {
			return invalid("Location does not exist.")
		}
		return err
	}
	return nil
}

// CreatePost validates every file before storing any byte, stores the
// files, inserts post and media in one transaction and then hands the post
// to the post-processor.
func (s *PostService) CreatePost(ctx context.Context, ownerID uint, in NewPost) (*models.Post, error) {
	if err := validateCaption(in.Caption); err != nil {
		return nil, err
	}
	if len(in.Files) == 0 {
		return nil, invalid("You must attach at least one media file.")
	}
	types := make([]models.MediaType, len(in.Files))
	for i, f := range in.Files {
		t, err := s.mediaTypeFor(f)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	if err := s.checkLocation(in.LocationID); err != nil {
		return nil, err
	}

	post := &models.Post{Caption: in.Caption, UserID: ownerID, LocationID: in.LocationID}
	for i, f := range in.Files {
		key, url, err := s.store(ctx, f)
		if err != nil {
			s.dropBlobs(ctx, post.Media)
			return nil, err
		}
		post.Media = append(post.Media, models.Media{MediaType: types[i], File: key, URL: url, Size: f.Size})
	}

	if err := s.posts.CreatePost(post); err != nil {
		s.dropBlobs(ctx, post.Media)
		return nil, err
	}

	s.submit(ctx, post.ID)
	return s.posts.GetPostByID(post.ID)
}

func (s *PostService) store(ctx context.Context, f Upload) (string, string, error) {
	r, err := f.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload %s: %w", f.Filename, err)
	}
	defer r.Close()
	return s.blobs.Put(ctx, f.Filename, f.ContentType, r)
}

func (s *PostService) dropBlobs(ctx context.Context, media []models.Media) {
	for _, m := range media {
		if err := s.blobs.Delete(ctx, m.File); err != nil {
			s.logger.Warn("failed to delete media object", "key", m.File, "error", err)
		}
	}
}

// submit is fire and forget; the post exists whether or not the job runs.
func (s *PostService) submit(ctx context.Context, postID uint) {
	if s.submitter == nil {
		return
	}
	if err := s.submitter.Submit(ctx, postID); err != nil {
		s.logger.Error("failed to submit post for processing", "post_id", postID, "error", err)
	}
}

// GetPost returns a post the viewer may see, with counters.
func (s *PostService) GetPost(ctx context.Context, viewerID, id uint) (*models.PostView, error) {
	post, err := s.posts.GetPostByID(id)
	if err != nil {
		return nil, lookup(err, "Post not found")
	}
	if err := s.gate.canViewPost(viewerID, post); err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *PostService) ownedPost(ownerID, id uint) (*models.Post, error) {
	post, err := s.posts.GetPostByID(id)
	if err != nil {
		return nil, lookup(err, "Post not found")
	}
	if post.UserID != ownerID {
		return nil, forbidden("You do not have permission to perform this action.")
	}
	return post, nil
}

// UpdatePost edits caption and location. A caption change is re-processed.
func (s *PostService) UpdatePost(ctx context.Context, ownerID, id uint, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.ownedPost(ownerID, id)
	if err != nil {
		return nil, err
	}
	captionChanged := false
	if req.Caption != nil {
		if err := validateCaption(*req.Caption); err != nil {
			return nil, err
		}
		captionChanged = *req.Caption != post.Caption
		post.Caption = *req.Caption
	}
	if req.LocationID != nil {
		if err := s.checkLocation(req.LocationID); err != nil {
			return nil, err
		}
		post.LocationID = req.LocationID
	}
	if err := s.posts.UpdatePost(post); err != nil {
		return nil, err
	}
	if captionChanged {
		s.submit(ctx, post.ID)
	}
	return s.posts.GetPostByID(post.ID)
}

// DeletePost removes the post with its dependents, then its stored files.
func (s *PostService) DeletePost(ctx context.Context, ownerID, id uint) error {
	if _, err := s.ownedPost(ownerID, id); err != nil {
		return err
	}
	media, err := s.posts.DeletePost(id)
	if err != nil {
		return lookup(err, "Post not found")
	}
	s.dropBlobs(ctx, media)
	s.invalidateCounters(ctx, id)
	return nil
}

// UserPosts lists posts of username after the account-level check.
func (s *PostService) UserPosts(ctx context.Context, viewerID uint, username string, page repositories.Page) ([]models.PostView, int64, error) {
	owner, err := s.gate.userByUsername(username)
	if err != nil {
		return nil, 0, err
	}
	if err := s.gate.canViewUser(viewerID, owner); err != nil {
		return nil, 0, err
	}
	posts, total, err := s.posts.GetPostsByUserID(owner.ID, page)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.views(ctx, posts)
	return views, total, err
}

// TagPosts lists posts of a tag filtered per post owner.
func (s *PostService) TagPosts(ctx context.Context, viewerID, tagID uint, page repositories.Page) ([]models.PostView, int64, error) {
	if _, err := s.GetTag(tagID); err != nil {
		return nil, 0, err
	}
	posts, total, err := s.posts.GetPostsByTagID(viewerID, tagID, page)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.views(ctx, posts)
	return views, total, err
}

// Feed lists posts of accounts the viewer follows with an accepted edge.
func (s *PostService) Feed(ctx context.Context, viewerID uint, page repositories.Page) ([]models.PostView, int64, error) {
	posts, total, err := s.posts.GetFeed(viewerID, page)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.views(ctx, posts)
	return views, total, err
}

func (s *PostService) views(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		v := posts[i].ToView()
		likes, err := s.count(ctx, cache.LikesCounter, v.ID, s.likes.GetLikesCountByPostID)
		if err != nil {
			return nil, err
		}
		comments, err := s.count(ctx, cache.CommentsCounter, v.ID, s.comments.GetCommentsCount)
		if err != nil {
			return nil, err
		}
		v.LikesCount, v.CommentsCount = likes, comments
		views = append(views, v)
	}
	return views, nil
}

// count reads through the counter cache. Cache errors fall back to the
// database.
func (s *PostService) count(ctx context.Context, c cache.Counter, postID uint, load func(uint) (int64, error)) (int64, error) {
	if n, ok, err := s.counters.Get(ctx, c, postID); err == nil && ok {
		return n, nil
	} else if err != nil {
		s.logger.Warn("counter cache read failed", "counter", string(c), "post_id", postID, "error", err)
	}
	n, err := load(postID)
	if err != nil {
		return 0, err
	}
	if err := s.counters.Set(ctx, c, postID, n); err != nil {
		s.logger.Warn("counter cache write failed", "counter", string(c), "post_id", postID, "error", err)
	}
	return n, nil
}

func (s *PostService) invalidateCounters(ctx context.Context, postID uint) {
	s.invalidate(ctx, cache.LikesCounter, postID)
	s.invalidate(ctx, cache.CommentsCounter, postID)
}

func (s *PostService) invalidate(ctx context.Context, c cache.Counter, postID uint) {
	if err := s.counters.Invalidate(ctx, c, postID); err != nil {
		s.logger.Warn("counter cache invalidate failed", "counter", string(c), "post_id", postID, "error", err)
	}
}

func (s *PostService) ListTags(search string, page repositories.Page) ([]models.Tag, int64, error) {
	return s.tags.ListTags(search, page)
}

func (s *PostService) GetTag(id uint) (*models.Tag, error) {
	tag, err := s.tags.GetTagByID(id)
	if err != nil {
		return nil, lookup(err, "Tag not found")
	}
	return tag, nil
}

func (s *PostService) ListLocations(search string, page repositories.Page) ([]models.Location, int64, error) {
	return s.locations.ListLocations(search, page)
}

// CreateLocation is restricted to staff accounts.
func (s *PostService) CreateLocation(actor *models.User, req models.CreateLocationRequest) (*models.Location, error) {
	if !actor.IsStaff {
		return nil, forbidden("You do not have permission to perform this action.")
	}
	loc := &models.Location{Name: req.Name, Lat: *req.Lat, Long: *req.Long}
	if err := s.locations.CreateLocation(loc); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, invalid("A location with these coordinates already exists.")
		}
		return nil, err
	}
	return loc, nil
}
