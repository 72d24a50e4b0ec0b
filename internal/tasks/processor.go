package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anonto42/aura/backend/internal/metrics"
	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
	"github.com/hibiken/asynq"
)

// MentionNotifier is told about each newly created mention row.
type MentionNotifier interface {
	Mentioned(ctx context.Context, post *models.Post, userID uint)
}

// PostProcessor materializes Tag, PostTag and TaggedUser rows from a
// post caption. Every write is get-or-create, so re-delivery is harmless.
type PostProcessor struct {
	posts    repositories.PostRepository
	users    repositories.UserRepository
	tags     repositories.TagRepository
	notifier MentionNotifier
	logger   *slog.Logger
}

func NewPostProcessor(
	posts repositories.PostRepository,
	users repositories.UserRepository,
	tags repositories.TagRepository,
	notifier MentionNotifier,
	logger *slog.Logger,
) *PostProcessor {
	return &PostProcessor{posts: posts, users: users, tags: tags, notifier: notifier, logger: logger}
}

// Process scans the post caption. A post deleted before processing is not
// an error.
func (p *PostProcessor) Process(ctx context.Context, postID uint) error {
	post, err := p.posts.GetPostByID(postID)
	if err != nil {
		if repositories.IsNotFound(err) {
			p.logger.Debug("post gone before processing", "post_id", postID)
			metrics.PostsProcessed.WithLabelValues("missing").Inc()
			return nil
		}
		metrics.PostsProcessed.WithLabelValues("error").Inc()
		return fmt.Errorf("load post %d: %w", postID, err)
	}

	if err := p.processHashtags(post); err != nil {
		metrics.PostsProcessed.WithLabelValues("error").Inc()
		return err
	}
	if err := p.processMentions(ctx, post); err != nil {
		metrics.PostsProcessed.WithLabelValues("error").Inc()
		return err
	}

	metrics.PostsProcessed.WithLabelValues("ok").Inc()
	return nil
}

func (p *PostProcessor) processHashtags(post *models.Post) error {
	for _, name := range ExtractHashtags(post.Caption) {
		tag, _, err := p.tags.GetOrCreateTag(name)
		if err != nil {
			return fmt.Errorf("get or create tag %q: %w", name, err)
		}
		created, err := p.tags.AttachTag(post.ID, tag.ID)
		if err != nil {
			return fmt.Errorf("attach tag %q to post %d: %w", name, post.ID, err)
		}
		metrics.TagsExtracted.WithLabelValues("hashtag", createdLabel(created)).Inc()
	}
	return nil
}

func (p *PostProcessor) processMentions(ctx context.Context, post *models.Post) error {
	names := ExtractMentions(post.Caption)
	if len(names) == 0 {
		return nil
	}
	users, err := p.users.GetActiveUsersByUsernames(names)
	if err != nil {
		return fmt.Errorf("resolve mentions: %w", err)
	}
	for _, u := range users {
		created, err := p.tags.AddTaggedUser(post.ID, u.ID)
		if err != nil {
			return fmt.Errorf("tag user %d on post %d: %w", u.ID, post.ID, err)
		}
		metrics.TagsExtracted.WithLabelValues("mention", createdLabel(created)).Inc()
		if created && p.notifier != nil {
			p.notifier.Mentioned(ctx, post, u.ID)
		}
	}
	return nil
}

func createdLabel(created bool) string {
	if created {
		return "created"
	}
	return "existing"
}

// HandleProcessPostTask is the asynq handler for TypeProcessPost.
func (p *PostProcessor) HandleProcessPostTask(ctx context.Context, t *asynq.Task) error {
	payload, err := parseProcessPostPayload(t.Payload())
	if err != nil {
		p.logger.Error("dropping malformed task", "type", t.Type(), "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	p.logger.Info("processing post", "post_id", payload.PostID)
	return p.Process(ctx, payload.PostID)
}

// NewServeMux registers the post-processor on a fresh asynq mux.
func (p *PostProcessor) NewServeMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeProcessPost, p.HandleProcessPostTask)
	return mux
}
