package services

import (
	"context"
	"log/slog"

	"github.com/anonto42/aura/backend/internal/events"
	"github.com/anonto42/aura/backend/internal/metrics"
	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
)

// Notifier is the fan-out called by write paths after their change is
// committed. Each hook stores at most one notification. Failures are
// logged and counted and never reach the caller.
type Notifier struct {
	repo      repositories.NotificationRepository
	publisher events.Publisher
	logger    *slog.Logger
}

func NewNotifier(repo repositories.NotificationRepository, publisher events.Publisher, logger *slog.Logger) *Notifier {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Notifier{repo: repo, publisher: publisher, logger: logger}
}

func (n *Notifier) Liked(ctx context.Context, like *models.Like, post *models.Post) {
	n.notify(ctx, like.UserID, post.UserID, models.NotificationLike, &post.ID)
}

// Commented covers replies too; the post owner is notified either way.
func (n *Notifier) Commented(ctx context.Context, comment *models.Comment, post *models.Post) {
	n.notify(ctx, comment.UserID, post.UserID, models.NotificationComment, &post.ID)
}

func (n *Notifier) Saved(ctx context.Context, save *models.Save, post *models.Post) {
	n.notify(ctx, save.UserID, post.UserID, models.NotificationSave, &post.ID)
}

func (n *Notifier) Mentioned(ctx context.Context, post *models.Post, userID uint) {
	n.notify(ctx, post.UserID, userID, models.NotificationMention, &post.ID)
}

// FollowCreated notifies the target: a request when pending, a follow when
// the edge was accepted on creation.
func (n *Notifier) FollowCreated(ctx context.Context, follow *models.FollowRelation) {
	t := models.NotificationFollowRequest
	if follow.IsAccepted {
		t = models.NotificationFollow
	}
	n.notify(ctx, follow.FromUserID, follow.ToUserID, t, nil)
}

// FollowAccepted notifies the requester after an explicit accept.
func (n *Notifier) FollowAccepted(ctx context.Context, follow *models.FollowRelation) {
	n.notify(ctx, follow.ToUserID, follow.FromUserID, models.NotificationAcceptRequest, nil)
}

func (n *Notifier) notify(ctx context.Context, senderID, receiverID uint, t models.NotificationType, postID *uint) {
	if senderID == receiverID {
		return
	}

	notification := &models.Notification{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Type:       t,
		PostID:     postID,
	}
	if err := n.repo.CreateNotification(notification); err != nil {
		metrics.NotificationFailures.WithLabelValues(t.String(), "store").Inc()
		n.logger.Warn("failed to store notification",
			"type", t.String(), "sender_id", senderID, "receiver_id", receiverID, "error", err)
		return
	}
	metrics.NotificationsCreated.WithLabelValues(t.String()).Inc()

	err := n.publisher.PublishNotification(ctx, events.NotificationEvent{
		ID:         notification.ID,
		Type:       t.String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		PostID:     postID,
		CreatedAt:  notification.CreatedAt,
	})
	if err != nil {
		metrics.NotificationFailures.WithLabelValues(t.String(), "publish").Inc()
		n.logger.Warn("failed to publish notification", "id", notification.ID, "error", err)
	}
}
