package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/anonto42/aura/backend/internal/events"
	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
	"github.com/anonto42/aura/backend/internal/testutil"
	"github.com/anonto42/aura/backend/pkg/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.NotificationEvent
	err    error
}

func (p *recordingPublisher) PublishNotification(_ context.Context, e events.NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type recordingSubmitter struct {
	ids []uint
	err error
}

func (s *recordingSubmitter) Submit(_ context.Context, postID uint) error {
	s.ids = append(s.ids, postID)
	return s.err
}

type harness struct {
	db            *gorm.DB
	users         *UserService
	relations     *RelationService
	posts         *PostService
	engagement    *EngagementService
	notifications *NotificationService
	blobs         *storage.MemoryStore
	submitter     *recordingSubmitter
	publisher     *recordingPublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userRepo := repositories.NewPostgresUserRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	blockRepo := repositories.NewPostgresBlockRepository(db)
	visRepo := repositories.NewPostgresVisibilityRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)

	h := &harness{
		db:        db,
		blobs:     storage.NewMemoryStore(),
		submitter: &recordingSubmitter{},
		publisher: &recordingPublisher{},
	}
	notifier := NewNotifier(notificationRepo, h.publisher, logger)

	h.users = NewUserService(userRepo, followRepo, visRepo)
	h.relations = NewRelationService(userRepo, followRepo, blockRepo, visRepo, notifier)
	h.posts = NewPostService(PostServiceConfig{
		Users:      userRepo,
		Posts:      repositories.NewPostgresPostRepository(db),
		Tags:       repositories.NewPostgresTagRepository(db),
		Locations:  repositories.NewPostgresLocationRepository(db),
		Likes:      likeRepo,
		Comments:   commentRepo,
		Visibility: visRepo,
		Blobs:      h.blobs,
		Submitter:  h.submitter,
		Logger:     logger,
	})
	h.engagement = NewEngagementService(h.posts, followRepo, commentRepo, likeRepo,
		repositories.NewPostgresSaveRepository(db), notifier)
	h.notifications = NewNotificationService(notificationRepo)
	return h
}

func (h *harness) notificationsFor(t *testing.T, receiver *models.User) []models.Notification {
	t.Helper()
	var rows []models.Notification
	require.NoError(t, h.db.Where("receiver_id = ?", receiver.ID).Order("id ASC").Find(&rows).Error)
	return rows
}

func upload(name, body string) Upload {
	return Upload{
		Filename:    name,
		Size:        int64(len(body)),
		ContentType: "application/octet-stream",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func failingUpload(name string) Upload {
	return Upload{
		Filename: name,
		Size:     1,
		Open: func() (io.ReadCloser, error) {
			return nil, errors.New("disk gone")
		},
	}
}

// requireMessage asserts err is of kind and carries msg for the client.
func requireMessage(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	require.Error(t, err)
	if kind != nil {
		require.ErrorIs(t, err, kind)
	} else {
		var v *ValidationError
		require.ErrorAs(t, err, &v)
	}
	require.Equal(t, msg, Message(err))
}
