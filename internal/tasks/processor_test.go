package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
	"github.com/anonto42/aura/backend/internal/testutil"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mentions []uint
}

func (n *recordingNotifier) Mentioned(_ context.Context, _ *models.Post, userID uint) {
	n.mentions = append(n.mentions, userID)
}

func newTestProcessor(t *testing.T) (*PostProcessor, *gorm.DB, *recordingNotifier) {
	t.Helper()
	db := testutil.NewTestDB(t)
	n := &recordingNotifier{}
	p := NewPostProcessor(
		repositories.NewPostgresPostRepository(db),
		repositories.NewPostgresUserRepository(db),
		repositories.NewPostgresTagRepository(db),
		n,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return p, db, n
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestProcessIsIdempotent(t *testing.T) {
	p, db, n := newTestProcessor(t)
	ctx := context.Background()

	bob := testutil.CreateUser(t, db, "bob")
	alice := testutil.CreateUser(t, db, "alice")
	post := testutil.CreatePost(t, db, bob, "Hello #sunset @alice world #sunset")

	require.NoError(t, p.Process(ctx, post.ID))
	require.NoError(t, p.Process(ctx, post.ID))

	assert.Equal(t, int64(1), countRows(t, db, &models.Tag{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.PostTag{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.TaggedUser{}))
	assert.Equal(t, []uint{alice.ID}, n.mentions, "mention notifies only on first creation")

	var tag models.Tag
	require.NoError(t, db.First(&tag).Error)
	assert.Equal(t, "sunset", tag.Name)
}

func TestProcessSkipsUnknownAndInactiveMentions(t *testing.T) {
	p, db, n := newTestProcessor(t)

	bob := testutil.CreateUser(t, db, "bob")
	testutil.CreateUser(t, db, "ghost", testutil.Inactive)
	post := testutil.CreatePost(t, db, bob, "hi @alice @ghost")

	require.NoError(t, p.Process(context.Background(), post.ID))
	assert.Equal(t, int64(0), countRows(t, db, &models.TaggedUser{}))
	assert.Empty(t, n.mentions)
}

func TestProcessSharesTagsAcrossPosts(t *testing.T) {
	p, db, _ := newTestProcessor(t)
	ctx := context.Background()

	bob := testutil.CreateUser(t, db, "bob")
	first := testutil.CreatePost(t, db, bob, "#travel #food")
	second := testutil.CreatePost(t, db, bob, "#travel")

	require.NoError(t, p.Process(ctx, first.ID))
	require.NoError(t, p.Process(ctx, second.ID))

	assert.Equal(t, int64(2), countRows(t, db, &models.Tag{}))
	assert.Equal(t, int64(3), countRows(t, db, &models.PostTag{}))
}

func TestProcessMissingPostIsNoop(t *testing.T) {
	p, _, _ := newTestProcessor(t)
	assert.NoError(t, p.Process(context.Background(), 12345))
}

func TestHandleProcessPostTask(t *testing.T) {
	p, db, _ := newTestProcessor(t)
	bob := testutil.CreateUser(t, db, "bob")
	post := testutil.CreatePost(t, db, bob, "#one")

	task, err := NewProcessPostTask(post.ID)
	require.NoError(t, err)
	assert.Equal(t, TypeProcessPost, task.Type())
	assert.JSONEq(t, `{"post_id":`+itoa(post.ID)+`}`, string(task.Payload()))
	require.NoError(t, p.HandleProcessPostTask(context.Background(), task))
	assert.Equal(t, int64(1), countRows(t, db, &models.PostTag{}))

	err = p.HandleProcessPostTask(context.Background(), asynq.NewTask(TypeProcessPost, []byte("not json")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	err = p.HandleProcessPostTask(context.Background(), asynq.NewTask(TypeProcessPost, []byte(`{}`)))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestInlineSubmitter(t *testing.T) {
	p, db, _ := newTestProcessor(t)
	bob := testutil.CreateUser(t, db, "bob")
	post := testutil.CreatePost(t, db, bob, "#inline")

	var s Submitter = InlineSubmitter{Processor: p}
	require.NoError(t, s.Submit(context.Background(), post.ID))
	assert.Equal(t, int64(1), countRows(t, db, &models.Tag{}))
}

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}
