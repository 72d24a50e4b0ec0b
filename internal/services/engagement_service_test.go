package services

import (
	"context"
	"strings"
	"testing"

	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
	"github.com/anonto42/aura/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentWriteGate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner", testutil.Private)
	stranger := testutil.CreateUser(t, h.db, "stranger")
	blocked := testutil.CreateUser(t, h.db, "blocked")
	post := testutil.CreatePost(t, h.db, owner, "hi")
	testutil.Block(t, h.db, owner, blocked)

	_, err := h.engagement.CreateComment(ctx, stranger.ID, models.CreateCommentRequest{PostID: post.ID, Text: "hey"})
	requireMessage(t, err, nil, "You can't comment on this post because the user is private and you don't follow them.")

	_, err = h.engagement.CreateComment(ctx, blocked.ID, models.CreateCommentRequest{PostID: post.ID, Text: "hey"})
	requireMessage(t, err, nil, "You can't comment on this post.")

	_, err = h.engagement.CreateComment(ctx, stranger.ID, models.CreateCommentRequest{PostID: 999, Text: "hey"})
	requireMessage(t, err, ErrNotFound, "Post not found")
}

func TestCommentOnPublicPostNeedsFollowEdge(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner")
	stranger := testutil.CreateUser(t, h.db, "stranger")
	post := testutil.CreatePost(t, h.db, owner, "hi")

	_, err := h.engagement.CreateComment(ctx, stranger.ID, models.CreateCommentRequest{PostID: post.ID, Text: "hey"})
	requireMessage(t, err, ErrForbidden, "You are not allowed to perform this action")

	own, err := h.engagement.CreateComment(ctx, owner.ID, models.CreateCommentRequest{PostID: post.ID, Text: "mine"})
	require.NoError(t, err)
	assert.Equal(t, "owner", own.User.Username)
	assert.Empty(t, h.notificationsFor(t, owner))

	testutil.Follow(t, h.db, stranger, owner, true)
	_, err = h.engagement.CreateComment(ctx, stranger.ID, models.CreateCommentRequest{PostID: post.ID, Text: "hey"})
	require.NoError(t, err)

	rows := h.notificationsFor(t, owner)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationComment, rows[0].Type)
	require.NotNil(t, rows[0].PostID)
	assert.Equal(t, post.ID, *rows[0].PostID)
}

func TestReplyRules(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner")
	post := testutil.CreatePost(t, h.db, owner, "one")
	other := testutil.CreatePost(t, h.db, owner, "two")

	top, err := h.engagement.CreateComment(ctx, owner.ID, models.CreateCommentRequest{PostID: post.ID, Text: "top"})
	require.NoError(t, err)

	reply, err := h.engagement.Reply(ctx, owner.ID, post.ID, top.ID, "reply")
	require.NoError(t, err)
	require.NotNil(t, reply.ReplyToID)

	_, err = h.engagement.Reply(ctx, owner.ID, other.ID, top.ID, "wrong post")
	requireMessage(t, err, nil, "You can't reply to a comment that is not part of this post.")

	_, err = h.engagement.Reply(ctx, owner.ID, post.ID, reply.ID, "deeper")
	requireMessage(t, err, nil, "Recursive replies are not allowed.")

	_, err = h.engagement.CreateComment(ctx, owner.ID, models.CreateCommentRequest{PostID: post.ID, Text: strings.Repeat("a", 257)})
	require.Error(t, err)

	comments, total, err := h.engagement.PostComments(owner.ID, post.ID, repositories.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "reply", comments[0].Replies[0].Text)

	detail, err := h.engagement.GetComment(owner.ID, top.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Replies, 1)
}

func TestCommentEditAndDeleteOwnerOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner")
	other := testutil.CreateUser(t, h.db, "other")
	post := testutil.CreatePost(t, h.db, owner, "one")
	c, err := h.engagement.CreateComment(ctx, owner.ID, models.CreateCommentRequest{PostID: post.ID, Text: "first"})
	require.NoError(t, err)

	_, err = h.engagement.UpdateComment(other.ID, c.ID, "hijack")
	assert.ErrorIs(t, err, ErrForbidden)

	edited, err := h.engagement.UpdateComment(owner.ID, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Text)

	mine, total, err := h.engagement.MyComments(owner.ID, repositories.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "edited", mine[0].Text)

	assert.ErrorIs(t, h.engagement.DeleteComment(ctx, other.ID, c.ID), ErrForbidden)
	require.NoError(t, h.engagement.DeleteComment(ctx, owner.ID, c.ID))
	_, err = h.engagement.GetComment(owner.ID, c.ID)
	requireMessage(t, err, ErrNotFound, "Comment not found")
}

func TestLikeRules(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner")
	fan := testutil.CreateUser(t, h.db, "fan")
	blocked := testutil.CreateUser(t, h.db, "blocked")
	testutil.Block(t, h.db, blocked, owner)
	post := testutil.CreatePost(t, h.db, owner, "likeable")

	like, err := h.engagement.Like(ctx, fan.ID, post.ID)
	require.NoError(t, err)

	_, err = h.engagement.Like(ctx, fan.ID, post.ID)
	requireMessage(t, err, nil, "You can't like a post more than once.")

	_, err = h.engagement.Like(ctx, blocked.ID, post.ID)
	requireMessage(t, err, nil, "You can't like this post.")

	view, err := h.posts.GetPost(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.LikesCount)

	likers, _, err := h.engagement.PostLikes(fan.ID, post.ID, repositories.Page{})
	require.NoError(t, err)
	require.Len(t, likers, 1)
	assert.Equal(t, "fan", likers[0].User.Username)

	mine, _, err := h.engagement.MyLikes(ctx, fan.ID, repositories.Page{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Post)
	assert.Equal(t, post.ID, mine[0].Post.ID)

	rows := h.notificationsFor(t, owner)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationLike, rows[0].Type)

	assert.ErrorIs(t, h.engagement.Unlike(ctx, owner.ID, like.ID), ErrForbidden)
	require.NoError(t, h.engagement.Unlike(ctx, fan.ID, like.ID))
	err = h.engagement.UnlikePost(ctx, fan.ID, post.ID)
	requireMessage(t, err, ErrNotFound, "Like not found")
}

func TestLikePrivatePost(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner", testutil.Private)
	fan := testutil.CreateUser(t, h.db, "fan")
	post := testutil.CreatePost(t, h.db, owner, "hidden")

	_, err := h.engagement.Like(ctx, fan.ID, post.ID)
	requireMessage(t, err, nil, "You can't like this post because the user is private and you don't follow them.")

	testutil.Follow(t, h.db, fan, owner, false)
	_, err = h.engagement.Like(ctx, fan.ID, post.ID)
	require.Error(t, err)

	require.NoError(t, h.db.Model(&models.FollowRelation{}).Where("from_user_id = ?", fan.ID).Update("is_accepted", true).Error)
	_, err = h.engagement.Like(ctx, fan.ID, post.ID)
	require.NoError(t, err)
}

func TestSaveRules(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner")
	fan := testutil.CreateUser(t, h.db, "fan")
	post := testutil.CreatePost(t, h.db, owner, "keep")

	save, err := h.engagement.Save(ctx, fan.ID, post.ID)
	require.NoError(t, err)

	_, err = h.engagement.Save(ctx, fan.ID, post.ID)
	requireMessage(t, err, nil, "You can't save a post more than once.")

	saves, total, err := h.engagement.MySaves(ctx, fan.ID, repositories.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, save.ID, saves[0].ID)

	rows := h.notificationsFor(t, owner)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationSave, rows[0].Type)

	testutil.Block(t, h.db, owner, fan)
	saves, total, err = h.engagement.MySaves(ctx, fan.ID, repositories.Page{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, saves)

	require.NoError(t, h.engagement.UnsavePost(fan.ID, post.ID))
	err = h.engagement.Unsave(fan.ID, save.ID)
	requireMessage(t, err, ErrNotFound, "Save not found")
}

func TestReplyNotifiesPostOwnerOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner")
	author := testutil.CreateUser(t, h.db, "author")
	replier := testutil.CreateUser(t, h.db, "replier")
	testutil.Follow(t, h.db, author, owner, true)
	testutil.Follow(t, h.db, replier, owner, true)
	post := testutil.CreatePost(t, h.db, owner, "thread")

	top, err := h.engagement.CreateComment(ctx, author.ID, models.CreateCommentRequest{PostID: post.ID, Text: "first"})
	require.NoError(t, err)
	_, err = h.engagement.Reply(ctx, replier.ID, post.ID, top.ID, "answer")
	require.NoError(t, err)

	rows := h.notificationsFor(t, owner)
	require.Len(t, rows, 2)
	for _, n := range rows {
		assert.Equal(t, models.NotificationComment, n.Type)
	}
	assert.Equal(t, replier.ID, rows[1].SenderID)
	assert.Empty(t, h.notificationsFor(t, author))
}
