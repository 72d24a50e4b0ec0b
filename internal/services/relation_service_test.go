package services

import (
	"context"
	"testing"

	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
	"github.com/anonto42/aura/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowPublicIsAcceptedAndNotifies(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, h.db, "alice")
	bob := testutil.CreateUser(t, h.db, "bob")

	follow, err := h.relations.Follow(ctx, alice.ID, "bob")
	require.NoError(t, err)
	assert.True(t, follow.IsAccepted)

	rows := h.notificationsFor(t, bob)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationFollow, rows[0].Type)
	assert.Equal(t, alice.ID, rows[0].SenderID)

	require.Len(t, h.publisher.events, 1)
	assert.Equal(t, "follow", h.publisher.events[0].Type)
	assert.Equal(t, bob.ID, h.publisher.events[0].ReceiverID)

	_, err = h.relations.Follow(ctx, alice.ID, "bob")
	requireMessage(t, err, nil, "You are already following this user.")
}

func TestFollowPrivateRequiresAccept(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, h.db, "alice")
	carol := testutil.CreateUser(t, h.db, "carol", testutil.Private)

	follow, err := h.relations.Follow(ctx, alice.ID, "carol")
	require.NoError(t, err)
	assert.False(t, follow.IsAccepted)

	rows := h.notificationsFor(t, carol)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationFollowRequest, rows[0].Type)

	received, total, err := h.relations.ReceivedRequests(carol.ID, "", repositories.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "alice", received[0].User.Username)

	sent, _, err := h.relations.SentRequests(alice.ID, "", repositories.Page{})
	require.NoError(t, err)
	require.Len(t, sent, 1)

	accepted, err := h.relations.Accept(ctx, carol.ID, "alice")
	require.NoError(t, err)
	assert.True(t, accepted.IsAccepted)

	back := h.notificationsFor(t, alice)
	require.Len(t, back, 1)
	assert.Equal(t, models.NotificationAcceptRequest, back[0].Type)
	assert.Equal(t, carol.ID, back[0].SenderID)

	_, err = h.relations.Accept(ctx, carol.ID, "alice")
	requireMessage(t, err, ErrNotFound, "Follow request not found")

	followers, _, err := h.relations.Followers(alice.ID, "carol", "", repositories.Page{})
	require.NoError(t, err)
	require.Len(t, followers, 1)
}

func TestFollowRejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, h.db, "alice")
	bob := testutil.CreateUser(t, h.db, "bob")
	testutil.CreateUser(t, h.db, "gone", testutil.Inactive)
	testutil.Block(t, h.db, bob, alice)

	_, err := h.relations.Follow(ctx, alice.ID, "nobody")
	requireMessage(t, err, nil, msgUnknownUser)

	_, err = h.relations.Follow(ctx, alice.ID, "gone")
	requireMessage(t, err, nil, msgUnknownUser)

	_, err = h.relations.Follow(ctx, alice.ID, "alice")
	requireMessage(t, err, nil, "You cannot follow yourself.")

	_, err = h.relations.Follow(ctx, alice.ID, "bob")
	requireMessage(t, err, nil, "You cannot follow this user.")

	assert.Empty(t, h.notificationsFor(t, bob))
}

func TestDeclineAndUnfollow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, h.db, "alice")
	carol := testutil.CreateUser(t, h.db, "carol", testutil.Private)

	_, err := h.relations.Follow(ctx, alice.ID, "carol")
	require.NoError(t, err)
	require.NoError(t, h.relations.Decline(carol.ID, "alice"))

	err = h.relations.Decline(carol.ID, "alice")
	requireMessage(t, err, ErrNotFound, "Follow request not found")

	err = h.relations.Unfollow(alice.ID, "carol")
	requireMessage(t, err, ErrNotFound, "Follow relation not found")
}

func TestBlockDropsFollowsAndHidesUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, h.db, "alice")
	bob := testutil.CreateUser(t, h.db, "bob")

	_, err := h.relations.Follow(ctx, alice.ID, "bob")
	require.NoError(t, err)
	_, err = h.relations.Follow(ctx, bob.ID, "alice")
	require.NoError(t, err)

	_, err = h.relations.Block(alice.ID, "bob")
	require.NoError(t, err)

	_, err = h.relations.Block(alice.ID, "bob")
	requireMessage(t, err, nil, "You have already blocked this user.")
	_, err = h.relations.Block(alice.ID, "alice")
	requireMessage(t, err, nil, "You cannot block yourself.")

	profile, err := h.users.Me(alice.ID)
	require.NoError(t, err)
	assert.Zero(t, profile.FollowersCount)
	assert.Zero(t, profile.FollowingsCount)

	_, _, err = h.relations.Followers(bob.ID, "alice", "", repositories.Page{})
	assert.ErrorIs(t, err, ErrForbidden)

	blocked, _, err := h.relations.BlockedUsers(alice.ID, "", repositories.Page{})
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, "bob", blocked[0].Blocked.Username)

	require.NoError(t, h.relations.Unblock(alice.ID, "bob"))
	err = h.relations.Unblock(alice.ID, "bob")
	requireMessage(t, err, ErrNotFound, "Block relation not found")
}
