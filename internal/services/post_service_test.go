package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
	"github.com/anonto42/aura/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostStoresMediaAndSubmits(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner")

	post, err := h.posts.CreatePost(ctx, owner.ID, NewPost{
		Caption: "beach #sunset",
		Files:   []Upload{upload("a.JPG", "img"), upload("b.mp4", "vid")},
	})
	require.NoError(t, err)
	require.Len(t, post.Media, 2)
	assert.Equal(t, models.MediaImage, post.Media[0].MediaType)
	assert.Equal(t, models.MediaVideo, post.Media[1].MediaType)
	assert.Equal(t, 2, h.blobs.Len())
	assert.Equal(t, []uint{post.ID}, h.submitter.ids)
}

func TestCreatePostValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner")

	_, err := h.posts.CreatePost(ctx, owner.ID, NewPost{Caption: strings.Repeat("é", 401), Files: []Upload{upload("a.png", "x")}})
	requireMessage(t, err, nil, "Caption cannot exceed 400 characters.")

	_, err = h.posts.CreatePost(ctx, owner.ID, NewPost{Caption: "ok"})
	requireMessage(t, err, nil, "You must attach at least one media file.")

	_, err = h.posts.CreatePost(ctx, owner.ID, NewPost{Files: []Upload{upload("a.png", "x"), upload("evil.exe", "x")}})
	require.Error(t, err)
	assert.Contains(t, Message(err), "not allowed")

	big := upload("big.png", "x")
	big.Size = models.MaxMediaSize + 1
	_, err = h.posts.CreatePost(ctx, owner.ID, NewPost{Files: []Upload{big}})
	require.Error(t, err)
	assert.Contains(t, Message(err), "exceeds the maximum size")

	missing := uint(999)
	_, err = h.posts.CreatePost(ctx, owner.ID, NewPost{LocationID: &missing, Files: []Upload{upload("a.png", "x")}})
	requireMessage(t, err, nil, "Location does not exist.")

	assert.Zero(t, h.blobs.Len())
	assert.Empty(t, h.submitter.ids)
}

func TestCreatePostRollsBackBlobsOnStoreFailure(t *testing.T) {
	h := newHarness(t)
	owner := testutil.CreateUser(t, h.db, "owner")

	_, err := h.posts.CreatePost(context.Background(), owner.ID, NewPost{
		Files: []Upload{upload("a.png", "x"), failingUpload("b.png")},
	})
	require.Error(t, err)
	assert.Zero(t, h.blobs.Len())
}

func TestSubmitErrorDoesNotFailCreate(t *testing.T) {
	h := newHarness(t)
	h.submitter.err = errors.New("redis down")
	owner := testutil.CreateUser(t, h.db, "owner")

	post, err := h.posts.CreatePost(context.Background(), owner.ID, NewPost{Files: []Upload{upload("a.png", "x")}})
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
}

func TestGetPostVisibility(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	viewer := testutil.CreateUser(t, h.db, "viewer")
	private := testutil.CreateUser(t, h.db, "private", testutil.Private)
	post := testutil.CreatePost(t, h.db, private, "secret")

	_, err := h.posts.GetPost(ctx, viewer.ID, post.ID)
	requireMessage(t, err, ErrNotFound, "Post not found")

	testutil.Follow(t, h.db, viewer, private, true)
	view, err := h.posts.GetPost(ctx, viewer.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", view.Caption)
	assert.Zero(t, view.LikesCount)
}

func TestUpdateAndDeletePostOwnerOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, h.db, "owner")
	other := testutil.CreateUser(t, h.db, "other")

	post, err := h.posts.CreatePost(ctx, owner.ID, NewPost{Caption: "v1", Files: []Upload{upload("a.png", "x")}})
	require.NoError(t, err)

	caption := "v2 #edit"
	_, err = h.posts.UpdatePost(ctx, other.ID, post.ID, models.UpdatePostRequest{Caption: &caption})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := h.posts.UpdatePost(ctx, owner.ID, post.ID, models.UpdatePostRequest{Caption: &caption})
	require.NoError(t, err)
	assert.Equal(t, "v2 #edit", updated.Caption)
	assert.Equal(t, []uint{post.ID, post.ID}, h.submitter.ids)

	assert.ErrorIs(t, h.posts.DeletePost(ctx, other.ID, post.ID), ErrForbidden)
	require.NoError(t, h.posts.DeletePost(ctx, owner.ID, post.ID))
	assert.Zero(t, h.blobs.Len())

	err = h.posts.DeletePost(ctx, owner.ID, post.ID)
	requireMessage(t, err, ErrNotFound, "Post not found")
}

func TestUserPostsGatedByAccount(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	viewer := testutil.CreateUser(t, h.db, "viewer")
	private := testutil.CreateUser(t, h.db, "private", testutil.Private)
	testutil.CreatePost(t, h.db, private, "one")

	_, _, err := h.posts.UserPosts(ctx, viewer.ID, "private", repositories.Page{})
	requireMessage(t, err, ErrForbidden, "This account is private.")

	posts, total, err := h.posts.UserPosts(ctx, private.ID, "private", repositories.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, posts, 1)
}

func TestCreateLocationStaffOnly(t *testing.T) {
	h := newHarness(t)
	user := testutil.CreateUser(t, h.db, "user")
	staff := testutil.CreateUser(t, h.db, "staff", testutil.Staff)
	lat, long := 23.8, 90.4
	req := models.CreateLocationRequest{Name: "Dhaka", Lat: &lat, Long: &long}

	_, err := h.posts.CreateLocation(user, req)
	assert.ErrorIs(t, err, ErrForbidden)

	loc, err := h.posts.CreateLocation(staff, req)
	require.NoError(t, err)
	assert.NotZero(t, loc.ID)

	_, err = h.posts.CreateLocation(staff, req)
	requireMessage(t, err, nil, "A location with these coordinates already exists.")

	locs, total, err := h.posts.ListLocations("dh", repositories.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Dhaka", locs[0].Name)
}
