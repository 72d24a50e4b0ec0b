package services

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
	"github.com/anonto42/aura/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	token *auth.Token
	err   error
}

func (v stubVerifier) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return v.token, v.err
}

func TestRegisterAndAuthenticate(t *testing.T) {
	h := newHarness(t)

	user, err := h.users.Register(models.CreateLocalUserRequest{Username: "alice", Email: "Alice@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.Password)

	_, err = h.users.Register(models.CreateLocalUserRequest{Username: "alice", Email: "other@example.com", Password: "secret123"})
	requireMessage(t, err, nil, "A user with that username already exists.")

	_, err = h.users.Register(models.CreateLocalUserRequest{Username: "alice2", Email: "alice@example.com", Password: "secret123"})
	requireMessage(t, err, nil, "A user with that email already exists.")

	got, err := h.users.Authenticate("ALICE@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = h.users.Authenticate("alice@example.com", "wrong")
	requireMessage(t, err, ErrUnauthorized, "Invalid email or password")

	require.NoError(t, h.users.Deactivate(user.ID))
	_, err = h.users.Authenticate("alice@example.com", "secret123")
	requireMessage(t, err, ErrUnauthorized, "This account is inactive.")
}

func TestFirebaseLoginProvisionsAndLinks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	existing := testutil.CreateUser(t, h.db, "linked")

	token := &auth.Token{UID: "fb-new", Claims: map[string]interface{}{"email": "new.person@example.com", "name": "New Person"}}
	user, err := h.users.FirebaseLogin(ctx, stubVerifier{token: token}, "id-token")
	require.NoError(t, err)
	assert.Equal(t, "newperson", user.Username)
	assert.Equal(t, "New", user.FirstName)
	require.NotNil(t, user.FirebaseUID)

	again, err := h.users.FirebaseLogin(ctx, stubVerifier{token: token}, "id-token")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	link := &auth.Token{UID: "fb-linked", Claims: map[string]interface{}{"email": existing.Email}}
	linked, err := h.users.FirebaseLogin(ctx, stubVerifier{token: link}, "id-token")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, linked.ID)
	assert.Equal(t, "fb-linked", *linked.FirebaseUID)

	_, err = h.users.FirebaseLogin(ctx, stubVerifier{err: errors.New("expired")}, "id-token")
	requireMessage(t, err, ErrUnauthorized, "Invalid Firebase ID token")

	_, err = h.users.FirebaseLogin(ctx, nil, "id-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFirebaseUsernameAvoidsCollisions(t *testing.T) {
	h := newHarness(t)
	testutil.CreateUser(t, h.db, "sam")

	token := &auth.Token{UID: "fb-sam", Claims: map[string]interface{}{"email": "sam@elsewhere.org"}}
	user, err := h.users.UserForFirebaseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sam1", user.Username)
}

func TestProfileGating(t *testing.T) {
	h := newHarness(t)
	viewer := testutil.CreateUser(t, h.db, "viewer")
	public := testutil.CreateUser(t, h.db, "public")
	private := testutil.CreateUser(t, h.db, "private", testutil.Private)
	testutil.CreateUser(t, h.db, "gone", testutil.Inactive)
	blocker := testutil.CreateUser(t, h.db, "blocker")
	testutil.Block(t, h.db, blocker, viewer)
	testutil.Follow(t, h.db, viewer, public, true)

	profile, err := h.users.Profile(viewer.ID, "public")
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.FollowersCount)

	_, err = h.users.Profile(viewer.ID, "private")
	requireMessage(t, err, ErrForbidden, "This account is private.")

	_, err = h.users.Profile(viewer.ID, "gone")
	requireMessage(t, err, ErrNotFound, "User not found")

	_, err = h.users.Profile(viewer.ID, "blocker")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = h.users.Profile(viewer.ID, "nobody")
	requireMessage(t, err, ErrNotFound, msgUnknownUser)

	own, err := h.users.Profile(private.ID, "private")
	require.NoError(t, err)
	assert.Equal(t, private.ID, own.ID)
}

func TestUpdateProfile(t *testing.T) {
	h := newHarness(t)
	u := testutil.CreateUser(t, h.db, "alice")

	bio, private := "hi there", true
	updated, err := h.users.UpdateProfile(u.ID, models.UpdateUserRequest{Bio: &bio, IsPrivate: &private})
	require.NoError(t, err)
	assert.Equal(t, "hi there", updated.Bio)
	assert.True(t, updated.IsPrivate)

	users, total, err := h.users.List(0, repositories.UserFilter{IsPrivate: &private}, repositories.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "alice", users[0].Username)
}
