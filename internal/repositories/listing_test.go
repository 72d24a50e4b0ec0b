package repositories

import (
	"testing"

	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func usernames(users []models.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return names
}

func TestPageClamping(t *testing.T) {
	assert.Equal(t, 0, Page{}.Offset())
	assert.Equal(t, DefaultPageSize, Page{}.Size())
	assert.Equal(t, MaxPageSize, Page{Limit: 500}.Size())
	assert.Equal(t, 20, Page{Page: 3, Limit: 10}.Offset())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\%`, prefixPattern(`a%b_c\`))
}

func TestListUsersStripsBlocksAndInactive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresUserRepository(db)

	viewer := testutil.CreateUser(t, db, "viewer")
	testutil.CreateUser(t, db, "alice")
	blocked := testutil.CreateUser(t, db, "bob")
	blocker := testutil.CreateUser(t, db, "carol")
	testutil.CreateUser(t, db, "dave", testutil.Inactive)
	testutil.CreateUser(t, db, "erin", testutil.Private)

	testutil.Block(t, db, viewer, blocked)
	testutil.Block(t, db, blocker, viewer)

	users, total, err := repo.ListUsers(viewer.ID, UserFilter{}, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"alice", "erin", "viewer"}, usernames(users))

	users, _, err = repo.ListUsers(viewer.ID, UserFilter{Search: "AL"}, Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, usernames(users))
}

func TestGetUserByEmailIsCaseInsensitive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresUserRepository(db)
	u := testutil.CreateUser(t, db, "alice")

	got, err := repo.GetUserByEmail("ALICE@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestFeedShowsAcceptedFollowsOnly(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresPostRepository(db)

	viewer := testutil.CreateUser(t, db, "viewer")
	followed := testutil.CreateUser(t, db, "followed")
	pending := testutil.CreateUser(t, db, "pending", testutil.Private)
	stranger := testutil.CreateUser(t, db, "stranger")

	testutil.Follow(t, db, viewer, followed, true)
	testutil.Follow(t, db, viewer, pending, false)

	p1 := testutil.CreatePost(t, db, followed, "one")
	testutil.CreatePost(t, db, pending, "two")
	testutil.CreatePost(t, db, stranger, "three")
	p4 := testutil.CreatePost(t, db, followed, "four")

	posts, total, err := repo.GetFeed(viewer.ID, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []uint{p4.ID, p1.ID}, postIDs(posts))
	require.Len(t, posts[0].Media, 1)
	assert.Equal(t, "followed", posts[0].User.Username)
}

func TestTagPostsApplyVisibility(t *testing.T) {
	db := testutil.NewTestDB(t)
	posts := NewPostgresPostRepository(db)
	tags := NewPostgresTagRepository(db)

	viewer := testutil.CreateUser(t, db, "viewer")
	public := testutil.CreateUser(t, db, "public")
	private := testutil.CreateUser(t, db, "private", testutil.Private)
	friend := testutil.CreateUser(t, db, "friend", testutil.Private)
	blocker := testutil.CreateUser(t, db, "blocker")
	gone := testutil.CreateUser(t, db, "gone", testutil.Inactive)

	testutil.Follow(t, db, viewer, friend, true)
	testutil.Block(t, db, blocker, viewer)

	tag, created, err := tags.GetOrCreateTag("sunset")
	require.NoError(t, err)
	require.True(t, created)

	var visible []uint
	for _, owner := range []*models.User{viewer, public, private, friend, blocker, gone} {
		p := testutil.CreatePost(t, db, owner, "#sunset")
		_, err := tags.AttachTag(p.ID, tag.ID)
		require.NoError(t, err)
		if owner == viewer || owner == public || owner == friend {
			visible = append([]uint{p.ID}, visible...)
		}
	}

	got, total, err := posts.GetPostsByTagID(viewer.ID, tag.ID, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, visible, postIDs(got))
}

func TestFollowersListFollowBack(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresFollowRepository(db)

	subject := testutil.CreateUser(t, db, "subject")
	mutual := testutil.CreateUser(t, db, "mutual")
	oneWay := testutil.CreateUser(t, db, "oneway")
	requester := testutil.CreateUser(t, db, "requester")
	viewer := testutil.CreateUser(t, db, "viewer")
	hidden := testutil.CreateUser(t, db, "hidden")

	testutil.Follow(t, db, mutual, subject, true)
	testutil.Follow(t, db, subject, mutual, true)
	testutil.Follow(t, db, oneWay, subject, true)
	testutil.Follow(t, db, requester, subject, false)
	testutil.Follow(t, db, hidden, subject, true)
	testutil.Block(t, db, viewer, hidden)

	entries, total, err := repo.GetFollowers(viewer.ID, subject.ID, "", Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	back := map[string]bool{}
	for _, e := range entries {
		back[e.User.Username] = e.FollowBack
	}
	assert.Equal(t, map[string]bool{"mutual": true, "oneway": false}, back)

	count, err := repo.GetFollowersCount(subject.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	requests, total, err := repo.GetReceivedRequests(subject.ID, "", Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "requester", requests[0].User.Username)
}

func TestAcceptFollowOnlyMatchesPending(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresFollowRepository(db)
	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b", testutil.Private)
	testutil.Follow(t, db, a, b, false)

	f, err := repo.AcceptFollow(a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, f.IsAccepted)

	_, err = repo.AcceptFollow(a.ID, b.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateBlockRemovesFollowsBothWays(t *testing.T) {
	db := testutil.NewTestDB(t)
	blocks := NewPostgresBlockRepository(db)
	follows := NewPostgresFollowRepository(db)

	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")
	testutil.Follow(t, db, a, b, true)
	testutil.Follow(t, db, b, a, false)

	require.NoError(t, blocks.CreateBlock(&models.BlockRelation{BlockerID: a.ID, BlockedID: b.ID}))

	for _, pair := range [][2]uint{{a.ID, b.ID}, {b.ID, a.ID}} {
		has, err := follows.HasAnyFollow(pair[0], pair[1])
		require.NoError(t, err)
		assert.False(t, has)
	}

	either, err := blocks.IsBlockedEitherWay(b.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, either)

	list, total, err := blocks.GetBlockedUsers(a.ID, "", Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "b", list[0].Blocked.Username)
}

func TestCommentRepliesStripBlockedAuthors(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostgresCommentRepository(db)

	owner := testutil.CreateUser(t, db, "owner")
	viewer := testutil.CreateUser(t, db, "viewer")
	friend := testutil.CreateUser(t, db, "friend")
	enemy := testutil.CreateUser(t, db, "enemy")
	testutil.Block(t, db, enemy, viewer)

	post := testutil.CreatePost(t, db, owner, "hello")
	top := &models.Comment{Text: "top", UserID: owner.ID, PostID: post.ID}
	require.NoError(t, repo.CreateComment(top))
	for _, author := range []*models.User{friend, enemy} {
		require.NoError(t, repo.CreateComment(&models.Comment{Text: "re", UserID: author.ID, PostID: post.ID, ReplyToID: &top.ID}))
	}
	require.NoError(t, repo.CreateComment(&models.Comment{Text: "enemy top", UserID: enemy.ID, PostID: post.ID}))

	comments, total, err := repo.GetTopLevelComments(viewer.ID, post.ID, Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "friend", comments[0].Replies[0].User.Username)

	count, err := repo.GetCommentsCount(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	require.NoError(t, repo.DeleteComment(top.ID))
	count, err = repo.GetCommentsCount(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeletePostRemovesDependents(t *testing.T) {
	db := testutil.NewTestDB(t)
	posts := NewPostgresPostRepository(db)
	likes := NewPostgresLikeRepository(db)

	owner := testutil.CreateUser(t, db, "owner")
	fan := testutil.CreateUser(t, db, "fan")
	post := testutil.CreatePost(t, db, owner, "bye")
	require.NoError(t, likes.CreateLike(&models.Like{UserID: fan.ID, PostID: post.ID}))

	media, err := posts.DeletePost(post.ID)
	require.NoError(t, err)
	assert.Len(t, media, 1)

	n, err := likes.GetLikesCountByPostID(post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = posts.DeletePost(post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDuplicateLikeIsTranslated(t *testing.T) {
	db := testutil.NewTestDB(t)
	likes := NewPostgresLikeRepository(db)
	owner := testutil.CreateUser(t, db, "owner")
	post := testutil.CreatePost(t, db, owner, "x")

	require.NoError(t, likes.CreateLike(&models.Like{UserID: owner.ID, PostID: post.ID}))
	err := likes.CreateLike(&models.Like{UserID: owner.ID, PostID: post.ID})
	assert.ErrorIs(t, err, ErrDuplicate)
}
