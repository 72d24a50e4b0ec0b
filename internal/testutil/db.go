// Package testutil builds in-memory databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/anonto42/aura/backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewTestDB opens a private in-memory SQLite database with every model migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:aura_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// UserOption customizes a fixture user.
type UserOption func(*models.User)

func Private(u *models.User)  { u.IsPrivate = true }
func Inactive(u *models.User) { u.IsActive = false }
func Verified(u *models.User) { u.IsVerified = true }
func Staff(u *models.User)    { u.IsStaff = true }

// CreateUser inserts an active public user named username.
func CreateUser(t *testing.T, db *gorm.DB, username string, opts ...UserOption) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		IsActive: true,
	}
	for _, opt := range opts {
		opt(u)
	}
	// is_active has a column default, so gorm drops false from the insert
	// and reads true back.
	inactive := !u.IsActive
	require.NoError(t, db.Create(u).Error)
	if inactive {
		require.NoError(t, db.Model(u).Update("is_active", false).Error)
		u.IsActive = false
	}
	return u
}

// Follow inserts a follow edge directly.
func Follow(t *testing.T, db *gorm.DB, from, to *models.User, accepted bool) *models.FollowRelation {
	t.Helper()
	f := &models.FollowRelation{FromUserID: from.ID, ToUserID: to.ID, IsAccepted: accepted}
	require.NoError(t, db.Omit("FromUser", "ToUser").Create(f).Error)
	return f
}

// Block inserts a block edge directly, without the follow cleanup.
func Block(t *testing.T, db *gorm.DB, blocker, blocked *models.User) {
	t.Helper()
	require.NoError(t, db.Omit("Blocker", "Blocked").Create(&models.BlockRelation{BlockerID: blocker.ID, BlockedID: blocked.ID}).Error)
}

// CreatePost inserts a post with a single image.
func CreatePost(t *testing.T, db *gorm.DB, owner *models.User, caption string) *models.Post {
	t.Helper()
	p := &models.Post{
		Caption: caption,
		UserID:  owner.ID,
		Media:   []models.Media{{MediaType: models.MediaImage, File: "media/test.jpg", URL: "/media/media/test.jpg", Size: 10}},
	}
	require.NoError(t, db.Omit("User", "Location").Create(p).Error)
	return p
}
