package repositories

import (
	"github.com/anonto42/aura/backend/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// Page selects a window of a listing. Values out of range are clamped.
type Page struct {
	Page  int
	Limit int
}

func (p Page) normalized() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	n := p.normalized()
	return (n.Page - 1) * n.Limit
}

func (p Page) Size() int {
	return p.normalized().Limit
}

func paginate(p Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Size())
	}
}

func fresh(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true})
}

// withoutBlockCounterparts strips rows whose col references a user in a
// block relation with the viewer, in either direction.
func withoutBlockCounterparts(col string, viewerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		blockedByViewer := fresh(db).Model(&models.BlockRelation{}).
			Select("blocked_id").Where("blocker_id = ?", viewerID)
		blockingViewer := fresh(db).Model(&models.BlockRelation{}).
			Select("blocker_id").Where("blocked_id = ?", viewerID)
		return db.Where(col+" NOT IN (?)", blockedByViewer).
			Where(col+" NOT IN (?)", blockingViewer)
	}
}

// visibleOwners keeps rows whose col references an account the viewer may
// see: the viewer, an active public account, or an active account the
// viewer follows with an accepted edge. Combine with
// withoutBlockCounterparts for the full rule.
func visibleOwners(col string, viewerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		activeUsers := fresh(db).Model(&models.User{}).
			Select("id").Where("is_active = ?", true)
		publicActive := fresh(db).Model(&models.User{}).
			Select("id").Where("is_active = ? AND is_private = ?", true, false)
		followed := fresh(db).Model(&models.FollowRelation{}).
			Select("to_user_id").
			Where("from_user_id = ? AND is_accepted = ?", viewerID, true).
			Where("to_user_id IN (?)", activeUsers)

		return db.Where(
			fresh(db).Where(col+" = ?", viewerID).
				Or(col+" IN (?)", publicActive).
				Or(col+" IN (?)", followed),
		)
	}
}

// visibleTo is the SQL form of visibility.Decide for listings keyed by an
// owner column.
func visibleTo(col string, viewerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(
			withoutBlockCounterparts(col, viewerID),
			visibleOwners(col, viewerID),
		)
	}
}

// visiblePostIDs selects ids of posts the viewer may see.
func visiblePostIDs(db *gorm.DB, viewerID uint) *gorm.DB {
	return fresh(db).Model(&models.Post{}).Select("id").
		Scopes(visibleTo("user_id", viewerID))
}

func activeUserIDs(db *gorm.DB) *gorm.DB {
	return fresh(db).Model(&models.User{}).Select("id").Where("is_active = ?", true)
}

func prefixPattern(search string) string {
	return escapeLike(search) + "%"
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
