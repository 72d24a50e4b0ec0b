package repositories

import (
	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/visibility"
	"gorm.io/gorm"
)

// VisibilityRepository loads the relation facts for a viewer/owner pair.
type VisibilityRepository interface {
	Facts(viewerID uint, owner *models.User) (visibility.Facts, error)
}

type PostgresVisibilityRepository struct {
	db *gorm.DB
}

func NewPostgresVisibilityRepository(db *gorm.DB) *PostgresVisibilityRepository {
	return &PostgresVisibilityRepository{db: db}
}

func (r *PostgresVisibilityRepository) Facts(viewerID uint, owner *models.User) (visibility.Facts, error) {
	f := visibility.Facts{
		ViewerID:     viewerID,
		OwnerID:      owner.ID,
		OwnerActive:  owner.IsActive,
		OwnerPrivate: owner.IsPrivate,
	}
	if viewerID == 0 || viewerID == owner.ID {
		return f, nil
	}

	var blocks []models.BlockRelation
	if err := r.db.Where(
		"(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
		viewerID, owner.ID, owner.ID, viewerID,
	).Find(&blocks).Error; err != nil {
		return f, err
	}
	for _, b := range blocks {
		if b.BlockerID == viewerID {
			f.ViewerBlocksOwner = true
		} else {
			f.OwnerBlocksViewer = true
		}
	}

	var count int64
	if err := r.db.Model(&models.FollowRelation{}).
		Where("from_user_id = ? AND to_user_id = ? AND is_accepted = ?", viewerID, owner.ID, true).
		Count(&count).Error; err != nil {
		return f, err
	}
	f.FollowAccepted = count > 0
	return f, nil
}
