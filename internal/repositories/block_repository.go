package repositories

import (
	"github.com/anonto42/aura/backend/internal/models"
	"gorm.io/gorm"
)

// BlockRepository defines the interface for block data operations
type BlockRepository interface {
	CreateBlock(block *models.BlockRelation) error
	DeleteBlock(blockerID, blockedID uint) error
	IsBlocked(blockerID, blockedID uint) (bool, error)
	IsBlockedEitherWay(a, b uint) (bool, error)
	GetBlockedUsers(blockerID uint, search string, page Page) ([]models.BlockedEntry, int64, error)
}

// PostgresBlockRepository implements BlockRepository for PostgreSQL
type PostgresBlockRepository struct {
	db *gorm.DB
}

// NewPostgresBlockRepository creates a new PostgresBlockRepository
func NewPostgresBlockRepository(db *gorm.DB) *PostgresBlockRepository {
	return &PostgresBlockRepository{db: db}
}

// CreateBlock stores the block and drops follow edges in both directions
// between the pair in the same transaction.
func (r *PostgresBlockRepository) CreateBlock(block *models.BlockRelation) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(block).Error; err != nil {
			return translate(err)
		}
		return tx.Where(
			"(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			block.BlockerID, block.BlockedID, block.BlockedID, block.BlockerID,
		).Delete(&models.FollowRelation{}).Error
	})
}

func (r *PostgresBlockRepository) DeleteBlock(blockerID, blockedID uint) error {
	res := r.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Delete(&models.BlockRelation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresBlockRepository) IsBlocked(blockerID, blockedID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.BlockRelation{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresBlockRepository) IsBlockedEitherWay(a, b uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.BlockRelation{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetBlockedUsers lists the blocker's blocks, newest first.
func (r *PostgresBlockRepository) GetBlockedUsers(blockerID uint, search string, page Page) ([]models.BlockedEntry, int64, error) {
	query := func() *gorm.DB {
		q := r.db.Model(&models.BlockRelation{}).Where("blocker_id = ?", blockerID)
		if search != "" {
			q = q.Where("blocked_id IN (?)",
				fresh(r.db).Model(&models.User{}).Select("id").
					Where(`LOWER(username) LIKE LOWER(?) ESCAPE '\'`, prefixPattern(search)))
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var blocks []models.BlockRelation
	if err := query().Preload("Blocked").
		Order("created_at DESC").Order("id DESC").
		Scopes(paginate(page)).
		Find(&blocks).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]models.BlockedEntry, 0, len(blocks))
	for _, b := range blocks {
		entries = append(entries, models.BlockedEntry{
			Blocked:   b.Blocked.ToCompact(),
			CreatedAt: b.CreatedAt,
		})
	}
	return entries, total, nil
}
