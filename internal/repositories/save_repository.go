package repositories

import (
	"github.com/anonto42/aura/backend/internal/models"
	"gorm.io/gorm"
)

// SaveRepository defines the interface for saved post operations
type SaveRepository interface {
	CreateSave(save *models.Save) error
	GetSaveByID(id uint) (*models.Save, error)
	GetSaveByPost(postID, userID uint) (*models.Save, error)
	DeleteSave(id uint) error
	IsPostSaved(postID, userID uint) (bool, error)
	GetSavesByUserID(userID uint, page Page) ([]models.Save, int64, error)
}

// PostgresSaveRepository implements SaveRepository
type PostgresSaveRepository struct {
	db *gorm.DB
}

func NewPostgresSaveRepository(db *gorm.DB) *PostgresSaveRepository {
	return &PostgresSaveRepository{db: db}
}

func (r *PostgresSaveRepository) CreateSave(save *models.Save) error {
	return translate(r.db.Omit("User", "Post").Create(save).Error)
}

func (r *PostgresSaveRepository) GetSaveByID(id uint) (*models.Save, error) {
	var save models.Save
	if err := r.db.First(&save, id).Error; err != nil {
		return nil, err
	}
	return &save, nil
}

func (r *PostgresSaveRepository) GetSaveByPost(postID, userID uint) (*models.Save, error) {
	var save models.Save
	if err := r.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&save).Error; err != nil {
		return nil, err
	}
	return &save, nil
}

func (r *PostgresSaveRepository) DeleteSave(id uint) error {
	res := r.db.Delete(&models.Save{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresSaveRepository) IsPostSaved(postID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Save{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetSavesByUserID lists the user's saves on posts still visible to them
func (r *PostgresSaveRepository) GetSavesByUserID(userID uint, page Page) ([]models.Save, int64, error) {
	return listEngagement[models.Save](r.db, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID).
			Where("post_id IN (?)", visiblePostIDs(db, userID)).
			Preload("User").Preload("Post").Preload("Post.User").Preload("Post.Media")
	}, page)
}
