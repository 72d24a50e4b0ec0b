package repositories

import (
	"github.com/anonto42/aura/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(like *models.Like) error
	GetLikeByID(id uint) (*models.Like, error)
	GetLikeByPost(postID, userID uint) (*models.Like, error)
	DeleteLike(id uint) error
	HasUserLikedPost(postID, userID uint) (bool, error)
	GetLikesByPostID(viewerID, postID uint, page Page) ([]models.Like, int64, error)
	GetLikesByUserID(userID uint, page Page) ([]models.Like, int64, error)
	GetLikesCountByPostID(postID uint) (int64, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike creates a new like; a second like on the same post yields ErrDuplicate
func (r *PostgresLikeRepository) CreateLike(like *models.Like) error {
	return translate(r.db.Omit("User", "Post").Create(like).Error)
}

func (r *PostgresLikeRepository) GetLikeByID(id uint) (*models.Like, error) {
	var like models.Like
	if err := r.db.First(&like, id).Error; err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *PostgresLikeRepository) GetLikeByPost(postID, userID uint) (*models.Like, error) {
	var like models.Like
	if err := r.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&like).Error; err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *PostgresLikeRepository) DeleteLike(id uint) error {
	res := r.db.Delete(&models.Like{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(postID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLikesByPostID lists likers of a post minus block counterparts of the viewer
func (r *PostgresLikeRepository) GetLikesByPostID(viewerID, postID uint, page Page) ([]models.Like, int64, error) {
	return listEngagement[models.Like](r.db, func(db *gorm.DB) *gorm.DB {
		return db.Where("post_id = ?", postID).
			Where("user_id IN (?)", activeUserIDs(db)).
			Scopes(withoutBlockCounterparts("user_id", viewerID)).
			Preload("User")
	}, page)
}

// GetLikesByUserID lists the user's likes on posts still visible to them
func (r *PostgresLikeRepository) GetLikesByUserID(userID uint, page Page) ([]models.Like, int64, error) {
	return listEngagement[models.Like](r.db, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID).
			Where("post_id IN (?)", visiblePostIDs(db, userID)).
			Preload("User").Preload("Post").Preload("Post.User").Preload("Post.Media")
	}, page)
}

// GetLikesCountByPostID retrieves the count of likes for a specific post
func (r *PostgresLikeRepository) GetLikesCountByPostID(postID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func listEngagement[T any](db *gorm.DB, scope func(*gorm.DB) *gorm.DB, page Page) ([]T, int64, error) {
	var total int64
	if err := db.Model(new(T)).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []T
	err := db.Model(new(T)).Scopes(scope).
		Order("created_at DESC").Order("id DESC").
		Scopes(paginate(page)).
		Find(&rows).Error
	return rows, total, err
}
