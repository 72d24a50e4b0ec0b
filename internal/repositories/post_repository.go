package repositories

import (
	"github.com/anonto42/aura/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetPostsByUserID(userID uint, page Page) ([]models.Post, int64, error)
	GetPostsByTagID(viewerID, tagID uint, page Page) ([]models.Post, int64, error)
	GetFeed(viewerID uint, page Page) ([]models.Post, int64, error)
	UpdatePost(post *models.Post) error
	DeletePost(id uint) ([]models.Media, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost inserts the post and its media rows in one transaction.
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Omit("User", "Location").Create(post).Error
	})
}

func withPostRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Location").Preload("Media", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

// GetPostByID retrieves a post with owner, location and media
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Scopes(withPostRelations).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostsByUserID lists a user's posts newest first. Callers gate access
// with the visibility engine before listing.
func (r *PostgresPostRepository) GetPostsByUserID(userID uint, page Page) ([]models.Post, int64, error) {
	return r.list(func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}, page)
}

// GetPostsByTagID lists posts linked to the tag that the viewer may see.
func (r *PostgresPostRepository) GetPostsByTagID(viewerID, tagID uint, page Page) ([]models.Post, int64, error) {
	return r.list(func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (?)", fresh(db).Model(&models.PostTag{}).Select("post_id").Where("tag_id = ?", tagID)).
			Scopes(visibleTo("user_id", viewerID))
	}, page)
}

// GetFeed lists posts of accounts the viewer follows with an accepted edge.
func (r *PostgresPostRepository) GetFeed(viewerID uint, page Page) ([]models.Post, int64, error) {
	return r.list(func(db *gorm.DB) *gorm.DB {
		followed := fresh(db).Model(&models.FollowRelation{}).Select("to_user_id").
			Where("from_user_id = ? AND is_accepted = ?", viewerID, true)
		return db.Where("user_id IN (?)", followed).
			Where("user_id IN (?)", activeUserIDs(db)).
			Scopes(withoutBlockCounterparts("user_id", viewerID))
	}, page)
}

func (r *PostgresPostRepository) list(scope func(*gorm.DB) *gorm.DB, page Page) ([]models.Post, int64, error) {
	var total int64
	if err := r.db.Model(&models.Post{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := r.db.Model(&models.Post{}).Scopes(scope, withPostRelations).
		Order("created_at DESC").Order("id DESC").
		Scopes(paginate(page)).
		Find(&posts).Error
	return posts, total, err
}

// UpdatePost saves caption and location changes
func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Model(post).Select("caption", "location_id", "updated_at").Updates(post).Error
}

// DeletePost removes the post and every row that references it, returning
// the media rows so the caller can drop the stored files.
func (r *PostgresPostRepository) DeletePost(id uint) ([]models.Media, error) {
	var media []models.Media
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Find(&media).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{
			&models.Media{},
			&models.Comment{},
			&models.Like{},
			&models.Save{},
			&models.PostTag{},
			&models.TaggedUser{},
			&models.Notification{},
		} {
			if err := tx.Where("post_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return media, nil
}
