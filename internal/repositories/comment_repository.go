package repositories

import (
	"github.com/anonto42/aura/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentWithReplies(viewerID, id uint) (*models.Comment, error)
	GetTopLevelComments(viewerID, postID uint, page Page) ([]models.Comment, int64, error)
	GetCommentsByUserID(userID uint, page Page) ([]models.Comment, int64, error)
	GetCommentsCount(postID uint) (int64, error)
	UpdateComment(comment *models.Comment) error
	DeleteComment(id uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	if err := r.db.Omit("User", "Replies").Create(comment).Error; err != nil {
		return err
	}
	return r.db.Preload("User").First(comment, comment.ID).Error
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func repliesVisibleTo(viewerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(withoutBlockCounterparts("user_id", viewerID)).
			Where("user_id IN (?)", activeUserIDs(db)).
			Order("created_at ASC").Order("id ASC")
	}
}

// GetCommentWithReplies loads a comment and its replies, minus replies by
// block counterparts of the viewer.
func (r *PostgresCommentRepository) GetCommentWithReplies(viewerID, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("User").
		Preload("Replies", repliesVisibleTo(viewerID)).
		Preload("Replies.User").
		First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetTopLevelComments lists comments without a reply target, newest first,
// each with its replies.
func (r *PostgresCommentRepository) GetTopLevelComments(viewerID, postID uint, page Page) ([]models.Comment, int64, error) {
	query := func() *gorm.DB {
		return r.db.Model(&models.Comment{}).
			Where("post_id = ? AND reply_to_id IS NULL", postID).
			Where("user_id IN (?)", activeUserIDs(r.db)).
			Scopes(withoutBlockCounterparts("user_id", viewerID))
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := query().Preload("User").
		Preload("Replies", repliesVisibleTo(viewerID)).
		Preload("Replies.User").
		Order("created_at DESC").Order("id DESC").
		Scopes(paginate(page)).
		Find(&comments).Error
	return comments, total, err
}

func (r *PostgresCommentRepository) GetCommentsByUserID(userID uint, page Page) ([]models.Comment, int64, error) {
	var total int64
	if err := r.db.Model(&models.Comment{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var comments []models.Comment
	err := r.db.Where("user_id = ?", userID).Preload("User").
		Order("created_at DESC").Order("id DESC").
		Scopes(paginate(page)).
		Find(&comments).Error
	return comments, total, err
}

func (r *PostgresCommentRepository) GetCommentsCount(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// UpdateComment saves the comment text
func (r *PostgresCommentRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Model(comment).Select("text", "updated_at").Updates(comment).Error
}

// DeleteComment deletes a comment and its replies
func (r *PostgresCommentRepository) DeleteComment(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reply_to_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Comment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
