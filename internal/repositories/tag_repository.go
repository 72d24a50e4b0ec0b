package repositories

import (
	"github.com/anonto42/aura/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository defines the interface for hashtag and mention rows
type TagRepository interface {
	GetOrCreateTag(name string) (*models.Tag, bool, error)
	AttachTag(postID, tagID uint) (bool, error)
	AddTaggedUser(postID, userID uint) (bool, error)
	GetTagByID(id uint) (*models.Tag, error)
	ListTags(search string, page Page) ([]models.Tag, int64, error)
	GetPostTagNames(postID uint) ([]string, error)
}

// PostgresTagRepository implements TagRepository for PostgreSQL
type PostgresTagRepository struct {
	db *gorm.DB
}

// NewPostgresTagRepository creates a new PostgresTagRepository
func NewPostgresTagRepository(db *gorm.DB) *PostgresTagRepository {
	return &PostgresTagRepository{db: db}
}

// insertIgnore inserts row unless a unique index already holds it and
// reports whether this call created it.
func insertIgnore(db *gorm.DB, row interface{}) (bool, error) {
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GetOrCreateTag is safe under concurrent workers racing on the same name.
func (r *PostgresTagRepository) GetOrCreateTag(name string) (*models.Tag, bool, error) {
	created, err := insertIgnore(r.db, &models.Tag{Name: name})
	if err != nil {
		return nil, false, err
	}
	var tag models.Tag
	if err := r.db.Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, false, err
	}
	return &tag, created, nil
}

func (r *PostgresTagRepository) AttachTag(postID, tagID uint) (bool, error) {
	return insertIgnore(r.db, &models.PostTag{PostID: postID, TagID: tagID})
}

func (r *PostgresTagRepository) AddTaggedUser(postID, userID uint) (bool, error) {
	return insertIgnore(r.db, &models.TaggedUser{PostID: postID, UserID: userID})
}

func (r *PostgresTagRepository) GetTagByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *PostgresTagRepository) ListTags(search string, page Page) ([]models.Tag, int64, error) {
	query := func() *gorm.DB {
		q := r.db.Model(&models.Tag{})
		if search != "" {
			q = q.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, prefixPattern(search))
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var tags []models.Tag
	err := query().Order("name ASC").Scopes(paginate(page)).Find(&tags).Error
	return tags, total, err
}

func (r *PostgresTagRepository) GetPostTagNames(postID uint) ([]string, error) {
	var names []string
	err := r.db.Model(&models.Tag{}).
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id = ?", postID).
		Order("tags.name ASC").
		Pluck("tags.name", &names).Error
	return names, err
}
