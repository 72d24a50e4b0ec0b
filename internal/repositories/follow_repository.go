package repositories

import (
	"time"

	"github.com/anonto42/aura/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(follow *models.FollowRelation) error
	GetFollow(fromUserID, toUserID uint) (*models.FollowRelation, error)
	AcceptFollow(fromUserID, toUserID uint) (*models.FollowRelation, error)
	DeleteFollow(fromUserID, toUserID uint) error
	DeletePendingFollow(fromUserID, toUserID uint) error
	HasAnyFollow(fromUserID, toUserID uint) (bool, error)
	IsFollowingAccepted(fromUserID, toUserID uint) (bool, error)
	GetFollowers(viewerID, userID uint, search string, page Page) ([]models.FollowEntry, int64, error)
	GetFollowings(viewerID, userID uint, search string, page Page) ([]models.FollowEntry, int64, error)
	GetSentRequests(userID uint, search string, page Page) ([]models.FollowEntry, int64, error)
	GetReceivedRequests(userID uint, search string, page Page) ([]models.FollowEntry, int64, error)
	GetFollowersCount(userID uint) (int64, error)
	GetFollowingCount(userID uint) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollow(follow *models.FollowRelation) error {
	return translate(r.db.Create(follow).Error)
}

func (r *PostgresFollowRepository) GetFollow(fromUserID, toUserID uint) (*models.FollowRelation, error) {
	var follow models.FollowRelation
	err := r.db.Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).First(&follow).Error
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

// AcceptFollow flips a pending edge to accepted. Only a pending edge
// matches, so a second accept reports not found.
func (r *PostgresFollowRepository) AcceptFollow(fromUserID, toUserID uint) (*models.FollowRelation, error) {
	res := r.db.Model(&models.FollowRelation{}).
		Where("from_user_id = ? AND to_user_id = ? AND is_accepted = ?", fromUserID, toUserID, false).
		Updates(map[string]interface{}{"is_accepted": true, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetFollow(fromUserID, toUserID)
}

func (r *PostgresFollowRepository) DeleteFollow(fromUserID, toUserID uint) error {
	res := r.db.Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).Delete(&models.FollowRelation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresFollowRepository) DeletePendingFollow(fromUserID, toUserID uint) error {
	res := r.db.Where("from_user_id = ? AND to_user_id = ? AND is_accepted = ?", fromUserID, toUserID, false).
		Delete(&models.FollowRelation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasAnyFollow reports a follow edge in the given direction, pending or accepted.
func (r *PostgresFollowRepository) HasAnyFollow(fromUserID, toUserID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.FollowRelation{}).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) IsFollowingAccepted(fromUserID, toUserID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.FollowRelation{}).
		Where("from_user_id = ? AND to_user_id = ? AND is_accepted = ?", fromUserID, toUserID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowers lists accepted edges into userID, newest first.
func (r *PostgresFollowRepository) GetFollowers(viewerID, userID uint, search string, page Page) ([]models.FollowEntry, int64, error) {
	return r.listEdges(edgeQuery{
		where:        "to_user_id = ? AND is_accepted = ?",
		args:         []interface{}{userID, true},
		counterpart:  "from_user_id",
		preload:      "FromUser",
		subjectID:    userID,
		viewerID:     viewerID,
		stripBlocked: true,
		search:       search,
		followBack:   true,
	}, page)
}

// GetFollowings lists accepted edges out of userID, newest first.
func (r *PostgresFollowRepository) GetFollowings(viewerID, userID uint, search string, page Page) ([]models.FollowEntry, int64, error) {
	return r.listEdges(edgeQuery{
		where:        "from_user_id = ? AND is_accepted = ?",
		args:         []interface{}{userID, true},
		counterpart:  "to_user_id",
		preload:      "ToUser",
		subjectID:    userID,
		viewerID:     viewerID,
		stripBlocked: true,
		search:       search,
		followBack:   true,
	}, page)
}

func (r *PostgresFollowRepository) GetSentRequests(userID uint, search string, page Page) ([]models.FollowEntry, int64, error) {
	return r.listEdges(edgeQuery{
		where:       "from_user_id = ? AND is_accepted = ?",
		args:        []interface{}{userID, false},
		counterpart: "to_user_id",
		preload:     "ToUser",
		subjectID:   userID,
		viewerID:    userID,
		search:      search,
	}, page)
}

func (r *PostgresFollowRepository) GetReceivedRequests(userID uint, search string, page Page) ([]models.FollowEntry, int64, error) {
	return r.listEdges(edgeQuery{
		where:       "to_user_id = ? AND is_accepted = ?",
		args:        []interface{}{userID, false},
		counterpart: "from_user_id",
		preload:     "FromUser",
		subjectID:   userID,
		viewerID:    userID,
		search:      search,
	}, page)
}

func (r *PostgresFollowRepository) GetFollowersCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.FollowRelation{}).
		Where("to_user_id = ? AND is_accepted = ?", userID, true).
		Where("from_user_id IN (?)", activeUserIDs(r.db)).
		Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.FollowRelation{}).
		Where("from_user_id = ? AND is_accepted = ?", userID, true).
		Where("to_user_id IN (?)", activeUserIDs(r.db)).
		Count(&count).Error
	return count, err
}

type edgeQuery struct {
	where        string
	args         []interface{}
	counterpart  string // column holding the listed user
	preload      string
	subjectID    uint // whose edges are listed
	viewerID     uint
	stripBlocked bool
	search       string
	followBack   bool
}

func (r *PostgresFollowRepository) listEdges(q edgeQuery, page Page) ([]models.FollowEntry, int64, error) {
	query := func() *gorm.DB {
		tx := r.db.Model(&models.FollowRelation{}).
			Where(q.where, q.args...).
			Where(q.counterpart+" IN (?)", activeUserIDs(r.db))
		if q.stripBlocked {
			tx = tx.Scopes(withoutBlockCounterparts(q.counterpart, q.viewerID))
		}
		if q.search != "" {
			tx = tx.Where(q.counterpart+" IN (?)",
				fresh(r.db).Model(&models.User{}).Select("id").
					Where(`LOWER(username) LIKE LOWER(?) ESCAPE '\'`, prefixPattern(q.search)))
		}
		return tx
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var edges []models.FollowRelation
	if err := query().Preload(q.preload).
		Order("created_at DESC").Order("id DESC").
		Scopes(paginate(page)).
		Find(&edges).Error; err != nil {
		return nil, 0, err
	}

	listed := make([]uint, 0, len(edges))
	for _, e := range edges {
		listed = append(listed, counterpartOf(e, q.counterpart))
	}

	// follow_back is the reverse edge between the listed user and the subject.
	back := map[uint]bool{}
	if q.followBack && len(listed) > 0 {
		var ids []uint
		var err error
		if q.counterpart == "from_user_id" {
			err = r.db.Model(&models.FollowRelation{}).
				Where("from_user_id = ? AND to_user_id IN ?", q.subjectID, listed).
				Pluck("to_user_id", &ids).Error
		} else {
			err = r.db.Model(&models.FollowRelation{}).
				Where("from_user_id IN ? AND to_user_id = ?", listed, q.subjectID).
				Pluck("from_user_id", &ids).Error
		}
		if err != nil {
			return nil, 0, err
		}
		for _, id := range ids {
			back[id] = true
		}
	}

	entries := make([]models.FollowEntry, 0, len(edges))
	for _, e := range edges {
		user := e.FromUser
		if q.counterpart == "to_user_id" {
			user = e.ToUser
		}
		entries = append(entries, models.FollowEntry{
			User:       user.ToCompact(),
			FollowBack: back[user.ID],
			IsAccepted: e.IsAccepted,
			CreatedAt:  e.CreatedAt,
		})
	}
	return entries, total, nil
}

func counterpartOf(e models.FollowRelation, col string) uint {
	if col == "to_user_id" {
		return e.ToUserID
	}
	return e.FromUserID
}
