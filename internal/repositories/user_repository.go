package repositories

import (
	"github.com/anonto42/aura/backend/internal/models"
	"gorm.io/gorm"
)

// UserFilter narrows the user directory listing.
type UserFilter struct {
	Search     string
	IsVerified *bool
	IsPrivate  *bool
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByFirebaseUID(firebaseUID string) (*models.User, error)
	GetActiveUsersByUsernames(usernames []string) ([]models.User, error)
	UsernameExists(username string) (bool, error)
	EmailExists(email string) (bool, error)
	UpdateUser(user *models.User) error
	Deactivate(id uint) error
	ListUsers(viewerID uint, filter UserFilter, page Page) ([]models.User, int64, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return translate(r.db.Create(user).Error)
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user by Firebase UID from PostgreSQL
func (r *PostgresUserRepository) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetActiveUsersByUsernames resolves mention tokens; unknown names are simply absent.
func (r *PostgresUserRepository) GetActiveUsersByUsernames(usernames []string) ([]models.User, error) {
	var users []models.User
	if len(usernames) == 0 {
		return users, nil
	}
	err := r.db.Where("username IN ? AND is_active = ?", usernames, true).Find(&users).Error
	return users, err
}

func (r *PostgresUserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("LOWER(username) = LOWER(?)", username).Count(&count).Error
	return count > 0, err
}

func (r *PostgresUserRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("LOWER(email) = LOWER(?)", email).Count(&count).Error
	return count > 0, err
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return translate(r.db.Save(user).Error)
}

func (r *PostgresUserRepository) Deactivate(id uint) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListUsers returns active accounts outside any block relation with the viewer.
func (r *PostgresUserRepository) ListUsers(viewerID uint, filter UserFilter, page Page) ([]models.User, int64, error) {
	query := func() *gorm.DB {
		q := r.db.Model(&models.User{}).
			Where("is_active = ?", true).
			Scopes(withoutBlockCounterparts("id", viewerID))
		if filter.Search != "" {
			q = q.Where(`LOWER(username) LIKE LOWER(?) ESCAPE '\'`, prefixPattern(filter.Search))
		}
		if filter.IsVerified != nil {
			q = q.Where("is_verified = ?", *filter.IsVerified)
		}
		if filter.IsPrivate != nil {
			q = q.Where("is_private = ?", *filter.IsPrivate)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := query().Order("username ASC").Scopes(paginate(page)).Find(&users).Error
	return users, total, err
}
