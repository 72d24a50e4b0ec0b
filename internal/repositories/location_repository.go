package repositories

import (
	"github.com/anonto42/aura/backend/internal/models"
	"gorm.io/gorm"
)

// LocationRepository defines the interface for location data operations
type LocationRepository interface {
	CreateLocation(location *models.Location) error
	GetLocationByID(id uint) (*models.Location, error)
	ListLocations(search string, page Page) ([]models.Location, int64, error)
}

type PostgresLocationRepository struct {
	db *gorm.DB
}

func NewPostgresLocationRepository(db *gorm.DB) *PostgresLocationRepository {
	return &PostgresLocationRepository{db: db}
}

func (r *PostgresLocationRepository) CreateLocation(location *models.Location) error {
	return translate(r.db.Create(location).Error)
}

func (r *PostgresLocationRepository) GetLocationByID(id uint) (*models.Location, error) {
	var location models.Location
	if err := r.db.First(&location, id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *PostgresLocationRepository) ListLocations(search string, page Page) ([]models.Location, int64, error) {
	query := func() *gorm.DB {
		q := r.db.Model(&models.Location{})
		if search != "" {
			q = q.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, prefixPattern(search))
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var locations []models.Location
	err := query().Order("name ASC").Scopes(paginate(page)).Find(&locations).Error
	return locations, total, err
}
