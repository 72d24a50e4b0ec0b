package repositories

import (
	"github.com/anonto42/aura/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationFilter narrows a receiver's notification listing.
type NotificationFilter struct {
	Type   *models.NotificationType
	IsRead *bool
}

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByReceiverID(receiverID uint, filter NotificationFilter, page Page) ([]models.Notification, int64, error)
	GetUnreadCount(receiverID uint) (int64, error)
	MarkAsRead(notificationID, receiverID uint) error
	MarkAllAsRead(receiverID uint) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Omit("Sender").Create(notification).Error
}

func (r *postgresNotificationRepository) GetByReceiverID(receiverID uint, filter NotificationFilter, page Page) ([]models.Notification, int64, error) {
	query := func() *gorm.DB {
		q := r.db.Model(&models.Notification{}).Where("receiver_id = ?", receiverID)
		if filter.Type != nil {
			q = q.Where("type = ?", *filter.Type)
		}
		if filter.IsRead != nil {
			q = q.Where("is_read = ?", *filter.IsRead)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := query().Preload("Sender").
		Order("created_at DESC").Order("id DESC").
		Scopes(paginate(page)).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetUnreadCount(receiverID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("receiver_id = ? AND is_read = ?", receiverID, false).Count(&count).Error
	return count, err
}

// MarkAsRead only touches notifications addressed to receiverID.
func (r *postgresNotificationRepository) MarkAsRead(notificationID, receiverID uint) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND receiver_id = ?", notificationID, receiverID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(receiverID uint) (int64, error) {
	res := r.db.Model(&models.Notification{}).Where("receiver_id = ? AND is_read = ?", receiverID, false).Update("is_read", true)
	return res.RowsAffected, res.Error
}
