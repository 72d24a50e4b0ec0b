package services

import (
	"strconv"

	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/repositories"
)

// NotificationService is the read side of the notification fan-out.
type NotificationService struct {
	repo repositories.NotificationRepository
}

func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// ParseFilter builds a listing filter from the type and is_read query
// values. Empty values leave the field unset.
func ParseFilter(typ, isRead string) (repositories.NotificationFilter, error) {
	var f repositories.NotificationFilter
	if typ != "" {
		t, ok := models.ParseNotificationType(typ)
		if !ok {
			return f, invalid("Invalid notification type.")
		}
		f.Type = &t
	}
	if isRead != "" {
		b, err := strconv.ParseBool(isRead)
		if err != nil {
			return f, invalid("is_read must be true or false.")
		}
		f.IsRead = &b
	}
	return f, nil
}

func (s *NotificationService) List(receiverID uint, filter repositories.NotificationFilter, page repositories.Page) ([]models.NotificationView, int64, error) {
	rows, total, err := s.repo.GetByReceiverID(receiverID, filter, page)
	if err != nil {
		return nil, 0, err
	}
	views := make([]models.NotificationView, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].ToView())
	}
	return views, total, nil
}

func (s *NotificationService) UnreadCount(receiverID uint) (int64, error) {
	return s.repo.GetUnreadCount(receiverID)
}

// MarkRead flags one notification; other receivers' rows read as missing.
func (s *NotificationService) MarkRead(receiverID, id uint) error {
	return lookup(s.repo.MarkAsRead(id, receiverID), "Notification not found")
}

func (s *NotificationService) MarkAllRead(receiverID uint) (int64, error) {
	return s.repo.MarkAllAsRead(receiverID)
}
