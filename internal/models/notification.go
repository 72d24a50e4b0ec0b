package models

import (
	"strconv"
	"strings"
	"time"
)

// NotificationType is stored as an integer. Values 8 (unfollow) and 9
// (reply) are reserved and never written: a reply notifies the post owner
// as a comment, and unfollowing is silent.
type NotificationType int

const (
	NotificationLike          NotificationType = 1
	NotificationComment       NotificationType = 2
	NotificationFollow        NotificationType = 3
	NotificationSave          NotificationType = 4
	NotificationMention       NotificationType = 5
	NotificationAcceptRequest NotificationType = 6
	NotificationFollowRequest NotificationType = 7
)

var notificationTypeNames = map[NotificationType]string{
	NotificationLike:          "like",
	NotificationComment:       "comment",
	NotificationFollow:        "follow",
	NotificationSave:          "save",
	NotificationMention:       "mention",
	NotificationAcceptRequest: "accept_request",
	NotificationFollowRequest: "follow_request",
}

func (t NotificationType) String() string {
	if name, ok := notificationTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseNotificationType accepts either the symbolic name or the numeric code.
func ParseNotificationType(s string) (NotificationType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		t := NotificationType(n)
		_, ok := notificationTypeNames[t]
		return t, ok
	}
	for t, name := range notificationTypeNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

// Notification is created only by fan-out hooks, never by a user action.
type Notification struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	SenderID   uint             `json:"sender_id" gorm:"not null;index"`
	ReceiverID uint             `json:"receiver_id" gorm:"not null;index"`
	Type       NotificationType `json:"notification_type" gorm:"not null;index"`
	PostID     *uint            `json:"post_id,omitempty" gorm:"index"`
	IsRead     bool             `json:"is_read" gorm:"not null;default:false;index"`
	CreatedAt  time.Time        `json:"created_at" gorm:"index"`

	Sender User `json:"-" gorm:"foreignKey:SenderID"`
}

// NotificationView is a notification as returned to clients.
type NotificationView struct {
	ID        uint        `json:"id"`
	Type      string      `json:"notification_type"`
	Sender    UserCompact `json:"sender"`
	PostID    *uint       `json:"post_id,omitempty"`
	IsRead    bool        `json:"is_read"`
	CreatedAt time.Time   `json:"created_at"`
}

func (n *Notification) ToView() NotificationView {
	return NotificationView{
		ID:        n.ID,
		Type:      n.Type.String(),
		Sender:    n.Sender.ToCompact(),
		PostID:    n.PostID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
