package models

import "time"

// Like represents a like on a post
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_post_like"`
	PostID    uint      `json:"post_id" gorm:"not null;index;uniqueIndex:idx_user_post_like"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	User User `json:"-" gorm:"foreignKey:UserID"`
	Post Post `json:"-" gorm:"foreignKey:PostID"`
}

// Save is a bookmark of a post by a user.
type Save struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_post_save"`
	PostID    uint      `json:"post_id" gorm:"not null;index;uniqueIndex:idx_user_post_save"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	User User `json:"-" gorm:"foreignKey:UserID"`
	Post Post `json:"-" gorm:"foreignKey:PostID"`
}

// EngagementView is a like or save row as returned to clients.
type EngagementView struct {
	ID        uint        `json:"id"`
	User      UserCompact `json:"user"`
	Post      *PostView   `json:"post,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// PostRefRequest is the body of the like and save create routes.
type PostRefRequest struct {
	PostID uint `json:"post_id" validate:"required"`
}
