package models

import "time"

type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// PostTag joins a post to a hashtag found in its caption.
type PostTag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;uniqueIndex:idx_post_tag"`
	TagID     uint      `json:"tag_id" gorm:"not null;index;uniqueIndex:idx_post_tag"`
	CreatedAt time.Time `json:"created_at"`
}

// TaggedUser records an @mention of a user in a post caption.
type TaggedUser struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;uniqueIndex:idx_post_tagged_user"`
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_post_tagged_user"`
	CreatedAt time.Time `json:"created_at"`
}
