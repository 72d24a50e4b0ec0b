package models

import "time"

const (
	MaxCaptionLength = 400
	MaxMediaSize     = 10 * 1024 * 1024
)

type MediaType int

const (
	MediaImage MediaType = 1
	MediaVideo MediaType = 2
)

func (t MediaType) String() string {
	switch t {
	case MediaImage:
		return "image"
	case MediaVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Post is captioned content owned by a user with one or more media files.
type Post struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Caption    string    `json:"caption" gorm:"type:text"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	LocationID *uint     `json:"location_id,omitempty" gorm:"index"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time `json:"updated_at"`

	User     User      `json:"-" gorm:"foreignKey:UserID"`
	Location *Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	Media    []Media   `json:"media" gorm:"foreignKey:PostID"`
}

type Media struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;index"`
	MediaType MediaType `json:"media_type" gorm:"not null;default:1"`
	File      string    `json:"-" gorm:"size:255;not null"` // blob store key
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// PostView is a post as returned to clients.
type PostView struct {
	ID            uint        `json:"id"`
	User          UserCompact `json:"user"`
	Caption       string      `json:"caption"`
	Media         []Media     `json:"media"`
	Location      *Location   `json:"location,omitempty"`
	LikesCount    int64       `json:"likes_count"`
	CommentsCount int64       `json:"comments_count"`
	CreatedAt     time.Time   `json:"created_at"`
}

func (p *Post) ToView() PostView {
	media := p.Media
	if media == nil {
		media = []Media{}
	}
	return PostView{
		ID:        p.ID,
		User:      p.User.ToCompact(),
		Caption:   p.Caption,
		Media:     media,
		Location:  p.Location,
		CreatedAt: p.CreatedAt,
	}
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Caption    *string `json:"caption,omitempty" validate:"omitempty,max=400"`
	LocationID *uint   `json:"location_id,omitempty"`
}
