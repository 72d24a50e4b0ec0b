package models

import "time"

const MaxCommentLength = 256

// Comment on a post. ReplyToID points at a top-level comment of the same
// post; replies to replies are rejected on write.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	PostID    uint      `json:"post_id" gorm:"not null;index"`
	ReplyToID *uint     `json:"reply_to_id,omitempty" gorm:"index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	User    User      `json:"-" gorm:"foreignKey:UserID"`
	Replies []Comment `json:"-" gorm:"foreignKey:ReplyToID"`
}

// CommentView is a comment with its author and, for top-level comments, replies.
type CommentView struct {
	ID        uint          `json:"id"`
	User      UserCompact   `json:"user"`
	Text      string        `json:"text"`
	PostID    uint          `json:"post_id"`
	ReplyToID *uint         `json:"reply_to_id,omitempty"`
	Replies   []CommentView `json:"replies,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

func (c *Comment) ToView() CommentView {
	v := CommentView{
		ID:        c.ID,
		User:      c.User.ToCompact(),
		Text:      c.Text,
		PostID:    c.PostID,
		ReplyToID: c.ReplyToID,
		CreatedAt: c.CreatedAt,
	}
	for i := range c.Replies {
		v.Replies = append(v.Replies, c.Replies[i].ToView())
	}
	return v
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	PostID    uint   `json:"post_id" validate:"required"`
	Text      string `json:"text" validate:"required,min=1,max=256"`
	ReplyToID *uint  `json:"reply_to_id,omitempty"`
}

// CommentTextRequest is the body of nested create, reply and update routes.
type CommentTextRequest struct {
	Text string `json:"text" validate:"required,min=1,max=256"`
}
