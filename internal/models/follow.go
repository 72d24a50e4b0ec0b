package models

import "time"

// FollowRelation is a directed follow edge. Edges to private accounts stay
// pending (IsAccepted=false) until the target accepts them.
type FollowRelation struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FromUserID uint      `json:"from_user_id" gorm:"not null;index;uniqueIndex:idx_follow_pair"`
	ToUserID   uint      `json:"to_user_id" gorm:"not null;index;uniqueIndex:idx_follow_pair"`
	IsAccepted bool      `json:"is_accepted" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time `json:"updated_at"`

	FromUser User `json:"-" gorm:"foreignKey:FromUserID"`
	ToUser   User `json:"-" gorm:"foreignKey:ToUserID"`
}

// BlockRelation hides the pair from each other in every direction.
type BlockRelation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BlockerID uint      `json:"blocker_id" gorm:"not null;index;uniqueIndex:idx_block_pair"`
	BlockedID uint      `json:"blocked_id" gorm:"not null;index;uniqueIndex:idx_block_pair"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Blocker User `json:"-" gorm:"foreignKey:BlockerID"`
	Blocked User `json:"-" gorm:"foreignKey:BlockedID"`
}

// FollowEntry is a row of a follower/following/request listing.
type FollowEntry struct {
	User       UserCompact `json:"user"`
	FollowBack bool        `json:"follow_back"`
	IsAccepted bool        `json:"is_accepted"`
	CreatedAt  time.Time   `json:"created_at"`
}

// BlockedEntry is a row of the blocked-users listing.
type BlockedEntry struct {
	Blocked   UserCompact `json:"blocked"`
	CreatedAt time.Time   `json:"created_at"`
}
