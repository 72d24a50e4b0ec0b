package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email       string    `json:"email" gorm:"size:254;uniqueIndex;not null"`
	Password    string    `json:"-"`                                         // bcrypt hash
	FirebaseUID *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // nil for local accounts
	FirstName   string    `json:"first_name" gorm:"size:150"`
	LastName    string    `json:"last_name" gorm:"size:150"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	IsPrivate   bool      `json:"is_private" gorm:"not null;default:false"`
	IsVerified  bool      `json:"is_verified" gorm:"not null;default:false"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true;index"`
	IsStaff     bool      `json:"-" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserCompact is the light representation embedded in listings.
type UserCompact struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	AvatarURL  string `json:"avatar_url"`
	IsVerified bool   `json:"is_verified"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:         u.ID,
		Username:   u.Username,
		AvatarURL:  u.AvatarURL,
		IsVerified: u.IsVerified,
	}
}

// UserProfile is a user with relation counters, returned by profile endpoints.
type UserProfile struct {
	User
	FullName        string `json:"full_name"`
	FollowersCount  int64  `json:"followers_count"`
	FollowingsCount int64  `json:"followings_count"`
}

type CreateLocalUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	IsPrivate *bool   `json:"is_private,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
