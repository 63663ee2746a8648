package models

import (
	"time"

	"github.com/google/uuid"
)

/** --------------------ENTITIES-------------------- */
// User represents the user entity
type User struct {
	Base
	Email        string `gorm:"uniqueIndex;not null" json:"email"`    // Unique email for the user
	Username     string `gorm:"uniqueIndex;not null" json:"username"` // Unique username for the user
	PasswordHash string `gorm:"not null" json:"-"`                    // Password is hashed and never returned in responses
	DisplayName  string `gorm:"not null" json:"display_name"`
	// AvatarURL is optional and stores a profile picture URL.
	AvatarURL string `json:"avatar_url,omitempty"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
}

// UserSummary is the public view of a user, embedded in API responses and
// real-time presence events. Never carries credentials.
type UserSummary struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

/** -------------------- DTOs -------------------- */
// Request
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Username    string `json:"username" binding:"required,min=3,max=50"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=100"`
	Password    string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Response
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoginResponse represents the response for a successful login
// swagger:model
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      UserResponse `json:"user"`
}

// Update profile request
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" binding:"omitempty,min=1,max=100"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}
