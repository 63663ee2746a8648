package models

import (
	"github.com/google/uuid"
)

/** --------------------ENTITIES-------------------- */
type TaskComment struct {
	Base
	TaskID  uuid.UUID `gorm:"type:uuid;index;not null" json:"task_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Content string    `gorm:"not null" json:"content"`
}

/** -------------------- DTOs -------------------- */
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// TaskCommentResponse joins the comment with its author's public profile.
type TaskCommentResponse struct {
	TaskComment
	User UserSummary `json:"user"`
}
