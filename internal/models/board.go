package models

import (
	"github.com/google/uuid"
)

/** --------------------ENTITIES-------------------- */
type Board struct {
	Base
	Name      string    `gorm:"not null" json:"name"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id"`
	Position  int       `gorm:"not null;default:0" json:"position"`
}

/** -------------------- DTOs -------------------- */
type CreateBoardRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Position int    `json:"position,omitempty"`
}

type UpdateBoardRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Position *int    `json:"position,omitempty"`
}
