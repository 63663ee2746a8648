package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamRole determines what a member may do inside a team.
type TeamRole string

const (
	TeamRoleAdmin  TeamRole = "admin"
	TeamRoleMember TeamRole = "member"
)

func (r TeamRole) IsValid() bool {
	switch r {
	case TeamRoleAdmin, TeamRoleMember:
		return true
	default:
		return false
	}
}

/** --------------------ENTITIES-------------------- */
type Team struct {
	Base
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`

	Members []TeamMember `gorm:"constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

type TeamMember struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_team_user;not null" json:"team_id"`
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_team_user;not null" json:"user_id"`
	Role     TeamRole  `gorm:"not null;default:member" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

/** -------------------- DTOs -------------------- */
type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description,omitempty" binding:"omitempty,max=500"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
}

type AddTeamMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Role   TeamRole  `json:"role,omitempty"`
}
