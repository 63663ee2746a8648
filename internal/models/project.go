package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectRole determines what a member may do inside a project.
// Editors and admins can mutate boards and tasks, members can comment,
// guests can only read.
type ProjectRole string

const (
	ProjectRoleAdmin  ProjectRole = "admin"
	ProjectRoleMember ProjectRole = "member"
	ProjectRoleEditor ProjectRole = "editor"
	ProjectRoleGuest  ProjectRole = "guest"
)

func (r ProjectRole) IsValid() bool {
	switch r {
	case ProjectRoleAdmin, ProjectRoleMember, ProjectRoleEditor, ProjectRoleGuest:
		return true
	default:
		return false
	}
}

// CanEdit reports whether the role allows mutating boards and tasks.
func (r ProjectRole) CanEdit() bool {
	return r == ProjectRoleAdmin || r == ProjectRoleEditor
}

/** --------------------ENTITIES-------------------- */
type Project struct {
	Base
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	TeamID      uuid.UUID `gorm:"type:uuid;index;not null" json:"team_id"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	Color       string    `json:"color,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	Members []ProjectMember `gorm:"constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

type ProjectMember struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID   `gorm:"type:uuid;uniqueIndex:idx_project_user;not null" json:"project_id"`
	UserID    uuid.UUID   `gorm:"type:uuid;uniqueIndex:idx_project_user;not null" json:"user_id"`
	Role      ProjectRole `gorm:"not null;default:member" json:"role"`
	JoinedAt  time.Time   `gorm:"autoCreateTime" json:"joined_at"`
}

func (m *ProjectMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

/** -------------------- DTOs -------------------- */
type CreateProjectRequest struct {
	Name        string    `json:"name" binding:"required,min=1,max=100"`
	Description string    `json:"description,omitempty" binding:"omitempty,max=500"`
	TeamID      uuid.UUID `json:"team_id" binding:"required"`
	Color       string    `json:"color,omitempty" binding:"omitempty,max=20"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	Color       *string `json:"color,omitempty" binding:"omitempty,max=20"`
}

type AddProjectMemberRequest struct {
	UserID uuid.UUID   `json:"user_id" binding:"required"`
	Role   ProjectRole `json:"role,omitempty"`
}
