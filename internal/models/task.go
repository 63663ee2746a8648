package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the kanban column a task sits in.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	default:
		return false
	}
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	default:
		return false
	}
}

/** --------------------ENTITIES-------------------- */
type Task struct {
	Base
	Title       string       `gorm:"not null" json:"title"`
	Description string       `json:"description,omitempty"`
	ProjectID   uuid.UUID    `gorm:"type:uuid;index;not null" json:"project_id"`
	BoardID     *uuid.UUID   `gorm:"type:uuid;index" json:"board_id,omitempty"`
	Status      TaskStatus   `gorm:"not null;default:todo" json:"status"`
	Priority    TaskPriority `gorm:"not null;default:medium" json:"priority"`
	Position    int          `gorm:"not null;default:0" json:"position"`
	AssignedTo  *uuid.UUID   `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	CreatedBy   uuid.UUID    `gorm:"type:uuid;not null" json:"created_by"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Tags        []string     `gorm:"serializer:json" json:"tags,omitempty"`
}

/** -------------------- DTOs -------------------- */
type CreateTaskRequest struct {
	Title       string       `json:"title" binding:"required,min=1,max=200"`
	Description string       `json:"description,omitempty" binding:"omitempty,max=2000"`
	BoardID     *uuid.UUID   `json:"board_id,omitempty"`
	Priority    TaskPriority `json:"priority,omitempty"`
	AssignedTo  *uuid.UUID   `json:"assigned_to,omitempty"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string       `json:"title,omitempty" binding:"omitempty,min=1,max=200"`
	Description *string       `json:"description,omitempty" binding:"omitempty,max=2000"`
	BoardID     *uuid.UUID    `json:"board_id,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	AssignedTo  *uuid.UUID    `json:"assigned_to,omitempty"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
}

// MoveTaskRequest moves a task to another column and position on the board.
type MoveTaskRequest struct {
	Status   TaskStatus `json:"status" binding:"required"`
	Position int        `json:"position"`
}

// TaskFilters narrows a project task listing.
type TaskFilters struct {
	Status     *TaskStatus   `form:"status"`
	Priority   *TaskPriority `form:"priority"`
	AssignedTo *uuid.UUID    `form:"assigned_to"`
	Tag        *string       `form:"tag"`
}
