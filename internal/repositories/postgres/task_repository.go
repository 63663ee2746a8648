package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-service/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(task *models.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByProject lists the project's tasks, narrowed by the optional filters,
// in board order.
func (r *TaskRepository) FindByProject(projectID uuid.UUID, filters models.TaskFilters) ([]models.Task, error) {
	query := r.db.Where("project_id = ?", projectID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}
	if filters.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filters.AssignedTo)
	}
	if filters.Tag != nil {
		// Tags are stored as a JSON array; @> avoids the jsonb ? operator,
		// which collides with the placeholder syntax.
		needle, err := json.Marshal([]string{*filters.Tag})
		if err != nil {
			return nil, fmt.Errorf("failed to encode tag filter: %w", err)
		}
		query = query.Where("tags::jsonb @> ?", string(needle))
	}

	var tasks []models.Task
	if err := query.Order("status ASC, position ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(task *models.Task) error {
	result := r.db.Model(&models.Task{}).Where("id = ?", task.ID).Updates(map[string]interface{}{
		"title":       task.Title,
		"description": task.Description,
		"board_id":    task.BoardID,
		"priority":    task.Priority,
		"assigned_to": task.AssignedTo,
		"due_date":    task.DueDate,
		"tags":        task.Tags,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Move places the task in a new status column at the given position and
// shifts the tasks below it down by one.
func (r *TaskRepository) Move(id uuid.UUID, status models.TaskStatus, position int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("id = ?", id).First(&task).Error; err != nil {
			return err
		}

		err := tx.Model(&models.Task{}).
			Where("project_id = ? AND status = ? AND position >= ? AND id != ?",
				task.ProjectID, status, position, id).
			Update("position", gorm.Expr("position + 1")).Error
		if err != nil {
			return fmt.Errorf("failed to shift tasks: %w", err)
		}

		err = tx.Model(&models.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":   status,
			"position": position,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to move task: %w", err)
		}
		return nil
	})
}

// Delete removes the task and its comments.
func (r *TaskRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskComment{}).Error; err != nil {
			return fmt.Errorf("failed to delete task comments: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&models.Task{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete task: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
