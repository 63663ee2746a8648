package postgres

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-service/internal/models"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *models.TaskComment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) FindByID(id uuid.UUID) (*models.TaskComment, error) {
	var comment models.TaskComment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindByTask lists a task's comments oldest first, joined with each author's
// public profile.
func (r *CommentRepository) FindByTask(taskID uuid.UUID) ([]models.TaskCommentResponse, error) {
	var comments []models.TaskComment
	err := r.db.Where("task_id = ?", taskID).Order("created_at ASC").Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	userIDs := make([]uuid.UUID, 0, len(comments))
	seen := make(map[uuid.UUID]bool)
	for _, c := range comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			userIDs = append(userIDs, c.UserID)
		}
	}

	users := make(map[uuid.UUID]models.UserSummary, len(userIDs))
	if len(userIDs) > 0 {
		var authors []models.User
		if err := r.db.Where("id IN ?", userIDs).Find(&authors).Error; err != nil {
			return nil, fmt.Errorf("failed to load comment authors: %w", err)
		}
		for _, u := range authors {
			users[u.ID] = u.Summary()
		}
	}

	out := make([]models.TaskCommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, models.TaskCommentResponse{
			TaskComment: c,
			User:        users[c.UserID],
		})
	}
	return out, nil
}

func (r *CommentRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.TaskComment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
