package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-service/internal/models"
	"taskboard-service/internal/repositories/postgres"
)

type CommentService struct {
	repo     *postgres.CommentRepository
	tasks    *postgres.TaskRepository
	projects *ProjectService
}

func NewCommentService(repo *postgres.CommentRepository, tasks *postgres.TaskRepository, projects *ProjectService) *CommentService {
	return &CommentService{
		repo:     repo,
		tasks:    tasks,
		projects: projects,
	}
}

// Create adds a comment to the task. Guests are read-only; every other role
// may comment. The task's project id is returned for the realtime
// announcement.
func (s *CommentService) Create(actorID, taskID uuid.UUID, req *models.CreateCommentRequest) (*models.TaskComment, uuid.UUID, error) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uuid.Nil, ErrNotFound
		}
		return nil, uuid.Nil, err
	}

	role, err := s.projects.GetUserRole(task.ProjectID, actorID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if role == models.ProjectRoleGuest {
		return nil, uuid.Nil, ErrForbidden
	}

	comment := models.TaskComment{
		TaskID:  taskID,
		UserID:  actorID,
		Content: req.Content,
	}
	if err := s.repo.Create(&comment); err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &comment, task.ProjectID, nil
}

func (s *CommentService) List(actorID, taskID uuid.UUID) ([]models.TaskCommentResponse, error) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.projects.GetUserRole(task.ProjectID, actorID); err != nil {
		return nil, err
	}
	return s.repo.FindByTask(taskID)
}

// Delete removes a comment. Allowed for its author and for project admins.
// The comment and its project id are returned for the realtime announcement.
func (s *CommentService) Delete(actorID, commentID uuid.UUID) (*models.TaskComment, uuid.UUID, error) {
	comment, err := s.repo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uuid.Nil, ErrNotFound
		}
		return nil, uuid.Nil, err
	}

	task, err := s.tasks.FindByID(comment.TaskID)
	if err != nil {
		return nil, uuid.Nil, err
	}

	if comment.UserID != actorID {
		role, err := s.projects.GetUserRole(task.ProjectID, actorID)
		if err != nil {
			return nil, uuid.Nil, err
		}
		if role != models.ProjectRoleAdmin {
			return nil, uuid.Nil, ErrForbidden
		}
	}

	if err := s.repo.Delete(commentID); err != nil {
		return nil, uuid.Nil, err
	}
	return comment, task.ProjectID, nil
}
