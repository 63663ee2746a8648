package services

import (
	"errors"
	"fmt"

	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-service/internal/models"
	"taskboard-service/internal/repositories/postgres"
)

type TaskService struct {
	repo     *postgres.TaskRepository
	projects *ProjectService
}

func NewTaskService(repo *postgres.TaskRepository, projects *ProjectService) *TaskService {
	return &TaskService{
		repo:     repo,
		projects: projects,
	}
}

func (s *TaskService) Create(actorID, projectID uuid.UUID, req *models.CreateTaskRequest) (*models.Task, error) {
	if err := s.requireEditor(projectID, actorID); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, priority)
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   projectID,
		BoardID:     req.BoardID,
		Status:      models.TaskStatusTodo,
		Priority:    priority,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   actorID,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	}
	if err := s.repo.Create(&task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	slog.Debug("Task created", "taskID", task.ID, "projectID", projectID, "createdBy", actorID)
	return &task, nil
}

func (s *TaskService) Get(actorID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.repo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.projects.GetUserRole(task.ProjectID, actorID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) List(actorID, projectID uuid.UUID, filters models.TaskFilters) ([]models.Task, error) {
	if _, err := s.projects.GetUserRole(projectID, actorID); err != nil {
		return nil, err
	}
	return s.repo.FindByProject(projectID, filters)
}

func (s *TaskService) Update(actorID, taskID uuid.UUID, req *models.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.repo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.requireEditor(task.ProjectID, actorID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.BoardID != nil {
		task.BoardID = req.BoardID
	}
	if req.Priority != nil {
		if !req.Priority.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Priority)
		}
		task.Priority = *req.Priority
	}
	if req.AssignedTo != nil {
		task.AssignedTo = req.AssignedTo
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Tags != nil {
		task.Tags = req.Tags
	}

	if err := s.repo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Move transitions the task to a new status column. The previous status is
// returned alongside the updated task for the realtime announcement.
func (s *TaskService) Move(actorID, taskID uuid.UUID, req *models.MoveTaskRequest) (*models.Task, models.TaskStatus, error) {
	if !req.Status.IsValid() {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	task, err := s.repo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	if err := s.requireEditor(task.ProjectID, actorID); err != nil {
		return nil, "", err
	}

	fromStatus := task.Status
	if err := s.repo.Move(taskID, req.Status, req.Position); err != nil {
		return nil, "", fmt.Errorf("failed to move task: %w", err)
	}

	task.Status = req.Status
	task.Position = req.Position

	slog.Debug("Task moved", "taskID", taskID, "from", fromStatus, "to", req.Status, "movedBy", actorID)
	return task, fromStatus, nil
}

// Delete removes the task. The task is returned so the caller can announce
// which project it belonged to.
func (s *TaskService) Delete(actorID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.repo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.requireEditor(task.ProjectID, actorID); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(taskID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) requireEditor(projectID, userID uuid.UUID) error {
	role, err := s.projects.GetUserRole(projectID, userID)
	if err != nil {
		return err
	}
	if !role.CanEdit() {
		return ErrForbidden
	}
	return nil
}
