package services

import (
	"context"
	"errors"
	"fmt"

	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-service/internal/models"
	"taskboard-service/internal/repositories/postgres"
)

// ProjectService owns projects and their membership. It doubles as the
// realtime layer's membership oracle: subscription checks land on
// IsProjectMember.
type ProjectService struct {
	repo  *postgres.ProjectRepository
	teams *postgres.TeamRepository
}

func NewProjectService(repo *postgres.ProjectRepository, teams *postgres.TeamRepository) *ProjectService {
	return &ProjectService{
		repo:  repo,
		teams: teams,
	}
}

// IsProjectMember answers the realtime subscription authorization check.
func (s *ProjectService) IsProjectMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	return s.repo.IsMember(projectID, userID)
}

func (s *ProjectService) Create(actorID uuid.UUID, req *models.CreateProjectRequest) (*models.Project, error) {
	// Projects live inside a team; only its members can create them.
	member, err := s.teams.IsMember(req.TeamID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrForbidden
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      req.TeamID,
		CreatedBy:   actorID,
		Color:       req.Color,
		IsActive:    true,
	}
	if err := s.repo.Create(&project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	slog.Info("Project created", "projectID", project.ID, "teamID", project.TeamID, "createdBy", actorID)
	return &project, nil
}

func (s *ProjectService) Get(actorID, projectID uuid.UUID) (*models.Project, error) {
	member, err := s.repo.IsMember(projectID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrForbidden
	}

	project, err := s.repo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) ListForUser(userID uuid.UUID) ([]models.Project, error) {
	return s.repo.FindByUser(userID)
}

func (s *ProjectService) ListForTeam(actorID, teamID uuid.UUID) ([]models.Project, error) {
	member, err := s.teams.IsMember(teamID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrForbidden
	}
	return s.repo.FindByTeam(teamID)
}

func (s *ProjectService) Update(actorID, projectID uuid.UUID, req *models.UpdateProjectRequest) (*models.Project, error) {
	if err := s.requireAdmin(projectID, actorID); err != nil {
		return nil, err
	}

	project, err := s.repo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Color != nil {
		project.Color = *req.Color
	}
	if err := s.repo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) Archive(actorID, projectID uuid.UUID) error {
	if err := s.requireAdmin(projectID, actorID); err != nil {
		return err
	}
	if err := s.repo.Archive(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	slog.Info("Project archived", "projectID", projectID, "archivedBy", actorID)
	return nil
}

func (s *ProjectService) AddMember(actorID, projectID uuid.UUID, req *models.AddProjectMemberRequest) (*models.ProjectMember, error) {
	if err := s.requireAdmin(projectID, actorID); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.ProjectRoleMember
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	already, err := s.repo.IsMember(projectID, req.UserID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrAlreadyMember
	}

	member := models.ProjectMember{
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      role,
	}
	if err := s.repo.AddMember(&member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *ProjectService) RemoveMember(actorID, projectID, userID uuid.UUID) error {
	if actorID != userID {
		if err := s.requireAdmin(projectID, actorID); err != nil {
			return err
		}
	}
	if err := s.repo.RemoveMember(projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// GetUserRole is used by the task and comment services for authorization.
func (s *ProjectService) GetUserRole(projectID, userID uuid.UUID) (models.ProjectRole, error) {
	role, err := s.repo.GetMemberRole(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrForbidden
		}
		return "", err
	}
	return role, nil
}

func (s *ProjectService) requireAdmin(projectID, userID uuid.UUID) error {
	role, err := s.GetUserRole(projectID, userID)
	if err != nil {
		return err
	}
	if role != models.ProjectRoleAdmin {
		return ErrForbidden
	}
	return nil
}
