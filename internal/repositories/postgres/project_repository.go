package postgres

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-service/internal/models"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create stores the project and enrolls the creator as its admin in one
// transaction.
func (r *ProjectRepository) Create(project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    project.CreatedBy,
			Role:      models.ProjectRoleAdmin,
		}
		if err := tx.Create(&member).Error; err != nil {
			return fmt.Errorf("failed to add project creator: %w", err)
		}
		return nil
	})
}

func (r *ProjectRepository) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.Preload("Members").Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByUser lists the active projects the user is a member of.
func (r *ProjectRepository) FindByUser(userID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ? AND projects.is_active", userID).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// FindByTeam lists the active projects owned by the team.
func (r *ProjectRepository) FindByTeam(teamID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("team_id = ? AND is_active", teamID).Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list team projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) Update(project *models.Project) error {
	result := r.db.Model(&models.Project{}).Where("id = ?", project.ID).Updates(map[string]interface{}{
		"name":        project.Name,
		"description": project.Description,
		"color":       project.Color,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Archive soft-disables the project; its data stays queryable for exports.
func (r *ProjectRepository) Archive(id uuid.UUID) error {
	result := r.db.Model(&models.Project{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to archive project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProjectRepository) AddMember(member *models.ProjectMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return fmt.Errorf("failed to add project member: %w", err)
	}
	return nil
}

func (r *ProjectRepository) RemoveMember(projectID, userID uuid.UUID) error {
	result := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&models.ProjectMember{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove project member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetMemberRole returns the user's role in the project, or
// gorm.ErrRecordNotFound when they are not a member.
func (r *ProjectRepository) GetMemberRole(projectID, userID uuid.UUID) (models.ProjectRole, error) {
	var member models.ProjectMember
	err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

func (r *ProjectRepository) IsMember(projectID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check project membership: %w", err)
	}
	return count > 0, nil
}
