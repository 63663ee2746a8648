package postgres

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-service/internal/models"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create stores the team and enrolls the creator as its admin in one
// transaction.
func (r *TeamRepository) Create(team *models.Team) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}
		member := models.TeamMember{
			TeamID: team.ID,
			UserID: team.CreatedBy,
			Role:   models.TeamRoleAdmin,
		}
		if err := tx.Create(&member).Error; err != nil {
			return fmt.Errorf("failed to add team creator: %w", err)
		}
		return nil
	})
}

func (r *TeamRepository) FindByID(id uuid.UUID) (*models.Team, error) {
	var team models.Team
	if err := r.db.Preload("Members").Where("id = ?", id).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByUser lists the teams the user belongs to.
func (r *TeamRepository) FindByUser(userID uuid.UUID) ([]models.Team, error) {
	var teams []models.Team
	err := r.db.
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Find(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

func (r *TeamRepository) Update(team *models.Team) error {
	result := r.db.Model(&models.Team{}).Where("id = ?", team.ID).Updates(map[string]interface{}{
		"name":        team.Name,
		"description": team.Description,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update team: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *TeamRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return fmt.Errorf("failed to delete team members: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&models.Team{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete team: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *TeamRepository) AddMember(member *models.TeamMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

func (r *TeamRepository) RemoveMember(teamID, userID uuid.UUID) error {
	result := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&models.TeamMember{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove team member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetMemberRole returns the user's role in the team, or
// gorm.ErrRecordNotFound when they are not a member.
func (r *TeamRepository) GetMemberRole(teamID, userID uuid.UUID) (models.TeamRole, error) {
	var member models.TeamMember
	err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

func (r *TeamRepository) IsMember(teamID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return count > 0, nil
}
