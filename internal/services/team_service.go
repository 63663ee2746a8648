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

type TeamService struct {
	repo *postgres.TeamRepository
}

func NewTeamService(repo *postgres.TeamRepository) *TeamService {
	return &TeamService{repo: repo}
}

func (s *TeamService) Create(actorID uuid.UUID, req *models.CreateTeamRequest) (*models.Team, error) {
	team := models.Team{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actorID,
	}
	if err := s.repo.Create(&team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	slog.Info("Team created", "teamID", team.ID, "createdBy", actorID)
	return &team, nil
}

func (s *TeamService) Get(actorID, teamID uuid.UUID) (*models.Team, error) {
	member, err := s.repo.IsMember(teamID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrForbidden
	}

	team, err := s.repo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *TeamService) ListForUser(userID uuid.UUID) ([]models.Team, error) {
	return s.repo.FindByUser(userID)
}

func (s *TeamService) Update(actorID, teamID uuid.UUID, req *models.UpdateTeamRequest) (*models.Team, error) {
	if err := s.requireAdmin(teamID, actorID); err != nil {
		return nil, err
	}

	team, err := s.repo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.Description != nil {
		team.Description = *req.Description
	}
	if err := s.repo.Update(team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return team, nil
}

func (s *TeamService) Delete(actorID, teamID uuid.UUID) error {
	if err := s.requireAdmin(teamID, actorID); err != nil {
		return err
	}
	if err := s.repo.Delete(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	slog.Info("Team deleted", "teamID", teamID, "deletedBy", actorID)
	return nil
}

func (s *TeamService) AddMember(actorID, teamID uuid.UUID, req *models.AddTeamMemberRequest) (*models.TeamMember, error) {
	if err := s.requireAdmin(teamID, actorID); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.TeamRoleMember
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	already, err := s.repo.IsMember(teamID, req.UserID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrAlreadyMember
	}

	member := models.TeamMember{
		TeamID: teamID,
		UserID: req.UserID,
		Role:   role,
	}
	if err := s.repo.AddMember(&member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *TeamService) RemoveMember(actorID, teamID, userID uuid.UUID) error {
	// Members may leave on their own; removing someone else takes admin.
	if actorID != userID {
		if err := s.requireAdmin(teamID, actorID); err != nil {
			return err
		}
	}
	if err := s.repo.RemoveMember(teamID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *TeamService) requireAdmin(teamID, userID uuid.UUID) error {
	role, err := s.repo.GetMemberRole(teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		return err
	}
	if role != models.TeamRoleAdmin {
		return ErrForbidden
	}
	return nil
}
