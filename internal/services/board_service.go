package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-service/internal/models"
	"taskboard-service/internal/repositories/postgres"
)

type BoardService struct {
	repo     *postgres.BoardRepository
	projects *ProjectService
}

func NewBoardService(repo *postgres.BoardRepository, projects *ProjectService) *BoardService {
	return &BoardService{
		repo:     repo,
		projects: projects,
	}
}

func (s *BoardService) Create(actorID, projectID uuid.UUID, req *models.CreateBoardRequest) (*models.Board, error) {
	if err := s.requireEditor(projectID, actorID); err != nil {
		return nil, err
	}

	board := models.Board{
		Name:      req.Name,
		ProjectID: projectID,
		Position:  req.Position,
	}
	if err := s.repo.Create(&board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	return &board, nil
}

func (s *BoardService) List(actorID, projectID uuid.UUID) ([]models.Board, error) {
	if _, err := s.projects.GetUserRole(projectID, actorID); err != nil {
		return nil, err
	}
	return s.repo.FindByProject(projectID)
}

func (s *BoardService) Update(actorID, boardID uuid.UUID, req *models.UpdateBoardRequest) (*models.Board, error) {
	board, err := s.repo.FindByID(boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.requireEditor(board.ProjectID, actorID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		board.Name = *req.Name
	}
	if req.Position != nil {
		board.Position = *req.Position
	}
	if err := s.repo.Update(board); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}
	return board, nil
}

// Delete removes the board; its tasks move back to the project backlog. The
// board is returned so the caller can announce which project it belonged to.
func (s *BoardService) Delete(actorID, boardID uuid.UUID) (*models.Board, error) {
	board, err := s.repo.FindByID(boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.requireEditor(board.ProjectID, actorID); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(boardID); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *BoardService) requireEditor(projectID, userID uuid.UUID) error {
	role, err := s.projects.GetUserRole(projectID, userID)
	if err != nil {
		return err
	}
	if !role.CanEdit() {
		return ErrForbidden
	}
	return nil
}
