package postgres

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-service/internal/models"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(board *models.Board) error {
	if err := r.db.Create(board).Error; err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}
	return nil
}

func (r *BoardRepository) FindByID(id uuid.UUID) (*models.Board, error) {
	var board models.Board
	if err := r.db.Where("id = ?", id).First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *BoardRepository) FindByProject(projectID uuid.UUID) ([]models.Board, error) {
	var boards []models.Board
	err := r.db.Where("project_id = ?", projectID).Order("position ASC").Find(&boards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

func (r *BoardRepository) Update(board *models.Board) error {
	result := r.db.Model(&models.Board{}).Where("id = ?", board.ID).Updates(map[string]interface{}{
		"name":     board.Name,
		"position": board.Position,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update board: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the board and detaches its tasks rather than deleting them:
// the tasks fall back to the project backlog.
func (r *BoardRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("board_id = ?", id).Update("board_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach board tasks: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&models.Board{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete board: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
