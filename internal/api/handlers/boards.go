package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard-service/internal/api/middleware"
	"taskboard-service/internal/models"
	"taskboard-service/internal/realtime"
	"taskboard-service/internal/services"
)

type BoardHandler struct {
	boardService *services.BoardService
	userService  *services.UserService
	broadcaster  *realtime.Broadcaster
}

func NewBoardHandler(boardService *services.BoardService, userService *services.UserService, broadcaster *realtime.Broadcaster) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		userService:  userService,
		broadcaster:  broadcaster,
	}
}

func (h *BoardHandler) actorSummary(c *gin.Context, userID uuid.UUID) models.UserSummary {
	summary, err := h.userService.Summary(c.Request.Context(), userID)
	if err != nil {
		return models.UserSummary{ID: userID}
	}
	return summary
}

// CreateBoard godoc
// @Summary Create a board in a project
// @Tags boards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body models.CreateBoardRequest true "Board data"
// @Success 201 {object} models.Board
// @Router /projects/{id}/boards [post]
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	board, err := h.boardService.Create(userID, projectID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcaster.BroadcastToProject(projectID,
		realtime.NewBoardCreated(*board, h.actorSummary(c, userID)), userID)
	c.JSON(http.StatusCreated, board)
}

// ListBoards godoc
// @Summary List a project's boards
// @Tags boards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {array} models.Board
// @Router /projects/{id}/boards [get]
func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	boards, err := h.boardService.List(userID, projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

// UpdateBoard godoc
// @Summary Update a board
// @Tags boards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Board ID"
// @Param request body models.UpdateBoardRequest true "Fields to update"
// @Success 200 {object} models.Board
// @Router /boards/{id} [put]
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	boardID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	board, err := h.boardService.Update(userID, boardID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcaster.BroadcastToProject(board.ProjectID,
		realtime.NewBoardUpdated(*board, h.actorSummary(c, userID)), userID)
	c.JSON(http.StatusOK, board)
}

// DeleteBoard godoc
// @Summary Delete a board, moving its tasks to the backlog
// @Tags boards
// @Security BearerAuth
// @Param id path string true "Board ID"
// @Success 204
// @Router /boards/{id} [delete]
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	boardID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	board, err := h.boardService.Delete(userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcaster.BroadcastToProject(board.ProjectID,
		realtime.NewBoardDeleted(board.ID, board.ProjectID), userID)
	c.Status(http.StatusNoContent)
}
