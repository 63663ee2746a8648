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

type CommentHandler struct {
	commentService *services.CommentService
	userService    *services.UserService
	broadcaster    *realtime.Broadcaster
}

func NewCommentHandler(commentService *services.CommentService, userService *services.UserService, broadcaster *realtime.Broadcaster) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		userService:    userService,
		broadcaster:    broadcaster,
	}
}

func (h *CommentHandler) actorSummary(c *gin.Context, userID uuid.UUID) models.UserSummary {
	summary, err := h.userService.Summary(c.Request.Context(), userID)
	if err != nil {
		return models.UserSummary{ID: userID}
	}
	return summary
}

// CreateComment godoc
// @Summary Comment on a task
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body models.CreateCommentRequest true "Comment data"
// @Success 201 {object} models.TaskCommentResponse
// @Router /tasks/{id}/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	taskID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	comment, projectID, err := h.commentService.Create(userID, taskID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	author := h.actorSummary(c, userID)
	h.broadcaster.BroadcastToProject(projectID,
		realtime.NewCommentCreated(*comment, projectID, author), userID)
	c.JSON(http.StatusCreated, models.TaskCommentResponse{TaskComment: *comment, User: author})
}

// ListComments godoc
// @Summary List a task's comments
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {array} models.TaskCommentResponse
// @Router /tasks/{id}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	taskID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.List(userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags comments
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 204
// @Router /comments/{id} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	commentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	comment, projectID, err := h.commentService.Delete(userID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcaster.BroadcastToProject(projectID,
		realtime.NewCommentDeleted(comment.ID, comment.TaskID, projectID), userID)
	c.Status(http.StatusNoContent)
}
