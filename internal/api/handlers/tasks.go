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

type TaskHandler struct {
	taskService *services.TaskService
	userService *services.UserService
	broadcaster *realtime.Broadcaster
}

func NewTaskHandler(taskService *services.TaskService, userService *services.UserService, broadcaster *realtime.Broadcaster) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		userService: userService,
		broadcaster: broadcaster,
	}
}

func (h *TaskHandler) actorSummary(c *gin.Context, userID uuid.UUID) models.UserSummary {
	summary, err := h.userService.Summary(c.Request.Context(), userID)
	if err != nil {
		return models.UserSummary{ID: userID}
	}
	return summary
}

// CreateTask godoc
// @Summary Create a task in a project
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body models.CreateTaskRequest true "Task data"
// @Success 201 {object} models.Task
// @Router /projects/{id}/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Create(userID, projectID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcaster.BroadcastToProject(projectID,
		realtime.NewTaskCreated(*task, h.actorSummary(c, userID)), userID)
	c.JSON(http.StatusCreated, task)
}

// ListTasks godoc
// @Summary List a project's tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param assigned_to query string false "Filter by assignee"
// @Param tag query string false "Filter by tag"
// @Success 200 {array} models.Task
// @Router /projects/{id}/tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var filters models.TaskFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	tasks, err := h.taskService.List(userID, projectID, filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTask godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} models.Task
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	taskID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask godoc
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body models.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} models.Task
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	taskID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Update(userID, taskID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcaster.BroadcastToProject(task.ProjectID,
		realtime.NewTaskUpdated(*task, h.actorSummary(c, userID)), userID)
	c.JSON(http.StatusOK, task)
}

// MoveTask godoc
// @Summary Move a task to another column
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body models.MoveTaskRequest true "Target status and position"
// @Success 200 {object} models.Task
// @Router /tasks/{id}/move [patch]
func (h *TaskHandler) MoveTask(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	taskID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	task, fromStatus, err := h.taskService.Move(userID, taskID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcaster.BroadcastToProject(task.ProjectID,
		realtime.NewTaskMoved(task.ID, fromStatus, task.Status, task.Position, task.ProjectID,
			h.actorSummary(c, userID)), userID)
	c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete a task and its comments
// @Tags tasks
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 204
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	taskID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Delete(userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcaster.BroadcastToProject(task.ProjectID,
		realtime.NewTaskDeleted(task.ID, task.ProjectID), userID)
	c.Status(http.StatusNoContent)
}
