package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard-service/internal/api/middleware"
	"taskboard-service/internal/database"
	"taskboard-service/internal/models"
	"taskboard-service/internal/services"
)

const maxAvatarSize = 5 << 20 // 5 MiB

type UserHandler struct {
	userService  *services.UserService
	redisService *services.RedisService
	storage      *database.MinIOClient
}

func NewUserHandler(userService *services.UserService, redisService *services.RedisService, storage *database.MinIOClient) *UserHandler {
	return &UserHandler{
		userService:  userService,
		redisService: redisService,
		storage:      storage,
	}
}

// GetProfile godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.UserResponse
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UploadAvatar godoc
// @Summary Upload a profile picture
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} models.UserResponse
// @Router /users/avatar [post]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		respondBadRequest(c, "avatar file is required")
		return
	}
	if file.Size > maxAvatarSize {
		respondBadRequest(c, "avatar exceeds the 5 MiB limit")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	url, err := h.storage.UploadAvatar(ctx, file)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.userService.SetAvatarURL(userID, url)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SearchUsers godoc
// @Summary Search users by username
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username query string true "Partial username"
// @Success 200 {array} models.UserSummary
// @Router /users/search [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		respondBadRequest(c, "username query parameter is required")
		return
	}

	users, err := h.userService.SearchUsers(username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetOnlineUsers godoc
// @Summary List currently online users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /users/online [get]
func (h *UserHandler) GetOnlineUsers(c *gin.Context) {
	users, err := h.redisService.GetOnlineUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"online_users": users, "count": len(users)})
}
