package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskboard-service/internal/api/handlers"
	"taskboard-service/internal/api/middleware"
	"taskboard-service/internal/config"
	"taskboard-service/internal/database"
	"taskboard-service/internal/realtime"
	"taskboard-service/internal/repositories/postgres"
	"taskboard-service/internal/services"
)

type Router struct {
	engine          *gin.Engine
	realtimeHandler *handlers.RealtimeHandler
	authHandler     *handlers.AuthHandler
	userHandler     *handlers.UserHandler
	teamHandler     *handlers.TeamHandler
	projectHandler  *handlers.ProjectHandler
	boardHandler    *handlers.BoardHandler
	taskHandler     *handlers.TaskHandler
	commentHandler  *handlers.CommentHandler
	rateLimitMW     *middleware.RateLimitMiddleware
	authMW          *middleware.AuthMiddleware
}

// NewRouter wires the full dependency graph: repositories over the database,
// services over the repositories, the realtime hub over the services, and
// handlers over both.
func NewRouter(cfg *config.Config, db *gorm.DB, redisClient *database.RedisClient, storage *database.MinIOClient) (*Router, *realtime.Hub) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.LogApi())

	userRepo := postgres.NewUserRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	boardRepo := postgres.NewBoardRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	redisService := services.NewRedisService(redisClient)
	userService := services.NewUserService(userRepo, cfg.JWT.Secret, cfg.JWT.ExpirationTime)
	teamService := services.NewTeamService(teamRepo)
	projectService := services.NewProjectService(projectRepo, teamRepo)
	boardService := services.NewBoardService(boardRepo, projectService)
	taskService := services.NewTaskService(taskRepo, projectService)
	commentService := services.NewCommentService(commentRepo, taskRepo, projectService)

	hub := realtime.NewHub(userService, projectService, userService, redisService)
	broadcaster := hub.Broadcaster()

	return &Router{
		engine:          engine,
		realtimeHandler: handlers.NewRealtimeHandler(hub),
		authHandler:     handlers.NewAuthHandler(userService),
		userHandler:     handlers.NewUserHandler(userService, redisService, storage),
		teamHandler:     handlers.NewTeamHandler(teamService, projectService),
		projectHandler:  handlers.NewProjectHandler(projectService),
		boardHandler:    handlers.NewBoardHandler(boardService, userService, broadcaster),
		taskHandler:     handlers.NewTaskHandler(taskService, userService, broadcaster),
		commentHandler:  handlers.NewCommentHandler(commentService, userService, broadcaster),
		rateLimitMW:     middleware.NewRateLimitMiddleware(redisService),
		authMW:          middleware.NewAuthMiddleware(cfg.JWT.Secret),
	}, hub
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api/v1")

	// WebSocket endpoint; the token travels in the query string and is
	// verified in-band, so only the IP rate limit applies here.
	api.GET("/ws",
		r.rateLimitMW.WebSocketRateLimit(10, time.Minute),
		r.realtimeHandler.HandleWebSocket,
	)

	// Public routes
	authRoutes := api.Group("/auth")
	authRoutes.Use(r.rateLimitMW.RateLimitIP(50, time.Minute))
	{
		authRoutes.POST("/register", r.authHandler.Register)
		authRoutes.POST("/login", r.authHandler.Login)
	}

	// Authenticated routes
	auth := api.Group("/")
	auth.Use(r.authMW.RequireAuth())
	{
		auth.GET("/ws/stats", r.realtimeHandler.Stats)

		users := auth.Group("/users")
		users.Use(r.rateLimitMW.RateLimit(100, time.Minute))
		{
			users.GET("/profile", r.userHandler.GetProfile)
			users.PUT("/profile", r.userHandler.UpdateProfile)
			users.POST("/avatar", r.userHandler.UploadAvatar)
			users.GET("/search", r.userHandler.SearchUsers)
			users.GET("/online", r.userHandler.GetOnlineUsers)
		}

		teams := auth.Group("/teams")
		teams.Use(r.rateLimitMW.RateLimit(100, time.Minute))
		{
			teams.POST("", r.teamHandler.CreateTeam)
			teams.GET("", r.teamHandler.ListTeams)
			teams.GET("/:id", r.teamHandler.GetTeam)
			teams.PUT("/:id", r.teamHandler.UpdateTeam)
			teams.DELETE("/:id", r.teamHandler.DeleteTeam)
			teams.POST("/:id/members", r.teamHandler.AddTeamMember)
			teams.DELETE("/:id/members/:userId", r.teamHandler.RemoveTeamMember)
			teams.GET("/:id/projects", r.teamHandler.ListTeamProjects)
		}

		projects := auth.Group("/projects")
		projects.Use(r.rateLimitMW.RateLimit(100, time.Minute))
		{
			projects.POST("", r.projectHandler.CreateProject)
			projects.GET("", r.projectHandler.ListProjects)
			projects.GET("/:id", r.projectHandler.GetProject)
			projects.PUT("/:id", r.projectHandler.UpdateProject)
			projects.DELETE("/:id", r.projectHandler.ArchiveProject)
			projects.POST("/:id/members", r.projectHandler.AddProjectMember)
			projects.DELETE("/:id/members/:userId", r.projectHandler.RemoveProjectMember)

			projects.POST("/:id/boards", r.boardHandler.CreateBoard)
			projects.GET("/:id/boards", r.boardHandler.ListBoards)
			projects.POST("/:id/tasks", r.taskHandler.CreateTask)
			projects.GET("/:id/tasks", r.taskHandler.ListTasks)
		}

		boards := auth.Group("/boards")
		boards.Use(r.rateLimitMW.RateLimit(100, time.Minute))
		{
			boards.PUT("/:id", r.boardHandler.UpdateBoard)
			boards.DELETE("/:id", r.boardHandler.DeleteBoard)
		}

		tasks := auth.Group("/tasks")
		tasks.Use(r.rateLimitMW.RateLimit(200, time.Minute))
		{
			tasks.GET("/:id", r.taskHandler.GetTask)
			tasks.PUT("/:id", r.taskHandler.UpdateTask)
			tasks.PATCH("/:id/move", r.taskHandler.MoveTask)
			tasks.DELETE("/:id", r.taskHandler.DeleteTask)
			tasks.POST("/:id/comments", r.commentHandler.CreateComment)
			tasks.GET("/:id/comments", r.commentHandler.ListComments)
		}

		comments := auth.Group("/comments")
		comments.Use(r.rateLimitMW.RateLimit(200, time.Minute))
		{
			comments.DELETE("/:id", r.commentHandler.DeleteComment)
		}
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
