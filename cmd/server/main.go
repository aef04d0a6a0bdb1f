package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/teamplane/board-api/internal/board"
	"github.com/teamplane/board-api/internal/config"
	"github.com/teamplane/board-api/internal/constants"
	"github.com/teamplane/board-api/internal/database"
	"github.com/teamplane/board-api/internal/drafts"
	"github.com/teamplane/board-api/internal/handlers"
	"github.com/teamplane/board-api/internal/middleware"
	"github.com/teamplane/board-api/internal/repository"
	"github.com/teamplane/board-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	store, err := redisStore.NewStore(
		10,    // Redis pool size
		"tcp", // network type
		cfg.RedisAddr(),
		"", // username (empty for default user)
		"", // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions("board_session", store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	boardRepo := repository.NewBoardRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo)
	categoryService := services.NewCategoryService(categoryRepo)

	// Board stores, one per project, shared across requests
	notifier := board.NewZapNotifier(logger)
	boardManager := board.NewManager(boardRepo, notifier)

	// Form draft persistence
	draftBackend := drafts.NewRedisBackend(cfg.RedisAddr(), logger)
	draftService := drafts.NewService(draftBackend,
		drafts.WithDebounce(constants.DraftDebounce),
		drafts.WithTTL(constants.DraftTTL),
	)
	defer draftService.Close()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	boardHandler := handlers.NewBoardHandler(boardManager, boardRepo)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	draftHandler := handlers.NewDraftHandler(draftService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Board API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.POST("/join", projectHandler.JoinProject)

			member := projects.Group("/:id", middleware.RequireProjectAccess())
			{
				member.GET("", projectHandler.GetProject)
				member.PUT("", middleware.RequireProjectOwner(), projectHandler.UpdateProject)
				member.DELETE("", middleware.RequireProjectOwner(), projectHandler.DeleteProject)
				member.POST("/regenerate-code", middleware.RequireProjectOwner(), projectHandler.RegenerateInviteCode)
				member.DELETE("/members/:user_id", middleware.RequireProjectOwner(), projectHandler.RemoveMember)

				// Board
				member.GET("/board", boardHandler.GetBoard)
				member.GET("/tasks", boardHandler.ListTasks)
				member.POST("/tasks", middleware.RequireProjectEditor(), boardHandler.CreateTask)
				member.PATCH("/tasks/:task_id", middleware.RequireProjectEditor(), boardHandler.UpdateTask)
				member.POST("/tasks/:task_id/move", middleware.RequireProjectEditor(), boardHandler.MoveTask)
				member.DELETE("/tasks/:task_id", middleware.RequireProjectEditor(), boardHandler.DeleteTask)

				// Categories
				member.GET("/categories", categoryHandler.ListCategories)
				member.POST("/categories", middleware.RequireProjectEditor(), categoryHandler.CreateCategory)
				member.PUT("/categories/:category_id", middleware.RequireProjectEditor(), categoryHandler.UpdateCategory)
				member.DELETE("/categories/:category_id", middleware.RequireProjectEditor(), categoryHandler.DeleteCategory)

				// Create-form drafts
				member.GET("/drafts/new", draftHandler.GetDraft)
				member.PUT("/drafts/new", middleware.RequireProjectEditor(), draftHandler.SaveDraft)
				member.DELETE("/drafts/new", middleware.RequireProjectEditor(), draftHandler.DeleteDraft)
			}
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
