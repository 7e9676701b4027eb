package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"lifecycle-cms/config"
	"lifecycle-cms/handlers"
	"lifecycle-cms/middleware"
	"lifecycle-cms/repositories"
	"lifecycle-cms/scheduler"
	"lifecycle-cms/services"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using process environment")
	}

	// Initialize database
	db := config.InitDB()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	versionRepo := repositories.NewArticleVersionRepository(db)
	tagRepo := repositories.NewTagRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	articleService := services.NewArticleService(
		articleRepo,
		versionRepo,
		tagRepo,
		services.LifecycleConfig{
			RetentionWindow:  config.RetentionWindow,
			FreeArticleLimit: config.FreePlanArticleLimit,
		},
		time.Now,
		logger,
	)
	tagService := services.NewTagService(tagRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	articleHandler := handlers.NewArticleHandler(articleService)
	tagHandler := handlers.NewTagHandler(tagService)

	// Background sweepers
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	publisher := scheduler.NewScheduledPublisher(
		articleService, config.PublishSweepInterval, config.SweepOperationTimeout, logger)
	retention := scheduler.NewRetentionScheduler(
		articleService, config.RetentionSweepInterval, config.SweepOperationTimeout, logger)

	if err := publisher.Start(ctx); err != nil {
		logger.Fatal("failed to start scheduled publisher", zap.Error(err))
	}
	if err := retention.Start(ctx); err != nil {
		logger.Fatal("failed to start retention scheduler", zap.Error(err))
	}

	// Setup router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// Profile
			protected.GET("/profile", authHandler.GetProfile)

			// Articles
			articles := protected.Group("/articles")
			{
				articles.POST("", articleHandler.CreateArticle)
				articles.GET("", articleHandler.GetArticles)
				articles.GET("/:id", articleHandler.GetArticle)
				articles.PUT("/:id", articleHandler.SaveContent)
				articles.POST("/:id/schedule", articleHandler.Schedule)
				articles.POST("/:id/unschedule", articleHandler.Unschedule)
				articles.POST("/:id/publish", articleHandler.Publish)
				articles.POST("/:id/unpublish", articleHandler.Unpublish)
				articles.DELETE("/:id", articleHandler.SoftDelete)
				articles.POST("/:id/restore", articleHandler.Restore)
				articles.DELETE("/:id/purge", articleHandler.Purge)
				articles.GET("/:id/versions", articleHandler.GetVersions)
				articles.GET("/:id/versions/:number", articleHandler.GetVersion)
				articles.POST("/:id/versions/:number/restore", articleHandler.RestoreVersion)
			}

			// Tags
			tags := protected.Group("/tags")
			{
				tags.POST("", tagHandler.CreateTag)
				tags.GET("", tagHandler.GetTags)
				tags.GET("/trending", tagHandler.GetTrendingTags)
				tags.GET("/:id", tagHandler.GetTag)
			}
		}

		// Public article routes (published only)
		public := v1.Group("/public")
		{
			public.GET("/articles", articleHandler.GetPublicArticles)
			public.GET("/articles/:id", articleHandler.GetPublicArticle)
		}
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		logger.Info("server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	publisher.Stop(shutdownCtx)
	retention.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown incomplete", zap.Error(err))
	}
}
