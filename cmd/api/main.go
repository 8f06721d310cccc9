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
	"github.com/mosiqa/backend/internal/config"
	"github.com/mosiqa/backend/internal/handlers"
	"github.com/mosiqa/backend/internal/logger"
	"github.com/mosiqa/backend/internal/middleware"
	"github.com/mosiqa/backend/internal/models"
	"github.com/mosiqa/backend/internal/repository"
	"github.com/mosiqa/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	envLoaded := godotenv.Load() == nil

	// Initialize configuration and logging
	cfg := config.New()
	logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogPath,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   true,
	})
	defer logger.Sync()

	if !envLoaded {
		logger.Info("no .env file found, using environment variables")
	}

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	logger.Info("database connection established")

	// Run migrations
	if err := models.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize Redis
	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	trackRepo := repository.NewTrackRepository(db)
	audioFileRepo := repository.NewAudioFileRepository(db)
	coverImageRepo := repository.NewCoverImageRepository(db)

	// Initialize services
	var coverCache *services.CoverCache
	if cfg.CoverCacheEnabled {
		coverCache = services.NewCoverCache(redisClient, cfg.CoverCacheTTL)
	}
	fileStorageService := services.NewFileStorageService(audioFileRepo, coverImageRepo, coverCache)
	trackService := services.NewTrackService(trackRepo, fileStorageService)

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimiter(redisClient, cfg))

	// Initialize handlers
	trackHandler := handlers.NewTrackHandler(trackService)
	fileHandler := handlers.NewFileHandler(fileStorageService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup routes
	api := router.Group("/api/v1")
	{
		tracks := api.Group("/tracks")
		{
			tracks.GET("", trackHandler.GetAllTracks)
			// Specific routes BEFORE the generic :id route to avoid conflicts
			tracks.GET("/search", trackHandler.SearchTracks)
			tracks.GET("/category/:category", trackHandler.GetTracksByCategory)
			tracks.GET("/:id", trackHandler.GetTrackByID)
			tracks.POST("", trackHandler.CreateTrack)
			tracks.PUT("/:id", trackHandler.UpdateTrack)
			tracks.DELETE("/:id", trackHandler.DeleteTrack)
		}

		files := api.Group("/files")
		{
			files.GET("/audio/:id", fileHandler.GetAudioFile)
			files.GET("/cover/:id", fileHandler.GetCoverImage)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  120 * time.Second, // 2 min for large audio uploads
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
