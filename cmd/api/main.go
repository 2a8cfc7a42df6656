package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/comedialab/comedia-api/internal/config"
	"github.com/comedialab/comedia-api/internal/database"
	"github.com/comedialab/comedia-api/internal/handlers"
	"github.com/comedialab/comedia-api/internal/jobs"
	"github.com/comedialab/comedia-api/internal/middleware"
	"github.com/comedialab/comedia-api/internal/repository"
	"github.com/comedialab/comedia-api/internal/services"
	"github.com/comedialab/comedia-api/internal/storage"
	"github.com/comedialab/comedia-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Comédia API
// @version 1.0
// @description Back-office REST API for the Comédia theatre company CMS

// @contact.name API Support
// @contact.email tech@comedialab.fr

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, store, worker, cfg)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, store)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Protected routes (requires a platform-issued token)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// Audit trail (admin only)
				admin.GET("/audits", h.Audit.Index)
				admin.GET("/audits/export", h.Audit.Export)
				admin.GET("/audits/filter_options", h.Audit.FilterOptions)

				// Destructive media operations (admin only)
				admin.POST("/media/bulk_delete", h.Media.BulkDelete)
				admin.DELETE("/media/folders/:folder_id", h.Media.DeleteFolder)

				// Partner and team management (admin only)
				admin.POST("/partners", h.Partner.Create)
				admin.PUT("/partners/:partner_id", h.Partner.Update)
				admin.DELETE("/partners/:partner_id", h.Partner.Delete)
				admin.POST("/team", h.Partner.TeamCreate)
				admin.PUT("/team/:member_id", h.Partner.TeamUpdate)
				admin.DELETE("/team/:member_id", h.Partner.TeamDelete)
			}

			// Editor + Admin routes (content management)
			editor := protected.Group("")
			editor.Use(middleware.RequireRole("admin", "editor"))
			{
				// Spectacles
				editor.GET("/spectacles", h.Spectacle.Index)
				editor.GET("/spectacles/:spectacle_id", h.Spectacle.Show)
				editor.POST("/spectacles", h.Spectacle.Create)
				editor.PUT("/spectacles/:spectacle_id", h.Spectacle.Update)
				editor.DELETE("/spectacles/:spectacle_id", h.Spectacle.Delete)
				editor.POST("/spectacles/:spectacle_id/publish", h.Spectacle.Publish)
				editor.POST("/spectacles/:spectacle_id/unpublish", h.Spectacle.Unpublish)
				editor.POST("/spectacles/:spectacle_id/archive", h.Spectacle.Archive)
				editor.POST("/spectacles/:spectacle_id/restore", h.Spectacle.Restore)
				editor.GET("/spectacles/:spectacle_id/press_kit_pdf", h.Spectacle.PressKitPDF)

				// Press review
				editor.GET("/press", h.Press.Index)
				editor.GET("/press/:article_id", h.Press.Show)
				editor.POST("/press", h.Press.Create)
				editor.PUT("/press/:article_id", h.Press.Update)
				editor.DELETE("/press/:article_id", h.Press.Delete)

				// Media library
				// Static routes first so "folders" is not matched as :asset_id
				editor.GET("/media/folders", h.Media.Folders)
				editor.POST("/media/folders", h.Media.CreateFolder)
				editor.GET("/media", h.Media.Index)
				editor.POST("/media", h.Media.Upload)
				editor.POST("/media/bulk_move", h.Media.BulkMove)
				editor.POST("/media/bulk_tag", h.Media.BulkTag)
				editor.GET("/media/:asset_id", h.Media.Show)

				// Analytics dashboard
				analytics := editor.Group("/analytics")
				{
					analytics.GET("", h.Analytics.Overview)
					analytics.GET("/activity", h.Analytics.Activity)
					analytics.GET("/export", h.Analytics.Export)
				}
			}

			// All authenticated users (read-only public-facing data)
			protected.GET("/partners", h.Partner.Index)
			protected.GET("/team", h.Partner.TeamIndex)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Refresh analytics cache every 15 minutes
	worker.ScheduleEvery(15*time.Minute, func(ctx context.Context) error {
		logger.Info("[Job] Refreshing analytics cache...")
		return svcs.Analytics.RefreshCache(ctx)
	})

	// Drop expired analytics cache entries every hour
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Cleaning expired analytics cache...")
		return svcs.Analytics.CleanExpiredCache(ctx)
	})

	// Purge audit logs past their retention window once a day
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Purging expired audit logs...")
		purged, err := svcs.Audit.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		if purged > 0 {
			logger.Info("[Job] Purged audit logs", "count", purged)
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
