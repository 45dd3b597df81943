package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"go-course-backend/config"
	_ "go-course-backend/docs" // Important for Swagger
	v1 "go-course-backend/internal/delivery/http/v1"
	"go-course-backend/internal/repository/postgres"
	"go-course-backend/internal/usecase"
	"go-course-backend/pkg/auth"
	"go-course-backend/pkg/cache"
	"go-course-backend/pkg/database"
	"go-course-backend/pkg/logger"
	"go-course-backend/pkg/redis"
	"go-course-backend/pkg/storage"
	"go-course-backend/pkg/validation"
)

// @title           Course Platform Backend API
// @version         1.0
// @description     Backend for the course platform: catalog, progress tracking and admin content management.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting course backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// Probe migration status once; identity lookups branch on it.
	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 5*time.Second)
	schemaState := postgres.ProbeSchema(schemaCtx, dbPool)
	schemaCancel()
	if !schemaState.HasAuthUID {
		logger.Log.Warn("users.auth_uid column missing, identity bridge running in email-fallback mode")
	}

	// 4. Setup Redis + Cache
	if err := redis.Initialize(redis.Config{
		URL:      cfg.UpstashRedisURL,
		Password: cfg.UpstashRedisPassword,
	}); err != nil {
		logger.Log.Warn("Redis unavailable, cache and rate limiting run in-process only", "error", err)
	}
	defer redis.Close()
	appCache := cache.New(redis.Client(), logger.Log)

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	courseRepo := postgres.NewCourseRepository(dbPool)
	lessonRepo := postgres.NewLessonRepository(dbPool)
	progressRepo := postgres.NewProgressRepository(dbPool)

	// 6. Setup UseCases
	identityUC := usecase.NewIdentityUsecase(userRepo, appCache, schemaState, logger.Log)
	progressUC := usecase.NewProgressUsecase(userRepo, courseRepo, lessonRepo, progressRepo, appCache, schemaState, logger.Log)
	courseUC := usecase.NewCourseUsecase(courseRepo, lessonRepo, appCache, logger.Log)
	lessonUC := usecase.NewLessonUsecase(courseRepo, lessonRepo, appCache, logger.Log)
	statsUC := usecase.NewStatsUsecase(courseRepo, lessonRepo, userRepo, progressRepo, appCache, logger.Log)

	// 7. Setup Token Verifier
	var jwksProvider *auth.Provider
	if cfg.AuthJWKSURL != "" {
		jwksProvider = auth.NewProvider(cfg.AuthJWKSURL)
	}
	verifier := auth.NewVerifier(cfg.AuthJWTSecret, jwksProvider, logger.Log)

	// 8. Setup Object Storage (optional)
	var uploader storage.Uploader
	storageCfg := storage.NewConfigFromEnv()
	if storageCfg.IsConfigured() {
		uploader, err = storage.NewUploader(context.Background(), storageCfg)
		if err != nil {
			logger.Log.Warn("Object storage setup failed, media uploads disabled", "error", err)
		}
	} else {
		logger.Log.Warn("Object storage not configured, media uploads disabled")
	}

	// Custom validators for request binding
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		IdentityUC: identityUC,
		ProgressUC: progressUC,
		CourseUC:   courseUC,
		LessonUC:   lessonUC,
		StatsUC:    statsUC,
		Verifier:   verifier,
		Cache:      appCache,
		Uploader:   uploader,
		Config:     cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
