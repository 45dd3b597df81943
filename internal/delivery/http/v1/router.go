package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"go-course-backend/config"
	"go-course-backend/internal/delivery/http/middleware"
	"go-course-backend/internal/delivery/http/response"
	"go-course-backend/internal/domain"
	"go-course-backend/pkg/auth"
	"go-course-backend/pkg/cache"
	"go-course-backend/pkg/storage"
)

// limiterFor builds a per-endpoint rate limit middleware; the window comes
// from configuration, the allowance from the route.
type limiterFor func(name string, limit int) gin.HandlerFunc

type RouterDeps struct {
	IdentityUC domain.IdentityUsecase
	ProgressUC domain.ProgressUsecase
	CourseUC   domain.CourseUsecase
	LessonUC   domain.LessonUsecase
	StatsUC    domain.StatsUsecase
	Verifier   auth.Verifier
	Cache      *cache.Cache
	Uploader   storage.Uploader
	Config     *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	cfg := deps.Config

	// Global middlewares. CORS must run first so even rejected requests
	// carry the right headers.
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	rl := func(name string, limit int) gin.HandlerFunc {
		return middleware.RateLimit(deps.Cache, middleware.RateLimitConfig{
			Name:          name,
			Limit:         limit,
			WindowSeconds: cfg.RateLimitWindowSeconds,
		})
	}

	v1 := r.Group("/v1")
	v1.Use(rl("global", 100))
	v1.Use(middleware.OptionalAuth(deps.Verifier))

	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Public routes
	NewProgressHandler(v1, deps.ProgressUC,
		rl("progress-post", cfg.RateLimitWriteThreshold),
		rl("progress-get", cfg.RateLimitReadThreshold))
	NewIdentityHandler(v1, deps.IdentityUC,
		rl("sync-user", cfg.RateLimitWriteThreshold),
		rl("user-role", cfg.RateLimitReadThreshold))
	NewCourseHandler(v1, deps.CourseUC, deps.ProgressUC)
	NewStatsHandler(v1, deps.StatsUC)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Admin routes
	admin := v1.Group("/admin")
	admin.Use(middleware.RequireAuth())
	admin.Use(middleware.RequireAdmin(deps.IdentityUC))
	{
		NewAdminHandler(admin, deps.CourseUC, deps.LessonUC, deps.StatsUC, deps.IdentityUC, rl)
		NewMediaHandler(admin, deps.Uploader, rl("media-upload", cfg.RateLimitContentThreshold))
	}

	return r
}
