package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-course-backend/internal/delivery/http/response"
	"go-course-backend/pkg/cache"
	"go-course-backend/pkg/security"
)

// RateLimitConfig describes one fixed-window limit. Every endpoint group
// carries its own name so limits do not bleed across routes.
type RateLimitConfig struct {
	// Name scopes the counter key (e.g. "progress-post").
	Name string
	// Limit is the number of requests admitted per window.
	Limit int
	// WindowSeconds is the window length; counters reset when it elapses.
	WindowSeconds int
	// KeyFunc extracts the client identity. Defaults to IP-based.
	KeyFunc func(*gin.Context) string
}

// RateLimit enforces a per-client fixed-window quota backed by the shared
// cache layer (Redis when available, in-process otherwise). Backing-store
// failures admit the request: quota is advisory, availability is not.
func RateLimit(c *cache.Cache, config RateLimitConfig) gin.HandlerFunc {
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = func(gc *gin.Context) string { return gc.ClientIP() }
	}

	return func(gc *gin.Context) {
		key := "ratelimit-" + config.Name + "-" + keyFunc(gc)

		if !c.RateLimit(gc.Request.Context(), key, config.Limit, config.WindowSeconds) {
			gc.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
			gc.Header("X-RateLimit-Remaining", "0")
			gc.Header("Retry-After", strconv.Itoa(config.WindowSeconds))

			logRateLimitTriggered(gc)

			response.Error(gc, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			gc.Abort()
			return
		}

		gc.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		gc.Next()
	}
}

func logRateLimitTriggered(c *gin.Context) {
	logger := security.DefaultLogger()
	if logger != nil {
		requestID, _ := c.Get("RequestID")
		reqIDStr, _ := requestID.(string)
		logger.LogRateLimitTriggered(
			c.Request.Context(),
			c.ClientIP(),
			c.GetHeader("User-Agent"),
			reqIDStr,
			c.FullPath(),
		)
	}
}
