package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-course-backend/internal/delivery/http/response"
	"go-course-backend/internal/domain"
	"go-course-backend/pkg/auth"
	"go-course-backend/pkg/security"
)

// extractToken pulls the bearer token from the Authorization header, falling
// back to the auth_token cookie set by the frontend.
func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie("auth_token"); err == nil {
		return cookie
	}
	return ""
}

// OptionalAuth verifies a bearer token if one is present and stores the
// claims in the context. Requests without a token pass through anonymously;
// lesson visibility and progress ownership checks happen downstream.
func OptionalAuth(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			// A present-but-invalid token is rejected rather than downgraded
			// to anonymous, so a caller cannot shed a revoked identity.
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), claims.UID)
		c.Set(string(domain.KeyUserEmail), claims.Email)
		c.Next()
	}
}

// RequireAuth rejects requests that did not authenticate via OptionalAuth.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(string(domain.KeyUserID)) == "" {
			logUnauthorized(c, "missing or empty bearer token")
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin resolves the caller's role from the database (never from JWT
// claims, which may be stale) and rejects non-admins.
func RequireAdmin(identityUC domain.IdentityUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString(string(domain.KeyUserID))
		if uid == "" {
			logUnauthorized(c, "admin route without token")
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		role := identityUC.LookupRole(c.Request.Context(), uid)
		if role != domain.RoleAdmin {
			logUnauthorized(c, "admin route with non-admin role")
			response.Error(c, http.StatusForbidden, "Admin access required", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserRole), role)
		c.Next()
	}
}

func logUnauthorized(c *gin.Context, reason string) {
	logger := security.DefaultLogger()
	if logger != nil {
		requestID, _ := c.Get("RequestID")
		reqIDStr, _ := requestID.(string)
		logger.LogUnauthorizedAccess(
			c.Request.Context(),
			c.ClientIP(),
			c.GetHeader("User-Agent"),
			reqIDStr,
			c.FullPath(),
			reason,
		)
	}
}
