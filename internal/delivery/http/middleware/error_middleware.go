package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-course-backend/internal/delivery/http/response"
	"go-course-backend/internal/domain"
	"go-course-backend/pkg/apperror"
)

// ErrorHandler converts errors attached to the gin context into JSON
// responses. Internal details are logged server-side only.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		switch {
		case errors.As(err, &appErr):
			response.Error(c, appErr.Code, appErr.Message, nil)
		case errors.Is(err, domain.ErrNotFound):
			response.Error(c, http.StatusNotFound, "Resource not found", nil)
		case errors.Is(err, domain.ErrConflict):
			response.Error(c, http.StatusConflict, "Resource already exists", nil)
		case errors.Is(err, domain.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "Invalid input", nil)
		case errors.Is(err, domain.ErrForbidden):
			response.Error(c, http.StatusForbidden, "Forbidden", nil)
		default:
			slog.Error("internal server error", "error", err, "path", c.FullPath())
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
		}
	}
}
