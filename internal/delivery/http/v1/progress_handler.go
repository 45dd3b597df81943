package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-course-backend/internal/domain"
)

type ProgressHandler struct {
	progressUC domain.ProgressUsecase
}

// NewProgressHandler registers the progress routes. Both routes accept an
// explicit uid so the frontend can call them from server components; a bearer
// token, when present, must belong to that uid.
func NewProgressHandler(public *gin.RouterGroup, progressUC domain.ProgressUsecase, postLimit, getLimit gin.HandlerFunc) {
	handler := &ProgressHandler{progressUC: progressUC}

	public.POST("/progress", postLimit, handler.RecordProgress)
	public.GET("/progress", getLimit, handler.GetProgress)
}

type recordProgressRequest struct {
	UID        string `json:"uid"`
	CourseSlug string `json:"courseSlug" binding:"required"`
	LessonSlug string `json:"lessonSlug" binding:"required"`
	Completed  bool   `json:"completed"`
}

// RecordProgress godoc
// @Summary      Record lesson progress
// @Description  Marks a lesson as viewed and optionally records course completion. Idempotent per (user, lesson) and per (user, course).
// @Tags         progress
// @Accept       json
// @Produce      json
// @Param        progress  body      recordProgressRequest  true  "Progress event"
// @Success      200       {object}  map[string]interface{}
// @Failure      400       {object}  response.Response
// @Failure      401       {object}  response.Response
// @Failure      403       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Router       /progress [post]
func (h *ProgressHandler) RecordProgress(c *gin.Context) {
	var req recordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "courseSlug and lessonSlug are required"})
		return
	}
	uid, ok := h.resolveUID(c, req.UID)
	if !ok {
		return
	}

	result, err := h.progressUC.RecordProgress(c.Request.Context(), uid, req.CourseSlug, req.LessonSlug, req.Completed)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course or lesson not found"})
			return
		}
		c.Error(err)
		return
	}

	if result.Deferred {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Progress recording deferred, user migration pending",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"newCompletion": result.NewCompletion,
	})
}

// GetProgress godoc
// @Summary      Get progress
// @Description  With courseSlug: viewed lessons and completion for one course. Without: cross-course stats and completed course slugs.
// @Tags         progress
// @Produce      json
// @Param        uid         query     string  true   "External auth uid"
// @Param        courseSlug  query     string  false  "Course slug; omit for the overview"
// @Success      200         {object}  map[string]interface{}
// @Failure      401         {object}  response.Response
// @Failure      403         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Router       /progress [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	uid, ok := h.resolveUID(c, c.Query("uid"))
	if !ok {
		return
	}

	if courseSlug := c.Query("courseSlug"); courseSlug != "" {
		progress, err := h.progressUC.GetCourseProgress(c.Request.Context(), uid, courseSlug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
				return
			}
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, progress)
		return
	}

	overview, err := h.progressUC.GetOverview(c.Request.Context(), uid)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// resolveUID enforces the ownership rule: the uid in the request must be
// present, and when the caller holds a verified token the two must match.
func (h *ProgressHandler) resolveUID(c *gin.Context, requestUID string) (string, bool) {
	if requestUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "uid is required"})
		return "", false
	}
	if tokenUID := c.GetString(string(domain.KeyUserID)); tokenUID != "" && tokenUID != requestUID {
		c.JSON(http.StatusForbidden, gin.H{"error": "uid does not match the authenticated user"})
		return "", false
	}
	return requestUID, true
}
