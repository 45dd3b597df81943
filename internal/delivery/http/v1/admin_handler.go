package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-course-backend/internal/delivery/http/response"
	"go-course-backend/internal/domain"
	"go-course-backend/pkg/apperror"
	"go-course-backend/pkg/security"
	"go-course-backend/pkg/validation"
)

type AdminHandler struct {
	courseUC   domain.CourseUsecase
	lessonUC   domain.LessonUsecase
	statsUC    domain.StatsUsecase
	identityUC domain.IdentityUsecase
}

// NewAdminHandler registers the admin content-management routes. The group is
// expected to already carry RequireAdmin. Write routes get tight per-route
// allowances since content editing is a low-volume activity.
func NewAdminHandler(admin *gin.RouterGroup, courseUC domain.CourseUsecase, lessonUC domain.LessonUsecase, statsUC domain.StatsUsecase, identityUC domain.IdentityUsecase, rl limiterFor) {
	handler := &AdminHandler{
		courseUC:   courseUC,
		lessonUC:   lessonUC,
		statsUC:    statsUC,
		identityUC: identityUC,
	}

	admin.POST("/courses", rl("course-create", 5), handler.CreateCourse)
	admin.PUT("/courses/:id", rl("course-update", 10), handler.UpdateCourse)
	admin.DELETE("/courses/:id", rl("course-delete", 5), handler.DeleteCourse)

	admin.POST("/lessons", rl("lesson-create", 10), handler.CreateLesson)
	admin.PUT("/lessons/:id", rl("lesson-update", 20), handler.UpdateLesson)
	admin.DELETE("/lessons/:id", rl("lesson-delete", 10), handler.DeleteLesson)

	admin.GET("/stats", handler.GetDashboard)
	admin.GET("/stats/export", handler.ExportDashboard)

	admin.POST("/users/:id/role", handler.SetUserRole)
}

type courseRequest struct {
	Slug         string  `json:"slug" binding:"required,slug"`
	Title        string  `json:"title" binding:"required,max=200"`
	Description  *string `json:"description"`
	Category     string  `json:"category" binding:"required,oneof=coding security language"`
	ThumbnailURL *string `json:"thumbnail_url" binding:"omitempty,url"`
	OrderIndex   int     `json:"order_index" binding:"min=0"`
	Published    bool    `json:"published"`
}

func (r *courseRequest) toDomain() *domain.Course {
	return &domain.Course{
		Slug:         r.Slug,
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		ThumbnailURL: r.ThumbnailURL,
		OrderIndex:   r.OrderIndex,
		Published:    r.Published,
	}
}

// CreateCourse godoc
// @Summary      Create a course
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        course  body      courseRequest  true  "Course"
// @Success      201     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      409     {object}  response.Response
// @Router       /admin/courses [post]
// @Security     BearerAuth
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	course := req.toDomain()
	if err := h.courseUC.Create(c.Request.Context(), course); err != nil {
		c.Error(err)
		return
	}

	h.logAdminAction(c, "course_create", course.ID)
	response.Success(c, http.StatusCreated, "Course created", course)
}

// UpdateCourse godoc
// @Summary      Update a course
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id      path      string         true  "Course ID"
// @Param        course  body      courseRequest  true  "Course"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /admin/courses/{id} [put]
// @Security     BearerAuth
func (h *AdminHandler) UpdateCourse(c *gin.Context) {
	id := c.Param("id")
	if !validation.IsValidUUID(id) {
		c.Error(apperror.BadRequest("invalid course id"))
		return
	}
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	course := req.toDomain()
	course.ID = id
	if err := h.courseUC.Update(c.Request.Context(), course); err != nil {
		c.Error(err)
		return
	}

	h.logAdminAction(c, "course_update", id)
	response.Success(c, http.StatusOK, "Course updated", course)
}

// DeleteCourse godoc
// @Summary      Delete a course
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Course ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/courses/{id} [delete]
// @Security     BearerAuth
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	id := c.Param("id")
	if !validation.IsValidUUID(id) {
		c.Error(apperror.BadRequest("invalid course id"))
		return
	}
	if err := h.courseUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	h.logAdminAction(c, "course_delete", id)
	response.Success(c, http.StatusOK, "Course deleted", nil)
}

type lessonRequest struct {
	CourseID        string  `json:"course_id" binding:"required,uuid"`
	Slug            string  `json:"slug" binding:"required,slug"`
	Title           string  `json:"title" binding:"required,max=200"`
	ContentMarkdown *string `json:"content_markdown"`
	VideoURL        *string `json:"video_url" binding:"omitempty,url"`
	VideoProvider   *string `json:"video_provider" binding:"omitempty,oneof=youtube vimeo other"`
	PDFURL          *string `json:"pdf_url" binding:"omitempty,url"`
	ContentType     string  `json:"content_type" binding:"omitempty,oneof=text video pdf mixed"`
	OrderIndex      int     `json:"order_index" binding:"min=0"`
}

func (r *lessonRequest) toDomain() *domain.Lesson {
	return &domain.Lesson{
		CourseID:        r.CourseID,
		Slug:            r.Slug,
		Title:           r.Title,
		ContentMarkdown: r.ContentMarkdown,
		VideoURL:        r.VideoURL,
		VideoProvider:   r.VideoProvider,
		PDFURL:          r.PDFURL,
		ContentType:     r.ContentType,
		OrderIndex:      r.OrderIndex,
	}
}

// CreateLesson godoc
// @Summary      Create a lesson
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        lesson  body      lessonRequest  true  "Lesson"
// @Success      201     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      409     {object}  response.Response
// @Router       /admin/lessons [post]
// @Security     BearerAuth
func (h *AdminHandler) CreateLesson(c *gin.Context) {
	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	lesson := req.toDomain()
	if err := h.lessonUC.Create(c.Request.Context(), lesson); err != nil {
		c.Error(err)
		return
	}

	h.logAdminAction(c, "lesson_create", lesson.ID)
	response.Success(c, http.StatusCreated, "Lesson created", lesson)
}

// UpdateLesson godoc
// @Summary      Update a lesson
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id      path      string         true  "Lesson ID"
// @Param        lesson  body      lessonRequest  true  "Lesson"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /admin/lessons/{id} [put]
// @Security     BearerAuth
func (h *AdminHandler) UpdateLesson(c *gin.Context) {
	id := c.Param("id")
	if !validation.IsValidUUID(id) {
		c.Error(apperror.BadRequest("invalid lesson id"))
		return
	}
	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	lesson := req.toDomain()
	lesson.ID = id
	if err := h.lessonUC.Update(c.Request.Context(), lesson); err != nil {
		c.Error(err)
		return
	}

	h.logAdminAction(c, "lesson_update", id)
	response.Success(c, http.StatusOK, "Lesson updated", lesson)
}

// DeleteLesson godoc
// @Summary      Delete a lesson
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Lesson ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/lessons/{id} [delete]
// @Security     BearerAuth
func (h *AdminHandler) DeleteLesson(c *gin.Context) {
	id := c.Param("id")
	if !validation.IsValidUUID(id) {
		c.Error(apperror.BadRequest("invalid lesson id"))
		return
	}
	if err := h.lessonUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	h.logAdminAction(c, "lesson_delete", id)
	response.Success(c, http.StatusOK, "Lesson deleted", nil)
}

// GetDashboard godoc
// @Summary      Admin dashboard data
// @Description  Totals, recent signups and completions-per-course chart data.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.AdminDashboard}
// @Router       /admin/stats [get]
// @Security     BearerAuth
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.statsUC.GetAdminDashboard(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard data", dashboard)
}

// ExportDashboard godoc
// @Summary      Export the admin dashboard as a spreadsheet
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /admin/stats/export [get]
// @Security     BearerAuth
func (h *AdminHandler) ExportDashboard(c *gin.Context) {
	data, err := h.statsUC.ExportAdminDashboard(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("dashboard_%s.xlsx", time.Now().Format("20060102_150405"))
	h.logAdminAction(c, "stats_export", filename)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

type roleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

// SetUserRole godoc
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "User ID"
// @Param        role  body      roleRequest  true  "New role"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /admin/users/{id}/role [post]
// @Security     BearerAuth
func (h *AdminHandler) SetUserRole(c *gin.Context) {
	id := c.Param("id")
	if !validation.IsValidUUID(id) {
		c.Error(apperror.BadRequest("invalid user id"))
		return
	}
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.identityUC.SetRole(h.callerContext(c), id, req.Role); err != nil {
		c.Error(err)
		return
	}

	h.logAdminAction(c, "role_change", id)
	response.Success(c, http.StatusOK, "Role updated", gin.H{"role": req.Role})
}

// callerContext carries the caller's role from gin's context into the
// request context so usecases can enforce it.
func (h *AdminHandler) callerContext(c *gin.Context) context.Context {
	return context.WithValue(c.Request.Context(), domain.KeyUserRole, c.GetString(string(domain.KeyUserRole)))
}

func (h *AdminHandler) logAdminAction(c *gin.Context, action, target string) {
	logger := security.DefaultLogger()
	if logger != nil {
		requestID, _ := c.Get("RequestID")
		reqIDStr, _ := requestID.(string)
		logger.LogAdminAction(c.Request.Context(), c.GetString(string(domain.KeyUserID)), reqIDStr, action, target)
	}
}
