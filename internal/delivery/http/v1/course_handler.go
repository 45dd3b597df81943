package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-course-backend/internal/domain"
)

type CourseHandler struct {
	courseUC   domain.CourseUsecase
	progressUC domain.ProgressUsecase
}

// NewCourseHandler registers the public catalog routes.
func NewCourseHandler(public *gin.RouterGroup, courseUC domain.CourseUsecase, progressUC domain.ProgressUsecase) {
	handler := &CourseHandler{courseUC: courseUC, progressUC: progressUC}

	public.GET("/courses", handler.ListCourses)
	public.GET("/courses/:slug", handler.GetCourse)
	public.GET("/courses/:slug/lessons", handler.ListLessons)
}

type courseWithAccess struct {
	domain.Course
	Locked bool `json:"locked"`
}

type lessonWithAccess struct {
	domain.Lesson
	Locked bool `json:"locked"`
}

// ListCourses godoc
// @Summary      List published courses
// @Description  Catalog ordered by skill-tree position. Each course carries a locked flag; a course unlocks when its predecessor is completed.
// @Tags         courses
// @Produce      json
// @Success      200  {array}  courseWithAccess
// @Router       /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseUC.ListPublished(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	completedSlugs := h.completedSlugs(c)

	result := make([]courseWithAccess, 0, len(courses))
	for _, course := range courses {
		result = append(result, courseWithAccess{
			Course: course,
			Locked: !domain.IsCourseUnlocked(course.OrderIndex, courses, completedSlugs),
		})
	}
	c.JSON(http.StatusOK, result)
}

// GetCourse godoc
// @Summary      Get a course
// @Tags         courses
// @Produce      json
// @Param        slug  path      string  true  "Course slug"
// @Success      200   {object}  domain.Course
// @Failure      404   {object}  response.Response
// @Router       /courses/{slug} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseUC.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// ListLessons godoc
// @Summary      List a course's lessons
// @Description  Lessons in order with a per-lesson locked flag. Guests may open the first lesson only; authenticated users see everything.
// @Tags         courses
// @Produce      json
// @Param        slug  path     string  true  "Course slug"
// @Success      200   {array}  lessonWithAccess
// @Failure      404   {object} response.Response
// @Router       /courses/{slug}/lessons [get]
func (h *CourseHandler) ListLessons(c *gin.Context) {
	lessons, err := h.courseUC.GetLessons(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		c.Error(err)
		return
	}

	isAuthenticated := c.GetString(string(domain.KeyUserID)) != ""

	result := make([]lessonWithAccess, 0, len(lessons))
	for _, lesson := range lessons {
		result = append(result, lessonWithAccess{
			Lesson: lesson,
			Locked: !domain.IsLessonVisible(isAuthenticated, lesson.OrderIndex),
		})
	}
	c.JSON(http.StatusOK, result)
}

// completedSlugs returns the authenticated caller's completed courses, or
// nil for guests. Lookup failures degrade to the guest view.
func (h *CourseHandler) completedSlugs(c *gin.Context) []string {
	uid := c.GetString(string(domain.KeyUserID))
	if uid == "" {
		return nil
	}
	overview, err := h.progressUC.GetOverview(c.Request.Context(), uid)
	if err != nil {
		return nil
	}
	return overview.CompletedCourses
}
