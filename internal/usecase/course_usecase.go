package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"go-course-backend/internal/domain"
	"go-course-backend/pkg/cache"
	"go-course-backend/pkg/sanitize"
)

const (
	coursesCacheKey = "courses"
	coursesCacheTTL = 120
)

type courseUsecase struct {
	courseRepo domain.CourseRepository
	lessonRepo domain.LessonRepository
	cache      *cache.Cache
	log        *slog.Logger
}

func NewCourseUsecase(courseRepo domain.CourseRepository, lessonRepo domain.LessonRepository, c *cache.Cache, log *slog.Logger) domain.CourseUsecase {
	return &courseUsecase{
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
		cache:      c,
		log:        log,
	}
}

// ListPublished returns the published catalog ordered by skill-tree position.
func (u *courseUsecase) ListPublished(ctx context.Context) ([]domain.Course, error) {
	var cached []domain.Course
	if u.cache.Get(ctx, coursesCacheKey, &cached) {
		return cached, nil
	}

	courses, err := u.courseRepo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	u.cache.Set(ctx, coursesCacheKey, courses, coursesCacheTTL)
	return courses, nil
}

func (u *courseUsecase) GetBySlug(ctx context.Context, slug string) (*domain.Course, error) {
	return u.courseRepo.GetBySlug(ctx, slug)
}

func (u *courseUsecase) GetLessons(ctx context.Context, courseSlug string) ([]domain.Lesson, error) {
	course, err := u.courseRepo.GetBySlug(ctx, courseSlug)
	if err != nil {
		return nil, fmt.Errorf("course %q: %w", courseSlug, err)
	}
	lessons, err := u.lessonRepo.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	if lessons == nil {
		lessons = []domain.Lesson{}
	}
	return lessons, nil
}

func (u *courseUsecase) Create(ctx context.Context, course *domain.Course) error {
	if !slices.Contains(domain.Categories, course.Category) {
		return fmt.Errorf("category %q: %w", course.Category, domain.ErrInvalidInput)
	}
	if _, err := u.courseRepo.GetBySlug(ctx, course.Slug); err == nil {
		return fmt.Errorf("slug %q is taken: %w", course.Slug, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	course.ID = uuid.NewString()
	course.CreatedAt = time.Now().UTC()
	sanitizeCourse(course)

	if err := u.courseRepo.Create(ctx, course); err != nil {
		return err
	}
	u.invalidateCatalog(ctx)
	u.log.Info("course created", "course_id", course.ID, "slug", course.Slug)
	return nil
}

func (u *courseUsecase) Update(ctx context.Context, course *domain.Course) error {
	if !slices.Contains(domain.Categories, course.Category) {
		return fmt.Errorf("category %q: %w", course.Category, domain.ErrInvalidInput)
	}
	existing, err := u.courseRepo.GetByID(ctx, course.ID)
	if err != nil {
		return err
	}
	if existing.Slug != course.Slug {
		if _, err := u.courseRepo.GetBySlug(ctx, course.Slug); err == nil {
			return fmt.Errorf("slug %q is taken: %w", course.Slug, domain.ErrConflict)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	sanitizeCourse(course)

	if err := u.courseRepo.Update(ctx, course); err != nil {
		return err
	}
	u.invalidateCatalog(ctx)
	return nil
}

func (u *courseUsecase) Delete(ctx context.Context, id string) error {
	if err := u.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	u.invalidateCatalog(ctx)
	u.log.Info("course deleted", "course_id", id)
	return nil
}

func (u *courseUsecase) invalidateCatalog(ctx context.Context) {
	u.cache.Delete(ctx, coursesCacheKey)
	u.cache.Delete(ctx, statsCacheKey)
}

func sanitizeCourse(course *domain.Course) {
	if course.Description != nil {
		clean := sanitize.Description(*course.Description)
		course.Description = &clean
	}
}
