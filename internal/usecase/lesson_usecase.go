package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"go-course-backend/internal/domain"
	"go-course-backend/pkg/cache"
	"go-course-backend/pkg/sanitize"
)

type lessonUsecase struct {
	courseRepo domain.CourseRepository
	lessonRepo domain.LessonRepository
	cache      *cache.Cache
	log        *slog.Logger
}

func NewLessonUsecase(courseRepo domain.CourseRepository, lessonRepo domain.LessonRepository, c *cache.Cache, log *slog.Logger) domain.LessonUsecase {
	return &lessonUsecase{
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
		cache:      c,
		log:        log,
	}
}

func (u *lessonUsecase) Create(ctx context.Context, lesson *domain.Lesson) error {
	if _, err := u.courseRepo.GetByID(ctx, lesson.CourseID); err != nil {
		return fmt.Errorf("course %q: %w", lesson.CourseID, err)
	}
	if _, err := u.lessonRepo.GetBySlug(ctx, lesson.CourseID, lesson.Slug); err == nil {
		return fmt.Errorf("lesson slug %q is taken in this course: %w", lesson.Slug, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	lesson.ID = uuid.NewString()
	lesson.CreatedAt = time.Now().UTC()
	if lesson.ContentType == "" {
		lesson.ContentType = domain.ContentTypeText
	}
	sanitizeLesson(lesson)

	if err := u.lessonRepo.Create(ctx, lesson); err != nil {
		return err
	}
	u.cache.Delete(ctx, statsCacheKey)
	u.log.Info("lesson created", "lesson_id", lesson.ID, "course_id", lesson.CourseID)
	return nil
}

func (u *lessonUsecase) Update(ctx context.Context, lesson *domain.Lesson) error {
	existing, err := u.lessonRepo.GetByID(ctx, lesson.ID)
	if err != nil {
		return err
	}
	lesson.CourseID = existing.CourseID
	if existing.Slug != lesson.Slug {
		if _, err := u.lessonRepo.GetBySlug(ctx, lesson.CourseID, lesson.Slug); err == nil {
			return fmt.Errorf("lesson slug %q is taken in this course: %w", lesson.Slug, domain.ErrConflict)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	sanitizeLesson(lesson)
	return u.lessonRepo.Update(ctx, lesson)
}

func (u *lessonUsecase) Delete(ctx context.Context, id string) error {
	if err := u.lessonRepo.Delete(ctx, id); err != nil {
		return err
	}
	u.cache.Delete(ctx, statsCacheKey)
	u.log.Info("lesson deleted", "lesson_id", id)
	return nil
}

func sanitizeLesson(lesson *domain.Lesson) {
	if lesson.ContentMarkdown != nil {
		clean := sanitize.Markdown(*lesson.ContentMarkdown)
		lesson.ContentMarkdown = &clean
	}
}
