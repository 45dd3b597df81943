package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-course-backend/internal/domain"
	"go-course-backend/pkg/cache"
)

const progressCacheTTL = 60

type progressUsecase struct {
	userRepo     domain.UserRepository
	courseRepo   domain.CourseRepository
	lessonRepo   domain.LessonRepository
	progressRepo domain.ProgressRepository
	cache        *cache.Cache
	schema       domain.SchemaState
	log          *slog.Logger
	now          func() time.Time
}

// NewProgressUsecase creates the progress tracker.
func NewProgressUsecase(
	userRepo domain.UserRepository,
	courseRepo domain.CourseRepository,
	lessonRepo domain.LessonRepository,
	progressRepo domain.ProgressRepository,
	c *cache.Cache,
	schema domain.SchemaState,
	log *slog.Logger,
) domain.ProgressUsecase {
	return &progressUsecase{
		userRepo:     userRepo,
		courseRepo:   courseRepo,
		lessonRepo:   lessonRepo,
		progressRepo: progressRepo,
		cache:        c,
		schema:       schema,
		log:          log,
		now:          time.Now,
	}
}

func progressCacheKey(uid, scope string) string {
	return "progress-" + uid + "-" + scope
}

// RecordProgress marks a lesson as viewed and, when completed is set,
// records the course completion. Replays of the same lesson view are
// idempotent; NewCompletion is true exactly once per (user, course).
func (p *progressUsecase) RecordProgress(ctx context.Context, uid, courseSlug, lessonSlug string, completed bool) (*domain.ProgressResult, error) {
	user, err := p.resolveUser(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrSchemaDrift) {
			// Migration in flight; acknowledge the write without persisting
			// so clients are not broken mid-deploy.
			p.log.Warn("progress write deferred, user schema migration pending", "course", courseSlug)
			return &domain.ProgressResult{Deferred: true}, nil
		}
		return nil, err
	}

	course, err := p.courseRepo.GetBySlug(ctx, courseSlug)
	if err != nil {
		return nil, fmt.Errorf("course %q: %w", courseSlug, err)
	}
	lesson, err := p.lessonRepo.GetBySlug(ctx, course.ID, lessonSlug)
	if err != nil {
		return nil, fmt.Errorf("lesson %q: %w", lessonSlug, err)
	}

	now := p.now().UTC()
	view := &domain.LessonProgress{
		UserID:       user.ID,
		LessonID:     lesson.ID,
		CourseID:     course.ID,
		Completed:    true,
		LastAccessed: now,
	}
	if err := p.progressRepo.UpsertLessonView(ctx, view); err != nil {
		return nil, err
	}

	result := &domain.ProgressResult{}
	if completed {
		isNew, err := p.progressRepo.InsertCompletion(ctx, user.ID, course.ID, now)
		if err != nil {
			return nil, err
		}
		result.NewCompletion = isNew
		if isNew {
			p.log.Info("course completed", "user_id", user.ID, "course", courseSlug)
		}
		p.cache.Delete(ctx, progressCacheKey(uid, "all"))
	}
	p.cache.Delete(ctx, progressCacheKey(uid, courseSlug))

	return result, nil
}

// GetCourseProgress returns the viewed lessons and completion flag for one
// course. An unresolvable user yields empty progress, not an error.
func (p *progressUsecase) GetCourseProgress(ctx context.Context, uid, courseSlug string) (*domain.CourseProgress, error) {
	cacheKey := progressCacheKey(uid, courseSlug)
	var cached domain.CourseProgress
	if p.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	empty := &domain.CourseProgress{ViewedLessons: []string{}}

	user, err := p.resolveUser(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrSchemaDrift) || errors.Is(err, domain.ErrNotFound) {
			return empty, nil
		}
		return nil, err
	}

	course, err := p.courseRepo.GetBySlug(ctx, courseSlug)
	if err != nil {
		return nil, fmt.Errorf("course %q: %w", courseSlug, err)
	}

	viewed, err := p.progressRepo.ListViewedLessonIDs(ctx, user.ID, course.ID)
	if err != nil {
		return nil, err
	}
	done, err := p.progressRepo.HasCompletion(ctx, user.ID, course.ID)
	if err != nil {
		return nil, err
	}

	result := &domain.CourseProgress{ViewedLessons: viewed, Completed: done}
	if result.ViewedLessons == nil {
		result.ViewedLessons = []string{}
	}
	p.cache.Set(ctx, cacheKey, result, progressCacheTTL)
	return result, nil
}

// GetOverview returns cross-course stats plus the slugs of every completed
// course, which the frontend uses to unlock successors in the skill tree.
func (p *progressUsecase) GetOverview(ctx context.Context, uid string) (*domain.ProgressOverview, error) {
	cacheKey := progressCacheKey(uid, "all")
	var cached domain.ProgressOverview
	if p.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	empty := &domain.ProgressOverview{CompletedCourses: []string{}}

	user, err := p.resolveUser(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrSchemaDrift) || errors.Is(err, domain.ErrNotFound) {
			return empty, nil
		}
		return nil, err
	}

	completed, err := p.progressRepo.CountCompletions(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	started, err := p.progressRepo.CountCoursesInProgress(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	slugs, err := p.progressRepo.ListCompletedCourseSlugs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if slugs == nil {
		slugs = []string{}
	}

	inProgress := started - completed
	if inProgress < 0 {
		inProgress = 0
	}

	result := &domain.ProgressOverview{
		Stats:            domain.ProgressStats{Completed: completed, InProgress: inProgress},
		CompletedCourses: slugs,
	}
	p.cache.Set(ctx, cacheKey, result, progressCacheTTL)
	return result, nil
}

func (p *progressUsecase) resolveUser(ctx context.Context, uid string) (*domain.User, error) {
	if !p.schema.HasAuthUID {
		return nil, domain.ErrSchemaDrift
	}
	return p.userRepo.GetByAuthUID(ctx, uid)
}
