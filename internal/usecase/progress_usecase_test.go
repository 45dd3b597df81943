package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-course-backend/internal/domain"
	"go-course-backend/internal/usecase"
)

func newProgressFixture(schema domain.SchemaState) (*MockUserRepo, *MockCourseRepo, *MockLessonRepo, *MockProgressRepo, domain.ProgressUsecase) {
	userRepo := new(MockUserRepo)
	courseRepo := new(MockCourseRepo)
	lessonRepo := new(MockLessonRepo)
	progressRepo := new(MockProgressRepo)
	uc := usecase.NewProgressUsecase(userRepo, courseRepo, lessonRepo, progressRepo, testCache(), schema, testLogger())
	return userRepo, courseRepo, lessonRepo, progressRepo, uc
}

var migrated = domain.SchemaState{HasAuthUID: true}

func TestRecordProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("plain view upserts without touching completions", func(t *testing.T) {
		userRepo, courseRepo, lessonRepo, progressRepo, uc := newProgressFixture(migrated)
		userRepo.On("GetByAuthUID", mock.Anything, "uid-1").Return(&domain.User{ID: "u1"}, nil)
		courseRepo.On("GetBySlug", mock.Anything, "go-basics").Return(&domain.Course{ID: "c1", Slug: "go-basics"}, nil)
		lessonRepo.On("GetBySlug", mock.Anything, "c1", "intro").Return(&domain.Lesson{ID: "l1"}, nil)
		progressRepo.On("UpsertLessonView", mock.Anything, mock.MatchedBy(func(p *domain.LessonProgress) bool {
			return p.UserID == "u1" && p.LessonID == "l1" && p.CourseID == "c1" && p.Completed
		})).Return(nil)

		result, err := uc.RecordProgress(ctx, "uid-1", "go-basics", "intro", false)

		require.NoError(t, err)
		assert.False(t, result.NewCompletion)
		assert.False(t, result.Deferred)
		progressRepo.AssertNotCalled(t, "InsertCompletion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("completion is new exactly once", func(t *testing.T) {
		userRepo, courseRepo, lessonRepo, progressRepo, uc := newProgressFixture(migrated)
		userRepo.On("GetByAuthUID", mock.Anything, "uid-1").Return(&domain.User{ID: "u1"}, nil)
		courseRepo.On("GetBySlug", mock.Anything, "go-basics").Return(&domain.Course{ID: "c1", Slug: "go-basics"}, nil)
		lessonRepo.On("GetBySlug", mock.Anything, "c1", "outro").Return(&domain.Lesson{ID: "l9"}, nil)
		progressRepo.On("UpsertLessonView", mock.Anything, mock.Anything).Return(nil)
		progressRepo.On("InsertCompletion", mock.Anything, "u1", "c1", mock.Anything).Return(true, nil).Once()
		progressRepo.On("InsertCompletion", mock.Anything, "u1", "c1", mock.Anything).Return(false, nil)

		first, err := uc.RecordProgress(ctx, "uid-1", "go-basics", "outro", true)
		require.NoError(t, err)
		assert.True(t, first.NewCompletion)

		second, err := uc.RecordProgress(ctx, "uid-1", "go-basics", "outro", true)
		require.NoError(t, err)
		assert.False(t, second.NewCompletion, "replaying a completion must not report it as new")
	})

	t.Run("unknown course reports not found", func(t *testing.T) {
		userRepo, courseRepo, _, _, uc := newProgressFixture(migrated)
		userRepo.On("GetByAuthUID", mock.Anything, "uid-1").Return(&domain.User{ID: "u1"}, nil)
		courseRepo.On("GetBySlug", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

		_, err := uc.RecordProgress(ctx, "uid-1", "nope", "intro", false)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown lesson reports not found", func(t *testing.T) {
		userRepo, courseRepo, lessonRepo, _, uc := newProgressFixture(migrated)
		userRepo.On("GetByAuthUID", mock.Anything, "uid-1").Return(&domain.User{ID: "u1"}, nil)
		courseRepo.On("GetBySlug", mock.Anything, "go-basics").Return(&domain.Course{ID: "c1"}, nil)
		lessonRepo.On("GetBySlug", mock.Anything, "c1", "nope").Return(nil, domain.ErrNotFound)

		_, err := uc.RecordProgress(ctx, "uid-1", "go-basics", "nope", false)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("schema drift defers the write instead of failing", func(t *testing.T) {
		_, _, _, progressRepo, uc := newProgressFixture(domain.SchemaState{HasAuthUID: false})

		result, err := uc.RecordProgress(ctx, "uid-1", "go-basics", "intro", true)

		require.NoError(t, err)
		assert.True(t, result.Deferred)
		progressRepo.AssertNotCalled(t, "UpsertLessonView", mock.Anything, mock.Anything)
	})

	t.Run("unknown user reports not found", func(t *testing.T) {
		userRepo, _, _, _, uc := newProgressFixture(migrated)
		userRepo.On("GetByAuthUID", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

		_, err := uc.RecordProgress(ctx, "ghost", "go-basics", "intro", false)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestGetCourseProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("returns viewed lessons and completion", func(t *testing.T) {
		userRepo, courseRepo, _, progressRepo, uc := newProgressFixture(migrated)
		userRepo.On("GetByAuthUID", mock.Anything, "uid-1").Return(&domain.User{ID: "u1"}, nil)
		courseRepo.On("GetBySlug", mock.Anything, "go-basics").Return(&domain.Course{ID: "c1"}, nil)
		progressRepo.On("ListViewedLessonIDs", mock.Anything, "u1", "c1").Return([]string{"l1", "l2"}, nil)
		progressRepo.On("HasCompletion", mock.Anything, "u1", "c1").Return(true, nil)

		progress, err := uc.GetCourseProgress(ctx, "uid-1", "go-basics")

		require.NoError(t, err)
		assert.Equal(t, []string{"l1", "l2"}, progress.ViewedLessons)
		assert.True(t, progress.Completed)
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		userRepo, courseRepo, _, progressRepo, uc := newProgressFixture(migrated)
		userRepo.On("GetByAuthUID", mock.Anything, "uid-1").Return(&domain.User{ID: "u1"}, nil).Once()
		courseRepo.On("GetBySlug", mock.Anything, "go-basics").Return(&domain.Course{ID: "c1"}, nil).Once()
		progressRepo.On("ListViewedLessonIDs", mock.Anything, "u1", "c1").Return([]string{"l1"}, nil).Once()
		progressRepo.On("HasCompletion", mock.Anything, "u1", "c1").Return(false, nil).Once()

		_, err := uc.GetCourseProgress(ctx, "uid-1", "go-basics")
		require.NoError(t, err)

		progress, err := uc.GetCourseProgress(ctx, "uid-1", "go-basics")
		require.NoError(t, err)
		assert.Equal(t, []string{"l1"}, progress.ViewedLessons)
		userRepo.AssertExpectations(t)
	})

	t.Run("a write invalidates the cached read", func(t *testing.T) {
		userRepo, courseRepo, lessonRepo, progressRepo, uc := newProgressFixture(migrated)
		userRepo.On("GetByAuthUID", mock.Anything, "uid-1").Return(&domain.User{ID: "u1"}, nil)
		courseRepo.On("GetBySlug", mock.Anything, "go-basics").Return(&domain.Course{ID: "c1"}, nil)
		lessonRepo.On("GetBySlug", mock.Anything, "c1", "intro").Return(&domain.Lesson{ID: "l1"}, nil)
		progressRepo.On("UpsertLessonView", mock.Anything, mock.Anything).Return(nil)
		progressRepo.On("ListViewedLessonIDs", mock.Anything, "u1", "c1").Return([]string{}, nil).Once()
		progressRepo.On("ListViewedLessonIDs", mock.Anything, "u1", "c1").Return([]string{"l1"}, nil).Once()
		progressRepo.On("HasCompletion", mock.Anything, "u1", "c1").Return(false, nil)

		before, err := uc.GetCourseProgress(ctx, "uid-1", "go-basics")
		require.NoError(t, err)
		assert.Empty(t, before.ViewedLessons)

		_, err = uc.RecordProgress(ctx, "uid-1", "go-basics", "intro", false)
		require.NoError(t, err)

		after, err := uc.GetCourseProgress(ctx, "uid-1", "go-basics")
		require.NoError(t, err)
		assert.Equal(t, []string{"l1"}, after.ViewedLessons, "stale cache entry should be gone after the write")
	})

	t.Run("unresolvable user degrades to empty progress", func(t *testing.T) {
		userRepo, _, _, _, uc := newProgressFixture(migrated)
		userRepo.On("GetByAuthUID", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

		progress, err := uc.GetCourseProgress(ctx, "ghost", "go-basics")

		require.NoError(t, err)
		assert.Empty(t, progress.ViewedLessons)
		assert.False(t, progress.Completed)
	})
}

func TestGetOverview(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates stats and completed slugs", func(t *testing.T) {
		userRepo, _, _, progressRepo, uc := newProgressFixture(migrated)
		userRepo.On("GetByAuthUID", mock.Anything, "uid-1").Return(&domain.User{ID: "u1"}, nil)
		progressRepo.On("CountCompletions", mock.Anything, "u1").Return(2, nil)
		progressRepo.On("CountCoursesInProgress", mock.Anything, "u1").Return(5, nil)
		progressRepo.On("ListCompletedCourseSlugs", mock.Anything, "u1").Return([]string{"go-basics", "go-web"}, nil)

		overview, err := uc.GetOverview(ctx, "uid-1")

		require.NoError(t, err)
		assert.Equal(t, 2, overview.Stats.Completed)
		assert.Equal(t, 3, overview.Stats.InProgress, "in-progress excludes completed courses")
		assert.Equal(t, []string{"go-basics", "go-web"}, overview.CompletedCourses)
	})

	t.Run("in-progress never goes negative", func(t *testing.T) {
		userRepo, _, _, progressRepo, uc := newProgressFixture(migrated)
		userRepo.On("GetByAuthUID", mock.Anything, "uid-1").Return(&domain.User{ID: "u1"}, nil)
		progressRepo.On("CountCompletions", mock.Anything, "u1").Return(3, nil)
		progressRepo.On("CountCoursesInProgress", mock.Anything, "u1").Return(1, nil)
		progressRepo.On("ListCompletedCourseSlugs", mock.Anything, "u1").Return([]string{"a", "b", "c"}, nil)

		overview, err := uc.GetOverview(ctx, "uid-1")

		require.NoError(t, err)
		assert.Equal(t, 0, overview.Stats.InProgress)
	})

	t.Run("schema drift degrades to an empty overview", func(t *testing.T) {
		_, _, _, _, uc := newProgressFixture(domain.SchemaState{HasAuthUID: false})

		overview, err := uc.GetOverview(ctx, "uid-1")

		require.NoError(t, err)
		assert.Zero(t, overview.Stats.Completed)
		assert.Empty(t, overview.CompletedCourses)
		assert.NotNil(t, overview.CompletedCourses, "slugs must serialize as [] not null")
	})
}
