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

func TestCourseCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an unknown category", func(t *testing.T) {
		courseRepo := new(MockCourseRepo)
		uc := usecase.NewCourseUsecase(courseRepo, new(MockLessonRepo), testCache(), testLogger())

		err := uc.Create(ctx, &domain.Course{Slug: "x", Title: "X", Category: "cooking"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		courseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects a taken slug", func(t *testing.T) {
		courseRepo := new(MockCourseRepo)
		courseRepo.On("GetBySlug", mock.Anything, "go-basics").Return(&domain.Course{ID: "c1"}, nil)
		uc := usecase.NewCourseUsecase(courseRepo, new(MockLessonRepo), testCache(), testLogger())

		err := uc.Create(ctx, &domain.Course{Slug: "go-basics", Title: "X", Category: "coding"})

		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("assigns an id and sanitizes the description", func(t *testing.T) {
		courseRepo := new(MockCourseRepo)
		courseRepo.On("GetBySlug", mock.Anything, "go-basics").Return(nil, domain.ErrNotFound)
		courseRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Course) bool {
			return c.ID != "" && *c.Description == "hello"
		})).Return(nil)
		uc := usecase.NewCourseUsecase(courseRepo, new(MockLessonRepo), testCache(), testLogger())

		desc := `hello<script>alert(1)</script>`
		err := uc.Create(ctx, &domain.Course{Slug: "go-basics", Title: "X", Category: "coding", Description: &desc})

		require.NoError(t, err)
		courseRepo.AssertExpectations(t)
	})
}

func TestCourseCatalogCacheInvalidation(t *testing.T) {
	ctx := context.Background()

	courseRepo := new(MockCourseRepo)
	courseRepo.On("ListPublished", mock.Anything).
		Return([]domain.Course{{Slug: "go-basics"}}, nil).Once()
	courseRepo.On("ListPublished", mock.Anything).
		Return([]domain.Course{{Slug: "go-basics"}, {Slug: "go-web"}}, nil).Once()
	courseRepo.On("GetBySlug", mock.Anything, "go-web").Return(nil, domain.ErrNotFound)
	courseRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewCourseUsecase(courseRepo, new(MockLessonRepo), testCache(), testLogger())

	before, err := uc.ListPublished(ctx)
	require.NoError(t, err)
	assert.Len(t, before, 1)

	// Cached: the mock would reject a second ListPublished call here.
	again, err := uc.ListPublished(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 1)

	require.NoError(t, uc.Create(ctx, &domain.Course{Slug: "go-web", Title: "Go Web", Category: "coding"}))

	after, err := uc.ListPublished(ctx)
	require.NoError(t, err)
	assert.Len(t, after, 2, "creating a course must bust the catalog cache")
}

func TestLessonCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an existing course", func(t *testing.T) {
		courseRepo := new(MockCourseRepo)
		courseRepo.On("GetByID", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)
		uc := usecase.NewLessonUsecase(courseRepo, new(MockLessonRepo), testCache(), testLogger())

		err := uc.Create(ctx, &domain.Lesson{CourseID: "ghost", Slug: "intro", Title: "Intro"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("defaults the content type and scopes slug uniqueness to the course", func(t *testing.T) {
		courseRepo := new(MockCourseRepo)
		lessonRepo := new(MockLessonRepo)
		courseRepo.On("GetByID", mock.Anything, "c1").Return(&domain.Course{ID: "c1"}, nil)
		lessonRepo.On("GetBySlug", mock.Anything, "c1", "intro").Return(nil, domain.ErrNotFound)
		lessonRepo.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Lesson) bool {
			return l.ID != "" && l.ContentType == domain.ContentTypeText
		})).Return(nil)
		uc := usecase.NewLessonUsecase(courseRepo, lessonRepo, testCache(), testLogger())

		err := uc.Create(ctx, &domain.Lesson{CourseID: "c1", Slug: "intro", Title: "Intro"})

		require.NoError(t, err)
		lessonRepo.AssertExpectations(t)
	})

	t.Run("rejects a slug already used in the course", func(t *testing.T) {
		courseRepo := new(MockCourseRepo)
		lessonRepo := new(MockLessonRepo)
		courseRepo.On("GetByID", mock.Anything, "c1").Return(&domain.Course{ID: "c1"}, nil)
		lessonRepo.On("GetBySlug", mock.Anything, "c1", "intro").Return(&domain.Lesson{ID: "l1"}, nil)
		uc := usecase.NewLessonUsecase(courseRepo, lessonRepo, testCache(), testLogger())

		err := uc.Create(ctx, &domain.Lesson{CourseID: "c1", Slug: "intro", Title: "Intro"})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}
