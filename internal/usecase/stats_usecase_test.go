package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-course-backend/internal/domain"
	"go-course-backend/internal/usecase"
)

func newStatsFixture() (*MockCourseRepo, *MockLessonRepo, *MockUserRepo, *MockProgressRepo, domain.StatsUsecase) {
	courseRepo := new(MockCourseRepo)
	lessonRepo := new(MockLessonRepo)
	userRepo := new(MockUserRepo)
	progressRepo := new(MockProgressRepo)
	uc := usecase.NewStatsUsecase(courseRepo, lessonRepo, userRepo, progressRepo, testCache(), testLogger())
	return courseRepo, lessonRepo, userRepo, progressRepo, uc
}

func TestGetSiteStats(t *testing.T) {
	ctx := context.Background()

	t.Run("counts come from the repositories", func(t *testing.T) {
		courseRepo, lessonRepo, userRepo, _, uc := newStatsFixture()
		courseRepo.On("CountPublished", mock.Anything).Return(int64(7), nil)
		lessonRepo.On("Count", mock.Anything).Return(int64(42), nil)
		userRepo.On("Count", mock.Anything).Return(int64(100), nil)
		courseRepo.On("PublishedCategories", mock.Anything).Return([]string{"coding", "security"}, nil)

		stats := uc.GetSiteStats(ctx)

		assert.Equal(t, int64(7), stats.Courses)
		assert.Equal(t, int64(42), stats.Lessons)
		assert.Equal(t, int64(2), stats.Categories)
		assert.Equal(t, int64(100), stats.Users)
	})

	t.Run("database failure serves the default counters", func(t *testing.T) {
		courseRepo, _, _, _, uc := newStatsFixture()
		courseRepo.On("CountPublished", mock.Anything).Return(int64(0), errors.New("connection refused"))

		stats := uc.GetSiteStats(ctx)

		assert.Equal(t, int64(5), stats.Courses)
		assert.Equal(t, int64(15), stats.Lessons)
		assert.Equal(t, int64(3), stats.Categories)
		assert.Equal(t, int64(0), stats.Users)
	})

	t.Run("second call is served from cache", func(t *testing.T) {
		courseRepo, lessonRepo, userRepo, _, uc := newStatsFixture()
		courseRepo.On("CountPublished", mock.Anything).Return(int64(7), nil).Once()
		lessonRepo.On("Count", mock.Anything).Return(int64(42), nil).Once()
		userRepo.On("Count", mock.Anything).Return(int64(100), nil).Once()
		courseRepo.On("PublishedCategories", mock.Anything).Return([]string{"coding"}, nil).Once()

		first := uc.GetSiteStats(ctx)
		second := uc.GetSiteStats(ctx)

		assert.Equal(t, first, second)
		courseRepo.AssertExpectations(t)
	})
}

func TestGetAdminDashboard(t *testing.T) {
	ctx := context.Background()

	courseRepo, lessonRepo, userRepo, progressRepo, uc := newStatsFixture()
	courseRepo.On("CountPublished", mock.Anything).Return(int64(3), nil)
	lessonRepo.On("Count", mock.Anything).Return(int64(12), nil)
	userRepo.On("Count", mock.Anything).Return(int64(50), nil)
	progressRepo.On("CountAllCompletions", mock.Anything).Return(int64(20), nil)
	userRepo.On("ListRecent", mock.Anything, 10).Return([]domain.User{{ID: "u1", Name: "Alex"}}, nil)
	progressRepo.On("CompletionCountsByCourse", mock.Anything).
		Return([]domain.ChartPoint{{Name: "Go Basics", Value: 12}}, nil)

	dashboard, err := uc.GetAdminDashboard(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(3), dashboard.Stats.TotalCourses)
	assert.Equal(t, int64(20), dashboard.Stats.TotalCompletions)
	require.Len(t, dashboard.Users, 1)
	assert.Equal(t, "Alex", dashboard.Users[0].Name)
	require.Len(t, dashboard.ChartData, 1)
	assert.Equal(t, int64(12), dashboard.ChartData[0].Value)
}

func TestExportAdminDashboard(t *testing.T) {
	courseRepo, lessonRepo, userRepo, progressRepo, uc := newStatsFixture()
	courseRepo.On("CountPublished", mock.Anything).Return(int64(3), nil)
	lessonRepo.On("Count", mock.Anything).Return(int64(12), nil)
	userRepo.On("Count", mock.Anything).Return(int64(50), nil)
	progressRepo.On("CountAllCompletions", mock.Anything).Return(int64(20), nil)
	userRepo.On("ListRecent", mock.Anything, 10).Return([]domain.User{}, nil)
	progressRepo.On("CompletionCountsByCourse", mock.Anything).Return([]domain.ChartPoint{}, nil)

	data, err := uc.ExportAdminDashboard(context.Background())

	require.NoError(t, err)
	require.NotEmpty(t, data)
	// xlsx files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}
