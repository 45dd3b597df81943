package domain

import (
	"context"
	"time"
)

// LessonProgress is the per-user, per-lesson viewing state. One row per
// (user, lesson); repeat views only move LastAccessed.
type LessonProgress struct {
	UserID       string    `json:"user_id"`
	LessonID     string    `json:"lesson_id"`
	CourseID     string    `json:"course_id"`
	Completed    bool      `json:"completed"`
	LastAccessed time.Time `json:"last_accessed"`
}

// CourseCompletion is created at most once per (user, course). The timestamp
// records the first completion and is never overwritten.
type CourseCompletion struct {
	UserID      string    `json:"user_id"`
	CourseID    string    `json:"course_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type CourseProgress struct {
	ViewedLessons []string `json:"viewedLessons"`
	Completed     bool     `json:"completed"`
}

type ProgressStats struct {
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
}

type ProgressOverview struct {
	Stats            ProgressStats `json:"stats"`
	CompletedCourses []string      `json:"completedCourses"`
}

// ProgressResult is the outcome of a write to the progress tracker.
type ProgressResult struct {
	// NewCompletion is true exactly once per (user, course): on the call that
	// created the completion row.
	NewCompletion bool
	// Deferred means the write was skipped because the users table has not
	// been migrated yet. Reported as success to the client.
	Deferred bool
}

type ProgressRepository interface {
	UpsertLessonView(ctx context.Context, p *LessonProgress) error
	// InsertCompletion inserts the completion row if absent and reports
	// whether this call created it. Implementations must make the
	// insert-if-absent atomic so the novelty signal is race-free.
	InsertCompletion(ctx context.Context, userID, courseID string, at time.Time) (bool, error)
	ListViewedLessonIDs(ctx context.Context, userID, courseID string) ([]string, error)
	HasCompletion(ctx context.Context, userID, courseID string) (bool, error)
	ListCompletedCourseSlugs(ctx context.Context, userID string) ([]string, error)
	CountCompletions(ctx context.Context, userID string) (int, error)
	CountCoursesInProgress(ctx context.Context, userID string) (int, error)
	CountAllCompletions(ctx context.Context) (int64, error)
	CompletionCountsByCourse(ctx context.Context) ([]ChartPoint, error)
}

type ProgressUsecase interface {
	// RecordProgress records a lesson view and, when completed is true, also
	// attempts course completion.
	RecordProgress(ctx context.Context, uid, courseSlug, lessonSlug string, completed bool) (*ProgressResult, error)
	GetCourseProgress(ctx context.Context, uid, courseSlug string) (*CourseProgress, error)
	GetOverview(ctx context.Context, uid string) (*ProgressOverview, error)
}
