package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-course-backend/internal/domain"
)

func TestIsLessonVisible(t *testing.T) {
	cases := []struct {
		name          string
		authenticated bool
		orderIndex    int
		want          bool
	}{
		{"guest sees first lesson", false, 0, true},
		{"guest blocked from second lesson", false, 1, false},
		{"guest blocked from later lessons", false, 7, false},
		{"authenticated sees first lesson", true, 0, true},
		{"authenticated sees any lesson", true, 7, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.IsLessonVisible(tc.authenticated, tc.orderIndex))
		})
	}
}

func TestIsCourseUnlocked(t *testing.T) {
	courses := []domain.Course{
		{Slug: "go-basics", OrderIndex: 1},
		{Slug: "go-web", OrderIndex: 2},
		{Slug: "go-advanced", OrderIndex: 3},
	}

	cases := []struct {
		name        string
		courseOrder int
		completed   []string
		want        bool
	}{
		{"first course always unlocked", 1, nil, true},
		{"order zero treated as unlocked", 0, nil, true},
		{"second locked with nothing completed", 2, nil, false},
		{"second unlocked after first completed", 2, []string{"go-basics"}, true},
		{"third locked when only first completed", 3, []string{"go-basics"}, false},
		{"third unlocked after second completed", 3, []string{"go-basics", "go-web"}, true},
		{"only the immediate predecessor matters", 3, []string{"go-web"}, true},
		{"unrelated completion does not unlock", 2, []string{"go-advanced"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.IsCourseUnlocked(tc.courseOrder, courses, tc.completed))
		})
	}
}

func TestIsCourseUnlockedMissingPredecessor(t *testing.T) {
	// A gap in the ordering means the predecessor cannot be found; the
	// course stays locked rather than silently opening.
	courses := []domain.Course{
		{Slug: "go-basics", OrderIndex: 1},
		{Slug: "go-advanced", OrderIndex: 3},
	}
	assert.False(t, domain.IsCourseUnlocked(3, courses, []string{"go-basics"}))
}
