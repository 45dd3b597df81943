package domain

// IsLessonVisible reports whether a lesson can be opened by the caller.
// The first lesson of a course (order index 0) is free for guests; everything
// else requires authentication.
func IsLessonVisible(isAuthenticated bool, lessonOrderIndex int) bool {
	if isAuthenticated {
		return true
	}
	return lessonOrderIndex == 0
}

// IsCourseUnlocked reports whether a course in the skill tree is reachable.
// The first course (order 1) is always unlocked; any other course requires
// the course immediately preceding it in order to be completed.
func IsCourseUnlocked(courseOrder int, courses []Course, completedSlugs []string) bool {
	if courseOrder <= 1 {
		return true
	}
	var prev *Course
	for i := range courses {
		if courses[i].OrderIndex == courseOrder-1 {
			prev = &courses[i]
			break
		}
	}
	if prev == nil {
		return false
	}
	for _, slug := range completedSlugs {
		if slug == prev.Slug {
			return true
		}
	}
	return false
}
