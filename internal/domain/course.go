package domain

import (
	"context"
	"time"
)

// Course categories are a closed set; validation rejects anything else.
const (
	CategoryCoding   = "coding"
	CategorySecurity = "security"
	CategoryLanguage = "language"
)

var Categories = []string{CategoryCoding, CategorySecurity, CategoryLanguage}

type Course struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	Category     string    `json:"category"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	OrderIndex   int       `json:"order_index"` // position in the skill tree; course N requires course N-1
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"created_at"`
}

type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*Course, error)
	GetBySlug(ctx context.Context, slug string) (*Course, error)
	ListPublished(ctx context.Context) ([]Course, error)
	List(ctx context.Context) ([]Course, error)
	Create(ctx context.Context, course *Course) error
	Update(ctx context.Context, course *Course) error
	Delete(ctx context.Context, id string) error
	CountPublished(ctx context.Context) (int64, error)
	PublishedCategories(ctx context.Context) ([]string, error)
}

type CourseUsecase interface {
	ListPublished(ctx context.Context) ([]Course, error)
	GetBySlug(ctx context.Context, slug string) (*Course, error)
	GetLessons(ctx context.Context, courseSlug string) ([]Lesson, error)
	Create(ctx context.Context, course *Course) error
	Update(ctx context.Context, course *Course) error
	Delete(ctx context.Context, id string) error
}
