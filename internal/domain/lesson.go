package domain

import (
	"context"
	"time"
)

const (
	ContentTypeText  = "text"
	ContentTypeVideo = "video"
	ContentTypePDF   = "pdf"
	ContentTypeMixed = "mixed"
)

type Lesson struct {
	ID              string    `json:"id"`
	CourseID        string    `json:"course_id"`
	Slug            string    `json:"slug"` // unique within the course
	Title           string    `json:"title"`
	ContentMarkdown *string   `json:"content_markdown,omitempty"`
	VideoURL        *string   `json:"video_url,omitempty"`
	VideoProvider   *string   `json:"video_provider,omitempty"` // youtube | vimeo | other
	PDFURL          *string   `json:"pdf_url,omitempty"`
	ContentType     string    `json:"content_type"`
	OrderIndex      int       `json:"order_index"`
	CreatedAt       time.Time `json:"created_at"`
}

type LessonRepository interface {
	GetByID(ctx context.Context, id string) (*Lesson, error)
	GetBySlug(ctx context.Context, courseID, slug string) (*Lesson, error)
	ListByCourse(ctx context.Context, courseID string) ([]Lesson, error)
	Create(ctx context.Context, lesson *Lesson) error
	Update(ctx context.Context, lesson *Lesson) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type LessonUsecase interface {
	Create(ctx context.Context, lesson *Lesson) error
	Update(ctx context.Context, lesson *Lesson) error
	Delete(ctx context.Context, id string) error
}
