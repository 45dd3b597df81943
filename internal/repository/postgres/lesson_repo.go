package postgres

import (
	"context"

	"go-course-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const lessonColumns = `id, course_id, slug, title, content_markdown, video_url, video_provider, pdf_url, content_type, order_index, created_at`

type lessonRepo struct {
	db *pgxpool.Pool
}

func NewLessonRepository(db *pgxpool.Pool) domain.LessonRepository {
	return &lessonRepo{db: db}
}

func (r *lessonRepo) GetByID(ctx context.Context, id string) (*domain.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`
	var l domain.Lesson
	err := r.db.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.CourseID, &l.Slug, &l.Title, &l.ContentMarkdown,
		&l.VideoURL, &l.VideoProvider, &l.PDFURL, &l.ContentType, &l.OrderIndex, &l.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &l, nil
}

// GetBySlug is scoped by course: lesson slugs are only unique within one.
func (r *lessonRepo) GetBySlug(ctx context.Context, courseID, slug string) (*domain.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE course_id = $1 AND slug = $2`
	var l domain.Lesson
	err := r.db.QueryRow(ctx, query, courseID, slug).Scan(
		&l.ID, &l.CourseID, &l.Slug, &l.Title, &l.ContentMarkdown,
		&l.VideoURL, &l.VideoProvider, &l.PDFURL, &l.ContentType, &l.OrderIndex, &l.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &l, nil
}

func (r *lessonRepo) ListByCourse(ctx context.Context, courseID string) ([]domain.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE course_id = $1 ORDER BY order_index ASC LIMIT 100`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var lessons []domain.Lesson
	for rows.Next() {
		var l domain.Lesson
		if err := rows.Scan(
			&l.ID, &l.CourseID, &l.Slug, &l.Title, &l.ContentMarkdown,
			&l.VideoURL, &l.VideoProvider, &l.PDFURL, &l.ContentType, &l.OrderIndex, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func (r *lessonRepo) Create(ctx context.Context, lesson *domain.Lesson) error {
	query := `INSERT INTO lessons (id, course_id, slug, title, content_markdown, video_url, video_provider, pdf_url, content_type, order_index, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		lesson.ID, lesson.CourseID, lesson.Slug, lesson.Title, lesson.ContentMarkdown,
		lesson.VideoURL, lesson.VideoProvider, lesson.PDFURL, lesson.ContentType,
		lesson.OrderIndex, lesson.CreatedAt,
	)
	return translateError(err)
}

func (r *lessonRepo) Update(ctx context.Context, lesson *domain.Lesson) error {
	query := `UPDATE lessons SET slug = $2, title = $3, content_markdown = $4, video_url = $5,
              video_provider = $6, pdf_url = $7, content_type = $8, order_index = $9 WHERE id = $1`
	ct, err := r.db.Exec(ctx, query,
		lesson.ID, lesson.Slug, lesson.Title, lesson.ContentMarkdown,
		lesson.VideoURL, lesson.VideoProvider, lesson.PDFURL, lesson.ContentType, lesson.OrderIndex,
	)
	if err != nil {
		return translateError(err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *lessonRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *lessonRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM lessons`).Scan(&count)
	return count, translateError(err)
}
