package postgres

import (
	"context"

	"go-course-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const courseColumns = `id, slug, title, description, category, thumbnail_url, order_index, published, created_at`

type courseRepo struct {
	db *pgxpool.Pool
}

func NewCourseRepository(db *pgxpool.Pool) domain.CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *courseRepo) GetBySlug(ctx context.Context, slug string) (*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE slug = $1`
	return r.scanOne(ctx, query, slug)
}

func (r *courseRepo) ListPublished(ctx context.Context) ([]domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE published = true ORDER BY order_index ASC LIMIT 100`
	return r.scanMany(ctx, query)
}

func (r *courseRepo) List(ctx context.Context) ([]domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY order_index ASC LIMIT 100`
	return r.scanMany(ctx, query)
}

func (r *courseRepo) Create(ctx context.Context, course *domain.Course) error {
	query := `INSERT INTO courses (id, slug, title, description, category, thumbnail_url, order_index, published, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		course.ID, course.Slug, course.Title, course.Description, course.Category,
		course.ThumbnailURL, course.OrderIndex, course.Published, course.CreatedAt,
	)
	return translateError(err)
}

func (r *courseRepo) Update(ctx context.Context, course *domain.Course) error {
	query := `UPDATE courses SET slug = $2, title = $3, description = $4, category = $5,
              thumbnail_url = $6, order_index = $7, published = $8 WHERE id = $1`
	ct, err := r.db.Exec(ctx, query,
		course.ID, course.Slug, course.Title, course.Description, course.Category,
		course.ThumbnailURL, course.OrderIndex, course.Published,
	)
	if err != nil {
		return translateError(err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *courseRepo) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses WHERE published = true`).Scan(&count)
	return count, translateError(err)
}

func (r *courseRepo) PublishedCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT category FROM courses WHERE published = true`)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *courseRepo) scanOne(ctx context.Context, query string, arg any) (*domain.Course, error) {
	var c domain.Course
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.Slug, &c.Title, &c.Description, &c.Category,
		&c.ThumbnailURL, &c.OrderIndex, &c.Published, &c.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (r *courseRepo) scanMany(ctx context.Context, query string) ([]domain.Course, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(
			&c.ID, &c.Slug, &c.Title, &c.Description, &c.Category,
			&c.ThumbnailURL, &c.OrderIndex, &c.Published, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
