package postgres

import (
	"context"
	"time"

	"go-course-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type progressRepo struct {
	db *pgxpool.Pool
}

func NewProgressRepository(db *pgxpool.Pool) domain.ProgressRepository {
	return &progressRepo{db: db}
}

// UpsertLessonView marks a lesson as viewed. Repeat views only move
// last_accessed; the (user_id, lesson_id) unique constraint guarantees a
// single row no matter how often this runs.
func (r *progressRepo) UpsertLessonView(ctx context.Context, p *domain.LessonProgress) error {
	query := `INSERT INTO user_lesson_progress (user_id, lesson_id, course_id, completed, last_accessed)
              VALUES ($1, $2, $3, true, $4)
              ON CONFLICT (user_id, lesson_id)
              DO UPDATE SET completed = true, last_accessed = EXCLUDED.last_accessed`
	_, err := r.db.Exec(ctx, query, p.UserID, p.LessonID, p.CourseID, p.LastAccessed)
	return translateError(err)
}

// InsertCompletion creates the completion row if it does not exist and
// reports whether this call won. ON CONFLICT DO NOTHING makes the novelty
// signal atomic: two concurrent callers cannot both see rows-affected 1.
// completed_at keeps the first completion time; repeats never overwrite it.
func (r *progressRepo) InsertCompletion(ctx context.Context, userID, courseID string, at time.Time) (bool, error) {
	query := `INSERT INTO course_completions (user_id, course_id, completed_at)
              VALUES ($1, $2, $3)
              ON CONFLICT (user_id, course_id) DO NOTHING`
	ct, err := r.db.Exec(ctx, query, userID, courseID, at)
	if err != nil {
		return false, translateError(err)
	}
	return ct.RowsAffected() == 1, nil
}

func (r *progressRepo) ListViewedLessonIDs(ctx context.Context, userID, courseID string) ([]string, error) {
	query := `SELECT lesson_id FROM user_lesson_progress WHERE user_id = $1 AND course_id = $2`
	rows, err := r.db.Query(ctx, query, userID, courseID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *progressRepo) HasCompletion(ctx context.Context, userID, courseID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM course_completions WHERE user_id = $1 AND course_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, courseID).Scan(&exists)
	return exists, translateError(err)
}

func (r *progressRepo) ListCompletedCourseSlugs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT c.slug FROM course_completions cc
              JOIN courses c ON c.id = cc.course_id
              WHERE cc.user_id = $1`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

func (r *progressRepo) CountCompletions(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM course_completions WHERE user_id = $1`, userID).Scan(&count)
	return count, translateError(err)
}

// CountCoursesInProgress counts distinct courses the user has touched,
// including completed ones; callers subtract completions for the "in
// progress" figure.
func (r *progressRepo) CountCoursesInProgress(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT course_id) FROM user_lesson_progress WHERE user_id = $1`, userID,
	).Scan(&count)
	return count, translateError(err)
}

func (r *progressRepo) CountAllCompletions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM course_completions`).Scan(&count)
	return count, translateError(err)
}

func (r *progressRepo) CompletionCountsByCourse(ctx context.Context) ([]domain.ChartPoint, error) {
	query := `SELECT COALESCE(c.title, 'Unknown'), COUNT(*)
              FROM course_completions cc
              LEFT JOIN courses c ON c.id = cc.course_id
              GROUP BY c.title
              ORDER BY COUNT(*) DESC
              LIMIT 1000`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var points []domain.ChartPoint
	for rows.Next() {
		var p domain.ChartPoint
		if err := rows.Scan(&p.Name, &p.Value); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
