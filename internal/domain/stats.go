package domain

import "context"

// SiteStats is the public landing-page counters payload.
type SiteStats struct {
	Courses    int64 `json:"courses"`
	Lessons    int64 `json:"lessons"`
	Categories int64 `json:"categories"`
	Users      int64 `json:"users"`
}

type AdminStats struct {
	TotalCourses     int64 `json:"totalCourses"`
	TotalLessons     int64 `json:"totalLessons"`
	TotalUsers       int64 `json:"totalUsers"`
	TotalCompletions int64 `json:"totalCompletions"`
}

type ChartPoint struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type AdminDashboard struct {
	Stats     AdminStats   `json:"stats"`
	Users     []User       `json:"users"`
	ChartData []ChartPoint `json:"chartData"`
}

type StatsUsecase interface {
	GetSiteStats(ctx context.Context) SiteStats
	GetAdminDashboard(ctx context.Context) (*AdminDashboard, error)
	ExportAdminDashboard(ctx context.Context) ([]byte, error)
}
