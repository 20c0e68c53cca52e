package model

import "time"

// DashboardStats 관리자 대시보드 집계
type DashboardStats struct {
	TotalUsers             int64 `json:"total_users"`
	ActiveUsers            int64 `json:"active_users"`
	TotalWallpapers        int64 `json:"total_wallpapers"`
	NewWallpapersThisMonth int64 `json:"new_wallpapers_this_month"`
	TotalPosts             int64 `json:"total_posts"` // published only
	NewPostsThisMonth      int64 `json:"new_posts_this_month"`
	TotalReports           int64 `json:"total_reports"`
	PendingReports         int64 `json:"pending_reports"`
}

// ActivityItem 최근 신고 활동
type ActivityItem struct {
	ID         uint             `json:"id"`
	Type       string           `json:"type"`
	TargetType ReportTargetType `json:"target_type"`
	TargetID   uint             `json:"target_id"`
	Reason     ReportReason     `json:"reason"`
	Status     ReportStatus     `json:"status"`
	Reporter   string           `json:"reporter"`
	CreatedAt  time.Time        `json:"created_at"`
}
