package repository

import (
	"time"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"gorm.io/gorm"
)

// DashboardRepository 관리자 대시보드 집계용 카운트 쿼리
type DashboardRepository interface {
	CountUsers(activeOnly bool) (int64, error)
	CountWallpapers(since *time.Time) (int64, error)
	CountPublishedPosts(since *time.Time) (int64, error)
	CountReports(status model.ReportStatus) (int64, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountUsers(activeOnly bool) (int64, error) {
	var count int64
	q := r.db.Model(&model.User{})
	if activeOnly {
		q = q.Where("status = ?", model.UserStatusActive)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountWallpapers(since *time.Time) (int64, error) {
	var count int64
	q := r.db.Model(&model.Wallpaper{})
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountPublishedPosts(since *time.Time) (int64, error) {
	var count int64
	q := r.db.Model(&model.Post{}).Where("status = ?", model.PostStatusPublished)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	err := q.Count(&count).Error
	return count, err
}

// CountReports status가 비어 있으면 전체
func (r *dashboardRepository) CountReports(status model.ReportStatus) (int64, error) {
	var count int64
	q := r.db.Model(&model.Report{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&count).Error
	return count, err
}
