package service

import (
	"time"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/repository"
	"github.com/ikkim/wallhub-backend/internal/authz"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	defaultActivityLimit = 8
	maxActivityLimit     = 20
)

type DashboardService interface {
	GetStats(actor authz.Subject) (*model.DashboardStats, error)
	GetRecentActivity(actor authz.Subject, limit int) ([]model.ActivityItem, error)
}

type dashboardService struct {
	dashboardRepo repository.DashboardRepository
	reportRepo    repository.ReportRepository
	now           func() time.Time
}

func NewDashboardService(dashboardRepo repository.DashboardRepository, reportRepo repository.ReportRepository) DashboardService {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		reportRepo:    reportRepo,
		now:           time.Now,
	}
}

func viewDashboard(actor authz.Subject) error {
	return authz.Authorize(actor, authz.ActionViewDashboard, authz.Resource{Kind: authz.ResourceSystem})
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// GetStats 집계 쿼리를 동시에 실행
func (s *dashboardService) GetStats(actor authz.Subject) (*model.DashboardStats, error) {
	if err := viewDashboard(actor); err != nil {
		return nil, err
	}

	since := monthStart(s.now())
	stats := &model.DashboardStats{}

	var g errgroup.Group
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.dashboardRepo.CountUsers(false)
		return
	})
	g.Go(func() (err error) {
		stats.ActiveUsers, err = s.dashboardRepo.CountUsers(true)
		return
	})
	g.Go(func() (err error) {
		stats.TotalWallpapers, err = s.dashboardRepo.CountWallpapers(nil)
		return
	})
	g.Go(func() (err error) {
		stats.NewWallpapersThisMonth, err = s.dashboardRepo.CountWallpapers(&since)
		return
	})
	g.Go(func() (err error) {
		stats.TotalPosts, err = s.dashboardRepo.CountPublishedPosts(nil)
		return
	})
	g.Go(func() (err error) {
		stats.NewPostsThisMonth, err = s.dashboardRepo.CountPublishedPosts(&since)
		return
	})
	g.Go(func() (err error) {
		stats.TotalReports, err = s.dashboardRepo.CountReports("")
		return
	})
	g.Go(func() (err error) {
		stats.PendingReports, err = s.dashboardRepo.CountReports(model.ReportStatusPending)
		return
	})

	if err := g.Wait(); err != nil {
		logger.Error("Failed to aggregate dashboard stats", err)
		return nil, err
	}
	return stats, nil
}

// GetRecentActivity 최근 신고 목록 (limit 1~20, 기본 8)
func (s *dashboardService) GetRecentActivity(actor authz.Subject, limit int) ([]model.ActivityItem, error) {
	if err := viewDashboard(actor); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	reports, err := s.reportRepo.FindRecent(limit)
	if err != nil {
		return nil, err
	}

	items := make([]model.ActivityItem, 0, len(reports))
	for _, r := range reports {
		item := model.ActivityItem{
			ID:         r.ID,
			Type:       "report",
			TargetType: r.TargetType,
			TargetID:   r.TargetID,
			Reason:     r.Reason,
			Status:     r.Status,
			CreatedAt:  r.CreatedAt,
		}
		if r.Reporter != nil {
			item.Reporter = r.Reporter.Username
		}
		items = append(items, item)
	}
	return items, nil
}
