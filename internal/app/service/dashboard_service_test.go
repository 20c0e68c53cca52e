package service

import (
	"testing"
	"time"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/repository"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetStats(t *testing.T) {
	testDB := setupServiceDB(t)
	reportRepo := repository.NewReportRepository(testDB)
	dashboard := NewDashboardService(repository.NewDashboardRepository(testDB), reportRepo)

	admin := seedUser(t, testDB, "admin", model.RoleAdmin)
	user := seedUser(t, testDB, "alice", model.RoleUser)
	disabled := seedUser(t, testDB, "bob", model.RoleUser)
	require.NoError(t, testDB.Model(disabled).Update("status", model.UserStatusDisabled).Error)

	wallpapers := NewWallpaperService(repository.NewWallpaperRepository(testDB), nil,
		NewTagService(repository.NewTagRepository(testDB)), nil, nil, 0)
	old, err := wallpapers.Create(user.ID, model.CreateWallpaperRequest{Title: "old"}, testWallpaperFile("old"))
	require.NoError(t, err)
	_, err = wallpapers.Create(user.ID, model.CreateWallpaperRequest{Title: "new"}, testWallpaperFile("new"))
	require.NoError(t, err)
	require.NoError(t, testDB.Model(old).UpdateColumn("created_at", time.Now().AddDate(0, -2, 0)).Error)

	posts := NewPostService(repository.NewPostRepository(testDB))
	post, err := posts.Create(user.ID, newPostRequest("Published"))
	require.NoError(t, err)
	draft, err := posts.Create(user.ID, newPostRequest("Draft"))
	require.NoError(t, err)
	require.NoError(t, testDB.Model(draft).Update("status", model.PostStatusDraft).Error)

	reports := NewReportService(reportRepo, nil)
	_, err = reports.Create(admin.ID, model.CreateReportRequest{TargetType: model.ReportTargetPost, TargetID: post.ID, Reason: model.ReasonSpam})
	require.NoError(t, err)

	_, err = dashboard.GetStats(subjectOf(user))
	assertAppError(t, err, apperrors.KindForbidden, apperrors.AuthzAdminOnly)

	stats, err := dashboard.GetStats(subjectOf(admin))
	require.NoError(t, err)
	assert.Equal(t, &model.DashboardStats{
		TotalUsers:             3,
		ActiveUsers:            2,
		TotalWallpapers:        2,
		NewWallpapersThisMonth: 1,
		TotalPosts:             1,
		NewPostsThisMonth:      1,
		TotalReports:           1,
		PendingReports:         1,
	}, stats)
}

func TestDashboardService_GetRecentActivity(t *testing.T) {
	testDB := setupServiceDB(t)
	reportRepo := repository.NewReportRepository(testDB)
	dashboard := NewDashboardService(repository.NewDashboardRepository(testDB), reportRepo)
	reports := NewReportService(reportRepo, nil)

	admin := seedUser(t, testDB, "admin", model.RoleAdmin)
	posts := NewPostService(repository.NewPostRepository(testDB))
	for i := 0; i < 3; i++ {
		reporter := seedUser(t, testDB, "reporter"+string(rune('a'+i)), model.RoleUser)
		post, err := posts.Create(admin.ID, newPostRequest("p"))
		require.NoError(t, err)
		_, err = reports.Create(reporter.ID, model.CreateReportRequest{TargetType: model.ReportTargetPost, TargetID: post.ID, Reason: model.ReasonOther})
		require.NoError(t, err)
	}

	items, err := dashboard.GetRecentActivity(subjectOf(admin), 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "reporterc", items[0].Reporter)
	assert.Equal(t, "report", items[0].Type)

	items, err = dashboard.GetRecentActivity(subjectOf(admin), 0)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestMonthStart(t *testing.T) {
	at := time.Date(2026, time.March, 17, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), monthStart(at))
}
