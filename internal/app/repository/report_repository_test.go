package repository

import (
	"testing"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReport(userID uint, targetType model.ReportTargetType, targetID uint, reason model.ReportReason) *model.Report {
	return &model.Report{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		Status:     model.ReportStatusPending,
	}
}

func TestReportRepository_UniquePerUserAndTarget(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewReportRepository(testDB)
	alice := createTestUser(t, testDB, "alice")
	bob := createTestUser(t, testDB, "bob")

	require.NoError(t, repo.Create(newReport(alice.ID, model.ReportTargetPost, 1, model.ReasonSpam)))

	err := repo.Create(newReport(alice.ID, model.ReportTargetPost, 1, model.ReasonOther))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, repo.Create(newReport(bob.ID, model.ReportTargetPost, 1, model.ReasonSpam)))
	require.NoError(t, repo.Create(newReport(alice.ID, model.ReportTargetComment, 1, model.ReasonSpam)))

	exists, err := repo.Exists(alice.ID, model.ReportTargetPost, 1)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestReportRepository_UpdateReviewSkipsTerminal(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewReportRepository(testDB)
	alice := createTestUser(t, testDB, "alice")
	admin := createTestUser(t, testDB, "admin")

	report := newReport(alice.ID, model.ReportTargetPost, 1, model.ReasonSpam)
	require.NoError(t, repo.Create(report))

	note := "removed"
	changed, err := repo.UpdateReview(report.ID, model.ReportStatusResolved, &note, admin.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	found, err := repo.FindByID(report.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusResolved, found.Status)
	require.NotNil(t, found.ReviewedBy)
	assert.Equal(t, admin.ID, *found.ReviewedBy)
	require.NotNil(t, found.Reviewer)
	assert.Equal(t, "admin", found.Reviewer.Username)

	changed, err = repo.UpdateReview(report.ID, model.ReportStatusReviewing, nil, admin.ID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestReportRepository_StatsAndList(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewReportRepository(testDB)
	alice := createTestUser(t, testDB, "alice")
	bob := createTestUser(t, testDB, "bob")

	require.NoError(t, repo.Create(newReport(alice.ID, model.ReportTargetPost, 1, model.ReasonSpam)))
	require.NoError(t, repo.Create(newReport(bob.ID, model.ReportTargetPost, 1, model.ReasonSpam)))
	dismissed := newReport(alice.ID, model.ReportTargetComment, 2, model.ReasonHarassment)
	dismissed.Status = model.ReportStatusDismissed
	require.NoError(t, repo.Create(dismissed))

	stats, err := repo.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Dismissed)
	assert.Equal(t, int64(2), stats.ByReason["spam"])
	assert.Equal(t, int64(1), stats.ByReason["harassment"])
	assert.Equal(t, int64(2), stats.ByType["post"])
	assert.Equal(t, int64(1), stats.ByType["comment"])

	reports, total, err := repo.List(model.ReportListQuery{Status: model.ReportStatusPending}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.NotNil(t, reports[0].Reporter)

	recent, err := repo.FindRecent(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, dismissed.ID, recent[0].ID)
}

func TestReportRepository_TargetExists(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewReportRepository(testDB)
	user := createTestUser(t, testDB, "alice")
	post := createTestPost(t, testDB, user.ID, "p1", "")

	ok, err := repo.TargetExists(model.ReportTargetPost, post.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TargetExists(model.ReportTargetComment, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
