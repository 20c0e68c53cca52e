package service

import (
	"fmt"
	"testing"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/authz"
	"github.com/ikkim/wallhub-backend/internal/db"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func seedUser(t *testing.T, testDB *gorm.DB, username string, role model.UserRole) *model.User {
	user := &model.User{
		Username:     username,
		PasswordHash: "hash",
		Role:         role,
		Status:       model.UserStatusActive,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func subjectOf(user *model.User) authz.Subject {
	return authz.Subject{UserID: user.ID, Role: user.Role}
}

func testWallpaperFile(name string) *model.WallpaperFile {
	return &model.WallpaperFile{
		FileURL:      fmt.Sprintf("/uploads/wallpapers/%s.jpg", name),
		FileKey:      fmt.Sprintf("wallpapers/%s.jpg", name),
		ThumbnailURL: fmt.Sprintf("/uploads/thumbnails/%s.jpg", name),
		ThumbnailKey: fmt.Sprintf("thumbnails/%s.jpg", name),
		FileSize:     2048,
		Width:        1920,
		Height:       1080,
		Format:       "jpeg",
		AspectRatio:  1.78,
	}
}

func tagUsage(t *testing.T, testDB *gorm.DB, slug string) int64 {
	var tag model.Tag
	require.NoError(t, testDB.Where("slug = ?", slug).First(&tag).Error)
	return tag.UsageCount
}

// assertAppError kind와 code를 함께 검증
func assertAppError(t *testing.T, err error, kind apperrors.Kind, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	assert.Equal(t, kind, appErr.Kind)
	if code != "" {
		assert.Equal(t, code, appErr.Code)
	}
}
