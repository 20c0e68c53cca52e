package repository

import (
	"fmt"
	"testing"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, username string) *model.User {
	user := &model.User{Username: username, PasswordHash: "hash", Role: model.RoleUser}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestWallpaper(t *testing.T, testDB *gorm.DB, uploaderID uint, title string) *model.Wallpaper {
	wallpaper := &model.Wallpaper{
		Title:       title,
		Category:    model.CategoryGeneral,
		FileURL:     fmt.Sprintf("/uploads/%s.jpg", title),
		FileSize:    1024,
		Format:      "jpeg",
		Width:       1920,
		Height:      1080,
		AspectRatio: 1.78,
		UploaderID:  uploaderID,
		Status:      model.WallpaperStatusActive,
	}
	require.NoError(t, testDB.Create(wallpaper).Error)
	return wallpaper
}

func createTestPost(t *testing.T, testDB *gorm.DB, authorID uint, title, tags string) *model.Post {
	post := &model.Post{
		Title:    title,
		Content:  "content of " + title,
		Category: model.PostCategoryTechDiscussion,
		Status:   model.PostStatusPublished,
		Tags:     tags,
		AuthorID: authorID,
	}
	require.NoError(t, testDB.Create(post).Error)
	return post
}

func tagInputs(names ...string) []model.Tag {
	tags := make([]model.Tag, 0, len(names))
	for _, n := range names {
		tags = append(tags, model.Tag{Name: n, Slug: slugOf(n)})
	}
	return tags
}

func slugOf(name string) string {
	out := []rune{}
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if r == ' ' {
			r = '-'
		}
		out = append(out, r)
	}
	return string(out)
}

func usageOf(t *testing.T, testDB *gorm.DB, slug string) int64 {
	var tag model.Tag
	require.NoError(t, testDB.Where("slug = ?", slug).First(&tag).Error)
	return tag.UsageCount
}
