package db

import (
	"testing"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDB_CreatesAllTables(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	for _, table := range []string{
		"users", "tags", "wallpapers", "wallpaper_tags", "user_likes", "user_favorites",
		"view_histories", "posts", "post_likes", "comments", "comment_likes", "reports",
	} {
		assert.True(t, testDB.Migrator().HasTable(table), table)
	}
	assert.True(t, testDB.Migrator().HasIndex(&model.UserLike{}, "idx_user_wallpaper_like"))
	assert.True(t, testDB.Migrator().HasIndex(&model.Report{}, "idx_report_dedup"))
}

func TestSeedAdmin(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	require.NoError(t, SeedAdmin(testDB, "root", "secret123"))
	require.NoError(t, SeedAdmin(testDB, "root2", "secret123"))

	var admins []model.User
	require.NoError(t, testDB.Where("role = ?", model.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "root", admins[0].Username)
}

func TestSeedAdmin_SkipsWithoutPassword(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	require.NoError(t, SeedAdmin(testDB, "root", ""))

	var count int64
	testDB.Model(&model.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestTruncateAllTables(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	require.NoError(t, testDB.Create(&model.User{Username: "u", PasswordHash: "x"}).Error)
	require.NoError(t, TruncateAllTables(testDB))

	var count int64
	testDB.Model(&model.User{}).Count(&count)
	assert.Zero(t, count)
}
