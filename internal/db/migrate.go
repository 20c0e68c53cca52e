package db

import (
	"errors"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"github.com/ikkim/wallhub-backend/pkg/util"
	"gorm.io/gorm"
)

// Models lists every table in dependency order
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Tag{},
		&model.Wallpaper{},
		&model.WallpaperTag{},
		&model.UserLike{},
		&model.UserFavorite{},
		&model.ViewHistory{},
		&model.Post{},
		&model.PostLike{},
		&model.Comment{},
		&model.CommentLike{},
		&model.Report{},
	}
}

// AutoMigrate registers the custom wallpaper_tags join model and migrates all tables
func AutoMigrate(database *gorm.DB) error {
	if err := database.SetupJoinTable(&model.Wallpaper{}, "Tags", &model.WallpaperTag{}); err != nil {
		return err
	}
	return database.AutoMigrate(Models()...)
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	if err := AutoMigrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(Models()),
	})
	return nil
}

// Seed creates the bootstrap administrator when none exists
func Seed(adminUsername, adminPassword string) error {
	return SeedAdmin(DB, adminUsername, adminPassword)
}

func SeedAdmin(database *gorm.DB, username, password string) error {
	if password == "" {
		logger.Warn("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing model.User
	err := database.Where("role = ?", model.RoleAdmin).First(&existing).Error
	if err == nil {
		logger.Info("Admin user already exists, skipping...", map[string]interface{}{
			"user_id": existing.ID,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username:     username,
		PasswordHash: hash,
		AvatarURL:    model.DefaultAvatarURL,
		Role:         model.RoleAdmin,
		Status:       model.UserStatusActive,
	}
	if err := database.Create(admin).Error; err != nil {
		return err
	}

	logger.Info("Admin user seeded", map[string]interface{}{
		"user_id":  admin.ID,
		"username": username,
	})
	return nil
}
