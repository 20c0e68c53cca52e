package repository

import (
	"time"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ViewHistoryRepository interface {
	Record(userID, wallpaperID uint, viewedAt time.Time) error
	FindByUser(userID uint, page, limit int) ([]model.ViewHistory, int64, error)
	ClearByUser(userID uint) (int64, error)
	DeleteBefore(cutoff time.Time) (int64, error)
}

type viewHistoryRepository struct {
	db *gorm.DB
}

func NewViewHistoryRepository(db *gorm.DB) ViewHistoryRepository {
	return &viewHistoryRepository{db: db}
}

// Record (user_id, wallpaper_id)당 한 행. 다시 보면 viewed_at만 갱신
func (r *viewHistoryRepository) Record(userID, wallpaperID uint, viewedAt time.Time) error {
	history := model.ViewHistory{UserID: userID, WallpaperID: wallpaperID, ViewedAt: viewedAt}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "wallpaper_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"viewed_at"}),
	}).Create(&history).Error
	if err != nil {
		logger.Error("Failed to record view history", err, map[string]interface{}{
			"user_id":      userID,
			"wallpaper_id": wallpaperID,
		})
	}
	return err
}

func (r *viewHistoryRepository) FindByUser(userID uint, page, limit int) ([]model.ViewHistory, int64, error) {
	q := r.db.Model(&model.ViewHistory{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var histories []model.ViewHistory
	err := q.Preload("Wallpaper").
		Order("viewed_at DESC").
		Scopes(paginate(page, limit)).
		Find(&histories).Error
	return histories, total, err
}

func (r *viewHistoryRepository) ClearByUser(userID uint) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&model.ViewHistory{})
	return result.RowsAffected, result.Error
}

// DeleteBefore 보관 기간이 지난 기록 일괄 삭제 (스케줄러에서 호출)
func (r *viewHistoryRepository) DeleteBefore(cutoff time.Time) (int64, error) {
	logger.Debug("Deleting expired view history", map[string]interface{}{
		"cutoff": cutoff,
	})

	result := r.db.Where("viewed_at < ?", cutoff).Delete(&model.ViewHistory{})
	if result.Error != nil {
		logger.Error("Failed to delete expired view history", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
