package repository

import (
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WallpaperFilter 목록 조회 조건. TagSlugs는 모두 일치해야 함
type WallpaperFilter struct {
	model.WallpaperListQuery
	TagSlugs []string
	OrderBy  string
	Page     int
	Limit    int
}

type WallpaperRepository interface {
	Create(wallpaper *model.Wallpaper) error
	FindByID(id uint) (*model.Wallpaper, error)
	Update(id uint, updates map[string]interface{}) error
	FindAll(filter WallpaperFilter) ([]model.Wallpaper, int64, error)
	AdminFind(query model.AdminWallpaperQuery, page, limit int) ([]model.Wallpaper, int64, error)
	FindByUploader(uploaderID uint, page, limit int) ([]model.Wallpaper, int64, error)
	FindPopular(limit int) ([]model.Wallpaper, error)
	FindLikedBy(userID uint, page, limit int) ([]model.Wallpaper, int64, error)
	FindFavoritedBy(userID uint, page, limit int) ([]model.Wallpaper, int64, error)
	Like(userID, wallpaperID uint) (*model.InteractionState, error)
	Unlike(userID, wallpaperID uint) (*model.InteractionState, error)
	Favorite(userID, wallpaperID uint) (*model.InteractionState, error)
	Unfavorite(userID, wallpaperID uint) (*model.InteractionState, error)
	IsLiked(userID, wallpaperID uint) (bool, error)
	IsFavorited(userID, wallpaperID uint) (bool, error)
	IncrementViewCount(id uint) error
	Delete(id uint) (*model.Wallpaper, error)
}

type wallpaperRepository struct {
	db *gorm.DB
}

func NewWallpaperRepository(db *gorm.DB) WallpaperRepository {
	return &wallpaperRepository{db: db}
}

func (r *wallpaperRepository) Create(wallpaper *model.Wallpaper) error {
	logger.Debug("Creating wallpaper in database", map[string]interface{}{
		"uploader_id": wallpaper.UploaderID,
		"title":       wallpaper.Title,
	})

	if err := r.db.Omit("Tags").Create(wallpaper).Error; err != nil {
		logger.Error("Failed to create wallpaper in database", err, map[string]interface{}{
			"uploader_id": wallpaper.UploaderID,
		})
		return err
	}

	logger.Debug("Wallpaper created in database", map[string]interface{}{
		"wallpaper_id": wallpaper.ID,
	})
	return nil
}

func (r *wallpaperRepository) FindByID(id uint) (*model.Wallpaper, error) {
	var wallpaper model.Wallpaper
	err := r.db.Preload("Tags").Preload("Uploader").First(&wallpaper, id).Error
	if err != nil {
		logger.Error("Failed to find wallpaper by ID", err, map[string]interface{}{
			"wallpaper_id": id,
		})
		return nil, err
	}
	return &wallpaper, nil
}

func (r *wallpaperRepository) Update(id uint, updates map[string]interface{}) error {
	logger.Debug("Updating wallpaper in database", map[string]interface{}{
		"wallpaper_id": id,
		"fields":       len(updates),
	})

	result := r.db.Model(&model.Wallpaper{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to update wallpaper", result.Error, map[string]interface{}{
			"wallpaper_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func applyWallpaperFilter(q *gorm.DB, f WallpaperFilter) *gorm.DB {
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.MinWidth != nil {
		q = q.Where("width >= ?", *f.MinWidth)
	}
	if f.MaxWidth != nil {
		q = q.Where("width <= ?", *f.MaxWidth)
	}
	if f.MinHeight != nil {
		q = q.Where("height >= ?", *f.MinHeight)
	}
	if f.MaxHeight != nil {
		q = q.Where("height <= ?", *f.MaxHeight)
	}
	if f.AspectRatio != nil {
		q = q.Where("ABS(aspect_ratio - ?) < 0.005", *f.AspectRatio)
	}
	if f.Format != "" {
		q = q.Where("LOWER(format) = ?", f.Format)
	}
	if f.MinFileSize != nil {
		q = q.Where("file_size >= ?", *f.MinFileSize)
	}
	if f.MaxFileSize != nil {
		q = q.Where("file_size <= ?", *f.MaxFileSize)
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	for _, slug := range f.TagSlugs {
		q = q.Where(`EXISTS (SELECT 1 FROM wallpaper_tags wt JOIN tags t ON t.id = wt.tag_id
			WHERE wt.wallpaper_id = wallpapers.id AND t.slug = ?)`, slug)
	}
	if f.TagKeyword != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM wallpaper_tags wt JOIN tags t ON t.id = wt.tag_id
			WHERE wt.wallpaper_id = wallpapers.id AND LOWER(t.name) LIKE ?)`, likePattern(f.TagKeyword))
	}
	return q
}

// FindAll 공개(status=1) 배경화면만 조회
func (r *wallpaperRepository) FindAll(filter WallpaperFilter) ([]model.Wallpaper, int64, error) {
	logger.Debug("Finding wallpapers", map[string]interface{}{
		"page":     filter.Page,
		"limit":    filter.Limit,
		"order_by": filter.OrderBy,
		"tags":     filter.TagSlugs,
	})

	q := applyWallpaperFilter(r.db.Model(&model.Wallpaper{}).Where("status = ?", model.WallpaperStatusActive), filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		logger.Error("Failed to count wallpapers", err)
		return nil, 0, err
	}

	var wallpapers []model.Wallpaper
	err := q.Preload("Tags").Preload("Uploader").
		Order(filter.OrderBy).
		Scopes(paginate(filter.Page, filter.Limit)).
		Find(&wallpapers).Error
	if err != nil {
		logger.Error("Failed to find wallpapers", err)
		return nil, 0, err
	}

	return wallpapers, total, nil
}

// AdminFind 숨김 포함 전체 조회
func (r *wallpaperRepository) AdminFind(query model.AdminWallpaperQuery, page, limit int) ([]model.Wallpaper, int64, error) {
	q := r.db.Model(&model.Wallpaper{})
	if query.Search != "" {
		pattern := likePattern(query.Search)
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if query.Category != "" {
		q = q.Where("category = ?", query.Category)
	}
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	if query.UploaderID != nil {
		q = q.Where("uploader_id = ?", *query.UploaderID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var wallpapers []model.Wallpaper
	err := q.Preload("Tags").Preload("Uploader").
		Order("created_at DESC").
		Scopes(paginate(page, limit)).
		Find(&wallpapers).Error
	return wallpapers, total, err
}

func (r *wallpaperRepository) FindByUploader(uploaderID uint, page, limit int) ([]model.Wallpaper, int64, error) {
	q := r.db.Model(&model.Wallpaper{}).Where("uploader_id = ?", uploaderID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var wallpapers []model.Wallpaper
	err := q.Preload("Tags").Order("created_at DESC").Scopes(paginate(page, limit)).Find(&wallpapers).Error
	return wallpapers, total, err
}

func (r *wallpaperRepository) FindPopular(limit int) ([]model.Wallpaper, error) {
	var wallpapers []model.Wallpaper
	err := r.db.Where("status = ?", model.WallpaperStatusActive).
		Preload("Tags").
		Order("view_count DESC").Order("like_count DESC").Order("id DESC").
		Limit(limit).
		Find(&wallpapers).Error
	return wallpapers, err
}

// findJoinedBy 사용자 조인 테이블(user_likes, user_favorites)을 통해 조회. 최근 추가 순
func (r *wallpaperRepository) findJoinedBy(table string, userID uint, page, limit int) ([]model.Wallpaper, int64, error) {
	q := r.db.Model(&model.Wallpaper{}).
		Joins("JOIN "+table+" j ON j.wallpaper_id = wallpapers.id").
		Where("j.user_id = ? AND wallpapers.status = ?", userID, model.WallpaperStatusActive)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var wallpapers []model.Wallpaper
	err := q.Preload("Tags").Order("j.created_at DESC").Scopes(paginate(page, limit)).Find(&wallpapers).Error
	return wallpapers, total, err
}

func (r *wallpaperRepository) FindLikedBy(userID uint, page, limit int) ([]model.Wallpaper, int64, error) {
	return r.findJoinedBy("user_likes", userID, page, limit)
}

func (r *wallpaperRepository) FindFavoritedBy(userID uint, page, limit int) ([]model.Wallpaper, int64, error) {
	return r.findJoinedBy("user_favorites", userID, page, limit)
}

// interaction 좋아요/즐겨찾기 공통 처리 정보
type interaction struct {
	row     func(userID, wallpaperID uint) interface{}
	counter string
}

var (
	likeInteraction = interaction{
		row: func(userID, wallpaperID uint) interface{} {
			return &model.UserLike{UserID: userID, WallpaperID: wallpaperID}
		},
		counter: "like_count",
	}
	favoriteInteraction = interaction{
		row: func(userID, wallpaperID uint) interface{} {
			return &model.UserFavorite{UserID: userID, WallpaperID: wallpaperID}
		},
		counter: "favorite_count",
	}
)

// setInteraction 행이 실제로 추가/삭제된 경우에만 카운터 변경 (멱등)
func (r *wallpaperRepository) setInteraction(it interaction, userID, wallpaperID uint, active bool) (*model.InteractionState, error) {
	logger.Debug("Setting wallpaper interaction", map[string]interface{}{
		"user_id":      userID,
		"wallpaper_id": wallpaperID,
		"counter":      it.counter,
		"active":       active,
	})

	state := &model.InteractionState{Active: active}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var wallpaper model.Wallpaper
		if err := tx.Select("id").First(&wallpaper, wallpaperID).Error; err != nil {
			return err
		}

		var res *gorm.DB
		var delta *gorm.DB
		if active {
			res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(it.row(userID, wallpaperID))
			delta = tx.Model(&model.Wallpaper{}).Where("id = ?", wallpaperID)
		} else {
			res = tx.Where("user_id = ? AND wallpaper_id = ?", userID, wallpaperID).Delete(it.row(userID, wallpaperID))
			delta = tx.Model(&model.Wallpaper{}).Where("id = ? AND "+it.counter+" > 0", wallpaperID)
		}
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			expr := it.counter + " + 1"
			if !active {
				expr = it.counter + " - 1"
			}
			if err := delta.UpdateColumn(it.counter, gorm.Expr(expr)).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.Wallpaper{}).Where("id = ?", wallpaperID).Select(it.counter).Scan(&state.Count).Error
	})
	if err != nil {
		logger.Error("Failed to set wallpaper interaction", err, map[string]interface{}{
			"user_id":      userID,
			"wallpaper_id": wallpaperID,
			"counter":      it.counter,
		})
		return nil, err
	}
	return state, nil
}

func (r *wallpaperRepository) Like(userID, wallpaperID uint) (*model.InteractionState, error) {
	return r.setInteraction(likeInteraction, userID, wallpaperID, true)
}

func (r *wallpaperRepository) Unlike(userID, wallpaperID uint) (*model.InteractionState, error) {
	return r.setInteraction(likeInteraction, userID, wallpaperID, false)
}

func (r *wallpaperRepository) Favorite(userID, wallpaperID uint) (*model.InteractionState, error) {
	return r.setInteraction(favoriteInteraction, userID, wallpaperID, true)
}

func (r *wallpaperRepository) Unfavorite(userID, wallpaperID uint) (*model.InteractionState, error) {
	return r.setInteraction(favoriteInteraction, userID, wallpaperID, false)
}

func (r *wallpaperRepository) IsLiked(userID, wallpaperID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.UserLike{}).
		Where("user_id = ? AND wallpaper_id = ?", userID, wallpaperID).
		Count(&count).Error
	return count > 0, err
}

func (r *wallpaperRepository) IsFavorited(userID, wallpaperID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.UserFavorite{}).
		Where("user_id = ? AND wallpaper_id = ?", userID, wallpaperID).
		Count(&count).Error
	return count > 0, err
}

// IncrementViewCount 대상이 없으면 gorm.ErrRecordNotFound
func (r *wallpaperRepository) IncrementViewCount(id uint) error {
	result := r.db.Model(&model.Wallpaper{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 조인 행 → 좋아요 → 즐겨찾기 → 조회 기록 → 배경화면 순으로 삭제 후 태그 사용 수 감소.
// 삭제된 행을 반환하므로 호출 측에서 커밋 이후 파일을 정리할 수 있음
func (r *wallpaperRepository) Delete(id uint) (*model.Wallpaper, error) {
	logger.Debug("Deleting wallpaper from database", map[string]interface{}{
		"wallpaper_id": id,
	})

	var wallpaper model.Wallpaper
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&wallpaper, id).Error; err != nil {
			return err
		}

		var tagIDs []uint
		if err := tx.Model(&model.WallpaperTag{}).Where("wallpaper_id = ?", id).Pluck("tag_id", &tagIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("wallpaper_id = ?", id).Delete(&model.WallpaperTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("wallpaper_id = ?", id).Delete(&model.UserLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("wallpaper_id = ?", id).Delete(&model.UserFavorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("wallpaper_id = ?", id).Delete(&model.ViewHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Wallpaper{}, id).Error; err != nil {
			return err
		}

		for _, tagID := range tagIDs {
			if err := decrementTagUsage(tx, tagID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete wallpaper", err, map[string]interface{}{
			"wallpaper_id": id,
		})
		return nil, err
	}

	logger.Info("Wallpaper deleted", map[string]interface{}{
		"wallpaper_id": id,
	})
	return &wallpaper, nil
}
