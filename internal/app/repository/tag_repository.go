package repository

import (
	"errors"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository interface {
	FindOrCreate(name, slug string) (*model.Tag, error)
	FindByID(id uint) (*model.Tag, error)
	FindBySlug(slug string) (*model.Tag, error)
	FindByWallpaperID(wallpaperID uint) ([]model.Tag, error)
	IncrementUsage(id uint) error
	DecrementUsage(id uint) error
	ReplaceWallpaperTags(wallpaperID uint, desired []model.Tag) ([]model.Tag, error)
	Search(keyword string, page, limit int, orderBy string) ([]model.Tag, int64, error)
	FindPopular(limit int) ([]model.Tag, error)
	RecountUsage() (int64, error)
	Create(tag *model.Tag) error
	Update(tag *model.Tag) error
	Delete(id uint) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// findOrCreateTag 동시 생성 시 먼저 들어간 행을 반환 (ON CONFLICT DO NOTHING 후 slug로 재조회)
func findOrCreateTag(tx *gorm.DB, name, slug string) (*model.Tag, error) {
	var tag model.Tag
	err := tx.Where("slug = ?", slug).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	candidate := model.Tag{Name: name, Slug: slug}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&candidate).Error; err != nil {
		return nil, err
	}

	if err := tx.Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func incrementTagUsage(tx *gorm.DB, id uint) error {
	return tx.Model(&model.Tag{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}

// decrementTagUsage 0 아래로 내려가지 않도록 같은 문장에서 조건 검사
func decrementTagUsage(tx *gorm.DB, id uint) error {
	return tx.Model(&model.Tag{}).
		Where("id = ? AND usage_count > 0", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count - 1")).Error
}

func tagsOfWallpaper(tx *gorm.DB, wallpaperID uint) ([]model.Tag, error) {
	var tags []model.Tag
	err := tx.Joins("JOIN wallpaper_tags ON wallpaper_tags.tag_id = tags.id").
		Where("wallpaper_tags.wallpaper_id = ?", wallpaperID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, err
}

func (r *tagRepository) FindOrCreate(name, slug string) (*model.Tag, error) {
	logger.Debug("Finding or creating tag", map[string]interface{}{
		"name": name,
		"slug": slug,
	})

	tag, err := findOrCreateTag(r.db, name, slug)
	if err != nil {
		logger.Error("Failed to find or create tag", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return tag, nil
}

func (r *tagRepository) FindByID(id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindBySlug(slug string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindByWallpaperID(wallpaperID uint) ([]model.Tag, error) {
	tags, err := tagsOfWallpaper(r.db, wallpaperID)
	if err != nil {
		logger.Error("Failed to find tags by wallpaper", err, map[string]interface{}{
			"wallpaper_id": wallpaperID,
		})
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) IncrementUsage(id uint) error {
	return incrementTagUsage(r.db, id)
}

func (r *tagRepository) DecrementUsage(id uint) error {
	return decrementTagUsage(r.db, id)
}

// ReplaceWallpaperTags 현재 태그와 비교해 빠진 것은 제거, 새 것은 추가. 하나의 트랜잭션
func (r *tagRepository) ReplaceWallpaperTags(wallpaperID uint, desired []model.Tag) ([]model.Tag, error) {
	logger.Debug("Replacing wallpaper tags", map[string]interface{}{
		"wallpaper_id": wallpaperID,
		"tag_count":    len(desired),
	})

	var result []model.Tag
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var wallpaper model.Wallpaper
		if err := tx.Select("id").First(&wallpaper, wallpaperID).Error; err != nil {
			return err
		}

		current, err := tagsOfWallpaper(tx, wallpaperID)
		if err != nil {
			return err
		}

		wanted := make(map[string]bool, len(desired))
		for _, t := range desired {
			wanted[t.Slug] = true
		}
		existing := make(map[string]bool, len(current))
		for _, t := range current {
			existing[t.Slug] = true
		}

		// 제거
		for _, t := range current {
			if wanted[t.Slug] {
				continue
			}
			res := tx.Where("wallpaper_id = ? AND tag_id = ?", wallpaperID, t.ID).Delete(&model.WallpaperTag{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				if err := decrementTagUsage(tx, t.ID); err != nil {
					return err
				}
			}
		}

		// 추가
		for _, t := range desired {
			if existing[t.Slug] {
				continue
			}
			tag, err := findOrCreateTag(tx, t.Name, t.Slug)
			if err != nil {
				return err
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&model.WallpaperTag{WallpaperID: wallpaperID, TagID: tag.ID})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				if err := incrementTagUsage(tx, tag.ID); err != nil {
					return err
				}
			}
		}

		result, err = tagsOfWallpaper(tx, wallpaperID)
		return err
	})
	if err != nil {
		logger.Error("Failed to replace wallpaper tags", err, map[string]interface{}{
			"wallpaper_id": wallpaperID,
		})
		return nil, err
	}

	return result, nil
}

func (r *tagRepository) Search(keyword string, page, limit int, orderBy string) ([]model.Tag, int64, error) {
	q := r.db.Model(&model.Tag{})
	if keyword != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(keyword))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		logger.Error("Failed to count tags", err)
		return nil, 0, err
	}

	var tags []model.Tag
	if err := q.Order(orderBy).Order("id ASC").Scopes(paginate(page, limit)).Find(&tags).Error; err != nil {
		logger.Error("Failed to search tags", err)
		return nil, 0, err
	}
	return tags, total, nil
}

func (r *tagRepository) FindPopular(limit int) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.Where("usage_count > 0").
		Order("usage_count DESC").Order("name ASC").
		Limit(limit).Find(&tags).Error
	return tags, err
}

// RecountUsage usage_count를 실제 연결 수로 재계산. 값이 바뀐 태그 수 반환
func (r *tagRepository) RecountUsage() (int64, error) {
	actual := r.db.Model(&model.WallpaperTag{}).
		Select("COUNT(*)").
		Where("wallpaper_tags.tag_id = tags.id")

	result := r.db.Model(&model.Tag{}).
		Where("usage_count <> (?)", actual).
		UpdateColumn("usage_count", actual)
	return result.RowsAffected, result.Error
}

func (r *tagRepository) Create(tag *model.Tag) error {
	if err := r.db.Create(tag).Error; err != nil {
		logger.Error("Failed to create tag", err, map[string]interface{}{
			"name": tag.Name,
		})
		return err
	}
	return nil
}

func (r *tagRepository) Update(tag *model.Tag) error {
	err := r.db.Model(tag).Select("name", "slug").Updates(tag).Error
	if err != nil {
		logger.Error("Failed to update tag", err, map[string]interface{}{
			"tag_id": tag.ID,
		})
	}
	return err
}

// Delete 태그와 연결된 wallpaper_tags 행을 함께 제거
func (r *tagRepository) Delete(id uint) error {
	logger.Debug("Deleting tag", map[string]interface{}{
		"tag_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		var tag model.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			return err
		}
		if err := tx.Where("tag_id = ?", id).Delete(&model.WallpaperTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}
