package model

import "time"

const (
	TagNameMaxLength    = 50
	MaxTagsPerWallpaper = 20
)

// Tag 배경화면 태그. UsageCount는 wallpaper_tags 행 수와 항상 같아야 함
type Tag struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Name       string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"` // 최초 입력된 대소문자 유지
	Slug       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"slug"` // 소문자 + 공백→'-'
	UsageCount int64     `gorm:"not null;default:0" json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}

// WallpaperTag 배경화면-태그 조인 테이블 (복합 PK)
type WallpaperTag struct {
	WallpaperID uint      `gorm:"primaryKey" json:"wallpaper_id"`
	TagID       uint      `gorm:"primaryKey;index" json:"tag_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (WallpaperTag) TableName() string {
	return "wallpaper_tags"
}

type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// SetWallpaperTagsRequest 태그 전체 교체 요청
type SetWallpaperTagsRequest struct {
	Tags []string `json:"tags" binding:"max=20"`
}

// TagListQuery 태그 검색
type TagListQuery struct {
	Keyword   string `form:"keyword"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	SortBy    string `form:"sort_by"`    // usage_count, name, created_at
	SortOrder string `form:"sort_order"` // asc, desc
}
