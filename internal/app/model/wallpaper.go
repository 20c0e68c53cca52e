package model

import "time"

// WallpaperCategory 배경화면 분류
type WallpaperCategory string

const (
	CategoryGeneral WallpaperCategory = "general"
	CategoryAnime   WallpaperCategory = "anime"
	CategoryPeople  WallpaperCategory = "people"
)

func (c WallpaperCategory) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryAnime, CategoryPeople:
		return true
	}
	return false
}

const (
	WallpaperStatusHidden = 0
	WallpaperStatusActive = 1
)

type Wallpaper struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Title       string            `gorm:"type:varchar(255)" json:"title"`
	Description string            `gorm:"type:text" json:"description"`
	Category    WallpaperCategory `gorm:"type:varchar(20);default:'general';index" json:"category"`

	// 파일 정보 (업로드 처리 결과)
	FileURL      string  `gorm:"type:varchar(500);not null" json:"file_url"`
	FileKey      string  `gorm:"type:varchar(255)" json:"-"` // 스토리지 키 (삭제용)
	ThumbnailURL string  `gorm:"type:varchar(500)" json:"thumbnail_url"`
	ThumbnailKey string  `gorm:"type:varchar(255)" json:"-"`
	FileSize     int64   `gorm:"not null;default:0" json:"file_size"`
	Format       string  `gorm:"type:varchar(10)" json:"format"`
	Width        int     `gorm:"not null;default:0" json:"width"`
	Height       int     `gorm:"not null;default:0" json:"height"`
	AspectRatio  float64 `gorm:"type:decimal(6,2);default:0" json:"aspect_ratio"`

	// 업로더
	UploaderID uint  `gorm:"not null;index" json:"uploader_id"`
	Uploader   *User `gorm:"foreignKey:UploaderID;constraint:OnDelete:CASCADE" json:"uploader,omitempty"`

	// 통계 (조인 테이블 행 수의 캐시)
	ViewCount     int64 `gorm:"not null;default:0" json:"view_count"`
	LikeCount     int64 `gorm:"not null;default:0" json:"like_count"`
	FavoriteCount int64 `gorm:"not null;default:0" json:"favorite_count"`

	Status     int  `gorm:"not null;default:1;index" json:"status"` // 1: 공개, 0: 숨김
	IsFeatured bool `gorm:"default:false" json:"is_featured"`

	Tags []Tag `gorm:"many2many:wallpaper_tags;" json:"tags"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Wallpaper) TableName() string {
	return "wallpapers"
}

// UserLike 배경화면 좋아요 (user_id, wallpaper_id 유일)
type UserLike struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;index:idx_user_wallpaper_like,unique" json:"user_id"`
	WallpaperID uint      `gorm:"not null;index:idx_user_wallpaper_like,unique;index" json:"wallpaper_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (UserLike) TableName() string {
	return "user_likes"
}

// UserFavorite 배경화면 즐겨찾기 (user_id, wallpaper_id 유일)
type UserFavorite struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;index:idx_user_wallpaper_favorite,unique" json:"user_id"`
	WallpaperID uint      `gorm:"not null;index:idx_user_wallpaper_favorite,unique;index" json:"wallpaper_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (UserFavorite) TableName() string {
	return "user_favorites"
}

// ViewHistory 사용자별 최근 조회 기록 (조회 시 viewed_at 갱신)
type ViewHistory struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	UserID      uint       `gorm:"not null;index:idx_view_history_user_wallpaper,unique" json:"user_id"`
	WallpaperID uint       `gorm:"not null;index:idx_view_history_user_wallpaper,unique;index" json:"wallpaper_id"`
	ViewedAt    time.Time  `gorm:"not null;index" json:"viewed_at"`
	Wallpaper   *Wallpaper `gorm:"foreignKey:WallpaperID" json:"wallpaper,omitempty"`
}

func (ViewHistory) TableName() string {
	return "view_histories"
}

// WallpaperFile 업로드 처리 결과. 서비스는 이미지 바이트를 직접 다루지 않음
type WallpaperFile struct {
	FileURL      string  `json:"file_url"`
	FileKey      string  `json:"-"`
	ThumbnailURL string  `json:"thumbnail_url"`
	ThumbnailKey string  `json:"-"`
	FileSize     int64   `json:"file_size"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Format       string  `json:"format"`
	AspectRatio  float64 `json:"aspect_ratio"`
}

// CreateWallpaperRequest 업로드 폼 필드
type CreateWallpaperRequest struct {
	Title       string            `form:"title" json:"title" binding:"max=255"`
	Description string            `form:"description" json:"description"`
	Category    WallpaperCategory `form:"category" json:"category" binding:"omitempty,oneof=general anime people"`
	Tags        []string          `form:"tags" json:"tags" binding:"max=20"`
}

type UpdateWallpaperRequest struct {
	Title       *string            `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string            `json:"description,omitempty"`
	Category    *WallpaperCategory `json:"category,omitempty" binding:"omitempty,oneof=general anime people"`
	IsFeatured  *bool              `json:"is_featured,omitempty"`                          // 관리자 전용
	Status      *int               `json:"status,omitempty" binding:"omitempty,oneof=0 1"` // 관리자 전용
}

// WallpaperListQuery 목록 조회 필터
type WallpaperListQuery struct {
	Page        int               `form:"page"`
	Limit       int               `form:"limit"`
	Search      string            `form:"search"`
	SortBy      string            `form:"sort_by"`
	SortOrder   string            `form:"sort_order"`
	Tags        []string          `form:"tags"`
	TagKeyword  string            `form:"tag_keyword"`
	Category    WallpaperCategory `form:"category"`
	Format      string            `form:"format"`
	MinWidth    *int              `form:"min_width"`
	MaxWidth    *int              `form:"max_width"`
	MinHeight   *int              `form:"min_height"`
	MaxHeight   *int              `form:"max_height"`
	AspectRatio *float64          `form:"aspect_ratio"`
	MinFileSize *int64            `form:"min_file_size"`
	MaxFileSize *int64            `form:"max_file_size"`
}

// AdminWallpaperQuery 관리자 목록 조회 (숨김 포함)
type AdminWallpaperQuery struct {
	Page       int               `form:"page"`
	Limit      int               `form:"limit"`
	Search     string            `form:"search"`
	Category   WallpaperCategory `form:"category"`
	Status     *int              `form:"status"`
	UploaderID *uint             `form:"uploader_id"`
}

// WallpaperDetail 단건 조회 응답
type WallpaperDetail struct {
	*Wallpaper
	IsLiked     bool `json:"is_liked"`
	IsFavorited bool `json:"is_favorited"`
}

// InteractionState 좋아요/즐겨찾기 결과
type InteractionState struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}
