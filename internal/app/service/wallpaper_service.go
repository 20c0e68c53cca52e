package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/repository"
	"github.com/ikkim/wallhub-backend/internal/authz"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"github.com/ikkim/wallhub-backend/pkg/util"
)

const defaultPopularLimit = 10

// wallpaperSortColumns sort_by 허용 목록 (camelCase, snake_case 모두 허용)
var wallpaperSortColumns = map[string]string{
	"createdAt":      "created_at",
	"created_at":     "created_at",
	"updatedAt":      "updated_at",
	"updated_at":     "updated_at",
	"viewCount":      "view_count",
	"view_count":     "view_count",
	"likeCount":      "like_count",
	"like_count":     "like_count",
	"favoriteCount":  "favorite_count",
	"favorite_count": "favorite_count",
	"width":          "width",
	"height":         "height",
	"aspectRatio":    "aspect_ratio",
	"aspect_ratio":   "aspect_ratio",
	"fileSize":       "file_size",
	"file_size":      "file_size",
}

// ViewThrottle 같은 사용자의 반복 조회를 일정 시간 동안 한 번만 집계
type ViewThrottle interface {
	MarkViewed(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type WallpaperService interface {
	Create(uploaderID uint, req model.CreateWallpaperRequest, file *model.WallpaperFile) (*model.Wallpaper, error)
	Upload(ctx context.Context, uploaderID uint, req model.CreateWallpaperRequest, header *multipart.FileHeader) (*model.Wallpaper, error)
	FindByID(id uint, viewer *authz.Subject) (*model.WallpaperDetail, error)
	FindAll(query model.WallpaperListQuery) ([]model.Wallpaper, util.Pagination, error)
	Update(actor authz.Subject, id uint, req model.UpdateWallpaperRequest) (*model.Wallpaper, error)
	SetTags(actor authz.Subject, id uint, names []string) ([]model.Tag, error)
	Delete(ctx context.Context, actor authz.Subject, id uint) error
	Like(userID, id uint) (*model.InteractionState, error)
	Unlike(userID, id uint) (*model.InteractionState, error)
	Favorite(userID, id uint) (*model.InteractionState, error)
	Unfavorite(userID, id uint) (*model.InteractionState, error)
	GetLikeState(userID, id uint) (liked bool, favorited bool, err error)
	RecordView(ctx context.Context, id uint, viewerID *uint, clientKey string) error
	GetByUploader(uploaderID uint, page, limit int) ([]model.Wallpaper, util.Pagination, error)
	GetPopular(limit int) ([]model.Wallpaper, error)
	GetUserLikes(userID uint, page, limit int) ([]model.Wallpaper, util.Pagination, error)
	GetUserFavorites(userID uint, page, limit int) ([]model.Wallpaper, util.Pagination, error)
	AdminList(actor authz.Subject, query model.AdminWallpaperQuery) ([]model.Wallpaper, util.Pagination, error)
}

type wallpaperService struct {
	wallpaperRepo repository.WallpaperRepository
	viewRepo      repository.ViewHistoryRepository
	tagService    TagService
	uploads       UploadService
	throttle      ViewThrottle
	throttleTTL   time.Duration
}

// NewWallpaperService throttle이 nil이면 모든 조회를 집계
func NewWallpaperService(
	wallpaperRepo repository.WallpaperRepository,
	viewRepo repository.ViewHistoryRepository,
	tagService TagService,
	uploads UploadService,
	throttle ViewThrottle,
	throttleTTL time.Duration,
) WallpaperService {
	return &wallpaperService{
		wallpaperRepo: wallpaperRepo,
		viewRepo:      viewRepo,
		tagService:    tagService,
		uploads:       uploads,
		throttle:      throttle,
		throttleTTL:   throttleTTL,
	}
}

func wallpaperNotFound(err error) error {
	return notFoundOr(err, apperrors.WallpaperNotFound, "배경화면을 찾을 수 없습니다")
}

// Create 메타데이터 저장 후 태그 연결
func (s *wallpaperService) Create(uploaderID uint, req model.CreateWallpaperRequest, file *model.WallpaperFile) (*model.Wallpaper, error) {
	category := req.Category
	if category == "" {
		category = model.CategoryGeneral
	}
	if !category.Valid() {
		return nil, apperrors.NewValidation(apperrors.WallpaperInvalidCategory, "잘못된 카테고리입니다")
	}
	// 태그는 행을 만들기 전에 검증
	if _, err := normalizeTagNames(req.Tags); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = fmt.Sprintf("wallpaper-%d", time.Now().UnixMilli())
	}

	wallpaper := &model.Wallpaper{
		Title:        title,
		Description:  req.Description,
		Category:     category,
		FileURL:      file.FileURL,
		FileKey:      file.FileKey,
		ThumbnailURL: file.ThumbnailURL,
		ThumbnailKey: file.ThumbnailKey,
		FileSize:     file.FileSize,
		Format:       strings.ToLower(file.Format),
		Width:        file.Width,
		Height:       file.Height,
		AspectRatio:  file.AspectRatio,
		UploaderID:   uploaderID,
		Status:       model.WallpaperStatusActive,
	}
	if err := s.wallpaperRepo.Create(wallpaper); err != nil {
		return nil, err
	}

	if len(req.Tags) > 0 {
		tags, err := s.tagService.SetWallpaperTags(wallpaper.ID, req.Tags)
		if err != nil {
			// 태그 연결 실패 시 방금 만든 행도 제거
			if _, delErr := s.wallpaperRepo.Delete(wallpaper.ID); delErr != nil {
				logger.Error("Failed to roll back wallpaper after tag failure", delErr, map[string]interface{}{
					"wallpaper_id": wallpaper.ID,
				})
			}
			return nil, err
		}
		wallpaper.Tags = tags
	}

	logger.Info("Wallpaper created", map[string]interface{}{
		"wallpaper_id": wallpaper.ID,
		"uploader_id":  uploaderID,
		"tag_count":    len(wallpaper.Tags),
	})
	return wallpaper, nil
}

// Upload 파일 처리 → 행 생성. 생성 실패 시 저장한 파일 정리
func (s *wallpaperService) Upload(ctx context.Context, uploaderID uint, req model.CreateWallpaperRequest, header *multipart.FileHeader) (*model.Wallpaper, error) {
	if _, err := normalizeTagNames(req.Tags); err != nil {
		return nil, err
	}

	file, err := s.uploads.Process(ctx, header)
	if err != nil {
		return nil, err
	}

	wallpaper, err := s.Create(uploaderID, req, file)
	if err != nil {
		s.uploads.RemoveFiles(ctx, file.FileKey, file.ThumbnailKey)
		return nil, err
	}
	return wallpaper, nil
}

// FindByID 숨김 배경화면은 업로더와 관리자만 조회 가능
func (s *wallpaperService) FindByID(id uint, viewer *authz.Subject) (*model.WallpaperDetail, error) {
	wallpaper, err := s.wallpaperRepo.FindByID(id)
	if err != nil {
		return nil, wallpaperNotFound(err)
	}

	if wallpaper.Status != model.WallpaperStatusActive {
		if viewer == nil || authz.Authorize(*viewer, authz.ActionUpdate, authz.Owned(authz.ResourceWallpaper, wallpaper.UploaderID)) != nil {
			return nil, apperrors.NewNotFound(apperrors.WallpaperNotFound, "배경화면을 찾을 수 없습니다")
		}
	}

	detail := &model.WallpaperDetail{Wallpaper: wallpaper}
	if viewer != nil && viewer.UserID != 0 {
		if detail.IsLiked, err = s.wallpaperRepo.IsLiked(viewer.UserID, id); err != nil {
			return nil, err
		}
		if detail.IsFavorited, err = s.wallpaperRepo.IsFavorited(viewer.UserID, id); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// wallpaperOrder popular/random 외에는 허용 목록, 모르는 값은 created_at
func wallpaperOrder(sortBy, sortOrder string) string {
	switch sortBy {
	case "popular":
		return "view_count DESC, like_count DESC, id DESC"
	case "random":
		return "RANDOM()"
	}
	column := orderColumn(sortBy, wallpaperSortColumns, "created_at")
	direction := sortDirection(sortOrder, "DESC")
	return column + " " + direction + ", id " + direction
}

func (s *wallpaperService) FindAll(query model.WallpaperListQuery) ([]model.Wallpaper, util.Pagination, error) {
	page, limit := util.NormalizePage(query.Page, query.Limit)

	var slugs []string
	seen := map[string]bool{}
	for _, raw := range query.Tags {
		for _, name := range util.SplitCSV(raw) {
			slug := util.Slugify(name)
			if slug != "" && !seen[slug] {
				seen[slug] = true
				slugs = append(slugs, slug)
			}
		}
	}
	query.Format = strings.ToLower(strings.TrimSpace(query.Format))

	wallpapers, total, err := s.wallpaperRepo.FindAll(repository.WallpaperFilter{
		WallpaperListQuery: query,
		TagSlugs:           slugs,
		OrderBy:            wallpaperOrder(query.SortBy, query.SortOrder),
		Page:               page,
		Limit:              limit,
	})
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return wallpapers, util.NewPagination(page, limit, total), nil
}

func (s *wallpaperService) Update(actor authz.Subject, id uint, req model.UpdateWallpaperRequest) (*model.Wallpaper, error) {
	wallpaper, err := s.wallpaperRepo.FindByID(id)
	if err != nil {
		return nil, wallpaperNotFound(err)
	}
	if err := authz.Authorize(actor, authz.ActionUpdate, authz.Owned(authz.ResourceWallpaper, wallpaper.UploaderID)); err != nil {
		return nil, err
	}
	if req.IsFeatured != nil || req.Status != nil {
		if err := authz.Authorize(actor, authz.ActionFeature, authz.Owned(authz.ResourceWallpaper, wallpaper.UploaderID)); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, apperrors.NewValidation(apperrors.WallpaperInvalidCategory, "잘못된 카테고리입니다")
		}
		updates["category"] = *req.Category
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.wallpaperRepo.Update(id, updates); err != nil {
			return nil, wallpaperNotFound(err)
		}
	}
	updated, err := s.wallpaperRepo.FindByID(id)
	return updated, wallpaperNotFound(err)
}

func (s *wallpaperService) SetTags(actor authz.Subject, id uint, names []string) ([]model.Tag, error) {
	wallpaper, err := s.wallpaperRepo.FindByID(id)
	if err != nil {
		return nil, wallpaperNotFound(err)
	}
	if err := authz.Authorize(actor, authz.ActionUpdate, authz.Owned(authz.ResourceWallpaper, wallpaper.UploaderID)); err != nil {
		return nil, err
	}
	return s.tagService.SetWallpaperTags(id, names)
}

// Delete 연관 행 정리 트랜잭션이 커밋된 뒤 저장소 파일 삭제
func (s *wallpaperService) Delete(ctx context.Context, actor authz.Subject, id uint) error {
	wallpaper, err := s.wallpaperRepo.FindByID(id)
	if err != nil {
		return wallpaperNotFound(err)
	}
	if err := authz.Authorize(actor, authz.ActionDelete, authz.Owned(authz.ResourceWallpaper, wallpaper.UploaderID)); err != nil {
		return err
	}

	deleted, err := s.wallpaperRepo.Delete(id)
	if err != nil {
		return wallpaperNotFound(err)
	}

	if s.uploads != nil {
		s.uploads.RemoveFiles(ctx, deleted.FileKey, deleted.ThumbnailKey)
	}

	logger.Info("Wallpaper deleted by user", map[string]interface{}{
		"wallpaper_id": id,
		"actor_id":     actor.UserID,
	})
	return nil
}

func (s *wallpaperService) Like(userID, id uint) (*model.InteractionState, error) {
	state, err := s.wallpaperRepo.Like(userID, id)
	return state, wallpaperNotFound(err)
}

func (s *wallpaperService) Unlike(userID, id uint) (*model.InteractionState, error) {
	state, err := s.wallpaperRepo.Unlike(userID, id)
	return state, wallpaperNotFound(err)
}

func (s *wallpaperService) Favorite(userID, id uint) (*model.InteractionState, error) {
	state, err := s.wallpaperRepo.Favorite(userID, id)
	return state, wallpaperNotFound(err)
}

func (s *wallpaperService) Unfavorite(userID, id uint) (*model.InteractionState, error) {
	state, err := s.wallpaperRepo.Unfavorite(userID, id)
	return state, wallpaperNotFound(err)
}

func (s *wallpaperService) GetLikeState(userID, id uint) (bool, bool, error) {
	liked, err := s.wallpaperRepo.IsLiked(userID, id)
	if err != nil {
		return false, false, err
	}
	favorited, err := s.wallpaperRepo.IsFavorited(userID, id)
	if err != nil {
		return false, false, err
	}
	return liked, favorited, nil
}

// RecordView 조회수 증가와 로그인 사용자의 조회 기록 갱신
func (s *wallpaperService) RecordView(ctx context.Context, id uint, viewerID *uint, clientKey string) error {
	// 없는 배경화면에 조회 기록이 남지 않도록 먼저 확인
	if _, err := s.wallpaperRepo.FindByID(id); err != nil {
		return wallpaperNotFound(err)
	}

	count := true
	if s.throttle != nil {
		viewer := "anon:" + clientKey
		if viewerID != nil {
			viewer = fmt.Sprintf("user:%d", *viewerID)
		}
		first, err := s.throttle.MarkViewed(ctx, fmt.Sprintf("wallpaper:%d:%s", id, viewer), s.throttleTTL)
		if err != nil {
			// Redis 장애 시에는 집계를 계속함
			logger.Warn("View throttle unavailable", map[string]interface{}{
				"wallpaper_id": id,
				"error":        err.Error(),
			})
		} else {
			count = first
		}
	}

	if count {
		if err := s.wallpaperRepo.IncrementViewCount(id); err != nil {
			return wallpaperNotFound(err)
		}
	}
	if viewerID != nil && s.viewRepo != nil {
		return s.viewRepo.Record(*viewerID, id, time.Now())
	}
	return nil
}

func (s *wallpaperService) GetByUploader(uploaderID uint, page, limit int) ([]model.Wallpaper, util.Pagination, error) {
	page, limit = util.NormalizePage(page, limit)
	wallpapers, total, err := s.wallpaperRepo.FindByUploader(uploaderID, page, limit)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return wallpapers, util.NewPagination(page, limit, total), nil
}

func (s *wallpaperService) GetPopular(limit int) ([]model.Wallpaper, error) {
	if limit <= 0 || limit > util.MaxLimit {
		limit = defaultPopularLimit
	}
	return s.wallpaperRepo.FindPopular(limit)
}

func (s *wallpaperService) GetUserLikes(userID uint, page, limit int) ([]model.Wallpaper, util.Pagination, error) {
	page, limit = util.NormalizePage(page, limit)
	wallpapers, total, err := s.wallpaperRepo.FindLikedBy(userID, page, limit)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return wallpapers, util.NewPagination(page, limit, total), nil
}

func (s *wallpaperService) GetUserFavorites(userID uint, page, limit int) ([]model.Wallpaper, util.Pagination, error) {
	page, limit = util.NormalizePage(page, limit)
	wallpapers, total, err := s.wallpaperRepo.FindFavoritedBy(userID, page, limit)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return wallpapers, util.NewPagination(page, limit, total), nil
}

func (s *wallpaperService) AdminList(actor authz.Subject, query model.AdminWallpaperQuery) ([]model.Wallpaper, util.Pagination, error) {
	if err := authz.Authorize(actor, authz.ActionFeature, authz.Resource{Kind: authz.ResourceWallpaper}); err != nil {
		return nil, util.Pagination{}, err
	}
	page, limit := util.NormalizePage(query.Page, query.Limit)
	wallpapers, total, err := s.wallpaperRepo.AdminFind(query, page, limit)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return wallpapers, util.NewPagination(page, limit, total), nil
}
