package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/service"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/internal/middleware"
	"github.com/ikkim/wallhub-backend/pkg/util"
)

type WallpaperController struct {
	wallpaperService service.WallpaperService
	tagService       service.TagService
}

func NewWallpaperController(wallpaperService service.WallpaperService, tagService service.TagService) *WallpaperController {
	return &WallpaperController{
		wallpaperService: wallpaperService,
		tagService:       tagService,
	}
}

// ListWallpapers 배경화면 목록 조회
// GET /api/v1/wallpapers
// Query params:
//   - search, category, format, tags (CSV), tag_keyword
//   - min_width, max_width, min_height, max_height, aspect_ratio, min_file_size, max_file_size
//   - sort_by: created_at, view_count, like_count, favorite_count, width, height, popular, random
//   - sort_order: asc, desc
func (ctrl *WallpaperController) ListWallpapers(c *gin.Context) {
	var query model.WallpaperListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, err, "list wallpapers")
		return
	}

	wallpapers, pagination, err := ctrl.wallpaperService.FindAll(query)
	if err != nil {
		respondServiceError(c, err, "list wallpapers", nil)
		return
	}

	respondList(c, wallpapers, pagination)
}

// GetPopularWallpapers GET /api/v1/wallpapers/popular
func (ctrl *WallpaperController) GetPopularWallpapers(c *gin.Context) {
	wallpapers, err := ctrl.wallpaperService.GetPopular(limitParam(c, 10))
	if err != nil {
		respondServiceError(c, err, "popular wallpapers", nil)
		return
	}
	respondOK(c, wallpapers)
}

// GetWallpaper 상세 조회. 로그인 상태면 좋아요/즐겨찾기 여부 포함
// GET /api/v1/wallpapers/:id
func (ctrl *WallpaperController) GetWallpaper(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := ctrl.wallpaperService.FindByID(id, viewer(c))
	if err != nil {
		respondServiceError(c, err, "get wallpaper", map[string]interface{}{"wallpaper_id": id})
		return
	}

	respondOK(c, detail)
}

// UploadWallpaper multipart 업로드 (file + title, description, category, tags)
// POST /api/v1/wallpapers
func (ctrl *WallpaperController) UploadWallpaper(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req model.CreateWallpaperRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err, "upload wallpaper")
		return
	}
	// tags=a,b 형태와 tags=a&tags=b 형태 모두 허용
	var tags []string
	for _, raw := range req.Tags {
		tags = append(tags, util.SplitCSV(raw)...)
	}
	req.Tags = tags

	header, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "업로드할 파일이 필요합니다")
		return
	}

	wallpaper, err := ctrl.wallpaperService.Upload(c.Request.Context(), userID, req, header)
	if err != nil {
		respondServiceError(c, err, "upload wallpaper", map[string]interface{}{
			"user_id":  userID,
			"filename": header.Filename,
		})
		return
	}

	log.Info("Wallpaper uploaded", map[string]interface{}{
		"wallpaper_id": wallpaper.ID,
		"user_id":      userID,
	})
	respondCreated(c, "배경화면이 업로드되었습니다", wallpaper)
}

// UpdateWallpaper PUT /api/v1/wallpapers/:id
func (ctrl *WallpaperController) UpdateWallpaper(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	var req model.UpdateWallpaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "update wallpaper")
		return
	}

	wallpaper, err := ctrl.wallpaperService.Update(subject, id, req)
	if err != nil {
		respondServiceError(c, err, "update wallpaper", map[string]interface{}{"wallpaper_id": id})
		return
	}
	respondMessage(c, "배경화면이 수정되었습니다", wallpaper)
}

// SetWallpaperTags 태그 전체 교체
// PUT /api/v1/wallpapers/:id/tags
func (ctrl *WallpaperController) SetWallpaperTags(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	var req model.SetWallpaperTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "set wallpaper tags")
		return
	}

	tags, err := ctrl.wallpaperService.SetTags(subject, id, req.Tags)
	if err != nil {
		respondServiceError(c, err, "set wallpaper tags", map[string]interface{}{"wallpaper_id": id})
		return
	}
	respondMessage(c, "태그가 수정되었습니다", tags)
}

// GetWallpaperTags GET /api/v1/wallpapers/:id/tags
func (ctrl *WallpaperController) GetWallpaperTags(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tags, err := ctrl.tagService.GetTagsByWallpaperID(id)
	if err != nil {
		respondServiceError(c, err, "wallpaper tags", map[string]interface{}{"wallpaper_id": id})
		return
	}
	respondOK(c, tags)
}

// DeleteWallpaper DELETE /api/v1/wallpapers/:id
func (ctrl *WallpaperController) DeleteWallpaper(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	if err := ctrl.wallpaperService.Delete(c.Request.Context(), subject, id); err != nil {
		respondServiceError(c, err, "delete wallpaper", map[string]interface{}{"wallpaper_id": id})
		return
	}

	middleware.GetLoggerFromContext(c).Info("Wallpaper deleted", map[string]interface{}{
		"wallpaper_id": id,
		"user_id":      subject.UserID,
	})
	respondMessage(c, "배경화면이 삭제되었습니다", nil)
}

type interactionFunc func(userID, id uint) (*model.InteractionState, error)

func (ctrl *WallpaperController) interact(c *gin.Context, action string, fn interactionFunc) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	state, err := fn(userID, id)
	if err != nil {
		respondServiceError(c, err, action, map[string]interface{}{
			"wallpaper_id": id,
			"user_id":      userID,
		})
		return
	}
	respondOK(c, state)
}

// LikeWallpaper POST /api/v1/wallpapers/:id/like
func (ctrl *WallpaperController) LikeWallpaper(c *gin.Context) {
	ctrl.interact(c, "like wallpaper", ctrl.wallpaperService.Like)
}

// UnlikeWallpaper DELETE /api/v1/wallpapers/:id/like
func (ctrl *WallpaperController) UnlikeWallpaper(c *gin.Context) {
	ctrl.interact(c, "unlike wallpaper", ctrl.wallpaperService.Unlike)
}

// FavoriteWallpaper POST /api/v1/wallpapers/:id/favorite
func (ctrl *WallpaperController) FavoriteWallpaper(c *gin.Context) {
	ctrl.interact(c, "favorite wallpaper", ctrl.wallpaperService.Favorite)
}

// UnfavoriteWallpaper DELETE /api/v1/wallpapers/:id/favorite
func (ctrl *WallpaperController) UnfavoriteWallpaper(c *gin.Context) {
	ctrl.interact(c, "unfavorite wallpaper", ctrl.wallpaperService.Unfavorite)
}

// GetInteractionState GET /api/v1/wallpapers/:id/state
func (ctrl *WallpaperController) GetInteractionState(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	liked, favorited, err := ctrl.wallpaperService.GetLikeState(userID, id)
	if err != nil {
		respondServiceError(c, err, "wallpaper state", map[string]interface{}{"wallpaper_id": id})
		return
	}
	respondOK(c, gin.H{
		"is_liked":     liked,
		"is_favorited": favorited,
	})
}

// RecordView 조회수 집계. 같은 사용자(IP)의 반복 조회는 일정 시간 동안 한 번만 집계
// POST /api/v1/wallpapers/:id/view
func (ctrl *WallpaperController) RecordView(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var viewerID *uint
	if userID, ok := middleware.GetUserID(c); ok {
		viewerID = &userID
	}

	if err := ctrl.wallpaperService.RecordView(c.Request.Context(), id, viewerID, c.ClientIP()); err != nil {
		respondServiceError(c, err, "record view", map[string]interface{}{"wallpaper_id": id})
		return
	}
	respondOK(c, nil)
}
