package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/wallhub-backend/internal/app/service"
	"github.com/ikkim/wallhub-backend/internal/middleware"
)

// UserController 사용자별 목록 (업로드, 게시글, 댓글, 좋아요, 즐겨찾기, 열람 기록)
type UserController struct {
	wallpaperService   service.WallpaperService
	postService        service.PostService
	commentService     service.CommentService
	viewHistoryService service.ViewHistoryService
}

func NewUserController(
	wallpaperService service.WallpaperService,
	postService service.PostService,
	commentService service.CommentService,
	viewHistoryService service.ViewHistoryService,
) *UserController {
	return &UserController{
		wallpaperService:   wallpaperService,
		postService:        postService,
		commentService:     commentService,
		viewHistoryService: viewHistoryService,
	}
}

// GetUserWallpapers GET /api/v1/users/:id/wallpapers
func (ctrl *UserController) GetUserWallpapers(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, limit := pageParams(c)

	wallpapers, pagination, err := ctrl.wallpaperService.GetByUploader(userID, page, limit)
	if err != nil {
		respondServiceError(c, err, "list user wallpapers", map[string]interface{}{"user_id": userID})
		return
	}
	respondList(c, wallpapers, pagination)
}

// GetUserPosts GET /api/v1/users/:id/posts
func (ctrl *UserController) GetUserPosts(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, limit := pageParams(c)

	posts, pagination, err := ctrl.postService.GetUserPosts(userID, page, limit)
	if err != nil {
		respondServiceError(c, err, "list user posts", map[string]interface{}{"user_id": userID})
		return
	}
	respondList(c, posts, pagination)
}

// GetUserComments GET /api/v1/users/:id/comments
func (ctrl *UserController) GetUserComments(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, limit := pageParams(c)

	comments, pagination, err := ctrl.commentService.GetUserComments(userID, page, limit)
	if err != nil {
		respondServiceError(c, err, "list user comments", map[string]interface{}{"user_id": userID})
		return
	}
	respondList(c, comments, pagination)
}

// GetMyLikes GET /api/v1/users/me/likes
func (ctrl *UserController) GetMyLikes(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	page, limit := pageParams(c)

	wallpapers, pagination, err := ctrl.wallpaperService.GetUserLikes(userID, page, limit)
	if err != nil {
		respondServiceError(c, err, "list liked wallpapers", map[string]interface{}{"user_id": userID})
		return
	}
	respondList(c, wallpapers, pagination)
}

// GetMyFavorites GET /api/v1/users/me/favorites
func (ctrl *UserController) GetMyFavorites(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	page, limit := pageParams(c)

	wallpapers, pagination, err := ctrl.wallpaperService.GetUserFavorites(userID, page, limit)
	if err != nil {
		respondServiceError(c, err, "list favorite wallpapers", map[string]interface{}{"user_id": userID})
		return
	}
	respondList(c, wallpapers, pagination)
}

// GetMyLikedComments GET /api/v1/users/me/liked-comments
func (ctrl *UserController) GetMyLikedComments(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	page, limit := pageParams(c)

	comments, pagination, err := ctrl.commentService.GetUserLikedComments(userID, page, limit)
	if err != nil {
		respondServiceError(c, err, "list liked comments", map[string]interface{}{"user_id": userID})
		return
	}
	respondList(c, comments, pagination)
}

// GetMyViewHistory GET /api/v1/users/me/views
func (ctrl *UserController) GetMyViewHistory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	page, limit := pageParams(c)

	history, pagination, err := ctrl.viewHistoryService.List(userID, page, limit)
	if err != nil {
		respondServiceError(c, err, "list view history", map[string]interface{}{"user_id": userID})
		return
	}
	respondList(c, history, pagination)
}

// ClearMyViewHistory DELETE /api/v1/users/me/views
func (ctrl *UserController) ClearMyViewHistory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	removed, err := ctrl.viewHistoryService.Clear(userID)
	if err != nil {
		respondServiceError(c, err, "clear view history", map[string]interface{}{"user_id": userID})
		return
	}

	middleware.GetLoggerFromContext(c).Info("View history cleared", map[string]interface{}{
		"user_id": userID,
		"removed": removed,
	})
	respondMessage(c, "열람 기록이 삭제되었습니다", gin.H{"removed": removed})
}
