package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/service"
	"github.com/ikkim/wallhub-backend/internal/middleware"
)

// AdminController 대시보드, 사용자 관리, 배경화면 관리
type AdminController struct {
	dashboardService service.DashboardService
	userService      service.UserService
	wallpaperService service.WallpaperService
}

func NewAdminController(
	dashboardService service.DashboardService,
	userService service.UserService,
	wallpaperService service.WallpaperService,
) *AdminController {
	return &AdminController{
		dashboardService: dashboardService,
		userService:      userService,
		wallpaperService: wallpaperService,
	}
}

type UpdateUserStatusRequest struct {
	Status *model.UserStatus `json:"status" binding:"required,oneof=0 1"`
}

// GetDashboardStats GET /api/v1/admin/dashboard/stats
func (ctrl *AdminController) GetDashboardStats(c *gin.Context) {
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	stats, err := ctrl.dashboardService.GetStats(subject)
	if err != nil {
		respondServiceError(c, err, "dashboard stats", nil)
		return
	}
	respondOK(c, stats)
}

// GetRecentActivity GET /api/v1/admin/dashboard/activity
func (ctrl *AdminController) GetRecentActivity(c *gin.Context) {
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	items, err := ctrl.dashboardService.GetRecentActivity(subject, limitParam(c, 10))
	if err != nil {
		respondServiceError(c, err, "recent activity", nil)
		return
	}
	respondOK(c, items)
}

// ListUsers GET /api/v1/admin/users
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	var query model.UserListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, err, "list users")
		return
	}

	users, pagination, err := ctrl.userService.List(subject, query)
	if err != nil {
		respondServiceError(c, err, "list users", nil)
		return
	}
	respondList(c, users, pagination)
}

// GetUser GET /api/v1/admin/users/:id
func (ctrl *AdminController) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	user, err := ctrl.userService.GetByID(subject, id)
	if err != nil {
		respondServiceError(c, err, "get user", map[string]interface{}{"target_user_id": id})
		return
	}
	respondOK(c, user)
}

// CreateUser POST /api/v1/admin/users
func (ctrl *AdminController) CreateUser(c *gin.Context) {
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	var req model.AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "create user")
		return
	}

	user, err := ctrl.userService.Create(subject, req)
	if err != nil {
		respondServiceError(c, err, "create user", map[string]interface{}{"username": req.Username})
		return
	}

	middleware.GetLoggerFromContext(c).Info("User created by admin", map[string]interface{}{
		"target_user_id": user.ID,
		"admin_id":       subject.UserID,
	})
	respondCreated(c, "사용자가 생성되었습니다", user)
}

// UpdateUser PUT /api/v1/admin/users/:id
func (ctrl *AdminController) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	var req model.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "update user")
		return
	}

	user, err := ctrl.userService.Update(subject, id, req)
	if err != nil {
		respondServiceError(c, err, "update user", map[string]interface{}{"target_user_id": id})
		return
	}
	respondMessage(c, "사용자 정보가 수정되었습니다", user)
}

// UpdateUserStatus 계정 활성/비활성
// PATCH /api/v1/admin/users/:id/status
func (ctrl *AdminController) UpdateUserStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "update user status")
		return
	}

	user, err := ctrl.userService.UpdateStatus(subject, id, *req.Status)
	if err != nil {
		respondServiceError(c, err, "update user status", map[string]interface{}{"target_user_id": id})
		return
	}

	middleware.GetLoggerFromContext(c).Info("User status changed", map[string]interface{}{
		"target_user_id": id,
		"status":         user.Status,
		"admin_id":       subject.UserID,
	})
	respondMessage(c, "계정 상태가 변경되었습니다", user)
}

// DeleteUser DELETE /api/v1/admin/users/:id
func (ctrl *AdminController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	if err := ctrl.userService.Delete(subject, id); err != nil {
		respondServiceError(c, err, "delete user", map[string]interface{}{"target_user_id": id})
		return
	}

	middleware.GetLoggerFromContext(c).Info("User removed by admin", map[string]interface{}{
		"target_user_id": id,
		"admin_id":       subject.UserID,
	})
	respondMessage(c, "사용자가 삭제되었습니다", nil)
}

// ListWallpapers 숨김 포함 전체 배경화면
// GET /api/v1/admin/wallpapers
func (ctrl *AdminController) ListWallpapers(c *gin.Context) {
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	var query model.AdminWallpaperQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, err, "admin list wallpapers")
		return
	}

	wallpapers, pagination, err := ctrl.wallpaperService.AdminList(subject, query)
	if err != nil {
		respondServiceError(c, err, "admin list wallpapers", nil)
		return
	}
	respondList(c, wallpapers, pagination)
}
