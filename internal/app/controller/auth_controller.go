package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/service"
	"github.com/ikkim/wallhub-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "register")
		return
	}

	user, tokens, err := ctrl.authService.Register(req)
	if err != nil {
		respondServiceError(c, err, "register user", map[string]interface{}{
			"username": req.Username,
		})
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	respondCreated(c, "회원가입이 완료되었습니다", gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Login 아이디 또는 이메일로 로그인
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "login")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Login, req.Password)
	if err != nil {
		respondServiceError(c, err, "login", map[string]interface{}{
			"login": req.Login,
		})
		return
	}

	log.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})

	respondMessage(c, "로그인되었습니다", gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh POST /api/v1/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "refresh")
		return
	}

	tokens, err := ctrl.authService.Refresh(req.RefreshToken)
	if err != nil {
		respondServiceError(c, err, "refresh token", nil)
		return
	}

	respondOK(c, gin.H{"tokens": tokens})
}

// Logout 현재 액세스 토큰 폐기
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := ctrl.authService.Logout(c.Request.Context(), middleware.GetAccessToken(c)); err != nil {
		respondServiceError(c, err, "logout", map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	middleware.GetLoggerFromContext(c).Info("User logged out", map[string]interface{}{
		"user_id": userID,
	})
	respondMessage(c, "로그아웃되었습니다", nil)
}

// GetMe GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err, "get user", map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	respondOK(c, gin.H{"user": user})
}

// UpdateMe PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "update profile")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req)
	if err != nil {
		respondServiceError(c, err, "update user", map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	log.Info("Profile updated", map[string]interface{}{
		"user_id": userID,
	})
	respondMessage(c, "프로필이 수정되었습니다", gin.H{"user": user})
}
