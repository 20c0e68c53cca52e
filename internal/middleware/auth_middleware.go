package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/authz"
	"github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey      = "user_id"
	UsernameKey    = "username"
	UserRoleKey    = "user_role"
	AccessTokenKey = "access_token"
)

// TokenRevocationChecker 로그아웃된 토큰 조회 (Redis)
type TokenRevocationChecker interface {
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

type AuthMiddleware struct {
	jwtSecret string
	revoked   TokenRevocationChecker
}

// NewAuthMiddleware revoked가 nil이면 블랙리스트 확인 생략
func NewAuthMiddleware(jwtSecret string, revoked TokenRevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		revoked:   revoked,
	}
}

// bearerToken "Bearer <token>" 헤더, 없으면 token 쿼리 파라미터 (WebSocket)
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		token := c.Query("token")
		return token, token != ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// verify 서명, 토큰 종류, 블랙리스트 순으로 확인
func (m *AuthMiddleware) verify(c *gin.Context, token string) (*util.Claims, string, string) {
	claims, err := util.ValidateToken(token, m.jwtSecret)
	if err != nil {
		if err == util.ErrExpiredToken {
			return nil, errors.AuthTokenExpired, "로그인이 만료되었습니다"
		}
		return nil, errors.AuthTokenInvalid, "유효하지 않은 인증 토큰입니다"
	}
	if claims.TokenType != util.TokenTypeAccess {
		return nil, errors.AuthTokenInvalid, "액세스 토큰이 아닙니다"
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsTokenBlacklisted(c.Request.Context(), token)
		if err != nil {
			// Redis 장애 시 토큰 서명만으로 허용
			GetLoggerFromContext(c).Warn("Token blacklist lookup failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else if revoked {
			return nil, errors.AuthTokenRevoked, "로그아웃된 토큰입니다"
		}
	}
	return claims, "", ""
}

func setClaims(c *gin.Context, claims *util.Claims, token string) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(UsernameKey, claims.Username)
	c.Set(UserRoleKey, model.UserRole(claims.Role))
	c.Set(AccessTokenKey, token)
}

// Authenticate validates JWT token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			log.Warn("Missing or malformed authorization", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "로그인이 필요합니다")
			c.Abort()
			return
		}

		claims, code, message := m.verify(c, token)
		if claims == nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path": c.Request.URL.Path,
				"code": code,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, code, message)
			c.Abort()
			return
		}

		setClaims(c, claims, token)
		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": claims.UserID,
			"role":    claims.Role,
		})

		c.Next()
	}
}

// OptionalAuthenticate validates JWT token if present
// - valid token: sets user info in context
// - missing or invalid token: continues as guest
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, code, _ := m.verify(c, token)
		if claims == nil {
			GetLoggerFromContext(c).Debug("Token rejected - continuing as guest", map[string]interface{}{
				"path": c.Request.URL.Path,
				"code": code,
			})
			c.Next()
			return
		}

		setClaims(c, claims, token)
		c.Next()
	}
}

// RequireRole checks if user has required role
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzRoleNotFound, "권한 정보를 찾을 수 없습니다")
			c.Abort()
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		userID, _ := GetUserID(c)
		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		errors.RespondWithError(c, http.StatusForbidden, errors.AuthzAdminOnly, "접근 권한이 없습니다")
		c.Abort()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

func GetUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(UsernameKey)
	if !exists {
		return "", false
	}
	name, ok := username.(string)
	return name, ok
}

// GetUserRole extracts user role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(model.UserRole)
	return r, ok
}

func GetAccessToken(c *gin.Context) string {
	return c.GetString(AccessTokenKey)
}

// GetSubject 인가 판단용 요청 주체. 비로그인이면 false
func GetSubject(c *gin.Context) (authz.Subject, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return authz.Subject{}, false
	}
	role, _ := GetUserRole(c)
	return authz.Subject{UserID: userID, Role: role}, true
}
