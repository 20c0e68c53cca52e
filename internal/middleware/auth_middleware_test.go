package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

type fakeRevocations struct {
	tokens map[string]bool
	err    error
}

func (f *fakeRevocations) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.tokens[token], nil
}

func setupMiddlewareTest(revoked TokenRevocationChecker) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router, NewAuthMiddleware(testJWTSecret, revoked)
}

func generateTestTokens(t *testing.T, userID uint, username, role string, accessExpiry time.Duration) *util.TokenPair {
	tokens, err := util.GenerateTokenPair(
		userID,
		username,
		role,
		testJWTSecret,
		accessExpiry,
		7*24*time.Hour,
	)
	require.NoError(t, err)
	return tokens
}

func generateTestToken(t *testing.T, userID uint, username, role string) string {
	return generateTestTokens(t, userID, username, role, 15*time.Minute).AccessToken
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var body errors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	token := generateTestToken(t, 1, "alice", "user")

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		username, _ := GetUsername(c)
		role, _ := GetUserRole(c)
		subject, ok := GetSubject(c)

		assert.True(t, ok)
		assert.Equal(t, uint(1), subject.UserID)
		assert.Equal(t, model.RoleUser, subject.Role)
		assert.Equal(t, token, GetAccessToken(c))

		c.JSON(http.StatusOK, gin.H{
			"user_id":  userID,
			"username": username,
			"role":     role,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
}

func TestAuthMiddleware_Authenticate_Rejections(t *testing.T) {
	pair := generateTestTokens(t, 1, "alice", "user", 15*time.Minute)
	expired := generateTestTokens(t, 1, "alice", "user", -time.Minute).AccessToken

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", errors.AuthUnauthorized},
		{"wrong scheme", "Basic " + pair.AccessToken, errors.AuthUnauthorized},
		{"garbage token", "Bearer not-a-jwt", errors.AuthTokenInvalid},
		{"refresh token", "Bearer " + pair.RefreshToken, errors.AuthTokenInvalid},
		{"expired token", "Bearer " + expired, errors.AuthTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, authMiddleware := setupMiddlewareTest(nil)
			router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestAuthMiddleware_Authenticate_RevokedToken(t *testing.T) {
	token := generateTestToken(t, 1, "alice", "user")
	revocations := &fakeRevocations{tokens: map[string]bool{token: true}}
	router, authMiddleware := setupMiddlewareTest(revocations)

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, errors.AuthTokenRevoked, errorCode(t, w))
}

func TestAuthMiddleware_Authenticate_BlacklistUnavailable(t *testing.T) {
	token := generateTestToken(t, 1, "alice", "user")
	router, authMiddleware := setupMiddlewareTest(&fakeRevocations{err: assert.AnError})

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Authenticate_QueryToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	token := generateTestToken(t, 3, "admin", "admin")

	router.GET("/ws", authMiddleware.Authenticate(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":3`)
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	token := generateTestToken(t, 5, "bob", "user")

	tests := []struct {
		name       string
		header     string
		wantSignin bool
	}{
		{"guest", "", false},
		{"valid token", "Bearer " + token, true},
		{"invalid token", "Bearer broken", false},
		{"malformed header", "Token " + token, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, authMiddleware := setupMiddlewareTest(nil)
			router.GET("/test", authMiddleware.OptionalAuthenticate(), func(c *gin.Context) {
				_, signedIn := GetSubject(c)
				c.JSON(http.StatusOK, gin.H{"signed_in": signedIn})
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			var body map[string]bool
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantSignin, body["signed_in"])
		})
	}
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"admin allowed", "admin", http.StatusOK},
		{"user denied", "user", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, authMiddleware := setupMiddlewareTest(nil)
			router.GET("/admin",
				authMiddleware.Authenticate(),
				authMiddleware.RequireRole(model.RoleAdmin),
				func(c *gin.Context) { c.Status(http.StatusOK) },
			)

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+generateTestToken(t, 1, "someone", tt.role))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_RequireRole_WithoutAuthentication(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	router.GET("/admin", authMiddleware.RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, errors.AuthzRoleNotFound, errorCode(t, w))
}
