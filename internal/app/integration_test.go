package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/wallhub-backend/config"
	"github.com/ikkim/wallhub-backend/internal/db"
	"github.com/ikkim/wallhub-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	App *App
	t   *testing.T
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", GinMode: gin.TestMode, Environment: "test"},
		JWT: config.JWTConfig{
			Secret:             "integration-secret",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: time.Hour,
		},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Storage: config.StorageConfig{Driver: "local", LocalDir: t.TempDir(), BaseURL: "/uploads"},
		Upload:  config.UploadConfig{MaxFileSize: 5 * 1024 * 1024, ThumbnailWidth: 32},
		ViewHistory: config.ViewHistoryConfig{
			RetentionDays: 30,
			CleanupSpec:   "0 0 * * *",
		},
	}
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	require.NoError(t, db.SeedAdmin(testDB, "admin", "admin-pass"))

	cfg := testConfig(t)
	fileStorage, err := storage.NewLocalStorage(cfg.Storage.LocalDir, cfg.Storage.BaseURL)
	require.NoError(t, err)

	return &TestServer{App: New(cfg, testDB, fileStorage, nil), t: t}
}

type envelope struct {
	Success    bool            `json:"success"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Total int64 `json:"total"`
	} `json:"pagination"`
}

func (s *TestServer) do(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.App.Engine.ServeHTTP(w, req)

	var body envelope
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	}
	return w, body
}

func (s *TestServer) json(method, path, token string, payload interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if payload != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, token)
}

func (s *TestServer) login(username, password string) string {
	w, body := s.json(http.MethodPost, "/api/v1/auth/login", "", gin.H{"login": username, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	require.NoError(s.t, json.Unmarshal(body.Data, &data))
	return data.Tokens.AccessToken
}

func (s *TestServer) register(username, password string) string {
	w, _ := s.json(http.MethodPost, "/api/v1/auth/register", "", gin.H{"username": username, "password": password})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return s.login(username, password)
}

func pngBytes(t *testing.T, width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (s *TestServer) upload(token, title, tags string) uint {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(s.t, form.WriteField("title", title))
	require.NoError(s.t, form.WriteField("category", "general"))
	require.NoError(s.t, form.WriteField("tags", tags))
	part, err := form.CreateFormFile("file", title+".png")
	require.NoError(s.t, err)
	_, err = part.Write(pngBytes(s.t, 64, 36))
	require.NoError(s.t, err)
	require.NoError(s.t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallpapers", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w, body := s.do(req, token)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID     uint   `json:"id"`
		Width  int    `json:"width"`
		Format string `json:"format"`
		Tags   []struct {
			Slug string `json:"slug"`
		} `json:"tags"`
	}
	require.NoError(s.t, json.Unmarshal(body.Data, &created))
	assert.Equal(s.t, 64, created.Width)
	assert.Equal(s.t, "png", created.Format)
	return created.ID
}

func idOf(t *testing.T, raw json.RawMessage) uint {
	var v struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &v))
	require.NotZero(t, v.ID)
	return v.ID
}

func TestIntegration_HealthAndMetrics(t *testing.T) {
	server := setupIntegrationTest(t)

	w, _ := server.json(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = server.json(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "wallhub_http_requests_total")
}

func TestIntegration_RequestIDEchoed(t *testing.T) {
	server := setupIntegrationTest(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w, _ := server.do(req, "")
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestIntegration_AuthRequired(t *testing.T) {
	server := setupIntegrationTest(t)

	w, body := server.json(http.MethodPost, "/api/v1/posts", "", gin.H{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, body.Success)

	token := server.register("plain", "secret1")
	w, _ = server.json(http.MethodGet, "/api/v1/admin/dashboard/stats", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestIntegration_FullFlow(t *testing.T) {
	server := setupIntegrationTest(t)
	alice := server.register("alice", "secret1")
	bob := server.register("bob", "secret2")

	// 업로드 후 태그 필터
	sunsetID := server.upload(alice, "sunset", "Nature, Sky")
	server.upload(alice, "city", "urban")

	w, body := server.json(http.MethodGet, "/api/v1/wallpapers?tags=nature", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, body.Pagination)
	assert.Equal(t, int64(1), body.Pagination.Total)

	w, body = server.json(http.MethodGet, "/api/v1/tags/popular", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body.Data), `"slug":"nature"`)

	// 좋아요와 조회
	w, _ = server.json(http.MethodPost, fmt.Sprintf("/api/v1/wallpapers/%d/like", sunsetID), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = server.json(http.MethodPost, fmt.Sprintf("/api/v1/wallpapers/%d/view", sunsetID), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, body = server.json(http.MethodGet, fmt.Sprintf("/api/v1/wallpapers/%d", sunsetID), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body.Data), `"is_liked":true`)
	assert.Contains(t, string(body.Data), `"view_count":1`)

	w, body = server.json(http.MethodGet, "/api/v1/users/me/likes", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), body.Pagination.Total)

	// 다른 사용자의 배경화면 수정 불가
	w, _ = server.json(http.MethodPut, fmt.Sprintf("/api/v1/wallpapers/%d", sunsetID), bob, gin.H{"title": "mine"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 게시글, 댓글, 답글
	w, body = server.json(http.MethodPost, "/api/v1/posts", alice, gin.H{
		"title":    "Best dark wallpapers",
		"content":  "Share yours",
		"category": "resource_sharing",
		"tags":     []string{"dark", "amoled"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	postID := idOf(t, body.Data)

	w, body = server.json(http.MethodPost, "/api/v1/comments", bob, gin.H{"content": "nice", "post_id": postID})
	require.Equal(t, http.StatusCreated, w.Code)
	commentID := idOf(t, body.Data)

	w, _ = server.json(http.MethodPost, "/api/v1/comments", alice, gin.H{"content": "thanks", "post_id": postID, "parent_id": commentID})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body = server.json(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/comments/stats", postID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body.Data), `"total":2`)

	// 신고 후 관리자 처리
	w, body = server.json(http.MethodPost, "/api/v1/reports", alice, gin.H{
		"target_type": "comment",
		"target_id":   commentID,
		"reason":      "harassment",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reportID := idOf(t, body.Data)

	w, _ = server.json(http.MethodPost, "/api/v1/reports", alice, gin.H{
		"target_type": "comment",
		"target_id":   commentID,
		"reason":      "spam",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	admin := server.login("admin", "admin-pass")

	w, body = server.json(http.MethodGet, "/api/v1/admin/reports?status=pending", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), body.Pagination.Total)

	w, body = server.json(http.MethodPatch, fmt.Sprintf("/api/v1/admin/reports/%d", reportID), admin, gin.H{"status": "dismissed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(body.Data), `"status":"dismissed"`)

	w, body = server.json(http.MethodGet, "/api/v1/admin/dashboard/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		TotalUsers      int64 `json:"total_users"`
		TotalWallpapers int64 `json:"total_wallpapers"`
		TotalPosts      int64 `json:"total_posts"`
		TotalReports    int64 `json:"total_reports"`
		PendingReports  int64 `json:"pending_reports"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalWallpapers)
	assert.Equal(t, int64(1), stats.TotalPosts)
	assert.Equal(t, int64(1), stats.TotalReports)
	assert.Equal(t, int64(0), stats.PendingReports)

	// 로그아웃 (블랙리스트 저장소 없이도 성공)
	w, _ = server.json(http.MethodPost, "/api/v1/auth/logout", bob, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
