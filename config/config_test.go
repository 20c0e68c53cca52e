package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 500*time.Millisecond, cfg.Database.SlowQueryThreshold)
	assert.Equal(t, int64(50*1024*1024), cfg.Upload.MaxFileSize)
	assert.Equal(t, 300, cfg.Upload.ThumbnailWidth)
	assert.Equal(t, 30, cfg.ViewHistory.RetentionDays)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRY", "not-a-duration")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("UPLOAD_MAX_FILE_SIZE_MB", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxFileSize)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "real-secret", cfg.JWT.Secret)
}
