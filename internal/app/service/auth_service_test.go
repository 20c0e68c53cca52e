package service

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/repository"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

type fakeBlacklist struct {
	tokens map[string]time.Duration
}

func (f *fakeBlacklist) BlacklistToken(_ context.Context, token string, expiry time.Duration) error {
	f.tokens[token] = expiry
	return nil
}

func setupAuthServiceTest(t *testing.T) (AuthService, repository.UserRepository, *fakeBlacklist) {
	testDB := setupServiceDB(t)
	userRepo := repository.NewUserRepository(testDB)
	blacklist := &fakeBlacklist{tokens: map[string]time.Duration{}}
	authService := NewAuthService(userRepo, blacklist, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	return authService, userRepo, blacklist
}

func TestAuthService_Register(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	tests := []struct {
		name     string
		req      model.RegisterRequest
		wantCode string
	}{
		{
			name: "Valid registration",
			req:  model.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password123"},
		},
		{
			name:     "Duplicate username",
			req:      model.RegisterRequest{Username: "alice", Password: "password456"},
			wantCode: apperrors.AuthUsernameExists,
		},
		{
			name:     "Duplicate email",
			req:      model.RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "password456"},
			wantCode: apperrors.AuthEmailAlreadyExists,
		},
		{
			name:     "Password too short",
			req:      model.RegisterRequest{Username: "bob", Password: "123"},
			wantCode: apperrors.ValidationInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Register(tt.req)
			if tt.wantCode != "" {
				require.Error(t, err)
				appErr, ok := apperrors.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, appErr.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.req.Username, user.Username)
			assert.Equal(t, model.RoleUser, user.Role)
			assert.Equal(t, model.DefaultAvatarURL, user.AvatarURL)
			assert.NotEqual(t, tt.req.Password, user.PasswordHash)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)
		})
	}
}

func TestAuthService_RegisterGeneratesUsername(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	user, _, err := authService.Register(model.RegisterRequest{Password: "password123"})
	require.NoError(t, err)
	assert.Len(t, user.Username, 8)
	assert.Nil(t, user.Email)
}

func TestAuthService_Login(t *testing.T) {
	authService, userRepo, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register(model.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	t.Run("by username", func(t *testing.T) {
		user, tokens, err := authService.Login("alice", "password123")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)

		claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, util.TokenTypeAccess, claims.TokenType)
	})

	t.Run("by email", func(t *testing.T) {
		_, _, err := authService.Login("alice@example.com", "password123")
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := authService.Login("alice", "wrong-password")
		assertAppError(t, err, apperrors.KindUnauthorized, apperrors.AuthInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := authService.Login("nobody", "password123")
		assertAppError(t, err, apperrors.KindUnauthorized, apperrors.AuthInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		user, err := userRepo.FindByUsername("alice")
		require.NoError(t, err)
		user.Status = model.UserStatusDisabled
		require.NoError(t, userRepo.Update(user))

		_, _, err = authService.Login("alice", "password123")
		assertAppError(t, err, apperrors.KindForbidden, apperrors.AuthAccountDisabled)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	_, tokens, err := authService.Register(model.RegisterRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := authService.Refresh(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// access 토큰으로는 갱신 불가
	_, err = authService.Refresh(tokens.AccessToken)
	assertAppError(t, err, apperrors.KindUnauthorized, "")

	_, err = authService.Refresh("garbage")
	assertAppError(t, err, apperrors.KindUnauthorized, "")
}

func TestAuthService_Logout(t *testing.T) {
	authService, _, blacklist := setupAuthServiceTest(t)

	_, tokens, err := authService.Register(model.RegisterRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, authService.Logout(context.Background(), tokens.AccessToken))
	ttl, ok := blacklist.tokens[tokens.AccessToken]
	require.True(t, ok)
	assert.True(t, ttl > 0 && ttl <= 15*time.Minute)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	alice, _, err := authService.Register(model.RegisterRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	_, _, err = authService.Register(model.RegisterRequest{Username: "bob", Password: "password123"})
	require.NoError(t, err)

	bio := "sunset collector"
	updated, err := authService.UpdateProfile(alice.ID, model.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)

	taken := "bob"
	_, err = authService.UpdateProfile(alice.ID, model.UpdateProfileRequest{Username: &taken})
	assertAppError(t, err, apperrors.KindConflict, apperrors.AuthUsernameExists)

	_, err = authService.GetUserByID(9999)
	assertAppError(t, err, apperrors.KindNotFound, apperrors.UserNotFound)
}
