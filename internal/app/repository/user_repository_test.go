package repository

import (
	"errors"
	"testing"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewUserRepository(testDB)
	return testDB, repo
}

func strPtr(s string) *string { return &s }

func TestUserRepository_Create(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name    string
		user    *model.User
		wantErr bool
	}{
		{
			name:    "Valid user",
			user:    &model.User{Username: "alice", Email: strPtr("alice@example.com"), PasswordHash: "hash", Role: model.RoleUser},
			wantErr: false,
		},
		{
			name:    "User without email",
			user:    &model.User{Username: "bob", PasswordHash: "hash", Role: model.RoleUser},
			wantErr: false,
		},
		{
			name:    "Duplicate username",
			user:    &model.User{Username: "alice", PasswordHash: "hash", Role: model.RoleUser},
			wantErr: true,
		},
		{
			name:    "Duplicate email",
			user:    &model.User{Username: "carol", Email: strPtr("alice@example.com"), PasswordHash: "hash"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)

			if tt.wantErr {
				assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, tt.user.ID)
			}
		})
	}
}

func TestUserRepository_FindByLogin(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{Username: "alice", Email: strPtr("alice@example.com"), PasswordHash: "hash"}
	require.NoError(t, repo.Create(user))

	byName, err := repo.FindByLogin("alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.FindByLogin("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.FindByLogin("nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_DeleteIsSoft(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.Delete(user.ID))

	_, err := repo.FindByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	testDB.Unscoped().Model(&model.User{}).Where("id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, repo.Delete(9999), gorm.ErrRecordNotFound)
}

func TestUserRepository_List(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.User{Username: "alice", PasswordHash: "h", Role: model.RoleAdmin, Status: model.UserStatusActive}))
	require.NoError(t, repo.Create(&model.User{Username: "alfred", PasswordHash: "h", Role: model.RoleUser, Status: model.UserStatusActive}))
	require.NoError(t, repo.Create(&model.User{Username: "bob", PasswordHash: "h", Role: model.RoleUser, Status: model.UserStatusActive}))

	users, total, err := repo.List(model.UserListQuery{Keyword: "AL"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 2)

	_, total, err = repo.List(model.UserListQuery{Role: model.RoleUser}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	admins, err := repo.CountAdmins()
	require.NoError(t, err)
	assert.Equal(t, int64(1), admins)
}
