package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/repository"
	"github.com/ikkim/wallhub-backend/internal/authz"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeThrottle struct {
	seen map[string]bool
}

func (f *fakeThrottle) MarkViewed(_ context.Context, key string, _ time.Duration) (bool, error) {
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

type wallpaperFixture struct {
	db       *gorm.DB
	service  WallpaperService
	storage  *storage.LocalStorage
	throttle *fakeThrottle
	owner    *model.User
	other    *model.User
	admin    *model.User
}

func setupWallpaperServiceTest(t *testing.T) *wallpaperFixture {
	testDB := setupServiceDB(t)

	local, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	throttle := &fakeThrottle{seen: map[string]bool{}}
	svc := NewWallpaperService(
		repository.NewWallpaperRepository(testDB),
		repository.NewViewHistoryRepository(testDB),
		NewTagService(repository.NewTagRepository(testDB)),
		NewUploadService(local, 5*1024*1024, 300),
		throttle,
		10*time.Minute,
	)

	return &wallpaperFixture{
		db:       testDB,
		service:  svc,
		storage:  local,
		throttle: throttle,
		owner:    seedUser(t, testDB, "owner", model.RoleUser),
		other:    seedUser(t, testDB, "other", model.RoleUser),
		admin:    seedUser(t, testDB, "admin", model.RoleAdmin),
	}
}

func (f *wallpaperFixture) create(t *testing.T, title string, tags ...string) *model.Wallpaper {
	wallpaper, err := f.service.Create(f.owner.ID, model.CreateWallpaperRequest{
		Title: title,
		Tags:  tags,
	}, testWallpaperFile(title))
	require.NoError(t, err)
	return wallpaper
}

func TestWallpaperService_TagLifecycle(t *testing.T) {
	f := setupWallpaperServiceTest(t)

	wallpaper := f.create(t, "coast", "sunset", "ocean")
	assert.Len(t, wallpaper.Tags, 2)
	assert.Equal(t, int64(1), tagUsage(t, f.db, "sunset"))
	assert.Equal(t, int64(1), tagUsage(t, f.db, "ocean"))

	tags, err := f.service.SetTags(subjectOf(f.owner), wallpaper.ID, []string{"ocean", "beach"})
	require.NoError(t, err)
	assert.Len(t, tags, 2)
	assert.Equal(t, int64(0), tagUsage(t, f.db, "sunset"))
	assert.Equal(t, int64(1), tagUsage(t, f.db, "ocean"))
	assert.Equal(t, int64(1), tagUsage(t, f.db, "beach"))

	require.NoError(t, f.service.Delete(context.Background(), subjectOf(f.owner), wallpaper.ID))
	assert.Equal(t, int64(0), tagUsage(t, f.db, "ocean"))
	assert.Equal(t, int64(0), tagUsage(t, f.db, "beach"))

	var joins int64
	require.NoError(t, f.db.Model(&model.WallpaperTag{}).Count(&joins).Error)
	assert.Zero(t, joins)
}

func TestWallpaperService_CreateRejectsInvalidTagsWithoutWriting(t *testing.T) {
	f := setupWallpaperServiceTest(t)

	_, err := f.service.Create(f.owner.ID, model.CreateWallpaperRequest{
		Title: "broken",
		Tags:  []string{"ok", ""},
	}, testWallpaperFile("broken"))
	assertAppError(t, err, apperrors.KindValidation, apperrors.TagInvalidName)

	var count int64
	require.NoError(t, f.db.Model(&model.Wallpaper{}).Count(&count).Error)
	assert.Zero(t, count)
}

// brokenTagService 태그 연결 단계의 DB 장애
type brokenTagService struct {
	TagService
}

func (brokenTagService) SetWallpaperTags(uint, []string) ([]model.Tag, error) {
	return nil, errors.New("connection reset by peer")
}

func TestWallpaperService_CreateRemovesRowWhenTaggingFails(t *testing.T) {
	f := setupWallpaperServiceTest(t)
	svc := NewWallpaperService(
		repository.NewWallpaperRepository(f.db),
		repository.NewViewHistoryRepository(f.db),
		brokenTagService{TagService: NewTagService(repository.NewTagRepository(f.db))},
		NewUploadService(f.storage, 5*1024*1024, 300),
		f.throttle,
		10*time.Minute,
	)

	_, err := svc.Create(f.owner.ID, model.CreateWallpaperRequest{
		Title: "orphan",
		Tags:  []string{"nature"},
	}, testWallpaperFile("orphan"))
	require.Error(t, err)

	var count int64
	require.NoError(t, f.db.Model(&model.Wallpaper{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWallpaperService_Authorization(t *testing.T) {
	f := setupWallpaperServiceTest(t)
	wallpaper := f.create(t, "mine")

	title := "stolen"
	_, err := f.service.Update(subjectOf(f.other), wallpaper.ID, model.UpdateWallpaperRequest{Title: &title})
	assertAppError(t, err, apperrors.KindForbidden, apperrors.AuthzOwnerOnly)

	featured := true
	_, err = f.service.Update(subjectOf(f.owner), wallpaper.ID, model.UpdateWallpaperRequest{IsFeatured: &featured})
	assertAppError(t, err, apperrors.KindForbidden, apperrors.AuthzAdminOnly)

	updated, err := f.service.Update(subjectOf(f.admin), wallpaper.ID, model.UpdateWallpaperRequest{IsFeatured: &featured, Title: &title})
	require.NoError(t, err)
	assert.True(t, updated.IsFeatured)
	assert.Equal(t, "stolen", updated.Title)

	err = f.service.Delete(context.Background(), subjectOf(f.other), wallpaper.ID)
	assertAppError(t, err, apperrors.KindForbidden, apperrors.AuthzOwnerOnly)

	err = f.service.Delete(context.Background(), subjectOf(f.owner), 9999)
	assertAppError(t, err, apperrors.KindNotFound, apperrors.WallpaperNotFound)
}

func TestWallpaperService_HiddenVisibleToOwnerOnly(t *testing.T) {
	f := setupWallpaperServiceTest(t)
	wallpaper := f.create(t, "secret")

	hidden := model.WallpaperStatusHidden
	_, err := f.service.Update(subjectOf(f.admin), wallpaper.ID, model.UpdateWallpaperRequest{Status: &hidden})
	require.NoError(t, err)

	_, err = f.service.FindByID(wallpaper.ID, nil)
	assertAppError(t, err, apperrors.KindNotFound, apperrors.WallpaperNotFound)

	other := subjectOf(f.other)
	_, err = f.service.FindByID(wallpaper.ID, &other)
	assertAppError(t, err, apperrors.KindNotFound, apperrors.WallpaperNotFound)

	owner := subjectOf(f.owner)
	detail, err := f.service.FindByID(wallpaper.ID, &owner)
	require.NoError(t, err)
	assert.Equal(t, "secret", detail.Title)
}

func TestWallpaperService_LikeAndFavoriteAreIdempotent(t *testing.T) {
	f := setupWallpaperServiceTest(t)
	wallpaper := f.create(t, "liked")

	for i := 0; i < 2; i++ {
		state, err := f.service.Like(f.other.ID, wallpaper.ID)
		require.NoError(t, err)
		assert.True(t, state.Active)
		assert.Equal(t, int64(1), state.Count)
	}

	state, err := f.service.Favorite(f.other.ID, wallpaper.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), state.Count)

	viewer := subjectOf(f.other)
	detail, err := f.service.FindByID(wallpaper.ID, &viewer)
	require.NoError(t, err)
	assert.True(t, detail.IsLiked)
	assert.True(t, detail.IsFavorited)

	for i := 0; i < 2; i++ {
		state, err = f.service.Unlike(f.other.ID, wallpaper.ID)
		require.NoError(t, err)
		assert.False(t, state.Active)
		assert.Equal(t, int64(0), state.Count)
	}

	liked, favorited, err := f.service.GetLikeState(f.other.ID, wallpaper.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.True(t, favorited)

	favorites, pagination, err := f.service.GetUserFavorites(f.other.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)
	assert.Equal(t, int64(1), pagination.Total)

	_, err = f.service.Like(f.other.ID, 9999)
	assertAppError(t, err, apperrors.KindNotFound, apperrors.WallpaperNotFound)
}

func TestWallpaperService_RecordViewThrottlesPerViewer(t *testing.T) {
	f := setupWallpaperServiceTest(t)
	wallpaper := f.create(t, "viewed")
	ctx := context.Background()

	viewerID := f.other.ID
	require.NoError(t, f.service.RecordView(ctx, wallpaper.ID, &viewerID, "10.0.0.1"))
	require.NoError(t, f.service.RecordView(ctx, wallpaper.ID, &viewerID, "10.0.0.1"))
	require.NoError(t, f.service.RecordView(ctx, wallpaper.ID, nil, "10.0.0.2"))

	var reloaded model.Wallpaper
	require.NoError(t, f.db.First(&reloaded, wallpaper.ID).Error)
	assert.Equal(t, int64(2), reloaded.ViewCount)

	var history int64
	require.NoError(t, f.db.Model(&model.ViewHistory{}).Where("user_id = ?", viewerID).Count(&history).Error)
	assert.Equal(t, int64(1), history)
}

func TestWallpaperService_RecordViewMissingWallpaper(t *testing.T) {
	f := setupWallpaperServiceTest(t)
	ctx := context.Background()
	viewerID := f.owner.ID

	err := f.service.RecordView(ctx, 9999, &viewerID, "1.2.3.4")
	assertAppError(t, err, apperrors.KindNotFound, apperrors.WallpaperNotFound)

	err = f.service.RecordView(ctx, 9998, nil, "1.2.3.4")
	assertAppError(t, err, apperrors.KindNotFound, apperrors.WallpaperNotFound)

	var history int64
	require.NoError(t, f.db.Model(&model.ViewHistory{}).Count(&history).Error)
	assert.Zero(t, history)
	assert.Empty(t, f.throttle.seen)
}

func TestWallpaperService_FindAllSorting(t *testing.T) {
	f := setupWallpaperServiceTest(t)
	a := f.create(t, "a")
	b := f.create(t, "b")
	require.NoError(t, f.db.Model(&model.Wallpaper{}).Where("id = ?", a.ID).Update("view_count", 50).Error)

	tests := []struct {
		name    string
		query   model.WallpaperListQuery
		firstID uint
	}{
		{"default newest first", model.WallpaperListQuery{}, b.ID},
		{"unknown sort falls back to created_at", model.WallpaperListQuery{SortBy: "DROP TABLE"}, b.ID},
		{"popular", model.WallpaperListQuery{SortBy: "popular"}, a.ID},
		{"camelCase view count", model.WallpaperListQuery{SortBy: "viewCount", SortOrder: "desc"}, a.ID},
		{"ascending created_at", model.WallpaperListQuery{SortBy: "created_at", SortOrder: "asc"}, a.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wallpapers, pagination, err := f.service.FindAll(tt.query)
			require.NoError(t, err)
			require.Len(t, wallpapers, 2)
			assert.Equal(t, tt.firstID, wallpapers[0].ID)
			assert.Equal(t, 1, pagination.Pages)
		})
	}

	random, _, err := f.service.FindAll(model.WallpaperListQuery{SortBy: "random"})
	require.NoError(t, err)
	assert.Len(t, random, 2)
}

func TestWallpaperService_FindAllByTags(t *testing.T) {
	f := setupWallpaperServiceTest(t)
	f.create(t, "both", "Sunset", "ocean")
	f.create(t, "only-sunset", "sunset")

	wallpapers, _, err := f.service.FindAll(model.WallpaperListQuery{Tags: []string{"SUNSET, Ocean"}})
	require.NoError(t, err)
	require.Len(t, wallpapers, 1)
	assert.Equal(t, "both", wallpapers[0].Title)

	wallpapers, _, err = f.service.FindAll(model.WallpaperListQuery{Tags: []string{"sunset"}, Format: "JPEG"})
	require.NoError(t, err)
	assert.Len(t, wallpapers, 2)
}

func TestWallpaperService_DeleteRemovesStoredFiles(t *testing.T) {
	f := setupWallpaperServiceTest(t)
	ctx := context.Background()

	file, err := NewUploadService(f.storage, 5*1024*1024, 300).ProcessBytes(ctx, encodeTestPNG(t, 640, 480))
	require.NoError(t, err)

	wallpaper, err := f.service.Create(f.owner.ID, model.CreateWallpaperRequest{Title: "stored"}, file)
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(f.storage.Root(), file.FileKey))
	require.NoError(t, f.service.Delete(ctx, subjectOf(f.admin), wallpaper.ID))

	_, statErr := os.Stat(filepath.Join(f.storage.Root(), file.FileKey))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(f.storage.Root(), file.ThumbnailKey))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWallpaperService_AdminList(t *testing.T) {
	f := setupWallpaperServiceTest(t)
	f.create(t, "one")

	_, _, err := f.service.AdminList(subjectOf(f.owner), model.AdminWallpaperQuery{})
	assertAppError(t, err, apperrors.KindForbidden, apperrors.AuthzAdminOnly)

	wallpapers, _, err := f.service.AdminList(authz.Subject{UserID: f.admin.ID, Role: model.RoleAdmin}, model.AdminWallpaperQuery{})
	require.NoError(t, err)
	assert.Len(t, wallpapers, 1)
}
