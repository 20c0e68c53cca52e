package repository

import (
	"testing"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func postIDs(posts []model.Post) []uint {
	var ids []uint
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestPostRepository_FindAllByTagsAndSearch(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewPostRepository(testDB)
	alice := createTestUser(t, testDB, "alice")
	bob := createTestUser(t, testDB, "bob")

	goPost := createTestPost(t, testDB, alice.ID, "Learning Go", "go,backend")
	rustPost := createTestPost(t, testDB, bob.ID, "Rust tips", "rust,backend")
	createTestPost(t, testDB, bob.ID, "Gopher art", "golang")
	draft := createTestPost(t, testDB, alice.ID, "Draft Go", "go")
	require.NoError(t, testDB.Model(draft).Update("status", model.PostStatusDraft).Error)

	base := PostFilter{OrderBy: "id ASC", Page: 1, Limit: 20}

	f := base
	f.Tags = []string{"go"}
	posts, total, err := repo.FindAll(f)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []uint{goPost.ID}, postIDs(posts))

	f = base
	f.Tags = []string{"backend", "rust"}
	posts, _, err = repo.FindAll(f)
	require.NoError(t, err)
	assert.Equal(t, []uint{rustPost.ID}, postIDs(posts))

	f = base
	f.Search = "TIPS"
	posts, _, err = repo.FindAll(f)
	require.NoError(t, err)
	assert.Equal(t, []uint{rustPost.ID}, postIDs(posts))

	f = base
	f.AuthorID = &alice.ID
	posts, _, err = repo.FindAll(f)
	require.NoError(t, err)
	assert.Equal(t, []uint{goPost.ID}, postIDs(posts))
}

func TestPostRepository_PopularOrder(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewPostRepository(testDB)
	user := createTestUser(t, testDB, "alice")

	p1 := createTestPost(t, testDB, user.ID, "p1", "")
	p2 := createTestPost(t, testDB, user.ID, "p2", "")
	p3 := createTestPost(t, testDB, user.ID, "p3", "")
	testDB.Model(p1).Updates(map[string]interface{}{"view_count": 10, "like_count": 1})
	testDB.Model(p2).Updates(map[string]interface{}{"view_count": 10, "like_count": 5})
	testDB.Model(p3).Updates(map[string]interface{}{"view_count": 50, "like_count": 0})

	posts, _, err := repo.FindAll(PostFilter{OrderBy: "view_count DESC, like_count DESC", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []uint{p3.ID, p2.ID, p1.ID}, postIDs(posts))

	popular, err := repo.FindPopular(2)
	require.NoError(t, err)
	assert.Equal(t, []uint{p3.ID, p2.ID}, postIDs(popular))
}

func TestPostRepository_LikeIdempotent(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewPostRepository(testDB)
	user := createTestUser(t, testDB, "alice")
	post := createTestPost(t, testDB, user.ID, "p1", "")

	for i := 0; i < 2; i++ {
		state, err := repo.Like(user.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), state.Count)
	}

	liked, err := repo.HasLiked(user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	for i := 0; i < 2; i++ {
		state, err := repo.Unlike(user.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), state.Count)
	}

	_, err = repo.Like(user.ID, 404)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewPostRepository(testDB)
	commentRepo := NewCommentRepository(testDB)
	user := createTestUser(t, testDB, "alice")
	post := createTestPost(t, testDB, user.ID, "p1", "")
	other := createTestPost(t, testDB, user.ID, "p2", "")

	comment := &model.Comment{Content: "hi", PostID: post.ID, AuthorID: user.ID}
	require.NoError(t, commentRepo.Create(comment))
	_, err := commentRepo.ToggleLike(comment.ID, user.ID)
	require.NoError(t, err)
	require.NoError(t, commentRepo.Create(&model.Comment{Content: "keep", PostID: other.ID, AuthorID: user.ID}))
	_, err = repo.Like(user.ID, post.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(post.ID))

	var comments, commentLikes, postLikes int64
	testDB.Model(&model.Comment{}).Count(&comments)
	testDB.Model(&model.CommentLike{}).Count(&commentLikes)
	testDB.Model(&model.PostLike{}).Count(&postLikes)
	assert.Equal(t, int64(1), comments)
	assert.Zero(t, commentLikes)
	assert.Zero(t, postLikes)

	assert.ErrorIs(t, repo.Delete(post.ID), gorm.ErrRecordNotFound)
}
