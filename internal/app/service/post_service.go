package service

import (
	"strings"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/repository"
	"github.com/ikkim/wallhub-backend/internal/authz"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"github.com/ikkim/wallhub-backend/pkg/util"
)

var postSortColumns = map[string]string{
	"createdAt":     "created_at",
	"created_at":    "created_at",
	"updatedAt":     "updated_at",
	"updated_at":    "updated_at",
	"viewCount":     "view_count",
	"view_count":    "view_count",
	"likeCount":     "like_count",
	"like_count":    "like_count",
	"commentCount":  "comment_count",
	"comment_count": "comment_count",
}

type PostService interface {
	Create(authorID uint, req model.CreatePostRequest) (*model.Post, error)
	GetByID(id uint, viewer *authz.Subject) (*model.PostDetail, error)
	List(query model.PostListQuery) ([]model.Post, util.Pagination, error)
	Update(actor authz.Subject, id uint, req model.UpdatePostRequest) (*model.Post, error)
	Delete(actor authz.Subject, id uint) error
	Like(userID, id uint) (*model.InteractionState, error)
	Unlike(userID, id uint) (*model.InteractionState, error)
	HasLiked(userID, id uint) (bool, error)
	GetPopular(limit int) ([]model.Post, error)
	GetLatest(limit int) ([]model.Post, error)
	GetUserPosts(authorID uint, page, limit int) ([]model.Post, util.Pagination, error)
}

type postService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

func postNotFound(err error) error {
	return notFoundOr(err, apperrors.PostNotFound, "게시글을 찾을 수 없습니다")
}

// joinPostTags 공백 제거, 빈 값과 중복 제외 후 CSV로 결합
func joinPostTags(tags []string) string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.ReplaceAll(tag, ",", " "))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return strings.Join(out, ",")
}

func (s *postService) Create(authorID uint, req model.CreatePostRequest) (*model.Post, error) {
	if !req.Category.Valid() {
		return nil, apperrors.NewValidation(apperrors.PostInvalidCategory, "잘못된 게시글 카테고리입니다")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Content) == "" {
		return nil, apperrors.NewValidation(apperrors.ValidationRequired, "제목과 내용을 입력해주세요")
	}

	summary := strings.TrimSpace(req.Summary)
	if summary == "" {
		summary = summarize(req.Content)
	}

	post := &model.Post{
		Title:        title,
		Content:      req.Content,
		Summary:      summary,
		ThumbnailURL: req.ThumbnailURL,
		Category:     req.Category,
		Status:       model.PostStatusPublished,
		Tags:         joinPostTags(req.Tags),
		AuthorID:     authorID,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}

	logger.Info("Post created", map[string]interface{}{
		"post_id":   post.ID,
		"author_id": authorID,
	})
	return post, nil
}

// GetByID 공개 게시글만 조회. 조회수 증가 후 본문 HTML 렌더링
func (s *postService) GetByID(id uint, viewer *authz.Subject) (*model.PostDetail, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, postNotFound(err)
	}
	if post.Status != model.PostStatusPublished {
		if viewer == nil || authz.Authorize(*viewer, authz.ActionUpdate, authz.Owned(authz.ResourcePost, post.AuthorID)) != nil {
			return nil, apperrors.NewNotFound(apperrors.PostNotFound, "게시글을 찾을 수 없습니다")
		}
	}

	if err := s.postRepo.IncrementViewCount(id); err != nil {
		return nil, err
	}
	post.ViewCount++
	post.ContentHTML = renderMarkdown(post.Content)

	detail := &model.PostDetail{Post: post}
	if viewer != nil && viewer.UserID != 0 {
		if detail.IsLiked, err = s.postRepo.HasLiked(viewer.UserID, id); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// postOrder popular은 조회수 → 좋아요 순, 기본은 created_at DESC
func postOrder(sortBy, sortOrder string) string {
	if sortBy == "popular" {
		return "view_count DESC, like_count DESC, id DESC"
	}
	column := orderColumn(sortBy, postSortColumns, "created_at")
	direction := sortDirection(sortOrder, "DESC")
	return column + " " + direction + ", id " + direction
}

func (s *postService) List(query model.PostListQuery) ([]model.Post, util.Pagination, error) {
	page, limit := util.NormalizePage(query.Page, query.Limit)

	var tags []string
	for _, raw := range query.Tags {
		tags = append(tags, util.SplitCSV(raw)...)
	}

	posts, total, err := s.postRepo.FindAll(repository.PostFilter{
		Category: query.Category,
		Search:   strings.TrimSpace(query.Search),
		AuthorID: query.AuthorID,
		Tags:     tags,
		OrderBy:  postOrder(query.SortBy, query.SortOrder),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return posts, util.NewPagination(page, limit, total), nil
}

// Update 작성자 본인만 가능
func (s *postService) Update(actor authz.Subject, id uint, req model.UpdatePostRequest) (*model.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, postNotFound(err)
	}
	if err := authz.Authorize(actor, authz.ActionEdit, authz.Owned(authz.ResourcePost, post.AuthorID)); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.NewValidation(apperrors.ValidationRequired, "제목을 입력해주세요")
		}
		updates["title"] = title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, apperrors.NewValidation(apperrors.ValidationRequired, "내용을 입력해주세요")
		}
		updates["content"] = *req.Content
		if req.Summary == nil {
			updates["summary"] = summarize(*req.Content)
		}
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, apperrors.NewValidation(apperrors.PostInvalidCategory, "잘못된 게시글 카테고리입니다")
		}
		updates["category"] = *req.Category
	}
	if req.Summary != nil {
		updates["summary"] = strings.TrimSpace(*req.Summary)
	}
	if req.ThumbnailURL != nil {
		updates["thumbnail_url"] = *req.ThumbnailURL
	}
	if req.Tags != nil {
		updates["tags"] = joinPostTags(req.Tags)
	}

	if len(updates) > 0 {
		if err := s.postRepo.Update(id, updates); err != nil {
			return nil, postNotFound(err)
		}
	}
	updated, err := s.postRepo.FindByID(id)
	return updated, postNotFound(err)
}

// Delete 작성자 또는 관리자. 댓글, 댓글 좋아요, 게시글 좋아요 함께 삭제
func (s *postService) Delete(actor authz.Subject, id uint) error {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return postNotFound(err)
	}
	if err := authz.Authorize(actor, authz.ActionDelete, authz.Owned(authz.ResourcePost, post.AuthorID)); err != nil {
		return err
	}
	if err := s.postRepo.Delete(id); err != nil {
		return postNotFound(err)
	}

	logger.Info("Post deleted", map[string]interface{}{
		"post_id":  id,
		"actor_id": actor.UserID,
	})
	return nil
}

func (s *postService) Like(userID, id uint) (*model.InteractionState, error) {
	state, err := s.postRepo.Like(userID, id)
	return state, postNotFound(err)
}

func (s *postService) Unlike(userID, id uint) (*model.InteractionState, error) {
	state, err := s.postRepo.Unlike(userID, id)
	return state, postNotFound(err)
}

func (s *postService) HasLiked(userID, id uint) (bool, error) {
	return s.postRepo.HasLiked(userID, id)
}

func (s *postService) GetPopular(limit int) ([]model.Post, error) {
	if limit <= 0 || limit > util.MaxLimit {
		limit = defaultPopularLimit
	}
	return s.postRepo.FindPopular(limit)
}

func (s *postService) GetLatest(limit int) ([]model.Post, error) {
	if limit <= 0 || limit > util.MaxLimit {
		limit = defaultPopularLimit
	}
	return s.postRepo.FindLatest(limit)
}

func (s *postService) GetUserPosts(authorID uint, page, limit int) ([]model.Post, util.Pagination, error) {
	page, limit = util.NormalizePage(page, limit)
	posts, total, err := s.postRepo.FindByAuthor(authorID, page, limit)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return posts, util.NewPagination(page, limit, total), nil
}
