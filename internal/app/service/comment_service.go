package service

import (
	"fmt"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/repository"
	"github.com/ikkim/wallhub-backend/internal/authz"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"github.com/ikkim/wallhub-backend/pkg/util"
)

var commentSortColumns = map[string]string{
	"createdAt":  "created_at",
	"created_at": "created_at",
	"updatedAt":  "updated_at",
	"updated_at": "updated_at",
	"likeCount":  "like_count",
	"like_count": "like_count",
}

type CommentService interface {
	Create(authorID uint, req model.CreateCommentRequest) (*model.Comment, error)
	GetByID(id uint) (*model.Comment, error)
	Update(actor authz.Subject, id uint, content string) (*model.Comment, error)
	Delete(actor authz.Subject, id uint) (int64, error)
	List(query model.CommentListQuery) ([]model.Comment, util.Pagination, error)
	ToggleLike(userID, id uint) (*model.CommentLikeResult, error)
	IsLikedByUser(userID, id uint) (bool, error)
	GetUserComments(authorID uint, page, limit int) ([]model.Comment, util.Pagination, error)
	GetUserLikedComments(userID uint, page, limit int) ([]model.Comment, util.Pagination, error)
	GetLatest(limit int) ([]model.Comment, error)
	GetStats(postID uint) (*model.CommentStats, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func commentNotFound(err error) error {
	return notFoundOr(err, apperrors.CommentNotFound, "댓글을 찾을 수 없습니다")
}

// cleanCommentContent HTML 제거 후 길이 검증
func cleanCommentContent(raw string) (string, error) {
	content := plainText(raw)
	if content == "" {
		return "", apperrors.NewValidation(apperrors.ValidationRequired, "댓글 내용을 입력해주세요")
	}
	if util.RuneLen(content) > model.CommentMaxLength {
		return "", apperrors.NewValidation(apperrors.ValidationInvalidRange,
			fmt.Sprintf("댓글은 %d자를 넘을 수 없습니다", model.CommentMaxLength))
	}
	return content, nil
}

// Create 답글이면 부모 댓글이 같은 게시글에 있어야 함
func (s *commentService) Create(authorID uint, req model.CreateCommentRequest) (*model.Comment, error) {
	content, err := cleanCommentContent(req.Content)
	if err != nil {
		return nil, err
	}

	if _, err := s.postRepo.FindByID(req.PostID); err != nil {
		return nil, postNotFound(err)
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.FindByID(*req.ParentID)
		if err != nil {
			return nil, notFoundOr(err, apperrors.CommentParentNotFound, "부모 댓글을 찾을 수 없습니다")
		}
		if parent.PostID != req.PostID {
			return nil, apperrors.NewForbidden(apperrors.CommentParentMismatch, "다른 게시글의 댓글에는 답글을 달 수 없습니다")
		}
	}

	comment := &model.Comment{
		Content:  content,
		PostID:   req.PostID,
		AuthorID: authorID,
		ParentID: req.ParentID,
		Status:   model.CommentStatusActive,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	logger.Info("Comment created", map[string]interface{}{
		"comment_id": comment.ID,
		"post_id":    comment.PostID,
		"is_reply":   comment.ParentID != nil,
	})
	return comment, nil
}

func (s *commentService) GetByID(id uint) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		return nil, commentNotFound(err)
	}
	return comment, nil
}

func (s *commentService) Update(actor authz.Subject, id uint, raw string) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		return nil, commentNotFound(err)
	}
	if err := authz.Authorize(actor, authz.ActionEdit, authz.Owned(authz.ResourceComment, comment.AuthorID)); err != nil {
		return nil, err
	}

	content, err := cleanCommentContent(raw)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateContent(id, content); err != nil {
		return nil, commentNotFound(err)
	}
	return s.GetByID(id)
}

// Delete 하위 답글까지 모두 삭제하고 삭제된 댓글 수 반환
func (s *commentService) Delete(actor authz.Subject, id uint) (int64, error) {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		return 0, commentNotFound(err)
	}
	if err := authz.Authorize(actor, authz.ActionDelete, authz.Owned(authz.ResourceComment, comment.AuthorID)); err != nil {
		return 0, err
	}

	removed, err := s.commentRepo.DeleteTree(id)
	if err != nil {
		return 0, commentNotFound(err)
	}

	logger.Info("Comment tree deleted", map[string]interface{}{
		"comment_id": id,
		"post_id":    comment.PostID,
		"removed":    removed,
	})
	return removed, nil
}

// List parent_id가 없으면 최상위 댓글, 있으면 해당 댓글의 답글. 기본 오래된 순
func (s *commentService) List(query model.CommentListQuery) ([]model.Comment, util.Pagination, error) {
	page, limit := util.NormalizePage(query.Page, query.Limit)
	direction := sortDirection(query.SortOrder, "ASC")
	orderBy := orderColumn(query.SortBy, commentSortColumns, "created_at") + " " + direction + ", id " + direction

	comments, total, err := s.commentRepo.FindByPost(query.PostID, query.ParentID, orderBy, page, limit)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return comments, util.NewPagination(page, limit, total), nil
}

func (s *commentService) ToggleLike(userID, id uint) (*model.CommentLikeResult, error) {
	result, err := s.commentRepo.ToggleLike(id, userID)
	return result, commentNotFound(err)
}

func (s *commentService) IsLikedByUser(userID, id uint) (bool, error) {
	return s.commentRepo.IsLiked(id, userID)
}

func (s *commentService) GetUserComments(authorID uint, page, limit int) ([]model.Comment, util.Pagination, error) {
	page, limit = util.NormalizePage(page, limit)
	comments, total, err := s.commentRepo.FindByAuthor(authorID, page, limit)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return comments, util.NewPagination(page, limit, total), nil
}

func (s *commentService) GetUserLikedComments(userID uint, page, limit int) ([]model.Comment, util.Pagination, error) {
	page, limit = util.NormalizePage(page, limit)
	comments, total, err := s.commentRepo.FindLikedBy(userID, page, limit)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return comments, util.NewPagination(page, limit, total), nil
}

func (s *commentService) GetLatest(limit int) ([]model.Comment, error) {
	if limit <= 0 || limit > util.MaxLimit {
		limit = defaultPopularLimit
	}
	return s.commentRepo.FindLatest(limit)
}

func (s *commentService) GetStats(postID uint) (*model.CommentStats, error) {
	if _, err := s.postRepo.FindByID(postID); err != nil {
		return nil, postNotFound(err)
	}
	return s.commentRepo.Stats(postID)
}
