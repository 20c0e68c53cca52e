package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/service"
	"github.com/ikkim/wallhub-backend/internal/middleware"
)

type CommentController struct {
	commentService service.CommentService
}

func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// CreateComment 댓글 또는 답글 작성
// POST /api/v1/comments
func (ctrl *CommentController) CreateComment(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "create comment")
		return
	}

	comment, err := ctrl.commentService.Create(userID, req)
	if err != nil {
		respondServiceError(c, err, "create comment", map[string]interface{}{
			"post_id": req.PostID,
			"user_id": userID,
		})
		return
	}

	middleware.GetLoggerFromContext(c).Info("Comment created", map[string]interface{}{
		"comment_id": comment.ID,
		"post_id":    comment.PostID,
	})
	respondCreated(c, "댓글이 작성되었습니다", comment)
}

// GetLatestComments GET /api/v1/comments/latest
func (ctrl *CommentController) GetLatestComments(c *gin.Context) {
	comments, err := ctrl.commentService.GetLatest(limitParam(c, 10))
	if err != nil {
		respondServiceError(c, err, "latest comments", nil)
		return
	}
	respondOK(c, comments)
}

// GetComment 로그인 상태면 좋아요 여부 포함
// GET /api/v1/comments/:id
func (ctrl *CommentController) GetComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	comment, err := ctrl.commentService.GetByID(id)
	if err != nil {
		respondServiceError(c, err, "get comment", map[string]interface{}{"comment_id": id})
		return
	}

	isLiked := false
	if userID, ok := middleware.GetUserID(c); ok {
		if isLiked, err = ctrl.commentService.IsLikedByUser(userID, id); err != nil {
			respondServiceError(c, err, "comment like state", map[string]interface{}{"comment_id": id})
			return
		}
	}

	respondOK(c, gin.H{
		"comment":  comment,
		"is_liked": isLiked,
	})
}

// UpdateComment 작성자만 가능
// PUT /api/v1/comments/:id
func (ctrl *CommentController) UpdateComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	var req model.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "update comment")
		return
	}

	comment, err := ctrl.commentService.Update(subject, id, req.Content)
	if err != nil {
		respondServiceError(c, err, "update comment", map[string]interface{}{"comment_id": id})
		return
	}
	respondMessage(c, "댓글이 수정되었습니다", comment)
}

// DeleteComment 답글까지 함께 삭제
// DELETE /api/v1/comments/:id
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	removed, err := ctrl.commentService.Delete(subject, id)
	if err != nil {
		respondServiceError(c, err, "delete comment", map[string]interface{}{"comment_id": id})
		return
	}

	middleware.GetLoggerFromContext(c).Info("Comment deleted", map[string]interface{}{
		"comment_id": id,
		"removed":    removed,
	})
	respondMessage(c, "댓글이 삭제되었습니다", gin.H{"removed": removed})
}

// ToggleLike POST /api/v1/comments/:id/like
func (ctrl *CommentController) ToggleLike(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	result, err := ctrl.commentService.ToggleLike(userID, id)
	if err != nil {
		respondServiceError(c, err, "toggle comment like", map[string]interface{}{
			"comment_id": id,
			"user_id":    userID,
		})
		return
	}
	respondOK(c, result)
}
