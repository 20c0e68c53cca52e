package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/service"
	"github.com/ikkim/wallhub-backend/internal/middleware"
	"github.com/ikkim/wallhub-backend/pkg/util"
)

type PostController struct {
	postService    service.PostService
	commentService service.CommentService
}

func NewPostController(postService service.PostService, commentService service.CommentService) *PostController {
	return &PostController{
		postService:    postService,
		commentService: commentService,
	}
}

// ListPosts 게시글 목록
// GET /api/v1/posts
// Query params:
//   - category, search, author_id, tags (CSV)
//   - sort_by: created_at, updated_at, view_count, like_count, comment_count, popular
//   - sort_order: asc, desc (기본 desc)
func (ctrl *PostController) ListPosts(c *gin.Context) {
	var query model.PostListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, err, "list posts")
		return
	}

	posts, pagination, err := ctrl.postService.List(query)
	if err != nil {
		respondServiceError(c, err, "list posts", nil)
		return
	}
	respondList(c, posts, pagination)
}

// GetPopularPosts GET /api/v1/posts/popular
func (ctrl *PostController) GetPopularPosts(c *gin.Context) {
	posts, err := ctrl.postService.GetPopular(limitParam(c, 10))
	if err != nil {
		respondServiceError(c, err, "popular posts", nil)
		return
	}
	respondOK(c, posts)
}

// GetLatestPosts GET /api/v1/posts/latest
func (ctrl *PostController) GetLatestPosts(c *gin.Context) {
	posts, err := ctrl.postService.GetLatest(limitParam(c, 10))
	if err != nil {
		respondServiceError(c, err, "latest posts", nil)
		return
	}
	respondOK(c, posts)
}

// GetPost 조회수 증가 포함
// GET /api/v1/posts/:id
func (ctrl *PostController) GetPost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	post, err := ctrl.postService.GetByID(id, viewer(c))
	if err != nil {
		respondServiceError(c, err, "get post", map[string]interface{}{"post_id": id})
		return
	}
	respondOK(c, post)
}

// CreatePost POST /api/v1/posts
func (ctrl *PostController) CreatePost(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "create post")
		return
	}

	post, err := ctrl.postService.Create(userID, req)
	if err != nil {
		respondServiceError(c, err, "create post", map[string]interface{}{"user_id": userID})
		return
	}

	middleware.GetLoggerFromContext(c).Info("Post created", map[string]interface{}{
		"post_id": post.ID,
		"user_id": userID,
	})
	respondCreated(c, "게시글이 작성되었습니다", post)
}

// UpdatePost 작성자만 가능
// PUT /api/v1/posts/:id
func (ctrl *PostController) UpdatePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	var req model.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "update post")
		return
	}

	post, err := ctrl.postService.Update(subject, id, req)
	if err != nil {
		respondServiceError(c, err, "update post", map[string]interface{}{"post_id": id})
		return
	}
	respondMessage(c, "게시글이 수정되었습니다", post)
}

// DeletePost 작성자 또는 관리자
// DELETE /api/v1/posts/:id
func (ctrl *PostController) DeletePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	if err := ctrl.postService.Delete(subject, id); err != nil {
		respondServiceError(c, err, "delete post", map[string]interface{}{"post_id": id})
		return
	}

	middleware.GetLoggerFromContext(c).Info("Post deleted", map[string]interface{}{
		"post_id": id,
		"user_id": subject.UserID,
	})
	respondMessage(c, "게시글이 삭제되었습니다", nil)
}

// LikePost POST /api/v1/posts/:id/like
func (ctrl *PostController) LikePost(c *gin.Context) {
	ctrl.like(c, ctrl.postService.Like, "like post")
}

// UnlikePost DELETE /api/v1/posts/:id/like
func (ctrl *PostController) UnlikePost(c *gin.Context) {
	ctrl.like(c, ctrl.postService.Unlike, "unlike post")
}

func (ctrl *PostController) like(c *gin.Context, fn interactionFunc, action string) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	state, err := fn(userID, id)
	if err != nil {
		respondServiceError(c, err, action, map[string]interface{}{
			"post_id": id,
			"user_id": userID,
		})
		return
	}
	respondOK(c, state)
}

// ListPostComments 게시글 댓글 목록. parent_id 없으면 최상위 댓글
// GET /api/v1/posts/:id/comments
func (ctrl *PostController) ListPostComments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var query model.CommentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, err, "list comments")
		return
	}
	query.PostID = id
	query.Page, query.Limit = util.NormalizePage(query.Page, query.Limit)

	comments, pagination, err := ctrl.commentService.List(query)
	if err != nil {
		respondServiceError(c, err, "list comments", map[string]interface{}{"post_id": id})
		return
	}
	respondList(c, comments, pagination)
}

// GetCommentStats GET /api/v1/posts/:id/comments/stats
func (ctrl *PostController) GetCommentStats(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	stats, err := ctrl.commentService.GetStats(id)
	if err != nil {
		respondServiceError(c, err, "comment stats", map[string]interface{}{"post_id": id})
		return
	}
	respondOK(c, stats)
}
