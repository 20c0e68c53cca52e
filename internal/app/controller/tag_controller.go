package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/app/service"
	"github.com/ikkim/wallhub-backend/internal/middleware"
)

type TagController struct {
	tagService service.TagService
}

func NewTagController(tagService service.TagService) *TagController {
	return &TagController{tagService: tagService}
}

// ListTags 태그 검색
// GET /api/v1/tags
// Query params:
//   - keyword: 이름 부분 일치 (optional)
//   - sort_by: usage_count, name, created_at
func (ctrl *TagController) ListTags(c *gin.Context) {
	var query model.TagListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(c, err, "list tags")
		return
	}

	tags, pagination, err := ctrl.tagService.SearchTags(query)
	if err != nil {
		respondServiceError(c, err, "list tags", map[string]interface{}{
			"keyword": query.Keyword,
		})
		return
	}

	respondList(c, tags, pagination)
}

// GetPopularTags GET /api/v1/tags/popular
func (ctrl *TagController) GetPopularTags(c *gin.Context) {
	tags, err := ctrl.tagService.GetPopularTags(limitParam(c, 20))
	if err != nil {
		respondServiceError(c, err, "popular tags", nil)
		return
	}
	respondOK(c, tags)
}

// GetTag GET /api/v1/tags/:id
func (ctrl *TagController) GetTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tag, err := ctrl.tagService.GetTagByID(id)
	if err != nil {
		respondServiceError(c, err, "get tag", map[string]interface{}{"tag_id": id})
		return
	}
	respondOK(c, tag)
}

// CreateTag POST /api/v1/admin/tags
func (ctrl *TagController) CreateTag(c *gin.Context) {
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	var req model.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "create tag")
		return
	}

	tag, err := ctrl.tagService.CreateTag(subject, req.Name)
	if err != nil {
		respondServiceError(c, err, "create tag", map[string]interface{}{"name": req.Name})
		return
	}

	middleware.GetLoggerFromContext(c).Info("Tag created", map[string]interface{}{
		"tag_id": tag.ID,
		"slug":   tag.Slug,
	})
	respondCreated(c, "태그가 생성되었습니다", tag)
}

// UpdateTag PUT /api/v1/admin/tags/:id
func (ctrl *TagController) UpdateTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	var req model.UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "update tag")
		return
	}

	tag, err := ctrl.tagService.UpdateTag(subject, id, req.Name)
	if err != nil {
		respondServiceError(c, err, "update tag", map[string]interface{}{"tag_id": id})
		return
	}
	respondMessage(c, "태그가 수정되었습니다", tag)
}

// DeleteTag DELETE /api/v1/admin/tags/:id
func (ctrl *TagController) DeleteTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	subject, ok := requireSubject(c)
	if !ok {
		return
	}

	if err := ctrl.tagService.DeleteTag(subject, id); err != nil {
		respondServiceError(c, err, "delete tag", map[string]interface{}{"tag_id": id})
		return
	}

	middleware.GetLoggerFromContext(c).Info("Tag deleted", map[string]interface{}{
		"tag_id": id,
	})
	respondMessage(c, "태그가 삭제되었습니다", nil)
}
