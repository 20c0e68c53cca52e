package controller

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/wallhub-backend/internal/app/service"
	"github.com/ikkim/wallhub-backend/internal/middleware"
)

type UploadController struct {
	uploadService service.UploadService
}

func NewUploadController(uploadService service.UploadService) *UploadController {
	return &UploadController{uploadService: uploadService}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// GeneratePresignedURL 클라이언트가 S3에 직접 업로드할 URL 발급
// POST /api/v1/uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "presigned url")
		return
	}

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))

	response, err := ctrl.uploadService.Presign(c.Request.Context(), req.Filename, contentType)
	if err != nil {
		respondServiceError(c, err, "presign upload", map[string]interface{}{
			"filename": req.Filename,
		})
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"filename": req.Filename,
		"key":      response.Key,
	})
	respondOK(c, response)
}
