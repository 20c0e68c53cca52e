package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/wallhub-backend/internal/authz"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/internal/middleware"
	"github.com/ikkim/wallhub-backend/pkg/util"
)

// SuccessResponse 표준 성공 응답 구조
type SuccessResponse struct {
	Success    bool             `json:"success"` // 항상 true
	Message    string           `json:"message,omitempty"`
	Data       interface{}      `json:"data"`
	Pagination *util.Pagination `json:"pagination,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Message: message, Data: data})
}

func respondMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: message, Data: data})
}

func respondList(c *gin.Context, data interface{}, pagination util.Pagination) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data, Pagination: &pagination})
}

// parseID 경로 파라미터를 uint로 변환. 실패하면 400 응답 후 false
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID format", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 ID 형식입니다")
		return 0, false
	}
	return uint(id), true
}

// requireSubject Authenticate 이후에만 호출
func requireSubject(c *gin.Context) (authz.Subject, bool) {
	subject, ok := middleware.GetSubject(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return authz.Subject{}, false
	}
	return subject, true
}

// viewer OptionalAuthenticate 경로에서 비로그인이면 nil
func viewer(c *gin.Context) *authz.Subject {
	subject, ok := middleware.GetSubject(c)
	if !ok {
		return nil
	}
	return &subject
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(util.DefaultLimit)))
	return util.NormalizePage(page, limit)
}

func limitParam(c *gin.Context, def int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		return def
	}
	if limit > util.MaxLimit {
		return util.MaxLimit
	}
	return limit
}

// bindFailed 바인딩 오류 공통 응답
func bindFailed(c *gin.Context, err error, what string) {
	middleware.GetLoggerFromContext(c).Warn("Invalid request", map[string]interface{}{
		"request": what,
		"error":   err.Error(),
	})
	apperrors.RespondWithBindError(c, err, "입력 정보가 올바르지 않습니다")
}

// respondServiceError AppError는 경고, 그 외는 에러로 기록 후 응답
func respondServiceError(c *gin.Context, err error, context string, fields map[string]interface{}) {
	log := middleware.GetLoggerFromContext(c)
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["context"] = context
	if appErr, ok := apperrors.AsAppError(err); ok && appErr.Kind != apperrors.KindInternal {
		fields["code"] = appErr.Code
		log.Warn("Request rejected", fields)
	} else {
		log.Error("Request failed", err, fields)
	}
	apperrors.RespondWithAppError(c, err, context)
}
