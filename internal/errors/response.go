package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse 표준 에러 응답 구조
type ErrorResponse struct {
	Success bool   `json:"success"` // 항상 false
	Error   string `json:"error"`   // 에러 코드 (프론트엔드에서 매핑용)
	Message string `json:"message"` // 사용자에게 보여질 메시지
}

// ValidationErrorResponse 바인딩 실패 시 필드별 사유 포함
type ValidationErrorResponse struct {
	ErrorResponse
	Fields map[string]string `json:"fields,omitempty"`
}

// RespondWithError errorCode는 codes.go 상수
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error:   errorCode,
		Message: message,
	})
}

// RespondWithAppError 서비스 에러를 종류에 맞는 HTTP 상태로 변환
// AppError가 아니면 ParseError로 DB 에러를 분류한 뒤 응답
func RespondWithAppError(c *gin.Context, err error, context string) {
	if appErr, ok := AsAppError(err); ok {
		RespondWithError(c, appErr.Status(), appErr.Code, appErr.Message)
		return
	}

	info := ParseError(err, context)
	status := http.StatusInternalServerError
	switch info.Code {
	case AuthUsernameExists, AuthEmailAlreadyExists, TagNameExists, ReportAlreadyExists, ResourceAlreadyExists, ResourceConflict:
		status = http.StatusConflict
	case ResourceNotFound, WallpaperNotFound, PostNotFound, CommentNotFound, UserNotFound:
		status = http.StatusNotFound
	case ValidationRequired, ValidationInvalidInput, ValidationInvalidRange:
		status = http.StatusBadRequest
	}
	RespondWithError(c, status, info.Code, info.Message)
}

// RespondWithBindError gin 바인딩 에러. validator 에러면 필드별 규칙을 함께 반환
func RespondWithBindError(c *gin.Context, err error, message string) {
	resp := ValidationErrorResponse{
		ErrorResponse: ErrorResponse{
			Success: false,
			Error:   ValidationInvalidInput,
			Message: message,
		},
	}

	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		resp.Fields = make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			resp.Fields[fe.Field()] = rule
		}
	}
	c.JSON(http.StatusBadRequest, resp)
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "로그인이 필요합니다"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}
