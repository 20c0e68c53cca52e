package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// 컬럼/엔티티 이름 → 사용자에게 보여줄 이름. 순서대로 매칭
var requiredFields = []struct{ column, label string }{
	{"username", "사용자명"},
	{"password", "비밀번호"},
	{"title", "제목"},
	{"content", "내용"},
	{"name", "이름"},
}

var entityLabels = []struct{ key, label string }{
	{"wallpaper", "배경화면"},
	{"tag", "태그"},
	{"post", "게시글"},
	{"comment", "댓글"},
	{"report", "신고"},
	{"user", "사용자"},
}

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError 에러를 파싱하여 사용자 친화적인 메시지와 코드로 변환
// 보안상 민감한 정보는 숨기되, 사용자가 문제를 해결할 수 있는 정보 제공
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "서버 내부 오류가 발생했습니다",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 0. 서비스 계층에서 정의된 에러
	if appErr, ok := AsAppError(err); ok {
		return ErrorInfo{Code: appErr.Code, Message: appErr.Message}
	}

	// 1. GORM 기본 에러
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(errStr, context)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL / SQLite 에러 파싱

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") || strings.Contains(errStrLower, "unique failed") {
		return parseDuplicateKeyError(errStr, context)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr, context)
	}

	// 2-4. Check constraint violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		return parseCheckConstraintError(errStr, context)
	}

	// 3. 네트워크/연결 에러
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "일시적으로 서비스를 이용할 수 없습니다. 잠시 후 다시 시도해주세요",
		}
	}

	// 4. 기본 내부 서버 오류
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseDuplicateKeyError Unique constraint 위반 에러 파싱
func parseDuplicateKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)
	contextLower := strings.ToLower(context)

	// 사용자명 중복
	if strings.Contains(errLower, "username") || strings.Contains(errLower, "idx_users_username") {
		return ErrorInfo{
			Code:    AuthUsernameExists,
			Message: "이미 사용 중인 사용자명입니다",
		}
	}

	// 이메일 중복
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "이미 등록된 이메일입니다",
		}
	}

	// 태그 이름/slug 중복
	if strings.Contains(errLower, "tags.name") || strings.Contains(errLower, "tags.slug") ||
		strings.Contains(errLower, "idx_tags_") || strings.Contains(contextLower, "tag") {
		return ErrorInfo{
			Code:    TagNameExists,
			Message: "이미 존재하는 태그입니다",
		}
	}

	// 중복 신고
	if strings.Contains(errLower, "idx_report_dedup") || strings.Contains(contextLower, "report") {
		return ErrorInfo{
			Code:    ReportAlreadyExists,
			Message: "이미 신고한 콘텐츠입니다",
		}
	}

	// 기본 중복 메시지
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "이미 존재하는 리소스입니다",
	}
}

// parseForeignKeyError Foreign key constraint 위반 에러 파싱
func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// 삭제 시 참조 중인 데이터가 있는 경우
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "다른 데이터에서 참조 중인 리소스입니다",
		}
	}

	// 존재하지 않는 참조 데이터
	switch {
	case strings.Contains(errLower, "wallpaper_id"):
		return ErrorInfo{Code: WallpaperNotFound, Message: "배경화면을 찾을 수 없습니다"}
	case strings.Contains(errLower, "post_id"):
		return ErrorInfo{Code: PostNotFound, Message: "게시글을 찾을 수 없습니다"}
	case strings.Contains(errLower, "comment_id") || strings.Contains(errLower, "parent_id"):
		return ErrorInfo{Code: CommentNotFound, Message: "댓글을 찾을 수 없습니다"}
	case strings.Contains(errLower, "user_id") || strings.Contains(errLower, "uploader_id") || strings.Contains(errLower, "author_id"):
		return ErrorInfo{Code: UserNotFound, Message: "사용자를 찾을 수 없습니다"}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "참조한 리소스를 찾을 수 없습니다",
	}
}

// parseNotNullError Not null constraint 위반 에러 파싱
func parseNotNullError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	for _, field := range requiredFields {
		if strings.Contains(errLower, field.column) {
			return ErrorInfo{Code: ValidationRequired, Message: field.label + "은(는) 필수 항목입니다"}
		}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "필수 항목이 누락되었습니다",
	}
}

// parseCheckConstraintError Check constraint 위반 에러 파싱
func parseCheckConstraintError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "count") {
		return ErrorInfo{
			Code:    ValidationInvalidRange,
			Message: "카운터는 음수가 될 수 없습니다",
		}
	}

	return ErrorInfo{
		Code:    ValidationInvalidInput,
		Message: "입력 정보가 올바르지 않습니다",
	}
}

// getNotFoundMessage context에 따른 Not Found 메시지
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	for _, entity := range entityLabels {
		if strings.Contains(contextLower, entity.key) {
			return entity.label + "을(를) 찾을 수 없습니다"
		}
	}

	return "요청한 리소스를 찾을 수 없습니다"
}

// getDefaultErrorMessage context에 따른 기본 에러 메시지
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "생성에 실패했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "update"):
		return "수정에 실패했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "delete"):
		return "삭제에 실패했습니다. 잠시 후 다시 시도해주세요"
	}

	return "서버 내부 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
}

// ParseAndRespond 에러를 파싱하여 응답 반환 (헬퍼 함수)
// controller에서 간편하게 사용할 수 있도록
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
