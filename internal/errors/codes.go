package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 아이디/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 토큰 폐기됨
	AuthAccountDisabled    = "AUTH_ACCOUNT_DISABLED"    // 비활성화된 계정
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"     // 사용자명 중복
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // 이메일 중복

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 권한 정보 없음
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // 관리자만 가능
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // 작성자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // 잘못된 ID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // 잘못된 형식
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // 범위 초과
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 사용자 (USER_) ====================
	UserNotFound = "USER_NOT_FOUND"

	// ==================== 배경화면 (WALLPAPER_) ====================
	WallpaperNotFound        = "WALLPAPER_NOT_FOUND"
	WallpaperInvalidCategory = "WALLPAPER_INVALID_CATEGORY"

	// ==================== 태그 (TAG_) ====================
	TagNotFound    = "TAG_NOT_FOUND"
	TagInvalidName = "TAG_INVALID_NAME" // 1~50자
	TagNameExists  = "TAG_NAME_EXISTS"
	TagTooMany     = "TAG_TOO_MANY"

	// ==================== 게시글/댓글 (POST_, COMMENT_) ====================
	PostNotFound          = "POST_NOT_FOUND"
	PostInvalidCategory   = "POST_INVALID_CATEGORY"
	CommentNotFound       = "COMMENT_NOT_FOUND"
	CommentParentNotFound = "COMMENT_PARENT_NOT_FOUND"
	CommentParentMismatch = "COMMENT_PARENT_MISMATCH" // 부모 댓글이 다른 게시글에 속함

	// ==================== 신고 (REPORT_) ====================
	ReportNotFound          = "REPORT_NOT_FOUND"
	ReportAlreadyExists     = "REPORT_ALREADY_EXISTS" // 동일 대상 중복 신고
	ReportAlreadyClosed     = "REPORT_ALREADY_CLOSED" // resolved/dismissed 이후 변경 불가
	ReportInvalidTarget     = "REPORT_INVALID_TARGET" // post/comment 외 대상
	ReportInvalidReason     = "REPORT_INVALID_REASON"
	ReportInvalidTransition = "REPORT_INVALID_TRANSITION"

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // 파일 너무 큼
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 요청 제한 (RATE_) ====================
	RateLimited = "RATE_LIMITED"

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
)
