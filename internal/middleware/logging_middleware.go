package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/wallhub-backend/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
	LoggerKey       = "logger"
)

// quietPaths 수집기/헬스체크 요청은 접근 로그에서 제외
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// LoggingMiddleware 요청 ID를 붙인 요청 단위 로거를 컨텍스트에 저장하고 완료 시 접근 로그 기록
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// 프록시나 클라이언트가 준 ID를 이어 씀
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		reqLog := logger.WithContext(map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"ip":         c.ClientIP(),
		})
		c.Set(LoggerKey, reqLog)

		c.Next()

		if quietPaths[c.Request.URL.Path] {
			return
		}

		status := c.Writer.Status()
		fields := map[string]interface{}{
			"route":       c.FullPath(),
			"status_code": status,
			"latency_ms":  time.Since(start).Milliseconds(),
			"body_size":   c.Writer.Size(),
			"user_agent":  c.Request.UserAgent(),
		}
		if userID, ok := GetUserID(c); ok {
			fields["user_id"] = userID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case status >= 500:
			reqLog.Error("Request failed", nil, fields)
		case status >= 400:
			reqLog.Warn("Request rejected", fields)
		default:
			reqLog.Info("Request completed", fields)
		}
	}
}

// GetLoggerFromContext 요청 로거. 미들웨어 밖(테스트 등)에서는 전역 로거
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if v, ok := c.Get(LoggerKey); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return logger.Get()
}
