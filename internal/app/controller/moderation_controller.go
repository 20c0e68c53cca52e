package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/internal/middleware"
	ws "github.com/ikkim/wallhub-backend/internal/websocket"
)

// ModerationController 관리자용 실시간 신고 피드
type ModerationController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewModerationController allowedOrigins에 "*"가 있으면 모든 Origin 허용
func NewModerationController(hub *ws.Hub, allowedOrigins []string) *ModerationController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}

	return &ModerationController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// 브라우저가 아닌 클라이언트는 Origin 헤더가 없음
				return origin == "" || origins["*"] || origins[origin]
			},
		},
	}
}

// Feed WebSocket 연결 처리
// GET /api/v1/admin/ws
// 쿼리 파라미터로 토큰을 받지만, 로깅하지 않음 (보안)
func (ctrl *ModerationController) Feed(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	// 미들웨어에서 이미 인증 완료
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, userID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Moderation feed connected", map[string]interface{}{
		"user_id": userID,
	})
}
