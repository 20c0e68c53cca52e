package websocket

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/ikkim/wallhub-backend/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10 // pongWait보다 짧아야 함

	// 피드는 서버→클라이언트 단방향이라 수신 메시지는 작게 제한
	maxMessageSize = 4 * 1024
)

// Conn gorilla 연결에 데드라인 처리를 묶은 래퍼
type Conn struct {
	*websocket.Conn
}

func (c *Conn) writeFrame(messageType int, data []byte) error {
	c.SetWriteDeadline(time.Now().Add(writeWait))
	return c.WriteMessage(messageType, data)
}

func (c *Conn) keepAlive() {
	c.SetReadLimit(maxMessageSize)
	c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})
}

// ReadPump 연결 종료 감지용. 관리자 화면이 보내는 메시지는 버림
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.keepAlive()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Moderation feed closed unexpectedly", map[string]interface{}{
					"user_id": c.UserID,
					"error":   err.Error(),
				})
			}
			return
		}
	}
}

// WritePump 신고 이벤트 전송과 주기적 ping
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			if !ok {
				// Hub가 세션을 정리함
				c.Conn.writeFrame(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.writeFrame(websocket.TextMessage, event); err != nil {
				logger.Error("Failed to push moderation event", err, map[string]interface{}{
					"user_id": c.UserID,
				})
				return
			}
		case <-ticker.C:
			if err := c.Conn.writeFrame(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
