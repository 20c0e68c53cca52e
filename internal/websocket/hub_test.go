package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func TestHub_NotifyBroadcastsToAllSessions(t *testing.T) {
	hub := startHub(t)
	first := NewClient(hub, nil, 1)
	second := NewClient(hub, nil, 1)
	hub.Register(first)
	hub.Register(second)
	waitForClients(t, hub, 2)

	hub.Notify(model.ModerationEvent{
		Type:       model.ModerationReportCreated,
		Report:     &model.Report{ID: 9, Reason: model.ReasonSpam},
		OccurredAt: time.Now(),
	})

	for _, client := range []*Client{first, second} {
		select {
		case payload := <-client.Send:
			var event map[string]interface{}
			require.NoError(t, json.Unmarshal(payload, &event))
			assert.Equal(t, "report.created", event["type"])
			report := event["report"].(map[string]interface{})
			assert.Equal(t, float64(9), report["id"])
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t)
	client := NewClient(hub, nil, 2)
	hub.Register(client)
	waitForClients(t, hub, 1)

	hub.Unregister(client)
	waitForClients(t, hub, 0)

	_, open := <-client.Send
	assert.False(t, open)

	// 이미 해제된 세션을 다시 해제해도 안전
	hub.Unregister(client)
}

func TestHub_SlowClientDisconnected(t *testing.T) {
	hub := startHub(t)
	slow := &Client{Hub: hub, UserID: 3, Send: make(chan []byte)}
	hub.Register(slow)
	waitForClients(t, hub, 1)

	hub.Notify(model.ModerationEvent{Type: model.ModerationReportUpdated})
	waitForClients(t, hub, 0)
}
