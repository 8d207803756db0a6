package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHub() *Hub {
	return NewHub(zap.NewNop())
}

func addTestClient(h *Hub) *Client {
	c := NewClient(h, nil)
	h.registerClient(c)
	// 丢弃连接成功消息
	<-c.Send
	return c
}

// TestHubRegisterUnregister 测试客户端注册与注销
func TestHubRegisterUnregister(t *testing.T) {
	h := newTestHub()
	c := addTestClient(h)

	assert.Equal(t, 1, h.GetOnlineCount())

	h.unregisterClient(c)
	assert.Equal(t, 0, h.GetOnlineCount())

	// 重复注销不应panic
	h.unregisterClient(c)
	assert.Equal(t, 0, h.GetOnlineCount())
}

// TestHubBroadcastDeviceEvent 测试设备事件广播
func TestHubBroadcastDeviceEvent(t *testing.T) {
	h := newTestHub()
	c := addTestClient(h)

	h.broadcastMessage(&Message{
		Type:      MessageTypeDeviceEvent,
		Kind:      "voltage",
		Data:      json.RawMessage(`{"kind":"voltage","values":[4800]}`),
		Timestamp: 1000,
	})

	var msg Message
	require.NoError(t, json.Unmarshal(<-c.Send, &msg))
	assert.Equal(t, MessageTypeDeviceEvent, msg.Type)
	assert.Equal(t, "voltage", msg.Kind)
}

// TestHubSubscriptionFilter 测试订阅过滤
func TestHubSubscriptionFilter(t *testing.T) {
	h := newTestHub()
	c := addTestClient(h)

	// 仅订阅click事件
	c.subsMu.Lock()
	c.subs["click"] = true
	c.subsMu.Unlock()

	h.broadcastMessage(&Message{Type: MessageTypeDeviceEvent, Kind: "voltage"})
	assert.Empty(t, c.Send, "未订阅的事件类型不应投递")

	h.broadcastMessage(&Message{Type: MessageTypeDeviceEvent, Kind: "click"})
	require.Len(t, c.Send, 1)

	// 非设备事件消息不受订阅限制
	<-c.Send
	h.broadcastMessage(&Message{Type: MessageTypeRecordingStatus})
	assert.Len(t, c.Send, 1)
}

// TestHubSendToClient 测试定向发送
func TestHubSendToClient(t *testing.T) {
	h := newTestHub()
	c := addTestClient(h)

	err := h.SendToClient(c.ID, &Message{Type: MessageTypePing})
	assert.NoError(t, err)

	err = h.SendToClient("不存在的ID", &Message{Type: MessageTypePing})
	assert.ErrorIs(t, err, ErrClientNotFound)
}
