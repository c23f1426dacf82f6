package realtime

import (
	"encoding/json"
	"time"
)

// 实时通道事件类型
const (
	EventMessageCreated    = "message.created"
	EventMessageUpdated    = "message.updated"
	EventMessageDeleted    = "message.deleted"
	EventAssistantThinking = "assistant.thinking"
)

// Event 下发到客户端的事件信封
type Event struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent 创建事件
func NewEvent(eventType string, payload any) Event {
	return Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Encode 序列化事件；失败返回 nil（调用方按投递失败处理）
func (e Event) Encode() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}
