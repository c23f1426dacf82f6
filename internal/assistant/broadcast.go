package assistant

import (
	"huddle/internal/model"
	"huddle/internal/realtime"
)

// Events 编排器向会话参与者广播的实时事件
// 广播是尽力而为的：不在线的参与者直接跳过，不产生错误
type Events interface {
	ThinkingStarted(conv *model.Conversation)
	ThinkingStopped(conv *model.Conversation)
	MessageCreated(conv *model.Conversation, msg *model.Message)
}

// HubEvents 基于 WebSocket Hub 的事件广播实现
type HubEvents struct {
	hub *realtime.Hub
}

// NewHubEvents 创建广播器
func NewHubEvents(hub *realtime.Hub) *HubEvents {
	return &HubEvents{hub: hub}
}

// ThinkingStarted 广播"助手思考中"指示
func (e *HubEvents) ThinkingStarted(conv *model.Conversation) {
	e.broadcastThinking(conv, true)
}

// ThinkingStopped 广播思考结束
// 无论调用成败都必须广播，客户端依赖它关闭指示器
func (e *HubEvents) ThinkingStopped(conv *model.Conversation) {
	e.broadcastThinking(conv, false)
}

// MessageCreated 广播新消息（助手回复与人类消息走同一事件类型）
func (e *HubEvents) MessageCreated(conv *model.Conversation, msg *model.Message) {
	ev := realtime.NewEvent(realtime.EventMessageCreated, msg)
	e.hub.NotifyParticipants(conv.ParticipantIDs, ev)
}

func (e *HubEvents) broadcastThinking(conv *model.Conversation, thinking bool) {
	ev := realtime.NewEvent(realtime.EventAssistantThinking, model.ThinkingEvent{
		ConversationID: conv.ID,
		IsThinking:     thinking,
	})
	e.hub.NotifyParticipants(conv.ParticipantIDs, ev)
}
