package model

import "time"

// AssistantSenderID 助手的保留发送者标识
// 助手消息与人类消息共用同一套 sender 语义，下游按普通消息处理
const AssistantSenderID = "assistant"

// Message 消息实体
type Message struct {
	ID             string              `bson:"_id,omitempty" json:"id"`
	ConversationID string              `bson:"conversation_id" json:"conversation_id"`
	SenderID       string              `bson:"sender_id" json:"sender_id"`
	Body           string              `bson:"body" json:"body"`
	ParentID       string              `bson:"parent_id,omitempty" json:"parent_id,omitempty"` // 回复目标，必须属于同一会话
	Attachments    []MessageAttachment `bson:"attachments,omitempty" json:"attachments,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	EditedAt       *time.Time          `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
	DeletedAt      *time.Time          `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"` // 软删除标记
}

// MessageAttachment 消息内附件元数据
type MessageAttachment struct {
	Name        string `bson:"name" json:"name"`
	ContentType string `bson:"content_type" json:"content_type"`
	Size        int64  `bson:"size" json:"size"`
}

// FromAssistant 是否为助手发出的消息
func (m *Message) FromAssistant() bool {
	return m.SenderID == AssistantSenderID
}

// Deleted 是否已被软删除
func (m *Message) Deleted() bool {
	return m.DeletedAt != nil
}
