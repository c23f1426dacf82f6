package model

import "time"

// ConversationType 会话类型
type ConversationType string

const (
	ConversationTypeDirect ConversationType = "direct"
	ConversationTypeGroup  ConversationType = "group"
)

// Conversation 会话实体
// 项目会话在项目首次达到 2 名成员时按需创建，project_id 唯一，之后复用
type Conversation struct {
	ID             string           `bson:"_id,omitempty" json:"id"`
	ProjectID      string           `bson:"project_id,omitempty" json:"project_id,omitempty"`
	Type           ConversationType `bson:"type" json:"type"`
	Name           string           `bson:"name,omitempty" json:"name,omitempty"`
	ParticipantIDs []string         `bson:"participant_ids" json:"participant_ids"`
	CreatedAt      time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `bson:"updated_at" json:"updated_at"`
}

// HasParticipant 判断用户是否为会话成员
func (c *Conversation) HasParticipant(userID string) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}
