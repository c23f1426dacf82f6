package model

import "time"

// Activity 项目活动日志（谁在什么时候对什么做了什么）
type Activity struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	ProjectID  string    `bson:"project_id" json:"project_id"`
	ActorID    string    `bson:"actor_id" json:"actor_id"`
	Action     string    `bson:"action" json:"action"` // created/updated/completed/commented/...
	TargetType string    `bson:"target_type" json:"target_type"`
	TargetID   string    `bson:"target_id" json:"target_id"`
	Detail     string    `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
