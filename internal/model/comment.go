package model

import "time"

// Comment 任务评论
type Comment struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	ProjectID string    `bson:"project_id" json:"project_id"`
	TaskID    string    `bson:"task_id" json:"task_id"`
	AuthorID  string    `bson:"author_id" json:"author_id"`
	Body      string    `bson:"body" json:"body"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
