package model

import "time"

// Attachment 附件元数据
// 文件内容由外部存储服务持有，这里只保留名称/类型/大小
type Attachment struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	ProjectID   string    `bson:"project_id" json:"project_id"`
	TaskID      string    `bson:"task_id,omitempty" json:"task_id,omitempty"`
	Name        string    `bson:"name" json:"name"`
	ContentType string    `bson:"content_type" json:"content_type"`
	Size        int64     `bson:"size" json:"size"`
	UploaderID  string    `bson:"uploader_id" json:"uploader_id"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
