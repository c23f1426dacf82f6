package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"huddle/internal/model"
)

// AttachmentRepo 附件元数据仓库
type AttachmentRepo struct {
	collection *mongo.Collection
}

// NewAttachmentRepo 创建附件元数据仓库
func NewAttachmentRepo(db *mongo.Database) *AttachmentRepo {
	return &AttachmentRepo{
		collection: db.Collection("attachments"),
	}
}

// Create 登记附件元数据
func (r *AttachmentRepo) Create(ctx context.Context, attachment *model.Attachment) error {
	if attachment.CreatedAt.IsZero() {
		attachment.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, attachment)
	return err
}

// ListRecentByProject 查询项目最近触达任务的附件元数据（时间倒序）
func (r *AttachmentRepo) ListRecentByProject(ctx context.Context, projectID string, limit int64) ([]*model.Attachment, error) {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var attachments []*model.Attachment
	if err := cursor.All(ctx, &attachments); err != nil {
		return nil, err
	}

	return attachments, nil
}
