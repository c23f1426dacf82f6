package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"huddle/internal/model"
)

// ActivityRepo 活动日志仓库
type ActivityRepo struct {
	collection *mongo.Collection
}

// NewActivityRepo 创建活动日志仓库
func NewActivityRepo(db *mongo.Database) *ActivityRepo {
	return &ActivityRepo{
		collection: db.Collection("activities"),
	}
}

// Create 追加一条活动记录
func (r *ActivityRepo) Create(ctx context.Context, activity *model.Activity) error {
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, activity)
	return err
}

// ListRecent 查询项目最近的活动（时间倒序）
func (r *ActivityRepo) ListRecent(ctx context.Context, projectID string, limit int64) ([]*model.Activity, error) {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []*model.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}

	return activities, nil
}
