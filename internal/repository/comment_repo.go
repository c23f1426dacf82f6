package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"huddle/internal/model"
)

// CommentRepo 评论仓库
type CommentRepo struct {
	collection *mongo.Collection
}

// NewCommentRepo 创建评论仓库
func NewCommentRepo(db *mongo.Database) *CommentRepo {
	return &CommentRepo{
		collection: db.Collection("comments"),
	}
}

// Create 创建评论
func (r *CommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// ListRecentByProject 查询项目下最近的任务评论（时间倒序）
func (r *CommentRepo) ListRecentByProject(ctx context.Context, projectID string, limit int64) ([]*model.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []*model.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}

	return comments, nil
}
