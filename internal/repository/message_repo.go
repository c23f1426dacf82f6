package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"huddle/internal/model"
)

// MessageRepo 消息仓库
type MessageRepo struct {
	collection *mongo.Collection
}

// NewMessageRepo 创建消息仓库
func NewMessageRepo(db *mongo.Database) *MessageRepo {
	return &MessageRepo{
		collection: db.Collection("messages"),
	}
}

// Create 创建消息
func (r *MessageRepo) Create(ctx context.Context, msg *model.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, msg)
	return err
}

// FindByID 根据ID查询消息
func (r *MessageRepo) FindByID(ctx context.Context, id string) (*model.Message, error) {
	var msg model.Message
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListRecent 查询会话最近的消息（时间倒序，排除软删除）
func (r *MessageRepo) ListRecent(ctx context.Context, conversationID string, limit int64) ([]*model.Message, error) {
	filter := bson.M{
		"conversation_id": conversationID,
		"deleted_at":      bson.M{"$exists": false},
	}
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var msgs []*model.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}

	return msgs, nil
}

// UpdateBody 编辑消息正文并打上编辑时间
func (r *MessageRepo) UpdateBody(ctx context.Context, id, body string) error {
	update := bson.M{
		"$set": bson.M{
			"body":      body,
			"edited_at": time.Now(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// SoftDelete 软删除消息
func (r *MessageRepo) SoftDelete(ctx context.Context, id string) error {
	update := bson.M{
		"$set": bson.M{"deleted_at": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
