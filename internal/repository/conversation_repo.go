package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"huddle/internal/model"
)

// ConversationRepo 会话仓库
type ConversationRepo struct {
	collection *mongo.Collection
}

// NewConversationRepo 创建会话仓库
func NewConversationRepo(db *mongo.Database) *ConversationRepo {
	return &ConversationRepo{
		collection: db.Collection("conversations"),
	}
}

// Create 创建会话
func (r *ConversationRepo) Create(ctx context.Context, conv *model.Conversation) error {
	now := time.Now()
	conv.CreatedAt = now
	conv.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, conv)
	return err
}

// FindByID 根据ID查询会话
func (r *ConversationRepo) FindByID(ctx context.Context, id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&conv)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetOrCreateByProject 按项目取或建会话
// 依赖 project_id 的唯一稀疏索引保证幂等：并发 upsert 只会落下一条
func (r *ConversationRepo) GetOrCreateByProject(ctx context.Context, conv *model.Conversation) (*model.Conversation, error) {
	now := time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":            conv.Name,
			"participant_ids": conv.ParticipantIDs,
			"updated_at":      now,
		},
		"$setOnInsert": bson.M{
			"_id":        conv.ID,
			"type":       conv.Type,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result model.Conversation
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"project_id": conv.ProjectID}, update, opts).Decode(&result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByParticipant 查询用户参与的会话列表
func (r *ConversationRepo) ListByParticipant(ctx context.Context, userID string, limit, offset int64) ([]*model.Conversation, error) {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "updated_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"participant_ids": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var convs []*model.Conversation
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, err
	}

	return convs, nil
}

// Touch 更新会话活跃时间
func (r *ConversationRepo) Touch(ctx context.Context, id string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"updated_at": time.Now()}})
	return err
}
