package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes 创建所有集合的索引
// 应用启动时调用一次，重复调用是幂等的
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	// users 集合索引
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "username", Value: 1}},
			Options: options.Index().SetName("idx_username").SetUnique(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_email").SetUnique(true),
		},
	}
	if err := createIndexes(ctx, db.Collection("users"), userIndexes); err != nil {
		return err
	}

	// projects 集合索引
	projectIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "member_ids", Value: 1}},
			Options: options.Index().SetName("idx_members"),
		},
	}
	if err := createIndexes(ctx, db.Collection("projects"), projectIndexes); err != nil {
		return err
	}

	// tasks 集合索引
	taskIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "project_id", Value: 1}, bson.E{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_project_status"),
		},
		{
			Keys:    bson.D{bson.E{Key: "project_id", Value: 1}, bson.E{Key: "completed_at", Value: -1}},
			Options: options.Index().SetName("idx_project_completed"),
		},
	}
	if err := createIndexes(ctx, db.Collection("tasks"), taskIndexes); err != nil {
		return err
	}

	// activities / comments / attachments：都按项目+时间倒序读取
	recentByProject := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "project_id", Value: 1}, bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_project_created"),
		},
	}
	for _, name := range []string{"activities", "comments", "attachments"} {
		if err := createIndexes(ctx, db.Collection(name), recentByProject); err != nil {
			return err
		}
	}

	// conversations 集合索引
	// project_id 唯一稀疏索引保证"按项目取或建"的幂等性
	convIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_project").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{bson.E{Key: "participant_ids", Value: 1}, bson.E{Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("idx_participant_updated"),
		},
	}
	if err := createIndexes(ctx, db.Collection("conversations"), convIndexes); err != nil {
		return err
	}

	// messages 集合索引
	msgIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "conversation_id", Value: 1}, bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_conversation_created"),
		},
	}
	return createIndexes(ctx, db.Collection("messages"), msgIndexes)
}

// createIndexes 辅助函数：创建索引
func createIndexes(ctx context.Context, coll *mongo.Collection, indexes []mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
