package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"huddle/internal/model"
)

// TaskRepo 任务仓库
type TaskRepo struct {
	collection *mongo.Collection
}

// NewTaskRepo 创建任务仓库
func NewTaskRepo(db *mongo.Database) *TaskRepo {
	return &TaskRepo{
		collection: db.Collection("tasks"),
	}
}

// Create 创建任务
func (r *TaskRepo) Create(ctx context.Context, task *model.Task) error {
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Status == "" {
		task.Status = model.TaskStatusOpen
	}
	if task.Priority == "" {
		task.Priority = model.TaskPriorityMedium
	}

	_, err := r.collection.InsertOne(ctx, task)
	return err
}

// FindByID 根据ID查询任务
func (r *TaskRepo) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject 查询项目全部任务（上下文聚合用，按更新时间倒序截断）
func (r *TaskRepo) ListByProject(ctx context.Context, projectID string, limit int64) ([]*model.Task, error) {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "updated_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []*model.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update 更新任务
func (r *TaskRepo) Update(ctx context.Context, id string, update bson.M) error {
	if setDoc, ok := update["$set"].(bson.M); ok {
		setDoc["updated_at"] = time.Now()
	} else {
		update["$set"] = bson.M{"updated_at": time.Now()}
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
