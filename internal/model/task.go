package model

import "time"

// TaskStatus 任务状态
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskPriority 任务优先级
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// IsValid 检查优先级是否有效
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Task 任务实体
type Task struct {
	ID           string       `bson:"_id,omitempty" json:"id"`
	ProjectID    string       `bson:"project_id" json:"project_id"`
	Title        string       `bson:"title" json:"title"`
	Description  string       `bson:"description,omitempty" json:"description,omitempty"`
	Status       TaskStatus   `bson:"status" json:"status"`
	Priority     TaskPriority `bson:"priority" json:"priority"`
	AssigneeID   string       `bson:"assignee_id,omitempty" json:"assignee_id,omitempty"`
	Labels       []string     `bson:"labels,omitempty" json:"labels,omitempty"`
	DueDate      *time.Time   `bson:"due_date,omitempty" json:"due_date,omitempty"`
	CompletedAt  *time.Time   `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CompletedBy  string       `bson:"completed_by,omitempty" json:"completed_by,omitempty"`
	CommentCount int          `bson:"comment_count" json:"comment_count"`
	CreatedAt    time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `bson:"updated_at" json:"updated_at"`
}

// Open 任务是否仍未完成
func (t *Task) Open() bool {
	return t.Status != TaskStatusDone
}

// Overdue 任务是否已过期（有截止时间、未完成且已过期）
func (t *Task) Overdue(now time.Time) bool {
	return t.Open() && t.DueDate != nil && t.DueDate.Before(now)
}
