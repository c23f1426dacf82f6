package assistant

import (
	"context"
	"fmt"
	"time"

	"huddle/internal/config"
	"huddle/internal/model"
)

// 上下文聚合的只读数据接口
// 列表方法均按时间倒序返回（最新在前），聚合器负责截断与重排
type (
	// ProjectReader 项目读取
	ProjectReader interface {
		FindByID(ctx context.Context, id string) (*model.Project, error)
		ListByMember(ctx context.Context, userID string) ([]*model.Project, error)
	}

	// TaskReader 任务读取
	TaskReader interface {
		ListByProject(ctx context.Context, projectID string, limit int64) ([]*model.Task, error)
	}

	// ActivityReader 活动日志读取
	ActivityReader interface {
		ListRecent(ctx context.Context, projectID string, limit int64) ([]*model.Activity, error)
	}

	// CommentReader 评论读取
	CommentReader interface {
		ListRecentByProject(ctx context.Context, projectID string, limit int64) ([]*model.Comment, error)
	}

	// AttachmentReader 附件元数据读取
	AttachmentReader interface {
		ListRecentByProject(ctx context.Context, projectID string, limit int64) ([]*model.Attachment, error)
	}

	// MessageReader 会话消息读取
	MessageReader interface {
		ListRecent(ctx context.Context, conversationID string, limit int64) ([]*model.Message, error)
	}
)

// Snapshot 一次助手调用的完整上下文快照
type Snapshot struct {
	UserID         string
	Question       string
	Project        *ProjectContext  // 会话未绑定项目时为 nil
	RecentMessages []*model.Message // 按时间正序（最早在前）
	CrossProject   []ProjectSummary // 非跨项目调用时为 nil
	GeneratedAt    time.Time
}

// ProjectContext 单项目的深度上下文
type ProjectContext struct {
	Project      *model.Project
	OpenTasks    []TaskSummary
	UrgentTasks  []TaskSummary
	OverdueTasks []TaskSummary
	Activities   []*model.Activity
	Comments     []*model.Comment
	Attachments  []*model.Attachment
	Analytics    Analytics
}

// TaskSummary 供提示词使用的任务摘要
type TaskSummary struct {
	ID           string
	Title        string
	Status       model.TaskStatus
	Priority     model.TaskPriority
	AssigneeID   string
	DueDate      *time.Time
	CommentCount int
}

// Analytics 从任务数据推导出的项目健康指标
type Analytics struct {
	CompletionsByMember map[string]int // 统计窗口内各成员完成任务数
	CompletedThisWeek   int            // 近 7 天完成数
	CompletedLastWeek   int            // 上一个 7 天完成数
	StuckTasks          []TaskSummary  // 老且长期无更新的未完成任务
	HighDiscussionTasks []TaskSummary  // 评论数达到阈值的任务
}

// ProjectSummary 跨项目视角下单个项目的轻量汇总
type ProjectSummary struct {
	ProjectID       string
	Name            string
	TotalTasks      int
	DoneTasks       int
	UrgentTasks     int
	OverdueTasks    int
	AssignedToUser  int
	CompletionRatio float64
}

// Aggregator 聚合一次调用所需的全部工作区上下文
// 所有列表按配置上限截断，保证快照体积有界
type Aggregator struct {
	projects    ProjectReader
	tasks       TaskReader
	activities  ActivityReader
	comments    CommentReader
	attachments AttachmentReader
	messages    MessageReader
	classifier  CrossProjectClassifier
	cfg         config.AssistantContextConfig
	now         func() time.Time
}

// NewAggregator 创建上下文聚合器
func NewAggregator(
	projects ProjectReader,
	tasks TaskReader,
	activities ActivityReader,
	comments CommentReader,
	attachments AttachmentReader,
	messages MessageReader,
	classifier CrossProjectClassifier,
	cfg config.AssistantContextConfig,
) *Aggregator {
	return &Aggregator{
		projects:    projects,
		tasks:       tasks,
		activities:  activities,
		comments:    comments,
		attachments: attachments,
		messages:    messages,
		classifier:  classifier,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Build 为一次助手调用构建上下文快照
// 跨项目汇总仅在问题带跨项目意图且用户可见项目数 >= 2 时构建
func (a *Aggregator) Build(ctx context.Context, userID, question string, conv *model.Conversation) (*Snapshot, error) {
	snapshot := &Snapshot{
		UserID:      userID,
		Question:    question,
		GeneratedAt: a.now(),
	}

	recent, err := a.messages.ListRecent(ctx, conv.ID, int64(a.cfg.MaxMessages))
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}
	snapshot.RecentMessages = reverseMessages(recent)

	if conv.ProjectID != "" {
		projectCtx, err := a.buildProjectContext(ctx, conv.ProjectID)
		if err != nil {
			return nil, err
		}
		snapshot.Project = projectCtx
	}

	if a.classifier.LooksCrossProject(question) {
		summaries, err := a.buildCrossProject(ctx, userID)
		if err != nil {
			return nil, err
		}
		snapshot.CrossProject = summaries
	}

	return snapshot, nil
}

func (a *Aggregator) buildProjectContext(ctx context.Context, projectID string) (*ProjectContext, error) {
	project, err := a.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("find project %s: %w", projectID, err)
	}

	tasks, err := a.tasks.ListByProject(ctx, projectID, int64(a.cfg.MaxTasks))
	if err != nil {
		return nil, fmt.Errorf("list tasks of %s: %w", projectID, err)
	}

	activities, err := a.activities.ListRecent(ctx, projectID, int64(a.cfg.MaxActivities))
	if err != nil {
		return nil, fmt.Errorf("list activities of %s: %w", projectID, err)
	}

	comments, err := a.comments.ListRecentByProject(ctx, projectID, int64(a.cfg.MaxComments))
	if err != nil {
		return nil, fmt.Errorf("list comments of %s: %w", projectID, err)
	}

	attachments, err := a.attachments.ListRecentByProject(ctx, projectID, int64(a.cfg.MaxAttachments))
	if err != nil {
		return nil, fmt.Errorf("list attachments of %s: %w", projectID, err)
	}

	now := a.now()
	pc := &ProjectContext{
		Project:     project,
		Activities:  activities,
		Comments:    comments,
		Attachments: attachments,
		Analytics:   a.analyze(tasks, now),
	}

	for _, t := range tasks {
		summary := summarize(t)
		if t.Open() {
			pc.OpenTasks = append(pc.OpenTasks, summary)
			if t.Priority == model.TaskPriorityUrgent {
				pc.UrgentTasks = append(pc.UrgentTasks, summary)
			}
		}
		if t.Overdue(now) {
			pc.OverdueTasks = append(pc.OverdueTasks, summary)
		}
	}
	return pc, nil
}

// analyze 从任务集合推导健康指标
func (a *Aggregator) analyze(tasks []*model.Task, now time.Time) Analytics {
	analytics := Analytics{
		CompletionsByMember: make(map[string]int),
	}

	completionWindow := now.AddDate(0, 0, -a.cfg.CompletionWindowDays)
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)
	stuckBefore := now.AddDate(0, 0, -a.cfg.StuckAgeDays)
	idleBefore := now.AddDate(0, 0, -a.cfg.StuckIdleDays)

	for _, t := range tasks {
		if t.CompletedAt != nil {
			if t.CompletedAt.After(completionWindow) {
				member := t.CompletedBy
				if member == "" {
					member = t.AssigneeID
				}
				if member != "" {
					analytics.CompletionsByMember[member]++
				}
			}
			switch {
			case t.CompletedAt.After(weekAgo):
				analytics.CompletedThisWeek++
			case t.CompletedAt.After(twoWeeksAgo):
				analytics.CompletedLastWeek++
			}
		}

		if t.Open() && t.CreatedAt.Before(stuckBefore) && t.UpdatedAt.Before(idleBefore) {
			analytics.StuckTasks = append(analytics.StuckTasks, summarize(t))
		}
		if t.CommentCount >= a.cfg.DiscussionThreshold {
			analytics.HighDiscussionTasks = append(analytics.HighDiscussionTasks, summarize(t))
		}
	}
	return analytics
}

// buildCrossProject 构建用户可见项目的轻量汇总
// 可见项目不足两个时返回 nil，此时跨项目视角没有意义
func (a *Aggregator) buildCrossProject(ctx context.Context, userID string) ([]ProjectSummary, error) {
	projects, err := a.projects.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects of %s: %w", userID, err)
	}
	if len(projects) < 2 {
		return nil, nil
	}

	now := a.now()
	summaries := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		tasks, err := a.tasks.ListByProject(ctx, p.ID, int64(a.cfg.MaxTasks))
		if err != nil {
			return nil, fmt.Errorf("list tasks of %s: %w", p.ID, err)
		}

		summary := ProjectSummary{ProjectID: p.ID, Name: p.Name, TotalTasks: len(tasks)}
		for _, t := range tasks {
			if !t.Open() {
				summary.DoneTasks++
			}
			if t.Open() && t.Priority == model.TaskPriorityUrgent {
				summary.UrgentTasks++
			}
			if t.Overdue(now) {
				summary.OverdueTasks++
			}
			if t.Open() && t.AssigneeID == userID {
				summary.AssignedToUser++
			}
		}
		if summary.TotalTasks > 0 {
			summary.CompletionRatio = float64(summary.DoneTasks) / float64(summary.TotalTasks)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func summarize(t *model.Task) TaskSummary {
	return TaskSummary{
		ID:           t.ID,
		Title:        t.Title,
		Status:       t.Status,
		Priority:     t.Priority,
		AssigneeID:   t.AssigneeID,
		DueDate:      t.DueDate,
		CommentCount: t.CommentCount,
	}
}

// reverseMessages 把最新在前的列表翻转为时间正序
func reverseMessages(in []*model.Message) []*model.Message {
	out := make([]*model.Message, len(in))
	for i, m := range in {
		out[len(in)-1-i] = m
	}
	return out
}
