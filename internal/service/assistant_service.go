package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"huddle/internal/assistant"
	"huddle/internal/config"
	"huddle/internal/model"
	"huddle/internal/repository"
)

// 结构化接口的系统提示词
const (
	parseTaskSystem = `You turn a short natural-language request into a task draft.
Reply with a single JSON object only, no markdown, with fields:
"title" (required, short imperative sentence), "description" (optional),
"priority" (optional, one of low/medium/high/urgent),
"due_date" (optional, YYYY-MM-DD), "labels" (optional, array of short strings).
Keep the language of the input.`

	suggestDescriptionSystem = `You write a concise task description (2-4 sentences) for the
given task title. Describe the expected outcome, not the steps. Reply with the
description text only, in the language of the title.`

	suggestPrioritySystem = `You assess the priority of a task. Reply with exactly one word:
low, medium, high or urgent. Nothing else.`

	suggestLabelsSystem = `You suggest labels for organizing tasks of a project.
Based on the existing tasks and labels shown, reply with a JSON array of
3 to 6 short label strings only, no markdown. Prefer reusing existing labels.`
)

// AssistantService 结构化 AI 接口服务
// 与会话内提及共享同一套开关、档位与每日额度
type AssistantService struct {
	governor      *assistant.UsageGovernor
	invoker       *assistant.Invoker
	projectRepo   *repository.ProjectRepo
	taskRepo      *repository.TaskRepo
	maxInputChars int
}

// NewAssistantService 创建结构化 AI 服务
func NewAssistantService(
	governor *assistant.UsageGovernor,
	invoker *assistant.Invoker,
	projectRepo *repository.ProjectRepo,
	taskRepo *repository.TaskRepo,
	cfg *config.AssistantConfig,
) *AssistantService {
	return &AssistantService{
		governor:      governor,
		invoker:       invoker,
		projectRepo:   projectRepo,
		taskRepo:      taskRepo,
		maxInputChars: cfg.MaxInputChars,
	}
}

// ParseTask 把自由文本解析为任务草稿
func (s *AssistantService) ParseTask(ctx context.Context, userID, text string) (*assistant.TaskDraft, error) {
	if err := s.gate(ctx, userID, text); err != nil {
		return nil, err
	}

	output, err := s.invoker.Generate(ctx, parseTaskSystem, text)
	if err != nil {
		return nil, err
	}
	draft, err := assistant.ParseTaskDraft(output)
	if err != nil {
		return nil, err
	}

	s.record(ctx, userID)
	return draft, nil
}

// SuggestDescription 根据任务标题生成描述
func (s *AssistantService) SuggestDescription(ctx context.Context, userID, title string) (string, error) {
	if err := s.gate(ctx, userID, title); err != nil {
		return "", err
	}

	output, err := s.invoker.Generate(ctx, suggestDescriptionSystem, title)
	if err != nil {
		return "", err
	}

	s.record(ctx, userID)
	return strings.TrimSpace(output), nil
}

// SuggestPriority 根据标题与描述建议优先级
func (s *AssistantService) SuggestPriority(ctx context.Context, userID, title, description string) (model.TaskPriority, error) {
	input := title
	if description != "" {
		input = title + "\n\n" + description
	}
	if err := s.gate(ctx, userID, input); err != nil {
		return "", err
	}

	output, err := s.invoker.Generate(ctx, suggestPrioritySystem, input)
	if err != nil {
		return "", err
	}
	priority, err := assistant.ParsePriority(output)
	if err != nil {
		return "", err
	}

	s.record(ctx, userID)
	return priority, nil
}

// SuggestLabels 基于项目现有任务建议标签集合
func (s *AssistantService) SuggestLabels(ctx context.Context, userID, projectID string) ([]string, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil || project == nil {
		return nil, ErrProjectNotFound
	}
	if !project.HasMember(userID) {
		return nil, ErrNotProjectMember
	}
	if err := s.governor.CanInvoke(ctx, userID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByProject(ctx, projectID, 50)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n\nTasks:\n", project.Name)
	for _, t := range tasks {
		fmt.Fprintf(&b, "- %s", t.Title)
		if len(t.Labels) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(t.Labels, ", "))
		}
		b.WriteString("\n")
	}

	output, err := s.invoker.Generate(ctx, suggestLabelsSystem, b.String())
	if err != nil {
		return nil, err
	}
	labels, err := assistant.ParseLabels(output)
	if err != nil {
		return nil, err
	}

	s.record(ctx, userID)
	return labels, nil
}

// Status 查询当前用户的助手可用状态
// 功能关闭时依旧返回真实的用量与订阅状态，只有 can_invoke 被压成 false
func (s *AssistantService) Status(ctx context.Context, userID string) (*model.AssistantStatus, error) {
	status := &model.AssistantStatus{Enabled: s.governor.Enabled()}

	used, err := s.governor.DailyUsage(ctx, userID)
	if err != nil {
		return nil, err
	}
	remaining, err := s.governor.Remaining(ctx, userID)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.governor.Subscribed(ctx, userID)
	if err != nil {
		return nil, err
	}

	status.UsedToday = used
	status.Remaining = remaining
	status.DailyLimit = s.governor.DailyLimit()
	status.Subscribed = subscribed
	status.CanInvoke = s.governor.CanInvoke(ctx, userID) == nil
	return status, nil
}

// gate 结构化接口共用的输入与额度检查
func (s *AssistantService) gate(ctx context.Context, userID, input string) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}
	if s.maxInputChars > 0 && utf8.RuneCountInString(input) > s.maxInputChars {
		return ErrInputTooLong
	}
	return s.governor.CanInvoke(ctx, userID)
}

// record 成功产出后记一次额度，失败不扣
func (s *AssistantService) record(ctx context.Context, userID string) {
	_ = s.governor.RecordInvocation(ctx, userID)
}
