package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"huddle/internal/model"
)

// TaskDraft 从自然语言解析出的任务草稿
// 只是建议值，创建任务前仍由用户确认
type TaskDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

// ParseTaskDraft 解析模型输出的任务草稿 JSON
// 输出缺标题、JSON 非法或优先级非法都视为 ErrMalformedOutput
func ParseTaskDraft(output string) (*TaskDraft, error) {
	cleaned := stripCodeFence(output)

	var draft TaskDraft
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrMalformedOutput)
	}
	if draft.Priority != "" && !model.TaskPriority(draft.Priority).IsValid() {
		return nil, fmt.Errorf("%w: invalid priority %q", ErrMalformedOutput, draft.Priority)
	}
	return &draft, nil
}

// ParsePriority 解析模型输出的单个优先级值
func ParsePriority(output string) (model.TaskPriority, error) {
	cleaned := strings.ToLower(strings.TrimSpace(stripCodeFence(output)))
	cleaned = strings.Trim(cleaned, `"'.`)

	priority := model.TaskPriority(cleaned)
	if !priority.IsValid() {
		return "", fmt.Errorf("%w: invalid priority %q", ErrMalformedOutput, output)
	}
	return priority, nil
}

// ParseLabels 解析模型输出的标签 JSON 数组
func ParseLabels(output string) ([]string, error) {
	cleaned := stripCodeFence(output)

	var labels []string
	if err := json.Unmarshal([]byte(cleaned), &labels); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out, nil
}

// stripCodeFence 去掉模型习惯性包裹的 markdown 代码块标记
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// 第一行可能是语言标记（```json）
		first := strings.TrimSpace(s[:idx])
		if first == "json" || first == "" {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
