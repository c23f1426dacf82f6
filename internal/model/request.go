package model

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	Body        string              `json:"body" binding:"required"`
	ParentID    string              `json:"parent_id,omitempty"`
	Attachments []MessageAttachment `json:"attachments,omitempty"`
}

// EditMessageRequest 编辑消息请求
type EditMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// ParseTaskRequest 自由文本解析任务请求
type ParseTaskRequest struct {
	Text string `json:"text" binding:"required"` // 自由文本，如 "周五前让小王修好登录页，高优"
}

// SuggestDescriptionRequest 生成任务描述请求
type SuggestDescriptionRequest struct {
	Title string `json:"title" binding:"required"`
}

// SuggestPriorityRequest 建议任务优先级请求
type SuggestPriorityRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
}
