package model

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Code    int    `json:"code"`             // 错误码（非0表示错误）
	Message string `json:"message"`          // 错误消息
	Detail  string `json:"detail,omitempty"` // 错误详情（可选）
}

// AssistantStatus 助手可用状态
type AssistantStatus struct {
	Enabled    bool  `json:"enabled"`     // 全局开关
	CanInvoke  bool  `json:"can_invoke"`  // 当前用户现在能否调用
	UsedToday  int64 `json:"used_today"`  // 今日已用次数
	Remaining  int64 `json:"remaining"`   // 今日剩余次数
	Subscribed bool  `json:"subscribed"`  // 是否持有有效订阅
	DailyLimit int64 `json:"daily_limit"` // 订阅用户每日上限
}

// ThinkingEvent 助手思考状态事件（通过实时通道下发）
type ThinkingEvent struct {
	ConversationID string `json:"conversationId"`
	IsThinking     bool   `json:"isThinking"`
}
