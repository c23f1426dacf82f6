package assistant

import "errors"

// 助手调用路径上的结果分类
// 编排器只记录日志不向会话注入错误消息，HTTP 接口按类型映射状态码
var (
	// ErrFeatureDisabled 全局开关关闭，对所有用户生效
	ErrFeatureDisabled = errors.New("assistant feature disabled")

	// ErrSubscriptionRequired 免费档用户无法调用助手
	ErrSubscriptionRequired = errors.New("active subscription required")

	// ErrQuotaExceeded 订阅用户已达当日上限
	ErrQuotaExceeded = errors.New("daily assistant quota exceeded")

	// ErrProviderFailure 外部模型调用失败（异常或超时）
	ErrProviderFailure = errors.New("model provider failure")

	// ErrEmptyCompletion 模型返回了空响应，与调用异常区分开
	ErrEmptyCompletion = errors.New("model returned empty completion")

	// ErrMalformedOutput 模型输出无法按预期结构解析
	ErrMalformedOutput = errors.New("malformed model output")
)
