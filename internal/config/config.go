package config

import (
	"errors"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	AI        AIConfig        `mapstructure:"ai"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Log       LogConfig       `mapstructure:"log"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AIConfig AI 服务配置（外部模型提供方）
type AIConfig struct {
	Provider string          `mapstructure:"provider"`
	APIKey   string          `mapstructure:"api_key"`
	Model    string          `mapstructure:"model"`
	BaseURL  string          `mapstructure:"base_url"`
	Options  AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig AI 模型参数
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// AssistantConfig 会话内 AI 助手配置
type AssistantConfig struct {
	Enabled       bool                   `mapstructure:"enabled"`         // 全局开关，关闭后任何人都无法调用助手
	Aliases       []string               `mapstructure:"aliases"`         // 触发助手的提及别名
	DailyLimit    int64                  `mapstructure:"daily_limit"`     // 订阅用户每日调用上限
	InvokeTimeout time.Duration          `mapstructure:"invoke_timeout"`  // 单次模型调用超时
	MaxInputChars int                    `mapstructure:"max_input_chars"` // 结构化接口输入文本长度上限
	Worker        AssistantWorkerConfig  `mapstructure:"worker"`
	Context       AssistantContextConfig `mapstructure:"context"`
}

// AssistantWorkerConfig 助手异步任务配置
type AssistantWorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// AssistantContextConfig 上下文快照的截断参数与分析阈值
// 上游未明确给出固定值，全部做成可配置项
type AssistantContextConfig struct {
	MaxMessages          int `mapstructure:"max_messages"`
	MaxTasks             int `mapstructure:"max_tasks"`
	MaxActivities        int `mapstructure:"max_activities"`
	MaxComments          int `mapstructure:"max_comments"`
	MaxAttachments       int `mapstructure:"max_attachments"`
	CompletionWindowDays int `mapstructure:"completion_window_days"` // 成员完成数统计窗口
	StuckAgeDays         int `mapstructure:"stuck_age_days"`         // 超过该天数仍未完成视为"老任务"
	StuckIdleDays        int `mapstructure:"stuck_idle_days"`        // 超过该天数无更新视为"停滞"
	DiscussionThreshold  int `mapstructure:"discussion_threshold"`   // 评论数达到该值视为"高讨论度"
}

// ChatConfig 消息编辑/删除窗口配置（均从创建时间起算）
type ChatConfig struct {
	EditWindow   time.Duration `mapstructure:"edit_window"`
	DeleteWindow time.Duration `mapstructure:"delete_window"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`          // JWT密钥
	AccessTokenExpiry time.Duration `mapstructure:"access_token_expiry"` // Access Token过期时间
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	if c.Assistant.DailyLimit < 0 {
		return errors.New("assistant.daily_limit must not be negative")
	}

	return nil
}
