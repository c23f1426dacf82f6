package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"huddle/internal/assistant"
	"huddle/internal/config"
)

// TypeAssistantMention 助手提及处理任务类型
const TypeAssistantMention = "assistant:mention"

// assistantQueue 助手任务专用队列，与未来其他任务隔离
const assistantQueue = "assistant"

// MentionPayload 助手提及任务载荷
type MentionPayload struct {
	MessageID      string `json:"message_id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Body           string `json:"body"`
}

// Client 任务入队客户端
type Client struct {
	client *asynq.Client
}

// NewClient 创建任务客户端
func NewClient(cfg *config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(redisOpt(cfg)),
	}
}

// EnqueueMention 入队一条助手提及任务
// MaxRetry(0)：编排器自行消化失败，重试会造成重复广播与重复扣额
func (c *Client) EnqueueMention(ctx context.Context, payload MentionPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mention payload: %w", err)
	}

	task := asynq.NewTask(TypeAssistantMention, data)
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(assistantQueue), asynq.MaxRetry(0))
	if err != nil {
		return fmt.Errorf("enqueue mention task: %w", err)
	}
	return nil
}

// Close 关闭底层连接
func (c *Client) Close() error {
	return c.client.Close()
}

// Server 进程内任务消费端
// 与 HTTP 服务同进程运行，通过 Redis 队列解耦消息发送与助手调用
type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewServer 创建任务消费端
func NewServer(cfg *config.RedisConfig, concurrency int) *Server {
	if concurrency <= 0 {
		concurrency = 8
	}
	server := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			assistantQueue: 1,
		},
	})
	return &Server{
		server: server,
		mux:    asynq.NewServeMux(),
	}
}

// RegisterMentionHandler 注册助手提及处理器
func (s *Server) RegisterMentionHandler(orchestrator *assistant.Orchestrator) {
	s.mux.HandleFunc(TypeAssistantMention, func(ctx context.Context, t *asynq.Task) error {
		var payload MentionPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			// 载荷损坏无法修复，记日志后丢弃
			log.Error().Err(err).Str("type", t.Type()).Msg("drop malformed mention task")
			return nil
		}
		return orchestrator.Run(ctx, assistant.RunInput{
			MessageID:      payload.MessageID,
			ConversationID: payload.ConversationID,
			SenderID:       payload.SenderID,
			Body:           payload.Body,
		})
	})
}

// Start 启动消费（非阻塞）
func (s *Server) Start() error {
	return s.server.Start(s.mux)
}

// Shutdown 等待在途任务完成后停止
func (s *Server) Shutdown() {
	s.server.Shutdown()
}

func redisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
