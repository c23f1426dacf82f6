package assistant

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"huddle/internal/model"
	"huddle/internal/pkg/id"
)

// ConversationReader 会话读取
type ConversationReader interface {
	FindByID(ctx context.Context, id string) (*model.Conversation, error)
}

// MessageWriter 助手回复的持久化接口
type MessageWriter interface {
	Create(ctx context.Context, msg *model.Message) error
}

// RunInput 一次提及处理的输入（来自异步任务载荷）
type RunInput struct {
	MessageID      string
	ConversationID string
	SenderID       string
	Body           string
}

// Orchestrator 串联一次助手调用的完整流程：
// 提及检测 -> 额度检查 -> 思考指示 -> 上下文聚合 -> 模型调用 -> 回复落库与广播 -> 记账
type Orchestrator struct {
	detector      *MentionDetector
	governor      *UsageGovernor
	aggregator    *Aggregator
	invoker       *Invoker
	events        Events
	conversations ConversationReader
	messages      MessageWriter
	now           func() time.Time
}

// NewOrchestrator 创建编排器
func NewOrchestrator(
	detector *MentionDetector,
	governor *UsageGovernor,
	aggregator *Aggregator,
	invoker *Invoker,
	events Events,
	conversations ConversationReader,
	messages MessageWriter,
) *Orchestrator {
	return &Orchestrator{
		detector:      detector,
		governor:      governor,
		aggregator:    aggregator,
		invoker:       invoker,
		events:        events,
		conversations: conversations,
		messages:      messages,
		now:           time.Now,
	}
}

// Run 处理一条可能包含助手提及的消息
// 永远返回 nil：失败只记日志，不向会话注入错误消息，也不触发任务重试
// 唯一的对外承诺是思考指示成对出现：started 之后必有 stopped
func (o *Orchestrator) Run(ctx context.Context, in RunInput) error {
	question, found := o.detector.Detect(in.Body)
	if !found {
		return nil
	}
	if question == "" {
		// 空问题整体跳过，不计额度也不广播
		log.Debug().Str("message_id", in.MessageID).Msg("assistant mention with empty question, skipping")
		return nil
	}

	conv, err := o.conversations.FindByID(ctx, in.ConversationID)
	if err != nil {
		log.Error().Err(err).Str("conversation_id", in.ConversationID).Msg("assistant: conversation lookup failed")
		return nil
	}

	if err := o.governor.CanInvoke(ctx, in.SenderID); err != nil {
		// 免费档/超额的提及静默跳过，避免向全会话广播个人账务状态
		log.Info().Err(err).
			Str("user_id", in.SenderID).
			Str("conversation_id", in.ConversationID).
			Msg("assistant invocation denied")
		return nil
	}

	o.events.ThinkingStarted(conv)
	defer o.events.ThinkingStopped(conv)

	snapshot, err := o.aggregator.Build(ctx, in.SenderID, question, conv)
	if err != nil {
		log.Error().Err(err).Str("conversation_id", in.ConversationID).Msg("assistant: context aggregation failed")
		return nil
	}

	answer, err := o.invoker.Generate(ctx, systemPrompt, BuildPrompt(snapshot))
	if err != nil {
		event := log.Error()
		if errors.Is(err, ErrEmptyCompletion) {
			event = log.Warn()
		}
		event.Err(err).Str("conversation_id", in.ConversationID).Msg("assistant: model invocation failed")
		return nil
	}

	reply := &model.Message{
		ID:             id.New(),
		ConversationID: conv.ID,
		SenderID:       model.AssistantSenderID,
		Body:           answer,
		ParentID:       in.MessageID,
		CreatedAt:      o.now(),
	}
	if err := o.messages.Create(ctx, reply); err != nil {
		log.Error().Err(err).Str("conversation_id", in.ConversationID).Msg("assistant: reply persist failed")
		return nil
	}

	o.events.MessageCreated(conv, reply)

	// 记账失败不回滚回复，宁可少计不可多计
	if err := o.governor.RecordInvocation(ctx, in.SenderID); err != nil {
		log.Warn().Err(err).Str("user_id", in.SenderID).Msg("assistant: usage accounting failed")
	}
	return nil
}
