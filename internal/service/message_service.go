package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"huddle/internal/assistant"
	"huddle/internal/config"
	"huddle/internal/model"
	"huddle/internal/pkg/id"
	"huddle/internal/realtime"
	"huddle/internal/task"
)

// MentionEnqueuer 助手提及任务入队接口
type MentionEnqueuer interface {
	EnqueueMention(ctx context.Context, payload task.MentionPayload) error
}

// Notifier 实时事件广播接口
type Notifier interface {
	NotifyParticipants(userIDs []string, ev realtime.Event) int
}

// MessageStore 消息存储接口
type MessageStore interface {
	Create(ctx context.Context, msg *model.Message) error
	FindByID(ctx context.Context, id string) (*model.Message, error)
	ListRecent(ctx context.Context, conversationID string, limit int64) ([]*model.Message, error)
	UpdateBody(ctx context.Context, id, body string) error
	SoftDelete(ctx context.Context, id string) error
}

// ConversationStore 会话存储接口（消息服务只需要读取与时间戳刷新）
type ConversationStore interface {
	FindByID(ctx context.Context, id string) (*model.Conversation, error)
	Touch(ctx context.Context, id string) error
}

// MessageService 消息服务
// 发送路径上同步完成落库与广播，助手调用走异步队列，不阻塞发送方
type MessageService struct {
	messageRepo      MessageStore
	conversationRepo ConversationStore
	detector         *assistant.MentionDetector
	enqueuer         MentionEnqueuer
	notifier         Notifier
	editWindow       time.Duration
	deleteWindow     time.Duration
	now              func() time.Time
}

// NewMessageService 创建消息服务
func NewMessageService(
	messageRepo MessageStore,
	conversationRepo ConversationStore,
	detector *assistant.MentionDetector,
	enqueuer MentionEnqueuer,
	notifier Notifier,
	cfg *config.ChatConfig,
) *MessageService {
	return &MessageService{
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
		detector:         detector,
		enqueuer:         enqueuer,
		notifier:         notifier,
		editWindow:       cfg.EditWindow,
		deleteWindow:     cfg.DeleteWindow,
		now:              time.Now,
	}
}

// Send 发送消息
// 回复目标必须属于同一会话；提及助手的消息在落库广播之后入队异步处理
func (s *MessageService) Send(ctx context.Context, conversationID, senderID string, req *model.SendMessageRequest) (*model.Message, error) {
	conv, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil || conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasParticipant(senderID) {
		return nil, ErrNotParticipant
	}

	if req.ParentID != "" {
		parent, err := s.messageRepo.FindByID(ctx, req.ParentID)
		if err != nil || parent == nil || parent.ConversationID != conv.ID {
			return nil, ErrParentMismatch
		}
	}

	msg := &model.Message{
		ID:             id.New(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           req.Body,
		ParentID:       req.ParentID,
		Attachments:    req.Attachments,
		CreatedAt:      s.now(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.conversationRepo.Touch(ctx, conv.ID); err != nil {
		log.Warn().Err(err).Str("conversation_id", conv.ID).Msg("failed to touch conversation")
	}

	s.notifier.NotifyParticipants(conv.ParticipantIDs, realtime.NewEvent(realtime.EventMessageCreated, msg))

	// 入队失败只降级为"助手没有回应"，消息本身已发送成功
	if s.detector.Match(msg.Body) {
		err := s.enqueuer.EnqueueMention(ctx, task.MentionPayload{
			MessageID:      msg.ID,
			ConversationID: msg.ConversationID,
			SenderID:       msg.SenderID,
			Body:           msg.Body,
		})
		if err != nil {
			log.Error().Err(err).Str("message_id", msg.ID).Msg("failed to enqueue mention task")
		}
	}

	return msg, nil
}

// List 查询会话最近消息（时间倒序）
func (s *MessageService) List(ctx context.Context, conversationID, userID string, limit int64) ([]*model.Message, error) {
	conv, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil || conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.messageRepo.ListRecent(ctx, conversationID, limit)
}

// Edit 编辑消息正文
// 只允许发送者本人在编辑窗口内修改，窗口从创建时间起算
func (s *MessageService) Edit(ctx context.Context, messageID, userID, body string) (*model.Message, error) {
	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil || msg == nil || msg.Deleted() {
		return nil, ErrMessageNotFound
	}
	if msg.SenderID != userID {
		return nil, ErrNotSender
	}
	if s.now().Sub(msg.CreatedAt) > s.editWindow {
		return nil, ErrEditWindowClosed
	}

	if err := s.messageRepo.UpdateBody(ctx, messageID, body); err != nil {
		return nil, err
	}

	updated, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if conv, err := s.conversationRepo.FindByID(ctx, msg.ConversationID); err == nil && conv != nil {
		s.notifier.NotifyParticipants(conv.ParticipantIDs, realtime.NewEvent(realtime.EventMessageUpdated, updated))
	}
	return updated, nil
}

// Delete 软删除消息
// 只允许发送者本人在删除窗口内删除
func (s *MessageService) Delete(ctx context.Context, messageID, userID string) error {
	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil || msg == nil || msg.Deleted() {
		return ErrMessageNotFound
	}
	if msg.SenderID != userID {
		return ErrNotSender
	}
	if s.now().Sub(msg.CreatedAt) > s.deleteWindow {
		return ErrDeleteWindowClosed
	}

	if err := s.messageRepo.SoftDelete(ctx, messageID); err != nil {
		return err
	}

	if conv, err := s.conversationRepo.FindByID(ctx, msg.ConversationID); err == nil && conv != nil {
		s.notifier.NotifyParticipants(conv.ParticipantIDs, realtime.NewEvent(realtime.EventMessageDeleted, map[string]string{
			"id":              msg.ID,
			"conversation_id": msg.ConversationID,
		}))
	}
	return nil
}
