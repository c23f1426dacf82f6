package service

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"huddle/internal/assistant"
	"huddle/internal/config"
	"huddle/internal/model"
	"huddle/internal/realtime"
	"huddle/internal/task"
)

// memMessageStore 内存消息存储
type memMessageStore struct {
	messages map[string]*model.Message
	err      error
}

func newMemMessageStore() *memMessageStore {
	return &memMessageStore{messages: make(map[string]*model.Message)}
}

func (s *memMessageStore) Create(_ context.Context, msg *model.Message) error {
	if s.err != nil {
		return s.err
	}
	s.messages[msg.ID] = msg
	return nil
}

func (s *memMessageStore) FindByID(_ context.Context, id string) (*model.Message, error) {
	return s.messages[id], nil
}

func (s *memMessageStore) ListRecent(_ context.Context, conversationID string, _ int64) ([]*model.Message, error) {
	var out []*model.Message
	for _, m := range s.messages {
		if m.ConversationID == conversationID && !m.Deleted() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memMessageStore) UpdateBody(_ context.Context, id, body string) error {
	msg := s.messages[id]
	msg.Body = body
	editedAt := time.Now()
	msg.EditedAt = &editedAt
	return nil
}

func (s *memMessageStore) SoftDelete(_ context.Context, id string) error {
	deletedAt := time.Now()
	s.messages[id].DeletedAt = &deletedAt
	return nil
}

// memConversationStore 内存会话存储
type memConversationStore struct {
	conversations map[string]*model.Conversation
	touched       []string
}

func newMemConversationStore() *memConversationStore {
	return &memConversationStore{conversations: make(map[string]*model.Conversation)}
}

func (s *memConversationStore) FindByID(_ context.Context, id string) (*model.Conversation, error) {
	return s.conversations[id], nil
}

func (s *memConversationStore) Touch(_ context.Context, id string) error {
	s.touched = append(s.touched, id)
	return nil
}

// recordingEnqueuer 记录入队的提及任务
type recordingEnqueuer struct {
	payloads []task.MentionPayload
}

func (e *recordingEnqueuer) EnqueueMention(_ context.Context, payload task.MentionPayload) error {
	e.payloads = append(e.payloads, payload)
	return nil
}

// recordingNotifier 记录广播的事件
type recordingNotifier struct {
	events []realtime.Event
}

func (n *recordingNotifier) NotifyParticipants(_ []string, ev realtime.Event) int {
	n.events = append(n.events, ev)
	return 0
}

type messageFixture struct {
	svc      *MessageService
	msgs     *memMessageStore
	convs    *memConversationStore
	enqueuer *recordingEnqueuer
	notifier *recordingNotifier
}

func newMessageFixture() *messageFixture {
	msgs := newMemMessageStore()
	convs := newMemConversationStore()
	convs.conversations["conv-1"] = &model.Conversation{
		ID:             "conv-1",
		Type:           model.ConversationTypeGroup,
		ParticipantIDs: []string{"alice", "bob"},
	}
	enqueuer := &recordingEnqueuer{}
	notifier := &recordingNotifier{}

	svc := NewMessageService(msgs, convs, assistant.NewMentionDetector(nil), enqueuer, notifier, &config.ChatConfig{
		EditWindow:   15 * time.Minute,
		DeleteWindow: time.Hour,
	})
	return &messageFixture{svc: svc, msgs: msgs, convs: convs, enqueuer: enqueuer, notifier: notifier}
}

func TestMessageService_Send(t *testing.T) {
	Convey("MessageService.Send 发送消息", t, func() {
		ctx := context.Background()

		Convey("正常发送：落库、刷新会话、广播", func() {
			fx := newMessageFixture()
			msg, err := fx.svc.Send(ctx, "conv-1", "alice", &model.SendMessageRequest{Body: "hello"})
			So(err, ShouldBeNil)
			So(msg.ID, ShouldNotBeEmpty)
			So(fx.msgs.messages[msg.ID], ShouldNotBeNil)
			So(fx.convs.touched, ShouldResemble, []string{"conv-1"})
			So(len(fx.notifier.events), ShouldEqual, 1)
			So(fx.notifier.events[0].Type, ShouldEqual, realtime.EventMessageCreated)
			So(fx.enqueuer.payloads, ShouldBeEmpty)
		})

		Convey("非会话成员不能发送", func() {
			fx := newMessageFixture()
			_, err := fx.svc.Send(ctx, "conv-1", "mallory", &model.SendMessageRequest{Body: "hi"})
			So(err, ShouldEqual, ErrNotParticipant)
		})

		Convey("会话不存在", func() {
			fx := newMessageFixture()
			_, err := fx.svc.Send(ctx, "missing", "alice", &model.SendMessageRequest{Body: "hi"})
			So(err, ShouldEqual, ErrConversationNotFound)
		})

		Convey("回复目标必须在同一会话", func() {
			fx := newMessageFixture()
			fx.convs.conversations["conv-2"] = &model.Conversation{
				ID: "conv-2", ParticipantIDs: []string{"alice"},
			}
			other, err := fx.svc.Send(ctx, "conv-2", "alice", &model.SendMessageRequest{Body: "elsewhere"})
			So(err, ShouldBeNil)

			_, err = fx.svc.Send(ctx, "conv-1", "alice", &model.SendMessageRequest{Body: "reply", ParentID: other.ID})
			So(err, ShouldEqual, ErrParentMismatch)
		})

		Convey("提及助手的消息在广播后入队", func() {
			fx := newMessageFixture()
			msg, err := fx.svc.Send(ctx, "conv-1", "alice", &model.SendMessageRequest{Body: "@ai what's overdue?"})
			So(err, ShouldBeNil)
			So(len(fx.enqueuer.payloads), ShouldEqual, 1)
			So(fx.enqueuer.payloads[0].MessageID, ShouldEqual, msg.ID)
			So(fx.enqueuer.payloads[0].Body, ShouldEqual, "@ai what's overdue?")
		})

		Convey("形似提及的邮箱地址不入队", func() {
			fx := newMessageFixture()
			_, err := fx.svc.Send(ctx, "conv-1", "alice", &model.SendMessageRequest{Body: "ping team@aiworks.io"})
			So(err, ShouldBeNil)
			So(fx.enqueuer.payloads, ShouldBeEmpty)
		})
	})
}

func TestMessageService_EditDelete(t *testing.T) {
	Convey("MessageService 编辑与删除窗口", t, func() {
		ctx := context.Background()

		Convey("发送者本人在窗口内可编辑", func() {
			fx := newMessageFixture()
			msg, _ := fx.svc.Send(ctx, "conv-1", "alice", &model.SendMessageRequest{Body: "draft"})

			updated, err := fx.svc.Edit(ctx, msg.ID, "alice", "final")
			So(err, ShouldBeNil)
			So(updated.Body, ShouldEqual, "final")
			So(updated.EditedAt, ShouldNotBeNil)
		})

		Convey("非发送者不能编辑", func() {
			fx := newMessageFixture()
			msg, _ := fx.svc.Send(ctx, "conv-1", "alice", &model.SendMessageRequest{Body: "draft"})

			_, err := fx.svc.Edit(ctx, msg.ID, "bob", "hijack")
			So(err, ShouldEqual, ErrNotSender)
		})

		Convey("超出编辑窗口被拒绝", func() {
			fx := newMessageFixture()
			msg, _ := fx.svc.Send(ctx, "conv-1", "alice", &model.SendMessageRequest{Body: "draft"})
			fx.svc.now = func() time.Time { return msg.CreatedAt.Add(16 * time.Minute) }

			_, err := fx.svc.Edit(ctx, msg.ID, "alice", "too late")
			So(err, ShouldEqual, ErrEditWindowClosed)
		})

		Convey("删除窗口比编辑窗口宽", func() {
			fx := newMessageFixture()
			msg, _ := fx.svc.Send(ctx, "conv-1", "alice", &model.SendMessageRequest{Body: "draft"})
			fx.svc.now = func() time.Time { return msg.CreatedAt.Add(30 * time.Minute) }

			_, err := fx.svc.Edit(ctx, msg.ID, "alice", "too late")
			So(err, ShouldEqual, ErrEditWindowClosed)
			So(fx.svc.Delete(ctx, msg.ID, "alice"), ShouldBeNil)
		})

		Convey("超出删除窗口被拒绝", func() {
			fx := newMessageFixture()
			msg, _ := fx.svc.Send(ctx, "conv-1", "alice", &model.SendMessageRequest{Body: "draft"})
			fx.svc.now = func() time.Time { return msg.CreatedAt.Add(2 * time.Hour) }

			So(fx.svc.Delete(ctx, msg.ID, "alice"), ShouldEqual, ErrDeleteWindowClosed)
		})

		Convey("已删除的消息不能再编辑", func() {
			fx := newMessageFixture()
			msg, _ := fx.svc.Send(ctx, "conv-1", "alice", &model.SendMessageRequest{Body: "draft"})
			So(fx.svc.Delete(ctx, msg.ID, "alice"), ShouldBeNil)

			_, err := fx.svc.Edit(ctx, msg.ID, "alice", "zombie")
			So(err, ShouldEqual, ErrMessageNotFound)
		})
	})
}
