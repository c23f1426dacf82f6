package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	. "github.com/smartystreets/goconvey/convey"

	"huddle/internal/model"
)

// stubChatModel 固定应答的模型实现
type stubChatModel struct {
	reply string
	err   error
}

func (m *stubChatModel) Generate(context.Context, []*schema.Message, ...einomodel.Option) (*schema.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

// recordingEvents 记录广播调用顺序
type recordingEvents struct {
	thinking []bool
	created  []*model.Message
}

func (e *recordingEvents) ThinkingStarted(*model.Conversation) { e.thinking = append(e.thinking, true) }
func (e *recordingEvents) ThinkingStopped(*model.Conversation) { e.thinking = append(e.thinking, false) }
func (e *recordingEvents) MessageCreated(_ *model.Conversation, msg *model.Message) {
	e.created = append(e.created, msg)
}

type fakeConversations struct {
	conv *model.Conversation
	err  error
}

func (f *fakeConversations) FindByID(context.Context, string) (*model.Conversation, error) {
	return f.conv, f.err
}

type fakeMessageWriter struct {
	created []*model.Message
	err     error
}

func (f *fakeMessageWriter) Create(_ context.Context, msg *model.Message) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, msg)
	return nil
}

type orchestratorFixture struct {
	orch    *Orchestrator
	events  *recordingEvents
	writer  *fakeMessageWriter
	counter *fakeCounter
}

func newOrchestratorFixture(t *testing.T, chatModel einomodel.BaseChatModel) *orchestratorFixture {
	t.Helper()
	now := day(t, "2026-03-14T15:30:00Z")

	counter := newFakeCounter()
	plans := &fakePlans{plans: map[string]model.Plan{
		"pro-user":  model.PlanPro,
		"free-user": model.PlanFree,
	}}
	governor := newGovernor(counter, plans, true, 50)

	store := newFakeStore()
	store.messages["conv-1"] = []*model.Message{
		{ID: "m0", ConversationID: "conv-1", SenderID: "pro-user", Body: "context message", CreatedAt: now.Add(-time.Hour)},
	}
	aggregator := newTestAggregator(store, stubClassifier{}, now)

	events := &recordingEvents{}
	writer := &fakeMessageWriter{}
	conversations := &fakeConversations{conv: &model.Conversation{
		ID:             "conv-1",
		Type:           model.ConversationTypeGroup,
		ParticipantIDs: []string{"pro-user", "free-user"},
	}}

	orch := NewOrchestrator(
		NewMentionDetector(nil),
		governor,
		aggregator,
		NewInvoker(chatModel, time.Second),
		events,
		conversations,
		writer,
	)
	orch.now = func() time.Time { return now }

	return &orchestratorFixture{orch: orch, events: events, writer: writer, counter: counter}
}

func TestOrchestrator_Run(t *testing.T) {
	Convey("Orchestrator.Run 处理助手提及的完整流程", t, func() {
		ctx := context.Background()

		Convey("成功路径：思考指示成对、回复落库、额度记账", func() {
			fx := newOrchestratorFixture(t, &stubChatModel{reply: "there are 2 overdue tasks"})

			err := fx.orch.Run(ctx, RunInput{
				MessageID:      "msg-1",
				ConversationID: "conv-1",
				SenderID:       "pro-user",
				Body:           "@ai what's overdue?",
			})
			So(err, ShouldBeNil)

			So(fx.events.thinking, ShouldResemble, []bool{true, false})
			So(len(fx.writer.created), ShouldEqual, 1)

			reply := fx.writer.created[0]
			So(reply.SenderID, ShouldEqual, model.AssistantSenderID)
			So(reply.ConversationID, ShouldEqual, "conv-1")
			So(reply.ParentID, ShouldEqual, "msg-1")
			So(reply.Body, ShouldEqual, "there are 2 overdue tasks")

			So(len(fx.events.created), ShouldEqual, 1)
			So(fx.events.created[0].ID, ShouldEqual, reply.ID)
			So(fx.counter.values["assistant:usage:pro-user:20260314"], ShouldEqual, 1)
		})

		Convey("无提及的消息没有任何副作用", func() {
			fx := newOrchestratorFixture(t, &stubChatModel{reply: "unused"})

			err := fx.orch.Run(ctx, RunInput{
				MessageID:      "msg-1",
				ConversationID: "conv-1",
				SenderID:       "pro-user",
				Body:           "shipping tomorrow",
			})
			So(err, ShouldBeNil)
			So(fx.events.thinking, ShouldBeEmpty)
			So(fx.writer.created, ShouldBeEmpty)
			So(fx.counter.values, ShouldBeEmpty)
		})

		Convey("空问题整体跳过", func() {
			fx := newOrchestratorFixture(t, &stubChatModel{reply: "unused"})

			err := fx.orch.Run(ctx, RunInput{
				MessageID:      "msg-1",
				ConversationID: "conv-1",
				SenderID:       "pro-user",
				Body:           "@ai   ",
			})
			So(err, ShouldBeNil)
			So(fx.events.thinking, ShouldBeEmpty)
			So(fx.writer.created, ShouldBeEmpty)
			So(fx.counter.values, ShouldBeEmpty)
		})

		Convey("免费档用户的提及静默跳过，不广播思考指示", func() {
			fx := newOrchestratorFixture(t, &stubChatModel{reply: "unused"})

			err := fx.orch.Run(ctx, RunInput{
				MessageID:      "msg-1",
				ConversationID: "conv-1",
				SenderID:       "free-user",
				Body:           "@ai help me",
			})
			So(err, ShouldBeNil)
			So(fx.events.thinking, ShouldBeEmpty)
			So(fx.writer.created, ShouldBeEmpty)
			So(fx.counter.values, ShouldBeEmpty)
		})

		Convey("模型调用失败时思考指示仍成对出现，且不落库不记账", func() {
			fx := newOrchestratorFixture(t, &stubChatModel{err: errors.New("upstream 503")})

			err := fx.orch.Run(ctx, RunInput{
				MessageID:      "msg-1",
				ConversationID: "conv-1",
				SenderID:       "pro-user",
				Body:           "@ai what's overdue?",
			})
			So(err, ShouldBeNil)
			So(fx.events.thinking, ShouldResemble, []bool{true, false})
			So(fx.writer.created, ShouldBeEmpty)
			So(fx.counter.values, ShouldBeEmpty)
		})

		Convey("模型返回空响应按失败处理", func() {
			fx := newOrchestratorFixture(t, &stubChatModel{reply: "   "})

			err := fx.orch.Run(ctx, RunInput{
				MessageID:      "msg-1",
				ConversationID: "conv-1",
				SenderID:       "pro-user",
				Body:           "@ai anything?",
			})
			So(err, ShouldBeNil)
			So(fx.events.thinking, ShouldResemble, []bool{true, false})
			So(fx.writer.created, ShouldBeEmpty)
		})

		Convey("回复落库失败时不记账", func() {
			fx := newOrchestratorFixture(t, &stubChatModel{reply: "answer"})
			fx.writer.err = errors.New("mongo down")

			err := fx.orch.Run(ctx, RunInput{
				MessageID:      "msg-1",
				ConversationID: "conv-1",
				SenderID:       "pro-user",
				Body:           "@ai anything?",
			})
			So(err, ShouldBeNil)
			So(fx.events.thinking, ShouldResemble, []bool{true, false})
			So(fx.events.created, ShouldBeEmpty)
			So(fx.counter.values, ShouldBeEmpty)
		})
	})
}
