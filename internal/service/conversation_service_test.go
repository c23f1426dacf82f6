package service

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"huddle/internal/model"
)

// memProjectFinder 内存项目读取
type memProjectFinder struct {
	projects map[string]*model.Project
}

func (f *memProjectFinder) FindByID(_ context.Context, id string) (*model.Project, error) {
	return f.projects[id], nil
}

// memConversationRepo 内存会话存储，按 project_id 收敛到同一个会话
type memConversationRepo struct {
	byProject map[string]*model.Conversation
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{byProject: make(map[string]*model.Conversation)}
}

func (r *memConversationRepo) GetOrCreateByProject(_ context.Context, conv *model.Conversation) (*model.Conversation, error) {
	if existing, ok := r.byProject[conv.ProjectID]; ok {
		existing.Name = conv.Name
		existing.ParticipantIDs = conv.ParticipantIDs
		return existing, nil
	}
	r.byProject[conv.ProjectID] = conv
	return conv, nil
}

func (r *memConversationRepo) FindByID(_ context.Context, id string) (*model.Conversation, error) {
	for _, conv := range r.byProject {
		if conv.ID == id {
			return conv, nil
		}
	}
	return nil, nil
}

func (r *memConversationRepo) ListByParticipant(_ context.Context, userID string, limit, offset int64) ([]*model.Conversation, error) {
	var out []*model.Conversation
	for _, conv := range r.byProject {
		if conv.HasParticipant(userID) {
			out = append(out, conv)
		}
	}
	return out, nil
}

func TestEnsureProjectConversation(t *testing.T) {
	Convey("项目群聊会话", t, func() {
		projects := &memProjectFinder{projects: map[string]*model.Project{
			"proj-1": {ID: "proj-1", Name: "Apollo", MemberIDs: []string{"alice", "bob", "carol"}},
			"proj-2": {ID: "proj-2", Name: "Solo", MemberIDs: []string{"alice"}},
		}}
		convs := newMemConversationRepo()
		svc := NewConversationService(convs, projects)

		Convey("首次调用创建会话并带上全部成员", func() {
			conv, err := svc.EnsureProjectConversation(context.Background(), "proj-1", "alice")

			So(err, ShouldBeNil)
			So(conv.ProjectID, ShouldEqual, "proj-1")
			So(conv.Type, ShouldEqual, model.ConversationTypeGroup)
			So(conv.Name, ShouldEqual, "Apollo")
			So(conv.ParticipantIDs, ShouldResemble, []string{"alice", "bob", "carol"})
		})

		Convey("重复调用收敛到同一个会话", func() {
			first, err := svc.EnsureProjectConversation(context.Background(), "proj-1", "alice")
			So(err, ShouldBeNil)

			second, err := svc.EnsureProjectConversation(context.Background(), "proj-1", "bob")

			So(err, ShouldBeNil)
			So(second.ID, ShouldEqual, first.ID)
			So(len(convs.byProject), ShouldEqual, 1)
		})

		Convey("成员变更后参与者集合被同步", func() {
			_, err := svc.EnsureProjectConversation(context.Background(), "proj-1", "alice")
			So(err, ShouldBeNil)

			projects.projects["proj-1"].MemberIDs = []string{"alice", "bob", "carol", "dave"}
			conv, err := svc.EnsureProjectConversation(context.Background(), "proj-1", "alice")

			So(err, ShouldBeNil)
			So(conv.ParticipantIDs, ShouldResemble, []string{"alice", "bob", "carol", "dave"})
		})

		Convey("非项目成员被拒绝", func() {
			_, err := svc.EnsureProjectConversation(context.Background(), "proj-1", "mallory")

			So(err, ShouldEqual, ErrNotProjectMember)
			So(len(convs.byProject), ShouldEqual, 0)
		})

		Convey("成员不足两人不创建会话", func() {
			_, err := svc.EnsureProjectConversation(context.Background(), "proj-2", "alice")

			So(err, ShouldEqual, ErrTooFewMembers)
		})

		Convey("项目不存在返回错误", func() {
			_, err := svc.EnsureProjectConversation(context.Background(), "missing", "alice")

			So(err, ShouldEqual, ErrProjectNotFound)
		})
	})
}

func TestConversationGet(t *testing.T) {
	Convey("会话查询", t, func() {
		convs := newMemConversationRepo()
		convs.byProject["proj-1"] = &model.Conversation{
			ID:             "conv-1",
			ProjectID:      "proj-1",
			ParticipantIDs: []string{"alice", "bob"},
		}
		svc := NewConversationService(convs, &memProjectFinder{})

		Convey("参与者可以读取会话", func() {
			conv, err := svc.Get(context.Background(), "conv-1", "alice")

			So(err, ShouldBeNil)
			So(conv.ID, ShouldEqual, "conv-1")
		})

		Convey("非参与者被拒绝", func() {
			_, err := svc.Get(context.Background(), "conv-1", "mallory")

			So(err, ShouldEqual, ErrNotParticipant)
		})

		Convey("会话不存在返回错误", func() {
			_, err := svc.Get(context.Background(), "missing", "alice")

			So(err, ShouldEqual, ErrConversationNotFound)
		})
	})
}
