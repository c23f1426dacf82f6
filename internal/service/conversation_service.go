package service

import (
	"context"

	"huddle/internal/model"
	"huddle/internal/pkg/id"
)

// ProjectFinder 项目读取接口
type ProjectFinder interface {
	FindByID(ctx context.Context, id string) (*model.Project, error)
}

// ConversationRepository 会话服务所需的会话存储接口
type ConversationRepository interface {
	GetOrCreateByProject(ctx context.Context, conv *model.Conversation) (*model.Conversation, error)
	FindByID(ctx context.Context, id string) (*model.Conversation, error)
	ListByParticipant(ctx context.Context, userID string, limit, offset int64) ([]*model.Conversation, error)
}

// ConversationService 会话服务
type ConversationService struct {
	conversationRepo ConversationRepository
	projectRepo      ProjectFinder
}

// NewConversationService 创建会话服务
func NewConversationService(conversationRepo ConversationRepository, projectRepo ProjectFinder) *ConversationService {
	return &ConversationService{
		conversationRepo: conversationRepo,
		projectRepo:      projectRepo,
	}
}

// EnsureProjectConversation 获取或创建项目群聊会话
// 项目成员达到 2 人才有会话；project_id 上有唯一索引，并发调用收敛到同一个会话
// 每次调用都会把参与者集合同步为项目当前成员
func (s *ConversationService) EnsureProjectConversation(ctx context.Context, projectID, userID string) (*model.Conversation, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil || project == nil {
		return nil, ErrProjectNotFound
	}
	if !project.HasMember(userID) {
		return nil, ErrNotProjectMember
	}
	if len(project.MemberIDs) < 2 {
		return nil, ErrTooFewMembers
	}

	conv := &model.Conversation{
		ID:             id.New(),
		ProjectID:      project.ID,
		Type:           model.ConversationTypeGroup,
		Name:           project.Name,
		ParticipantIDs: project.MemberIDs,
	}
	return s.conversationRepo.GetOrCreateByProject(ctx, conv)
}

// Get 查询会话并校验成员身份
func (s *ConversationService) Get(ctx context.Context, conversationID, userID string) (*model.Conversation, error) {
	conv, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil || conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return conv, nil
}

// List 查询用户参与的会话列表
func (s *ConversationService) List(ctx context.Context, userID string, limit, offset int64) ([]*model.Conversation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.conversationRepo.ListByParticipant(ctx, userID, limit, offset)
}
