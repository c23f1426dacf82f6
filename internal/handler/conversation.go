package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"huddle/internal/model"
	"huddle/internal/pkg/ctxutil"
	"huddle/internal/service"
)

// ConversationHandler 会话处理器
type ConversationHandler struct {
	conversationService *service.ConversationService
}

// NewConversationHandler 创建会话处理器
func NewConversationHandler(conversationService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// EnsureProjectConversation 获取或创建项目群聊
// @Summary      获取或创建项目群聊
// @Description  项目成员达到2人后按需创建，幂等
// @Tags         会话
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "项目ID"
// @Success      200  {object}  model.Conversation
// @Failure      400  {object}  model.ErrorResponse
// @Failure      403  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /api/v1/projects/{id}/conversation [post]
func (h *ConversationHandler) EnsureProjectConversation(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	conv, err := h.conversationService.EnsureProjectConversation(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, conv)
}

// List 获取当前用户的会话列表
// @Summary      会话列表
// @Tags         会话
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "数量上限"
// @Param        offset  query  int  false  "偏移量"
// @Success      200  {array}  model.Conversation
// @Router       /api/v1/conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)

	conversations, err := h.conversationService.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	if conversations == nil {
		conversations = []*model.Conversation{}
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": conversations,
	})
}
