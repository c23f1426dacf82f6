package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"huddle/internal/model"
	"huddle/internal/pkg/ctxutil"
	"huddle/internal/service"
)

// MessageHandler 消息处理器
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler 创建消息处理器
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// Send 发送消息
// @Summary      发送消息
// @Description  发送到指定会话；正文中提及助手会触发异步回复
// @Tags         消息
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                     true  "会话ID"
// @Param        request  body  model.SendMessageRequest  true  "消息内容"
// @Success      201  {object}  model.Message
// @Failure      400  {object}  model.ErrorResponse
// @Failure      403  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /api/v1/conversations/{id}/messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.messageService.Send(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// List 获取会话最近消息
// @Summary      消息列表
// @Description  时间倒序，已删除消息不返回
// @Tags         消息
// @Produce      json
// @Security     BearerAuth
// @Param        id     path   string  true   "会话ID"
// @Param        limit  query  int     false  "数量上限"
// @Success      200  {array}  model.Message
// @Router       /api/v1/conversations/{id}/messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	messages, err := h.messageService.List(c.Request.Context(), c.Param("id"), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if messages == nil {
		messages = []*model.Message{}
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": messages,
	})
}

// Edit 编辑消息
// @Summary      编辑消息
// @Description  仅发送者本人在编辑窗口内可用
// @Tags         消息
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                    true  "消息ID"
// @Param        request  body  model.EditMessageRequest  true  "新正文"
// @Success      200  {object}  model.Message
// @Failure      403  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /api/v1/messages/{id} [patch]
func (h *MessageHandler) Edit(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	var req model.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.messageService.Edit(c.Request.Context(), c.Param("id"), userID, req.Body)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

// Delete 删除消息
// @Summary      删除消息
// @Description  软删除，仅发送者本人在删除窗口内可用
// @Tags         消息
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "消息ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /api/v1/messages/{id} [delete]
func (h *MessageHandler) Delete(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	if err := h.messageService.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "删除成功",
	})
}
