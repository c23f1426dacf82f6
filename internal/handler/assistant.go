package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"huddle/internal/model"
	"huddle/internal/pkg/ctxutil"
	"huddle/internal/service"
)

// AssistantHandler 结构化 AI 接口处理器
type AssistantHandler struct {
	assistantService *service.AssistantService
}

// NewAssistantHandler 创建 AI 接口处理器
func NewAssistantHandler(assistantService *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// ParseTask 自由文本解析为任务草稿
// @Summary      解析任务草稿
// @Description  把一句自然语言转成结构化的任务草稿
// @Tags         AI
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  model.ParseTaskRequest  true  "自由文本"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  model.ErrorResponse
// @Failure      403  {object}  model.ErrorResponse
// @Failure      422  {object}  model.ErrorResponse
// @Failure      429  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /api/v1/ai/tasks/parse [post]
func (h *AssistantHandler) ParseTask(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	var req model.ParseTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	draft, err := h.assistantService.ParseTask(c.Request.Context(), userID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": draft,
	})
}

// SuggestDescription 根据标题生成任务描述
// @Summary      生成任务描述
// @Tags         AI
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  model.SuggestDescriptionRequest  true  "任务标题"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  model.ErrorResponse
// @Failure      429  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /api/v1/ai/tasks/description [post]
func (h *AssistantHandler) SuggestDescription(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	var req model.SuggestDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	description, err := h.assistantService.SuggestDescription(c.Request.Context(), userID, req.Title)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{"description": description},
	})
}

// SuggestPriority 建议任务优先级
// @Summary      建议任务优先级
// @Tags         AI
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  model.SuggestPriorityRequest  true  "任务标题与描述"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  model.ErrorResponse
// @Failure      422  {object}  model.ErrorResponse
// @Failure      429  {object}  model.ErrorResponse
// @Router       /api/v1/ai/tasks/priority [post]
func (h *AssistantHandler) SuggestPriority(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	var req model.SuggestPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	priority, err := h.assistantService.SuggestPriority(c.Request.Context(), userID, req.Title, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{"priority": priority},
	})
}

// SuggestLabels 基于项目现有任务建议标签
// @Summary      建议项目标签
// @Tags         AI
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "项目ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Failure      429  {object}  model.ErrorResponse
// @Router       /api/v1/ai/projects/{id}/labels/suggest [post]
func (h *AssistantHandler) SuggestLabels(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	labels, err := h.assistantService.SuggestLabels(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{"labels": labels},
	})
}

// Status 查询助手可用状态
// @Summary      助手状态
// @Description  开关、订阅与今日额度
// @Tags         AI
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.AssistantStatus
// @Router       /api/v1/ai/status [get]
func (h *AssistantHandler) Status(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	status, err := h.assistantService.Status(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
