package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"huddle/internal/assistant"
	"huddle/internal/model"
	"huddle/internal/service"
)

// writeError 服务层错误到 HTTP 状态码的统一映射
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := 50001

	switch {
	case errors.Is(err, assistant.ErrFeatureDisabled):
		status, code = http.StatusServiceUnavailable, 50301
	case errors.Is(err, assistant.ErrSubscriptionRequired):
		status, code = http.StatusForbidden, 40301
	case errors.Is(err, assistant.ErrQuotaExceeded):
		status, code = http.StatusTooManyRequests, 42901
	case errors.Is(err, assistant.ErrMalformedOutput):
		status, code = http.StatusUnprocessableEntity, 42201
	case errors.Is(err, assistant.ErrProviderFailure), errors.Is(err, assistant.ErrEmptyCompletion):
		status, code = http.StatusBadGateway, 50201
	case errors.Is(err, service.ErrEmptyInput), errors.Is(err, service.ErrInputTooLong),
		errors.Is(err, service.ErrParentMismatch), errors.Is(err, service.ErrTooFewMembers):
		status, code = http.StatusBadRequest, 40002
	case errors.Is(err, service.ErrProjectNotFound), errors.Is(err, service.ErrConversationNotFound),
		errors.Is(err, service.ErrMessageNotFound), errors.Is(err, service.ErrUserNotFound):
		status, code = http.StatusNotFound, 40401
	case errors.Is(err, service.ErrNotProjectMember), errors.Is(err, service.ErrNotParticipant),
		errors.Is(err, service.ErrNotSender):
		status, code = http.StatusForbidden, 40302
	case errors.Is(err, service.ErrEditWindowClosed), errors.Is(err, service.ErrDeleteWindowClosed):
		status, code = http.StatusForbidden, 40303
	}

	c.JSON(status, model.ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

// badRequest 请求体解析失败
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Code:    40001,
		Message: "Invalid request body",
		Detail:  err.Error(),
	})
}
