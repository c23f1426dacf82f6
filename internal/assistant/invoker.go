package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Invoker 封装一次外部模型调用
// 不做重试：失败直接上抛，由编排层决定如何收尾
type Invoker struct {
	chatModel model.BaseChatModel
	timeout   time.Duration
}

// NewInvoker 创建模型调用器
func NewInvoker(chatModel model.BaseChatModel, timeout time.Duration) *Invoker {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Invoker{chatModel: chatModel, timeout: timeout}
}

// Generate 执行一次带超时的补全调用
// 调用异常（含超时）返回 ErrProviderFailure，空响应返回 ErrEmptyCompletion
func (inv *Invoker) Generate(ctx context.Context, system, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(prompt),
	}

	resp, err := inv.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Content, nil
}
