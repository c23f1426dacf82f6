package assistant

import (
	"context"
	"time"

	"huddle/internal/config"
	"huddle/internal/model"
)

const usageKeyPrefix = "assistant:usage:"

// Counter 按日计数器存储
// 生产环境由 Redis 实现（INCR + EXPIREAT 原子管道），多实例并发安全
type Counter interface {
	IncrWithExpireAt(ctx context.Context, key string, expireAt time.Time) (int64, error)
	GetInt64(ctx context.Context, key string) (int64, error)
}

// PlanResolver 查询用户订阅档位（成员/计费系统的只读接口）
type PlanResolver interface {
	PlanOf(ctx context.Context, userID string) (model.Plan, error)
}

// UsageGovernor 按用户按日管控助手调用额度
type UsageGovernor struct {
	counter    Counter
	plans      PlanResolver
	enabled    bool
	dailyLimit int64
	now        func() time.Time
}

// NewUsageGovernor 创建额度管控器
func NewUsageGovernor(counter Counter, plans PlanResolver, cfg *config.AssistantConfig) *UsageGovernor {
	return &UsageGovernor{
		counter:    counter,
		plans:      plans,
		enabled:    cfg.Enabled,
		dailyLimit: cfg.DailyLimit,
		now:        time.Now,
	}
}

// Enabled 全局开关是否打开
func (g *UsageGovernor) Enabled() bool {
	return g.enabled
}

// DailyLimit 订阅用户每日调用上限
func (g *UsageGovernor) DailyLimit() int64 {
	return g.dailyLimit
}

// Subscribed 用户是否持有有效订阅
func (g *UsageGovernor) Subscribed(ctx context.Context, userID string) (bool, error) {
	plan, err := g.plans.PlanOf(ctx, userID)
	if err != nil {
		return false, err
	}
	return plan.Subscribed(), nil
}

// CanInvoke 判断用户现在能否调用助手
// 返回 nil 表示可调用；否则返回 ErrFeatureDisabled / ErrSubscriptionRequired / ErrQuotaExceeded
// 额度检查在上下文聚合与模型调用之前执行，避免浪费
func (g *UsageGovernor) CanInvoke(ctx context.Context, userID string) error {
	if !g.enabled {
		return ErrFeatureDisabled
	}

	plan, err := g.plans.PlanOf(ctx, userID)
	if err != nil {
		return err
	}
	if !plan.Subscribed() {
		return ErrSubscriptionRequired
	}

	used, err := g.DailyUsage(ctx, userID)
	if err != nil {
		return err
	}
	if used >= g.dailyLimit {
		return ErrQuotaExceeded
	}
	return nil
}

// DailyUsage 用户今日已用次数，无记录返回 0
func (g *UsageGovernor) DailyUsage(ctx context.Context, userID string) (int64, error) {
	return g.counter.GetInt64(ctx, g.usageKey(userID))
}

// Remaining 用户今日剩余次数（免费档恒为 0）
func (g *UsageGovernor) Remaining(ctx context.Context, userID string) (int64, error) {
	plan, err := g.plans.PlanOf(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !plan.Subscribed() {
		return 0, nil
	}

	used, err := g.DailyUsage(ctx, userID)
	if err != nil {
		return 0, err
	}
	if used >= g.dailyLimit {
		return 0, nil
	}
	return g.dailyLimit - used, nil
}

// RecordInvocation 记录一次成功调用
// 计数器只增不减，并在次日零点自然过期
func (g *UsageGovernor) RecordInvocation(ctx context.Context, userID string) error {
	_, err := g.counter.IncrWithExpireAt(ctx, g.usageKey(userID), g.endOfDay())
	return err
}

func (g *UsageGovernor) usageKey(userID string) string {
	return usageKeyPrefix + userID + ":" + g.now().Format("20060102")
}

// endOfDay 当日结束时刻（本地时区次日零点）
func (g *UsageGovernor) endOfDay() time.Time {
	now := g.now()
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
}
