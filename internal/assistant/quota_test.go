package assistant

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"huddle/internal/config"
	"huddle/internal/model"
)

// fakeCounter 内存计数器，记录过期时间供断言
type fakeCounter struct {
	values    map[string]int64
	expireAts map[string]time.Time
	err       error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{
		values:    make(map[string]int64),
		expireAts: make(map[string]time.Time),
	}
}

func (c *fakeCounter) IncrWithExpireAt(_ context.Context, key string, expireAt time.Time) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.values[key]++
	c.expireAts[key] = expireAt
	return c.values[key], nil
}

func (c *fakeCounter) GetInt64(_ context.Context, key string) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	return c.values[key], nil
}

// fakePlans 固定档位表
type fakePlans struct {
	plans map[string]model.Plan
}

func (p *fakePlans) PlanOf(_ context.Context, userID string) (model.Plan, error) {
	if plan, ok := p.plans[userID]; ok {
		return plan, nil
	}
	return model.PlanFree, nil
}

func newGovernor(counter Counter, plans PlanResolver, enabled bool, limit int64) *UsageGovernor {
	g := NewUsageGovernor(counter, plans, &config.AssistantConfig{
		Enabled:    enabled,
		DailyLimit: limit,
	})
	g.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)
	}
	return g
}

func TestUsageGovernor_CanInvoke(t *testing.T) {
	Convey("UsageGovernor.CanInvoke 按开关、档位、额度逐层拦截", t, func() {
		ctx := context.Background()
		counter := newFakeCounter()
		plans := &fakePlans{plans: map[string]model.Plan{
			"pro-user":  model.PlanPro,
			"free-user": model.PlanFree,
		}}

		Convey("全局开关关闭时任何人都不能调用", func() {
			g := newGovernor(counter, plans, false, 50)
			So(g.CanInvoke(ctx, "pro-user"), ShouldEqual, ErrFeatureDisabled)
		})

		Convey("免费档用户被拒绝", func() {
			g := newGovernor(counter, plans, true, 50)
			So(g.CanInvoke(ctx, "free-user"), ShouldEqual, ErrSubscriptionRequired)
		})

		Convey("订阅用户额度内可调用", func() {
			g := newGovernor(counter, plans, true, 50)
			So(g.CanInvoke(ctx, "pro-user"), ShouldBeNil)
		})

		Convey("订阅用户达到上限后被拒绝", func() {
			g := newGovernor(counter, plans, true, 2)
			So(g.RecordInvocation(ctx, "pro-user"), ShouldBeNil)
			So(g.RecordInvocation(ctx, "pro-user"), ShouldBeNil)
			So(g.CanInvoke(ctx, "pro-user"), ShouldEqual, ErrQuotaExceeded)
		})

		Convey("跨天后额度恢复可调用", func() {
			g := newGovernor(counter, plans, true, 2)
			So(g.RecordInvocation(ctx, "pro-user"), ShouldBeNil)
			So(g.RecordInvocation(ctx, "pro-user"), ShouldBeNil)
			So(g.CanInvoke(ctx, "pro-user"), ShouldEqual, ErrQuotaExceeded)

			g.now = func() time.Time {
				return time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
			}
			So(g.CanInvoke(ctx, "pro-user"), ShouldBeNil)
		})
	})
}

func TestUsageGovernor_Accounting(t *testing.T) {
	Convey("UsageGovernor 的计数与过期语义", t, func() {
		ctx := context.Background()
		counter := newFakeCounter()
		plans := &fakePlans{plans: map[string]model.Plan{"pro-user": model.PlanPro}}
		g := newGovernor(counter, plans, true, 10)

		Convey("计数键包含用户与日期", func() {
			So(g.RecordInvocation(ctx, "pro-user"), ShouldBeNil)

			key := "assistant:usage:pro-user:20260314"
			So(counter.values[key], ShouldEqual, 1)
		})

		Convey("过期时间为次日零点", func() {
			So(g.RecordInvocation(ctx, "pro-user"), ShouldBeNil)

			key := "assistant:usage:pro-user:20260314"
			So(counter.expireAts[key], ShouldEqual, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
		})

		Convey("Remaining 随用量递减", func() {
			remaining, err := g.Remaining(ctx, "pro-user")
			So(err, ShouldBeNil)
			So(remaining, ShouldEqual, 10)

			So(g.RecordInvocation(ctx, "pro-user"), ShouldBeNil)
			So(g.RecordInvocation(ctx, "pro-user"), ShouldBeNil)

			remaining, err = g.Remaining(ctx, "pro-user")
			So(err, ShouldBeNil)
			So(remaining, ShouldEqual, 8)
		})

		Convey("免费档 Remaining 恒为 0", func() {
			remaining, err := g.Remaining(ctx, "free-user")
			So(err, ShouldBeNil)
			So(remaining, ShouldEqual, 0)
		})

		Convey("无记录时 DailyUsage 为 0", func() {
			used, err := g.DailyUsage(ctx, "pro-user")
			So(err, ShouldBeNil)
			So(used, ShouldEqual, 0)
		})

		Convey("跨天后用量归零", func() {
			So(g.RecordInvocation(ctx, "pro-user"), ShouldBeNil)
			So(g.RecordInvocation(ctx, "pro-user"), ShouldBeNil)

			g.now = func() time.Time {
				return time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC)
			}

			used, err := g.DailyUsage(ctx, "pro-user")
			So(err, ShouldBeNil)
			So(used, ShouldEqual, 0)

			remaining, err := g.Remaining(ctx, "pro-user")
			So(err, ShouldBeNil)
			So(remaining, ShouldEqual, 10)
		})
	})
}
