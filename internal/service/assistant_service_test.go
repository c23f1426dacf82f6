package service

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"huddle/internal/assistant"
	"huddle/internal/config"
	"huddle/internal/model"
)

// stubCounter 单值计数器，忽略键名
type stubCounter struct {
	value int64
}

func (c *stubCounter) IncrWithExpireAt(_ context.Context, _ string, _ time.Time) (int64, error) {
	c.value++
	return c.value, nil
}

func (c *stubCounter) GetInt64(_ context.Context, _ string) (int64, error) {
	return c.value, nil
}

// stubPlans 所有用户同一档位
type stubPlans struct {
	plan model.Plan
}

func (p *stubPlans) PlanOf(_ context.Context, _ string) (model.Plan, error) {
	return p.plan, nil
}

func newStatusService(enabled bool, plan model.Plan, used int64) *AssistantService {
	governor := assistant.NewUsageGovernor(
		&stubCounter{value: used},
		&stubPlans{plan: plan},
		&config.AssistantConfig{Enabled: enabled, DailyLimit: 10},
	)
	return NewAssistantService(governor, nil, nil, nil, &config.AssistantConfig{})
}

func TestAssistantStatus(t *testing.T) {
	Convey("助手状态查询", t, func() {
		ctx := context.Background()

		Convey("功能关闭时仍返回真实用量与订阅状态", func() {
			svc := newStatusService(false, model.PlanPro, 3)

			status, err := svc.Status(ctx, "alice")

			So(err, ShouldBeNil)
			So(status.Enabled, ShouldBeFalse)
			So(status.CanInvoke, ShouldBeFalse)
			So(status.UsedToday, ShouldEqual, 3)
			So(status.Remaining, ShouldEqual, 7)
			So(status.Subscribed, ShouldBeTrue)
			So(status.DailyLimit, ShouldEqual, 10)
		})

		Convey("订阅用户额度内可调用", func() {
			svc := newStatusService(true, model.PlanPro, 3)

			status, err := svc.Status(ctx, "alice")

			So(err, ShouldBeNil)
			So(status.Enabled, ShouldBeTrue)
			So(status.CanInvoke, ShouldBeTrue)
			So(status.UsedToday, ShouldEqual, 3)
			So(status.Remaining, ShouldEqual, 7)
		})

		Convey("免费档用户不可调用且剩余为 0", func() {
			svc := newStatusService(true, model.PlanFree, 0)

			status, err := svc.Status(ctx, "alice")

			So(err, ShouldBeNil)
			So(status.Enabled, ShouldBeTrue)
			So(status.CanInvoke, ShouldBeFalse)
			So(status.Subscribed, ShouldBeFalse)
			So(status.Remaining, ShouldEqual, 0)
		})

		Convey("额度用尽后不可调用", func() {
			svc := newStatusService(true, model.PlanPro, 10)

			status, err := svc.Status(ctx, "alice")

			So(err, ShouldBeNil)
			So(status.CanInvoke, ShouldBeFalse)
			So(status.Remaining, ShouldEqual, 0)
			So(status.UsedToday, ShouldEqual, 10)
		})
	})
}
