package model

import (
	"time"
)

// Plan 订阅档位
// 计费系统是外部协作方，这里只保存当前生效的档位
type Plan string

const (
	PlanFree Plan = "free" // 免费档，无法调用助手
	PlanPro  Plan = "pro"  // 订阅档，按日限额调用助手
)

// IsValid 检查档位是否有效
func (p Plan) IsValid() bool {
	return p == PlanFree || p == PlanPro
}

// Subscribed 是否持有有效订阅
func (p Plan) Subscribed() bool {
	return p == PlanPro
}

// User 用户实体
// ID使用UUID格式（string），避免ObjectID转换的麻烦
type User struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Username    string     `bson:"username" json:"username"`
	Email       string     `bson:"email" json:"email"`
	Password    string     `bson:"password" json:"-"` // 密码（加密存储，不返回）
	Plan        Plan       `bson:"plan" json:"plan"`
	Status      UserStatus `bson:"status" json:"status"`
	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// UserStatus 用户状态
type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"
)
