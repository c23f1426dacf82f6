package id

import (
	"github.com/google/uuid"
)

// New 生成字符串形式的 UUID，用作各集合的 _id
func New() string {
	return uuid.NewString()
}

// IsValid 校验是否为合法的 UUID
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
