package service

import "errors"

// 服务层业务错误，Handler 层统一映射为 HTTP 状态码
var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrUserAlreadyExists = errors.New("用户已存在")
	ErrEmailTaken        = errors.New("邮箱已被注册")
	ErrInvalidPassword   = errors.New("密码错误")
	ErrUserBanned        = errors.New("用户已被禁用")

	ErrProjectNotFound      = errors.New("项目不存在")
	ErrNotProjectMember     = errors.New("不是项目成员")
	ErrTooFewMembers        = errors.New("项目成员不足，无法创建会话")
	ErrConversationNotFound = errors.New("会话不存在")
	ErrNotParticipant       = errors.New("不是会话成员")

	ErrMessageNotFound    = errors.New("消息不存在")
	ErrNotSender          = errors.New("只能操作自己发送的消息")
	ErrParentMismatch     = errors.New("回复目标不在当前会话中")
	ErrEditWindowClosed   = errors.New("已超出可编辑时间")
	ErrDeleteWindowClosed = errors.New("已超出可删除时间")

	ErrInputTooLong = errors.New("输入文本过长")
	ErrEmptyInput   = errors.New("输入文本不能为空")
)
