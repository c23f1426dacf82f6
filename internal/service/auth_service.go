package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"huddle/internal/model"
	"huddle/internal/pkg/id"
	"huddle/internal/pkg/jwt"
	"huddle/internal/pkg/password"
	"huddle/internal/repository"
)

// AuthService 认证服务
type AuthService struct {
	userRepo *repository.UserRepo
	jwt      *jwt.JWT
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo *repository.UserRepo, jwtSecret string, accessTokenExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwt:      jwt.NewJWT(jwtSecret, accessTokenExpiry),
	}
}

// JWT 暴露给中间件做 Token 校验
func (s *AuthService) JWT() *jwt.JWT {
	return s.jwt
}

// Register 用户注册
// 新用户默认免费档，订阅状态由外部计费系统写入
func (s *AuthService) Register(ctx context.Context, username, email, pwd string) (*model.User, error) {
	existing, _ := s.userRepo.FindByUsername(ctx, username)
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	existing, _ = s.userRepo.FindByEmail(ctx, email)
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := password.Hash(pwd)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return nil, errors.New("密码加密失败")
	}

	user := &model.User{
		ID:       id.New(),
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Plan:     model.PlanFree,
		Status:   model.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")
		return nil, errors.New("创建用户失败")
	}
	return user, nil
}

// LoginResult 登录结果
type LoginResult struct {
	AccessToken string
	ExpiresIn   int
	TokenType   string
	User        *model.User
}

// Login 用户登录
func (s *AuthService) Login(ctx context.Context, username, pwd string) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}
	if user.Status == model.UserStatusBanned {
		return nil, ErrUserBanned
	}
	if !password.Verify(pwd, user.Password) {
		return nil, ErrInvalidPassword
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate access token")
		return nil, errors.New("生成Token失败")
	}

	if err := s.userRepo.UpdateLastLoginAt(ctx, user.ID); err != nil {
		log.Warn().Err(err).Msg("failed to update last login time")
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int(s.jwt.GetExpiration().Seconds()),
		TokenType:   "Bearer",
		User:        user,
	}, nil
}

// Me 查询当前用户信息
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
