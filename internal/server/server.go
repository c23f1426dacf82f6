package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"huddle/internal/ai/component"
	"huddle/internal/assistant"
	"huddle/internal/config"
	"huddle/internal/handler"
	"huddle/internal/pkg/cache"
	"huddle/internal/pkg/mongodb"
	"huddle/internal/realtime"
	"huddle/internal/repository"
	"huddle/internal/server/middleware"
	"huddle/internal/service"
	"huddle/internal/task"
)

// Server HTTP 服务器
// 同进程内运行 HTTP、WebSocket Hub 与 asynq 消费端
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
	redis  *cache.RedisCache
	hub    *realtime.Hub

	taskClient *task.Client
	taskServer *task.Server
}

// New 创建服务器实例并完成全部依赖装配
func New(cfg *config.Config) (*Server, error) {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	mongoClient, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")
	if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	redisCache, err := cache.NewRedisCache(&cfg.Redis)
	if err != nil {
		return nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	// 仓库
	db := mongoClient.Database()
	userRepo := repository.NewUserRepo(db)
	projectRepo := repository.NewProjectRepo(db)
	taskRepo := repository.NewTaskRepo(db)
	activityRepo := repository.NewActivityRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	attachmentRepo := repository.NewAttachmentRepo(db)
	conversationRepo := repository.NewConversationRepo(db)
	messageRepo := repository.NewMessageRepo(db)

	// 外部模型：没有可用的 API Key 时强制关闭助手功能
	assistantCfg := cfg.Assistant
	var invoker *assistant.Invoker
	if cfg.AI.APIKey != "" {
		chatModel, err := component.NewChatModel(context.Background(), &cfg.AI)
		if err != nil {
			return nil, err
		}
		invoker = assistant.NewInvoker(chatModel, assistantCfg.InvokeTimeout)
		log.Info().Str("provider", cfg.AI.Provider).Str("model", cfg.AI.Model).Msg("initialized chat model")
	} else {
		assistantCfg.Enabled = false
		invoker = assistant.NewInvoker(nil, assistantCfg.InvokeTimeout)
		log.Warn().Msg("AI API key not configured, assistant disabled")
	}

	// 助手核心
	hub := realtime.NewHub()
	detector := assistant.NewMentionDetector(assistantCfg.Aliases)
	governor := assistant.NewUsageGovernor(redisCache, userRepo, &assistantCfg)
	aggregator := assistant.NewAggregator(
		projectRepo, taskRepo, activityRepo, commentRepo, attachmentRepo, messageRepo,
		assistant.NewKeywordClassifier(), assistantCfg.Context,
	)
	orchestrator := assistant.NewOrchestrator(
		detector, governor, aggregator, invoker,
		assistant.NewHubEvents(hub), conversationRepo, messageRepo,
	)

	// 异步任务
	taskClient := task.NewClient(&cfg.Redis)
	taskServer := task.NewServer(&cfg.Redis, assistantCfg.Worker.Concurrency)
	taskServer.RegisterMentionHandler(orchestrator)

	srv := &Server{
		cfg:        cfg,
		engine:     engine,
		mongo:      mongoClient,
		redis:      redisCache,
		hub:        hub,
		taskClient: taskClient,
		taskServer: taskServer,
	}

	srv.setupRoutes(userRepo, projectRepo, taskRepo, conversationRepo, messageRepo, detector, governor, invoker)
	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(
	userRepo *repository.UserRepo,
	projectRepo *repository.ProjectRepo,
	taskRepo *repository.TaskRepo,
	conversationRepo *repository.ConversationRepo,
	messageRepo *repository.MessageRepo,
	detector *assistant.MentionDetector,
	governor *assistant.UsageGovernor,
	invoker *assistant.Invoker,
) {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查
	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	jwtSecret := s.cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		log.Warn().Msg("JWT secret not configured, using default (NOT SECURE for production)")
	}
	accessTokenExpiry := s.cfg.Auth.AccessTokenExpiry
	if accessTokenExpiry == 0 {
		accessTokenExpiry = 24 * time.Hour
	}

	// 服务
	authSvc := service.NewAuthService(userRepo, jwtSecret, accessTokenExpiry)
	conversationSvc := service.NewConversationService(conversationRepo, projectRepo)
	messageSvc := service.NewMessageService(messageRepo, conversationRepo, detector, s.taskClient, s.hub, &s.cfg.Chat)
	assistantSvc := service.NewAssistantService(governor, invoker, projectRepo, taskRepo, &s.cfg.Assistant)

	// 处理器
	authHdl := handler.NewAuthHandler(authSvc)
	conversationHdl := handler.NewConversationHandler(conversationSvc)
	messageHdl := handler.NewMessageHandler(messageSvc)
	assistantHdl := handler.NewAssistantHandler(assistantSvc)
	wsHdl := handler.NewWSHandler(s.hub)

	// API v1
	v1 := s.engine.Group("/api/v1")
	{
		v1.POST("/auth/register", authHdl.Register)
		v1.POST("/auth/login", authHdl.Login)

		authed := v1.Group("")
		authed.Use(middleware.Auth(authSvc.JWT()))
		{
			authed.GET("/auth/me", authHdl.Me)
			authed.GET("/ws", wsHdl.Connect)

			authed.POST("/projects/:id/conversation", conversationHdl.EnsureProjectConversation)
			authed.GET("/conversations", conversationHdl.List)
			authed.GET("/conversations/:id/messages", messageHdl.List)
			authed.POST("/conversations/:id/messages", messageHdl.Send)
			authed.PATCH("/messages/:id", messageHdl.Edit)
			authed.DELETE("/messages/:id", messageHdl.Delete)

			authed.POST("/ai/tasks/parse", assistantHdl.ParseTask)
			authed.POST("/ai/tasks/description", assistantHdl.SuggestDescription)
			authed.POST("/ai/tasks/priority", assistantHdl.SuggestPriority)
			authed.POST("/ai/projects/:id/labels/suggest", assistantHdl.SuggestLabels)
			authed.GET("/ai/status", assistantHdl.Status)
		}
	}
}

// Run 启动服务器，ctx 取消后优雅退出
func (s *Server) Run(ctx context.Context, addr string) error {
	if err := s.taskServer.Start(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		s.taskServer.Shutdown()
		s.hub.Close()

		if err := s.taskClient.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close task client")
		}
		if err := s.mongo.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close MongoDB connection")
		}
		if err := s.redis.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Redis connection")
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
