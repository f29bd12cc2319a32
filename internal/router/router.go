package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"collab-board-api/internal/command"
	"collab-board-api/internal/handler"
	"collab-board-api/internal/metrics"
	"collab-board-api/internal/middleware"
	"collab-board-api/internal/permission"
	"collab-board-api/internal/query"
	"collab-board-api/internal/realtime"
	"collab-board-api/internal/repository"
	"collab-board-api/internal/token"
)

// Config carries the router's dependencies
type Config struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	Tokens         *token.Manager
	Submitter      command.ActivitySubmitter
	Registry       *realtime.Registry
	AllowedOrigins []string
}

// Setup builds the gin engine with every route wired
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Repositories and authorization
	userRepo := repository.NewUserRepository(cfg.DB)
	boardRepo := repository.NewBoardRepository(cfg.DB)
	memberRepo := repository.NewMemberRepository(cfg.DB)
	cardRepo := repository.NewCardRepository(cfg.DB)
	activityRepo := repository.NewActivityRepository(cfg.DB)
	perm := permission.NewService(memberRepo)

	// Command and query handlers
	boardCommands := command.NewBoardHandler(cfg.DB, cfg.Submitter, cfg.Logger)
	cardCommands := command.NewCardHandler(cfg.DB, cfg.Submitter, cfg.Logger)
	memberCommands := command.NewMemberHandler(cfg.DB, cfg.Submitter, cfg.Logger)
	boardQueries := query.NewBoardHandler(boardRepo, memberRepo, perm)
	cardQueries := query.NewCardHandler(cardRepo, boardRepo, perm)
	activityQueries := query.NewActivityHandler(activityRepo, boardRepo, perm)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(userRepo, cfg.Tokens, cfg.Logger)
	boardHandler := handler.NewBoardHandler(boardCommands, boardQueries, cfg.Metrics)
	cardHandler := handler.NewCardHandler(cardCommands, cardQueries, cfg.Metrics)
	memberHandler := handler.NewMemberHandler(memberCommands, boardQueries, cfg.Metrics)
	activityHandler := handler.NewActivityHandler(activityQueries)
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)
	sessionHandler := realtime.NewSessionHandler(cfg.Registry, perm, cfg.Tokens, cfg.Metrics, cfg.Logger)

	// Health and metrics (no auth)
	r.GET("/health", healthHandler.Live)
	r.GET("/health/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Websocket endpoint authenticates via query token inside the handler
	r.GET("/ws", sessionHandler.Handle)

	// Auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.Auth(cfg.Tokens), authHandler.Me)
	}

	// API routes (require auth)
	api := r.Group("/api")
	api.Use(middleware.Auth(cfg.Tokens))
	{
		boards := api.Group("/boards")
		{
			boards.POST("", boardHandler.Create)
			boards.GET("", boardHandler.List)
			boards.GET("/:boardId", boardHandler.Get)
			boards.PATCH("/:boardId", boardHandler.Update)
			boards.DELETE("/:boardId", boardHandler.Delete)

			boards.POST("/:boardId/cards", cardHandler.Create)
			boards.GET("/:boardId/cards", cardHandler.List)
			boards.GET("/:boardId/cards/:cardId", cardHandler.Get)
			boards.PATCH("/:boardId/cards/:cardId", cardHandler.Update)
			boards.DELETE("/:boardId/cards/:cardId", cardHandler.Delete)

			boards.POST("/:boardId/members", memberHandler.Add)
			boards.GET("/:boardId/members", memberHandler.List)
			boards.PATCH("/:boardId/members/:userId", memberHandler.UpdateRole)
			boards.DELETE("/:boardId/members/:userId", memberHandler.Remove)

			boards.GET("/:boardId/activity", activityHandler.List)
		}
	}

	return r
}
