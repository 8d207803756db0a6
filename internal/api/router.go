package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/display-service/internal/config"
	"github.com/wfunc/display-service/internal/display"
	"github.com/wfunc/display-service/internal/middleware"
	"github.com/wfunc/display-service/internal/repository"
	"github.com/wfunc/display-service/internal/utils"
	ws "github.com/wfunc/display-service/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Router API路由器
type Router struct {
	engine           *gin.Engine
	db               *gorm.DB
	manager          *display.Manager
	authHandler      *AuthHandler
	displayHandler   *DisplayHandler
	recordingHandler *RecordingHandler
	eventAPI         *DeviceEventAPI
	wsHandler        *WebSocketHandler
	authMiddleware   *middleware.AuthMiddleware
	log              *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(cfg *config.Config, db *gorm.DB, manager *display.Manager, hub *ws.Hub, log *zap.Logger) *Router {
	// 创建Gin引擎
	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	// JWT管理器
	jwtManager := utils.NewJWTManager(
		cfg.Security.JWT.Secret,
		time.Duration(cfg.Security.JWT.ExpireHours)*time.Hour,
		time.Duration(cfg.Security.JWT.RefreshHours)*time.Hour,
	)

	// 创建处理器
	authHandler := NewAuthHandler(&cfg.Security.Admin, jwtManager, log)
	displayHandler := NewDisplayHandler(manager, log)
	recordingHandler := NewRecordingHandler(manager, repository.NewRecordingRepository(db), cfg.Display.Recording.Persist, log)
	eventAPI := NewDeviceEventAPI(repository.NewDeviceEventRepository(db))
	wsHandler := NewWebSocketHandler(hub, &cfg.WebSocket, log)

	// 创建中间件
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	router := &Router{
		engine:           engine,
		db:               db,
		manager:          manager,
		authHandler:      authHandler,
		displayHandler:   displayHandler,
		recordingHandler: recordingHandler,
		eventAPI:         eventAPI,
		wsHandler:        wsHandler,
		authMiddleware:   authMiddleware,
		log:              log,
	}

	// 设置路由
	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	// API v1路由组
	v1 := r.engine.Group("/api/v1")
	{
		// 认证相关路由（不需要认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/refresh", r.authHandler.RefreshToken)
		}

		// 显示屏控制、录制与事件查询（需要认证）
		authorized := v1.Group("")
		authorized.Use(r.authMiddleware.RequireAuth())
		{
			r.displayHandler.RegisterRoutes(authorized)
			r.recordingHandler.RegisterRoutes(authorized)
			r.eventAPI.RegisterRoutes(authorized)
			authorized.GET("/ws/online", r.wsHandler.GetOnlineCount)
		}
	}

	// WebSocket事件推送（可选认证，握手时通过query携带token）
	wsGroup := r.engine.Group("/ws")
	wsGroup.Use(r.authMiddleware.OptionalAuth())
	{
		wsGroup.GET("", r.wsHandler.EventStream)
	}

	// Swagger文档（仅 -tags swagger 构建时启用）
	registerSwaggerRoutes(r.engine)

	// 404处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    "NOT_FOUND",
			"message": "接口不存在",
		})
	})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	// 检查数据库连接
	sqlDB, err := r.db.DB()
	if err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库连接失败",
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库ping失败",
		})
		return
	}

	c.JSON(200, gin.H{
		"status":  "healthy",
		"device":  r.manager.IsRunning(),
		"message": "服务运行正常",
	})
}

// Run 运行服务器
func (r *Router) Run(addr string) error {
	r.log.Info("Starting API server", zap.String("address", addr))
	return r.engine.Run(addr)
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
