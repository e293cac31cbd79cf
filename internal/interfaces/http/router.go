package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/adminauth/internal/config"
	"github.com/turtacn/adminauth/internal/infrastructure/monitoring"
	"github.com/turtacn/adminauth/internal/interfaces/http/handlers"
	"github.com/turtacn/adminauth/internal/interfaces/http/middleware"
	"github.com/turtacn/adminauth/pkg/constants"
	"github.com/turtacn/adminauth/pkg/logger"
)

// Router HTTP 路由器
type Router struct {
	engine        *gin.Engine
	config        *config.Config
	logger        logger.Logger
	healthHandler *handlers.HealthHandler
	authHandler   *handlers.AuthHandler
	meHandler     *handlers.MeHandler
	authenticator *middleware.Authenticator
	tracer        trace.Tracer
	metrics       *monitoring.Metrics
	gatherer      prometheus.Gatherer
	server        *http.Server
}

// RouterDeps groups the collaborators of the router.
type RouterDeps struct {
	HealthHandler *handlers.HealthHandler
	AuthHandler   *handlers.AuthHandler
	MeHandler     *handlers.MeHandler
	Authenticator *middleware.Authenticator
	Tracer        trace.Tracer
	Metrics       *monitoring.Metrics
	// Gatherer backs /metrics; nil means the default registry.
	Gatherer prometheus.Gatherer
}

// NewRouter 创建路由器
func NewRouter(cfg *config.Config, log logger.Logger, deps RouterDeps) *Router {
	// 设置 Gin 模式
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:        gin.New(),
		config:        cfg,
		logger:        log,
		healthHandler: deps.HealthHandler,
		authHandler:   deps.AuthHandler,
		meHandler:     deps.MeHandler,
		authenticator: deps.Authenticator,
		tracer:        deps.Tracer,
		metrics:       deps.Metrics,
		gatherer:      deps.Gatherer,
	}
	r.setupRoutes()
	r.server = &http.Server{
		Addr:           cfg.Server.Address(),
		Handler:        r.engine,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
	return r
}

// Engine exposes the gin engine, mainly for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 全局中间件
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Observability(r.tracer, r.metrics))
	r.engine.Use(middleware.AccessLog(r.logger))
	r.engine.Use(middleware.Recovery(r.logger))

	// CORS 配置
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", constants.HeaderAuthorization, constants.HeaderRequestID},
		ExposeHeaders: []string{constants.HeaderRequestID, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if allowsAnyOrigin(r.config.Server.AllowedOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = r.config.Server.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	r.engine.Use(cors.New(corsConfig))

	// 健康检查路由（不需要认证）
	r.engine.GET("/health", r.healthHandler.HealthCheck)
	r.engine.GET("/ready", r.healthHandler.ReadinessCheck)
	r.engine.GET("/live", r.healthHandler.LivenessCheck)

	// Prometheus metrics
	gatherer := r.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Pprof 性能分析（仅在非生产环境）
	if r.config.Server.Environment != "production" {
		pprof.Register(r.engine)
	}

	// 认证与路由策略
	secured := r.engine.Group("/")
	secured.Use(r.authenticator.Authenticate())
	secured.Use(middleware.Authorize(r.config.Security.ProtectedPrefixes))
	{
		secured.POST(constants.LoginPath, r.authHandler.Login)

		admin := secured.Group("/api/admin")
		admin.Use(middleware.RequireAuthority(constants.AuthorityAdmin))
		{
			admin.GET("/me", r.meHandler.Me)
		}
	}

	// 404 处理: protected prefixes still answer 401 to anonymous callers.
	r.engine.NoRoute(r.authenticator.Authenticate(), middleware.Authorize(r.config.Security.ProtectedPrefixes), func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "The requested resource was not found", "code": "not_found"})
	})
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}

// Start 启动 HTTP 服务器，阻塞直到服务器关闭
func (r *Router) Start() error {
	r.logger.Info(context.Background(), "Starting HTTP server", logger.String("address", r.server.Addr))

	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop 停止 HTTP 服务器
func (r *Router) Stop(ctx context.Context) error {
	r.logger.Info(ctx, "Stopping HTTP server...")
	return r.server.Shutdown(ctx)
}

//Personal.AI order the ending
