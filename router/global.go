package router

import (
	"net/http"
	"time"

	"github.com/Xushengqwer/go-common/core"
	commonMiddleware "github.com/Xushengqwer/go-common/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	otelgin "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	appConfig "github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/controller"
)

// SetupRouter 仅负责配置 Gin 引擎、中间件和路由注册。
func SetupRouter(
	logger *core.ZapLogger,
	cfg *appConfig.BlogConfig,
	postController *controller.PostController,
	popularController *controller.PopularPostController,
	postAdminController *controller.PostAdminController,
	newsletterController *controller.NewsletterController,
) *gin.Engine {
	logger.Info("开始设置 Gin 路由...")

	// 自定义 Recovery 和 Logger，不用 gin.Default()
	router := gin.New()

	// 1. OTel Middleware (最先，处理追踪上下文和 Span)
	router.Use(otelgin.Middleware(constant.ServiceName))

	// 2. Panic Recovery (捕获后续中间件和 handler 的 panic)
	router.Use(commonMiddleware.ErrorHandlingMiddleware(logger))

	// 3. Request Logger (记录访问日志，需要 TraceID)
	if baseLogger := logger.Logger(); baseLogger != nil {
		router.Use(commonMiddleware.RequestLoggerMiddleware(baseLogger))
	} else {
		logger.Warn("无法获取底层的 *zap.Logger，跳过 RequestLoggerMiddleware 注册")
	}

	// 4. Request Timeout (超时控制)
	requestTimeout := time.Duration(cfg.ServerConfig.RequestTimeout) * time.Second
	router.Use(commonMiddleware.RequestTimeoutMiddleware(logger, requestTimeout))

	// 5. User Context (提取网关透传的用户信息)
	router.Use(commonMiddleware.UserContextMiddleware())

	logger.Debug("已注册全局中间件")

	// --- 创建 API 版本分组并注册控制器路由 ---
	v1 := router.Group("/api/v1/blog")
	postController.RegisterRoutes(v1)
	popularController.RegisterRoutes(v1)
	postAdminController.RegisterRoutes(v1)
	newsletterController.RegisterRoutes(v1)
	logger.Info("所有控制器路由已注册到 /api/v1/blog 分组")

	// --- Swagger UI ---
	swaggerURL := ginSwagger.URL("/swagger/doc.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, swaggerURL))

	// --- 健康检查 ---
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	logger.Info("Gin 路由器设置完成")
	return router
}
