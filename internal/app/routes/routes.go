package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zYagamiBR/hoa-helper/internal/app/controllers"
	"github.com/zYagamiBR/hoa-helper/internal/app/middleware"
	"github.com/zYagamiBR/hoa-helper/internal/domain/services/container"
	"github.com/zYagamiBR/hoa-helper/internal/error/code"
	"github.com/zYagamiBR/hoa-helper/internal/error/response"
	"github.com/zYagamiBR/hoa-helper/internal/infrastructure/config"
)

// SetupRouter initializes the gin engine with every route. redisClient may be nil.
func SetupRouter(db *gorm.DB, cfg *config.Config, redisClient *redis.Client, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, code.ErrNotFound)
	})

	serviceContainer := container.NewServiceContainer(db, cfg, redisClient, log)
	cache := middleware.NewResponseCache(cfg.CacheTTL)
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  cfg.RateLimit,
		Burst: cfg.RateLimitBurst,
	})

	registerRoutes(r, serviceContainer, cache, limiter)
	return r
}

// registerRoutes configures every API route
func registerRoutes(
	r *gin.Engine,
	svc *container.ServiceContainer,
	cache *middleware.ResponseCache,
	limiter *middleware.RateLimiter,
) {
	api := r.Group("/api")
	api.Use(limiter.Middleware())

	registerHealthRoutes(api, svc, cache)

	// every route below is cached for GET and purged by writes
	cached := api.Group("")
	cached.Use(cache.Middleware())

	bills := cached.Group("/bills")
	bills.GET("/categories", controllers.BillCategories)
	bills.GET("/frequencies", controllers.BillFrequencies)

	for _, name := range container.ResourceNames {
		registerResourceRoutes(cached, svc, name)
	}

	transfer := cached.Group("/import-export/:entity")
	transfer.GET("/template", controllers.HandleTransferFunc(svc, "template"))
	transfer.POST("/import", controllers.HandleTransferFunc(svc, "import"))
	transfer.GET("/export", controllers.HandleTransferFunc(svc, "export"))

	// reports change on every generation, so they skip the response cache
	reports := api.Group("/reports")
	reports.GET("/templates", controllers.HandleReportFunc(svc, "templates"))
	reports.POST("/quick-generate", controllers.HandleReportFunc(svc, "quickGenerate"))
	reports.GET("/generations", controllers.HandleReportFunc(svc, "generations"))
	reports.GET("/download/:id", controllers.HandleReportFunc(svc, "download"))
	reports.GET("/dashboard", controllers.HandleReportFunc(svc, "dashboard"))
}

func registerHealthRoutes(api *gin.RouterGroup, svc *container.ServiceContainer, cache *middleware.ResponseCache) {
	api.GET("/ping", controllers.HandleHealthFunc(svc, cache, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(svc, cache, "ping"))

	health := api.Group("/health")
	health.GET("/status", controllers.HandleHealthFunc(svc, cache, "status"))
	health.GET("/cache-stats", controllers.HandleHealthFunc(svc, cache, "cacheStats"))
}

func registerResourceRoutes(api *gin.RouterGroup, svc *container.ServiceContainer, name string) {
	group := api.Group("/" + name)
	group.GET("", controllers.HandleResourceFunc(svc, name, "list"))
	group.GET("/:id", controllers.HandleResourceFunc(svc, name, "get"))
	group.POST("", controllers.HandleResourceFunc(svc, name, "create"))
	group.PUT("/:id", controllers.HandleResourceFunc(svc, name, "update"))
	group.DELETE("/:id", controllers.HandleResourceFunc(svc, name, "delete"))
}
