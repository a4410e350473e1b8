package controllers

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zYagamiBR/hoa-helper/internal/app/middleware"
	"github.com/zYagamiBR/hoa-helper/internal/domain/services"
	"github.com/zYagamiBR/hoa-helper/internal/domain/services/container"
	"github.com/zYagamiBR/hoa-helper/internal/error/code"
	"github.com/zYagamiBR/hoa-helper/internal/error/response"
)

var startedAt = time.Now()

// HealthCheckController reports liveness and dependency status
type HealthCheckController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
	Cache     *middleware.ResponseCache
}

// NewHealthCheckController creates a health controller. cache may be nil.
func NewHealthCheckController(ctx *gin.Context, container *container.ServiceContainer, cache *middleware.ResponseCache) *HealthCheckController {
	return &HealthCheckController{
		Ctx:       ctx,
		Container: container,
		Cache:     cache,
	}
}

// HandleHealthFunc returns the gin handler for one health method
func HandleHealthFunc(container *container.ServiceContainer, cache *middleware.ResponseCache, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthCheckController(ctx, container, cache)

		switch method {
		case "ping":
			controller.Ping()
		case "status":
			controller.Status()
		case "cacheStats":
			controller.CacheStats()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method")
		}
	}
}

// Ping health check endpoint
// @Summary Ping
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthCheckController) Ping() {
	response.Success(h.Ctx, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Status reports database, redis and runtime state
// @Summary Service status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} response.ErrorResponse
// @Router /health/status [get]
func (h *HealthCheckController) Status() {
	ctx := h.Ctx.Request.Context()
	sqlDB, err := h.Container.GetDB().DB()
	if err != nil {
		response.Fail(h.Ctx, code.ErrConnectionFailed)
		return
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		response.FailWithMessage(h.Ctx, code.ErrConnectionFailed, "database unreachable: "+err.Error())
		return
	}
	stats := sqlDB.Stats()

	redisStatus := "disabled"
	if cache, ok := h.Container.GetService("redis").(services.InterfaceRedisService); ok && cache != nil {
		redisStatus = "up"
		if err := cache.Ping(ctx); err != nil {
			redisStatus = "down"
		}
	}

	response.Success(h.Ctx, gin.H{
		"status": "healthy",
		"uptime": time.Since(startedAt).Round(time.Second).String(),
		"database": gin.H{
			"status":           "up",
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		},
		"redis":      redisStatus,
		"goroutines": runtime.NumGoroutine(),
	})
}

// CacheStats reports the response cache content
// @Summary Response cache stats
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache-stats [get]
func (h *HealthCheckController) CacheStats() {
	if h.Cache == nil {
		response.Success(h.Ctx, gin.H{"enabled": false})
		return
	}
	stats := h.Cache.Stats()
	stats["enabled"] = true
	response.Success(h.Ctx, stats)
}
