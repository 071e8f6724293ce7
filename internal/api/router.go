package api

import (
	"context"
	"net/http"
	"time"

	analysisHandler "recipe-health-analyzer/internal/api/handlers/analysis"
	"recipe-health-analyzer/internal/api/handlers/health"
	"recipe-health-analyzer/internal/api/middleware"
	coreanalysis "recipe-health-analyzer/internal/core/analysis"
	"recipe-health-analyzer/internal/core/estimate"
	"recipe-health-analyzer/internal/core/lookup"
	"recipe-health-analyzer/internal/core/lookup/cache"
	"recipe-health-analyzer/internal/core/swap"
	"recipe-health-analyzer/internal/infrastructure/config"
	"recipe-health-analyzer/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB)，純 JSON 請求用不到更大
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.CacheManager, redisCache *cache.Service) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 速率限制與請求去重
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("flavordb_enabled", cfg.FlavorDB.Enabled),
		zap.Bool("openrouter_enabled", cfg.OpenRouter.Enabled),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化查詢與估算管線
	lookupService := lookup.NewService(cfg, cacheManager, redisCache)
	estimateService := estimate.NewService(cfg)

	// 替代排名：風味服務停用時退化為純靜態表模式
	tables := swap.NewTables()
	var flavorService swap.FlavorService
	if cfg.FlavorDB.Enabled {
		flavorService = lookup.NewFlavorDBClient(&cfg.FlavorDB)
	}
	ranker := swap.NewRanker(tables, swap.NewSemanticReranker(), flavorService)

	orchestrator := coreanalysis.NewOrchestrator(lookupService, estimateService, tables, ranker)

	// 全局中間件：設置超時與服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		// 創建新的請求上下文
		req := c.Request.WithContext(ctx)
		c.Request = req

		// 設置配置與快取（健康檢查使用）
		c.Set("config", cfg)
		c.Set("cache_manager", cacheManager)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		handler := analysisHandler.NewHandler(orchestrator)

		analysisGroup := api.Group("/analysis")
		{
			// 完整分析：評分、風險食材、替代建議、最佳情境投影
			analysisGroup.POST("/analyze", handler.HandleAnalyze)

			// 套用已接受替代後重新計算
			analysisGroup.POST("/recalculate", handler.HandleRecalculate)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("flavordb_enabled", cfg.FlavorDB.Enabled),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
