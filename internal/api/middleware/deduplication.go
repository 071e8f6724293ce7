package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-health-analyzer/internal/infrastructure/config"
	"recipe-health-analyzer/internal/pkg/common"
)

var (
	// 請求緩存，用於去重
	requestCache = struct {
		sync.RWMutex
		requests map[string]time.Time
	}{
		requests: make(map[string]time.Time),
	}

	// 啟動自動清理 goroutine（只啟動一次）
	cleanupOnce sync.Once
)

// 啟動自動清理 goroutine
func startDeduplicationCleanup(cfg *config.Config) {
	cleanupOnce.Do(func() {
		interval := 10 * time.Minute
		window := 1 * time.Second
		if cfg != nil && cfg.DedupWindow > 0 {
			window = cfg.DedupWindow
		}
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for range ticker.C {
				now := time.Now()
				requestCache.Lock()
				for k, t := range requestCache.requests {
					if now.Sub(t) > 10*window {
						delete(requestCache.requests, k)
					}
				}
				requestCache.Unlock()
			}
		}()
	})
}

// 只有分析路由需要去重：分析是唯一高成本的操作（上游查詢 + 評分），
// 健康檢查與其他路由不攔截
const analysisRoutePrefix = "/api/v1/analysis/"

// Deduplication 分析請求去重中間件
// 相同路徑與請求體在去重窗口內視為同一份分析，重複的直接拒絕
func Deduplication(cfg *config.Config) gin.HandlerFunc {
	startDeduplicationCleanup(cfg)
	return func(c *gin.Context) {
		dedupWindow := 1 * time.Second
		if cfg != nil && cfg.DedupWindow > 0 {
			dedupWindow = cfg.DedupWindow
		}

		// 只攔截分析路由的 POST
		if c.Request.Method != http.MethodPost ||
			!strings.HasPrefix(c.Request.URL.Path, analysisRoutePrefix) {
			c.Next()
			return
		}

		// 計算請求體哈希
		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.Next()
				return
			}

			if len(body) > 0 {
				hash := sha256.Sum256(body)
				bodyHash = hex.EncodeToString(hash[:])
			}

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		// 沒有請求體就沒有可指紋的內容
		if bodyHash == "" {
			c.Next()
			return
		}
		fingerprint := c.Request.URL.Path + ":" + bodyHash

		// 檢查是否是重複請求
		now := time.Now()
		requestCache.RLock()
		if lastTime, exists := requestCache.requests[fingerprint]; exists {
			if now.Sub(lastTime) <= dedupWindow {
				requestCache.RUnlock()
				common.LogWarn("重複的分析請求被拒絕",
					zap.String("path", c.Request.URL.Path),
					zap.Duration("window", dedupWindow),
				)
				c.JSON(http.StatusTooManyRequests, gin.H{
					"error": "Duplicate analysis request",
					"code":  "DUPLICATE_REQUEST",
				})
				c.Abort()
				return
			}
		}
		requestCache.RUnlock()

		// 記錄請求
		requestCache.Lock()
		requestCache.requests[fingerprint] = now
		requestCache.Unlock()

		c.Next()
	}
}
