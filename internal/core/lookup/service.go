package lookup

import (
	"context"

	"recipe-health-analyzer/internal/core/lookup/cache"
	"recipe-health-analyzer/internal/infrastructure/config"
	"recipe-health-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 主要查詢管線服務
// 在查詢客戶端前加一層可略過的快取：快取失敗只記錄，不影響查詢結果
type Service struct {
	client       *RecipeDBClient
	cacheManager *cache.CacheManager
	redisCache   *cache.Service
}

// NewService 創建查詢服務
// cacheManager 與 redisCache 均可為 nil（快取停用時）
func NewService(cfg *config.Config, cacheManager *cache.CacheManager, redisCache *cache.Service) *Service {
	return &Service{
		client:       NewRecipeDBClient(&cfg.RecipeDB),
		cacheManager: cacheManager,
		redisCache:   redisCache,
	}
}

// Lookup 以食譜名稱查詢，優先使用快取
func (s *Service) Lookup(ctx context.Context, recipeName string) (*Result, error) {
	// Redis 優先（跨實例共用），其次行程內快取
	if s.redisCache != nil {
		if data, err := s.redisCache.Get(ctx, recipeName); err == nil {
			var result Result
			if err := common.ParseJSON(data, &result); err == nil {
				common.LogCacheHit("lookup:redis", recipeName)
				return &result, nil
			}
		}
	}
	if s.cacheManager != nil {
		if data, err := s.cacheManager.Get(ctx, recipeName); err == nil {
			var result Result
			if err := common.ParseJSON(data, &result); err == nil {
				return &result, nil
			}
		}
	}

	result, err := s.client.Lookup(ctx, recipeName)
	if err != nil || result == nil {
		return result, err
	}

	// 寫入快取失敗不影響本次結果
	if data, err := common.ToJSON(result); err == nil {
		if s.redisCache != nil {
			if err := s.redisCache.Set(ctx, recipeName, data); err != nil {
				common.LogWarn("Redis 快取寫入失敗",
					zap.String("recipe", recipeName),
					zap.Error(err),
				)
			}
		}
		if s.cacheManager != nil {
			if err := s.cacheManager.Set(ctx, recipeName, data); err != nil {
				common.LogWarn("快取寫入失敗",
					zap.String("recipe", recipeName),
					zap.Error(err),
				)
			}
		}
	}

	return result, nil
}

// NutritionFor 以食材列表查詢營養總量（不經過快取，食材組合變化太大）
func (s *Service) NutritionFor(ctx context.Context, ingredients []string) (common.NutritionProfile, error) {
	return s.client.NutritionFor(ctx, ingredients)
}
