package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"recipe-health-analyzer/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// Service Redis 緩存服務
// 多實例部署時共用查詢結果；單機部署用 CacheManager 即可
type Service struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewService 創建緩存服務
func NewService(cfg *config.CacheConfig) (*Service, error) {
	if !cfg.Enabled || !cfg.RedisEnabled {
		return &Service{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Service{
		client: client,
		config: cfg,
	}, nil
}

// Get 獲取緩存的查詢結果（序列化後的 JSON 字串）
func (s *Service) Get(ctx context.Context, recipeName string) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("cache is disabled")
	}

	data, err := s.client.Get(ctx, s.generateKey(recipeName)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("cache miss")
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	return data, nil
}

// Set 緩存查詢結果
func (s *Service) Set(ctx context.Context, recipeName, value string) error {
	if s == nil || s.client == nil {
		return nil
	}

	if err := s.client.Set(ctx, s.generateKey(recipeName), value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// generateKey 生成緩存鍵
func (s *Service) generateKey(recipeName string) string {
	normalized := strings.ToLower(strings.TrimSpace(recipeName))
	hash := sha256.Sum256([]byte(normalized))
	return "lookup:result:" + hex.EncodeToString(hash[:])
}
