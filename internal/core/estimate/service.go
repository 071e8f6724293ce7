package estimate

import (
	"context"

	"recipe-health-analyzer/internal/infrastructure/config"
	"recipe-health-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 備援估算服務
// OpenRouter 啟用時先問模型，模型失敗再退回本地關鍵字估算
// 關鍵字估算永遠成功，所以本服務也永遠成功
type Service struct {
	llm       *OpenRouterEstimator
	heuristic *HeuristicEstimator
}

// NewService 創建估算服務
func NewService(cfg *config.Config) *Service {
	s := &Service{
		heuristic: NewHeuristicEstimator(),
	}

	if cfg.OpenRouter.Enabled && cfg.OpenRouter.APIKey != "" {
		s.llm = NewOpenRouterEstimator(cfg)
		common.LogInfo("估算服務已啟用模型估算",
			zap.String("model", cfg.OpenRouter.Model),
		)
	}

	return s
}

// Estimate 估算每份營養
func (s *Service) Estimate(ctx context.Context, recipeName string, ingredients []string) (Estimation, error) {
	if s.llm != nil {
		estimation, err := s.llm.Estimate(ctx, recipeName, ingredients)
		if err == nil {
			return estimation, nil
		}
		common.LogWarn("模型估算失敗，改用關鍵字估算",
			zap.String("recipe", recipeName),
			zap.Error(err),
		)
	}

	return s.heuristic.Estimate(ctx, recipeName, ingredients)
}
