package lookup

import (
	"context"
	"net/http"
	"time"

	"recipe-health-analyzer/internal/infrastructure/config"
	"recipe-health-analyzer/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// FlavorDBClient 風味配對查詢客戶端
// 純粹的加分來源：任何失敗都退化為空結果，不回傳錯誤、不觸發備援
type FlavorDBClient struct {
	config *config.FlavorDBConfig
	client *resty.Client
}

// NewFlavorDBClient 創建風味查詢客戶端
func NewFlavorDBClient(cfg *config.FlavorDBConfig) *FlavorDBClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	if cfg.APIKey != "" {
		client.SetHeader("x-api-key", cfg.APIKey)
	}

	return &FlavorDBClient{
		config: cfg,
		client: client,
	}
}

type pairingsResponse struct {
	Pairings []string `json:"pairings"`
}

type moleculesResponse struct {
	Molecules []struct {
		CommonName string `json:"common_name"`
		Name       string `json:"name"`
	} `json:"molecules"`
}

// Pairings 查詢可搭配的食材名稱，失敗時回傳空結果
func (c *FlavorDBClient) Pairings(ctx context.Context, ingredient string) ([]string, error) {
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("ingredient", ingredient).
		Get("/flavor_pairings")

	if err != nil || resp.StatusCode() != http.StatusOK {
		common.LogWarn("風味配對查詢退化為空結果",
			zap.String("ingredient", ingredient),
			zap.Duration("耗時", time.Since(start)),
			zap.Error(err),
		)
		return nil, nil
	}

	var result pairingsResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		common.LogWarn("風味配對回應解析失敗",
			zap.String("ingredient", ingredient),
			zap.Error(err),
		)
		return nil, nil
	}

	return result.Pairings, nil
}

// FlavorProfile 查詢風味分子集合，失敗時回傳空結果
func (c *FlavorDBClient) FlavorProfile(ctx context.Context, ingredient string) ([]string, error) {
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("ingredient", ingredient).
		Get("/molecules_by_common_name")

	if err != nil || resp.StatusCode() != http.StatusOK {
		common.LogWarn("風味分子查詢退化為空結果",
			zap.String("ingredient", ingredient),
			zap.Duration("耗時", time.Since(start)),
			zap.Error(err),
		)
		return nil, nil
	}

	var result moleculesResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		common.LogWarn("風味分子回應解析失敗",
			zap.String("ingredient", ingredient),
			zap.Error(err),
		)
		return nil, nil
	}

	molecules := make([]string, 0, len(result.Molecules))
	for _, m := range result.Molecules {
		name := m.CommonName
		if name == "" {
			name = m.Name
		}
		if name != "" {
			molecules = append(molecules, name)
		}
	}
	return molecules, nil
}
