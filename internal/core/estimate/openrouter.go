package estimate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-health-analyzer/internal/infrastructure/config"
	"recipe-health-analyzer/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// OpenRouterEstimator 透過 OpenRouter 模型估算營養
type OpenRouterEstimator struct {
	config *config.Config
	client *resty.Client
}

// NewOpenRouterEstimator 創建 OpenRouter 估算器
func NewOpenRouterEstimator(cfg *config.Config) *OpenRouterEstimator {
	client := resty.New().
		SetBaseURL("https://openrouter.ai/api/v1").
		SetTimeout(cfg.OpenRouter.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenRouter.APIKey)).
		SetHeader("HTTP-Referer", "https://recipe-health-analyzer.com").
		SetHeader("X-Title", "Recipe Health Analyzer")

	return &OpenRouterEstimator{
		config: cfg,
		client: client,
	}
}

// nutritionPayload 模型回傳的 JSON 結構
// 數值單位：除鈉與膽固醇為毫克外，其餘為克
type nutritionPayload struct {
	Ingredients   []string `json:"ingredients"`
	Calories      *float64 `json:"calories"`
	Protein       *float64 `json:"protein"`
	TotalFat      *float64 `json:"total_fat"`
	SaturatedFat  *float64 `json:"saturated_fat"`
	TransFat      *float64 `json:"trans_fat"`
	Carbohydrate  *float64 `json:"carbohydrate"`
	Sugar         *float64 `json:"sugar"`
	Fiber         *float64 `json:"fiber"`
	SodiumMg      *float64 `json:"sodium_mg"`
	CholesterolMg *float64 `json:"cholesterol_mg"`
}

// Estimate 請模型估算每份營養值
func (e *OpenRouterEstimator) Estimate(ctx context.Context, recipeName string, ingredients []string) (Estimation, error) {
	start := time.Now()

	prompt := buildPrompt(recipeName, ingredients)

	req := map[string]interface{}{
		"model": e.config.OpenRouter.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"max_tokens": e.config.OpenRouter.MaxTokens,
	}

	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")

	common.LogLookupCall("openrouter", time.Since(start), err, "")

	if err != nil {
		return Estimation{}, fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return Estimation{}, fmt.Errorf("OpenRouter API returned error: %s", resp.String())
	}

	var result common.AIResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return Estimation{}, fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}

	if len(result.Choices) == 0 {
		return Estimation{}, fmt.Errorf("no choices in OpenRouter response")
	}

	estimation, err := parseEstimation(result.Choices[0].Message.Content)
	if err != nil {
		return Estimation{}, err
	}

	common.LogInfo("模型估算完成",
		zap.String("recipe", recipeName),
		zap.String("model", e.config.OpenRouter.Model),
		zap.Duration("耗時", time.Since(start)),
	)

	return estimation, nil
}

// buildPrompt 組裝估算提示詞，要求模型只回傳 JSON
func buildPrompt(recipeName string, ingredients []string) string {
	var sb strings.Builder
	sb.WriteString("Estimate the per-serving nutrition of the following recipe. ")
	sb.WriteString("Respond with a single JSON object only, no prose, with these keys: ")
	sb.WriteString(`ingredients (array of strings), calories, protein, total_fat, saturated_fat, trans_fat, carbohydrate, sugar, fiber (all grams except calories), sodium_mg, cholesterol_mg (milligrams). `)
	sb.WriteString("Use null for values you cannot estimate. ")
	if recipeName != "" {
		sb.WriteString("Recipe name: " + recipeName + ". ")
	}
	if len(ingredients) > 0 {
		sb.WriteString("Ingredients: " + strings.Join(ingredients, ", ") + ".")
	} else {
		sb.WriteString("No ingredient list is available; also infer a plausible ingredient list from the name.")
	}
	return sb.String()
}

// parseEstimation 解析模型輸出的 JSON（容忍 markdown 圍欄與未加引號的鍵）
func parseEstimation(content string) (Estimation, error) {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var payload nutritionPayload
	if err := common.ParseJSON(cleaned, &payload); err != nil {
		// 部分模型輸出未加引號的鍵，補引號後重試
		if retryErr := common.ParseJSON(common.QuoteJSONKeys(cleaned), &payload); retryErr != nil {
			return Estimation{}, fmt.Errorf("failed to parse estimation payload: %w", err)
		}
	}

	return Estimation{
		Ingredients: payload.Ingredients,
		PerServing: common.NutritionProfile{
			Calories:     nutrientFrom(payload.Calories, 1),
			Protein:      nutrientFrom(payload.Protein, 1),
			TotalFat:     nutrientFrom(payload.TotalFat, 1),
			SaturatedFat: nutrientFrom(payload.SaturatedFat, 1),
			TransFat:     nutrientFrom(payload.TransFat, 1),
			Carbohydrate: nutrientFrom(payload.Carbohydrate, 1),
			Sugar:        nutrientFrom(payload.Sugar, 1),
			Fiber:        nutrientFrom(payload.Fiber, 1),
			Sodium:       nutrientFrom(payload.SodiumMg, 0.001),
			Cholesterol:  nutrientFrom(payload.CholesterolMg, 0.001),
		},
	}, nil
}

func nutrientFrom(v *float64, scale float64) common.Nutrient {
	if v == nil {
		return common.UnknownNutrient()
	}
	value := *v * scale
	if value < 0 {
		value = 0
	}
	return common.KnownNutrient(value)
}
