package lookup

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

// Result 主要管線解析出的食譜資料
type Result struct {
	Ingredients []string                `json:"ingredients"`
	Nutrition   common.NutritionProfile `json:"nutrition"` // 整份食譜總量
}

// RecipeDBClient 食譜營養查詢客戶端（主要資料管線）
type RecipeDBClient struct {
	config *config.RecipeDBConfig
	client *resty.Client
}

// NewRecipeDBClient 創建查詢客戶端
// 對 5xx 自動重試並指數退避；4xx 不重試（重送相同請求不會改變結果）
func NewRecipeDBClient(cfg *config.RecipeDBConfig) *RecipeDBClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(4 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= http.StatusInternalServerError
		})

	if cfg.APIKey != "" {
		client.SetHeader("x-api-key", cfg.APIKey)
	}

	return &RecipeDBClient{
		config: cfg,
		client: client,
	}
}

type recipeByTitleResponse struct {
	Recipes []struct {
		Title       string             `json:"title"`
		Ingredients []string           `json:"ingredients"`
		Nutrition   map[string]float64 `json:"nutrition"`
	} `json:"recipes"`
}

type nutritionResponse struct {
	Nutrition map[string]float64 `json:"nutrition"`
}

// Lookup 以食譜名稱查詢食材與營養總量
// 查無資料回傳 (nil, nil)，由呼叫方決定是否轉入備援
func (c *RecipeDBClient) Lookup(ctx context.Context, recipeName string) (*Result, error) {
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("title", recipeName).
		Get("/recipe_by_title")

	common.LogLookupCall("recipedb", time.Since(start), err, "")
	if err != nil {
		return nil, fmt.Errorf("recipedb lookup failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.NewError(common.ErrCodeLookupFailure,
			fmt.Sprintf("recipedb returned status %d", resp.StatusCode()),
			resp.StatusCode(), nil)
	}

	var result recipeByTitleResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse recipedb response: %w", err)
	}

	if len(result.Recipes) == 0 {
		common.LogInfo("查無食譜",
			zap.String("recipe", recipeName),
		)
		return nil, nil
	}

	recipe := result.Recipes[0]
	return &Result{
		Ingredients: recipe.Ingredients,
		Nutrition:   parseNutrition(recipe.Nutrition),
	}, nil
}

// NutritionFor 以食材列表查詢營養總量，允許部分欄位缺漏
func (c *RecipeDBClient) NutritionFor(ctx context.Context, ingredients []string) (common.NutritionProfile, error) {
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"ingredients": ingredients}).
		Post("/recipe_nutrition_info")

	common.LogLookupCall("recipedb", time.Since(start), err, "")
	if err != nil {
		return common.NutritionProfile{}, fmt.Errorf("recipedb nutrition lookup failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return common.NutritionProfile{}, common.NewError(common.ErrCodeLookupFailure,
			fmt.Sprintf("recipedb returned status %d", resp.StatusCode()),
			resp.StatusCode(), nil)
	}

	var result nutritionResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return common.NutritionProfile{}, fmt.Errorf("failed to parse recipedb response: %w", err)
	}

	return parseNutrition(result.Nutrition), nil
}

// parseNutrition 解析營養欄位，鍵名不分大小寫並容忍常見別名
// 缺少的欄位維持未知，不可填 0
func parseNutrition(raw map[string]float64) common.NutritionProfile {
	values := make(map[string]float64, len(raw))
	for k, v := range raw {
		values[strings.ToLower(strings.TrimSpace(k))] = v
	}

	pick := func(names ...string) common.Nutrient {
		for _, name := range names {
			if v, ok := values[name]; ok {
				return common.KnownNutrient(v)
			}
		}
		return common.UnknownNutrient()
	}

	// 毫克欄位換算為公克
	pickMilligram := func(gramNames []string, mgNames []string) common.Nutrient {
		if n := pick(gramNames...); n.Known {
			return n
		}
		for _, name := range mgNames {
			if v, ok := values[name]; ok {
				return common.KnownNutrient(v / 1000.0)
			}
		}
		return common.UnknownNutrient()
	}

	return common.NutritionProfile{
		Calories:     pick("calories", "energy", "kcal"),
		Protein:      pick("protein"),
		TotalFat:     pick("total_fat", "fat"),
		SaturatedFat: pick("saturated_fat", "sat_fat"),
		TransFat:     pick("trans_fat"),
		Carbohydrate: pick("carbohydrate", "carbs", "carbohydrates"),
		Sugar:        pick("sugar", "sugars"),
		Fiber:        pick("fiber", "fibre", "dietary_fiber"),
		Sodium:       pickMilligram([]string{"sodium_g"}, []string{"sodium", "sodium_mg"}),
		Cholesterol:  pickMilligram([]string{"cholesterol_g"}, []string{"cholesterol", "cholesterol_mg"}),
	}
}
