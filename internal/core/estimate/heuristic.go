package estimate

import (
	"context"
	"strings"

	"recipe-health-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// Estimation 備援估算的輸出
type Estimation struct {
	Ingredients []string                `json:"ingredients"`
	PerServing  common.NutritionProfile `json:"per_serving"` // 每份數值
}

// 關鍵字對照表：命中次數驅動估算值，讓不同食譜估出不同分數
var (
	estimateSugarKeywords = []string{
		"sugar", "honey", "syrup", "molasses", "maple", "corn syrup",
		"dextrose", "fructose", "sweetener", "chocolate", "cocoa",
	}
	estimateSodiumKeywords = []string{
		"salt", "soy sauce", "fish sauce", "bouillon", "broth", "stock",
		"bacon", "ham", "sausage", "pickle", "capers", "anchovy",
	}
	estimateSatFatKeywords = []string{
		"butter", "cream", "cheese", "bacon", "lard", "shortening",
		"coconut milk", "coconut cream", "sour cream",
	}
	estimateProteinKeywords = []string{
		"chicken", "beef", "pork", "lamb", "fish", "shrimp", "tofu",
		"egg", "lentil", "bean", "chickpea", "quinoa", "tempeh",
	}
	estimateFiberKeywords = []string{
		"oat", "bran", "whole wheat", "whole grain", "quinoa", "barley",
		"broccoli", "spinach", "kale", "carrot", "bean", "lentil",
		"chickpea", "apple", "berry", "avocado",
	}
	estimateTransFatKeywords = []string{
		"shortening", "margarine", "hydrogenated", "partially hydrogenated",
	}
	estimateCholesterolKeywords = []string{"egg", "butter", "cream"}
)

// HeuristicEstimator 本地關鍵字估算器
// 主要查詢管線不可用時的備援，完全離線、不可能失敗
type HeuristicEstimator struct{}

// NewHeuristicEstimator 建立關鍵字估算器
func NewHeuristicEstimator() *HeuristicEstimator {
	return &HeuristicEstimator{}
}

// Estimate 以食材關鍵字估算每份營養
// 食材為空時回傳固定的中性預設值
func (e *HeuristicEstimator) Estimate(ctx context.Context, recipeName string, ingredients []string) (Estimation, error) {
	return e.estimate(recipeName, ingredients), nil
}

func (e *HeuristicEstimator) estimate(recipeName string, ingredients []string) Estimation {
	if len(ingredients) == 0 {
		common.LogInfo("無食材可估算，使用預設營養值",
			zap.String("recipe", recipeName),
		)
		return Estimation{
			PerServing: common.NutritionProfile{
				Calories:     common.KnownNutrient(200),
				Protein:      common.KnownNutrient(8),
				Carbohydrate: common.KnownNutrient(25),
				TotalFat:     common.KnownNutrient(8),
				SaturatedFat: common.KnownNutrient(2),
				TransFat:     common.KnownNutrient(0),
				Sodium:       common.KnownNutrient(0.2),
				Sugar:        common.KnownNutrient(5),
				Cholesterol:  common.KnownNutrient(0.02),
				Fiber:        common.KnownNutrient(2),
			},
		}
	}

	allText := strings.ToLower(strings.Join(ingredients, " "))
	n := len(ingredients)

	// 中等食譜的每份基準值
	calories := 200.0 + 40.0*float64(n)
	protein := 12.0
	carbs := 25.0
	fat := 8.0
	saturatedFat := 2.5
	transFat := 0.0
	sodium := 0.2
	sugar := 6.0
	fiber := 3.0

	// 關鍵字命中累加貢獻，驅動分數差異化
	if hits := countHits(allText, estimateSugarKeywords); hits > 0 {
		sugar += 20 * float64(hits)
		carbs += 10 * float64(hits)
	}
	if hits := countHits(allText, estimateSodiumKeywords); hits > 0 {
		sodium += 0.3 * float64(hits)
	}
	if hits := countHits(allText, estimateSatFatKeywords); hits > 0 {
		saturatedFat += 8 * float64(hits)
		fat += 10 * float64(hits)
	}
	if hits := countHits(allText, estimateProteinKeywords); hits > 0 {
		protein += 10 * float64(hits)
	}
	if hits := countHits(allText, estimateFiberKeywords); hits > 0 {
		fiber += 5 * float64(hits)
	}
	if hits := countHits(allText, estimateTransFatKeywords); hits > 0 {
		transFat += 1.0 * float64(hits)
	}

	cholesterol := 0.03
	if countHits(allText, estimateCholesterolKeywords) > 0 {
		cholesterol = 0.08
	}

	common.LogInfo("關鍵字估算完成",
		zap.String("recipe", recipeName),
		zap.Int("ingredients", n),
		zap.Float64("sugar_g", capAt(sugar, 70)),
		zap.Float64("sodium_g", capAt(sodium, 2)),
	)

	return Estimation{
		Ingredients: ingredients,
		PerServing: common.NutritionProfile{
			Calories:     common.KnownNutrient(capAt(calories, 600)),
			Protein:      common.KnownNutrient(capAt(protein, 50)),
			Carbohydrate: common.KnownNutrient(capAt(carbs, 80)),
			TotalFat:     common.KnownNutrient(capAt(fat, 45)),
			SaturatedFat: common.KnownNutrient(capAt(saturatedFat, 25)),
			TransFat:     common.KnownNutrient(transFat),
			Sodium:       common.KnownNutrient(capAt(sodium, 2)),
			Sugar:        common.KnownNutrient(capAt(sugar, 70)),
			Cholesterol:  common.KnownNutrient(cholesterol),
			Fiber:        common.KnownNutrient(capAt(fiber, 15)),
		},
	}
}

func countHits(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}

func capAt(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}
