package analysis

import (
	"fmt"
	"strings"

	"recipe-health-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// 合成項目的鍵：營養門檻超標但沒有任何食材被關鍵字標記時，
// 訊號掛在這個項目上，確保不會被默默丟棄
const WholeRecipeKey = "this recipe"

// 每份營養門檻（公克），超過即標記整份食譜
const (
	thresholdSugarG    = 15.0
	thresholdSodiumG   = 0.4
	thresholdSatFatG   = 5.0
	thresholdTransFatG = 0.1
)

// 各風險類別的關鍵字，以正規化鍵做子字串比對
var riskKeywords = map[common.RiskCategory][]string{
	common.RiskTransFat: {
		"hydrogenated", "partially hydrogenated", "shortening", "margarine",
	},
	common.RiskRefinedSugar: {
		"refined", "white flour", "white sugar", "white rice",
		"refined sugar", "refined oil", "corn syrup",
	},
	common.RiskArtificialAdditive: {
		"artificial", "aspartame", "saccharin", "sucralose", "acesulfame",
		"yellow 5", "yellow 6", "red 40", "blue 1",
		"bha", "bht", "sodium benzoate", "sodium nitrite",
		"potassium sorbate", "tbhq",
	},
	common.RiskHighSodium: {
		"soy sauce", "salt", "sodium", "bouillon", "broth cube",
		"msg", "monosodium glutamate",
	},
	common.RiskHighSaturatedFat: {
		"butter", "lard", "cream", "bacon", "sausage", "cheese", "ghee",
	},
	common.RiskUltraProcessed: {
		"processed", "packaged", "instant", "canned",
	},
}

// 風險類別的顯示優先序（5 最緊急），僅供排序，不參與評分
var riskPriority = map[common.RiskCategory]int{
	common.RiskTransFat:           5,
	common.RiskArtificialAdditive: 5,
	common.RiskRefinedSugar:       4,
	common.RiskHighSaturatedFat:   4,
	common.RiskHighSodium:         3,
	common.RiskUltraProcessed:     2,
}

var riskCategoryLabels = map[common.RiskCategory]string{
	common.RiskTransFat:           "含反式脂肪",
	common.RiskArtificialAdditive: "含人工添加物",
	common.RiskRefinedSugar:       "精製糖來源",
	common.RiskHighSaturatedFat:   "高飽和脂肪來源",
	common.RiskHighSodium:         "高鈉來源",
	common.RiskUltraProcessed:     "超加工食品",
}

// 類別掃描順序固定，確保輸出可重現
var riskCategoryOrder = []common.RiskCategory{
	common.RiskTransFat,
	common.RiskArtificialAdditive,
	common.RiskRefinedSugar,
	common.RiskHighSaturatedFat,
	common.RiskHighSodium,
	common.RiskUltraProcessed,
}

// Detector 風險食材偵測器
type Detector struct{}

// NewDetector 建立風險食材偵測器
func NewDetector() *Detector {
	return &Detector{}
}

// Detect 標記有風險的食材
// 規則：(a) 正規化鍵命中任一風險類別關鍵字，或
// (b) 整份食譜的每份營養超過固定門檻 — 門檻的類別與原因合併到已被
// 關鍵字標記的食材上；若沒有任何關鍵字命中，掛在合成的 "this recipe" 項目上
func (d *Detector) Detect(keys []string, perServing common.NutritionProfile) []common.RiskyIngredient {
	var risky []common.RiskyIngredient

	for _, key := range keys {
		if key == "" {
			continue
		}

		var categories []common.RiskCategory
		for _, category := range riskCategoryOrder {
			for _, kw := range riskKeywords[category] {
				if strings.Contains(key, kw) {
					categories = append(categories, category)
					break
				}
			}
		}
		if len(categories) == 0 {
			continue
		}

		// 多類別全部保留，但只回報最高優先序
		var labels []string
		for _, c := range categories {
			labels = append(labels, riskCategoryLabels[c])
		}

		risky = append(risky, common.RiskyIngredient{
			Key:        key,
			Categories: categories,
			Reason:     strings.Join(labels, "；"),
			Priority:   maxPriority(categories),
		})
	}

	thresholdCategories, thresholdReason := d.checkThresholds(perServing)
	if len(thresholdCategories) > 0 {
		if len(risky) > 0 {
			// 門檻訊號附加到已被關鍵字標記的食材上：
			// 類別一併合併，替代排名的風險備援才看得到，優先序隨之重算
			for i := range risky {
				risky[i].Categories = mergeCategories(risky[i].Categories, thresholdCategories)
				risky[i].Reason = risky[i].Reason + "；" + thresholdReason
				risky[i].Priority = maxPriority(risky[i].Categories)
			}
		} else {
			// 沒有關鍵字命中：合成整份食譜項目，訊號不可默默丟棄
			risky = append(risky, common.RiskyIngredient{
				Key:        WholeRecipeKey,
				Categories: thresholdCategories,
				Reason:     thresholdReason,
				Priority:   1,
			})
		}
	}

	common.LogInfo("風險食材偵測完成",
		zap.Int("ingredients", len(keys)),
		zap.Int("risky", len(risky)),
	)

	return risky
}

// checkThresholds 檢查整份食譜的每份營養門檻
func (d *Detector) checkThresholds(perServing common.NutritionProfile) ([]common.RiskCategory, string) {
	var categories []common.RiskCategory
	var reasons []string

	if perServing.Sugar.Known && perServing.Sugar.Value > thresholdSugarG {
		categories = append(categories, common.RiskRefinedSugar)
		reasons = append(reasons, fmt.Sprintf("每份糖 %.1fg 超過 %.0fg", perServing.Sugar.Value, thresholdSugarG))
	}
	if perServing.Sodium.Known && perServing.Sodium.Value > thresholdSodiumG {
		categories = append(categories, common.RiskHighSodium)
		reasons = append(reasons, fmt.Sprintf("每份鈉 %.2fg 超過 %.1fg", perServing.Sodium.Value, thresholdSodiumG))
	}
	if perServing.SaturatedFat.Known && perServing.SaturatedFat.Value > thresholdSatFatG {
		categories = append(categories, common.RiskHighSaturatedFat)
		reasons = append(reasons, fmt.Sprintf("每份飽和脂肪 %.1fg 超過 %.0fg", perServing.SaturatedFat.Value, thresholdSatFatG))
	}
	if perServing.TransFat.Known && perServing.TransFat.Value > thresholdTransFatG {
		categories = append(categories, common.RiskTransFat)
		reasons = append(reasons, fmt.Sprintf("每份反式脂肪 %.2fg 超過 %.1fg", perServing.TransFat.Value, thresholdTransFatG))
	}

	return categories, strings.Join(reasons, "；")
}

// mergeCategories 合併類別並去重，保留原有順序
func mergeCategories(existing, extra []common.RiskCategory) []common.RiskCategory {
	seen := make(map[common.RiskCategory]struct{}, len(existing))
	for _, c := range existing {
		seen[c] = struct{}{}
	}
	for _, c := range extra {
		if _, ok := seen[c]; ok {
			continue
		}
		existing = append(existing, c)
		seen[c] = struct{}{}
	}
	return existing
}

// maxPriority 回傳類別中最高的顯示優先序
func maxPriority(categories []common.RiskCategory) int {
	priority := 0
	for _, c := range categories {
		if riskPriority[c] > priority {
			priority = riskPriority[c]
		}
	}
	return priority
}

// UltraProcessedCount 計算命中超加工關鍵字的食材數量（供評分使用）
func UltraProcessedCount(keys []string) int {
	count := 0
	for _, key := range keys {
		for _, kw := range riskKeywords[common.RiskUltraProcessed] {
			if strings.Contains(key, kw) {
				count++
				break
			}
		}
	}
	return count
}
