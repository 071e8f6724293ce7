package common

import (
	"fmt"
	"strings"
)

// Nutrient 營養素數值，區分「未知」與「零」
// 來源缺少的營養素視為未知，之後套用基準值，不可當作 0 參與計算
type Nutrient struct {
	Value float64 `json:"value"`
	Known bool    `json:"known"`
}

// Known 建立已知數值的營養素
func KnownNutrient(v float64) Nutrient {
	return Nutrient{Value: v, Known: true}
}

// UnknownNutrient 建立未知的營養素
func UnknownNutrient() Nutrient {
	return Nutrient{}
}

// Or 已知時回傳本身數值，未知時回傳基準值
func (n Nutrient) Or(baseline float64) float64 {
	if n.Known {
		return n.Value
	}
	return baseline
}

// NutritionProfile 營養成分表
// 兩種型態：整份食譜總量（absolute）與每份（per-serving），欄位相同
type NutritionProfile struct {
	Calories     Nutrient `json:"calories"`
	Protein      Nutrient `json:"protein"`
	TotalFat     Nutrient `json:"total_fat"`
	SaturatedFat Nutrient `json:"saturated_fat"`
	TransFat     Nutrient `json:"trans_fat"`
	Carbohydrate Nutrient `json:"carbohydrate"`
	Sugar        Nutrient `json:"sugar"`
	Fiber        Nutrient `json:"fiber"`
	Sodium       Nutrient `json:"sodium"` // 以公克計（元素鈉）
	Cholesterol  Nutrient `json:"cholesterol"`
}

// Ingredient 食材，保留原始顯示文字與正規化後的鍵
type Ingredient struct {
	Raw string `json:"raw"` // 原始描述，如 "3 tbsp butter"
	Key string `json:"key"` // 正規化鍵，如 "butter"
}

// Recipe 食譜
type Recipe struct {
	Name        string       `json:"name"`
	Ingredients []Ingredient `json:"ingredients"`
	Servings    int          `json:"servings"`
}

// IngredientKeys 回傳所有食材的正規化鍵
func (r Recipe) IngredientKeys() []string {
	keys := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		keys = append(keys, ing.Key)
	}
	return keys
}

// RiskCategory 風險類別
type RiskCategory string

const (
	RiskUltraProcessed     RiskCategory = "ultra-processed"
	RiskRefinedSugar       RiskCategory = "refined-sugar"
	RiskHighSodium         RiskCategory = "high-sodium"
	RiskHighSaturatedFat   RiskCategory = "high-saturated-fat"
	RiskTransFat           RiskCategory = "trans-fat"
	RiskArtificialAdditive RiskCategory = "artificial-additive"
)

// RiskyIngredient 被標記為有風險的食材
// Priority 僅供顯示排序使用，不參與評分
type RiskyIngredient struct {
	Key        string         `json:"key"`
	Categories []RiskCategory `json:"categories"`
	Reason     string         `json:"reason"`
	Priority   int            `json:"priority"` // 1-5，5 最緊急
}

// SubstituteCandidate 替代食材候選，產生後不可變動
type SubstituteCandidate struct {
	Name              string   `json:"name"`
	FlavorMatch       float64  `json:"flavor_match"`       // 0-100
	HealthImprovement float64  `json:"health_improvement"` // 0-100
	SemanticScore     float64  `json:"semantic_score"`     // 0-100
	SharedMolecules   []string `json:"shared_molecules"`
	RankScore         float64  `json:"rank_score"`
}

// SwapSuggestion 單一風險食材的替代建議，第一個候選為預設替代
type SwapSuggestion struct {
	Ingredient   string                `json:"ingredient"`
	Alternatives []SubstituteCandidate `json:"alternatives"`
}

// ScoreBreakdown 評分明細，分數可由 100 - 懲罰總和 + 加分總和重建
type ScoreBreakdown struct {
	SugarPenalty     float64 `json:"sugar_penalty"`
	SatFatPenalty    float64 `json:"sat_fat_penalty"`
	TransFatPenalty  float64 `json:"trans_fat_penalty"`
	SodiumPenalty    float64 `json:"sodium_penalty"`
	ProcessedPenalty float64 `json:"processed_penalty"`
	FiberBonus       float64 `json:"fiber_bonus"`
	WholeGrainBonus  float64 `json:"whole_grain_bonus"`
	PlantDiversity   float64 `json:"plant_diversity"`
}

// TotalPenalty 懲罰總和
func (b ScoreBreakdown) TotalPenalty() float64 {
	return b.SugarPenalty + b.SatFatPenalty + b.TransFatPenalty + b.SodiumPenalty + b.ProcessedPenalty
}

// TotalBonus 加分總和
func (b ScoreBreakdown) TotalBonus() float64 {
	return b.FiberBonus + b.WholeGrainBonus + b.PlantDiversity
}

// HealthScore 健康評分結果
type HealthScore struct {
	Score     float64        `json:"score"` // 0-100
	Rating    string         `json:"rating"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// AllergenMatch 過敏原偵測結果
type AllergenMatch struct {
	Allergen    string   `json:"allergen"`
	Severity    string   `json:"severity"` // high / medium / low
	Ingredients []string `json:"ingredients"`
}

// 資料來源標記
const (
	SourcePrimary          = "primary"
	SourceFallbackEstimate = "fallback_estimate"
)

// AnalysisResult 一次完整分析的結果
// Source 必須反映實際產生營養資料的管線，而非僅嘗試過的管線
type AnalysisResult struct {
	Recipe           Recipe            `json:"recipe"`
	PerServing       NutritionProfile  `json:"per_serving_nutrition"`
	RiskyIngredients []RiskyIngredient `json:"risky_ingredients"`
	SwapSuggestions  []SwapSuggestion  `json:"swap_suggestions"`
	Allergens        []AllergenMatch   `json:"allergens,omitempty"`
	AvoidedMatches   []string          `json:"avoided_matches,omitempty"`
	HealthScore      HealthScore       `json:"health_score"`
	BestCaseScore    *HealthScore      `json:"best_case_score,omitempty"`
	ScoreImprovement float64           `json:"score_improvement"`
	Headroom         float64           `json:"headroom"` // 最佳替代可收回的剩餘分數比例（%）
	Source           string            `json:"source"`
}

// RecalculateResult 重新計算（套用已接受替代）的結果
type RecalculateResult struct {
	AdjustedNutrition NutritionProfile `json:"adjusted_nutrition"`
	HealthScore       HealthScore      `json:"health_score"`
	TotalImprovement  float64          `json:"total_improvement"`
}

// FormatIngredientKeys 格式化食材鍵列表（供日誌與提示詞使用）
func FormatIngredientKeys(ingredients []Ingredient) string {
	var sb strings.Builder
	for _, ing := range ingredients {
		sb.WriteString(fmt.Sprintf("- %s\n", ing.Key))
	}
	return sb.String()
}
