package nutrition

import (
	"recipe-health-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// WHO 每日攝取參考值（公克），除以份數後作為每份上限
// 固定參考值，不開放設定
const (
	DailySugarLimitG    = 50.0
	DailySatFatLimitG   = 22.0
	DailyTransFatLimitG = 2.2
	DailySodiumLimitG   = 2.0 // 元素鈉
	DailyFiberTargetG   = 25.0
)

// 未知營養素在參與乘法調整前使用的基準值（每份、公克）
// 避免缺值被當成 0 而讓後續投影整個歸零
const (
	BaselineSugarG       = 5.0
	BaselineSodiumG      = 0.05
	BaselineSatFatG      = 2.0
	BaselineTransFatG    = 0.0
	BaselineCholesterolG = 0.02
	BaselineFiberG       = 2.0
)

// ServingLimits 每份營養上限（依份數縮放後）
type ServingLimits struct {
	SugarG      float64 `json:"sugar_g"`
	SatFatG     float64 `json:"sat_fat_g"`
	TransFatG   float64 `json:"trans_fat_g"`
	SodiumG     float64 `json:"sodium_g"`
	FiberTarget float64 `json:"fiber_target_g"`
}

// ClampServings 份數下限為 1，小於 1 時修正而非拒絕
func ClampServings(servings int) int {
	if servings < 1 {
		return 1
	}
	return servings
}

// LimitsFor 計算份數縮放後的每份上限
// 份數越多，每份上限越低（嚴格遞減）
func LimitsFor(servings int) ServingLimits {
	n := float64(ClampServings(servings))
	return ServingLimits{
		SugarG:      DailySugarLimitG / n,
		SatFatG:     DailySatFatLimitG / n,
		TransFatG:   DailyTransFatLimitG / n,
		SodiumG:     DailySodiumLimitG / n,
		FiberTarget: DailyFiberTargetG / n,
	}
}

// PerServing 將整份食譜的營養總量轉換為每份數值
// 未知的營養素維持未知，不可除成假的 0
func PerServing(absolute common.NutritionProfile, servings int) common.NutritionProfile {
	n := float64(ClampServings(servings))

	divide := func(nu common.Nutrient) common.Nutrient {
		if !nu.Known {
			return common.UnknownNutrient()
		}
		return common.KnownNutrient(nu.Value / n)
	}

	perServing := common.NutritionProfile{
		Calories:     divide(absolute.Calories),
		Protein:      divide(absolute.Protein),
		TotalFat:     divide(absolute.TotalFat),
		SaturatedFat: divide(absolute.SaturatedFat),
		TransFat:     divide(absolute.TransFat),
		Carbohydrate: divide(absolute.Carbohydrate),
		Sugar:        divide(absolute.Sugar),
		Fiber:        divide(absolute.Fiber),
		Sodium:       divide(absolute.Sodium),
		Cholesterol:  divide(absolute.Cholesterol),
	}

	common.LogDebug("營養成分換算為每份",
		zap.Int("servings", ClampServings(servings)),
		zap.Float64("sugar_g", perServing.Sugar.Or(0)),
		zap.Float64("sodium_g", perServing.Sodium.Or(0)),
	)

	return perServing
}

// ApplyBaselines 將未知營養素填入基準值
// 只在需要乘法調整（評分、投影）前使用，回傳新的 profile
func ApplyBaselines(p common.NutritionProfile) common.NutritionProfile {
	fill := func(nu common.Nutrient, baseline float64) common.Nutrient {
		if nu.Known {
			return nu
		}
		return common.KnownNutrient(baseline)
	}

	p.Sugar = fill(p.Sugar, BaselineSugarG)
	p.Sodium = fill(p.Sodium, BaselineSodiumG)
	p.SaturatedFat = fill(p.SaturatedFat, BaselineSatFatG)
	p.TransFat = fill(p.TransFat, BaselineTransFatG)
	p.Cholesterol = fill(p.Cholesterol, BaselineCholesterolG)
	p.Fiber = fill(p.Fiber, BaselineFiberG)
	return p
}
