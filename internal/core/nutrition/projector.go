package nutrition

import (
	"recipe-health-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// ImprovementFunc 依替代食材名稱回傳改善幅度百分比（0-100）
// 與替代排名使用同一張類別升級表
type ImprovementFunc func(substitute string) float64

// Projector 營養投影器
// 在缺少替代食材精確營養資料的情況下，以比例調整估算套用替代後的營養成分
type Projector struct {
	improvementFor ImprovementFunc
}

// NewProjector 建立營養投影器
func NewProjector(improvementFor ImprovementFunc) *Projector {
	return &Projector{improvementFor: improvementFor}
}

// Project 估算套用已接受替代後的每份營養成分
// share 下限為 1/3，避免食材很少的食譜被單一替代過度修正
// 不修改輸入，回傳新的 profile；accepted 為空時回傳與輸入相同的內容
func (p *Projector) Project(perServing common.NutritionProfile, accepted map[string]string, ingredientCount int) common.NutritionProfile {
	if len(accepted) == 0 {
		return perServing
	}

	denominator := ingredientCount
	if denominator < 3 {
		denominator = 3
	}
	share := 1.0 / float64(denominator)

	// 未知數值先填基準值，才能參與乘法調整
	adjusted := ApplyBaselines(perServing)

	adjust := func(nu common.Nutrient, deltaPct float64) common.Nutrient {
		v := nu.Value - nu.Value*share*(deltaPct/100.0)
		if v < 0 {
			v = 0
		}
		return common.KnownNutrient(v)
	}

	for original, substitute := range accepted {
		deltaPct := p.improvementFor(substitute)
		if deltaPct <= 0 {
			continue
		}

		adjusted.Sugar = adjust(adjusted.Sugar, deltaPct)
		adjusted.Sodium = adjust(adjusted.Sodium, deltaPct)
		adjusted.SaturatedFat = adjust(adjusted.SaturatedFat, deltaPct)
		adjusted.TransFat = adjust(adjusted.TransFat, deltaPct)
		adjusted.Cholesterol = adjust(adjusted.Cholesterol, deltaPct)

		common.LogDebug("套用替代調整",
			zap.String("original", original),
			zap.String("substitute", substitute),
			zap.Float64("delta_pct", deltaPct),
			zap.Float64("share", share),
		)
	}

	return adjusted
}
