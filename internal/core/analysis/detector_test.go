package analysis

import (
	"testing"

	"recipe-health-analyzer/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectKeywordRisks(t *testing.T) {
	detector := NewDetector()

	risky := detector.Detect([]string{"butter", "white sugar", "tomatoes"}, common.NutritionProfile{})

	require.Len(t, risky, 2)

	assert.Equal(t, "butter", risky[0].Key)
	assert.Contains(t, risky[0].Categories, common.RiskHighSaturatedFat)
	assert.Equal(t, 4, risky[0].Priority)

	assert.Equal(t, "white sugar", risky[1].Key)
	assert.Contains(t, risky[1].Categories, common.RiskRefinedSugar)
	assert.Equal(t, 4, risky[1].Priority)
}

func TestDetectTransFatHighestPriority(t *testing.T) {
	detector := NewDetector()

	risky := detector.Detect([]string{"margarine"}, common.NutritionProfile{})

	require.Len(t, risky, 1)
	assert.Contains(t, risky[0].Categories, common.RiskTransFat)
	assert.Equal(t, 5, risky[0].Priority)
}

func TestDetectMultipleCategoriesKeepsAll(t *testing.T) {
	detector := NewDetector()

	// "processed cheese" 同時命中超加工與高飽和脂肪
	risky := detector.Detect([]string{"processed cheese"}, common.NutritionProfile{})

	require.Len(t, risky, 1)
	assert.Contains(t, risky[0].Categories, common.RiskUltraProcessed)
	assert.Contains(t, risky[0].Categories, common.RiskHighSaturatedFat)
	// 只回報最高優先序
	assert.Equal(t, 4, risky[0].Priority)
}

func TestDetectThresholdSynthesizesWholeRecipe(t *testing.T) {
	detector := NewDetector()

	// 沒有任何關鍵字命中，但每份糖超標
	risky := detector.Detect([]string{"tomatoes", "basil"}, common.NutritionProfile{
		Sugar: common.KnownNutrient(20),
	})

	require.Len(t, risky, 1)
	assert.Equal(t, WholeRecipeKey, risky[0].Key)
	assert.Contains(t, risky[0].Categories, common.RiskRefinedSugar)
	assert.Equal(t, 1, risky[0].Priority)
}

func TestDetectThresholdAttachesToKeywordHits(t *testing.T) {
	detector := NewDetector()

	risky := detector.Detect([]string{"butter"}, common.NutritionProfile{
		SaturatedFat: common.KnownNutrient(8),
	})

	require.Len(t, risky, 1)
	assert.Equal(t, "butter", risky[0].Key)
	assert.Contains(t, risky[0].Reason, "飽和脂肪")
	// 門檻訊號附加後不產生合成項目
	for _, r := range risky {
		assert.NotEqual(t, WholeRecipeKey, r.Key)
	}
}

func TestDetectThresholdMergesCategoriesIntoKeywordHits(t *testing.T) {
	detector := NewDetector()

	// 超加工關鍵字命中（優先序 2）加上每份鈉超標（優先序 3）
	risky := detector.Detect([]string{"instant noodles"}, common.NutritionProfile{
		Sodium: common.KnownNutrient(1.2),
	})

	require.Len(t, risky, 1)
	assert.Equal(t, "instant noodles", risky[0].Key)
	assert.Contains(t, risky[0].Categories, common.RiskUltraProcessed)
	// 門檻類別合併進既有項目，優先序隨之提升
	assert.Contains(t, risky[0].Categories, common.RiskHighSodium)
	assert.Equal(t, 3, risky[0].Priority)
	assert.Contains(t, risky[0].Reason, "每份鈉")
}

func TestDetectUnknownNutrientsSkipThresholds(t *testing.T) {
	detector := NewDetector()

	// 全部未知：不可觸發任何門檻
	risky := detector.Detect([]string{"tomatoes"}, common.NutritionProfile{})
	assert.Empty(t, risky)
}

func TestUltraProcessedCount(t *testing.T) {
	assert.Equal(t, 0, UltraProcessedCount([]string{"tomatoes", "basil"}))
	assert.Equal(t, 2, UltraProcessedCount([]string{"instant noodles", "canned soup", "apple"}))
}
