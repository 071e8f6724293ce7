package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNutrition(t *testing.T) {
	profile := parseNutrition(map[string]float64{
		"Calories": 520,
		"protein":  12,
		"fat":      18,
		"carbs":    60,
		"sugars":   25,
		"sodium":   800, // 毫克
	})

	assert.InDelta(t, 520.0, profile.Calories.Value, 1e-9)
	assert.InDelta(t, 12.0, profile.Protein.Value, 1e-9)
	assert.InDelta(t, 18.0, profile.TotalFat.Value, 1e-9)
	assert.InDelta(t, 60.0, profile.Carbohydrate.Value, 1e-9)
	assert.InDelta(t, 25.0, profile.Sugar.Value, 1e-9)
	// 毫克換算為公克
	assert.InDelta(t, 0.8, profile.Sodium.Value, 1e-9)

	// 缺少的欄位維持未知
	assert.False(t, profile.TransFat.Known)
	assert.False(t, profile.Fiber.Known)
	assert.False(t, profile.Cholesterol.Known)
}

func TestParseNutritionGramFieldsTakePrecedence(t *testing.T) {
	profile := parseNutrition(map[string]float64{
		"sodium_g":       1.5,
		"sodium":         9999,
		"cholesterol_mg": 60,
	})

	assert.InDelta(t, 1.5, profile.Sodium.Value, 1e-9)
	assert.InDelta(t, 0.06, profile.Cholesterol.Value, 1e-9)
}

func TestParseNutritionAliases(t *testing.T) {
	profile := parseNutrition(map[string]float64{
		"energy":        300,
		"total_fat":     10,
		"sat_fat":       4,
		"carbohydrates": 45,
		"dietary_fiber": 6,
	})

	assert.InDelta(t, 300.0, profile.Calories.Value, 1e-9)
	assert.InDelta(t, 10.0, profile.TotalFat.Value, 1e-9)
	assert.InDelta(t, 4.0, profile.SaturatedFat.Value, 1e-9)
	assert.InDelta(t, 45.0, profile.Carbohydrate.Value, 1e-9)
	assert.InDelta(t, 6.0, profile.Fiber.Value, 1e-9)
}

func TestParseNutritionEmpty(t *testing.T) {
	profile := parseNutrition(nil)

	assert.False(t, profile.Calories.Known)
	assert.False(t, profile.Sugar.Known)
	assert.False(t, profile.Sodium.Known)
}
