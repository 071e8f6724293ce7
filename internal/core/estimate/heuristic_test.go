package estimate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicEstimateEmptyIngredients(t *testing.T) {
	estimator := NewHeuristicEstimator()

	estimation, err := estimator.Estimate(context.Background(), "mystery dish", nil)

	require.NoError(t, err)
	assert.InDelta(t, 200.0, estimation.PerServing.Calories.Value, 1e-9)
	assert.InDelta(t, 5.0, estimation.PerServing.Sugar.Value, 1e-9)
	assert.InDelta(t, 0.2, estimation.PerServing.Sodium.Value, 1e-9)
	assert.True(t, estimation.PerServing.TransFat.Known)
}

func TestHeuristicEstimateNeverFails(t *testing.T) {
	estimator := NewHeuristicEstimator()

	inputs := [][]string{
		nil,
		{},
		{""},
		{"white sugar", "butter", "bacon", "shortening"},
		{"spinach", "quinoa", "lentils"},
	}
	for _, ingredients := range inputs {
		_, err := estimator.Estimate(context.Background(), "test", ingredients)
		assert.NoError(t, err)
	}
}

func TestHeuristicEstimateDifferentiatesRecipes(t *testing.T) {
	estimator := NewHeuristicEstimator()

	sugary, err := estimator.Estimate(context.Background(), "dessert",
		[]string{"white sugar", "honey", "chocolate"})
	require.NoError(t, err)

	leafy, err := estimator.Estimate(context.Background(), "salad",
		[]string{"spinach", "kale", "carrot"})
	require.NoError(t, err)

	assert.Greater(t, sugary.PerServing.Sugar.Value, leafy.PerServing.Sugar.Value)
	assert.Greater(t, leafy.PerServing.Fiber.Value, sugary.PerServing.Fiber.Value)
}

func TestHeuristicEstimateSaltyIngredients(t *testing.T) {
	estimator := NewHeuristicEstimator()

	salty, err := estimator.Estimate(context.Background(), "ramen",
		[]string{"soy sauce", "bacon", "bouillon"})
	require.NoError(t, err)

	// 0.2 基準 + 3 次命中 * 0.3
	assert.InDelta(t, 1.1, salty.PerServing.Sodium.Value, 1e-9)
}

func TestHeuristicEstimateCholesterol(t *testing.T) {
	estimator := NewHeuristicEstimator()

	withEgg, err := estimator.Estimate(context.Background(), "omelet", []string{"egg", "spinach"})
	require.NoError(t, err)
	assert.InDelta(t, 0.08, withEgg.PerServing.Cholesterol.Value, 1e-9)

	plantOnly, err := estimator.Estimate(context.Background(), "salad", []string{"spinach", "carrot"})
	require.NoError(t, err)
	assert.InDelta(t, 0.03, plantOnly.PerServing.Cholesterol.Value, 1e-9)
}

func TestHeuristicEstimateValuesCapped(t *testing.T) {
	estimator := NewHeuristicEstimator()

	extreme, err := estimator.Estimate(context.Background(), "everything",
		[]string{
			"sugar", "honey", "syrup", "molasses", "chocolate", "cocoa",
			"salt", "soy sauce", "fish sauce", "bacon", "ham", "sausage",
			"butter", "cream", "cheese", "lard", "shortening",
		})
	require.NoError(t, err)

	assert.LessOrEqual(t, extreme.PerServing.Sugar.Value, 70.0)
	assert.LessOrEqual(t, extreme.PerServing.Sodium.Value, 2.0)
	assert.LessOrEqual(t, extreme.PerServing.SaturatedFat.Value, 25.0)
	assert.LessOrEqual(t, extreme.PerServing.Calories.Value, 600.0)
}

func TestParseEstimationPayload(t *testing.T) {
	content := "```json\n" + `{
		"ingredients": ["flour", "sugar"],
		"calories": 350,
		"sugar": 22,
		"sodium_mg": 400,
		"cholesterol_mg": 30,
		"trans_fat": null
	}` + "\n```"

	estimation, err := parseEstimation(content)

	require.NoError(t, err)
	assert.Equal(t, []string{"flour", "sugar"}, estimation.Ingredients)
	assert.InDelta(t, 350.0, estimation.PerServing.Calories.Value, 1e-9)
	assert.InDelta(t, 22.0, estimation.PerServing.Sugar.Value, 1e-9)
	// 毫克欄位換算為公克
	assert.InDelta(t, 0.4, estimation.PerServing.Sodium.Value, 1e-9)
	assert.InDelta(t, 0.03, estimation.PerServing.Cholesterol.Value, 1e-9)
	// null 維持未知
	assert.False(t, estimation.PerServing.TransFat.Known)
	assert.False(t, estimation.PerServing.Fiber.Known)
}

func TestParseEstimationInvalidPayload(t *testing.T) {
	_, err := parseEstimation("this is not json")
	assert.Error(t, err)
}
