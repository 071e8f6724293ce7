package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIngredientName(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"2 cups Fresh Chopped Tomatoes", "tomatoes"},
		{"3 tbsp butter", "butter"},
		{"1/2 tsp salt", "salt"},
		{"Extra Virgin Olive Oil", "olive oil"},
		{"1 can (400g) diced tomatoes", "tomatoes"},
		{"boneless skinless chicken breast", "chicken breast"},
		{"White Sugar", "white sugar"},
		{"2 cups whole wheat flour", "whole wheat flour"},
		{"1 can canned pumpkin", "canned pumpkin"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, NormalizeIngredientName(tc.input), "input: %q", tc.input)
	}
}

func TestNormalizeIngredientNameIdempotent(t *testing.T) {
	inputs := []string{
		"2 cups Fresh Chopped Tomatoes",
		"3 tbsp unsalted butter",
		"1 pound ground beef",
		"2 cups whole wheat flour",
		"partially hydrogenated soybean oil",
	}

	for _, input := range inputs {
		once := NormalizeIngredientName(input)
		twice := NormalizeIngredientName(once)
		assert.Equal(t, once, twice, "正規化必須是冪等的: %q", input)
	}
}

func TestNewIngredients(t *testing.T) {
	ingredients := NewIngredients([]string{"2 tbsp Butter", "1 cup white sugar"})

	assert.Len(t, ingredients, 2)
	assert.Equal(t, "2 tbsp Butter", ingredients[0].Raw)
	assert.Equal(t, "butter", ingredients[0].Key)
	assert.Equal(t, "white sugar", ingredients[1].Key)
}

func TestScoreBreakdownTotals(t *testing.T) {
	b := ScoreBreakdown{
		SugarPenalty:     10,
		SatFatPenalty:    5,
		TransFatPenalty:  2,
		SodiumPenalty:    3,
		ProcessedPenalty: 5,
		FiberBonus:       6,
		WholeGrainBonus:  5,
		PlantDiversity:   3,
	}

	assert.InDelta(t, 25.0, b.TotalPenalty(), 1e-9)
	assert.InDelta(t, 14.0, b.TotalBonus(), 1e-9)
}

func TestNutrientOr(t *testing.T) {
	assert.Equal(t, 7.5, KnownNutrient(7.5).Or(2))
	assert.Equal(t, 2.0, UnknownNutrient().Or(2))
	// 已知的 0 與未知必須區分
	assert.Equal(t, 0.0, KnownNutrient(0).Or(2))
}
