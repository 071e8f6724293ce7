package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectAllergens(t *testing.T) {
	keys := []string{"butter", "almond flour", "shrimp", "tomatoes"}

	matches := DetectAllergens(keys, []string{"milk", "tree_nuts", "shellfish", "soy"})

	require.Len(t, matches, 3)

	assert.Equal(t, "milk", matches[0].Allergen)
	assert.Equal(t, "medium", matches[0].Severity)
	assert.Equal(t, []string{"butter"}, matches[0].Ingredients)

	assert.Equal(t, "tree_nuts", matches[1].Allergen)
	assert.Equal(t, "high", matches[1].Severity)

	assert.Equal(t, "shellfish", matches[2].Allergen)
	assert.Equal(t, "high", matches[2].Severity)
}

func TestDetectAllergensEmptyWatchList(t *testing.T) {
	assert.Nil(t, DetectAllergens([]string{"butter", "shrimp"}, nil))
}

func TestDetectAllergensUnknownAllergen(t *testing.T) {
	assert.Empty(t, DetectAllergens([]string{"butter"}, []string{"gluten-free-unicorn"}))
}

func TestMatchAvoided(t *testing.T) {
	keys := []string{"white sugar", "olive oil", "cilantro"}

	matched := MatchAvoided(keys, []string{"Cilantro", "2 cups sugar"})

	assert.Equal(t, []string{"white sugar", "cilantro"}, matched)
}

func TestMatchAvoidedEmptyList(t *testing.T) {
	assert.Nil(t, MatchAvoided([]string{"butter"}, nil))
}
