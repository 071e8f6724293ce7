package swap

import (
	"context"
	"testing"

	"recipe-health-analyzer/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFlavorService 固定回傳的風味服務
type stubFlavorService struct {
	pairings  []string
	molecules map[string][]string
	err       error
}

func (s *stubFlavorService) Pairings(ctx context.Context, ingredient string) ([]string, error) {
	return s.pairings, s.err
}

func (s *stubFlavorService) FlavorProfile(ctx context.Context, ingredient string) ([]string, error) {
	return s.molecules[ingredient], s.err
}

func newTestRanker(flavor FlavorService) *Ranker {
	return NewRanker(NewTables(), NewSemanticReranker(), flavor)
}

func TestRankWithoutFlavorService(t *testing.T) {
	ranker := newTestRanker(nil)

	suggestion, ok := ranker.Rank(context.Background(), "butter",
		[]common.RiskCategory{common.RiskHighSaturatedFat},
		[]string{"butter", "white flour"})

	require.True(t, ok)
	assert.Equal(t, "butter", suggestion.Ingredient)
	require.NotEmpty(t, suggestion.Alternatives)

	// 風味服務停用時 flavor_match 為 0，排名由健康改善主導
	for _, alt := range suggestion.Alternatives {
		assert.Zero(t, alt.FlavorMatch)
		assert.Empty(t, alt.SharedMolecules)
	}
	assert.Contains(t, []string{"olive oil", "avocado"}, suggestion.Alternatives[0].Name)
}

func TestRankExcludesRecipeIngredients(t *testing.T) {
	ranker := newTestRanker(nil)

	suggestion, ok := ranker.Rank(context.Background(), "butter",
		[]common.RiskCategory{common.RiskHighSaturatedFat},
		[]string{"butter", "olive oil", "ghee"})

	require.True(t, ok)
	for _, alt := range suggestion.Alternatives {
		assert.NotEqual(t, "olive oil", alt.Name)
		assert.NotEqual(t, "ghee", alt.Name)
		assert.NotEqual(t, "butter", alt.Name)
	}
}

func TestRankCapsAlternatives(t *testing.T) {
	ranker := newTestRanker(nil)

	// "yogurt" 命中 dairy 類別但沒有對應鍵，退回整個類別的替代選項（超過 5 個）
	suggestion, ok := ranker.Rank(context.Background(), "yogurt", nil, []string{"yogurt"})

	require.True(t, ok)
	assert.Len(t, suggestion.Alternatives, 5)
}

func TestRankNoCandidates(t *testing.T) {
	ranker := newTestRanker(nil)

	_, ok := ranker.Rank(context.Background(), "xyzzy", nil, []string{"xyzzy"})
	assert.False(t, ok, "候選為零時必須省略建議，不產生空的替代列表")
}

func TestRankScoresSortedDescending(t *testing.T) {
	ranker := newTestRanker(nil)

	suggestion, ok := ranker.Rank(context.Background(), "white sugar",
		[]common.RiskCategory{common.RiskRefinedSugar},
		[]string{"white sugar"})

	require.True(t, ok)
	for i := 1; i < len(suggestion.Alternatives); i++ {
		assert.GreaterOrEqual(t,
			suggestion.Alternatives[i-1].RankScore,
			suggestion.Alternatives[i].RankScore)
	}
}

func TestRankMergesFlavorPairings(t *testing.T) {
	flavor := &stubFlavorService{
		pairings: []string{"miso paste"},
		molecules: map[string][]string{
			"butter":     {"diacetyl", "butyric acid", "delta-decalactone"},
			"ghee":       {"diacetyl", "butyric acid"},
			"miso paste": {"diacetyl"},
		},
	}
	ranker := newTestRanker(flavor)

	suggestion, ok := ranker.Rank(context.Background(), "butter",
		[]common.RiskCategory{common.RiskHighSaturatedFat},
		[]string{"butter"})

	require.True(t, ok)

	names := make(map[string]common.SubstituteCandidate)
	for _, alt := range suggestion.Alternatives {
		names[alt.Name] = alt
	}

	// 風味服務建議的配對併入候選池
	miso, found := names["miso paste"]
	require.True(t, found)
	// Jaccard: 共享 1 個分子，聯集 3 個
	assert.InDelta(t, 100.0/3.0, miso.FlavorMatch, 1e-6)
	assert.Equal(t, []string{"diacetyl"}, miso.SharedMolecules)

	ghee, found := names["ghee"]
	require.True(t, found)
	// Jaccard: 共享 2，聯集 3
	assert.InDelta(t, 200.0/3.0, ghee.FlavorMatch, 1e-6)
}

func TestRankFlavorWeights(t *testing.T) {
	ranker := newTestRanker(nil)

	suggestion, ok := ranker.Rank(context.Background(), "butter",
		[]common.RiskCategory{common.RiskHighSaturatedFat},
		[]string{"butter"})

	require.True(t, ok)
	for _, alt := range suggestion.Alternatives {
		expected := 0.5*alt.FlavorMatch + 0.4*alt.HealthImprovement + 0.1*alt.SemanticScore
		assert.InDelta(t, expected, alt.RankScore, 1e-9)
	}
}
