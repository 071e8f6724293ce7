package swap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemanticScoreDeterministic(t *testing.T) {
	reranker := NewSemanticReranker()
	candidates := []string{"olive oil", "ghee", "avocado", "coconut oil"}

	first := reranker.Score("butter", candidates)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, reranker.Score("butter", candidates))
	}
}

func TestSemanticScoreLengthAndOrder(t *testing.T) {
	reranker := NewSemanticReranker()
	candidates := []string{"honey", "maple syrup", "stevia"}

	scores := reranker.Score("white sugar", candidates)
	assert.Len(t, scores, len(candidates))

	// 不新增也不移除候選
	assert.Empty(t, reranker.Score("white sugar", nil))
}

func TestSemanticScoreRange(t *testing.T) {
	reranker := NewSemanticReranker()
	scores := reranker.Score("butter", []string{"olive oil", "ghee", "", "zzzzzz"})

	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 100.0)
	}
}

func TestSemanticScoreIdenticalText(t *testing.T) {
	reranker := NewSemanticReranker()

	scores := reranker.Score("brown rice", []string{"brown rice"})
	assert.InDelta(t, 100.0, scores[0], 1e-9)
}

func TestSemanticScoreSimilarBeatsUnrelated(t *testing.T) {
	reranker := NewSemanticReranker()

	scores := reranker.Score("whole wheat flour", []string{"wheat flour", "salmon"})
	assert.Greater(t, scores[0], scores[1], "共享 trigram 的文字應得到較高分數")
}
