package swap

import (
	"hash/fnv"
	"math"

	"recipe-health-analyzer/internal/pkg/common"
)

const embeddingDim = 64

// SemanticReranker 語意重排器
// 使用本地確定性的字元 trigram 向量計算文字相似度，完全不做網路呼叫
// 只對傳入的候選評分，不新增也不移除候選；相同輸入永遠得到相同分數
type SemanticReranker struct{}

// NewSemanticReranker 建立語意重排器
func NewSemanticReranker() *SemanticReranker {
	return &SemanticReranker{}
}

// Score 計算原始食材與每個候選的語意分數（0-100）
// 回傳切片與 candidates 等長且順序一致
func (r *SemanticReranker) Score(original string, candidates []string) []float64 {
	origVec := embed(original)

	scores := make([]float64, len(candidates))
	for i, candidate := range candidates {
		cos := cosine(origVec, embed(candidate))
		scores[i] = clip(cos*50+50, 0, 100)
	}
	return scores
}

// embed 將文字轉為固定維度的 trigram 頻率向量
func embed(text string) []float64 {
	normalized := common.NormalizeIngredientName(text)
	// 前後補空白作為邊界符，讓短字串也有足夠的 trigram
	padded := " " + normalized + " "

	vec := make([]float64, embeddingDim)
	if len(padded) < 3 {
		return vec
	}

	for i := 0; i+3 <= len(padded); i++ {
		h := fnv.New32a()
		_, _ = h.Write([]byte(padded[i : i+3]))
		vec[h.Sum32()%embeddingDim]++
	}
	return vec
}

func cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
