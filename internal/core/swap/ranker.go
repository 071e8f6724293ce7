package swap

import (
	"context"
	"sort"
	"strings"

	"recipe-health-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// 排名權重，總和為 1.0
const (
	flavorWeight   = 0.5
	healthWeight   = 0.4
	semanticWeight = 0.1
)

// 每個風險食材最多回傳的替代數量
const maxAlternatives = 5

// FlavorService 風味配對查詢服務
// 純粹的加分來源：不可用時必須退化為空結果，不可讓錯誤中斷排名
type FlavorService interface {
	// Pairings 查詢可搭配的食材名稱
	Pairings(ctx context.Context, ingredient string) ([]string, error)
	// FlavorProfile 查詢風味分子集合
	FlavorProfile(ctx context.Context, ingredient string) ([]string, error)
}

// Ranker 替代食材排名器
// 候選發現（靜態表 + 風味服務）與評分（語意重排）責任分離，
// 發現來源可替換而不影響評分
type Ranker struct {
	tables   *Tables
	reranker *SemanticReranker
	flavor   FlavorService // 可為 nil（純靜態表模式）
}

// NewRanker 建立替代排名器
func NewRanker(tables *Tables, reranker *SemanticReranker, flavor FlavorService) *Ranker {
	return &Ranker{
		tables:   tables,
		reranker: reranker,
		flavor:   flavor,
	}
}

// Rank 為單一風險食材產生排名後的替代建議
// 候選為零時回傳 ok=false，呼叫方應直接省略該食材，不產生空的建議
func (r *Ranker) Rank(ctx context.Context, riskyKey string, riskCategories []common.RiskCategory, recipeKeys []string) (common.SwapSuggestion, bool) {
	// 1. 靜態替代表：精確 → 子字串 → 風險類別備援
	candidates := r.tables.CandidatesFor(riskyKey, riskCategories)

	// 2. 合併風味服務建議的配對（可用時）
	if r.flavor != nil {
		pairings, err := r.flavor.Pairings(ctx, riskyKey)
		if err != nil {
			common.LogWarn("風味配對查詢失敗，僅使用靜態替代表",
				zap.String("ingredient", riskyKey),
				zap.Error(err),
			)
		} else if len(pairings) > 0 {
			candidates = dedupe(append(candidates, pairings...))
			common.LogDebug("合併風味配對候選",
				zap.String("ingredient", riskyKey),
				zap.Int("pairings", len(pairings)),
			)
		}
	}

	// 3. 排除已存在於食譜中的候選（不分大小寫、正規化後比對）
	candidates = excludeExisting(candidates, riskyKey, recipeKeys)
	if len(candidates) == 0 {
		common.LogInfo("無可用替代候選",
			zap.String("ingredient", riskyKey),
		)
		return common.SwapSuggestion{}, false
	}

	// 4. 原始食材的風味分子，作為 Jaccard 相似度的基準
	var originalMolecules []string
	if r.flavor != nil {
		mols, err := r.flavor.FlavorProfile(ctx, riskyKey)
		if err == nil {
			originalMolecules = mols
		}
	}

	// 5. 語意分數一次算完，保持與候選順序一致
	semanticScores := r.reranker.Score(riskyKey, candidates)

	options := make([]common.SubstituteCandidate, 0, len(candidates))
	for i, candidate := range candidates {
		flavorMatch, shared := r.flavorSimilarity(ctx, originalMolecules, candidate)
		healthImprovement := r.tables.ImprovementFor(candidate)

		options = append(options, common.SubstituteCandidate{
			Name:              candidate,
			FlavorMatch:       flavorMatch,
			HealthImprovement: healthImprovement,
			SemanticScore:     semanticScores[i],
			SharedMolecules:   shared,
			RankScore:         flavorWeight*flavorMatch + healthWeight*healthImprovement + semanticWeight*semanticScores[i],
		})
	}

	// 6. 分數由高到低，同分以名稱遞增排序確保結果可重現
	sort.Slice(options, func(i, j int) bool {
		if options[i].RankScore != options[j].RankScore {
			return options[i].RankScore > options[j].RankScore
		}
		return options[i].Name < options[j].Name
	})

	if len(options) > maxAlternatives {
		options = options[:maxAlternatives]
	}

	common.LogInfo("替代排名完成",
		zap.String("ingredient", riskyKey),
		zap.Int("alternatives", len(options)),
		zap.String("best", options[0].Name),
	)

	return common.SwapSuggestion{
		Ingredient:   riskyKey,
		Alternatives: options,
	}, true
}

// flavorSimilarity 以共享風味分子的 Jaccard 相似度計算 flavor_match（0-100）
// 風味服務不可用或查無資料時為 0
func (r *Ranker) flavorSimilarity(ctx context.Context, originalMolecules []string, candidate string) (float64, []string) {
	if r.flavor == nil || len(originalMolecules) == 0 {
		return 0, nil
	}

	candMolecules, err := r.flavor.FlavorProfile(ctx, candidate)
	if err != nil || len(candMolecules) == 0 {
		return 0, nil
	}

	origSet := toLowerSet(originalMolecules)
	candSet := toLowerSet(candMolecules)

	var shared []string
	for m := range origSet {
		if _, ok := candSet[m]; ok {
			shared = append(shared, m)
		}
	}
	sort.Strings(shared)

	union := len(origSet) + len(candSet) - len(shared)
	if union == 0 {
		return 0, nil
	}
	return float64(len(shared)) / float64(union) * 100, shared
}

func excludeExisting(candidates []string, riskyKey string, recipeKeys []string) []string {
	existing := make(map[string]struct{}, len(recipeKeys)+1)
	existing[common.NormalizeIngredientName(riskyKey)] = struct{}{}
	for _, k := range recipeKeys {
		existing[common.NormalizeIngredientName(k)] = struct{}{}
	}

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := existing[common.NormalizeIngredientName(c)]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

func toLowerSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		set[strings.ToLower(item)] = struct{}{}
	}
	return set
}
