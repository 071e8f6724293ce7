package analysis

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"recipe-health-analyzer/internal/core/estimate"
	"recipe-health-analyzer/internal/core/lookup"
	"recipe-health-analyzer/internal/core/nutrition"
	"recipe-health-analyzer/internal/core/swap"
	"recipe-health-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// 分析狀態，只記錄於日誌供追蹤
const (
	stateRequested        = "requested"
	stateResolving        = "resolving"
	stateResolved         = "resolved"
	stateResolutionFailed = "resolution_failed"
	stateScoring          = "scoring"
	stateRankingSwaps     = "ranking_swaps"
	stateProjecting       = "projecting"
	stateDone             = "done"
)

// RecipeLookup 主要營養查詢管線
type RecipeLookup interface {
	// Lookup 以食譜名稱查詢，查無資料時回傳 (nil, nil)
	Lookup(ctx context.Context, recipeName string) (*lookup.Result, error)
	// NutritionFor 以食材列表查詢營養總量
	NutritionFor(ctx context.Context, ingredients []string) (common.NutritionProfile, error)
}

// Estimator 備援估算管線，輸出為每份數值
type Estimator interface {
	Estimate(ctx context.Context, recipeName string, ingredients []string) (estimate.Estimation, error)
}

// AnalyzeRequest 分析請求
type AnalyzeRequest struct {
	Name             string   `json:"name"`
	Ingredients      []string `json:"ingredients"`
	Servings         int      `json:"servings"`
	Allergens        []string `json:"allergens"`
	AvoidIngredients []string `json:"avoid_ingredients"`
}

// RecalculateRequest 重新計算請求，AcceptedSwaps 為原食材到替代品的對應
type RecalculateRequest struct {
	Ingredients   []string          `json:"ingredients"`
	AcceptedSwaps map[string]string `json:"accepted_swaps"`
	Servings      int               `json:"servings"`
}

// Orchestrator 分析流程協調器
// 主要查詢與估算備援互斥：同一次請求只有一條管線產生營養資料，
// Source 標記必須反映實際使用的那條
type Orchestrator struct {
	lookup    RecipeLookup
	estimator Estimator
	detector  *Detector
	scorer    *Scorer
	ranker    *swap.Ranker
	projector *nutrition.Projector
}

// NewOrchestrator 建立分析協調器
func NewOrchestrator(lookupSvc RecipeLookup, estimator Estimator, tables *swap.Tables, ranker *swap.Ranker) *Orchestrator {
	return &Orchestrator{
		lookup:    lookupSvc,
		estimator: estimator,
		detector:  NewDetector(),
		scorer:    NewScorer(tables),
		ranker:    ranker,
		projector: nutrition.NewProjector(tables.ImprovementFor),
	}
}

// Analyze 執行完整分析流程
func (o *Orchestrator) Analyze(ctx context.Context, req AnalyzeRequest, requestID string) (*common.AnalysisResult, error) {
	start := time.Now()
	o.logState(stateRequested, req.Name, requestID)

	if req.Name == "" && len(req.Ingredients) == 0 {
		return nil, common.ErrInvalidInput
	}
	servings := nutrition.ClampServings(req.Servings)

	// 解析營養資料：主要管線失敗時切換到估算備援
	o.logState(stateResolving, req.Name, requestID)
	perServing, ingredients, source, err := o.resolve(ctx, req, servings, requestID)
	if err != nil {
		return nil, err
	}
	o.logState(stateResolved, req.Name, requestID)

	recipe := common.Recipe{
		Name:        req.Name,
		Ingredients: ingredients,
		Servings:    servings,
	}
	keys := recipe.IngredientKeys()

	risky := o.detector.Detect(keys, perServing)

	// 每個風險食材的替代排名；合成的整份食譜項目沒有可替代的對象
	o.logState(stateRankingSwaps, req.Name, requestID)
	var suggestions []common.SwapSuggestion
	for _, r := range risky {
		if r.Key == WholeRecipeKey {
			continue
		}
		if suggestion, ok := o.ranker.Rank(ctx, r.Key, r.Categories, keys); ok {
			suggestions = append(suggestions, suggestion)
		}
	}

	o.logState(stateScoring, req.Name, requestID)
	limits := nutrition.LimitsFor(servings)
	score := o.scorer.Score(perServing, limits, keys)

	result := &common.AnalysisResult{
		Recipe:           recipe,
		PerServing:       perServing,
		RiskyIngredients: risky,
		SwapSuggestions:  suggestions,
		Allergens:        DetectAllergens(keys, req.Allergens),
		AvoidedMatches:   MatchAvoided(keys, req.AvoidIngredients),
		HealthScore:      score,
		Source:           source,
	}

	// 最佳情境投影：每個建議都採用排名第一的替代
	if len(suggestions) > 0 {
		o.logState(stateProjecting, req.Name, requestID)
		accepted := make(map[string]string, len(suggestions))
		for _, s := range suggestions {
			accepted[s.Ingredient] = s.Alternatives[0].Name
		}

		projected := o.projector.Project(perServing, accepted, len(keys))
		bestKeys := substituteKeys(keys, accepted)
		best := o.scorer.Score(projected, limits, bestKeys)

		result.BestCaseScore = &best
		result.ScoreImprovement = best.Score - score.Score
		result.Headroom = headroom(score.Score, result.ScoreImprovement)
	}

	o.logState(stateDone, req.Name, requestID)
	common.LogInfo("食譜分析完成",
		zap.String("recipe", req.Name),
		zap.String("request_id", requestID),
		zap.String("source", source),
		zap.Float64("score", score.Score),
		zap.Int("risky", len(risky)),
		zap.Duration("耗時", time.Since(start)),
	)

	return result, nil
}

// Recalculate 套用呼叫方已接受的替代後重新評分
func (o *Orchestrator) Recalculate(ctx context.Context, req RecalculateRequest, requestID string) (*common.RecalculateResult, error) {
	if len(req.Ingredients) == 0 {
		return nil, common.ErrInvalidInput
	}
	servings := nutrition.ClampServings(req.Servings)

	perServing, _, _, err := o.resolve(ctx, AnalyzeRequest{Ingredients: req.Ingredients}, servings, requestID)
	if err != nil {
		return nil, err
	}

	keys := common.Recipe{Ingredients: common.NewIngredients(req.Ingredients)}.IngredientKeys()

	// 接受表的鍵正規化後才能與食材鍵對上
	accepted := make(map[string]string, len(req.AcceptedSwaps))
	for original, substitute := range req.AcceptedSwaps {
		norm := common.NormalizeIngredientName(original)
		if norm == "" || substitute == "" {
			continue
		}
		accepted[norm] = substitute
	}

	limits := nutrition.LimitsFor(servings)
	originalScore := o.scorer.Score(perServing, limits, keys)

	adjusted := o.projector.Project(perServing, accepted, len(keys))
	adjustedScore := o.scorer.Score(adjusted, limits, substituteKeys(keys, accepted))

	common.LogInfo("替代重新計算完成",
		zap.String("request_id", requestID),
		zap.Int("accepted_swaps", len(accepted)),
		zap.Float64("original_score", originalScore.Score),
		zap.Float64("adjusted_score", adjustedScore.Score),
	)

	return &common.RecalculateResult{
		AdjustedNutrition: adjusted,
		HealthScore:       adjustedScore,
		TotalImprovement:  adjustedScore.Score - originalScore.Score,
	}, nil
}

// resolve 取得每份營養與食材列表
// 回傳值：每份營養、食材、來源標記、錯誤
func (o *Orchestrator) resolve(ctx context.Context, req AnalyzeRequest, servings int, requestID string) (common.NutritionProfile, []common.Ingredient, string, error) {
	ingredients := common.NewIngredients(req.Ingredients)

	absolute, resolved, lookupErr := o.resolvePrimary(ctx, req)
	if lookupErr == nil && !profileEmpty(absolute) {
		if len(ingredients) == 0 && len(resolved) > 0 {
			ingredients = common.NewIngredients(resolved)
		}
		return nutrition.PerServing(absolute, servings), ingredients, common.SourcePrimary, nil
	}

	// 空結果、逾時或特定 HTTP 狀態才切換備援，其他錯誤直接回傳
	if lookupErr != nil && !fallbackEligible(lookupErr) {
		return common.NutritionProfile{}, nil, "", common.NewError(
			common.ErrCodeLookupFailure, "食譜營養查詢失敗", http.StatusBadGateway, lookupErr)
	}

	o.logState(stateResolutionFailed, req.Name, requestID)
	common.LogWarn("主要查詢管線失敗，切換估算備援",
		zap.String("recipe", req.Name),
		zap.String("request_id", requestID),
		zap.Error(lookupErr),
	)

	estimation, err := o.estimator.Estimate(ctx, req.Name, req.Ingredients)
	if err != nil {
		return common.NutritionProfile{}, nil, "", common.NewError(
			common.ErrCodeEstimationFailure, "營養估算失敗", http.StatusBadGateway, err)
	}

	if len(ingredients) == 0 && len(estimation.Ingredients) > 0 {
		ingredients = common.NewIngredients(estimation.Ingredients)
	}

	return estimation.PerServing, ingredients, common.SourceFallbackEstimate, nil
}

// resolvePrimary 主要管線：有食材列表用食材查詢，否則以名稱查詢
// 名稱查詢成功時一併回傳查詢結果的食材列表
func (o *Orchestrator) resolvePrimary(ctx context.Context, req AnalyzeRequest) (common.NutritionProfile, []string, error) {
	if len(req.Ingredients) > 0 {
		profile, err := o.lookup.NutritionFor(ctx, req.Ingredients)
		return profile, nil, err
	}

	result, err := o.lookup.Lookup(ctx, req.Name)
	if err != nil || result == nil {
		return common.NutritionProfile{}, nil, err
	}
	return result.Nutrition, result.Ingredients, nil
}

func (o *Orchestrator) logState(state, recipeName, requestID string) {
	common.LogDebug("分析狀態轉換",
		zap.String("state", state),
		zap.String("recipe", recipeName),
		zap.String("request_id", requestID),
	)
}

// fallbackEligible 判斷查詢錯誤是否應觸發估算備援
// 逾時、網路層錯誤與特定 HTTP 狀態視為主要管線不可達；其餘錯誤不吞掉
func fallbackEligible(err error) bool {
	if err == nil {
		return true // 空結果
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// DNS 解析失敗與連線被拒也代表管線不可達，不只逾時
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var customErr *common.CustomError
	if errors.As(err, &customErr) {
		switch customErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound,
			http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable:
			return true
		}
	}

	return false
}

// headroom 最佳替代可收回的剩餘分數比例（%）
// 原始分數已滿分時沒有可收回的空間
func headroom(originalScore, improvement float64) float64 {
	remaining := 100 - originalScore
	if remaining <= 0 || improvement <= 0 {
		return 0
	}
	return improvement / remaining * 100
}

// profileEmpty 全部欄位皆未知視為空結果
func profileEmpty(p common.NutritionProfile) bool {
	return !p.Calories.Known && !p.Protein.Known && !p.TotalFat.Known &&
		!p.SaturatedFat.Known && !p.TransFat.Known && !p.Carbohydrate.Known &&
		!p.Sugar.Known && !p.Fiber.Known && !p.Sodium.Known && !p.Cholesterol.Known
}

// substituteKeys 將已接受替代的食材鍵換成替代品的正規化鍵
func substituteKeys(keys []string, accepted map[string]string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if substitute, ok := accepted[key]; ok {
			out = append(out, common.NormalizeIngredientName(substitute))
			continue
		}
		out = append(out, key)
	}
	return out
}
