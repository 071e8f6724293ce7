package analysis

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"

	"recipe-health-analyzer/internal/core/estimate"
	"recipe-health-analyzer/internal/core/lookup"
	"recipe-health-analyzer/internal/core/swap"
	"recipe-health-analyzer/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLookup 固定回傳的查詢管線
type fakeLookup struct {
	result       *lookup.Result
	lookupErr    error
	profile      common.NutritionProfile
	nutritionErr error
}

func (f *fakeLookup) Lookup(ctx context.Context, recipeName string) (*lookup.Result, error) {
	return f.result, f.lookupErr
}

func (f *fakeLookup) NutritionFor(ctx context.Context, ingredients []string) (common.NutritionProfile, error) {
	return f.profile, f.nutritionErr
}

// failingEstimator 永遠失敗的估算器
type failingEstimator struct{}

func (failingEstimator) Estimate(ctx context.Context, recipeName string, ingredients []string) (estimate.Estimation, error) {
	return estimate.Estimation{}, errors.New("estimator down")
}

func newTestOrchestrator(lookupSvc RecipeLookup, estimator Estimator) *Orchestrator {
	tables := swap.NewTables()
	ranker := swap.NewRanker(tables, swap.NewSemanticReranker(), nil)
	return NewOrchestrator(lookupSvc, estimator, tables, ranker)
}

func TestAnalyzeRejectsEmptyRequest(t *testing.T) {
	o := newTestOrchestrator(&fakeLookup{}, estimate.NewHeuristicEstimator())

	_, err := o.Analyze(context.Background(), AnalyzeRequest{}, "req-1")

	var customErr *common.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, common.ErrCodeInvalidInput, customErr.Code)
}

func TestAnalyzePrimaryPipeline(t *testing.T) {
	lookupSvc := &fakeLookup{
		result: &lookup.Result{
			Ingredients: []string{"2 tbsp butter", "1 cup white sugar", "2 cups white flour", "1 cup spinach"},
			Nutrition: common.NutritionProfile{
				Sugar:        common.KnownNutrient(40),
				SaturatedFat: common.KnownNutrient(20),
				Sodium:       common.KnownNutrient(1.2),
			},
		},
	}
	o := newTestOrchestrator(lookupSvc, estimate.NewHeuristicEstimator())

	result, err := o.Analyze(context.Background(), AnalyzeRequest{
		Name:             "pound cake",
		Servings:         4,
		Allergens:        []string{"milk"},
		AvoidIngredients: []string{"flour"},
	}, "req-2")

	require.NoError(t, err)
	assert.Equal(t, common.SourcePrimary, result.Source)

	// 總量除以份數
	assert.InDelta(t, 10.0, result.PerServing.Sugar.Value, 1e-9)
	assert.InDelta(t, 5.0, result.PerServing.SaturatedFat.Value, 1e-9)

	// 查詢結果補上食材並正規化
	require.Len(t, result.Recipe.Ingredients, 4)
	assert.Equal(t, "butter", result.Recipe.Ingredients[0].Key)

	// 風險食材與替代建議
	riskyKeys := make(map[string]bool)
	for _, r := range result.RiskyIngredients {
		riskyKeys[r.Key] = true
	}
	assert.True(t, riskyKeys["butter"])
	assert.True(t, riskyKeys["white sugar"])
	require.NotEmpty(t, result.SwapSuggestions)

	// 最佳情境投影
	require.NotNil(t, result.BestCaseScore)
	assert.GreaterOrEqual(t, result.ScoreImprovement, 0.0)
	assert.GreaterOrEqual(t, result.Headroom, 0.0)

	// 過敏原與迴避清單
	require.Len(t, result.Allergens, 1)
	assert.Equal(t, "milk", result.Allergens[0].Allergen)
	assert.Equal(t, []string{"white flour"}, result.AvoidedMatches)
}

func TestAnalyzeFallbackOnServerError(t *testing.T) {
	lookupSvc := &fakeLookup{
		lookupErr: common.NewError(common.ErrCodeLookupFailure, "upstream down", http.StatusServiceUnavailable, nil),
	}
	o := newTestOrchestrator(lookupSvc, estimate.NewHeuristicEstimator())

	result, err := o.Analyze(context.Background(), AnalyzeRequest{Name: "mystery stew"}, "req-3")

	require.NoError(t, err)
	assert.Equal(t, common.SourceFallbackEstimate, result.Source)
	assert.GreaterOrEqual(t, result.HealthScore.Score, 0.0)
	assert.LessOrEqual(t, result.HealthScore.Score, 100.0)
}

func TestAnalyzeFallbackOnEmptyResult(t *testing.T) {
	o := newTestOrchestrator(&fakeLookup{}, estimate.NewHeuristicEstimator())

	result, err := o.Analyze(context.Background(), AnalyzeRequest{
		Name:        "unknown dish",
		Ingredients: []string{"white sugar", "butter"},
	}, "req-4")

	require.NoError(t, err)
	assert.Equal(t, common.SourceFallbackEstimate, result.Source)
	// 估算值反映食材內容
	assert.Greater(t, result.PerServing.Sugar.Value, 6.0)
}

func TestAnalyzeNonEligibleErrorPropagates(t *testing.T) {
	lookupSvc := &fakeLookup{lookupErr: errors.New("boom")}
	o := newTestOrchestrator(lookupSvc, estimate.NewHeuristicEstimator())

	_, err := o.Analyze(context.Background(), AnalyzeRequest{Name: "cake"}, "req-5")

	var customErr *common.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, common.ErrCodeLookupFailure, customErr.Code)
}

func TestAnalyzeEstimationFailureIsFatal(t *testing.T) {
	lookupSvc := &fakeLookup{
		lookupErr: common.NewError(common.ErrCodeLookupFailure, "upstream down", http.StatusBadGateway, nil),
	}
	o := newTestOrchestrator(lookupSvc, failingEstimator{})

	_, err := o.Analyze(context.Background(), AnalyzeRequest{Name: "cake"}, "req-6")

	var customErr *common.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, common.ErrCodeEstimationFailure, customErr.Code)
}

func TestAnalyzeTimeoutTriggersFallback(t *testing.T) {
	lookupSvc := &fakeLookup{lookupErr: context.DeadlineExceeded}
	o := newTestOrchestrator(lookupSvc, estimate.NewHeuristicEstimator())

	result, err := o.Analyze(context.Background(), AnalyzeRequest{Name: "slow soup"}, "req-7")

	require.NoError(t, err)
	assert.Equal(t, common.SourceFallbackEstimate, result.Source)
}

func TestAnalyzeTransportErrorTriggersFallback(t *testing.T) {
	lookupSvc := &fakeLookup{
		lookupErr: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
	}
	o := newTestOrchestrator(lookupSvc, estimate.NewHeuristicEstimator())

	result, err := o.Analyze(context.Background(), AnalyzeRequest{Name: "stew"}, "req-10")

	require.NoError(t, err)
	assert.Equal(t, common.SourceFallbackEstimate, result.Source)
}

func TestRecalculate(t *testing.T) {
	lookupSvc := &fakeLookup{
		profile: common.NutritionProfile{
			Sugar:        common.KnownNutrient(40),
			SaturatedFat: common.KnownNutrient(16),
			Sodium:       common.KnownNutrient(1.6),
		},
	}
	o := newTestOrchestrator(lookupSvc, estimate.NewHeuristicEstimator())

	result, err := o.Recalculate(context.Background(), RecalculateRequest{
		Ingredients:   []string{"2 tbsp butter", "1 cup white sugar", "2 cups white flour"},
		AcceptedSwaps: map[string]string{"1 cup white sugar": "stevia"},
		Servings:      4,
	}, "req-8")

	require.NoError(t, err)

	// share = 1/3，stevia 改善 45%：10 - 10*(1/3)*0.45 = 8.5
	assert.InDelta(t, 8.5, result.AdjustedNutrition.Sugar.Value, 1e-9)
	assert.GreaterOrEqual(t, result.TotalImprovement, 0.0)
}

func TestRecalculateRequiresIngredients(t *testing.T) {
	o := newTestOrchestrator(&fakeLookup{}, estimate.NewHeuristicEstimator())

	_, err := o.Recalculate(context.Background(), RecalculateRequest{
		AcceptedSwaps: map[string]string{"butter": "olive oil"},
	}, "req-9")

	var customErr *common.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, common.ErrCodeInvalidInput, customErr.Code)
}
