package analysis

import (
	"strings"

	"recipe-health-analyzer/internal/core/nutrition"
	"recipe-health-analyzer/internal/core/swap"
	"recipe-health-analyzer/internal/pkg/common"
)

// 懲罰與加分的上限
const (
	penaltyCap          = 20.0
	processedPenaltyCap = 25.0
	fiberBonusCap       = 15.0
	wholeGrainBonus     = 5.0
	plantDiversityCap   = 5.0
)

// 全穀類關鍵字，命中任一即得固定加分
var wholeGrainTerms = []string{
	"whole wheat", "whole grain", "oat", "brown rice", "quinoa",
	"barley", "buckwheat", "millet", "bulgur", "farro",
}

// 植物多樣性計分的類別（每出現一類 +1.5 分）
var plantCategories = []string{"fruit", "vegetable", "legume", "nut"}

// 評分等級門檻（含下限）
var ratingBands = []struct {
	min    float64
	rating string
}{
	{80, "Excellent"},
	{60, "Good"},
	{40, "Decent"},
	{20, "Bad"},
	{0, "Poor"},
}

// Scorer 健康評分器
// 純函式、不做任何 I/O；明細加總後必可重建總分
type Scorer struct {
	tables *swap.Tables
}

// NewScorer 建立健康評分器
func NewScorer(tables *swap.Tables) *Scorer {
	return &Scorer{tables: tables}
}

// Score 計算 0-100 健康評分
// 未知營養素先套用基準值，缺值不可被當成 0 而虛增分數
func (s *Scorer) Score(perServing common.NutritionProfile, limits nutrition.ServingLimits, keys []string) common.HealthScore {
	p := nutrition.ApplyBaselines(perServing)

	breakdown := common.ScoreBreakdown{
		SugarPenalty:     limitPenalty(p.Sugar.Value, limits.SugarG),
		SatFatPenalty:    limitPenalty(p.SaturatedFat.Value, limits.SatFatG),
		TransFatPenalty:  clipScore(p.TransFat.Value*10, 0, penaltyCap), // 任何反式脂肪都懲罰，不看比例
		SodiumPenalty:    limitPenalty(p.Sodium.Value, limits.SodiumG),
		ProcessedPenalty: clipScore(5*float64(UltraProcessedCount(keys)), 0, processedPenaltyCap),
		FiberBonus:       clipScore(p.Fiber.Value/limits.FiberTarget*fiberBonusCap, 0, fiberBonusCap),
		WholeGrainBonus:  s.wholeGrainBonus(keys),
		PlantDiversity:   s.plantDiversity(keys),
	}

	raw := 100 - breakdown.TotalPenalty() + breakdown.TotalBonus()
	score := clipScore(raw, 0, 100)

	return common.HealthScore{
		Score:     score,
		Rating:    ratingFor(score),
		Breakdown: breakdown,
	}
}

// limitPenalty 超過上限的比例懲罰：clip((value-limit)/limit*20, 0, 20)
// 未超過上限時為 0
func limitPenalty(value, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return clipScore((value-limit)/limit*20, 0, penaltyCap)
}

func (s *Scorer) wholeGrainBonus(keys []string) float64 {
	for _, key := range keys {
		for _, term := range wholeGrainTerms {
			if strings.Contains(key, term) {
				return wholeGrainBonus
			}
		}
	}
	return 0
}

func (s *Scorer) plantDiversity(keys []string) float64 {
	present := make(map[string]struct{})
	for _, key := range keys {
		category := s.tables.CategoryOf(key)
		for _, plant := range plantCategories {
			if category == plant {
				present[category] = struct{}{}
			}
		}
	}
	return clipScore(1.5*float64(len(present)), 0, plantDiversityCap)
}

func ratingFor(score float64) string {
	for _, band := range ratingBands {
		if score >= band.min {
			return band.rating
		}
	}
	return "Poor"
}

func clipScore(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
