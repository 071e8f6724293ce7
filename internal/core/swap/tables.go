package swap

import (
	"sort"
	"strings"

	"recipe-health-analyzer/internal/pkg/common"
)

// Tables 替代與分類的靜態資料表
// 程式啟動時載入一次，之後唯讀；由建構式明確傳入各元件，不使用全域可變狀態
type Tables struct {
	categoryOrder    []string
	categoryKeywords map[string][]string
	swaps            map[string]map[string][]string
	improvements     []improvementEntry
	riskFallback     map[common.RiskCategory]string
}

type improvementEntry struct {
	pattern string
	pct     float64
}

// NewTables 載入內建替代資料表
func NewTables() *Tables {
	return &Tables{
		// 分類比對順序固定，確保結果可重現
		categoryOrder: []string{
			"oil", "sweetener", "dairy", "grain", "protein",
			"vegetable", "fruit", "legume", "nut", "spice", "condiment",
		},
		categoryKeywords: map[string][]string{
			"oil":       {"oil", "butter", "ghee", "margarine", "shortening", "lard", "fat"},
			"sweetener": {"sugar", "honey", "syrup", "stevia", "sweetener", "molasses", "agave", "fructose", "glucose"},
			"dairy":     {"milk", "cream", "cheese", "yogurt", "butter", "dairy"},
			"grain":     {"rice", "flour", "bread", "pasta", "wheat", "oat", "quinoa", "barley", "grain"},
			"protein":   {"chicken", "beef", "pork", "fish", "turkey", "lamb", "tofu", "tempeh", "egg"},
			"vegetable": {"carrot", "broccoli", "spinach", "tomato", "onion", "garlic", "pepper", "lettuce", "cabbage", "kale", "vegetable", "zucchini"},
			"fruit":     {"apple", "banana", "orange", "berry", "grape", "melon", "avocado", "fruit"},
			"legume":    {"bean", "lentil", "chickpea", "pea", "edamame"},
			"nut":       {"almond", "walnut", "cashew", "pecan", "pistachio", "hazelnut", "peanut", "nut"},
			"spice":     {"salt", "cumin", "paprika", "oregano", "basil", "thyme", "cinnamon", "spice", "herb"},
			"condiment": {"sauce", "ketchup", "mustard", "mayo", "mayonnaise", "dressing"},
		},
		// 類別 → 食材鍵 → 較健康的替代選項
		swaps: map[string]map[string][]string{
			"oil": {
				"vegetable oil": {"olive oil", "avocado oil", "coconut oil"},
				"butter":        {"ghee", "olive oil", "avocado", "coconut oil"},
				"margarine":     {"olive oil", "avocado oil"},
				"shortening":    {"coconut oil", "applesauce"},
				"lard":          {"olive oil", "avocado oil"},
			},
			"sweetener": {
				"sugar":                    {"honey", "maple syrup", "stevia", "monk fruit"},
				"white sugar":              {"coconut sugar", "date sugar", "honey"},
				"brown sugar":              {"coconut sugar", "maple syrup", "date sugar"},
				"corn syrup":               {"honey", "maple syrup", "agave nectar"},
				"high fructose corn syrup": {"honey", "maple syrup"},
			},
			"dairy": {
				"cream":       {"coconut cream", "cashew cream"},
				"heavy cream": {"coconut cream", "cashew cream"},
				"milk":        {"almond milk", "oat milk", "soy milk", "coconut milk"},
				"whole milk":  {"almond milk", "oat milk", "low-fat milk"},
				"sour cream":  {"greek yogurt", "coconut cream"},
				"cheese":      {"nutritional yeast", "cashew cheese"},
			},
			"grain": {
				"white rice":        {"brown rice", "quinoa", "cauliflower rice"},
				"white flour":       {"whole wheat flour", "almond flour", "oat flour"},
				"all-purpose flour": {"whole wheat flour", "spelt flour"},
				"pasta":             {"whole wheat pasta", "zucchini noodles", "soba noodles"},
				"white bread":       {"whole wheat bread", "sourdough bread"},
			},
			"protein": {
				"ground beef": {"ground turkey", "ground chicken", "lentils"},
				"bacon":       {"turkey bacon", "tempeh bacon"},
				"sausage":     {"chicken sausage", "turkey sausage"},
			},
			"condiment": {
				"mayonnaise": {"greek yogurt", "avocado", "hummus"},
				"ketchup":    {"tomato paste", "salsa"},
				"soy sauce":  {"coconut aminos", "tamari"},
			},
			"spice": {
				"salt":           {"herbs", "lemon juice", "garlic powder"},
				"seasoning salt": {"herb blend", "garlic powder"},
			},
		},
		// 替代食材的固定改善幅度（%），依類別升級程度而定
		// 例：飽和脂肪來源 → 不飽和脂肪來源 = 40
		// 同一張表也作為營養投影的 delta_pct
		improvements: []improvementEntry{
			{"olive oil", 40},
			{"avocado oil", 40},
			{"avocado", 35},
			{"coconut oil", 20},
			{"ghee", 25},
			{"applesauce", 45},
			{"stevia", 45},
			{"monk fruit", 45},
			{"coconut sugar", 20},
			{"date sugar", 25},
			{"maple syrup", 15},
			{"honey", 15},
			{"agave", 15},
			{"almond milk", 35},
			{"oat milk", 30},
			{"soy milk", 30},
			{"coconut milk", 20},
			{"low-fat milk", 25},
			{"coconut cream", 15},
			{"cashew cream", 30},
			{"cashew cheese", 25},
			{"greek yogurt", 30},
			{"nutritional yeast", 40},
			{"brown rice", 30},
			{"quinoa", 35},
			{"cauliflower rice", 40},
			{"whole wheat flour", 30},
			{"almond flour", 35},
			{"oat flour", 30},
			{"spelt flour", 25},
			{"whole wheat pasta", 30},
			{"whole wheat bread", 30},
			{"sourdough bread", 20},
			{"zucchini noodles", 45},
			{"soba noodles", 25},
			{"ground turkey", 30},
			{"ground chicken", 30},
			{"lentils", 45},
			{"turkey bacon", 25},
			{"tempeh bacon", 40},
			{"tempeh", 40},
			{"chicken sausage", 25},
			{"turkey sausage", 25},
			{"hummus", 40},
			{"tomato paste", 30},
			{"salsa", 35},
			{"coconut aminos", 40},
			{"tamari", 20},
			{"herbs", 45},
			{"herb blend", 45},
			{"lemon juice", 45},
			{"garlic powder", 40},
		},
		// 風險類別的最後備援：找不到對應食材鍵時，退回整個替代類別
		riskFallback: map[common.RiskCategory]string{
			common.RiskTransFat:           "oil",
			common.RiskHighSaturatedFat:   "oil",
			common.RiskRefinedSugar:       "sweetener",
			common.RiskArtificialAdditive: "sweetener",
			common.RiskHighSodium:         "condiment",
		},
	}
}

// CategoryOf 以關鍵字判斷食材類別，無法判斷時回傳 "other"
func (t *Tables) CategoryOf(key string) string {
	lower := strings.ToLower(key)
	for _, category := range t.categoryOrder {
		for _, kw := range t.categoryKeywords[category] {
			if strings.Contains(lower, kw) {
				return category
			}
		}
	}
	return "other"
}

// CandidatesFor 取得替代候選池
// 依序嘗試：精確鍵比對 → 子字串比對 → 風險類別備援；結果去重且順序固定
func (t *Tables) CandidatesFor(key string, riskCategories []common.RiskCategory) []string {
	category := t.CategoryOf(key)

	if categorySwaps, ok := t.swaps[category]; ok {
		// 1. 精確比對
		if alts, ok := categorySwaps[key]; ok {
			return dedupe(alts)
		}

		// 2. 子字串比對（食材鍵包含表內鍵，或相反）
		var partial []string
		for _, tableKey := range sortedKeys(categorySwaps) {
			if strings.Contains(key, tableKey) || strings.Contains(tableKey, key) {
				partial = append(partial, categorySwaps[tableKey]...)
			}
		}
		if len(partial) > 0 {
			return dedupe(partial)
		}

		// 類別命中但沒有鍵符合：退回整個類別的替代選項
		var all []string
		for _, tableKey := range sortedKeys(categorySwaps) {
			all = append(all, categorySwaps[tableKey]...)
		}
		if len(all) > 0 {
			return dedupe(all)
		}
	}

	// 3. 以偵測到的風險類別退回對應替代類別
	for _, rc := range riskCategories {
		fallbackCategory, ok := t.riskFallback[rc]
		if !ok {
			continue
		}
		categorySwaps, ok := t.swaps[fallbackCategory]
		if !ok {
			continue
		}
		var all []string
		for _, tableKey := range sortedKeys(categorySwaps) {
			all = append(all, categorySwaps[tableKey]...)
		}
		if len(all) > 0 {
			return dedupe(all)
		}
	}

	return nil
}

// ImprovementFor 回傳替代食材的固定改善幅度（%），查無資料時為 10
func (t *Tables) ImprovementFor(substitute string) float64 {
	normalized := common.NormalizeIngredientName(substitute)
	for _, entry := range t.improvements {
		if strings.Contains(normalized, entry.pattern) {
			return entry.pct
		}
	}
	return 10
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		norm := common.NormalizeIngredientName(name)
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, name)
	}
	return out
}
