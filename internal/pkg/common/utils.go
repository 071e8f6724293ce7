package common

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

var (
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)
	quantityUnitPattern  = regexp.MustCompile(`\b\d+\.?\d*\s*(?:/\s*\d+)?\s*(?:cup|cups|tablespoon|tablespoons|tbsp|teaspoon|teaspoons|tsp|ounce|ounces|oz|pound|pounds|lb|lbs|gram|grams|g|kilogram|kilograms|kg|milliliter|milliliters|ml|liter|liters|l|pinch|dash|can|cans|package|packages|pkg)\b`)
	bareNumberPattern    = regexp.MustCompile(`\b\d+\.?\d*\s*(?:/\s*\d+)?\b`)
	specialCharPattern   = regexp.MustCompile(`[^a-z\s-]`)
	multiSpacePattern    = regexp.MustCompile(`\s+`)
	multiHyphenPattern   = regexp.MustCompile(`-+`)

	// 常見的處理方式形容詞，對食材比對沒有意義
	// "whole" 與 "canned" 不在列表內：全穀加分與超加工偵測依賴這兩個詞
	prepWordPatterns = buildPrepWordPatterns([]string{
		"fresh", "frozen", "dried", "chopped", "diced", "minced",
		"sliced", "grated", "shredded", "ground", "raw", "cooked",
		"large", "small", "medium", "ripe", "boneless", "skinless",
		"organic", "extra virgin", "unsalted", "salted", "plain",
	})
)

func buildPrepWordPatterns(words []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		patterns = append(patterns, regexp.MustCompile(`\b`+w+`\b`))
	}
	return patterns
}

// NormalizeIngredientName 將食材描述正規化為標準鍵
// 移除數量、單位與處理方式描述，僅保留食材本體；此轉換必須是冪等的
//
// 例："2 cups Fresh Chopped Tomatoes" → "tomatoes"
func NormalizeIngredientName(ingredient string) string {
	if ingredient == "" {
		return ""
	}

	normalized := strings.ToLower(ingredient)

	// 移除括號內容
	normalized = parentheticalPattern.ReplaceAllString(normalized, "")

	// 移除數量與單位（如 "1 cup"、"2.5 oz"、"1/2 tbsp"）
	normalized = quantityUnitPattern.ReplaceAllString(normalized, "")

	// 移除單獨出現的數字
	normalized = bareNumberPattern.ReplaceAllString(normalized, "")

	// 移除處理方式形容詞
	for _, p := range prepWordPatterns {
		normalized = p.ReplaceAllString(normalized, "")
	}

	// 移除特殊字符（保留連字號與空白）
	normalized = specialCharPattern.ReplaceAllString(normalized, "")

	// 合併連續空白與連字號
	normalized = multiSpacePattern.ReplaceAllString(normalized, " ")
	normalized = multiHyphenPattern.ReplaceAllString(normalized, "-")

	return strings.Trim(normalized, " -")
}

// NewIngredient 由原始描述建立食材，保留原文與正規化鍵
func NewIngredient(raw string) Ingredient {
	return Ingredient{
		Raw: raw,
		Key: NormalizeIngredientName(raw),
	}
}

// NewIngredients 批次建立食材列表
func NewIngredients(raws []string) []Ingredient {
	ingredients := make([]Ingredient, 0, len(raws))
	for _, raw := range raws {
		ingredients = append(ingredients, NewIngredient(raw))
	}
	return ingredients
}
