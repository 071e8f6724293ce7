package analysis

import (
	"strings"

	"recipe-health-analyzer/internal/pkg/common"
)

// 各過敏原的關鍵字
var allergenKeywords = map[string][]string{
	"milk": {
		"milk", "cream", "butter", "cheese", "yogurt", "whey", "casein",
		"lactose", "dairy", "ghee", "buttermilk", "sour cream", "ice cream",
		"custard", "pudding",
	},
	"eggs": {
		"egg", "eggs", "albumin", "mayonnaise", "meringue", "eggnog",
	},
	"peanuts": {
		"peanut", "peanuts", "groundnut", "peanut butter", "peanut oil",
	},
	"tree_nuts": {
		"almond", "almonds", "walnut", "walnuts", "cashew", "cashews",
		"pecan", "pecans", "pistachio", "pistachios", "hazelnut", "hazelnuts",
		"macadamia", "brazil nut", "pine nut",
	},
	"soy": {
		"soy", "soya", "tofu", "tempeh", "edamame", "miso", "soy sauce",
		"tamari", "soybean", "soy milk",
	},
	"wheat": {
		"wheat", "flour", "bread", "pasta", "noodle", "couscous",
		"bulgur", "semolina", "durum", "farro", "spelt",
	},
	"fish": {
		"fish", "salmon", "tuna", "cod", "halibut", "tilapia", "trout",
		"mackerel", "sardine", "anchovy", "bass", "haddock",
	},
	"shellfish": {
		"shrimp", "prawn", "crab", "lobster", "clam", "oyster", "mussel",
		"scallop", "crayfish", "crawfish",
	},
}

// 過敏原嚴重程度
var allergenSeverity = map[string]string{
	"peanuts":   "high",
	"tree_nuts": "high",
	"shellfish": "high",
	"fish":      "medium",
	"eggs":      "medium",
	"milk":      "medium",
	"soy":       "low",
	"wheat":     "low",
}

// DetectAllergens 在食材鍵中偵測呼叫方指定的過敏原
// watch 為空時不做任何偵測
func DetectAllergens(keys []string, watch []string) []common.AllergenMatch {
	if len(watch) == 0 {
		return nil
	}

	var matches []common.AllergenMatch
	for _, allergen := range watch {
		name := strings.ToLower(strings.TrimSpace(allergen))
		keywords, ok := allergenKeywords[name]
		if !ok {
			continue
		}

		var hits []string
		for _, key := range keys {
			for _, kw := range keywords {
				if strings.Contains(key, kw) {
					hits = append(hits, key)
					break
				}
			}
		}
		if len(hits) == 0 {
			continue
		}

		severity := allergenSeverity[name]
		if severity == "" {
			severity = "low"
		}
		matches = append(matches, common.AllergenMatch{
			Allergen:    name,
			Severity:    severity,
			Ingredients: hits,
		})
	}
	return matches
}

// MatchAvoided 回傳命中呼叫方迴避清單的食材鍵
func MatchAvoided(keys []string, avoid []string) []string {
	if len(avoid) == 0 {
		return nil
	}

	var matched []string
	for _, key := range keys {
		for _, a := range avoid {
			norm := common.NormalizeIngredientName(a)
			if norm == "" {
				continue
			}
			if strings.Contains(key, norm) {
				matched = append(matched, key)
				break
			}
		}
	}
	return matched
}
