package recipe

import "strings"

// FilterByName 食譜索引頁的名稱搜尋：不分大小寫的子字串比對，空字串回傳全部
func FilterByName(recipes []Recipe, term string) []Recipe {
	term = NormalizeTag(term)
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if term == "" || strings.Contains(strings.ToLower(r.DisplayName()), term) {
			out = append(out, r)
		}
	}
	return out
}

// MissingIngredients 食譜需要但使用者未勾選的食材標籤（保留原始寫法，去除重複）
func MissingIngredients(r Recipe, selection []string) []string {
	have := NormalizeSelection(selection)
	seen := make(TagSet, len(r.IngredientTags))
	missing := make([]string, 0, len(r.IngredientTags))
	for _, tag := range r.IngredientTags {
		n := NormalizeTag(tag)
		if n == "" || have.Has(n) || seen.Has(n) {
			continue
		}
		seen[n] = struct{}{}
		missing = append(missing, strings.TrimSpace(tag))
	}
	return missing
}

// Find 依 ID 尋找食譜
func Find(recipes []Recipe, id string) (Recipe, bool) {
	for _, r := range recipes {
		if r.ID == id {
			return r, true
		}
	}
	return Recipe{}, false
}
