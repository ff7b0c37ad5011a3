package recipe

import "fmt"

// 結果訊息
const (
	MessageNoMatch = "No recipes match your filters."
)

// Filters 已正規化的篩選條件
type Filters struct {
	Ingredients  TagSet
	Allergies    TagSet
	Restrictions TagSet
	Diets        TagSet
}

// NewFilters 由使用者勾選的食材與個人資料建立篩選條件
func NewFilters(selection []string, profile UserProfile) Filters {
	return Filters{
		Ingredients:  NormalizeSelection(selection),
		Allergies:    NormalizeConstraints(profile.Allergies),
		Restrictions: NormalizeConstraints(profile.Restrictions),
		Diets:        NormalizeConstraints(profile.DietaryPreferences),
	}
}

// HasProfileFilters 是否有過敏、限制或飲食偏好條件
func (f Filters) HasProfileFilters() bool {
	return !f.Allergies.Empty() || !f.Restrictions.Empty() || !f.Diets.Empty()
}

// Empty 所有條件皆為空
func (f Filters) Empty() bool {
	return f.Ingredients.Empty() && !f.HasProfileFilters()
}

// Accepts 單一食譜是否符合全部條件
func (f Filters) Accepts(r Recipe) bool {
	// 食材：任一重疊即可
	if !f.Ingredients.Empty() && !f.Ingredients.Intersects(r.IngredientTags) {
		return false
	}
	// 飲食偏好：必須全部具備
	if !f.Diets.SubsetOf(r.DietTags) {
		return false
	}
	// 過敏原：任一重疊即排除
	if f.Allergies.Intersects(r.AllergyTags) {
		return false
	}
	// 飲食限制：必須全部符合
	return f.Restrictions.SubsetOf(r.RestrictionTags)
}

// MatchResult 比對結果
type MatchResult struct {
	Recipes     []Recipe
	Message     string
	HasSearched bool // false 表示沒有任何條件，呼叫端不應顯示訊息
}

// Match 依條件過濾食譜，保持輸入順序且不修改輸入
func Match(recipes []Recipe, f Filters) MatchResult {
	if f.Empty() {
		out := make([]Recipe, len(recipes))
		copy(out, recipes)
		return MatchResult{Recipes: out}
	}

	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if f.Accepts(r) {
			out = append(out, r)
		}
	}

	return MatchResult{
		Recipes:     out,
		Message:     ResultMessage(len(out), f),
		HasSearched: true,
	}
}

// ResultMessage 依比對數量與條件產生結果訊息
func ResultMessage(count int, f Filters) string {
	switch {
	case count == 0:
		return MessageNoMatch
	case f.Ingredients.Empty():
		return fmt.Sprintf("We found %d recipe(s) based on your profile.", count)
	case f.HasProfileFilters():
		return fmt.Sprintf("We found %d recipe(s) matching your ingredients and profile.", count)
	default:
		return fmt.Sprintf("We found %d recipe(s) based on your ingredients.", count)
	}
}
