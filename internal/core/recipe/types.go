// Package recipe 實作食譜篩選與排序核心：標籤正規化、條件比對、排序，
// 以及從外部文件庫擷取並驗證食譜與使用者資料。
package recipe

// Recipe 食譜（外部擁有，唯讀）
type Recipe struct {
	ID              string   `json:"id"`
	Name            string   `json:"name,omitempty"`
	IngredientTags  []string `json:"ingredientTags"`
	AllergyTags     []string `json:"allergyTags"`
	RestrictionTags []string `json:"restrictionTags"`
	DietTags        []string `json:"dietTags"`
	Time            *int     `json:"time,omitempty"`      // 分鐘
	AvgRating       *float64 `json:"avgRating,omitempty"` // 0..5，nil 表示尚無評論
	ImageURL        string   `json:"imageURL,omitempty"`
	Servings        int      `json:"servings,omitempty"`
	Ingredients     []string `json:"ingredients"`
	Method          []string `json:"method"`
}

// DisplayName 顯示名稱：有 name 用 name，否則用 id
func (r Recipe) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// Minutes 烹調時間，缺值為 0
func (r Recipe) Minutes() int {
	if r.Time == nil {
		return 0
	}
	return *r.Time
}

// Rating 平均評分，缺值為 0
func (r Recipe) Rating() float64 {
	if r.AvgRating == nil {
		return 0
	}
	return *r.AvgRating
}

// UserProfile 使用者飲食偏好（外部擁有）。"None" 在擷取時已移除，空列表即無限制。
type UserProfile struct {
	ID                 string   `json:"id"`
	Username           string   `json:"username,omitempty"`
	Allergies          []string `json:"allergies"`
	Restrictions       []string `json:"restrictions"`
	DietaryPreferences []string `json:"dietaryPreferences"`
	SavedRecipes       []string `json:"savedRecipes,omitempty"`
	RatedRecipes       []string `json:"ratedRecipes,omitempty"`
}

// Review 食譜評論中與評分相關的欄位
type Review struct {
	Rating float64 `validate:"gte=0,lte=5"`
}
