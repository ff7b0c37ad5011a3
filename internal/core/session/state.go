// Package session 保存每個瀏覽器 session 的搜尋狀態，讓使用者離開首頁再回來時還原上次的結果。
package session

import "recipe-discovery/internal/core/recipe"

// SearchState 單一 session 的搜尋狀態
type SearchState struct {
	SelectedIngredients []string         `json:"selectedIngredients"`
	FilteredRecipes     []recipe.Recipe  `json:"filteredRecipes"`
	HasSearched         bool             `json:"hasSearched"`         // 至少有一項條件
	HasSearchedManually bool             `json:"hasSearchedManually"` // 使用者按過搜尋
	Message             string           `json:"message"`
	SortBy              recipe.SortOrder `json:"sortBy"`
}

// DefaultState 沒有保存狀態時的預設值
func DefaultState() SearchState {
	return SearchState{
		SelectedIngredients: []string{},
		FilteredRecipes:     []recipe.Recipe{},
		SortBy:              recipe.DefaultSortOrder,
	}
}

// ShowMessage 只有使用者主動搜尋且有條件時才顯示結果訊息
func (s SearchState) ShowMessage() bool {
	return s.HasSearched && s.HasSearchedManually && s.Message != ""
}

// normalize 補齊解碼後缺少的欄位
func (s *SearchState) normalize() {
	if s.SelectedIngredients == nil {
		s.SelectedIngredients = []string{}
	}
	if s.FilteredRecipes == nil {
		s.FilteredRecipes = []recipe.Recipe{}
	}
	order, err := recipe.ParseSortOrder(string(s.SortBy))
	if err != nil {
		order = recipe.DefaultSortOrder
	}
	s.SortBy = order
}
