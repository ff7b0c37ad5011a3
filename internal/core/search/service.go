// Package search 組合食譜目錄、篩選核心與 session 狀態，提供首頁搜尋、食譜索引與食譜詳情的業務流程。
package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"recipe-discovery/internal/core/recipe"
	"recipe-discovery/internal/core/session"
	"recipe-discovery/internal/metrics"
	"recipe-discovery/internal/pkg/common"
)

// 搜尋種類（指標標籤）
const (
	kindManual  = "manual"
	kindPreview = "preview"
	kindClear   = "clear"
)

// Catalog 食譜與使用者資料來源
type Catalog interface {
	Recipes(ctx context.Context) ([]recipe.Recipe, error)
	Recipe(ctx context.Context, id string) (recipe.Recipe, error)
	Profile(ctx context.Context, userID string) (recipe.UserProfile, error)
}

// Identity 請求者身分：session 由瀏覽器 cookie 決定，使用者由外部認證提供
type Identity struct {
	SessionID string
	UserID    string
}

// View 首頁顯示用的結果
type View struct {
	Recipes             []recipe.Recipe
	SelectedIngredients []string
	HasSearched         bool
	ShowMessage         bool
	Message             string
	SortBy              recipe.SortOrder
}

// Detail 食譜詳情與使用者尚缺的食材
type Detail struct {
	Recipe              recipe.Recipe
	SelectedIngredients []string
	MissingIngredients  []string
}

// Service 搜尋服務
type Service struct {
	catalog   Catalog
	persister *session.Persister
}

// NewService 建立搜尋服務
func NewService(catalog Catalog, persister *session.Persister) *Service {
	return &Service{catalog: catalog, persister: persister}
}

// Home 還原上次的搜尋狀態；沒有保存狀態時以個人資料預覽，訊息保持隱藏
func (s *Service) Home(ctx context.Context, id Identity) View {
	if state, found := s.persister.Load(ctx, id.SessionID); found {
		return newView(state)
	}

	state := s.evaluate(ctx, id.UserID, nil, recipe.DefaultSortOrder)
	state.HasSearchedManually = false
	metrics.RecordSearch(kindPreview, state.HasSearched, len(state.FilteredRecipes))

	s.save(ctx, id.SessionID, state)
	return newView(state)
}

// Search 使用者按下搜尋：以勾選的食材與個人資料比對，結果保存到 session
func (s *Service) Search(ctx context.Context, id Identity, ingredients []string, sortBy string) (View, error) {
	order, err := s.sortOrder(ctx, id.SessionID, sortBy)
	if err != nil {
		return View{}, err
	}

	selection := cleanSelection(ingredients)
	state := s.evaluate(ctx, id.UserID, selection, order)
	state.HasSearchedManually = true
	metrics.RecordSearch(kindManual, state.HasSearched, len(state.FilteredRecipes))

	common.LogInfo("搜尋完成",
		zap.String("session_id", id.SessionID),
		zap.String("ingredients", common.StringSliceToString(selection)),
		zap.Int("matched", len(state.FilteredRecipes)),
		zap.Bool("has_searched", state.HasSearched),
	)

	s.save(ctx, id.SessionID, state)
	return newView(state), nil
}

// SetSort 變更排序方式，保留其他搜尋狀態
func (s *Service) SetSort(ctx context.Context, id Identity, sortBy string) (View, error) {
	order, err := recipe.ParseSortOrder(sortBy)
	if err != nil {
		return View{}, err
	}

	state, found := s.persister.Load(ctx, id.SessionID)
	if !found {
		state = s.evaluate(ctx, id.UserID, nil, order)
	}
	state.SortBy = order

	s.save(ctx, id.SessionID, state)
	return newView(state), nil
}

// Clear 清除勾選的食材，以個人資料重新預覽並隱藏訊息
func (s *Service) Clear(ctx context.Context, id Identity) View {
	previous, _ := s.persister.Load(ctx, id.SessionID)

	state := s.evaluate(ctx, id.UserID, nil, previous.SortBy)
	state.HasSearchedManually = false
	metrics.RecordSearch(kindClear, state.HasSearched, len(state.FilteredRecipes))

	s.save(ctx, id.SessionID, state)
	return newView(state)
}

// Reset 刪除 session 的搜尋狀態（登出時使用）
func (s *Service) Reset(ctx context.Context, id Identity) error {
	return s.persister.Clear(ctx, id.SessionID)
}

// Index 食譜索引頁：名稱搜尋加排序，文件庫無法讀取時回傳空列表
func (s *Service) Index(ctx context.Context, term, sortBy string) ([]recipe.Recipe, recipe.SortOrder, error) {
	order, err := recipe.ParseSortOrder(sortBy)
	if err != nil {
		return nil, "", err
	}
	recipes := s.recipes(ctx)
	return recipe.SortRecipes(recipe.FilterByName(recipes, term), order), order, nil
}

// Detail 食譜詳情，並比對 session 中勾選的食材
func (s *Service) Detail(ctx context.Context, id Identity, recipeID string) (Detail, error) {
	r, err := s.catalog.Recipe(ctx, recipeID)
	if err != nil {
		return Detail{}, err
	}

	state, _ := s.persister.Load(ctx, id.SessionID)
	return Detail{
		Recipe:              r,
		SelectedIngredients: state.SelectedIngredients,
		MissingIngredients:  recipe.MissingIngredients(r, state.SelectedIngredients),
	}, nil
}

// evaluate 讀取資料並執行比對
func (s *Service) evaluate(ctx context.Context, userID string, selection []string, order recipe.SortOrder) session.SearchState {
	recipes := s.recipes(ctx)

	profile, err := s.catalog.Profile(ctx, userID)
	if err != nil {
		common.LogWarn("讀取個人資料失敗，忽略飲食條件",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	result := recipe.Match(recipes, recipe.NewFilters(selection, profile))
	if selection == nil {
		selection = []string{}
	}
	return session.SearchState{
		SelectedIngredients: selection,
		FilteredRecipes:     result.Recipes,
		HasSearched:         result.HasSearched,
		Message:             result.Message,
		SortBy:              order,
	}
}

// recipes 讀取全部食譜；失敗時以空集合繼續
func (s *Service) recipes(ctx context.Context) []recipe.Recipe {
	recipes, err := s.catalog.Recipes(ctx)
	if err != nil {
		common.LogWarn("讀取食譜失敗，以空集合繼續", zap.Error(err))
		return []recipe.Recipe{}
	}
	return recipes
}

// sortOrder 未指定排序時沿用 session 中的設定
func (s *Service) sortOrder(ctx context.Context, sessionID, sortBy string) (recipe.SortOrder, error) {
	if strings.TrimSpace(sortBy) != "" {
		return recipe.ParseSortOrder(sortBy)
	}
	state, _ := s.persister.Load(ctx, sessionID)
	return state.SortBy, nil
}

// save 保存失敗只記錄，不影響回應
func (s *Service) save(ctx context.Context, sessionID string, state session.SearchState) {
	if err := s.persister.Save(ctx, sessionID, state); err != nil {
		common.LogWarn("保存搜尋狀態失敗",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
}

func newView(state session.SearchState) View {
	show := state.ShowMessage()
	message := ""
	if show {
		message = state.Message
	}
	return View{
		Recipes:             recipe.SortRecipes(state.FilteredRecipes, state.SortBy),
		SelectedIngredients: state.SelectedIngredients,
		HasSearched:         state.HasSearched,
		ShowMessage:         show,
		Message:             message,
		SortBy:              state.SortBy,
	}
}

// cleanSelection 去除空白與重複（不分大小寫），保留第一次出現的寫法與順序
func cleanSelection(ingredients []string) []string {
	seen := make(recipe.TagSet, len(ingredients))
	out := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		n := recipe.NormalizeTag(ing)
		if n == "" || seen.Has(n) {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, strings.TrimSpace(ing))
	}
	return out
}
