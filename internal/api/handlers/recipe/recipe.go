package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-discovery/internal/api/middleware"
	recipeCore "recipe-discovery/internal/core/recipe"
	"recipe-discovery/internal/core/search"
	"recipe-discovery/internal/pkg/common"
	"recipe-discovery/internal/pkg/validation"
)

// SearchRequest 首頁搜尋
type SearchRequest struct {
	Ingredients []string `json:"ingredients" validate:"max=100,dive,max=64"` // 勾選的食材
	SortBy      string   `json:"sort_by,omitempty"`                          // 排序方式，空字串沿用上次設定
}

// SortRequest 變更排序方式
type SortRequest struct {
	SortBy string `json:"sort_by" validate:"required"`
}

// SearchResponse 首頁搜尋狀態
type SearchResponse struct {
	Recipes             []recipeCore.Recipe `json:"recipes"`
	SelectedIngredients []string            `json:"selected_ingredients"`
	HasSearched         bool                `json:"has_searched"`
	ShowMessage         bool                `json:"show_message"`
	Message             string              `json:"message"`
	SortBy              string              `json:"sort_by"`
}

// IndexResponse 食譜索引
type IndexResponse struct {
	Recipes []recipeCore.Recipe `json:"recipes"`
	Query   string              `json:"query"`
	SortBy  string              `json:"sort_by"`
}

// DetailResponse 食譜詳情
type DetailResponse struct {
	Recipe              recipeCore.Recipe `json:"recipe"`
	SelectedIngredients []string          `json:"selected_ingredients"`
	MissingIngredients  []string          `json:"missing_ingredients"`
}

// Handler 食譜相關 API
type Handler struct {
	service *search.Service
}

// NewHandler 建立食譜處理器
func NewHandler(service *search.Service) *Handler {
	return &Handler{service: service}
}

// Home 還原搜尋狀態或回傳個人資料預覽
func (h *Handler) Home(c *gin.Context) {
	view := h.service.Home(c.Request.Context(), identity(c))
	c.JSON(http.StatusOK, toSearchResponse(view))
}

// Search 以勾選的食材搜尋
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if !bind(c, &req) {
		return
	}

	view, err := h.service.Search(c.Request.Context(), identity(c), req.Ingredients, req.SortBy)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSearchResponse(view))
}

// SetSort 變更排序方式
func (h *Handler) SetSort(c *gin.Context) {
	var req SortRequest
	if !bind(c, &req) {
		return
	}

	view, err := h.service.SetSort(c.Request.Context(), identity(c), req.SortBy)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSearchResponse(view))
}

// Clear 清除勾選的食材
func (h *Handler) Clear(c *gin.Context) {
	view := h.service.Clear(c.Request.Context(), identity(c))
	c.JSON(http.StatusOK, toSearchResponse(view))
}

// Reset 刪除保存的搜尋狀態（登出）
func (h *Handler) Reset(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context(), identity(c)); err != nil {
		common.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Index 食譜索引：?q= 名稱搜尋，?sort= 排序
func (h *Handler) Index(c *gin.Context) {
	term := c.Query("q")
	recipes, order, err := h.service.Index(c.Request.Context(), term, c.Query("sort"))
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, IndexResponse{
		Recipes: recipes,
		Query:   term,
		SortBy:  string(order),
	})
}

// Detail 食譜詳情
func (h *Handler) Detail(c *gin.Context) {
	detail, err := h.service.Detail(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, DetailResponse{
		Recipe:              detail.Recipe,
		SelectedIngredients: detail.SelectedIngredients,
		MissingIngredients:  detail.MissingIngredients,
	})
}

// bind 解析並驗證 JSON 請求體，失敗時直接寫入錯誤響應
func bind(c *gin.Context, v interface{}) bool {
	if err := common.DecodeJSONStrict(c.Request.Body, v); err != nil {
		common.LogWarn("Invalid request body",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err))
		return false
	}
	if err := validation.Struct(v); err != nil {
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err))
		return false
	}
	return true
}

func identity(c *gin.Context) search.Identity {
	return search.Identity{
		SessionID: middleware.SessionID(c),
		UserID:    middleware.UserID(c),
	}
}

func toSearchResponse(view search.View) SearchResponse {
	return SearchResponse{
		Recipes:             view.Recipes,
		SelectedIngredients: view.SelectedIngredients,
		HasSearched:         view.HasSearched,
		ShowMessage:         view.ShowMessage,
		Message:             view.Message,
		SortBy:              string(view.SortBy),
	}
}
