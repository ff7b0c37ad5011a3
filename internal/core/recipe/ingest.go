package recipe

import (
	"fmt"
	"math"
	"strings"

	"recipe-discovery/internal/core/document"
	"recipe-discovery/internal/pkg/validation"
)

// 文件欄位名稱
const (
	fieldName            = "name"
	fieldIngredientTags  = "ingredientTags"
	fieldAllergyTags     = "allergyTags"
	fieldRestrictionTags = "restrictionTags"
	fieldDietTags        = "dietTags"
	fieldTime            = "time"
	fieldAvgRating       = "avgRating"
	fieldImageURL        = "imageURL"
	fieldServings        = "servings"
	fieldIngredients     = "ingredients"
	fieldMethod          = "method"
	fieldRating          = "rating"

	fieldUsername           = "username"
	fieldAllergies          = "allergies"
	fieldRestrictions       = "restrictions"
	fieldDietaryPreferences = "dietaryPreferences"
	fieldSavedRecipes       = "savedRecipes"
	fieldRatedRecipes       = "ratedRecipes"
)

// recipeRecord 擷取邊界的驗證規則
type recipeRecord struct {
	ID        string   `validate:"required"`
	Time      *int     `validate:"omitempty,gte=0"`
	AvgRating *float64 `validate:"omitempty,gte=0,lte=5"`
	Servings  int      `validate:"gte=0"`
}

type profileRecord struct {
	ID string `validate:"required"`
}

// ParseRecipe 將鬆散型別的文件轉成食譜。標籤欄位不是陣列時視為空列表。
func ParseRecipe(doc document.Document) (Recipe, error) {
	f := doc.Fields
	r := Recipe{
		ID:              doc.ID,
		Name:            toString(f[fieldName]),
		IngredientTags:  toStringSlice(f[fieldIngredientTags]),
		AllergyTags:     toStringSlice(f[fieldAllergyTags]),
		RestrictionTags: toStringSlice(f[fieldRestrictionTags]),
		DietTags:        toStringSlice(f[fieldDietTags]),
		ImageURL:        toString(f[fieldImageURL]),
		Ingredients:     toStringSlice(f[fieldIngredients]),
		Method:          toStringSlice(f[fieldMethod]),
	}

	if v, ok := toFloat(f[fieldTime]); ok {
		minutes := int(math.Round(v))
		r.Time = &minutes
	}
	if v, ok := toFloat(f[fieldAvgRating]); ok {
		r.AvgRating = &v
	}
	if v, ok := toFloat(f[fieldServings]); ok {
		r.Servings = int(math.Round(v))
	}

	if err := validation.Struct(recipeRecord{
		ID:        r.ID,
		Time:      r.Time,
		AvgRating: r.AvgRating,
		Servings:  r.Servings,
	}); err != nil {
		return Recipe{}, fmt.Errorf("invalid recipe %q: %w", doc.ID, err)
	}

	if r.ImageURL == "" {
		r.ImageURL = DefaultImageURL(r.ID)
	}
	return r, nil
}

// ParseProfile 將使用者文件轉成個人資料，並移除 "None"
func ParseProfile(doc document.Document) (UserProfile, error) {
	if err := validation.Struct(profileRecord{ID: doc.ID}); err != nil {
		return UserProfile{}, fmt.Errorf("invalid profile: %w", err)
	}

	f := doc.Fields
	return UserProfile{
		ID:                 doc.ID,
		Username:           toString(f[fieldUsername]),
		Allergies:          StripNone(toStringSlice(f[fieldAllergies])),
		Restrictions:       StripNone(toStringSlice(f[fieldRestrictions])),
		DietaryPreferences: StripNone(toStringSlice(f[fieldDietaryPreferences])),
		SavedRecipes:       toStringSlice(f[fieldSavedRecipes]),
		RatedRecipes:       toStringSlice(f[fieldRatedRecipes]),
	}, nil
}

// AverageRating 計算評論平均分數，只計入 0..5 的數值評分；沒有有效評分時回傳 nil
func AverageRating(reviews []document.Document) *float64 {
	var sum float64
	var count int
	for _, doc := range reviews {
		v, ok := toFloat(doc.Fields[fieldRating])
		if !ok {
			continue
		}
		if validation.Struct(Review{Rating: v}) != nil {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return nil
	}
	avg := sum / float64(count)
	return &avg
}

// DefaultImageURL 沒有圖片時的預設路徑：/<小寫且去除空白的 id>.jpg
func DefaultImageURL(id string) string {
	return "/" + strings.Join(strings.Fields(strings.ToLower(id)), "") + ".jpg"
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

// toStringSlice 只保留陣列中的字串元素，其他型別一律視為空列表
func toStringSlice(v any) []string {
	switch items := v.(type) {
	case []string:
		out := make([]string, len(items))
		copy(out, items)
		return out
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// toFloat 接受數值型別與 json.Number，字串與其他型別視為缺值
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case interface{ Float64() (float64, error) }:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
