package recipe

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"recipe-discovery/internal/pkg/common"
)

// SortOrder 排序方式，值為畫面上的顯示文字
type SortOrder string

const (
	SortTopRated     SortOrder = "Top Rated"
	SortShortestTime SortOrder = "Shortest Time"
	SortAlphabetical SortOrder = "A to Z"
)

// DefaultSortOrder 預設排序
const DefaultSortOrder = SortTopRated

// SortOrders 所有支援的排序方式（依畫面顯示順序）
var SortOrders = []SortOrder{SortTopRated, SortShortestTime, SortAlphabetical}

var sortSlugs = map[string]SortOrder{
	"top_rated":     SortTopRated,
	"shortest_time": SortShortestTime,
	"a_to_z":        SortAlphabetical,
}

// Slug 排序方式的 URL 代號
func (o SortOrder) Slug() string {
	for slug, order := range sortSlugs {
		if order == o {
			return slug
		}
	}
	return ""
}

// ParseSortOrder 解析顯示文字或代號（不分大小寫），空字串回傳預設排序
func ParseSortOrder(s string) (SortOrder, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultSortOrder, nil
	}
	if order, ok := sortSlugs[strings.ToLower(s)]; ok {
		return order, nil
	}
	for _, order := range SortOrders {
		if strings.EqualFold(string(order), s) {
			return order, nil
		}
	}
	return "", common.ErrInvalidSortOrder.Wrap(
		common.NewValidationError(fmt.Sprintf("unsupported sort order %q", s)),
	)
}

// SortRecipes 回傳依排序方式穩定排序後的新切片，不修改輸入
func SortRecipes(recipes []Recipe, order SortOrder) []Recipe {
	out := make([]Recipe, len(recipes))
	copy(out, recipes)

	// collator 非併發安全，每次排序各自建立
	col := collate.New(language.English)
	byName := func(a, b Recipe) int {
		return col.CompareString(a.DisplayName(), b.DisplayName())
	}

	var less func(a, b Recipe) bool
	switch order {
	case SortShortestTime:
		less = func(a, b Recipe) bool {
			if a.Minutes() != b.Minutes() {
				return a.Minutes() < b.Minutes()
			}
			return a.Rating() > b.Rating()
		}
	case SortAlphabetical:
		less = func(a, b Recipe) bool {
			return byName(a, b) < 0
		}
	default:
		less = func(a, b Recipe) bool {
			if a.Rating() != b.Rating() {
				return a.Rating() > b.Rating()
			}
			return byName(a, b) < 0
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}
