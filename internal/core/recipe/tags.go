package recipe

import "strings"

// NoneTag 使用者選擇「無」時寫入的保留值
const NoneTag = "none"

// TagSet 正規化後的標籤集合
type TagSet map[string]struct{}

// NormalizeTag 去除前後空白並轉小寫
func NormalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSelection 正規化使用者勾選的食材，忽略空字串
func NormalizeSelection(tags []string) TagSet {
	set := make(TagSet, len(tags))
	for _, t := range tags {
		if n := NormalizeTag(t); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// NormalizeConstraints 正規化過敏、限制、飲食偏好，並移除 "None"
func NormalizeConstraints(tags []string) TagSet {
	set := NormalizeSelection(tags)
	delete(set, NoneTag)
	return set
}

// Has 是否包含已正規化的標籤
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Len 集合大小
func (s TagSet) Len() int {
	return len(s)
}

// Empty 是否為空集合
func (s TagSet) Empty() bool {
	return len(s) == 0
}

// Intersects 是否與任一原始標籤重疊（原始標籤會先正規化）
func (s TagSet) Intersects(raw []string) bool {
	if s.Empty() {
		return false
	}
	for _, t := range raw {
		if s.Has(NormalizeTag(t)) {
			return true
		}
	}
	return false
}

// SubsetOf 集合中每個標籤都出現在原始標籤中
func (s TagSet) SubsetOf(raw []string) bool {
	if s.Empty() {
		return true
	}
	have := NormalizeSelection(raw)
	for tag := range s {
		if !have.Has(tag) {
			return false
		}
	}
	return true
}

// StripNone 移除 "None"（不分大小寫），保留其他值的原始寫法與順序
func StripNone(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if NormalizeTag(t) == NoneTag {
			continue
		}
		out = append(out, t)
	}
	return out
}
