// Package document 定義外部文件庫的讀取介面與實作。
// 文件內容是鬆散型別的 key-value，轉換成強型別資料在 recipe 套件的擷取邊界進行。
package document

import (
	"context"
	"strings"
)

// Document 外部文件：不透明 ID 與扁平欄位
type Document struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Fetcher 文件庫讀取介面，回傳集合中的全部文件（不分頁）
type Fetcher interface {
	FetchAll(ctx context.Context, collection string) ([]Document, error)
}

// SubCollection 組合子集合路徑，例如 Recipes/<id>/reviews
func SubCollection(parent, id, child string) string {
	return strings.Join([]string{parent, id, child}, "/")
}
