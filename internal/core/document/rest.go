package document

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipe-discovery/internal/infrastructure/config"
	"recipe-discovery/internal/metrics"
	"recipe-discovery/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Compile-time interface check.
var _ Fetcher = (*RESTFetcher)(nil)

// listResponse 文件庫列表 API 回應
type listResponse struct {
	Documents []Document `json:"documents"`
}

// RESTFetcher 透過 HTTP JSON API 讀取外部文件庫：
// GET {base_url}/v1/collections/{collection}/documents
type RESTFetcher struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker[[]Document]
}

// NewRESTFetcher 建立 REST 文件庫客戶端
func NewRESTFetcher(cfg config.DocumentStoreConfig) *RESTFetcher {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "recipe-discovery")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	threshold := cfg.Breaker.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        "document-store",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			common.LogWarn("文件庫斷路器狀態變更",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// 取消的請求不算文件庫故障
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &RESTFetcher{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[[]Document](settings),
	}
}

// FetchAll 讀取集合全部文件；斷路器開啟時立即失敗
func (f *RESTFetcher) FetchAll(ctx context.Context, collection string) ([]Document, error) {
	start := time.Now()
	docs, err := f.breaker.Execute(func() ([]Document, error) {
		return f.fetch(ctx, collection)
	})
	duration := time.Since(start)

	metrics.RecordDocumentFetch(collection, duration, err)
	common.LogFetch(collection, len(docs), duration, err)

	if err != nil {
		return nil, common.ErrDocumentStore.Wrap(err)
	}
	return docs, nil
}

func (f *RESTFetcher) fetch(ctx context.Context, collection string) ([]Document, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(collectionPath(collection))
	if err != nil {
		return nil, fmt.Errorf("failed to send request to document store: %w", err)
	}

	// 不存在的集合視為空集合
	if resp.StatusCode() == http.StatusNotFound {
		return []Document{}, nil
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("document store returned status %d", resp.StatusCode())
	}

	var result listResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse document store response: %w", err)
	}
	if result.Documents == nil {
		result.Documents = []Document{}
	}
	return result.Documents, nil
}

// collectionPath 逐段轉義集合路徑
func collectionPath(collection string) string {
	segments := strings.Split(strings.Trim(collection, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "/v1/collections/" + strings.Join(segments, "/") + "/documents"
}
