// Package metrics 定義 Prometheus 指標。指標以 promauto 於套件載入時註冊到預設 registry。
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 指標
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_discovery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_discovery_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// 搜尋指標
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_discovery_searches_total",
			Help: "Total number of recipe searches by kind and outcome",
		},
		[]string{"kind", "outcome"}, // kind: manual, preview, clear; outcome: matched, empty, unfiltered
	)

	SearchMatchCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recipe_discovery_search_matches",
			Help:    "Number of recipes matched per search",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	// 文件庫指標
	DocumentFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_discovery_document_fetch_errors_total",
			Help: "Total number of failed document store reads",
		},
		[]string{"collection"},
	)

	DocumentFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_discovery_document_fetch_duration_seconds",
			Help:    "Duration of document store reads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection"},
	)

	// session 狀態指標
	SessionStateLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_discovery_session_state_loads_total",
			Help: "Search state loads by result",
		},
		[]string{"result"}, // hit, miss, malformed, error
	)
)

// RecordHTTPRequest 記錄 HTTP 請求
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordSearch 記錄一次搜尋結果
func RecordSearch(kind string, hasSearched bool, matched int) {
	outcome := "matched"
	switch {
	case !hasSearched:
		outcome = "unfiltered"
	case matched == 0:
		outcome = "empty"
	}
	SearchesTotal.WithLabelValues(kind, outcome).Inc()
	SearchMatchCount.Observe(float64(matched))
}

// RecordDocumentFetch 記錄文件庫讀取
func RecordDocumentFetch(collection string, duration time.Duration, err error) {
	DocumentFetchDuration.WithLabelValues(collection).Observe(duration.Seconds())
	if err != nil {
		DocumentFetchErrors.WithLabelValues(collection).Inc()
	}
}

// RecordSessionLoad 記錄 session 狀態讀取結果
func RecordSessionLoad(result string) {
	SessionStateLoads.WithLabelValues(result).Inc()
}
