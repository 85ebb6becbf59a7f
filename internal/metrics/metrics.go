// Package metrics Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamflix_http_requests_total",
			Help: "HTTP 请求总数",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamflix_http_request_duration_seconds",
			Help:    "HTTP 请求耗时（秒）",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ProgressUpdates 按是否看完统计进度上报
	ProgressUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamflix_watch_progress_updates_total",
			Help: "观看进度写入次数",
		},
		[]string{"target_type", "completed"},
	)

	WatchlistChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamflix_watchlist_changes_total",
			Help: "片单增删次数",
		},
		[]string{"action"},
	)

	CommentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamflix_comments_created_total",
			Help: "新建评论数",
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamflix_cache_hits_total",
			Help: "缓存命中次数",
		},
		[]string{"layer"},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamflix_cache_misses_total",
			Help: "缓存未命中次数",
		},
	)

	OrphansRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamflix_orphan_rows_removed_total",
			Help: "清理的孤立多态记录数",
		},
		[]string{"table"},
	)
)
