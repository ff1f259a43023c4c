// Package metrics 定义服务暴露的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests 按路由与状态码统计的请求数
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Number of HTTP requests handled, by method, route and status",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP requests in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "route"})

	// FollowUpsWritten 成功写入的跟进记录数, operation 为 create 或 update
	FollowUpsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "follow_ups_written_total",
		Help: "Number of follow-up records successfully created or updated",
	}, []string{"operation"})
)
