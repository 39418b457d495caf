package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPのメトリクス
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapdemo",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mapdemo",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// 地図セッションのメトリクス
	MapEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapdemo",
		Subsystem: "session",
		Name:      "events_total",
		Help:      "Events handled by interaction controllers",
	}, []string{"event"})

	RouteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapdemo",
		Subsystem: "route",
		Name:      "requests_total",
		Help:      "Route requests by outcome",
	}, []string{"outcome"})

	DirectionsDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mapdemo",
		Subsystem: "route",
		Name:      "directions_duration_seconds",
		Help:      "Latency of directions computations",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapdemo",
		Subsystem: "session",
		Name:      "active",
		Help:      "Current number of open map sessions",
	})
)

// ルート要求の結果ラベル
const (
	OutcomeSkipped = "skipped"
	OutcomeDrawn   = "drawn"
	OutcomeFailed  = "failed"
	OutcomeEmpty   = "empty"
)

// Middleware はルートテンプレートごとのリクエスト数とレイテンシを記録する
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler はデフォルトレジストリをPrometheus形式で公開する
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
