// Package metrics 维护服务的 Prometheus 指标注册表，
// 仅使用低基数标签（mode/status），避免按包名或路径爆炸。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkg-edge/pkg-edge/internal/version"
)

// ServerMetrics 汇总请求计数、耗时与构建信息。
type ServerMetrics struct {
	reg      *prometheus.Registry
	handler  http.Handler
	reqTotal *prometheus.CounterVec
	reqDur   *prometheus.HistogramVec
	respSize *prometheus.HistogramVec

	buildInfo *prometheus.GaugeVec
}

// New 创建全新的注册表并挂载标准 collector 与请求指标。
func New() *ServerMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &ServerMetrics{
		reqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pkg_edge_requests_total",
			Help: "Total delivered requests by mode and status",
		}, []string{"mode", "status"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pkg_edge_request_duration_seconds",
			Help:    "Request latency by delivery mode",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"mode"}),
		respSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pkg_edge_response_size_bytes",
			Help:    "Response size by delivery mode",
			Buckets: []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304},
		}, []string{"mode"}),
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pkg_edge_build_info",
			Help: "Build metadata (value is always 1)",
		}, []string{"version", "commit"}),
	}

	reg.MustRegister(m.reqTotal, m.reqDur, m.respSize, m.buildInfo)
	m.buildInfo.WithLabelValues(version.Version, version.Commit).Set(1)

	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	m.reg = reg
	return m
}

// Observe 记录一次请求的模式、状态码、耗时与响应大小。
func (m *ServerMetrics) Observe(mode string, status int, elapsed time.Duration, bytes int) {
	m.reqTotal.WithLabelValues(mode, strconv.Itoa(status)).Inc()
	m.reqDur.WithLabelValues(mode).Observe(elapsed.Seconds())
	if bytes > 0 {
		m.respSize.WithLabelValues(mode).Observe(float64(bytes))
	}
}

// Handler 返回 /-/metrics 使用的导出器。
func (m *ServerMetrics) Handler() http.Handler {
	return m.handler
}
