package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	renderRegisterOnce sync.Once

	renderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "slipgen",
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "单次栅格化耗时分布（秒）。",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	renderTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slipgen",
			Subsystem: "render",
			Name:      "total",
			Help:      "栅格化次数，按组件类型与结果分类。",
		},
		[]string{"kind", "status"},
	)
)

// ObserveRender 记录一次栅格化的结果与耗时。
func ObserveRender(kind, status string, elapsed time.Duration) {
	renderRegisterOnce.Do(func() {
		prometheus.MustRegister(renderDuration, renderTotal)
	})

	renderTotal.WithLabelValues(kind, status).Inc()
	if status == "ok" {
		renderDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	}
}
