package orm

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	statements *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	return &metrics{
		statements: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goblog",
			Subsystem: "orm",
			Name:      "statements_total",
			Help:      "Number of executed statements.",
		}, []string{"op", "status"})),
		duration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "goblog",
			Subsystem: "orm",
			Name:      "statement_duration_seconds",
			Help:      "Statement latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"})),
	}
}

// register 已注册过同名指标时复用已有的 collector
func register[C prometheus.Collector](registerer prometheus.Registerer, c C) C {
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *metrics) observe(op string, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.statements.WithLabelValues(op, status).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}
