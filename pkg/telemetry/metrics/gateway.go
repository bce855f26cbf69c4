package metrics

import (
	"time"

	"nimproxy/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// GatewayStats is the read side of the gateway state.
type GatewayStats interface {
	TotalRequests() int64
	Uptime() time.Duration
}

// newGatewayCollectors reads the gateway state at scrape time.
//
// Metrics:
//   - nimproxy_chat_requests_total: chat-completion invocations, rejected ones included
//   - nimproxy_uptime_seconds: seconds since the gateway started
func newGatewayCollectors(cfg *config.MetricsConfig, stats GatewayStats) []prometheus.Collector {
	return []prometheus.Collector{
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "chat_requests_total",
				Help:      "Total number of chat-completion requests received",
			},
			func() float64 { return float64(stats.TotalRequests()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "uptime_seconds",
				Help:      "Seconds since the gateway started",
			},
			func() float64 { return stats.Uptime().Seconds() },
		),
	}
}
