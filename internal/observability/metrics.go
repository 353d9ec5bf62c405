package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	reportsSeen = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldkit",
			Subsystem: "handler",
			Name:      "reports_total",
			Help:      "Inbound raw-HID reports observed.",
		},
		[]string{"tagged"},
	)
	commandsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldkit",
			Subsystem: "handler",
			Name:      "commands_total",
			Help:      "Dispatched field kit commands.",
		},
		[]string{"kind", "handled"},
	)
	bufferOverflows = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fieldkit",
			Subsystem: "handler",
			Name:      "buffer_overflows_total",
			Help:      "Accumulation buffer resets from overflow.",
		},
	)
	responsesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldkit",
			Subsystem: "handler",
			Name:      "responses_total",
			Help:      "Outbound response packets sent.",
		},
		[]string{"status"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldkit",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fieldkit",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			reportsSeen,
			commandsDispatched,
			bufferOverflows,
			responsesSent,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordReport(tagged bool) {
	RegisterMetrics()
	reportsSeen.WithLabelValues(strconv.FormatBool(tagged)).Inc()
}

func RecordCommand(kind string, handled bool) {
	RegisterMetrics()
	commandsDispatched.WithLabelValues(kind, strconv.FormatBool(handled)).Inc()
}

func RecordOverflow() {
	RegisterMetrics()
	bufferOverflows.Inc()
}

func RecordResponse(status string) {
	RegisterMetrics()
	responsesSent.WithLabelValues(status).Inc()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
