package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adcut",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "adcut",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	ordersCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adcut",
		Name:      "orders_created_total",
		Help:      "Orders created by intake source.",
	}, []string{"source"})

	statusTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adcut",
		Name:      "order_status_transitions_total",
		Help:      "Admin status changes by target status.",
	}, []string{"to"})

	notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adcut",
		Name:      "notifications_dispatched_total",
		Help:      "Notification dispatch attempts by event and result.",
	}, []string{"event", "result"})

	providerFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adcut",
		Name:      "provider_failures_total",
		Help:      "Failed calls to third-party providers.",
	}, []string{"provider", "kind"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		ordersCreated,
		statusTransitions,
		notifications,
		providerFailures,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

func OrderCreated(source string) {
	ordersCreated.WithLabelValues(source).Inc()
}

func StatusTransition(to string) {
	statusTransitions.WithLabelValues(to).Inc()
}

func NotificationDispatched(event, result string) {
	notifications.WithLabelValues(event, result).Inc()
}

func ProviderFailure(provider, kind string) {
	providerFailures.WithLabelValues(provider, kind).Inc()
}
