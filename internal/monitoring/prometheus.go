package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequestsTotal counts requests by route template, method and status
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adstock_http_requests_total",
		Help: "Total HTTP requests by route, method and status code",
	}, []string{"route", "method", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "adstock_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
	}, []string{"route"})

	curvesComputedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adstock_curves_computed_total",
		Help: "Decay curves computed by model kind",
	}, []string{"kind"})

	curvePeriods = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "adstock_curve_periods",
		Help:    "Number of periods per computed curve",
		Buckets: []float64{1, 5, 10, 20, 52, 104, 250, 500, 1000},
	}, []string{"kind"})

	scenarioDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "adstock_scenario_compute_duration_seconds",
		Help:    "Time to compute every line of a scenario",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	})

	cacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adstock_cache_requests_total",
		Help: "Response cache lookups by result",
	}, []string{"result"})

	rateLimitBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adstock_rate_limit_blocks_total",
		Help: "Requests rejected by the rate limiter by backend",
	}, []string{"backend"})
)

func observeRequest(route, method string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}
