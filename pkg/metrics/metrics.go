// Package metrics provides Prometheus instrumentation for the API.
//
// Wire it up once in the kernel:
//
//	r.Use(metrics.Middleware())
//	r.HandleFunc("/metrics", metrics.Handler())
//
// Then scrape http://localhost:8080/metrics from Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, route path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storelane",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storelane",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks how many requests are currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "storelane",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// OrdersPlaced counts successfully committed checkouts.
	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storelane",
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Total orders created via checkout.",
	})

	// OrderValue observes the total amount of each committed order.
	OrderValue = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "storelane",
		Subsystem: "orders",
		Name:      "value",
		Help:      "Total amount of committed orders.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000},
	})

	// CheckoutFailures counts rolled-back checkouts by error kind.
	CheckoutFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storelane",
			Subsystem: "orders",
			Name:      "checkout_failures_total",
			Help:      "Total checkout attempts that were rolled back.",
		},
		[]string{"kind"},
	)

	// StockSold counts units of stock committed at checkout, per product.
	StockSold = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storelane",
			Subsystem: "stock",
			Name:      "sold_total",
			Help:      "Units of stock decremented by committed checkouts.",
		},
		[]string{"product"},
	)
)

// DefaultRegistry is the Prometheus registry used by the API.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		OrdersPlaced,
		OrderValue,
		CheckoutFailures,
		StockSold,
	)
}

// MustRegister adds application collectors to the registry.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// responseRecorder wraps http.ResponseWriter to capture the status code.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records duration, count and in-flight gauges for every request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			status := strconv.Itoa(rr.status)
			RequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler exposes the Prometheus metrics page.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}
