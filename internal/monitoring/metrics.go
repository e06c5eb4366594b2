package monitoring

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5},
		},
		[]string{"method", "path"},
	)
)

var (
	RowsParsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_rows_parsed_total",
			Help: "Records kept by the sheet parser",
		},
		[]string{"kind"},
	)

	RowsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_rows_dropped_total",
			Help: "Sheet rows dropped by the parser",
		},
		[]string{"kind", "reason"},
	)

	RefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_refresh_total",
			Help: "Snapshot refresh attempts by result",
		},
		[]string{"result"},
	)

	RefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inquiry_refresh_duration_seconds",
			Help:    "Time to fetch and parse the sheet",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	CountableInquiries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "inquiry_countable_total",
			Help: "Deduplicated inquiry count of the current snapshot",
		},
	)
)

var initOnce sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal, RequestDuration)
		prometheus.MustRegister(RowsParsed, RowsDropped, RefreshTotal, RefreshDuration, CountableInquiries)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency, labelled by chi route
// pattern so path parameters do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
