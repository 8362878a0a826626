package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds every collector the POS engine exports.
type Recorder struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec

	// CommitSteps counts sale commit outcomes by step and result
	// (ok, failed, compensated, reconcile).
	CommitSteps *prometheus.CounterVec
	// RegisterVariance observes close-of-shift variance.
	RegisterVariance prometheus.Histogram
	// ResumeStale counts suspended orders left behind after a failed delete.
	ResumeStale prometheus.Counter
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "printa",
			Subsystem: "pos",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "printa",
			Subsystem: "pos",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
		CommitSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "printa",
			Subsystem: "pos",
			Name:      "sale_commit_steps_total",
			Help:      "Sale commit step outcomes.",
		}, []string{"step", "result"}),
		RegisterVariance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "printa",
			Subsystem: "pos",
			Name:      "register_close_variance",
			Help:      "Counted minus expected cash at register close.",
			Buckets:   []float64{-1000, -500, -100, -10, 0, 10, 100, 500, 1000},
		}),
		ResumeStale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "printa",
			Subsystem: "pos",
			Name:      "suspended_orders_stale_total",
			Help:      "Suspended orders that could not be deleted after resume.",
		}),
	}
	reg.MustRegister(r.Requests, r.LatencyMS, r.CommitSteps, r.RegisterVariance, r.ResumeStale)
	return r
}

// Step records one commit step outcome. Safe on a nil receiver.
func (r *Recorder) Step(step, result string) {
	if r == nil {
		return
	}
	r.CommitSteps.WithLabelValues(step, result).Inc()
}

// Variance records a close-of-shift variance. Safe on a nil receiver.
func (r *Recorder) Variance(v float64) {
	if r == nil {
		return
	}
	r.RegisterVariance.Observe(v)
}

// Stale records a suspended order left behind. Safe on a nil receiver.
func (r *Recorder) Stale() {
	if r == nil {
		return
	}
	r.ResumeStale.Inc()
}

// Middleware records request count and latency per chi route pattern.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		route := req.URL.Path
		if rctx := chi.RouteContext(req.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		r.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		r.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
