package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// metrics holds the collectors the web UI reports. Registration tolerates
// collectors that already exist so repeated router construction in tests
// does not panic.
type metrics struct {
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	answerResults   *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lmacfy",
			Subsystem: "web",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lmacfy",
			Subsystem: "web",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		answerResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lmacfy",
			Subsystem: "web",
			Name:      "answer_results_total",
			Help:      "Number of answer outcomes by classification",
		}, []string{"outcome"}),
	}

	if err := prometheus.Register(m.requestTotal); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			m.requestTotal = already.ExistingCollector.(*prometheus.CounterVec)
		}
	}
	if err := prometheus.Register(m.requestDuration); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			m.requestDuration = already.ExistingCollector.(*prometheus.HistogramVec)
		}
	}
	if err := prometheus.Register(m.answerResults); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			m.answerResults = already.ExistingCollector.(*prometheus.CounterVec)
		}
	}

	return m
}

// instrument wraps a handler with request counting and latency recording.
func (r *Router) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &responseRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)
		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		labels := prometheus.Labels{
			"method": req.Method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		r.metrics.requestTotal.With(labels).Inc()
		r.metrics.requestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}

func (r *Router) recordAnswer(outcome string) {
	r.metrics.answerResults.With(prometheus.Labels{"outcome": outcome}).Inc()
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (rr *responseRecorder) WriteHeader(code int) {
	rr.status = code
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	if rr.status == 0 {
		rr.status = http.StatusOK
	}
	return rr.ResponseWriter.Write(b)
}
