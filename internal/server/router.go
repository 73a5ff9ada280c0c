// Package server implements the lmacfy web UI: an ask-a-question page
// backed by the assistant, plus health and metrics endpoints.
package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Assistant produces an answer for a question.
type Assistant interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Router exposes the web UI endpoints.
type Router struct {
	mux       *http.ServeMux
	assistant Assistant
	templates *templateSet
	metrics   *metrics
}

// NewRouter creates the router and registers all handlers.
func NewRouter(a Assistant, templates *templateSet) *Router {
	r := &Router{
		mux:       http.NewServeMux(),
		assistant: a,
		templates: templates,
		metrics:   newMetrics(),
	}
	r.routes()
	return r
}

// ServeHTTP satisfies http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) routes() {
	r.mux.HandleFunc("/metrics", promhttp.Handler().ServeHTTP)
	r.mux.HandleFunc("/healthz", r.instrument("/healthz", r.handleHealth))
	r.mux.HandleFunc("/", r.instrument("/", r.handleAsk))
}
