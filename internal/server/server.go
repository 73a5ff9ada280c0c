package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/apex/log"
)

const shutdownTimeout = 10 * time.Second

// Options configures the server.
type Options struct {
	// Addr to listen on, e.g. ":5000"
	Addr string

	// Assistant answers the questions
	Assistant Assistant

	// TemplateDir, when non-empty, serves templates from disk with hot
	// reload instead of the copies compiled into the binary
	TemplateDir string
}

// Server runs the web UI with graceful shutdown.
type Server struct {
	httpServer *http.Server
	templates  *templateSet
}

// New assembles the router, middleware, and template set.
func New(opts Options) (*Server, error) {
	var (
		templates *templateSet
		err       error
	)
	if opts.TemplateDir != "" {
		templates, err = newDevTemplateSet(opts.TemplateDir)
	} else {
		templates, err = newTemplateSet()
	}
	if err != nil {
		return nil, err
	}

	router := NewRouter(opts.Assistant, templates)

	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           requestID(accessLog(router)),
			ReadHeaderTimeout: 5 * time.Second,
		},
		templates: templates,
	}, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	if s.templates.dir != "" {
		if err := s.templates.watch(ctx); err != nil {
			return err
		}
	}

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", s.httpServer.Addr).Info("server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
			return
		}
		errc <- nil
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errc
}
