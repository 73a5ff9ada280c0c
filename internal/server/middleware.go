package server

import (
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
)

// requestID tags every request so one page load can be traced through the
// logs. An upstream proxy's X-Request-ID is honored when present.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := log.NewContext(req.Context(), log.WithField("request_id", id))
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// accessLog writes one line per request. The query string is left out on
// purpose: questions are user content and do not belong in logs.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		recorder := &responseRecorder{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		log.FromContext(req.Context()).WithFields(log.Fields{
			"method":      req.Method,
			"path":        req.URL.Path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request")
	})
}
