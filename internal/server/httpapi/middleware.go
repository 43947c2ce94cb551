package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/logicspark/logicspark/internal/common"
	"github.com/logicspark/logicspark/internal/logging"
)

const unmatchedRoute = "unmatched"

type requestInfo struct {
	id    string
	route string
}

const requestInfoKey ctxKey = "request"

// RequestIDFromContext returns the id assigned to the current request.
func RequestIDFromContext(ctx context.Context) string {
	if ri, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		return ri.id
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// observe assigns a request id, then logs and counts the request once it
// completes. The route label is the matched mux template, so ids in paths do
// not explode metric cardinality.
func (s *HTTPServer) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.metrics.HTTPRequestsInFlight.Inc()
		defer s.metrics.HTTPRequestsInFlight.Dec()

		id := r.Header.Get(common.RequestIDHeaderName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeaderName, id)

		ri := &requestInfo{id: id, route: unmatchedRoute}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestInfoKey, ri)))

		elapsed := time.Since(start)
		s.metrics.observe(r.Method, ri.route, rec.status, elapsed)
		s.logger.Info(r.Context(), "http request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"route", ri.route,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

// recordRoute runs inside the router and publishes the matched template to
// observe.
func recordRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ri, ok := r.Context().Value(requestInfoKey).(*requestInfo); ok {
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					ri.route = tpl
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// withTimeout bounds every request with a deadline. Store calls and password
// hashing observe it through the request context.
func withTimeout(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// recoveryLogger adapts logging.Logger to handlers.RecoveryHandlerLogger.
type recoveryLogger struct {
	logger logging.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error(context.Background(), "panic recovered", "panic", fmt.Sprint(v...))
}
