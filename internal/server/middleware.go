package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/logging"
)

const requestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

// RequestID returns the request ID stored by the gateway, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestIDMiddleware reuses a caller-supplied X-Request-ID when it parses as
// a UUID and mints a new one otherwise.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// recoverMiddleware turns a panic into the catch-all 500. The stack goes to
// the log only.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.requestLogger(r).Error("handler panicked",
				logging.F("panic", fmt.Sprint(rec)),
				logging.F("stack", string(debug.Stack())))
			writeError(w, http.StatusInternalServerError, unexpectedErrorPrefix+fmt.Sprint(rec))
		}()
		next.ServeHTTP(w, r)
	})
}

// observeMiddleware logs each request and records it in metrics under its
// route pattern.
func (s *Server) observeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.metrics.ObserveHTTP(route, r.Method, status, elapsed)

		fields := []logging.Field{
			logging.F("method", r.Method),
			logging.F("path", r.URL.Path),
			logging.F("status", status),
			logging.F("bytes", ww.BytesWritten()),
			logging.F("remote", r.RemoteAddr),
			logging.F("elapsed", elapsed),
		}
		if q := r.URL.RawQuery; q != "" {
			fields = append(fields, logging.F("query", q))
		}
		if r.ContentLength > 0 {
			fields = append(fields, logging.F("content_length", r.ContentLength))
		}
		s.requestLogger(r).Info("http_request", fields...)
	})
}

func (s *Server) requestLogger(r *http.Request) logging.Logger {
	if id := RequestID(r.Context()); id != "" {
		return s.logger.With(logging.F("request_id", id))
	}
	return s.logger
}
