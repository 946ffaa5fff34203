package web

import (
	"net"
	"net/http"
	"time"

	"media-analysis-api/internal/infra/logging"
	"media-analysis-api/internal/infra/metrics"
	infraredis "media-analysis-api/internal/infra/redis"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// statusWriter captures the response code for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// requestIDMiddleware tags every request with a ULID, puts it into the
// context for downstream loggers and echoes it back in X-Request-ID.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = ulid.Make().String()
		}
		ctx := logging.WithRequestID(r.Context(), id)
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware emits one access log line per request and feeds the
// prometheus HTTP collectors. Route pattern is resolved after serving so
// parameterized paths collapse into one label value.
func loggingMiddleware(base *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			elapsed := time.Since(start)
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			if sw.status == 0 {
				sw.status = http.StatusOK
			}
			metrics.ObserveHTTPRequest(r.Method, route, sw.status, float64(elapsed.Milliseconds()))
			logging.With(r.Context(), base).Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Dur("duration", elapsed).
				Msg("http request")
		})
	}
}

// recoverMiddleware turns panics into opaque 500s. The stack goes to the
// log, never to the client.
func recoverMiddleware(base *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logging.With(r.Context(), base).Error().
						Interface("panic", rec).
						Str("path", r.URL.Path).
						Msg("panic recovered in handler")
					writeError(w, http.StatusInternalServerError, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware enforces the fixed-window per-client limit. Redis
// being down must not take the API down with it, so limiter errors let the
// request through with a warning.
func rateLimitMiddleware(limiter *infraredis.RateLimiter, limit int, window time.Duration, base *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			allowed, err := limiter.Allow(r.Context(), infraredis.ClientKey(ip), limit, window)
			if err != nil {
				logging.With(r.Context(), base).Warn().Err(err).Msg("rate limiter unavailable, allowing request")
			} else if !allowed {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
