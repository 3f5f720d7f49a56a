package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"microblogPosts/internal/auth"
	handlers "microblogPosts/internal/handler"
	"microblogPosts/internal/observability"
)

type Middleware func(http.Handler) http.Handler

// Chain wraps h so that the last middleware listed runs first.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}

// AuthMiddleware attaches the token subject of non-GET requests as the caller identity.
// It never rejects a request: a bad token only leaves the identity unset.
func AuthMiddleware(extractor *auth.Extractor, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if r.Method == http.MethodGet || header == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, hadPrefix, err := extractor.Subject(header)
			if !hadPrefix {
				logger.Debug("authorization header without Bearer prefix", "path", r.URL.Path)
			}
			if err != nil {
				logger.Warn("could not extract caller identity",
					"error", err, "method", r.Method, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

func CORSMiddleware(allowedOrigin string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RecoverMiddleware turns a handler panic into a 500.
func RecoverMiddleware(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic while handling request",
						"panic", rec, "method", r.Method, "path", r.URL.Path)
					handlers.WriteError(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			fields := []any{
				slog.Int("status", rec.status),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("ip", r.RemoteAddr),
				slog.Duration("latency", time.Since(start)),
			}
			if userID, ok := auth.UserIDFromContext(r.Context()); ok {
				fields = append(fields, slog.String("user_id", userID))
			}

			if rec.status >= http.StatusInternalServerError {
				logger.ErrorContext(r.Context(), "request failed", fields...)
			} else {
				logger.InfoContext(r.Context(), "request processed", fields...)
			}
		})
	}
}

// MetricsMiddleware wraps router from the outside so unmatched paths and method
// mismatches are counted too. The route label is the matched path template.
func MetricsMiddleware(router *mux.Router) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			route := routeLabel(router, r)
			observability.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
			observability.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

func routeLabel(router *mux.Router, r *http.Request) string {
	var match mux.RouteMatch
	if !router.Match(r, &match) {
		if errors.Is(match.MatchErr, mux.ErrMethodMismatch) {
			return "method_not_allowed"
		}
		return "unmatched"
	}
	if match.Route == nil {
		return "unmatched"
	}
	tmpl, err := match.Route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return tmpl
}
