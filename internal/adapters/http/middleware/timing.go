package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"batalhao/internal/adapters/http/perf"
)

// DefaultSlowRequest applies when Timing is given no threshold.
const DefaultSlowRequest = 200 * time.Millisecond

// AnonymousRole labels requests made without a session.
const AnonymousRole = "anonimo"

var requestSeq uint64

// recorder remembers the status and body size a handler wrote.
type recorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *recorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *recorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

var recorderPool = sync.Pool{
	New: func() any { return &recorder{} },
}

// Timing logs each API call and page view and feeds the perf collector,
// keyed by route group and tagged with the caller's role.
// It must run after Auth so the session is in the context.
// Uploaded files and static assets are not timed.
func Timing(collector *perf.Collector, slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequest
	}
	slowMs := float64(slow.Microseconds()) / 1000.0

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, timed := RouteGroup(r.URL.Path)
			if !timed {
				next.ServeHTTP(w, r)
				return
			}

			role := AnonymousRole
			var accountID string
			if sess, ok := GetSessionFromContext(r.Context()); ok {
				role, accountID = sess.Role, sess.AccountID
			}

			start := time.Now()
			id := atomic.AddUint64(&requestSeq, 1)
			rw := recorderPool.Get().(*recorder)
			rw.ResponseWriter, rw.status, rw.bytes = w, http.StatusOK, 0

			defer func() {
				ms := float64(time.Since(start).Microseconds()) / 1000.0
				attrs := []any{
					"request_id", id,
					"method", r.Method,
					"route", route,
					"path", r.URL.Path,
					"status", rw.status,
					"bytes", rw.bytes,
					"role", role,
					"duration_ms", ms,
				}
				if accountID != "" {
					attrs = append(attrs, "account_id", accountID)
				}
				if ms >= slowMs {
					slog.Warn("slow_request", attrs...)
				} else {
					slog.Debug("request", attrs...)
				}

				collector.Record(perf.Entry{
					Kind:       perf.KindRequest,
					Path:       r.Method + " " + route,
					Role:       role,
					StatusCode: rw.status,
					DurationMs: ms,
					Timestamp:  start,
				})

				rw.ResponseWriter = nil
				recorderPool.Put(rw)
			}()

			next.ServeHTTP(rw, r)
		})
	}
}

// RouteGroup folds a request path into the key its timings aggregate under.
// API calls keep at most /api/<a>/<b>; pages collapse to their section root so
// every file under /admin/ counts as one route. timed is false for uploads
// and static assets.
func RouteGroup(path string) (route string, timed bool) {
	switch {
	case strings.HasPrefix(path, "/static/"), strings.HasPrefix(path, "/uploads/"):
		return "", false
	case strings.HasPrefix(path, "/api/"):
		parts := strings.SplitN(strings.TrimPrefix(path, "/api/"), "/", 3)
		if len(parts) > 2 {
			parts = parts[:2]
		}
		return "/api/" + strings.Join(parts, "/"), true
	case strings.HasPrefix(path, "/admin/"):
		return "/admin/", true
	case strings.HasPrefix(path, "/painel/"):
		return "/painel/", true
	case path == "/login" || strings.HasPrefix(path, "/login/"):
		return "/login", true
	}
	return "/", true
}
