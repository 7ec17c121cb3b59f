package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dlatelier/storefront/pkg/response"
)

// limiter is a fixed-window per-client request counter. Windows are coarse
// but cheap; checkout traffic does not need token-bucket precision.
type limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	counts  map[string]int
	resetAt time.Time
}

func newLimiter(max int, window time.Duration) *limiter {
	return &limiter{
		max:     max,
		window:  window,
		counts:  map[string]int{},
		resetAt: time.Now().Add(window),
	}
}

// allow counts a request for key. Rolling the window drops the whole map, so
// memory stays bounded without a background sweeper.
func (l *limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now := time.Now(); now.After(l.resetAt) {
		l.counts = map[string]int{}
		l.resetAt = now.Add(l.window)
	}

	l.counts[key]++
	return l.counts[key] <= l.max
}

// clientKey extracts the caller address for rate accounting. The first
// X-Forwarded-For hop wins behind a proxy; otherwise the remote address with
// the port stripped.
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimit limits each client to max requests per window, responding 429 in
// the standard error envelope when exceeded.
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(max, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientKey(r)) {
				response.Error(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
