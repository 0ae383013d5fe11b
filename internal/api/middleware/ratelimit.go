package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/floreria/catalog/internal/api/types"
	appErr "github.com/floreria/catalog/pkg/errors"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter *rate.Limiter
	last    time.Time
}

const (
	visitorSweepEvery = 5 * time.Minute
	visitorIdleAfter  = 10 * time.Minute
)

type visitors struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rps     rate.Limit
	burst   int
	swept   time.Time
}

func (v *visitors) allow(ip string, now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.swept.IsZero() {
		v.swept = now
	} else if now.Sub(v.swept) >= visitorSweepEvery {
		v.sweep(now, visitorIdleAfter)
		v.swept = now
	}
	le, ok := v.entries[ip]
	if !ok {
		le = &limiterEntry{limiter: rate.NewLimiter(v.rps, v.burst)}
		v.entries[ip] = le
	}
	le.last = now
	return le.limiter.AllowN(now, 1)
}

// sweep drops limiters idle for longer than idle. Callers hold v.mu.
func (v *visitors) sweep(now time.Time, idle time.Duration) {
	for k, e := range v.entries {
		if now.Sub(e.last) > idle {
			delete(v.entries, k)
		}
	}
}

func getIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit applies a simple IP-based token bucket limiter. Idle visitors
// are swept on the request path, so no background goroutine outlives the router.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	v := &visitors{entries: map[string]*limiterEntry{}, rps: rate.Limit(rps), burst: burst}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !v.allow(getIP(r), time.Now()) {
				types.WriteJSON(w, http.StatusTooManyRequests,
					types.NewError(appErr.CodeRateLimited, "Demasiadas solicitudes, intente más tarde"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
