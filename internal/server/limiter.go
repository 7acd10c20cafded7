package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an idle client keeps its bucket
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client address. Buckets idle for
// longer than limiterIdleTTL are dropped.
type IPRateLimiter struct {
	ips       map[string]*clientLimiter
	mu        sync.Mutex
	r         rate.Limit
	b         int
	now       func() time.Time
	lastSweep time.Time
}

// NewIPRateLimiter allows r requests per second with bursts of b per client
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*clientLimiter),
		r:   r,
		b:   b,
		now: time.Now,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastSweep) >= limiterIdleTTL {
		i.sweep(now)
	}

	cl, exists := i.ips[ip]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// sweep drops idle clients; callers hold mu
func (i *IPRateLimiter) sweep(now time.Time) {
	for ip, cl := range i.ips {
		if now.Sub(cl.lastSeen) >= limiterIdleTTL {
			delete(i.ips, ip)
		}
	}
	i.lastSweep = now
}

// LimitMiddleware rejects requests over the client's budget with 429
func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !i.getLimiter(clientIP(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "too many requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
