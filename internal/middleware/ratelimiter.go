package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/a2sh3r/expresswash/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// IdleClientTTL is how long a client bucket survives without requests.
const IdleClientTTL = 10 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter keeps one token bucket per operator or remote address.
type ClientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewClientRateLimiter(limit rate.Limit, burst int) *ClientLimiter {
	return &ClientLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		burst:   burst,
		idle:    IdleClientTTL,
		now:     time.Now,
	}
}

// Allow spends one token from key's bucket.
func (c *ClientLimiter) Allow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= c.idle {
		c.sweep(now)
	}

	cl, ok := c.clients[key]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

func (c *ClientLimiter) sweep(now time.Time) {
	for key, cl := range c.clients {
		if now.Sub(cl.lastSeen) >= c.idle {
			delete(c.clients, key)
		}
	}
	c.lastSweep = now
}

// retryAfter is the whole number of seconds until one token is back.
func (c *ClientLimiter) retryAfter() string {
	secs := 1
	if c.limit > 0 && c.limit != rate.Inf {
		secs = int(math.Ceil(1 / float64(c.limit)))
	}
	return strconv.Itoa(max(secs, 1))
}

func clientKey(r *http.Request) string {
	if login, ok := GetOperator(r.Context()); ok {
		return "operator:" + login
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

func RateLimitMiddleware(limiter *ClientLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !limiter.Allow(key) {
				logger.Log.Debug("rate limit exceeded", zap.String("client", key))
				w.Header().Set("Retry-After", limiter.retryAfter())
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
