package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/raja1702/computer-storage-solutions/internal/http/response"
	"github.com/raja1702/computer-storage-solutions/internal/platform/ctxutil"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

// RateLimiter keeps one token bucket per caller: the authenticated subject when
// there is one, the client IP otherwise.
type RateLimiter struct {
	log   *logger.Logger
	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu       sync.Mutex
	limiters map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(log *logger.Logger, perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = int(math.Max(1, math.Ceil(perSecond)))
	}
	return &RateLimiter{
		log:      log.With("Middleware", "RateLimiter"),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		idle:     10 * time.Minute,
		now:      time.Now,
		limiters: map[string]*visitor{},
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	v, ok := rl.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Sweep drops callers idle for longer than the idle window.
func (rl *RateLimiter) Sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.idle)
	n := 0
	for k, v := range rl.limiters {
		if v.lastSeen.Before(cutoff) {
			delete(rl.limiters, k)
			n++
		}
	}
	return n
}

func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if p := ctxutil.GetPrincipal(c.Request.Context()); p != nil && p.Subject != "" {
			key = "sub:" + p.Subject
		}
		lim := rl.get(key)
		if !lim.AllowN(rl.now(), 1) {
			rl.log.Debug("rate limited", "key", key, "path", c.FullPath())
			retry := time.Second
			if rl.limit > 0 {
				retry = time.Duration(float64(time.Second) / float64(rl.limit))
			}
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			response.AbortError(c, http.StatusTooManyRequests, "rate_limited", errors.New("too many report requests, slow down"))
			return
		}
		c.Next()
	}
}
