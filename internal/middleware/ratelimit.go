package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	appErrors "github.com/andrino-academy/andrino-api/pkg/errors"
	"github.com/andrino-academy/andrino-api/pkg/response"
)

const limiterIdleTTL = 10 * time.Minute

// RateLimitRecorder counts rejected requests.
type RateLimitRecorder interface {
	RecordRateLimited()
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per caller. Authenticated callers
// are keyed by user id, anonymous ones by client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	recorder RateLimitRecorder
	now      func() time.Time
}

// NewRateLimiter builds a limiter allowing rps requests per second with the
// given burst. A non-positive rps disables limiting.
func NewRateLimiter(rps float64, burst int, recorder RateLimitRecorder) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		recorder: recorder,
		now:      time.Now,
	}
}

// Middleware rejects callers that exhausted their bucket with 429.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r == nil || r.limit == rate.Inf {
			c.Next()
			return
		}

		limiter := r.limiterFor(callerKey(c))
		if !limiter.Allow() {
			if r.recorder != nil {
				r.recorder.RecordRateLimited()
			}
			retry := time.Duration(float64(time.Second) / float64(r.limit))
			if retry < time.Second {
				retry = time.Second
			}
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())))
			response.Error(c, appErrors.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (r *RateLimiter) limiterFor(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, v := range r.visitors {
		if now.Sub(v.lastSeen) > limiterIdleTTL {
			delete(r.visitors, k)
		}
	}

	v, ok := r.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

func callerKey(c *gin.Context) string {
	if claims := Claims(c); claims != nil && claims.UserID != "" {
		return "user:" + claims.UserID
	}
	return "ip:" + c.ClientIP()
}
