package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/quotepulse/internal/domain/dto"
	"golang.org/x/time/rate"
)

// Defaults used by RateLimiter: limit requests per window, per client IP.
var (
	window = time.Minute
	limit  = 60
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits each client IP to `limit` requests per `window`, as a
// token bucket holding `limit` tokens.
func RateLimiter() gin.HandlerFunc {
	return RateLimiterWith(rate.Every(window/time.Duration(limit)), limit)
}

// RateLimiterWith limits each client IP to perSecond sustained requests
// with the given burst. Clients over the limit get 429 Too Many Requests.
//
// Idle clients are forgotten after a few minutes so the table stays bounded
// by the number of recently active IPs.
func RateLimiterWith(perSecond rate.Limit, burst int) gin.HandlerFunc {
	var (
		mu        sync.Mutex
		visitors  = make(map[string]*visitor)
		lastSweep = time.Now()
	)
	idle := 3 * time.Minute

	allow := func(ip string, now time.Time) bool {
		mu.Lock()
		defer mu.Unlock()

		if now.Sub(lastSweep) > idle {
			for k, v := range visitors {
				if now.Sub(v.lastSeen) > idle {
					delete(visitors, k)
				}
			}
			lastSweep = now
		}

		v, ok := visitors[ip]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(perSecond, burst)}
			visitors[ip] = v
		}
		v.lastSeen = now
		return v.limiter.AllowN(now, 1)
	}

	return func(c *gin.Context) {
		if !allow(c.ClientIP(), time.Now()) {
			resp := dto.NewErrorResponse("rate limit exceeded", nil)
			resp.Kind = "rate_limited"
			c.AbortWithStatusJSON(http.StatusTooManyRequests, resp)
			return
		}
		c.Next()
	}
}
