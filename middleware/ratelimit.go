package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adcut-studio/adcut-api/logger"
	"github.com/adcut-studio/adcut-api/services"
	"github.com/adcut-studio/adcut-api/utils"
)

// RateLimitPolicy defines the throttling parameters for a traffic surface
type RateLimitPolicy struct {
	name   string
	limit  int
	window time.Duration
}

// NewRateLimitPolicy builds a per-client-IP policy
func NewRateLimitPolicy(name string, limit int, window time.Duration) RateLimitPolicy {
	return RateLimitPolicy{
		name:   strings.ToLower(strings.TrimSpace(name)),
		limit:  limit,
		window: window,
	}
}

func (p RateLimitPolicy) enabled() bool {
	return p.window > 0 && p.limit > 0
}

func (p RateLimitPolicy) key(ip string) string {
	name := p.name
	if name == "" {
		name = "default"
	}
	return fmt.Sprintf("ip:%s:%s", name, ip)
}

// RateLimit counts requests per client IP. A limiter failure lets the request through.
func RateLimit(limiter services.RateLimiter, policy RateLimitPolicy) gin.HandlerFunc {
	if limiter == nil || !policy.enabled() {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ip := c.ClientIP()

		allowed, count, err := limiter.Allow(ctx, policy.key(ip), int64(policy.limit), policy.window)
		if err != nil {
			logger.Get().Error(logger.Get().WithField(ctx, "policy", policy.name), "rate limiter unavailable", err)
			c.Next()
			return
		}
		if !allowed {
			logger.Get().Warn(logger.Get().WithFields(ctx, map[string]any{
				"policy":         policy.name,
				"ip":             ip,
				"attempts":       count,
				"limit":          policy.limit,
				"window_seconds": int(policy.window.Seconds()),
			}), "rate_limit.blocked")

			c.Header("Retry-After", strconv.Itoa(int(policy.window.Seconds())))
			abortWithError(c, http.StatusTooManyRequests, utils.CodeRateLimited, "Too many requests, please try again later")
			return
		}

		c.Next()
	}
}
