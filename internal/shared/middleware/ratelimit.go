package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-api/internal/shared/apperror"
	"library-api/internal/shared/ratelimit"
	"library-api/internal/shared/utils"
)

// RateLimit throttles per client IP. Store failures let the request through.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := utils.ExtractClientIP(c)

		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn().
				Err(err).
				Str("limiter", limiter.Name()).
				Str("ip", key).
				Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(1, seconds)))
			_ = c.Error(apperror.TooManyRequests())
			c.Abort()
			return
		}

		c.Next()
	}
}
