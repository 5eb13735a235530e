package ratelimit

import (
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/example/task-manager/domain/apperr"
	"github.com/gofiber/fiber/v2"
)

// ErrTooManyRequests is returned to the error handler when a client is over
// its limit.
var ErrTooManyRequests = apperr.New(apperr.CodeRateLimited, "Too many requests")

// IPMiddleware limits requests by client IP. Limiter failures let the
// request through.
func IPMiddleware(limiter Limiter, logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := limiter.Allow(c.UserContext(), c.IP())
		if err != nil {
			logger.Warn("Rate limit check failed, allowing request", "ip", c.IP(), "err", err)
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return ErrTooManyRequests
		}
		return c.Next()
	}
}
