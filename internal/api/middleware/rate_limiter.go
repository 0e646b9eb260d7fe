package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
	"github.com/saturnino-fabrica-de-software/facefind/internal/ratelimit"
)

// KeyFunc returns the rate limit bucket of a request, "" to skip limiting
type KeyFunc func(c *fiber.Ctx) string

// SessionKey buckets requests per authenticated user
func SessionKey(c *fiber.Ctx) string {
	session, err := GetSession(c)
	if err != nil {
		return ""
	}
	return "user:" + strconv.Itoa(session.UserID)
}

// IPKey buckets requests per client address
func IPKey(c *fiber.Ctx) string {
	return "ip:" + c.IP()
}

// RateLimit enforces limiter per key and sets the X-RateLimit-* headers
func RateLimit(limiter *ratelimit.Limiter, key KeyFunc) fiber.Handler {
	if key == nil {
		key = SessionKey
	}

	return func(c *fiber.Ctx) error {
		if !limiter.Enabled() {
			return c.Next()
		}

		k := key(c)
		if k == "" {
			return c.Next()
		}

		res := limiter.Take(k)

		c.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Set("X-RateLimit-Reset", res.Reset.Format(time.RFC3339))

		if !res.Allowed {
			retry := int(time.Until(res.Reset).Seconds())
			c.Set("Retry-After", strconv.Itoa(max(retry, 1)))
			return domain.ErrRateLimitExceeded
		}

		return c.Next()
	}
}
