package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// rateLimitScript increments the window counter and sets its TTL in one atomic
// step. A counter found without TTL gets one too, so no key can block forever.
// KEYS[1] = counter key, ARGV[1] = window in milliseconds. Returns the count.
const rateLimitScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 or redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return count
`

// RateLimitStore là phần của redis client mà rate limiter cần.
// *redis.Client implement interface này; tests dùng store trong bộ nhớ.
type RateLimitStore interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RateLimit returns a fixed-window limiter keyed by client IP. The counter and
// its TTL are updated by one Lua script. A nil store or a non-positive limit
// disables limiting. Redis errors let the request through so counting keeps
// working when Redis is down.
func RateLimit(store RateLimitStore, prefix string, limit int, window time.Duration, log logrus.FieldLogger) fiber.Handler {
	windowMs := window.Milliseconds()
	if windowMs <= 0 {
		windowMs = 1
	}
	return func(c *fiber.Ctx) error {
		if store == nil || limit <= 0 {
			return c.Next()
		}
		key := c.IP()
		if key == "" {
			return c.Next()
		}

		rkey := fmt.Sprintf("rl:%s:%s", prefix, key)
		cnt, err := store.Eval(c.UserContext(), rateLimitScript, []string{rkey}, windowMs).Int64()
		if err != nil {
			if log != nil {
				log.WithError(err).WithField("key", rkey).Warn("rate limit check failed")
			}
			return c.Next()
		}
		if cnt > int64(limit) {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate_limited"})
		}
		return c.Next()
	}
}
