package http

import (
	"time"

	"golang.org/x/time/rate"
)

// rateLimiter bounds chat messages per connection. A nil limiter allows everything.
type rateLimiter struct {
	limiter *rate.Limiter
}

// newRateLimiter allows perMinute messages per minute with a burst of the same
// size. A non-positive limit disables limiting.
func newRateLimiter(perMinute int) *rateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &rateLimiter{
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

func (r *rateLimiter) allow() bool {
	if r == nil {
		return true
	}
	return r.limiter.Allow()
}
