// Package ratelimit throttles commands per acting user with a token bucket.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter manages one token bucket per user id. A nil *Limiter allows
// everything.
type Limiter struct {
	mu       sync.Mutex
	limiters map[uint64]*rate.Limiter
	limit    rate.Limit
	burst    int

	now func() time.Time
}

// New returns a limiter allowing rps commands per second per user with the
// given burst. rps of zero or less disables limiting and returns nil.
func New(rps float64, burst int) *Limiter {
	if rps <= 0 {
		return nil
	}
	return &Limiter{
		limiters: make(map[uint64]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether user may run a command now. When it may not, the
// returned duration is how long until a token is available. A refused call
// does not consume a token.
func (l *Limiter) Allow(user uint64) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	now := l.now()
	r := l.get(user).ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *Limiter) get(user uint64) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[user]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[user] = lim
	}
	return lim
}
