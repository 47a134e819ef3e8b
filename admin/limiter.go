package admin

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter throttles password attempts per client. Idle clients are forgotten
// after the cache expiry.
type Limiter struct {
	sync.Mutex
	limit    rate.Limit
	burst    int
	limiters *cache.Cache
}

func NewLimiter(every time.Duration, burst int) *Limiter {
	return &Limiter{
		limit:    rate.Every(every),
		burst:    burst,
		limiters: cache.New(10*time.Minute, 10*time.Minute),
	}
}

func (l *Limiter) Allow(client string) bool {
	l.Lock()
	defer l.Unlock()

	if v, ok := l.limiters.Get(client); ok {
		return v.(*rate.Limiter).Allow()
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters.SetDefault(client, limiter)

	return limiter.Allow()
}
