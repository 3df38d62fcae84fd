package ratelimit

import (
	"context"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// MemoryLimiter implements Limiter on an in-process store.
type MemoryLimiter struct {
	Store limiter.Store
}

// NewMemoryLimiter returns a limiter backed by an in-memory store.
func NewMemoryLimiter() MemoryLimiter {
	return MemoryLimiter{Store: memory.NewStore()}
}

// Allow registers an event for the given key and returns whether it is within the limit.
func (l MemoryLimiter) Allow(ctx context.Context, key string, window time.Duration, max int) (allowed bool, remaining int, reset time.Time, err error) {
	if l.Store == nil || max <= 0 || window <= 0 {
		return true, max, time.Now().Add(window), nil
	}

	rate := limiter.Rate{Period: window, Limit: int64(max)}
	lctx, err := limiter.New(l.Store, rate).Get(ctx, key)
	if err != nil {
		return false, 0, time.Now().Add(window), err
	}
	return !lctx.Reached, int(lctx.Remaining), time.Unix(lctx.Reset, 0), nil
}
