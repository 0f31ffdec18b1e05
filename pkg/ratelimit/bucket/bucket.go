package bucket

import (
	"context"
	"math"
	"time"

	limerrors "github.com/alexdelorenzo/limiter/pkg/common/errors"
)

// Allow reports whether one token may be taken now.
func (tb *tokenBucket) Allow() bool {
	return tb.AllowN(1)
}

// AllowN reports whether n tokens may be taken now.
func (tb *tokenBucket) AllowN(n float64) bool {
	ok, _, err := tb.TryAcquireN(n)
	return err == nil && ok
}

// TryAcquireN attempts to take n tokens without blocking.
func (tb *tokenBucket) TryAcquireN(n float64) (bool, time.Duration, error) {
	if n <= 0 {
		return false, 0, limerrors.NewValidationError("bucket", "consume", n, "must be positive")
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	if n > tb.capacity {
		return false, 0, limerrors.NewValidationError("bucket", "consume", n, "exceeds bucket capacity").
			WithHint("a request larger than the capacity can never be satisfied")
	}

	tb.refill(tb.clock.Now())

	if tb.tokens >= n {
		tb.tokens -= n
		return true, 0, nil
	}

	// Report the deficit without debiting; the caller sleeps and retries.
	// Refill is recomputed from wall time on the retry, so overshooting or
	// undershooting the reported wait stays correct.
	deficit := n - tb.tokens
	wait := time.Duration(float64(time.Second) * deficit / float64(tb.limit))
	return false, wait, nil
}

// Wait blocks until one token can be taken.
func (tb *tokenBucket) Wait(ctx context.Context) error {
	return tb.WaitN(ctx, 1)
}

// WaitN blocks until n tokens can be taken.
func (tb *tokenBucket) WaitN(ctx context.Context, n float64) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	for {
		ok, wait, err := tb.TryAcquireN(n)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// SetLimit changes the refill rate.
func (tb *tokenBucket) SetLimit(newLimit Limit) error {
	if newLimit <= 0 {
		return limerrors.NewValidationError("bucket", "rate", float64(newLimit), "must be positive")
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	// Settle the balance at the old rate before switching.
	tb.refill(tb.clock.Now())
	tb.limit = newLimit
	return nil
}

// SetCapacity changes the capacity.
func (tb *tokenBucket) SetCapacity(newCapacity float64) error {
	if newCapacity <= 0 {
		return limerrors.NewValidationError("bucket", "capacity", newCapacity, "must be positive")
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(tb.clock.Now())
	tb.capacity = newCapacity
	if tb.tokens > newCapacity {
		tb.tokens = newCapacity
	}
	return nil
}

// Limit returns the current refill rate.
func (tb *tokenBucket) Limit() Limit {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.limit
}

// Capacity returns the current capacity.
func (tb *tokenBucket) Capacity() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.capacity
}

// Tokens returns the number of tokens currently available.
func (tb *tokenBucket) Tokens() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(tb.clock.Now())
	return tb.tokens
}

// refill adds tokens for the time elapsed since the last refill.
// Idempotent at zero elapsed time.
func (tb *tokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastRefill)
	if elapsed <= 0 {
		return
	}

	tb.tokens = math.Min(tb.tokens+elapsed.Seconds()*float64(tb.limit), tb.capacity)
	tb.lastRefill = now
}
