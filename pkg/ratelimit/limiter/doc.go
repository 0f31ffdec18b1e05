// Package limiter provides the user-facing rate limiting handle: token
// buckets grouped by key, per-handle defaults for consume, jitter and
// bucket key, and adapters for wrapping callables.
//
// A handle is derived two ways. With shares the underlying buckets and
// changes only defaults:
//
//	heavy, _ := lim.With(limiter.WithConsume(5))
//
// New creates an independent limiter seeded from the same rate and
// capacity but with fresh, full buckets:
//
//	isolated, _ := lim.New()
//
// Acquire blocks the goroutine; AcquireContext suspends cooperatively and
// honors cancellation. Both take per-call overrides:
//
//	err := lim.AcquireContext(ctx,
//		limiter.WithConsume(2),
//		limiter.WithKey("uploads"),
//		limiter.WithDefaultJitter(),
//	)
//
// There is no release step: acquisition is a pure rate gate, not a lock.
package limiter
