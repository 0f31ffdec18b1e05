/*
Package limiter provides token-bucket rate limiting for concurrent Go code,
with burst capacity, lazy time-based refill, and optional randomized delay
(jitter) to desynchronize waiters that wake at the same instant.

Core (pkg/ratelimit):
  - bucket: the token bucket itself, with a non-blocking TryAcquireN,
    context-aware Wait, and an injectable Clock
  - jitter: a closed set of jitter policies (none, default range, fixed,
    millisecond range) sampled fresh on every waiting acquisition
  - limiter: the user-facing handle with per-call overrides, keyed buckets,
    shared and cloned derivation, blocking and context-aware acquisition,
    and function-wrapping adapters

Supporting packages:
  - pkg/metrics: Prometheus instrumentation for limiters
  - pkg/common/errors, pkg/common/validation: configuration error types and
    validation helpers

Example usage:

	import "github.com/alexdelorenzo/limiter/pkg/ratelimit/limiter"

	lim, _ := limiter.New(limiter.WithRate(10), limiter.WithCapacity(20))

	if err := lim.Acquire(); err != nil {
		// configuration error
	}
	// rate-limited work here

There is no background refill goroutine: token replenishment is computed
from elapsed time inside each acquisition attempt, so an idle limiter costs
nothing.
*/
package limiter
