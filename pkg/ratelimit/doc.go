/*
Package ratelimit provides the token-bucket rate limiting primitives of the
limiter library.

  - bucket: the token bucket itself, allowing controlled bursts
  - jitter: randomized delay policies for waiting acquisitions
  - limiter: the user-facing handle with keyed buckets, derivation,
    per-call overrides and callable adapters

A quick non-blocking check against a raw bucket:

	tb, _ := bucket.New(10, 5) // 10 tokens/sec, burst of 5
	if tb.Allow() {
		// process request (allows immediate burst)
	}

A blocking, jittered acquisition through a handle:

	lim, _ := limiter.New(limiter.WithRate(10), limiter.WithCapacity(5))
	if err := lim.Acquire(limiter.WithDefaultJitter()); err != nil {
		// configuration error
	}

All types are safe for concurrent use; blocking operations integrate with
the context package for cancellation and timeouts.
*/
package ratelimit
