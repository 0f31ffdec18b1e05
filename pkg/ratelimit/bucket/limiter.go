package bucket

import (
	"context"
	"sync"
	"time"

	"github.com/alexdelorenzo/limiter/pkg/common/validation"
)

// Limit represents the refill rate of a bucket in tokens per second.
// A Limit must be positive; buckets with no refill are not supported.
type Limit float64

// Every converts a minimum time interval between events to a Limit.
// Non-positive intervals convert to a zero Limit, which is rejected
// at construction.
func Every(interval time.Duration) Limit {
	if interval <= 0 {
		return 0
	}
	return Limit(time.Second) / Limit(interval)
}

// Limiter is a token bucket. Tokens are replenished lazily from elapsed
// wall time on each call; there is no background refill goroutine.
//
// Token amounts are float64 so callers can consume fractional tokens.
type Limiter interface {
	// Allow reports whether one token may be taken now. It does not block.
	Allow() bool

	// AllowN reports whether n tokens may be taken now. It does not block.
	// Requests larger than the bucket capacity are never allowed.
	AllowN(n float64) bool

	// TryAcquireN attempts to take n tokens without blocking. On a grant it
	// debits the tokens and returns (true, 0, nil). When the bucket holds
	// too few tokens it debits nothing and returns (false, wait, nil),
	// where wait is the duration after which the refill covers the
	// deficit; the caller is expected to sleep and retry. A non-positive n
	// or an n exceeding the capacity is a configuration error.
	TryAcquireN(n float64) (ok bool, wait time.Duration, err error)

	// Wait blocks until one token can be taken. It returns an error if the
	// context is canceled or the deadline is exceeded.
	Wait(ctx context.Context) error

	// WaitN blocks until n tokens can be taken. It returns an error if the
	// context is canceled or the deadline is exceeded; no tokens are
	// debited in that case.
	WaitN(ctx context.Context, n float64) error

	// SetLimit changes the refill rate. It preserves the current capacity.
	SetLimit(limit Limit) error

	// SetCapacity changes the capacity, clamping held tokens to the new value.
	SetCapacity(capacity float64) error

	// Limit returns the current refill rate.
	Limit() Limit

	// Capacity returns the current capacity.
	Capacity() float64

	// Tokens returns the number of tokens currently available.
	Tokens() float64
}

// Clock provides the current time. It can be mocked for testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Config holds configuration options for creating a new Limiter.
type Config struct {
	// Rate is the number of tokens added per second. Must be positive.
	Rate Limit

	// Capacity is the maximum number of tokens the bucket can hold.
	// Must be positive.
	Capacity float64

	// Clock provides the current time. If nil, SystemClock is used.
	Clock Clock

	// InitialTokens is the number of tokens to start with.
	// If negative, starts with full capacity.
	InitialTokens float64
}

// tokenBucket implements the Limiter interface. The (tokens, lastRefill)
// pair is only touched under mu, and mu is never held across a sleep.
type tokenBucket struct {
	mu         sync.Mutex
	limit      Limit
	capacity   float64
	tokens     float64
	lastRefill time.Time
	clock      Clock
}

// New creates a token bucket that refills at rate tokens per second and
// holds at most capacity tokens, starting full.
func New(rate Limit, capacity float64) (Limiter, error) {
	return NewWithConfig(Config{
		Rate:          rate,
		Capacity:      capacity,
		Clock:         SystemClock{},
		InitialTokens: -1,
	})
}

// NewWithConfig creates a token bucket from the given configuration.
func NewWithConfig(config Config) (Limiter, error) {
	if err := validation.ValidatePositiveFloat("bucket", "rate", float64(config.Rate)); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositiveFloat("bucket", "capacity", config.Capacity); err != nil {
		return nil, err
	}
	if config.Clock == nil {
		config.Clock = SystemClock{}
	}

	initialTokens := config.InitialTokens
	if initialTokens < 0 || initialTokens > config.Capacity {
		initialTokens = config.Capacity
	}

	return &tokenBucket{
		limit:      config.Rate,
		capacity:   config.Capacity,
		tokens:     initialTokens,
		lastRefill: config.Clock.Now(),
		clock:      config.Clock,
	}, nil
}
