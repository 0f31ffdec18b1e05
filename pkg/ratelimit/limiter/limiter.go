package limiter

import (
	"context"
	"log/slog"
	"sync"
	"time"

	limerrors "github.com/alexdelorenzo/limiter/pkg/common/errors"
	"github.com/alexdelorenzo/limiter/pkg/metrics"
	"github.com/alexdelorenzo/limiter/pkg/ratelimit/bucket"
	"github.com/alexdelorenzo/limiter/pkg/ratelimit/jitter"
)

// Package defaults, applied when neither the call site nor the handle
// overrides a setting.
const (
	DefaultRate     = 2.0
	DefaultCapacity = 3.0
	DefaultConsume  = 1.0
	DefaultKey      = "default"
)

// group owns the buckets shared by every handle derived from one origin.
// Handles created by With point at the same group; Limiter.New creates a
// fresh group with a fresh fill level.
type group struct {
	rate     bucket.Limit
	capacity float64
	clock    bucket.Clock

	metricsOn   bool
	metricsName string
	registry    *metrics.Registry

	mu      sync.Mutex
	buckets map[string]bucket.Limiter
}

// bucketFor returns the bucket for key, creating it lazily with the
// group's rate and capacity. Buckets are never removed.
func (g *group) bucketFor(key string) (bucket.Limiter, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if b, ok := g.buckets[key]; ok {
		return b, nil
	}

	cfg := bucket.Config{
		Rate:          g.rate,
		Capacity:      g.capacity,
		Clock:         g.clock,
		InitialTokens: -1,
	}

	var b bucket.Limiter
	var err error
	if g.metricsOn {
		b, err = bucket.NewWithSharedMetrics(cfg, g.metricsName+"/"+key, g.registry)
	} else {
		b, err = bucket.NewWithConfig(cfg)
	}
	if err != nil {
		return nil, err
	}

	g.buckets[key] = b
	return b, nil
}

// Limiter is a handle over a group of token buckets plus per-handle
// defaults for consume, jitter and bucket key. Handles are cheap values:
// derive variants with With (sharing buckets) or New (independent
// buckets) instead of mutating one.
//
// Acquisition is a pure rate gate: all accounting happens at grant time
// and nothing is released afterwards.
type Limiter struct {
	group   *group
	consume float64
	jitter  jitter.Spec
	key     string
}

// New creates a Limiter. With no options it uses the package defaults:
// 2 tokens per second, capacity 3, consuming 1 token per acquisition from
// the "default" bucket with no jitter.
func New(opts ...Option) (*Limiter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return newFromConfig(cfg)
}

// Must returns l or panics if err is non-nil. It allows terse setup of
// limiters whose options are known to be valid.
func Must(l *Limiter, err error) *Limiter {
	if err != nil {
		panic(err)
	}
	return l
}

func defaultConfig() config {
	return config{
		rate:     DefaultRate,
		capacity: DefaultCapacity,
		consume:  DefaultConsume,
		jitter:   jitter.None(),
		key:      DefaultKey,
		clock:    bucket.SystemClock{},
	}
}

func newFromConfig(cfg config) (*Limiter, error) {
	if err := cfg.checkConsume(); err != nil {
		return nil, err
	}

	g := &group{
		rate:        cfg.rate,
		capacity:    cfg.capacity,
		clock:       cfg.clock,
		metricsOn:   cfg.metricsOn,
		metricsName: cfg.metricsName,
		buckets:     make(map[string]bucket.Limiter),
	}
	if cfg.metricsOn {
		// One set of metric families per origin; keyed buckets and clones
		// report through it rather than re-registering.
		g.registry = cfg.registry
		if g.registry == nil {
			g.registry = metrics.DefaultRegistry
			if cfg.metricsCfg.Registry != nil {
				g.registry = metrics.NewRegistry(cfg.metricsCfg.Registry)
			}
		}
	}

	return &Limiter{
		group:   g,
		consume: cfg.consume,
		jitter:  cfg.jitter,
		key:     cfg.key,
	}, nil
}

// checkConsume rejects a consume amount no bucket of this limiter could
// ever satisfy.
func (c *config) checkConsume() error {
	if c.consume > c.capacity {
		return limerrors.NewValidationError("limiter", "consume", c.consume, "exceeds capacity").
			WithHint("a request larger than the capacity can never be satisfied")
	}
	return nil
}

// With derives a handle that shares this limiter's buckets, changing only
// the per-call defaults (consume, jitter, key). Bucket-defining options
// are rejected; use New to derive an independent limiter.
func (l *Limiter) With(opts ...Option) (*Limiter, error) {
	cfg := l.handleConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.definesBucket {
		return nil, limerrors.NewValidationError("limiter", "options", "rate/capacity/clock/metrics",
			"cannot redefine the bucket on a shared derivation").
			WithHint("use the New method to create an independent limiter")
	}
	if err := cfg.checkConsume(); err != nil {
		return nil, err
	}

	return &Limiter{
		group:   l.group,
		consume: cfg.consume,
		jitter:  cfg.jitter,
		key:     cfg.key,
	}, nil
}

// New derives an independent limiter: a fresh bucket group seeded from
// this handle's rate, capacity and clock (all overridable), decoupled
// from the original buckets' fill level and history.
func (l *Limiter) New(opts ...Option) (*Limiter, error) {
	cfg := l.handleConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return newFromConfig(cfg)
}

// handleConfig snapshots the handle's settings as a config for derivation
// or per-call resolution.
func (l *Limiter) handleConfig() config {
	return config{
		rate:        l.group.rate,
		capacity:    l.group.capacity,
		consume:     l.consume,
		jitter:      l.jitter,
		key:         l.key,
		clock:       l.group.clock,
		metricsOn:   l.group.metricsOn,
		metricsName: l.group.metricsName,
		registry:    l.group.registry,
	}
}

// SharesBucket reports whether two handles draw from the same underlying
// buckets, i.e. one was derived from the other by With. Independently
// constructed handles never share buckets, even with equal settings.
func (l *Limiter) SharesBucket(other *Limiter) bool {
	return other != nil && l.group == other.group
}

// Rate returns the refill rate in tokens per second.
func (l *Limiter) Rate() float64 { return float64(l.group.rate) }

// Capacity returns the burst size.
func (l *Limiter) Capacity() float64 { return l.group.capacity }

// Consume returns the default tokens taken per acquisition.
func (l *Limiter) Consume() float64 { return l.consume }

// Jitter returns the handle's jitter policy.
func (l *Limiter) Jitter() jitter.Spec { return l.jitter }

// Key returns the handle's default bucket key.
func (l *Limiter) Key() string { return l.key }

// Tokens returns the tokens currently available in the bucket for the
// handle's default key, creating it if needed.
func (l *Limiter) Tokens() (float64, error) {
	b, err := l.group.bucketFor(l.key)
	if err != nil {
		return 0, err
	}
	return b.Tokens(), nil
}

// Acquire blocks the calling goroutine until the requested tokens are
// granted. The sleep is uninterruptible; use AcquireContext where
// cancellation or deadlines are needed.
func (l *Limiter) Acquire(opts ...Option) error {
	return l.acquire(nil, opts)
}

// AcquireContext suspends until the requested tokens are granted or ctx
// is done. Context errors propagate unchanged and nothing is debited on
// that path.
func (l *Limiter) AcquireContext(ctx context.Context, opts ...Option) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return l.acquire(ctx, opts)
}

// TryAcquire makes a single non-blocking attempt and reports whether the
// tokens were granted.
func (l *Limiter) TryAcquire(opts ...Option) (bool, error) {
	cfg, err := l.callConfig(opts)
	if err != nil {
		return false, err
	}
	b, err := l.group.bucketFor(cfg.key)
	if err != nil {
		return false, err
	}
	ok, _, err := b.TryAcquireN(cfg.consume)
	return ok, err
}

// acquire runs the try/sleep/retry protocol. A nil ctx means blocking
// mode. The bucket's critical section is never held across a sleep; the
// refill recomputes from wall time on every retry, so the loop converges
// even when the sleep over- or undershoots.
func (l *Limiter) acquire(ctx context.Context, opts []Option) error {
	cfg, err := l.callConfig(opts)
	if err != nil {
		return err
	}

	b, err := l.group.bucketFor(cfg.key)
	if err != nil {
		return err
	}

	for {
		ok, wait, err := b.TryAcquireN(cfg.consume)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		// Jitter applies only on the waiting path; an immediate grant
		// above never reaches this point.
		wait += cfg.jitter.Sample()

		slog.Debug("rate limit reached, sleeping",
			"key", cfg.key,
			"consume", cfg.consume,
			"wait", wait)

		if ctx == nil {
			time.Sleep(wait)
			continue
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

// callConfig resolves per-call overrides on top of the handle defaults.
// Bucket-defining options make no sense at call time and are rejected.
func (l *Limiter) callConfig(opts []Option) (config, error) {
	cfg := l.handleConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}
	if cfg.definesBucket {
		return config{}, limerrors.NewValidationError("limiter", "options", "rate/capacity/clock/metrics",
			"cannot redefine the bucket at call time").
			WithHint("derive a limiter with the New method instead")
	}
	if err := cfg.checkConsume(); err != nil {
		return config{}, err
	}
	return cfg, nil
}
