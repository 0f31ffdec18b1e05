package bucket

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexdelorenzo/limiter/pkg/metrics"
)

const limiterType = "token_bucket"

// MetricsLimiter wraps a Limiter with Prometheus metrics collection.
type MetricsLimiter struct {
	limiter  Limiter
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a new token bucket limiter with metrics enabled.
func NewWithMetrics(rate Limit, capacity float64, name string) (Limiter, error) {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config{
		Rate:          rate,
		Capacity:      capacity,
		Clock:         SystemClock{},
		InitialTokens: -1,
	}, name, config)
}

// NewWithConfigAndMetrics creates a new token bucket limiter with custom config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) (Limiter, error) {
	baseLimiter, err := NewWithConfig(config)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return baseLimiter, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	return &MetricsLimiter{
		limiter:  baseLimiter,
		name:     name,
		registry: registry,
		enabled:  true,
	}, nil
}

// NewWithSharedMetrics wraps a new bucket around an existing metrics
// registry, letting several buckets (e.g. the keyed buckets of one
// limiter) report through one set of metric families instead of
// re-registering them.
func NewWithSharedMetrics(config Config, name string, registry *metrics.Registry) (Limiter, error) {
	baseLimiter, err := NewWithConfig(config)
	if err != nil {
		return nil, err
	}

	return &MetricsLimiter{
		limiter:  baseLimiter,
		name:     name,
		registry: registry,
		enabled:  true,
	}, nil
}

// Allow reports whether one token may be taken now.
func (ml *MetricsLimiter) Allow() bool {
	return ml.AllowN(1)
}

// AllowN reports whether n tokens may be taken now.
func (ml *MetricsLimiter) AllowN(n float64) bool {
	if ml.enabled {
		ml.registry.RateLimitRequests.WithLabelValues(limiterType, ml.name).Add(n)
	}

	allowed := ml.limiter.AllowN(n)

	if ml.enabled {
		if allowed {
			ml.registry.RateLimitAllowed.WithLabelValues(limiterType, ml.name).Add(n)
		} else {
			ml.registry.RateLimitDenied.WithLabelValues(limiterType, ml.name).Add(n)
		}

		ml.registry.RateLimitTokens.WithLabelValues(limiterType, ml.name).Set(ml.limiter.Tokens())
	}

	return allowed
}

// TryAcquireN attempts to take n tokens without blocking.
func (ml *MetricsLimiter) TryAcquireN(n float64) (bool, time.Duration, error) {
	if ml.enabled {
		ml.registry.RateLimitRequests.WithLabelValues(limiterType, ml.name).Add(n)
	}

	ok, wait, err := ml.limiter.TryAcquireN(n)

	if ml.enabled && err == nil {
		if ok {
			ml.registry.RateLimitAllowed.WithLabelValues(limiterType, ml.name).Add(n)
		} else {
			ml.registry.RateLimitDenied.WithLabelValues(limiterType, ml.name).Add(n)
		}

		ml.registry.RateLimitTokens.WithLabelValues(limiterType, ml.name).Set(ml.limiter.Tokens())
	}

	return ok, wait, err
}

// Wait blocks until one token can be taken.
func (ml *MetricsLimiter) Wait(ctx context.Context) error {
	return ml.WaitN(ctx, 1)
}

// WaitN blocks until n tokens can be taken.
func (ml *MetricsLimiter) WaitN(ctx context.Context, n float64) error {
	start := time.Now()

	if ml.enabled {
		ml.registry.RateLimitRequests.WithLabelValues(limiterType, ml.name).Add(n)
	}

	err := ml.limiter.WaitN(ctx, n)

	if ml.enabled {
		duration := time.Since(start)
		ml.registry.RateLimitWaitTime.WithLabelValues(limiterType, ml.name).Observe(duration.Seconds())

		if err == nil {
			ml.registry.RateLimitAllowed.WithLabelValues(limiterType, ml.name).Add(n)
		} else {
			ml.registry.RateLimitDenied.WithLabelValues(limiterType, ml.name).Add(n)
		}

		ml.registry.RateLimitTokens.WithLabelValues(limiterType, ml.name).Set(ml.limiter.Tokens())
	}

	return err
}

// SetLimit changes the refill rate.
func (ml *MetricsLimiter) SetLimit(limit Limit) error {
	return ml.limiter.SetLimit(limit)
}

// SetCapacity changes the capacity.
func (ml *MetricsLimiter) SetCapacity(capacity float64) error {
	return ml.limiter.SetCapacity(capacity)
}

// Limit returns the current refill rate.
func (ml *MetricsLimiter) Limit() Limit {
	return ml.limiter.Limit()
}

// Capacity returns the current capacity.
func (ml *MetricsLimiter) Capacity() float64 {
	return ml.limiter.Capacity()
}

// Tokens returns the number of tokens currently available.
func (ml *MetricsLimiter) Tokens() float64 {
	tokens := ml.limiter.Tokens()

	if ml.enabled {
		ml.registry.RateLimitTokens.WithLabelValues(limiterType, ml.name).Set(tokens)
	}

	return tokens
}

// EnableMetrics enables metrics collection.
func (ml *MetricsLimiter) EnableMetrics(config metrics.Config) error {
	ml.enabled = config.Enabled

	if config.Registry != nil {
		ml.registry = metrics.NewRegistry(config.Registry)
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (ml *MetricsLimiter) DisableMetrics() {
	ml.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (ml *MetricsLimiter) MetricsEnabled() bool {
	return ml.enabled
}
