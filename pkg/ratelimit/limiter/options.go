package limiter

import (
	limerrors "github.com/alexdelorenzo/limiter/pkg/common/errors"
	"github.com/alexdelorenzo/limiter/pkg/common/validation"
	"github.com/alexdelorenzo/limiter/pkg/metrics"
	"github.com/alexdelorenzo/limiter/pkg/ratelimit/bucket"
	"github.com/alexdelorenzo/limiter/pkg/ratelimit/jitter"
)

// Option configures a Limiter at construction, derivation, or call time.
// Bucket-defining options (rate, capacity, clock, metrics) are only valid
// where a new bucket group is being created: New and Limiter.New. Passing
// one to With, Acquire or a wrapper is a configuration error.
type Option func(*config) error

// config is the resolved settings for one limiter or one call.
// Fallback order: call-site override, then handle default, then the
// package defaults.
type config struct {
	rate     bucket.Limit
	capacity float64
	consume  float64
	jitter   jitter.Spec
	key      string
	clock    bucket.Clock

	metricsOn   bool
	metricsName string
	metricsCfg  metrics.Config
	registry    *metrics.Registry

	// set when a bucket-defining option was applied
	definesBucket bool
}

// WithRate sets the refill rate in tokens per second.
func WithRate(rate float64) Option {
	return func(c *config) error {
		if err := validation.ValidatePositiveFloat("limiter", "rate", rate); err != nil {
			return err
		}
		c.rate = bucket.Limit(rate)
		c.definesBucket = true
		return nil
	}
}

// WithCapacity sets the burst size: the maximum tokens a bucket can hold.
func WithCapacity(capacity float64) Option {
	return func(c *config) error {
		if err := validation.ValidatePositiveFloat("limiter", "capacity", capacity); err != nil {
			return err
		}
		c.capacity = capacity
		c.definesBucket = true
		return nil
	}
}

// WithConsume sets the default number of tokens taken per acquisition.
func WithConsume(consume float64) Option {
	return func(c *config) error {
		if err := validation.ValidatePositiveFloat("limiter", "consume", consume); err != nil {
			return err
		}
		c.consume = consume
		return nil
	}
}

// WithJitter sets the jitter policy applied while waiting for tokens.
func WithJitter(spec jitter.Spec) Option {
	return func(c *config) error {
		c.jitter = spec
		return nil
	}
}

// WithDefaultJitter enables the implicit small jitter range. It is the
// boolean-true shorthand for WithJitter(jitter.Default()).
func WithDefaultJitter() Option {
	return WithJitter(jitter.Default())
}

// WithKey sets the bucket key. Each distinct key gets its own lazily
// created bucket under the limiter's rate and capacity.
func WithKey(key string) Option {
	return func(c *config) error {
		if err := validation.ValidateNotEmpty("limiter", "key", key); err != nil {
			return err
		}
		c.key = key
		return nil
	}
}

// WithClock sets the time source for new buckets. Intended for tests.
func WithClock(clock bucket.Clock) Option {
	return func(c *config) error {
		if clock == nil {
			return limerrors.NewValidationError("limiter", "clock", nil, "cannot be nil").
				WithHint("provide a valid clock")
		}
		c.clock = clock
		c.definesBucket = true
		return nil
	}
}

// WithMetrics enables Prometheus instrumentation for the limiter's buckets
// under the given name, using the default metrics configuration.
func WithMetrics(name string) Option {
	return WithMetricsConfig(name, metrics.DefaultConfig())
}

// WithMetricsConfig enables Prometheus instrumentation with an explicit
// metrics configuration, e.g. a custom registry.
func WithMetricsConfig(name string, cfg metrics.Config) Option {
	return func(c *config) error {
		if err := validation.ValidateNotEmpty("limiter", "metrics name", name); err != nil {
			return err
		}
		c.metricsOn = cfg.Enabled
		c.metricsName = name
		c.metricsCfg = cfg
		// force a fresh registry for the new configuration
		c.registry = nil
		c.definesBucket = true
		return nil
	}
}
