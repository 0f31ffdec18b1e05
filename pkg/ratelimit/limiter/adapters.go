package limiter

import "context"

// Wrap returns a function that acquires tokens before invoking fn,
// blocking the calling goroutine during any wait. Overrides are resolved
// on every invocation, not once at wrap time.
func (l *Limiter) Wrap(fn func() error, opts ...Option) func() error {
	return func() error {
		if err := l.Acquire(opts...); err != nil {
			return err
		}
		return fn()
	}
}

// WrapContext returns a context-aware function that acquires tokens
// before invoking fn, suspending cooperatively during any wait. If the
// context ends while waiting, fn is never invoked and the context error
// is returned.
func (l *Limiter) WrapContext(fn func(context.Context) error, opts ...Option) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := l.AcquireContext(ctx, opts...); err != nil {
			return err
		}
		return fn(ctx)
	}
}

// WrapFunc adapts a value-returning callable, preserving its signature.
func WrapFunc[T any](l *Limiter, fn func() (T, error), opts ...Option) func() (T, error) {
	return func() (T, error) {
		if err := l.Acquire(opts...); err != nil {
			var zero T
			return zero, err
		}
		return fn()
	}
}

// WrapFuncContext adapts a context-aware, value-returning callable,
// preserving its signature.
func WrapFuncContext[T any](l *Limiter, fn func(context.Context) (T, error), opts ...Option) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		if err := l.AcquireContext(ctx, opts...); err != nil {
			var zero T
			return zero, err
		}
		return fn(ctx)
	}
}
