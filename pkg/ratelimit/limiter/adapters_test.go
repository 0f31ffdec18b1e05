package limiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexdelorenzo/limiter/internal/testutil"
)

func TestWrap(t *testing.T) {
	clock := testutil.NewMockClock(time.Now())
	lim, err := New(WithClock(clock))
	require.NoError(t, err)

	calls := 0
	wrapped := lim.Wrap(func() error {
		calls++
		return nil
	})

	require.NoError(t, wrapped())
	require.NoError(t, wrapped())
	assert.Equal(t, 2, calls)

	tokens, err := lim.Tokens()
	require.NoError(t, err)
	assert.Equal(t, 1.0, tokens, "each invocation should consume one token")
}

func TestWrapPropagatesError(t *testing.T) {
	lim, err := New()
	require.NoError(t, err)

	sentinel := errors.New("downstream failure")
	wrapped := lim.Wrap(func() error {
		return sentinel
	})

	assert.ErrorIs(t, wrapped(), sentinel)
}

func TestWrapOverridesResolvedPerCall(t *testing.T) {
	clock := testutil.NewMockClock(time.Now())
	lim, err := New(WithClock(clock))
	require.NoError(t, err)

	wrapped := lim.Wrap(func() error { return nil }, WithConsume(2))

	require.NoError(t, wrapped())

	tokens, err := lim.Tokens()
	require.NoError(t, err)
	assert.Equal(t, 1.0, tokens)
}

func TestWrapInvalidOverride(t *testing.T) {
	lim, err := New()
	require.NoError(t, err)

	// The bad override surfaces at call time, from every invocation
	wrapped := lim.Wrap(func() error { return nil }, WithRate(99))
	require.Error(t, wrapped())
	require.Error(t, wrapped())
}

func TestWrapContext(t *testing.T) {
	lim, err := New()
	require.NoError(t, err)

	calls := 0
	wrapped := lim.WrapContext(func(ctx context.Context) error {
		calls++
		return nil
	})

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	require.NoError(t, wrapped(ctx))
	assert.Equal(t, 1, calls)
}

func TestWrapContextCancelSkipsBody(t *testing.T) {
	lim, err := New(WithRate(0.5), WithCapacity(1))
	require.NoError(t, err)

	// Drain so the wrapped call has to wait ~2s
	require.NoError(t, lim.Acquire())

	calls := 0
	wrapped := lim.WrapContext(func(ctx context.Context) error {
		calls++
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = wrapped(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, calls, "the body must not run when acquisition is canceled")
}

func TestWrapFunc(t *testing.T) {
	lim, err := New()
	require.NoError(t, err)

	wrapped := WrapFunc(lim, func() (string, error) {
		return "hello", nil
	})

	got, err := wrapped()
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestWrapFuncContext(t *testing.T) {
	lim, err := New()
	require.NoError(t, err)

	wrapped := WrapFuncContext(lim, func(ctx context.Context) (int, error) {
		return 42, nil
	})

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	got, err := wrapped(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestWrapFuncContextCanceled(t *testing.T) {
	lim, err := New()
	require.NoError(t, err)

	wrapped := WrapFuncContext(lim, func(ctx context.Context) (int, error) {
		return 42, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := wrapped(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, got)
}
