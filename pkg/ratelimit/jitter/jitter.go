package jitter

import (
	"fmt"
	"math/rand/v2"
	"time"

	limerrors "github.com/alexdelorenzo/limiter/pkg/common/errors"
)

// Ranges are expressed in whole milliseconds and sampled with randrange
// semantics: the values start, start+step, ... strictly below stop.

type kind int

const (
	kindNone kind = iota
	kindFixed
	kindRange
)

// Bounds of the implicit jitter range used by Default.
const (
	DefaultRangeStartMS = 0
	DefaultRangeStopMS  = 50
)

// Spec describes how to compute a randomized delay added to a waiting
// acquisition. A Spec is immutable; the zero value is None.
type Spec struct {
	kind  kind
	fixed time.Duration
	start int64
	stop  int64
	step  int64
}

// None returns a Spec that yields no delay.
func None() Spec {
	return Spec{}
}

// Default returns the small implicit jitter used when jitter is enabled
// without an explicit policy: a uniform draw from [0ms, 50ms). It exists
// to desynchronize waiters that wake at the same instant, not to change
// throughput.
func Default() Spec {
	return Spec{
		kind:  kindRange,
		start: DefaultRangeStartMS,
		stop:  DefaultRangeStopMS,
		step:  1,
	}
}

// Fixed returns a Spec that always yields d.
// Negative durations are treated as zero.
func Fixed(d time.Duration) Spec {
	if d < 0 {
		d = 0
	}
	return Spec{kind: kindFixed, fixed: d}
}

// Range returns a Spec sampling uniformly from the whole milliseconds
// start, start+1, ..., stop-1.
func Range(startMS, stopMS int) (Spec, error) {
	return RangeStep(startMS, stopMS, 1)
}

// RangeStep returns a Spec sampling uniformly from the arithmetic sequence
// start, start+step, ... strictly below stop, in milliseconds.
func RangeStep(startMS, stopMS, stepMS int) (Spec, error) {
	if startMS < 0 {
		return Spec{}, limerrors.NewValidationError("jitter", "start", startMS, "cannot be negative")
	}
	if stepMS <= 0 {
		return Spec{}, limerrors.NewValidationError("jitter", "step", stepMS, "must be positive")
	}
	if stopMS <= startMS {
		return Spec{}, limerrors.NewValidationError("jitter", "stop", stopMS, "must be greater than start").
			WithHint("an empty range has nothing to sample")
	}

	return Spec{
		kind:  kindRange,
		start: int64(startMS),
		stop:  int64(stopMS),
		step:  int64(stepMS),
	}, nil
}

// IsNone reports whether the spec never yields a delay.
func (s Spec) IsNone() bool {
	return s.kind == kindNone
}

// Sample draws a fresh non-negative delay from the spec. Each call samples
// independently; results are never cached.
func (s Spec) Sample() time.Duration {
	switch s.kind {
	case kindFixed:
		return s.fixed
	case kindRange:
		steps := (s.stop - s.start + s.step - 1) / s.step
		ms := s.start + s.step*rand.Int64N(steps)
		return time.Duration(ms) * time.Millisecond
	default:
		return 0
	}
}

// String returns a human-readable description of the spec.
func (s Spec) String() string {
	switch s.kind {
	case kindFixed:
		return fmt.Sprintf("fixed(%v)", s.fixed)
	case kindRange:
		return fmt.Sprintf("range(%dms, %dms, %dms)", s.start, s.stop, s.step)
	default:
		return "none"
	}
}
