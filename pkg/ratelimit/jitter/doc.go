// Package jitter defines the closed set of jitter policies a limiter can
// apply while waiting for tokens: none, a small default range, a fixed
// duration, or a millisecond range with optional step.
//
// Jitter is only ever added to a computed wait, never applied to an
// acquisition that is granted immediately. A Spec is sampled fresh on each
// waiting acquisition, so a limiter reused across calls yields different
// delays without reconfiguration.
package jitter
