// Package metrics provides Prometheus instrumentation for limiter components.
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	lim, _ := bucket.NewWithMetrics(10, 20, "api_requests")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
//	lim, _ := bucket.NewWithConfigAndMetrics(
//		bucket.Config{Rate: 5, Capacity: 10},
//		"custom_limiter",
//		config,
//	)
//
// # Available Metrics
//
//   - limiter_ratelimit_requests_total: Total number of rate limit requests
//   - limiter_ratelimit_allowed_total: Total number of allowed requests
//   - limiter_ratelimit_denied_total: Total number of denied requests
//   - limiter_ratelimit_wait_duration_seconds: Time spent waiting for rate limit approval
//   - limiter_ratelimit_tokens_available: Number of tokens currently available
//   - limiter_ratelimit_jitter_delay_seconds: Randomized delay added to waiting acquisitions
//
// Labels: limiter_type ("token_bucket") and limiter_name (user-provided).
//
// # Performance
//
// Metrics collection is designed for minimal overhead:
//   - Metrics are updated only when operations occur
//   - No background goroutines or timers
//   - Conditional metrics updates based on enabled state
package metrics
