package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Example_basicUsage demonstrates basic metrics configuration.
func Example_basicUsage() {
	// Create a separate registry for this test
	testRegistry := prometheus.NewRegistry()
	registry := NewRegistry(testRegistry)

	registry.RateLimitRequests.WithLabelValues("token_bucket", "test").Add(10)
	registry.RateLimitAllowed.WithLabelValues("token_bucket", "test").Add(8)
	registry.RateLimitDenied.WithLabelValues("token_bucket", "test").Add(2)

	fmt.Println("Metrics updated successfully")

	// Output:
	// Metrics updated successfully
}

// Example_customConfig demonstrates using a custom Prometheus registry.
func Example_customConfig() {
	customRegistry := prometheus.NewRegistry()

	config := Config{
		Enabled:  true,
		Registry: customRegistry,
	}

	fmt.Printf("Metrics enabled: %v\n", config.Enabled)

	// Output:
	// Metrics enabled: true
}
