package bucket_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/alexdelorenzo/limiter/pkg/ratelimit/bucket"
)

// Example demonstrates basic usage of the token bucket
func Example() {
	// Allow 10 tokens per second with a burst capacity of 5
	limiter, err := bucket.New(10, 5)
	if err != nil {
		panic(fmt.Sprintf("Failed to create limiter: %v", err))
	}

	// Check if a request is allowed (non-blocking)
	if limiter.Allow() {
		fmt.Println("Request allowed")
	} else {
		fmt.Println("Request denied")
	}

	// Output: Request allowed
}

// Example_wait demonstrates blocking until tokens are available
func Example_wait() {
	// A slow bucket: 1 token per second, capacity 1
	limiter, err := bucket.New(1, 1)
	if err != nil {
		panic(fmt.Sprintf("Failed to create limiter: %v", err))
	}

	ctx := context.Background()

	// First request succeeds immediately
	if err := limiter.Wait(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Println("First request processed")

	// Second request would need to wait, but we'll use a timeout
	ctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err != nil {
		fmt.Printf("Second request failed: %v\n", err)
	}

	// Output:
	// First request processed
	// Second request failed: context deadline exceeded
}

// Example_tryAcquire demonstrates the non-blocking acquire-or-wait contract
func Example_tryAcquire() {
	limiter, err := bucket.New(2, 3)
	if err != nil {
		panic(fmt.Sprintf("Failed to create limiter: %v", err))
	}

	// Exhaust the burst
	for i := 0; i < 3; i++ {
		limiter.Allow()
	}

	ok, wait, err := limiter.TryAcquireN(1)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("granted: %v, suggested wait: %v\n", ok, wait.Round(100*time.Millisecond))

	// Output: granted: false, suggested wait: 500ms
}
