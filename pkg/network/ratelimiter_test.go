package network

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_Wait_Context(t *testing.T) {
	// 1 request per second
	rl := NewRateLimiter(1)

	// Consume the initial token
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait failed: %v", err)
	}

	// Next wait should block for ~1s
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := rl.Wait(ctx)
	elapsed := time.Since(start)

	if err == nil {
		t.Error("Expected context deadline exceeded error, got nil")
	}

	if elapsed > 500*time.Millisecond {
		t.Errorf("Wait took too long: %v", elapsed)
	}
}

func TestRateLimiter_Wait_Normal(t *testing.T) {
	// 10 requests per second = 100ms per token. Initial tokens = 10.
	rl := NewRateLimiter(10)

	for i := 0; i < 10; i++ {
		rl.Wait(context.Background())
	}

	start := time.Now()
	// Now bucket is empty. Next wait should take ~100ms.
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 80*time.Millisecond {
		t.Errorf("Rate limiting too fast: %v", elapsed)
	}
}

func TestRateLimiter_Nil(t *testing.T) {
	rl := NewRateLimiter(0)
	if rl != nil {
		t.Fatal("expected nil limiter for rate 0")
	}
	if err := rl.Wait(context.Background()); err != nil {
		t.Errorf("nil limiter Wait() = %v", err)
	}
}

func TestRateLimiter_Wait_CancelRefundsToken(t *testing.T) {
	// 1 request per second, drain the single burst token
	rl := NewRateLimiter(1)
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rl.Wait(ctx); err != context.Canceled {
		t.Fatalf("Wait() error = %v, want context.Canceled", err)
	}

	rl.mu.Lock()
	tokens := rl.tokens
	rl.mu.Unlock()
	// Without the refund the cancelled waiter would leave the bucket near -1
	if tokens < -0.5 {
		t.Errorf("tokens after cancelled Wait = %.2f, want the reservation returned", tokens)
	}

	// The next caller waits about one interval, not two
	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 1500*time.Millisecond {
		t.Errorf("Wait after cancel took %v, reservation was not returned", elapsed)
	}
}
