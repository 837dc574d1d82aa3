package middleware

import (
	"testing"
	"time"
)

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1:51000") {
			t.Fatalf("Request %d within the limit should pass", i+1)
		}
	}
	if rl.allow("10.0.0.1:51000") {
		t.Error("Request over the limit should be rejected")
	}
	if !rl.allow("10.0.0.2:51000") {
		t.Error("Other clients should not share the bucket")
	}
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	if !rl.allow("client") {
		t.Fatal("First request should pass")
	}
	if rl.allow("client") {
		t.Error("Second request in the same window should be rejected")
	}

	time.Sleep(25 * time.Millisecond)

	if !rl.allow("client") {
		t.Error("Count should reset after the window rolls over")
	}
}
