package http

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	rl := newRateLimiter(60, time.Minute)
	defer rl.stop()
	metrics := &securityMetrics{}

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1", metrics) {
			t.Fatalf("request %d rejected below the limit", i+1)
		}
	}
	if rl.allow("10.0.0.1", metrics) {
		t.Fatal("request 61 allowed past the limit")
	}
	if got := atomic.LoadInt64(&metrics.rateLimitHits); got != 1 {
		t.Fatalf("rateLimitHits = %d, want 1", got)
	}
}

func TestRateLimiterPerClient(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	defer rl.stop()

	if !rl.allow("10.0.0.1", nil) {
		t.Fatal("first client rejected")
	}
	if !rl.allow("10.0.0.2", nil) {
		t.Fatal("second client shares the first client's window")
	}
	if rl.allow("10.0.0.1", nil) {
		t.Fatal("first client allowed past its limit")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := newRateLimiter(1, 20*time.Millisecond)
	defer rl.stop()

	if !rl.allow("10.0.0.1", nil) {
		t.Fatal("first request rejected")
	}
	if rl.allow("10.0.0.1", nil) {
		t.Fatal("second request allowed inside the window")
	}
	time.Sleep(30 * time.Millisecond)
	if !rl.allow("10.0.0.1", nil) {
		t.Fatal("request rejected after the window expired")
	}
}

func TestRateLimiterCleanupDropsStaleClients(t *testing.T) {
	rl := newRateLimiter(1, time.Millisecond)
	defer rl.stop()

	rl.allow("10.0.0.1", nil)
	time.Sleep(15 * time.Millisecond)
	rl.cleanupStaleEntries()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.clients) != 0 {
		t.Fatalf("stale clients left: %d", len(rl.clients))
	}
}
