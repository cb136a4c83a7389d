package ratelimit

import (
	"testing"
	"time"
)

func newTestLimiter(perMinute int) *Limiter {
	rl := NewLimiter(Config{
		RequestsPerMinute: perMinute,
		CleanupInterval:   time.Hour,
	})
	return rl
}

func TestAllowWithinBudget(t *testing.T) {
	rl := newTestLimiter(3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("203.0.113.9") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
}

func TestAllowDeniesBeyondBudget(t *testing.T) {
	rl := newTestLimiter(2)
	defer rl.Stop()

	rl.Allow("203.0.113.9")
	rl.Allow("203.0.113.9")
	if rl.Allow("203.0.113.9") {
		t.Fatal("third request in the window should be denied")
	}
	if rl.Allow("203.0.113.9") {
		t.Fatal("fourth request in the window should be denied")
	}
}

func TestAllowTracksClientsIndependently(t *testing.T) {
	rl := newTestLimiter(1)
	defer rl.Stop()

	if !rl.Allow("203.0.113.9") {
		t.Fatal("first client should be allowed")
	}
	if !rl.Allow("198.51.100.7") {
		t.Fatal("second client has its own budget")
	}
	if rl.Allow("203.0.113.9") {
		t.Fatal("first client is out of budget")
	}
}

func TestGetMetricsCountsDenials(t *testing.T) {
	rl := newTestLimiter(1)
	defer rl.Stop()

	rl.Allow("203.0.113.9")
	rl.Allow("203.0.113.9")
	rl.Allow("203.0.113.9")
	rl.Allow("198.51.100.7")

	m := rl.GetMetrics()
	if m.TotalHits != 2 {
		t.Fatalf("TotalHits = %d, want 2", m.TotalHits)
	}
	if m.ClientCount != 2 {
		t.Fatalf("ClientCount = %d, want 2", m.ClientCount)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	rl := newTestLimiter(1)
	rl.Stop()
	rl.Stop()
}
