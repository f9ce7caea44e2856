package server

import (
	"fmt"
	"testing"
	"time"
)

func TestIPRateLimiterEvictsIdleClients(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	l := NewIPRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		l.getLimiter(fmt.Sprintf("10.0.0.%d", i))
	}
	if l.Len() != 100 {
		t.Fatalf("tracked = %d, want 100", l.Len())
	}

	now = now.Add(l.ttl / 2)
	kept := l.getLimiter("10.0.0.1")

	now = now.Add(l.ttl/2 + time.Second)
	if got := l.getLimiter("10.0.0.1"); got != kept {
		t.Error("active client lost its bucket")
	}
	if l.Len() != 1 {
		t.Errorf("tracked = %d after idle period, want 1", l.Len())
	}
}

func TestIPRateLimiterKeepsBucketWithinTTL(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	l := NewIPRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	if !l.getLimiter("a").Allow() {
		t.Fatal("first request denied")
	}
	now = now.Add(time.Millisecond)
	if l.getLimiter("a").Allow() {
		t.Error("exhausted bucket was reset")
	}
}
