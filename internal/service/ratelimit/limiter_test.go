package ratelimit

import (
	"testing"
	"time"
)

func TestSlidingWindow(t *testing.T) {
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	now := base
	l := New(60*time.Second, 3)
	defer l.Close()
	l.now = func() time.Time { return now }

	// t=0, t=1, t=2 admitted, t=3 denied.
	for i := 0; i < 3; i++ {
		now = base.Add(time.Duration(i) * time.Second)
		if !l.Allow("k") {
			t.Fatalf("call at t=%d denied, want allowed", i)
		}
	}
	now = base.Add(3 * time.Second)
	if l.Allow("k") {
		t.Fatal("call at t=3 allowed, want denied")
	}

	// t=61: the t=0 timestamp left the window.
	now = base.Add(61 * time.Second)
	if !l.Allow("k") {
		t.Fatal("call at t=61 denied, want allowed")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(time.Minute, 1)
	defer l.Close()

	if !l.Allow("a") {
		t.Fatal("first call for a denied")
	}
	if l.Allow("a") {
		t.Fatal("second call for a allowed")
	}
	if !l.Allow("b") {
		t.Fatal("b must not share a's window")
	}
}

func TestRemaining(t *testing.T) {
	l := New(time.Minute, 3)
	defer l.Close()

	if got := l.Remaining("k"); got != 3 {
		t.Fatalf("Remaining = %d, want 3", got)
	}
	l.Allow("k")
	l.Allow("k")
	if got := l.Remaining("k"); got != 1 {
		t.Fatalf("Remaining = %d, want 1", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	l := New(time.Minute, 1)
	l.Close()
	l.Close()
}
