package session

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var fired atomic.Int32

	for i := 0; i < 5; i++ {
		d.Trigger(func() { fired.Add(1) })
	}

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("expected one trailing call, got %d", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var fired atomic.Int32

	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Fatalf("expected no call after stop, got %d", got)
	}

	// Triggers after stop are rejected
	d.Trigger(func() { fired.Add(1) })
	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Fatalf("expected no call after stopped trigger, got %d", got)
	}
}
