package lmx2594

import (
	"errors"
	"testing"
	"time"
)

func pollTiming(clk Clock, attempts int) Timing {
	return Timing{
		PollInterval:    10 * time.Millisecond,
		PollMaxInterval: 100 * time.Millisecond,
		PollAttempts:    attempts,
		Clock:           clk,
	}.withDefaults()
}

func TestPollBoundedRetry(t *testing.T) {
	clk := &fakeClock{}
	bus := &mockBus{} // never reports lock

	status, err := pollLock(NewInitContext(bus), pollTiming(clk, 5))
	if err != nil {
		t.Fatalf("pollLock() err=%v", err)
	}
	if status != Unlocked {
		t.Fatalf("status = %v, want Unlocked", status)
	}
	if bus.reads != 5 {
		t.Fatalf("reads = %d, want exactly 5", bus.reads)
	}
	// No wait after the final attempt.
	if len(clk.sleeps) != 4 {
		t.Fatalf("sleeps = %d, want 4", len(clk.sleeps))
	}
}

func TestPollLockedFirstRead(t *testing.T) {
	clk := &fakeClock{}
	bus := &mockBus{lockOn: 1}

	status, err := pollLock(NewInitContext(bus), pollTiming(clk, 5))
	if err != nil {
		t.Fatalf("pollLock() err=%v", err)
	}
	if status != Locked {
		t.Fatalf("status = %v, want Locked", status)
	}
	if bus.reads != 1 {
		t.Fatalf("reads = %d, want 1", bus.reads)
	}
	if len(clk.sleeps) != 0 {
		t.Fatalf("slept %d times before a first-read lock", len(clk.sleeps))
	}
}

func TestPollLockedAfterRetries(t *testing.T) {
	clk := &fakeClock{}
	bus := &mockBus{lockOn: 3}

	status, err := pollLock(NewInitContext(bus), pollTiming(clk, 5))
	if err != nil {
		t.Fatalf("pollLock() err=%v", err)
	}
	if status != Locked {
		t.Fatalf("status = %v, want Locked", status)
	}
	if bus.reads != 3 {
		t.Fatalf("reads = %d, want 3", bus.reads)
	}
}

func TestPollBusFault(t *testing.T) {
	clk := &fakeClock{}
	bus := &mockBus{failAt: 1}

	status, err := pollLock(NewInitContext(bus), pollTiming(clk, 5))
	var spiErr *SPIError
	if !errors.As(err, &spiErr) {
		t.Fatalf("expected SPIError, got %v", err)
	}
	if status != Failed {
		t.Fatalf("status = %v, want Failed", status)
	}
}

func TestPollBackoffFloor(t *testing.T) {
	clk := &fakeClock{}
	bus := &mockBus{}

	timing := pollTiming(clk, 4)
	if _, err := pollLock(NewInitContext(bus), timing); err != nil {
		t.Fatalf("pollLock() err=%v", err)
	}

	if len(clk.sleeps) != 3 {
		t.Fatalf("sleeps = %d, want 3", len(clk.sleeps))
	}
	prev := time.Duration(0)
	for i, d := range clk.sleeps {
		if d < timing.PollInterval {
			t.Fatalf("sleep %d = %v, below the %v re-poll floor", i, d, timing.PollInterval)
		}
		if d < prev {
			t.Fatalf("backoff shrank: %v after %v", d, prev)
		}
		prev = d
	}
}
