package testutil

import (
	"testing"
	"time"
)

func TestContextHasDeadline(t *testing.T) {
	ctx := Context(t, 0)
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatalf("expected deadline")
	}
	if time.Until(deadline) > DefaultTimeout {
		t.Fatalf("deadline too far: %s", time.Until(deadline))
	}
}

func TestFakeClockAutoAdvance(t *testing.T) {
	start := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start).AutoAdvance(time.Second)
	if got := clock.Now(); !got.Equal(start) {
		t.Fatalf("expected %s, got %s", start, got)
	}
	clock.Advance(time.Minute)
	if got := clock.Now(); !got.Equal(start.Add(time.Minute + time.Second)) {
		t.Fatalf("unexpected time %s", got)
	}
}

func TestEventually(t *testing.T) {
	calls := 0
	Eventually(t, time.Second, time.Millisecond, func() bool {
		calls++
		return calls == 3
	}, "")
	if calls != 3 {
		t.Fatalf("expected three polls, got %d", calls)
	}
}
