package clock

import (
	"context"
	"testing"
	"time"
)

func TestFakeSleepRecordsDuration(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	f.Sleep(context.Background(), 5*time.Millisecond)
	f.Sleep(context.Background(), 10*time.Millisecond)

	got := f.Sleeps()
	if len(got) != 2 || got[0] != 5*time.Millisecond || got[1] != 10*time.Millisecond {
		t.Fatalf("unexpected sleeps: %v", got)
	}
}

func TestFakeAdvanceMovesNow(t *testing.T) {
	start := time.Unix(1000, 0)
	f := NewFake(start)
	f.Advance(time.Minute)
	if !f.Now().Equal(start.Add(time.Minute)) {
		t.Fatalf("expected Now to advance, got %v", f.Now())
	}
}

func TestFakeOnSleepCallback(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	var total time.Duration
	f.OnSleep(func(d time.Duration) { total += d })

	f.Sleep(context.Background(), 3*time.Millisecond)
	f.Sleep(context.Background(), 4*time.Millisecond)

	if total != 7*time.Millisecond {
		t.Fatalf("expected callback to observe every sleep, got %v", total)
	}
}

func TestRealNowIsCloseToWallClock(t *testing.T) {
	before := time.Now()
	got := Real.Now()
	after := time.Now()
	if got.Before(before) || got.After(after) {
		t.Fatalf("expected Real.Now() to fall between %v and %v, got %v", before, after, got)
	}
}

func TestRealSleepRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	Real.Sleep(ctx, time.Second)
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("expected cancellation to short-circuit the sleep, took %v", elapsed)
	}
}
