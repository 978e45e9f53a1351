package clock

import (
	"context"
	"sync"
	"time"
)

// Fake is a Clock whose Now() is fixed until advanced and whose Sleep
// returns immediately while recording the requested duration. It lets
// retry-backoff tests assert on the delays that were requested without
// actually waiting for them.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	slept   []time.Duration
	onSleep func(d time.Duration)
}

// NewFake returns a Fake clock starting at now.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the fake clock's Now() forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// OnSleep installs a callback invoked synchronously every time Sleep is
// called, after it records the duration. Tests use it to advance the clock
// in lockstep with sleeps requested by the code under test.
func (f *Fake) OnSleep(fn func(d time.Duration)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onSleep = fn
}

func (f *Fake) Sleep(_ context.Context, d time.Duration) {
	f.mu.Lock()
	f.slept = append(f.slept, d)
	cb := f.onSleep
	f.mu.Unlock()
	if cb != nil {
		cb(d)
	}
}

// Sleeps returns the durations requested via Sleep, in order.
func (f *Fake) Sleeps() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.slept...)
}
