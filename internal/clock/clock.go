// Package clock abstracts the passage of time so the retry loop in the event
// bus can be driven deterministically in tests instead of sleeping for real.
package clock

import (
	"context"
	"time"

	"github.com/trickstertwo/xclock"
)

// Clock provides the current time and a cancellable sleep. Production code
// uses Real; tests inject a Fake that resolves sleeps immediately while
// recording the durations requested.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is cancelled, whichever comes first.
	// It must not busy-wait.
	Sleep(ctx context.Context, d time.Duration)
}

// Real is the Clock backed by the operating system's monotonic clock. Now
// delegates to xclock.Default(), the same clock-injection capability
// trickstertwo-xbus wires into its own bus and builder; xclock.Clock has no
// cancellable sleep of its own, so Sleep is implemented directly against a
// timer selecting on ctx.Done.
var Real Clock = realClock{xc: xclock.Default()}

type realClock struct {
	xc xclock.Clock
}

func (c realClock) Now() time.Time { return c.xc.Now() }

func (c realClock) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
