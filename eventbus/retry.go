package eventbus

import (
	"math"
	"math/rand"
	"time"
)

// RetryPolicy controls the capped exponential-backoff loop a subscriber
// task runs through on handler failure.
type RetryPolicy struct {
	MaxRetries  uint
	BaseDelayMs uint
	MaxDelayMs  uint
	UseJitter   bool
}

// DefaultRetryPolicy returns the bus-level defaults: two retries starting
// at one second and capped at thirty, with jitter enabled.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, BaseDelayMs: 1000, MaxDelayMs: 30000, UseJitter: true}
}

// delayFor computes the backoff delay for attempt n (1-based, counted
// after the initial failure): min(baseDelay * 2^(n-1), maxDelay), plus a
// uniform random [0, 0.1*delay) jitter when enabled.
func delayFor(policy RetryPolicy, attempt int) time.Duration {
	capped := math.Min(float64(policy.BaseDelayMs)*math.Pow(2, float64(attempt-1)), float64(policy.MaxDelayMs))
	delayMs := capped
	if policy.UseJitter {
		delayMs += rand.Float64() * 0.1 * capped
	}
	return time.Duration(delayMs) * time.Millisecond
}
