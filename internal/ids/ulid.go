// Package ids generates the sortable identifiers the message factories use
// for message ids and correlation ids, and decodes the creation time back
// out of one.
package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// New returns a time-sortable, 26-character ULID string. The monotonic
// entropy source is guarded by entropyMu so ids generated within the same
// millisecond by concurrent callers are still strictly increasing.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return id.String()
}

// Timestamp decodes the creation time embedded in an id produced by New. It
// reports false for any string that isn't a well-formed ULID: CloudEvents
// only requires the id/correlationid fields to be non-empty strings, so a
// message from an external producer may carry an id this package never
// generated.
func Timestamp(id string) (time.Time, bool) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, false
	}
	return ulid.Time(parsed.Time()), true
}
