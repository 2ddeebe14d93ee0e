// Package session holds per-conversation context with TTL-bounded
// lifetime. Context influences only how ambiguous follow-up questions
// are resolved; analytics never read it.
package session

import "time"

// Clock abstracts time so expiry is testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }
