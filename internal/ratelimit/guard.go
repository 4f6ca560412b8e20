// Package ratelimit gates outbound GitHub API calls on the quota headers
// the API returns with every response.
package ratelimit

import (
	"strconv"
	"sync"
	"time"
)

// Guard tracks a single "resume not before" instant shared by every caller
// in the process. It is set only when a response reports zero remaining
// quota and clears itself purely by time passing; there is no explicit
// reset. Pass the one Guard value to every call site; it is not a global.
type Guard struct {
	mu       sync.Mutex
	resumeAt time.Time
}

func NewGuard() *Guard {
	return &Guard{}
}

// Limited reports whether calls are still suppressed at now.
func (g *Guard) Limited(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.resumeAt.IsZero() && now.Before(g.resumeAt)
}

// ResumeAt returns the suppression deadline, zero if none was ever set.
func (g *Guard) ResumeAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resumeAt
}

// Record ingests the x-ratelimit-remaining and x-ratelimit-reset header
// values of a response. The suppression deadline moves only when remaining
// is exactly zero and reset parses as an epoch-seconds integer; it never
// moves backwards and is never cleared early.
func (g *Guard) Record(remaining, reset string) {
	rem, err := strconv.Atoi(remaining)
	if err != nil || rem != 0 {
		return
	}
	secs, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		return
	}
	at := time.Unix(secs, 0)
	g.mu.Lock()
	defer g.mu.Unlock()
	if at.After(g.resumeAt) {
		g.resumeAt = at
	}
}
