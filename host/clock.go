package host

import (
	"sync"
	"time"

	smartaccount "github.com/iov-one/smartaccount"
)

// Clock provides the ledger time.
type Clock interface {
	Now() smartaccount.UnixTime
}

// SystemClock reads the time of the machine.
type SystemClock struct{}

func (SystemClock) Now() smartaccount.UnixTime {
	return smartaccount.AsUnixTime(time.Now())
}

// ManualClock is a clock that moves only when told to. It is safe for
// concurrent use.
type ManualClock struct {
	mu  sync.Mutex
	now smartaccount.UnixTime
}

// NewManualClock returns a clock stopped at given time.
func NewManualClock(now smartaccount.UnixTime) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() smartaccount.UnixTime {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward. Negative durations are ignored.
func (c *ManualClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
