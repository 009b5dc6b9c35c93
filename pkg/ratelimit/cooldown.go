// Package ratelimit gates test sends behind a single shared cooldown. The
// window is global on purpose, not per credential: its job is to keep an
// operator poking at a misconfigured account from tripping provider-side
// abuse detection, and a per-credential gate would not do that.
package ratelimit

import (
	"fmt"
	"time"

	"go.uber.org/atomic"
)

// ErrCooldownActive is wrapped into the error returned by Allow while the
// cooldown window is still open.
var ErrCooldownActive = fmt.Errorf("test send cooldown active")

// Cooldown tracks the time of the last test-send attempt. Construct one at
// startup and pass it to everything that can trigger a test send.
type Cooldown struct {
	interval time.Duration
	lastUnix *atomic.Int64 // unix nanos of last attempt, 0 means never
	now      func() time.Time
}

func NewCooldown(interval time.Duration) *Cooldown {
	return &Cooldown{
		interval: interval,
		lastUnix: atomic.NewInt64(0),
		now:      time.Now,
	}
}

// Allow reports whether a new test send may start. Every call that is allowed
// stamps the attempt time, so even a send that later fails counts against the
// window. The swap is a CAS loop so two concurrent callers cannot both pass
// through one open window.
func (c *Cooldown) Allow() error {
	for {
		now := c.now()
		last := c.lastUnix.Load()

		if last != 0 {
			elapsed := now.Sub(time.Unix(0, last))
			if elapsed < c.interval {
				remaining := c.interval - elapsed
				return fmt.Errorf("%w: retry in %s", ErrCooldownActive, FormatWait(remaining))
			}
		}

		if c.lastUnix.CompareAndSwap(last, now.UnixNano()) {
			return nil
		}
	}
}

// Remaining returns the time left in the current window, zero when a test
// send would be allowed right now.
func (c *Cooldown) Remaining() time.Duration {
	last := c.lastUnix.Load()
	if last == 0 {
		return 0
	}

	remaining := c.interval - c.now().Sub(time.Unix(0, last))
	if remaining < 0 {
		return 0
	}

	return remaining
}

// FormatWait renders a wait duration for the operator: plain seconds below a
// minute, minutes plus seconds at or above it.
func FormatWait(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}

	return fmt.Sprintf("%dm%ds", secs/60, secs%60)
}
