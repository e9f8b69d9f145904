// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"sync"
	"time"
)

// Epoch is the start time of a Clock built from a zero time.
var Epoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// Clock hands out deterministic timestamps for archive entries. It stands
// still unless Tick is set, in which case every Now call moves it forward.
type Clock struct {
	mu   sync.Mutex
	at   time.Time
	tick time.Duration
}

func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = Epoch
	}
	return &Clock{at: start}
}

// Ticking sets the step applied after each Now call and returns c.
func (c *Clock) Ticking(step time.Duration) *Clock {
	c.mu.Lock()
	c.tick = step
	c.mu.Unlock()
	return c
}

// Now reports the clock's time. Its method value fits option fields of
// type func() time.Time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.at
	c.at = c.at.Add(c.tick)
	return now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.at = c.at.Add(d)
	c.mu.Unlock()
}
