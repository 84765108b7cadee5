// Package domaintest provides deterministic clocks and id generators for tests.
package domaintest

import (
	"fmt"
	"sync"
	"time"
)

var Epoch = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

// Clock advances by Step on every call, starting at Epoch.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

func NewClock(step time.Duration) *Clock {
	return &Clock{now: Epoch, Step: step}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(c.Step)
	return now
}

// Freeze stops the clock so every following call returns the same instant.
func (c *Clock) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Step = 0
}

// Sequence returns an id generator producing prefix-1, prefix-2, ...
func Sequence(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
