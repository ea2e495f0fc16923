// Package countdown implements the pausable integer-seconds timers behind a
// quiz session: one for the whole session, optionally one per question.
package countdown

import (
	"sync"
	"time"
)

// Countdown decrements once per interval while running and unpaused.
// Callbacks are invoked from a single goroutine, outside the internal lock,
// so they may call back into Pause, Resume or Stop freely.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	paused    bool
	stopped   bool
	started   bool
	done      chan struct{}

	interval time.Duration
	onTick   func(remaining int)
	onExpire func()
}

// New builds a countdown ticking once per second.
func New(seconds int, onTick func(int), onExpire func()) *Countdown {
	return NewWithInterval(seconds, time.Second, onTick, onExpire)
}

// NewWithInterval is like New with a custom tick interval; tests use short
// intervals to exercise expiry without waiting wall-clock seconds.
func NewWithInterval(seconds int, interval time.Duration, onTick func(int), onExpire func()) *Countdown {
	return &Countdown{
		remaining: seconds,
		done:      make(chan struct{}),
		interval:  interval,
		onTick:    onTick,
		onExpire:  onExpire,
	}
}

// Start launches the ticking goroutine. Starting twice, or after Stop, is a
// no-op, so at most one ticker is ever active per countdown.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	go c.run()
}

func (c *Countdown) run() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if !c.tick() {
				return
			}
		}
	}
}

// tick applies one elapsed interval. It reports false once the countdown has
// expired or been stopped.
func (c *Countdown) tick() bool {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return false
	}
	if c.paused {
		c.mu.Unlock()
		return true
	}
	c.remaining--
	remaining := c.remaining
	expired := remaining <= 0
	if expired {
		c.stopped = true
	}
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(remaining)
	}
	if expired {
		if c.onExpire != nil {
			c.onExpire()
		}
		return false
	}
	return true
}

// Pause suspends decrementing, preserving the remaining value. Pausing an
// already paused or stopped countdown is a no-op.
func (c *Countdown) Pause() {
	c.mu.Lock()
	if !c.stopped {
		c.paused = true
	}
	c.mu.Unlock()
}

// Resume re-enables decrementing. No new ticker is created; the single
// running goroutine simply starts counting again.
func (c *Countdown) Resume() {
	c.mu.Lock()
	if !c.stopped {
		c.paused = false
	}
	c.mu.Unlock()
}

// Stop terminates the countdown. No new tick begins after Stop returns; a
// callback already in flight may still complete, so owners that need strict
// ordering must discard late callbacks themselves. Stopping an already
// stopped or expired countdown is a no-op.
func (c *Countdown) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	close(c.done)
	c.mu.Unlock()
}

// Reset sets the remaining value, e.g. when the per-question budget restarts
// on question advance.
func (c *Countdown) Reset(seconds int) {
	c.mu.Lock()
	if !c.stopped {
		c.remaining = seconds
	}
	c.mu.Unlock()
}

// Remaining returns the seconds left on the counter.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}
