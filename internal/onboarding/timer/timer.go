// Package timer provides tick-driven countdowns and a pacer that drives them.
package timer

import (
	"sync"
	"time"
)

// Countdown counts whole units down to zero. It is not safe for concurrent
// use; owners serialise access.
type Countdown struct {
	remaining int
	active    bool
}

// Start (re)arms the countdown at units. Restarting before zero is allowed.
func (c *Countdown) Start(units int) {
	if units <= 0 {
		c.remaining, c.active = 0, false
		return
	}
	c.remaining, c.active = units, true
}

// Tick decrements an active countdown by one unit and reports whether this
// tick reached zero. Ticking an idle countdown does nothing.
func (c *Countdown) Tick() bool {
	if !c.active {
		return false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining, c.active = 0, false
		return true
	}
	return false
}

// Cancel stops the countdown without signalling completion.
func (c *Countdown) Cancel() {
	c.remaining, c.active = 0, false
}

// Remaining is the number of units left, zero when idle.
func (c *Countdown) Remaining() int { return c.remaining }

// Active reports whether the countdown is running.
func (c *Countdown) Active() bool { return c.active }

// Pacer calls a tick function every interval on its own goroutine until
// Stop is called or tick returns false.
type Pacer struct {
	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once
}

// StartPacer launches the pacer. interval must be positive.
func StartPacer(interval time.Duration, tick func() (keepGoing bool)) *Pacer {
	p := &Pacer{
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go p.run(interval, tick)
	return p
}

func (p *Pacer) run(interval time.Duration, tick func() bool) {
	defer close(p.doneCh)

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-t.C:
			if !tick() {
				return
			}
		}
	}
}

// Stop halts the pacer and waits for its goroutine to exit. Safe to call
// more than once. Must not be called from inside the tick function.
func (p *Pacer) Stop() {
	p.once.Do(func() { close(p.stopCh) })
	<-p.doneCh
}

// Done is closed once the pacer has exited.
func (p *Pacer) Done() <-chan struct{} { return p.doneCh }
