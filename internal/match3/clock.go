package match3

import (
	"context"
	"sync"
	"time"
)

// InstantClock never suspends. It is the clock for tests, simulations and
// headless play.
type InstantClock struct{}

// Wait implements Clock.
func (InstantClock) Wait(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// RecordingClock is an InstantClock that remembers every requested delay.
type RecordingClock struct {
	mu    sync.Mutex
	waits []time.Duration
}

// Wait implements Clock.
func (c *RecordingClock) Wait(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.waits = append(c.waits, d)
	c.mu.Unlock()
	return ctx.Err()
}

// Waits returns a copy of the recorded delays.
func (c *RecordingClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

// Total returns the sum of the recorded delays.
func (c *RecordingClock) Total() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var sum time.Duration
	for _, d := range c.waits {
		sum += d
	}
	return sum
}

// RealClock sleeps on the wall clock.
type RealClock struct{}

// Wait implements Clock.
func (RealClock) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// StepClock drives the pipeline from a game loop. Go runs a function on its
// own goroutine; every Wait parks it until enough simulated time has been
// fed through Advance. Control is handed back and forth over unbuffered
// channels, so the pipeline and the caller never run at the same time and
// the caller may read the board freely between Advance calls.
//
// Wait must only be called from a function started with Go.
type StepClock struct {
	now      time.Duration
	at       time.Duration // simulated time as seen by the running function
	deadline time.Duration
	running  bool

	parked chan struct{}
	wake   chan struct{}
}

// NewStepClock returns an idle step clock.
func NewStepClock() *StepClock {
	return &StepClock{
		parked: make(chan struct{}),
		wake:   make(chan struct{}),
	}
}

// Go starts fn and returns once fn has finished or parked in its first Wait.
// It returns false without running fn if a previous function is still
// running.
func (c *StepClock) Go(fn func()) bool {
	if c.running {
		return false
	}
	c.running = true
	c.at = c.now
	go func() {
		defer func() {
			c.running = false
			c.parked <- struct{}{}
		}()
		fn()
	}()
	<-c.parked
	return true
}

// Wait implements Clock.
func (c *StepClock) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.deadline = c.at + d
	c.parked <- struct{}{}
	<-c.wake
	c.at = c.deadline
	return ctx.Err()
}

// Advance moves simulated time forward by dt and resumes the running
// function for every wait that has elapsed. Consecutive waits are measured
// from the previous deadline, so a large step releases several of them. It
// returns once the function parks on a future wait or finishes.
func (c *StepClock) Advance(dt time.Duration) {
	c.now += dt
	for c.running && c.now >= c.deadline {
		c.wake <- struct{}{}
		<-c.parked
	}
}

// Flush resumes the running function until it finishes, skipping every
// remaining wait.
func (c *StepClock) Flush() {
	for c.running {
		if c.deadline > c.now {
			c.now = c.deadline
		}
		c.wake <- struct{}{}
		<-c.parked
	}
}

// Busy reports whether a function started with Go is still running.
func (c *StepClock) Busy() bool {
	return c.running
}

// Now returns the simulated time.
func (c *StepClock) Now() time.Duration {
	return c.now
}
