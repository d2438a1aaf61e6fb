// Package trigger provides the repeating resample timer: a cancellable
// periodic task with explicit start, stop, pause, resume and reset.
package trigger

import (
	"context"
	"sync"
	"time"
)

// TickerFunc creates the tick source for one run. stop releases it.
type TickerFunc func(d time.Duration) (ticks <-chan time.Time, stop func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Trigger calls fire every interval on its own goroutine. An interval of
// zero means manual mode: nothing fires.
type Trigger struct {
	fire      func()
	newTicker TickerFunc

	mu       sync.Mutex
	interval time.Duration
	running  bool
	paused   bool
	gen      int // bumped on every stop so stale ticks are dropped
	stopRun  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a stopped trigger
func New(ctx context.Context, fire func()) *Trigger {
	return NewWithTicker(ctx, fire, realTicker)
}

// NewWithTicker creates a trigger with a custom tick source
func NewWithTicker(ctx context.Context, fire func(), newTicker TickerFunc) *Trigger {
	tctx, cancel := context.WithCancel(ctx)
	return &Trigger{
		fire:      fire,
		newTicker: newTicker,
		ctx:       tctx,
		cancel:    cancel,
	}
}

// Start arms the trigger with interval, replacing any running timer
func (t *Trigger) Start(interval time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.interval = interval
	t.paused = false
	if interval > 0 {
		t.startLocked()
	}
}

// Stop disarms the trigger. The interval is remembered.
func (t *Trigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.paused = false
}

// Pause holds a running trigger until Resume. Pausing twice, or pausing
// a stopped trigger, is harmless.
func (t *Trigger) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.paused || !t.running {
		return
	}
	t.paused = true
	t.stopLocked()
}

// Resume re-arms a paused trigger with its last interval
func (t *Trigger) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.paused {
		return
	}
	t.paused = false
	if t.interval > 0 {
		t.startLocked()
	}
}

// Reset restarts the current period from now, e.g. after a manual
// resample so the next automatic one does not follow immediately
func (t *Trigger) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.stopLocked()
	t.startLocked()
}

// Running reports whether ticks are being delivered
func (t *Trigger) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Paused reports whether the trigger is held by Pause
func (t *Trigger) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

// Interval returns the last configured interval
func (t *Trigger) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}

// Close stops the trigger for good and waits for its goroutine
func (t *Trigger) Close() {
	t.cancel()
	t.mu.Lock()
	t.stopLocked()
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Trigger) startLocked() {
	if t.ctx.Err() != nil {
		return
	}
	stop := make(chan struct{})
	t.stopRun = stop
	t.running = true
	gen := t.gen

	ticks, release := t.newTicker(t.interval)
	t.wg.Add(1)
	go t.loop(gen, ticks, release, stop)
}

func (t *Trigger) stopLocked() {
	t.gen++
	if t.stopRun != nil {
		close(t.stopRun)
		t.stopRun = nil
	}
	t.running = false
}

func (t *Trigger) loop(gen int, ticks <-chan time.Time, release func(), stop chan struct{}) {
	defer t.wg.Done()
	defer release()

	for {
		select {
		case <-stop:
			return
		case <-t.ctx.Done():
			return
		case <-ticks:
			t.mu.Lock()
			current := t.gen == gen
			t.mu.Unlock()
			if !current {
				return
			}
			t.fire()
		}
	}
}
