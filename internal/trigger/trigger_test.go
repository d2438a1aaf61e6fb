package trigger

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeTicker struct {
	mu        sync.Mutex
	channels  []chan time.Time
	intervals []time.Duration
	released  int
}

func (f *fakeTicker) new(d time.Duration) (<-chan time.Time, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan time.Time)
	f.channels = append(f.channels, ch)
	f.intervals = append(f.intervals, d)
	return ch, func() {
		f.mu.Lock()
		f.released++
		f.mu.Unlock()
	}
}

func (f *fakeTicker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.channels)
}

func (f *fakeTicker) last() chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channels[len(f.channels)-1]
}

func (f *fakeTicker) interval(i int) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.intervals[i]
}

func newTestTrigger(t *testing.T) (*Trigger, *fakeTicker, chan struct{}) {
	t.Helper()
	clock := &fakeTicker{}
	fired := make(chan struct{}, 16)
	tr := NewWithTicker(context.Background(), func() { fired <- struct{}{} }, clock.new)
	t.Cleanup(tr.Close)
	return tr, clock, fired
}

func tick(t *testing.T, ch chan time.Time) {
	t.Helper()
	select {
	case ch <- time.Now():
	case <-time.After(time.Second):
		t.Fatal("tick was not consumed")
	}
}

func waitFired(t *testing.T, fired chan struct{}) {
	t.Helper()
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("trigger did not fire")
	}
}

func TestStartFires(t *testing.T) {
	tr, clock, fired := newTestTrigger(t)

	tr.Start(3 * time.Second)
	if !tr.Running() {
		t.Fatal("Running() = false after Start")
	}
	if clock.interval(0) != 3*time.Second {
		t.Errorf("ticker interval = %v", clock.interval(0))
	}

	tick(t, clock.last())
	waitFired(t, fired)
	tick(t, clock.last())
	waitFired(t, fired)
}

func TestStartZeroIsManual(t *testing.T) {
	tr, clock, _ := newTestTrigger(t)

	tr.Start(0)
	if tr.Running() {
		t.Error("Running() = true for interval 0")
	}
	if clock.count() != 0 {
		t.Errorf("ticker created for manual mode")
	}
}

func TestStopPreventsFiring(t *testing.T) {
	tr, clock, fired := newTestTrigger(t)

	tr.Start(time.Second)
	ch := clock.last()
	tr.Stop()

	select {
	case ch <- time.Now():
	case <-time.After(50 * time.Millisecond):
	}
	select {
	case <-fired:
		t.Error("fired after Stop")
	case <-time.After(50 * time.Millisecond):
	}
	if tr.Running() {
		t.Error("Running() = true after Stop")
	}
	if tr.Interval() != time.Second {
		t.Errorf("Interval() = %v, want it remembered", tr.Interval())
	}
}

func TestPauseResume(t *testing.T) {
	tr, clock, fired := newTestTrigger(t)

	tr.Start(2 * time.Second)
	tr.Pause()
	tr.Pause()
	if tr.Running() || !tr.Paused() {
		t.Fatalf("after Pause: running %v paused %v", tr.Running(), tr.Paused())
	}

	tr.Resume()
	if !tr.Running() || tr.Paused() {
		t.Fatalf("after Resume: running %v paused %v", tr.Running(), tr.Paused())
	}
	if clock.count() != 2 || clock.interval(1) != 2*time.Second {
		t.Errorf("Resume did not re-arm with the same interval")
	}

	tr.Resume()
	if clock.count() != 2 {
		t.Error("second Resume created another ticker")
	}

	tick(t, clock.last())
	waitFired(t, fired)
}

func TestPauseInManualMode(t *testing.T) {
	tr, clock, _ := newTestTrigger(t)

	tr.Start(0)
	tr.Pause()
	tr.Resume()
	if tr.Running() || clock.count() != 0 {
		t.Error("manual mode started running after Resume")
	}
}

func TestPauseAfterStopDoesNotResume(t *testing.T) {
	tr, clock, _ := newTestTrigger(t)

	tr.Start(time.Hour)
	tr.Stop()
	tr.Pause()
	if tr.Paused() {
		t.Error("stopped trigger reports paused")
	}

	tr.Resume()
	if tr.Running() {
		t.Error("stopped trigger is running after Pause and Resume")
	}
	if clock.count() != 1 {
		t.Errorf("tickers = %d, want 1", clock.count())
	}
}

func TestResetReplacesTicker(t *testing.T) {
	tr, clock, fired := newTestTrigger(t)

	tr.Reset()
	if clock.count() != 0 {
		t.Fatal("Reset on a stopped trigger started it")
	}

	tr.Start(time.Second)
	tr.Reset()
	if clock.count() != 2 {
		t.Fatalf("ticker count = %d, want 2", clock.count())
	}
	tick(t, clock.last())
	waitFired(t, fired)
}

func TestStartReplacesRunningTimer(t *testing.T) {
	tr, clock, _ := newTestTrigger(t)

	tr.Start(time.Second)
	tr.Start(5 * time.Second)

	if clock.count() != 2 || clock.interval(1) != 5*time.Second {
		t.Errorf("restart did not use the new interval")
	}
	if tr.Interval() != 5*time.Second {
		t.Errorf("Interval() = %v", tr.Interval())
	}
}

func TestCloseReleasesTicker(t *testing.T) {
	clock := &fakeTicker{}
	tr := NewWithTicker(context.Background(), func() {}, clock.new)
	tr.Start(time.Second)
	tr.Close()

	clock.mu.Lock()
	released := clock.released
	clock.mu.Unlock()
	if released != 1 {
		t.Errorf("released = %d, want 1", released)
	}

	tr.Start(time.Second)
	if tr.Running() {
		t.Error("closed trigger started again")
	}
}

func TestRealTicker(t *testing.T) {
	var count atomic.Int32
	done := make(chan struct{})
	tr := New(context.Background(), func() {
		if count.Add(1) == 2 {
			close(done)
		}
	})
	defer tr.Close()

	tr.Start(10 * time.Millisecond)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("real ticker fired %d times", count.Load())
	}
	tr.Stop()
}
