// Package drill holds the application state of a drill session: which
// lists are selected with which ranges, the current sample, its history
// and the resample timer. Front ends mutate state only through the
// Controller.
package drill

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/wordloop/internal/sampler"
	"codeberg.org/snonux/wordloop/internal/settings"
	"codeberg.org/snonux/wordloop/internal/trigger"
	"codeberg.org/snonux/wordloop/internal/wordstore"
)

// ErrNoWords is returned by Resample when no selected list has words in
// its range
var ErrNoWords = errors.New("no words in the selected ranges")

// Recorder receives every sample that is shown
type Recorder interface {
	Record(ctx context.Context, s sampler.Sample) error
}

// Option configures a Controller
type Option func(*Controller)

// WithRand injects the random source
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) { c.rng = rng }
}

// WithRecorder logs shown samples, e.g. into the stats database
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithTicker replaces the real ticker of the resample timer
func WithTicker(fn trigger.TickerFunc) Option {
	return func(c *Controller) { c.ticker = fn }
}

// Controller serializes all user actions and timer callbacks with one
// mutex
type Controller struct {
	ctx      context.Context
	store    *wordstore.Store
	settings *settings.Settings
	rng      *rand.Rand
	recorder Recorder
	ticker   trigger.TickerFunc
	trigger  *trigger.Trigger

	mu      sync.Mutex
	order   []string
	ranges  map[string]sampler.Range
	words   map[string][]string
	current sampler.Sample
	seq     uint64 // bumped whenever current changes
	history *sampler.History

	lmu       sync.Mutex
	listeners []func(sampler.Sample)

	// emu orders deliveries; emitted is the seq listeners saw last
	emu     sync.Mutex
	emitted uint64

	unsubscribe func()
}

// New creates a controller restoring selection and ranges from s. Lists
// that no longer exist are dropped from the selection.
func New(ctx context.Context, store *wordstore.Store, s *settings.Settings, opts ...Option) *Controller {
	c := &Controller{
		ctx:      ctx,
		store:    store,
		settings: s,
		ranges:   make(map[string]sampler.Range),
		words:    make(map[string][]string),
		history:  sampler.NewHistory(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = sampler.NewRand()
	}

	if c.ticker != nil {
		c.trigger = trigger.NewWithTicker(ctx, c.onTick, c.ticker)
	} else {
		c.trigger = trigger.New(ctx, c.onTick)
	}

	for name, r := range s.Ranges {
		c.ranges[name] = r.Clamp()
	}
	for _, name := range s.Selected {
		if err := c.selectLocked(name); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping list %q: %v\n", name, err)
		}
	}

	c.unsubscribe = store.Subscribe(c.onStoreEvent)
	return c
}

// Close stops the timer and detaches from the store
func (c *Controller) Close() {
	c.trigger.Close()
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// Settings returns the settings the controller works with
func (c *Controller) Settings() *settings.Settings {
	return c.settings
}

// Store returns the word store
func (c *Controller) Store() *wordstore.Store {
	return c.store
}

// OnChange registers fn to be called with every newly shown sample. fn
// runs outside the controller lock and must not block. A sample that was
// replaced before its delivery is skipped, so the last sample a listener
// gets is always the current one.
func (c *Controller) OnChange(fn func(sampler.Sample)) {
	c.lmu.Lock()
	c.listeners = append(c.listeners, fn)
	c.lmu.Unlock()
}

// setCurrentLocked replaces the shown sample and returns its sequence
// number for emit
func (c *Controller) setCurrentLocked(s sampler.Sample) uint64 {
	c.current = append(sampler.Sample(nil), s...)
	c.seq++
	return c.seq
}

func (c *Controller) emit(seq uint64, s sampler.Sample) {
	c.emu.Lock()
	defer c.emu.Unlock()
	if seq <= c.emitted {
		return
	}
	c.emitted = seq

	c.lmu.Lock()
	listeners := append([]func(sampler.Sample){}, c.listeners...)
	c.lmu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

// Select adds a list to the selection. A list without a stored range
// gets the full range.
func (c *Controller) Select(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectLocked(name)
}

func (c *Controller) selectLocked(name string) error {
	words, err := c.store.Load(name)
	if err != nil {
		return err
	}
	c.words[name] = words
	if _, ok := c.ranges[name]; !ok {
		c.ranges[name] = sampler.FullRange
	}
	if !c.isSelected(name) {
		c.order = append(c.order, name)
	}
	return nil
}

// Deselect removes a list from the selection, its range is kept
func (c *Controller) Deselect(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deselectLocked(name)
}

func (c *Controller) deselectLocked(name string) {
	kept := c.order[:0]
	for _, n := range c.order {
		if n != name {
			kept = append(kept, n)
		}
	}
	c.order = kept
	delete(c.words, name)
}

// Toggle flips the selection of a list and reports whether it is now
// selected
func (c *Controller) Toggle(name string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isSelected(name) {
		c.deselectLocked(name)
		return false, nil
	}
	if err := c.selectLocked(name); err != nil {
		return false, err
	}
	return true, nil
}

// IsSelected reports whether a list is part of the selection
func (c *Controller) IsSelected(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isSelected(name)
}

func (c *Controller) isSelected(name string) bool {
	for _, n := range c.order {
		if n == name {
			return true
		}
	}
	return false
}

// Selected returns the selected lists in selection order
func (c *Controller) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.order...)
}

// Range returns the range of a list, the full range when none is stored
func (c *Controller) Range(name string) sampler.Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.ranges[name]; ok {
		return r
	}
	return sampler.FullRange
}

// SetLower moves the lower bound, pushing the upper bound along if needed
func (c *Controller) SetLower(name string, v float64) sampler.Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.rangeLocked(name).WithLower(v)
	c.ranges[name] = r
	return r
}

// SetUpper moves the upper bound, pulling the lower bound along if needed
func (c *Controller) SetUpper(name string, v float64) sampler.Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.rangeLocked(name).WithUpper(v)
	c.ranges[name] = r
	return r
}

func (c *Controller) rangeLocked(name string) sampler.Range {
	if r, ok := c.ranges[name]; ok {
		return r
	}
	return sampler.FullRange
}

// PoolSize returns how many words the current selection can draw from
func (c *Controller) PoolSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(sampler.ComputePool(c.activeLocked(), c.order, c.words))
}

func (c *Controller) activeLocked() map[string]sampler.Range {
	active := make(map[string]sampler.Range, len(c.order))
	for _, name := range c.order {
		active[name] = c.rangeLocked(name)
	}
	return active
}

// Resample draws a new sample from the selected lists, makes it current
// and records it in the history
func (c *Controller) Resample() (sampler.Sample, error) {
	c.mu.Lock()
	active := c.activeLocked()
	count := c.settings.Count
	if count < 1 {
		count = 1
	}

	var s sampler.Sample
	if c.settings.Fair {
		s = sampler.SampleFair(c.rng, active, c.order, c.words, count)
	} else {
		s = sampler.SampleUniform(c.rng, sampler.ComputePool(active, c.order, c.words), count)
	}
	if len(s) == 0 {
		c.mu.Unlock()
		return s, ErrNoWords
	}
	seq := c.setCurrentLocked(s)
	c.history.Push(s)
	c.mu.Unlock()

	if c.recorder != nil {
		if err := c.recorder.Record(c.ctx, s); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record sample: %v\n", err)
		}
	}
	c.emit(seq, s)
	return s, nil
}

// Next is a user initiated resample. The timer period restarts so the
// next automatic draw does not follow right away.
func (c *Controller) Next() (sampler.Sample, error) {
	s, err := c.Resample()
	c.trigger.Reset()
	return s, err
}

// Current returns the sample on display
func (c *Controller) Current() sampler.Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(sampler.Sample(nil), c.current...)
}

// Back shows the previous sample of the history
func (c *Controller) Back() (sampler.Sample, bool) {
	return c.navigate((*sampler.History).Back)
}

// Forward shows the next sample of the history
func (c *Controller) Forward() (sampler.Sample, bool) {
	return c.navigate((*sampler.History).Forward)
}

func (c *Controller) navigate(step func(*sampler.History) (sampler.Sample, bool)) (sampler.Sample, bool) {
	c.mu.Lock()
	s, moved := step(c.history)
	var seq uint64
	if moved {
		seq = c.setCurrentLocked(s)
	}
	c.mu.Unlock()

	if moved {
		c.emit(seq, s)
	}
	return s, moved
}

// CanBack reports whether Back would move
func (c *Controller) CanBack() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanBack()
}

// CanForward reports whether Forward would move
func (c *Controller) CanForward() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanForward()
}

// StartTimer arms the resample timer with the configured interval. An
// interval of zero leaves the controller in manual mode.
func (c *Controller) StartTimer() {
	c.trigger.Start(c.Interval())
}

// StopTimer disarms the resample timer
func (c *Controller) StopTimer() {
	c.trigger.Stop()
}

// Pause holds the timer, e.g. while a word is being copied
func (c *Controller) Pause() {
	c.trigger.Pause()
}

// Resume re-arms a paused timer
func (c *Controller) Resume() {
	c.trigger.Resume()
}

// TimerRunning reports whether automatic resampling is active
func (c *Controller) TimerRunning() bool {
	return c.trigger.Running()
}

// Interval returns the configured resample interval
func (c *Controller) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.Interval
}

// SetInterval changes the resample interval and re-arms the timer with
// it. Zero switches to manual mode.
func (c *Controller) SetInterval(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.mu.Lock()
	c.settings.Interval = d
	c.mu.Unlock()

	c.trigger.Start(d)
}

// SetCount changes how many words are shown at once
func (c *Controller) SetCount(n int) {
	if n < 1 {
		n = 1
	}
	if n > settings.MaxCount {
		n = settings.MaxCount
	}
	c.mu.Lock()
	c.settings.Count = n
	c.mu.Unlock()
}

// SetFair switches between uniform and fair sampling
func (c *Controller) SetFair(fair bool) {
	c.mu.Lock()
	c.settings.Fair = fair
	c.mu.Unlock()
}

// Reload refreshes the cached words of a selected list after an edit
func (c *Controller) Reload(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isSelected(name) {
		return nil
	}
	words, err := c.store.Load(name)
	if err != nil {
		return err
	}
	c.words[name] = words
	return nil
}

// ImportFile imports a list file and selects it with the full range
func (c *Controller) ImportFile(path string) (string, error) {
	name, err := c.store.Import(path)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ranges[name] = sampler.FullRange
	if err := c.selectLocked(name); err != nil {
		return name, err
	}
	return name, nil
}

// DeleteList deletes a list from the store. The store event removes it
// from the selection, the ranges, the current sample and the history.
func (c *Controller) DeleteList(name string) error {
	return c.store.DeleteList(name)
}

// RenameList renames a list in the store, selection and history follow
func (c *Controller) RenameList(oldName, newName string) error {
	return c.store.Rename(oldName, newName)
}

func (c *Controller) onStoreEvent(ev wordstore.Event) {
	switch ev.Kind {
	case wordstore.EventDeleted:
		c.mu.Lock()
		c.forgetLocked(ev.Name)
		current := append(sampler.Sample(nil), c.current...)
		seq := c.setCurrentLocked(current)
		c.mu.Unlock()
		c.emit(seq, current)

	case wordstore.EventRenamed:
		c.mu.Lock()
		c.renameLocked(ev.Name, ev.NewName)
		c.mu.Unlock()

	case wordstore.EventImported:
		if err := c.Reload(ev.Name); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload %q: %v\n", ev.Name, err)
		}
	}
}

func (c *Controller) forgetLocked(name string) {
	c.deselectLocked(name)
	delete(c.ranges, name)
	c.current = sampler.RemoveList(c.current, name)
	c.history.RemoveList(name)
	c.settings.Forget(name)
}

func (c *Controller) renameLocked(oldName, newName string) {
	for i, n := range c.order {
		if n == oldName {
			c.order[i] = newName
		}
	}
	if words, ok := c.words[oldName]; ok {
		c.words[newName] = words
		delete(c.words, oldName)
	}
	if r, ok := c.ranges[oldName]; ok {
		c.ranges[newName] = r
		delete(c.ranges, oldName)
	}
	for i := range c.current {
		if c.current[i].List == oldName {
			c.current[i].List = newName
		}
	}
	c.history.RenameList(oldName, newName)
}

func (c *Controller) onTick() {
	if _, err := c.Resample(); err != nil && !errors.Is(err, ErrNoWords) {
		fmt.Fprintf(os.Stderr, "Warning: resample failed: %v\n", err)
	}
}

// Sync copies selection and ranges into the settings
func (c *Controller) Sync() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settings.Selected = append([]string{}, c.order...)
	ranges := make(map[string]sampler.Range, len(c.ranges))
	for name, r := range c.ranges {
		ranges[name] = r
	}
	c.settings.Ranges = ranges
}

// Persist syncs the settings and writes them to the config file of v
func (c *Controller) Persist(v *viper.Viper) error {
	c.Sync()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.Save(v)
}
