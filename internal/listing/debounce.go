// Package listing holds client-side list state: a debounced search box and
// the paged list it drives.
package listing

import (
	"sync"
	"time"
)

// DefaultDelay is how long typing must pause before a search commits.
const DefaultDelay = 300 * time.Millisecond

// Timer is the part of *time.Timer the debouncer uses.
type Timer interface {
	Stop() bool
}

// Clock schedules f after d. RealClock uses time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Debouncer runs only the last of a burst of calls, once the burst has been
// quiet for the delay.
type Debouncer struct {
	delay time.Duration
	clock Clock

	mu    sync.Mutex
	timer Timer
	seq   uint64
}

func NewDebouncer(delay time.Duration, clock Clock) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if clock == nil {
		clock = RealClock
	}
	return &Debouncer{delay: delay, clock: clock}
}

// Trigger cancels any pending call and schedules f.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A timer that fired while being replaced must not run.
		stale := seq != d.seq
		if !stale {
			d.timer = nil
		}
		d.mu.Unlock()
		if !stale {
			f()
		}
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}

// SearchBox keeps the live input and the committed search term apart.
// Every Type reschedules the commit; onCommit sees only settled values.
type SearchBox struct {
	debouncer *Debouncer
	onCommit  func(string)

	// commitMu keeps onCommit calls in the order their values were taken.
	commitMu  sync.Mutex
	mu        sync.Mutex
	input     string
	committed string
}

func NewSearchBox(d *Debouncer, onCommit func(string)) *SearchBox {
	return &SearchBox{debouncer: d, onCommit: onCommit}
}

// Type records a keystroke's resulting input.
func (s *SearchBox) Type(input string) {
	s.mu.Lock()
	s.input = input
	s.mu.Unlock()
	s.debouncer.Trigger(func() { s.settle(input) })
}

// Submit commits the current input immediately.
func (s *SearchBox) Submit() {
	s.debouncer.Cancel()
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	s.mu.Lock()
	s.commitLocked(s.input)
}

// settle commits typed if it is still the input. A timer that fires late
// finds newer input or an already committed value and does nothing.
func (s *SearchBox) settle(typed string) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	s.mu.Lock()
	if typed != s.input {
		s.mu.Unlock()
		return
	}
	s.commitLocked(typed)
}

// commitLocked must be called with both locks held; it releases s.mu.
func (s *SearchBox) commitLocked(v string) {
	changed := v != s.committed
	s.committed = v
	s.mu.Unlock()
	if changed && s.onCommit != nil {
		s.onCommit(v)
	}
}

func (s *SearchBox) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

func (s *SearchBox) Committed() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

// Close cancels a pending commit.
func (s *SearchBox) Close() {
	s.debouncer.Cancel()
}
