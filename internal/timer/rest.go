// Package timer implements the between-sets rest countdown.
package timer

import (
	"fmt"
	"sync"
	"time"
)

// DefaultRest is the rest period started after a completed set.
const DefaultRest = 120 * time.Second

// Rest is a countdown that ticks once per interval. Starting a new countdown
// stops any running one first, so at most one is active.
type Rest struct {
	mu        sync.Mutex
	interval  time.Duration
	remaining int
	ticker    *time.Ticker
	stop      chan struct{}

	onTick func(remaining int)
	onDone func()
}

// NewRest creates a Rest timer. onTick receives the seconds left after every
// tick; onDone runs once when the countdown reaches zero. Either may be nil.
func NewRest(onTick func(remaining int), onDone func()) *Rest {
	return &Rest{interval: time.Second, onTick: onTick, onDone: onDone}
}

// WithInterval overrides the tick interval (one second by default).
func (r *Rest) WithInterval(d time.Duration) *Rest {
	r.mu.Lock()
	r.interval = d
	r.mu.Unlock()
	return r
}

// Start begins a countdown of seconds, replacing any active one.
func (r *Rest) Start(seconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()

	r.remaining = max(seconds, 0)
	r.ticker = time.NewTicker(r.interval)
	r.stop = make(chan struct{})
	go r.run(r.ticker, r.stop)
}

func (r *Rest) run(t *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-t.C:
		}

		r.mu.Lock()
		if r.stop != stop {
			r.mu.Unlock()
			return
		}
		r.remaining--
		left := max(r.remaining, 0)
		done := r.remaining <= 0
		if done {
			r.stopLocked()
		}
		r.mu.Unlock()

		if r.onTick != nil {
			r.onTick(left)
		}
		if done {
			if r.onDone != nil {
				r.onDone()
			}
			return
		}
	}
}

// Adjust adds delta seconds to the active countdown, clamping at zero.
func (r *Rest) Adjust(delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = max(r.remaining+delta, 0)
}

// Stop cancels the active countdown without firing onDone.
func (r *Rest) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Rest) stopLocked() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
}

// Active reports whether a countdown is running.
func (r *Rest) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticker != nil
}

// Remaining returns the seconds left.
func (r *Rest) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Format renders seconds as m:ss.
func Format(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
