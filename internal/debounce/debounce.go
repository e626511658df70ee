// Package debounce coalesces bursts of calls into a single delayed call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs at most one scheduled function per quiet period. Each
// Schedule cancels the pending call, so the last call wins.
type Debouncer struct {
	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	closed bool
}

// New returns an idle Debouncer.
func New() *Debouncer {
	return &Debouncer{}
}

// Schedule runs fn after delay unless another Schedule, Cancel or Stop
// happens first. It reports false once the debouncer is stopped.
func (d *Debouncer) Schedule(delay time.Duration, fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	d.cancelLocked()
	gen := d.gen
	d.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		if d.closed || d.gen != gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
	return true
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Stop cancels the pending call and rejects future ones.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.closed = true
}

func (d *Debouncer) cancelLocked() {
	// Bumping the generation also disarms a timer that already fired
	// but has not taken the lock yet.
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
