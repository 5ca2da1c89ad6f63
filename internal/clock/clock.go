// Package clock schedules the periodic game tick.
// Ticker runs on wall-clock time; Manual is advanced explicitly by tests and
// headless simulations.
package clock

import (
	"sync"
	"time"
)

// Handle identifies one schedule.
type Handle uint64

// Clock invokes callbacks at a fixed interval until cancelled.
// Schedule with a different interval means Cancel followed by Schedule;
// callers never stack schedules.
type Clock interface {
	Schedule(interval time.Duration, fn func()) Handle
	Cancel(h Handle)
}

// Ticker is a real-time Clock backed by time.Ticker, one goroutine per
// schedule.
type Ticker struct {
	mu     sync.Mutex
	next   Handle
	active map[Handle]chan struct{}
}

// NewTicker creates a real-time clock.
func NewTicker() *Ticker {
	return &Ticker{active: make(map[Handle]chan struct{})}
}

// Schedule starts calling fn every interval.
func (t *Ticker) Schedule(interval time.Duration, fn func()) Handle {
	t.mu.Lock()
	t.next++
	h := t.next
	stop := make(chan struct{})
	t.active[h] = stop
	t.mu.Unlock()

	go func() {
		tk := time.NewTicker(interval)
		defer tk.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tk.C:
				// A tick racing with Cancel must not fire.
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}()
	return h
}

// Cancel stops the schedule. Unknown or already cancelled handles are ignored.
func (t *Ticker) Cancel(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if stop, ok := t.active[h]; ok {
		close(stop)
		delete(t.active, h)
	}
}

// Stop cancels every schedule.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for h, stop := range t.active {
		close(stop)
		delete(t.active, h)
	}
}
