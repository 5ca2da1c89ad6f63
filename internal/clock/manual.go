package clock

import (
	"sort"
	"sync"
	"time"
)

type timer struct {
	handle   Handle
	interval time.Duration
	due      time.Duration
	fn       func()
}

// Manual is a deterministic Clock. Time only moves when Advance or Step is
// called, and due callbacks run on the caller's goroutine in due order.
// Callbacks may Cancel or Schedule re-entrantly.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	next   Handle
	timers map[Handle]*timer
	fired  uint64
}

// NewManual creates a manual clock at time zero.
func NewManual() *Manual {
	return &Manual{timers: make(map[Handle]*timer)}
}

// Schedule registers fn to run every interval from now.
func (m *Manual) Schedule(interval time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if interval <= 0 {
		interval = time.Millisecond
	}
	m.next++
	m.timers[m.next] = &timer{
		handle:   m.next,
		interval: interval,
		due:      m.now + interval,
		fn:       fn,
	}
	return m.next
}

// Cancel removes the schedule.
func (m *Manual) Cancel(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.timers, h)
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Active returns the number of live schedules.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Interval returns the interval of the only live schedule, or zero when
// there is not exactly one.
func (m *Manual) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.timers) != 1 {
		return 0
	}
	for _, t := range m.timers {
		return t.interval
	}
	return 0
}

// Fired returns how many callbacks have run.
func (m *Manual) Fired() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fired
}

// Advance moves time forward by d, running every callback that falls due.
// It returns the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	n := 0
	for {
		t, ok := m.popDue(target)
		if !ok {
			break
		}
		t.fn()
		n++
	}

	m.mu.Lock()
	if target > m.now {
		m.now = target
	}
	m.mu.Unlock()
	return n
}

// Step jumps to the next due callback and runs it. It returns false when
// nothing is scheduled.
func (m *Manual) Step() bool {
	m.mu.Lock()
	earliest, ok := m.earliest()
	m.mu.Unlock()
	if !ok {
		return false
	}
	t, ok := m.popDue(earliest.due)
	if !ok {
		return false
	}
	t.fn()
	return true
}

// popDue finds the earliest timer due at or before target, moves the clock
// to its due time and re-arms it. The callback is returned so it can run
// without the lock held.
func (m *Manual) popDue(target time.Duration) (*timer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.earliest()
	if !ok || t.due > target {
		return nil, false
	}
	m.now = t.due
	fired := *t
	t.due += t.interval
	m.fired++
	return &fired, true
}

// earliest returns the next timer to fire, breaking ties by handle.
// Caller holds mu.
func (m *Manual) earliest() (*timer, bool) {
	if len(m.timers) == 0 {
		return nil, false
	}
	all := make([]*timer, 0, len(m.timers))
	for _, t := range m.timers {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].due != all[j].due {
			return all[i].due < all[j].due
		}
		return all[i].handle < all[j].handle
	})
	return all[0], true
}
