package session

import "sync"

// Feed delivers snapshots to one renderer. Sends never block: when the
// buffer is full the oldest snapshot is dropped, since only the latest
// state matters for drawing.
type Feed struct {
	snaps    chan Snapshot
	done     chan struct{}
	doneOnce sync.Once
	detach   func(*Feed)
}

func newFeed(buffer int, detach func(*Feed)) *Feed {
	if buffer < 1 {
		buffer = 16
	}
	return &Feed{
		snaps:  make(chan Snapshot, buffer),
		done:   make(chan struct{}),
		detach: detach,
	}
}

// send queues snap, dropping the oldest entry if the buffer is full.
func (f *Feed) send(snap Snapshot) {
	select {
	case <-f.done:
		return
	default:
	}

	select {
	case f.snaps <- snap:
	default:
		select {
		case <-f.snaps:
		default:
		}
		select {
		case f.snaps <- snap:
		default:
		}
	}
}

// C returns the channel snapshots arrive on.
func (f *Feed) C() <-chan Snapshot {
	return f.snaps
}

// Done closes when the feed is closed.
func (f *Feed) Done() <-chan struct{} {
	return f.done
}

// Close detaches the feed from its session. Safe to call multiple times.
func (f *Feed) Close() {
	f.doneOnce.Do(func() {
		close(f.done)
		if f.detach != nil {
			f.detach(f)
		}
	})
}

// Registry tracks live sessions by name, for servers hosting many players.
// Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Register adds a session under id. It returns the session it displaced,
// or nil; the caller owns closing it.
func (r *Registry) Register(id string, s *Session) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.sessions[id]
	r.sessions[id] = s
	return prev
}

// Remove takes the session registered under id out of the registry.
func (r *Registry) Remove(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return s, ok
}

// Get retrieves a session by id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes every registered session and empties the registry.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
