// Package session drives a snake game through its lifecycle: it owns the
// game, schedules ticks on a clock, accepts player intents from any
// goroutine and fans snapshots out to renderers.
package session

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/clock"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// State is the lifecycle phase of a session.
type State int

const (
	Idle State = iota
	Running
	Paused
	GameOver
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Snapshot is the game state plus the session phase.
type Snapshot struct {
	snake.Snapshot
	State State
}

// Options configures a session.
type Options struct {
	Rules snake.Rules
	Seed  int64
	// RNG overrides Seed when set.
	RNG   snake.RNG
	Clock clock.Clock
	// Store is optional; without it the high score lives only in memory.
	Store  HighScoreStore
	Logger *log.Logger
}

// Session is safe for concurrent use. Ticks and intents are serialized by a
// single mutex, so a tick never overlaps another tick or an input.
type Session struct {
	mu     sync.Mutex
	game   *snake.Game
	state  State
	clk    clock.Clock
	logger *log.Logger

	handle    clock.Handle
	scheduled bool
	// gen invalidates callbacks from schedules that have since been
	// cancelled; a stale callback is a no-op.
	gen uint64

	feeds []*Feed

	store     HighScoreStore
	saves     chan int
	quit      chan struct{}
	persisted chan struct{}
	closed    bool
}

// New creates an idle session. The high score is loaded from the store; a
// load failure is logged and treated as zero.
func New(opts Options) (*Session, error) {
	if opts.Clock == nil {
		return nil, fmt.Errorf("session: clock is required")
	}
	rng := opts.RNG
	if rng == nil {
		rng = snake.NewRNG(opts.Seed)
	}
	game, err := snake.New(opts.Rules, rng)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Session{
		game:   game,
		state:  Idle,
		clk:    opts.Clock,
		logger: logger,
		store:  opts.Store,
	}

	if s.store != nil {
		high, err := s.store.LoadHighScore()
		if err != nil {
			logger.Warn("could not load high score", "error", err)
		} else {
			game.SetHighScore(high)
		}
		s.saves = make(chan int, 1)
		s.quit = make(chan struct{})
		s.persisted = make(chan struct{})
		go s.persist()
	}

	return s, nil
}

// State returns the current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Start begins play from Idle or resumes from Paused.
func (s *Session) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Idle:
		s.state = Running
		s.startClock()
		s.logger.Debug("session started", "interval", s.game.Interval())
		s.publish()
		return true
	case Paused:
		return s.resumeLocked()
	default:
		return false
	}
}

// Pause suspends a running session.
func (s *Session) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pauseLocked()
}

// Resume continues a paused session at the current interval.
func (s *Session) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resumeLocked()
}

// TogglePause flips between Running and Paused.
func (s *Session) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Running:
		return s.pauseLocked()
	case Paused:
		return s.resumeLocked()
	default:
		return false
	}
}

// Reset stops the clock and returns to a fresh Idle game from any state.
// The high score is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopClock()
	s.game.Reset()
	s.state = Idle
	s.logger.Debug("session reset")
	s.publish()
}

// PostDirection queues a direction for the next tick. It is accepted only
// while Running and never reverses the committed direction.
func (s *Session) PostDirection(d snake.Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Running {
		return false
	}
	return s.game.QueueDirection(d)
}

// Subscribe returns a feed that receives a snapshot after every transition
// and tick. The current state is delivered immediately.
func (s *Session) Subscribe(buffer int) *Feed {
	f := newFeed(buffer, s.unsubscribe)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeds = append(s.feeds, f)
	f.send(s.snapshotLocked())
	return f
}

// Close stops the clock, flushes pending high-score writes and detaches
// every feed. Safe to call multiple times.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopClock()
	feeds := s.feeds
	s.feeds = nil
	s.mu.Unlock()

	if s.store != nil {
		close(s.quit)
		<-s.persisted
	}
	for _, f := range feeds {
		f.Close()
	}
}

func (s *Session) pauseLocked() bool {
	if s.state != Running {
		return false
	}
	s.stopClock()
	s.state = Paused
	s.logger.Debug("session paused", "score", s.game.Score())
	s.publish()
	return true
}

func (s *Session) resumeLocked() bool {
	if s.state != Paused {
		return false
	}
	s.state = Running
	s.startClock()
	s.logger.Debug("session resumed", "interval", s.game.Interval())
	s.publish()
	return true
}

// onTick runs one simulation step for the schedule identified by gen.
func (s *Session) onTick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != Running {
		return
	}

	res := s.game.Tick()
	if res.NewHighScore {
		s.queueSave(s.game.HighScore())
	}

	switch {
	case res.GameOver:
		s.stopClock()
		s.state = GameOver
		s.logger.Info("game over", "score", s.game.Score(), "reason", string(res.Reason))
	case res.IntervalChanged:
		// Never layer schedules: cancel, then schedule at the new interval.
		s.stopClock()
		s.startClock()
		s.logger.Debug("interval changed", "interval", res.Interval)
	}
	s.publish()
}

// startClock schedules ticks at the current interval. Caller holds mu.
func (s *Session) startClock() {
	if s.closed {
		return
	}
	s.gen++
	gen := s.gen
	s.handle = s.clk.Schedule(s.game.Interval(), func() { s.onTick(gen) })
	s.scheduled = true
}

// stopClock cancels the schedule if any. Caller holds mu.
func (s *Session) stopClock() {
	s.gen++
	if s.scheduled {
		s.clk.Cancel(s.handle)
		s.scheduled = false
	}
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{Snapshot: s.game.Snapshot(), State: s.state}
}

// publish sends the current state to every feed. Caller holds mu.
func (s *Session) publish() {
	if len(s.feeds) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, f := range s.feeds {
		f.send(snap)
	}
}

func (s *Session) unsubscribe(f *Feed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.feeds {
		if existing == f {
			s.feeds = append(s.feeds[:i], s.feeds[i+1:]...)
			return
		}
	}
}

// queueSave hands score to the persister without blocking. Only the highest
// pending score is kept. Caller holds mu.
func (s *Session) queueSave(score int) {
	if s.store == nil || s.closed {
		return
	}
	for {
		select {
		case s.saves <- score:
			return
		default:
		}
		select {
		case old := <-s.saves:
			score = max(score, old)
		default:
		}
	}
}

// persist writes high scores off the tick path until Close.
func (s *Session) persist() {
	defer close(s.persisted)
	for {
		select {
		case score := <-s.saves:
			s.save(score)
		case <-s.quit:
			select {
			case score := <-s.saves:
				s.save(score)
			default:
			}
			return
		}
	}
}

func (s *Session) save(score int) {
	if err := s.store.SaveHighScore(score); err != nil {
		s.logger.Warn("could not save high score", "score", score, "error", err)
	}
}
