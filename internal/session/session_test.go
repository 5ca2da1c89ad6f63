package session

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/clock"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

const ms = time.Millisecond

// scriptedRNG replays fixed values, then returns zeros.
type scriptedRNG struct {
	ints   []int
	floats []float64
}

func (r *scriptedRNG) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

// foodAt places the first food at p with the kind selected by roll.
func foodAt(p snake.Point, roll float64) *scriptedRNG {
	return &scriptedRNG{ints: []int{p.X, p.Y}, floats: []float64{roll}}
}

func newTestSession(t *testing.T, opts Options) (*Session, *clock.Manual) {
	t.Helper()
	m := clock.NewManual()
	opts.Clock = m
	if opts.Rules.Catalog == nil {
		opts.Rules = snake.DefaultRules()
	}
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(s.Close)
	return s, m
}

func tinyRules() snake.Rules {
	rules := snake.DefaultRules()
	rules.Grid = snake.Grid{Width: 2, Height: 1}
	rules.Origin = snake.Point{X: 0, Y: 0}
	return rules
}

func TestLifecycle(t *testing.T) {
	s, m := newTestSession(t, Options{Seed: 1})

	if s.State() != Idle || m.Active() != 0 {
		t.Fatalf("new session: state %v, active %d", s.State(), m.Active())
	}
	if s.Pause() || s.Resume() {
		t.Error("pause/resume should be rejected while idle")
	}

	if !s.Start() || s.State() != Running {
		t.Fatal("start from idle failed")
	}
	if m.Interval() != 200*ms {
		t.Errorf("scheduled at %v, want 200ms", m.Interval())
	}
	if s.Start() {
		t.Error("start while running should be a no-op")
	}

	if !s.Pause() || s.State() != Paused || m.Active() != 0 {
		t.Fatalf("pause: state %v, active %d", s.State(), m.Active())
	}
	tick := s.Snapshot().Tick
	m.Advance(time.Second)
	if s.Snapshot().Tick != tick {
		t.Error("ticked while paused")
	}

	if !s.TogglePause() || s.State() != Running || m.Active() != 1 {
		t.Fatalf("toggle to running: state %v, active %d", s.State(), m.Active())
	}
	if !s.TogglePause() || s.State() != Paused {
		t.Fatal("toggle to paused failed")
	}
	if !s.Start() || s.State() != Running {
		t.Error("start from paused should resume")
	}
}

func TestPostDirectionOnlyWhileRunning(t *testing.T) {
	s, m := newTestSession(t, Options{Seed: 1})

	if s.PostDirection(snake.DirRight) {
		t.Error("direction accepted while idle")
	}
	s.Start()
	if !s.PostDirection(snake.DirRight) {
		t.Fatal("direction rejected while running")
	}
	m.Advance(200 * ms)
	if got := s.Snapshot().Head(); got != (snake.Point{X: 11, Y: 10}) {
		t.Errorf("head = %v, want (11,10)", got)
	}

	s.Pause()
	if s.PostDirection(snake.DirUp) {
		t.Error("direction accepted while paused")
	}
}

func TestIntervalChangeReschedules(t *testing.T) {
	// Speed-up food directly right of the origin.
	s, m := newTestSession(t, Options{RNG: foodAt(snake.Point{X: 11, Y: 10}, 0.7)})

	if snap := s.Snapshot(); snap.Kind.Effect != snake.EffectSpeedUp {
		t.Fatalf("food kind = %v, want speed up", snap.Kind.ID)
	}
	s.Start()
	s.PostDirection(snake.DirRight)
	m.Advance(200 * ms)

	if m.Active() != 1 {
		t.Fatalf("expected exactly one schedule, got %d", m.Active())
	}
	if m.Interval() != 140*ms {
		t.Fatalf("rescheduled at %v, want 140ms", m.Interval())
	}

	m.Advance(140 * ms)
	if got := s.Snapshot().Tick; got != 2 {
		t.Errorf("tick = %d, want 2 after the faster interval", got)
	}
}

func TestGameOverStopsClock(t *testing.T) {
	store := NewMemoryStore(0)
	s, m := newTestSession(t, Options{Rules: tinyRules(), RNG: foodAt(snake.Point{X: 1, Y: 0}, 0.0), Store: store})

	s.Start()
	s.PostDirection(snake.DirRight)
	m.Advance(200 * ms)

	snap := s.Snapshot()
	if snap.State != GameOver || snap.Reason != snake.EndBoardFull {
		t.Fatalf("state %v reason %q, want game over on full board", snap.State, snap.Reason)
	}
	if m.Active() != 0 {
		t.Errorf("clock still active after game over")
	}
	fired := m.Fired()
	m.Advance(time.Second)
	if s.Snapshot().Tick != snap.Tick || m.Fired() != fired {
		t.Error("ticked after game over")
	}
	if s.Start() || s.TogglePause() || s.PostDirection(snake.DirLeft) {
		t.Error("game over should only leave through reset")
	}

	s.Close()
	if got, _ := store.LoadHighScore(); got != 10 {
		t.Errorf("stored high score = %d, want 10", got)
	}
	if store.Saves() != 1 {
		t.Errorf("saves = %d, want 1", store.Saves())
	}
}

func TestResetFromAnyState(t *testing.T) {
	setups := map[string]func(s *Session, m *clock.Manual){
		"running": func(s *Session, m *clock.Manual) {
			s.Start()
			s.PostDirection(snake.DirRight)
			m.Advance(200 * ms)
		},
		"paused": func(s *Session, m *clock.Manual) {
			s.Start()
			s.PostDirection(snake.DirDown)
			m.Advance(400 * ms)
			s.Pause()
		},
		"game over": func(s *Session, m *clock.Manual) {
			s.Start()
			s.PostDirection(snake.DirRight)
			m.Advance(200 * ms)
		},
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			rules := snake.DefaultRules()
			if name == "game over" {
				rules = tinyRules()
			}
			s, m := newTestSession(t, Options{Rules: rules, Seed: 5})
			setup(s, m)

			s.Reset()
			snap := s.Snapshot()
			if snap.State != Idle || m.Active() != 0 {
				t.Fatalf("state %v active %d after reset", snap.State, m.Active())
			}
			if snap.Length() != 1 || snap.Head() != rules.Origin {
				t.Errorf("body %v, want single segment at origin", snap.Body)
			}
			if snap.Score != 0 || snap.Direction != snake.DirNone || snap.GameOver {
				t.Errorf("unexpected state %+v", snap.Snapshot)
			}
			if snap.Interval != rules.InitialInterval || len(snap.Effects) != 0 {
				t.Errorf("interval %v effects %v", snap.Interval, snap.Effects)
			}
		})
	}
}

// recordingClock keeps every callback, even cancelled ones, so tests can
// fire stale ticks by hand.
type recordingClock struct {
	mu  sync.Mutex
	fns []func()
}

func (c *recordingClock) Schedule(_ time.Duration, fn func()) clock.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, fn)
	return clock.Handle(len(c.fns))
}

func (c *recordingClock) Cancel(clock.Handle) {}

func TestStaleTickIgnored(t *testing.T) {
	rc := &recordingClock{}
	s, err := New(Options{Rules: snake.DefaultRules(), Seed: 1, Clock: rc})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	s.Start()
	s.PostDirection(snake.DirRight)
	s.Pause()
	rc.fns[0]()
	if s.Snapshot().Tick != 0 {
		t.Fatal("tick ran while paused")
	}

	s.Resume()
	rc.fns[0]() // cancelled by the pause
	if s.Snapshot().Tick != 0 {
		t.Fatal("stale schedule produced a tick")
	}
	rc.fns[1]()
	if s.Snapshot().Tick != 1 {
		t.Error("current schedule did not tick")
	}
}

func TestHighScoreLoadedFromStore(t *testing.T) {
	s, _ := newTestSession(t, Options{Seed: 1, Store: NewMemoryStore(500)})
	if got := s.Snapshot().HighScore; got != 500 {
		t.Errorf("high score = %d, want 500", got)
	}
}

func TestPersistenceFailureIsNotFatal(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	store := NewMemoryStore(0)
	store.Fail(errors.New("disk full"))

	s, m := newTestSession(t, Options{Rules: tinyRules(), RNG: foodAt(snake.Point{X: 1, Y: 0}, 0.0), Store: store, Logger: logger})
	s.Start()
	s.PostDirection(snake.DirRight)
	m.Advance(200 * ms)

	snap := s.Snapshot()
	if snap.Score != 10 || snap.HighScore != 10 {
		t.Errorf("score %d high %d, want 10/10", snap.Score, snap.HighScore)
	}
	s.Close()

	if store.Saves() != 0 {
		t.Errorf("saves = %d, want none while the store fails", store.Saves())
	}
	out := buf.String()
	if !strings.Contains(out, "could not load high score") || !strings.Contains(out, "could not save high score") {
		t.Errorf("expected load and save warnings, got:\n%s", out)
	}
}

func TestSubscribe(t *testing.T) {
	s, m := newTestSession(t, Options{Seed: 1})
	feed := s.Subscribe(8)

	first := <-feed.C()
	if first.State != Idle {
		t.Fatalf("initial snapshot state %v", first.State)
	}

	s.Start()
	if snap := <-feed.C(); snap.State != Running {
		t.Errorf("state %v after start", snap.State)
	}
	s.PostDirection(snake.DirUp)
	m.Advance(200 * ms)
	if snap := <-feed.C(); snap.Tick != 1 || snap.Head() != (snake.Point{X: 10, Y: 9}) {
		t.Errorf("tick snapshot %+v", snap.Snapshot)
	}

	feed.Close()
	s.Pause()
	select {
	case snap := <-feed.C():
		t.Errorf("closed feed received %v", snap.State)
	default:
	}
}

func TestFeedDropsOldest(t *testing.T) {
	s, _ := newTestSession(t, Options{Seed: 1})
	feed := s.Subscribe(1)

	s.Start()
	s.Pause()
	s.Resume()

	snap := <-feed.C()
	if snap.State != Running {
		t.Errorf("kept %v, want the latest (running)", snap.State)
	}
	select {
	case extra := <-feed.C():
		t.Errorf("unexpected extra snapshot %v", extra.State)
	default:
	}
}

func TestSessionDeterminism(t *testing.T) {
	run := func() []Snapshot {
		s, m := newTestSession(t, Options{Seed: 77})
		s.Start()
		var out []Snapshot
		for i := range 150 {
			if d := snake.Steer(s.Snapshot().Snapshot); d != snake.DirNone && i%5 == 0 {
				s.PostDirection(d)
			}
			m.Step()
			out = append(out, s.Snapshot())
		}
		return out
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed and inputs produced different sessions")
	}
}

func TestConcurrentIntents(t *testing.T) {
	rules := snake.DefaultRules()
	rules.InitialInterval = 2 * ms
	rules.RampFloor = ms
	tk := clock.NewTicker()
	defer tk.Stop()

	s, err := New(Options{Rules: rules, Seed: 3, Clock: tk})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	s.Start()

	var wg sync.WaitGroup
	dirs := []snake.Direction{snake.DirUp, snake.DirRight, snake.DirDown, snake.DirLeft}
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				s.PostDirection(dirs[(i+j)%len(dirs)])
				if j%10 == 0 {
					s.TogglePause()
				}
				time.Sleep(ms / 2)
			}
		}()
	}
	wg.Wait()
	s.Close()

	if st := s.State(); st == Idle {
		t.Errorf("unexpected state %v", st)
	}
}
