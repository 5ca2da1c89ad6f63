package session

import (
	"sync"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/clock"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	s, err := New(Options{Rules: snake.DefaultRules(), Seed: 1, Clock: clock.NewManual()})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if prev := r.Register("alice", s); prev != nil {
		t.Fatal("first registration should not displace anything")
	}
	if r.Count() != 1 {
		t.Fatalf("count = %d, want 1", r.Count())
	}
	if got, ok := r.Get("alice"); !ok || got != s {
		t.Error("Get() did not return the registered session")
	}

	if got, ok := r.Remove("alice"); !ok || got != s {
		t.Error("Remove() did not return the registered session")
	}
	if _, ok := r.Get("alice"); ok {
		t.Error("session still registered")
	}
	if _, ok := r.Remove("alice"); ok {
		t.Error("second Remove() should find nothing")
	}

	r.Register("bob", s)
	feed := s.Subscribe(1)
	r.CloseAll()
	if r.Count() != 0 {
		t.Errorf("count = %d after CloseAll", r.Count())
	}
	select {
	case <-feed.Done():
	default:
		t.Error("closing the session should close its feeds")
	}
}

func TestRegistryReplaceAndRemoveConcurrently(t *testing.T) {
	r := NewRegistry()
	const workers = 8

	var mu sync.Mutex
	var feeds []*Feed

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				s, err := New(Options{Rules: snake.DefaultRules(), Seed: 1, Clock: clock.NewManual()})
				if err != nil {
					t.Errorf("New() failed: %v", err)
					return
				}
				mu.Lock()
				feeds = append(feeds, s.Subscribe(1))
				mu.Unlock()

				if prev := r.Register("carol", s); prev != nil {
					prev.Close()
				}
				if old, ok := r.Remove("carol"); ok {
					old.Close()
				}
			}
		}()
	}
	wg.Wait()
	r.CloseAll()

	if r.Count() != 0 {
		t.Errorf("count = %d, want 0", r.Count())
	}
	for i, f := range feeds {
		select {
		case <-f.Done():
		default:
			t.Fatalf("session %d was dropped from the registry without being closed", i)
		}
	}
}
