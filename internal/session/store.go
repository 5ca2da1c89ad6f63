package session

import "sync"

// HighScoreStore persists the best score across sessions.
type HighScoreStore interface {
	LoadHighScore() (int, error)
	SaveHighScore(score int) error
}

// MemoryStore is an in-process HighScoreStore.
type MemoryStore struct {
	mu    sync.Mutex
	score int
	saves int
	err   error
}

// NewMemoryStore creates a store seeded with score.
func NewMemoryStore(score int) *MemoryStore {
	return &MemoryStore{score: score}
}

// LoadHighScore returns the stored score.
func (m *MemoryStore) LoadHighScore() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return m.score, nil
}

// SaveHighScore stores score if it beats the current value.
func (m *MemoryStore) SaveHighScore(score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saves++
	if score > m.score {
		m.score = score
	}
	return nil
}

// Saves returns how many successful saves were made.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Fail makes every later call return err; nil restores normal operation.
func (m *MemoryStore) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
