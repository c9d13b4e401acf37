// internal/store/memory.go
//
// In-memory registry of live game sessions, one per player.
//
// Characteristics:
//   - Sessions are keyed by player id (user id, or anonymous cookie id).
//   - Each Session owns a *game.Machine and the Feed it displays to.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; the last score is not, it
//     lives in the score store.
//   - Sweep stops and drops sessions that have been idle too long.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/twistle/internal/game"
)

// ErrNotFound is returned by Get for unknown players.
var ErrNotFound = errors.New("store: session not found")

// Session is one player's live game.
type Session struct {
	PlayerID string
	Machine  *game.Machine
	Feed     *Feed

	mu       sync.Mutex
	lastSeen time.Time
}

// NewSession pairs a machine with the feed it displays to.
func NewSession(playerID string, m *game.Machine, f *Feed) *Session {
	return &Session{PlayerID: playerID, Machine: m, Feed: f}
}

// Touch marks the session as active.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen is the time of the most recent Touch.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store defines the registry interface for live sessions.
type Store interface {
	// Save adds or replaces the player's session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a player's session, or ErrNotFound.
	Get(ctx context.Context, playerID string) (*Session, error)

	// Delete stops and removes the player's session, if any.
	Delete(ctx context.Context, playerID string) error
}

// Memory is a map-based Store.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewMemoryStore constructs an empty registry.
func NewMemoryStore() *Memory {
	return &Memory{sessions: make(map[string]*Session), now: time.Now}
}

// Save adds or replaces the session. A replaced session's timer is stopped.
func (m *Memory) Save(ctx context.Context, s *Session) error {
	if s == nil || s.PlayerID == "" || s.Machine == nil || s.Feed == nil {
		return errors.New("store: incomplete session")
	}
	s.Touch(m.now())
	m.mu.Lock()
	prev := m.sessions[s.PlayerID]
	m.sessions[s.PlayerID] = s
	m.mu.Unlock()
	if prev != nil && prev != s {
		prev.Machine.Stop()
		prev.Feed.Close()
	}
	return nil
}

// Get looks up a session by player id and marks it active.
func (m *Memory) Get(ctx context.Context, playerID string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[playerID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.Touch(m.now())
	return s, nil
}

// Delete stops the session's timer and forgets it.
func (m *Memory) Delete(ctx context.Context, playerID string) error {
	m.mu.Lock()
	s, ok := m.sessions[playerID]
	delete(m.sessions, playerID)
	m.mu.Unlock()
	if ok {
		s.Machine.Stop()
		s.Feed.Close()
	}
	return nil
}

// Move re-keys the session saved under from to the player id to, e.g. when a
// guest logs in mid-game. A session already saved under to is stopped and
// replaced. The moved session is returned; ErrNotFound when from has none.
func (m *Memory) Move(ctx context.Context, from, to string) (*Session, error) {
	if from == to {
		return m.Get(ctx, from)
	}
	m.mu.Lock()
	s, ok := m.sessions[from]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	moved := NewSession(to, s.Machine, s.Feed)
	moved.Touch(m.now())
	prev := m.sessions[to]
	delete(m.sessions, from)
	m.sessions[to] = moved
	m.mu.Unlock()
	if prev != nil {
		prev.Machine.Stop()
		prev.Feed.Close()
	}
	return moved, nil
}

// Len reports the number of live sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many.
func (m *Memory) Sweep(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)
	var stale []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, s := range stale {
		s.Machine.Stop()
		s.Feed.Close()
	}
	if len(stale) > 0 {
		log.Debug().Int("count", len(stale)).Msg("swept idle sessions")
	}
	return len(stale)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Memory) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep(maxIdle)
		}
	}
}
