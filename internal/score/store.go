// internal/score/store.go
//
// The score record: one integer, the number of words guessed correctly in
// the most recently finished session. There is no history. Each player
// namespace (a browser's anonymous id, or a user id once logged in) has its
// own value under the well-known key LastScoreKey, the way a browser keeps
// its own local storage.
package score

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"
)

// LastScoreKey is the fixed name the last score is stored under.
const LastScoreKey = "twistle_last_score"

// Store reads and writes the last score for one namespace.
type Store interface {
	// RecordScore overwrites the stored value.
	RecordScore(ctx context.Context, n int) error
	// ReadLastScore returns the stored value, or 0 when nothing was recorded.
	ReadLastScore(ctx context.Context) (int, error)
}

// Provider hands out per-namespace stores.
type Provider interface {
	For(namespace string) Store
}

// ---------------------------------------------------------------- SQLite ---

// SQL keeps scores in the scores table.
type SQL struct{ db *sql.DB }

// NewSQL wraps an open database whose migrations have been applied.
func NewSQL(db *sql.DB) *SQL { return &SQL{db: db} }

// For returns the store for namespace.
func (s *SQL) For(namespace string) Store { return sqlScope{db: s.db, ns: namespace} }

type sqlScope struct {
	db *sql.DB
	ns string
}

func (s sqlScope) RecordScore(ctx context.Context, n int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores(namespace, key, value, updated_at) VALUES(?,?,?,?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		s.ns, LastScoreKey, n, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s sqlScope) ReadLastScore(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM scores WHERE namespace=? AND key=?`, s.ns, LastScoreKey,
	).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

// ---------------------------------------------------------------- memory ---

// Memory is a process-local Provider, used by the terminal front end and tests.
type Memory struct {
	mu     sync.RWMutex
	values map[string]int
}

// NewMemory constructs an empty in-memory provider.
func NewMemory() *Memory { return &Memory{values: make(map[string]int)} }

// For returns the store for namespace.
func (m *Memory) For(namespace string) Store { return memScope{m: m, ns: namespace} }

type memScope struct {
	m  *Memory
	ns string
}

func (s memScope) RecordScore(ctx context.Context, n int) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.values[s.ns] = n
	return nil
}

func (s memScope) ReadLastScore(ctx context.Context) (int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	return s.m.values[s.ns], nil
}
