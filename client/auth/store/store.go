package store

import (
	"sync"

	"golang.org/x/oauth2"
)

// Store is a pluggable persistence layer for session tokens, keyed by token URL.
// The in‑memory default is fine for tests; FileStore survives restarts.
type Store interface {
	AddToken(key string, token *oauth2.Token) error
	LookupToken(key string) (*oauth2.Token, bool)
	DeleteToken(key string) error
}

type memoryStore struct {
	mu     sync.RWMutex
	tokens map[string]*oauth2.Token
}

func (m *memoryStore) LookupToken(key string) (*oauth2.Token, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	token, ok := m.tokens[key]
	return token, ok
}

func (m *memoryStore) AddToken(key string, token *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[key] = token
	return nil
}

func (m *memoryStore) DeleteToken(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, key)
	return nil
}

// NewMemoryStore creates an in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{tokens: map[string]*oauth2.Token{}}
}
