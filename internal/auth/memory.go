package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process AccountStore and TokenStore.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]Account
	tokens   map[string]Token
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]Account),
		tokens:   make(map[string]Token),
	}
}

func (s *MemoryStore) CreateAccount(_ context.Context, a Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[a.Username]; ok {
		return ErrAccountExists
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	s.accounts[a.Username] = a
	return nil
}

func (s *MemoryStore) FindAccount(_ context.Context, username string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[username]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return a, nil
}

func (s *MemoryStore) CreateToken(_ context.Context, t Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[t.Token]; ok {
		return ErrTokenExists
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	s.tokens[t.Token] = t
	return nil
}

func (s *MemoryStore) FindToken(_ context.Context, token string) (Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tokens[token]
	if !ok {
		return Token{}, ErrTokenNotFound
	}
	return t, nil
}
