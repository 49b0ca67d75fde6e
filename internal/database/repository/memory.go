package repository

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps accounts in a slice in insertion order. It satisfies the
// same contract as AccountRepo and is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts []Account
	index    map[string]int
}

func NewMemoryStore(seed ...Account) *MemoryStore {
	s := &MemoryStore{index: make(map[string]int)}
	for _, a := range seed {
		s.upsertLocked(a)
	}
	return s
}

// List returns a copy of the collection.
func (s *MemoryStore) List(_ context.Context) ([]Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.accounts), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return s.accounts[i], nil
}

func (s *MemoryStore) ExistsUID(_ context.Context, uid string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.UID == uid {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Upsert(_ context.Context, a Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(a)
	return nil
}

func (s *MemoryStore) upsertLocked(a Account) {
	if i, ok := s.index[a.ID]; ok {
		s.accounts[i] = a
		return
	}
	s.index[a.ID] = len(s.accounts)
	s.accounts = append(s.accounts, a)
}

func (s *MemoryStore) DeleteByID(ctx context.Context, id string) error {
	return s.DeleteMany(ctx, []string{id})
}

func (s *MemoryStore) DeleteMany(_ context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.accounts[:0]
	for _, a := range s.accounts {
		if _, ok := drop[a.ID]; !ok {
			kept = append(kept, a)
		}
	}
	clear(s.accounts[len(kept):])
	s.accounts = kept
	s.reindexLocked()
	return nil
}

func (s *MemoryStore) UpdateStatusMany(_ context.Context, ids []string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if i, ok := s.index[id]; ok {
			s.accounts[i].Status = status
		}
	}
	return nil
}

// Reset removes every account.
func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = nil
	s.index = make(map[string]int)
	return nil
}

func (s *MemoryStore) reindexLocked() {
	s.index = make(map[string]int, len(s.accounts))
	for i, a := range s.accounts {
		s.index[a.ID] = i
	}
}
