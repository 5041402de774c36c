package houses

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.RWMutex
	sets map[string]SubmissionSet
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: make(map[string]SubmissionSet)}
}

func (s *MemoryStore) Upsert(_ context.Context, buildingID, author string, sub Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[buildingID]
	if !ok {
		set = make(SubmissionSet)
		s.sets[buildingID] = set
	}
	set[author] = sub
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, buildingID, author string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sets[buildingID], author)
	return nil
}

func (s *MemoryStore) ForBuilding(_ context.Context, buildingID string) (SubmissionSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.sets[buildingID]), nil
}

func (s *MemoryStore) ForBuildings(_ context.Context, buildingIDs []string) (map[string]SubmissionSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]SubmissionSet, len(buildingIDs))
	for _, id := range buildingIDs {
		if set, ok := s.sets[id]; ok {
			out[id] = maps.Clone(set)
		}
	}
	return out, nil
}

func (s *MemoryStore) Replace(_ context.Context, sets map[string]SubmissionSet) error {
	fresh := make(map[string]SubmissionSet, len(sets))
	for id, set := range sets {
		fresh[id] = maps.Clone(set)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = fresh
	return nil
}
