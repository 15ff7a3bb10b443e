package status

import (
	"sync"

	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
)

// MemoryStore is the default single-process status store.
type MemoryStore struct {
	mu      sync.RWMutex
	current *domain.ProcessingStatus
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Set(st *domain.ProcessingStatus) error {
	cp := *st
	s.mu.Lock()
	s.current = &cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get() (*domain.ProcessingStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, nil
	}
	cp := *s.current
	return &cp, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return nil
}
