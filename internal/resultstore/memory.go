package resultstore

import (
	"context"
	"slices"
	"sync"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// MemoryStore keeps results in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	results map[string]doctree.OutlineResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[string]doctree.OutlineResult)}
}

func (s *MemoryStore) Put(_ context.Context, key string, result doctree.OutlineResult) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result.Outline = slices.Clone(result.Outline)
	s.results[key] = result
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*doctree.OutlineResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.results[key]
	if !ok {
		return nil, nil
	}
	result.Outline = slices.Clone(result.Outline)
	if result.Outline == nil {
		result.Outline = []doctree.Heading{}
	}
	return &result, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, key)
	return nil
}

// Len returns the number of stored results.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}
