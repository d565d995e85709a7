package history

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]map[int]GenerationSummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]map[int]GenerationSummary)
	return nil
}

// SaveGeneration stores summary, replacing an earlier summary of the same
// run and generation.
func (s *MemoryStore) SaveGeneration(_ context.Context, summary GenerationSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	if summary.RunID == "" {
		return errors.New("run id is required")
	}
	gens, ok := s.runs[summary.RunID]
	if !ok {
		gens = make(map[int]GenerationSummary)
		s.runs[summary.RunID] = gens
	}
	gens[summary.Generation] = summary
	return nil
}

func (s *MemoryStore) Generations(_ context.Context, runID string) ([]GenerationSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gens, ok := s.runs[runID]
	if !ok {
		return nil, false, nil
	}
	out := make([]GenerationSummary, 0, len(gens))
	for _, summary := range gens {
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Generation < out[j].Generation
	})
	return out, true, nil
}

func (s *MemoryStore) Runs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
