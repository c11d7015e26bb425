package manifest

import (
	"context"
	"slices"
	"sort"
	"sync"
)

// MemoryStore implements Store in memory. Used by tests and by the server
// when no database is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	runs  []Run
	paths map[string]map[string]bool
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{paths: make(map[string]map[string]bool)}
}

func (s *MemoryStore) RecordRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run.Entities = append([]string{}, run.Entities...)
	run.Paths = append([]string{}, run.Paths...)
	s.runs = append(s.runs, run)

	set := s.paths[run.Project]
	if set == nil {
		set = make(map[string]bool)
		s.paths[run.Project] = set
	}
	for _, p := range run.Paths {
		set[p] = true
	}
	return nil
}

func (s *MemoryStore) Runs(_ context.Context, project string) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Run{}
	for i := len(s.runs) - 1; i >= 0; i-- {
		r := s.runs[i]
		if r.Project != project {
			continue
		}
		r.Entities = slices.Clone(r.Entities)
		r.Paths = slices.Clone(r.Paths)
		out = append(out, r)
	}
	// Newest first; later recordings win ties.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Paths(_ context.Context, project string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []string{}
	for p := range s.paths[project] {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}
