package overlay

import "sync"

// MemoryStore keeps entries in process memory. The default backend;
// fatigue then lasts only for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Load() (map[string]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Put(actorID string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[actorID] = e
	return nil
}

func (s *MemoryStore) Close() error { return nil }
