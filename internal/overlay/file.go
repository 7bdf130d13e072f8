package overlay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

// FileStore persists entries as a single JSON document. Reads go
// through gjson so a truncated or hand-mangled file degrades to an
// empty store instead of failing the simulation.
type FileStore struct {
	path string

	mu      sync.Mutex
	entries map[string]Entry
	loaded  bool
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (map[string]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	out := make(map[string]Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out, nil
}

func (s *FileStore) Put(actorID string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	s.entries[actorID] = e
	return s.flush()
}

func (s *FileStore) Close() error { return nil }

// ensureLoaded reads the backing file once. Caller holds s.mu.
func (s *FileStore) ensureLoaded() error {
	if s.loaded {
		return nil
	}
	s.entries = make(map[string]Entry)
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		// Absent store is an empty store.
		return nil
	}
	if !gjson.ValidBytes(data) {
		return nil
	}
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		score := value.Get("score")
		updated := value.Get("updatedAt")
		if !score.Exists() {
			return true // skip malformed entry, keep the rest
		}
		e := Entry{Score: score.Float()}
		if updated.Exists() {
			if t, err := time.Parse(time.RFC3339Nano, updated.String()); err == nil {
				e.UpdatedAt = t
			}
		}
		s.entries[key.String()] = e
		return true
	})
	return nil
}

// flush writes the whole document atomically. Caller holds s.mu.
func (s *FileStore) flush() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encoding overlay: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating overlay dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing overlay: %w", err)
	}
	return os.Rename(tmp, s.path)
}
