package overlay

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMemoryStoreRoundtrip(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	if err := s.Put("actor-00001", Entry{Score: 0.4, UpdatedAt: now}); err != nil {
		t.Fatalf("put: %v", err)
	}
	entries, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	e, ok := entries["actor-00001"]
	if !ok || e.Score != 0.4 {
		t.Errorf("expected score 0.4, got %+v (ok=%v)", e, ok)
	}
}

func TestFileStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fatigue.json")
	s := NewFileStore(path)
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := s.Put("actor-00007", Entry{Score: 0.75, UpdatedAt: at}); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Fresh store instance reads what the first one wrote.
	entries, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	e, ok := entries["actor-00007"]
	if !ok {
		t.Fatal("entry missing after reopen")
	}
	if e.Score != 0.75 {
		t.Errorf("score = %v, want 0.75", e.Score)
	}
	if !e.UpdatedAt.Equal(at) {
		t.Errorf("updatedAt = %v, want %v", e.UpdatedAt, at)
	}
}

func TestFileStoreMissingIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
	entries, err := s.Load()
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty store, got %d entries", len(entries))
	}
}

func TestFileStoreCorruptionSelfHeals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fatigue.json")
	if err := os.WriteFile(path, []byte("{{{ not json at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)
	entries, err := s.Load()
	if err != nil {
		t.Fatalf("corrupted file must not error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("corrupted store should read as empty, got %d entries", len(entries))
	}

	// And writes over the corpse work.
	if err := s.Put("actor-00001", Entry{Score: 0.2, UpdatedAt: time.Now()}); err != nil {
		t.Fatalf("put over corrupted file: %v", err)
	}
	entries, _ = NewFileStore(path).Load()
	if len(entries) != 1 {
		t.Errorf("expected the healed store to hold 1 entry, got %d", len(entries))
	}
}

func TestFileStoreSkipsMalformedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fatigue.json")
	blob := `{"good": {"score": 0.5, "updatedAt": "2025-03-01T10:00:00Z"}, "bad": {"nope": 1}}`
	if err := os.WriteFile(path, []byte(blob), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the well-formed entry, got %d", len(entries))
	}
	if entries["good"].Score != 0.5 {
		t.Errorf("good entry score = %v", entries["good"].Score)
	}
}

func TestSQLiteStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fatigue.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := s.Put("actor-00003", Entry{Score: 0.33, UpdatedAt: at}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put("actor-00003", Entry{Score: 0.66, UpdatedAt: at}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	entries, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	e := entries["actor-00003"]
	if e.Score != 0.66 {
		t.Errorf("upsert did not overwrite: score = %v", e.Score)
	}
	if !e.UpdatedAt.Equal(at) {
		t.Errorf("updatedAt = %v, want %v", e.UpdatedAt, at)
	}
}

func TestNewStoreKinds(t *testing.T) {
	if _, err := NewStore("memory", ""); err != nil {
		t.Errorf("memory: %v", err)
	}
	if _, err := NewStore("", ""); err != nil {
		t.Errorf("default kind: %v", err)
	}
	if _, err := NewStore("carrier-pigeon", ""); err == nil {
		t.Error("expected error for unsupported backend")
	}
	if _, err := NewStore("sqlite", ""); err == nil {
		t.Error("sqlite without a path should fail")
	}
}
