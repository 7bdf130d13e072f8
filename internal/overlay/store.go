// Package overlay persists the per-actor fatigue overlay: the one
// intentionally stateful, cross-session slice of the otherwise pure
// simulation. A missing or corrupted store is always treated as empty.
package overlay

import (
	"fmt"
	"time"
)

// Entry is the persisted fatigue record for one actor.
type Entry struct {
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is the persistence port for fatigue entries. Implementations
// self-heal: corruption yields an empty result, never an error that
// would stop the simulation.
type Store interface {
	// Load returns all persisted entries.
	Load() (map[string]Entry, error)
	// Put persists one entry, overwriting any previous value.
	Put(actorID string, e Entry) error
	Close() error
}

// NewStore builds a Store for the configured backend kind.
func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(path), nil
	case "sqlite":
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}
