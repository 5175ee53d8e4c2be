package audit

import (
	"context"
	"fmt"
	"sync"

	"github.com/ppiankov/casefile/internal/model"
)

// Store persists audit events. Appending an event whose ID is already
// stored is a no-op.
type Store interface {
	Append(ctx context.Context, event model.AuditEvent) error
	List(ctx context.Context, matterID string) ([]model.AuditEvent, error)
	Clear(ctx context.Context, matterID string) error
	Close() error
}

// Store drivers
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// OpenStore opens the store named by the config
func OpenStore(cfg model.AuditConfig) (Store, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("audit: sqlite driver requires a path")
		}
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("audit: unknown driver %q", cfg.Driver)
	}
}

// MemoryStore keeps events in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string][]model.AuditEvent
	seen   map[string]bool
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events: make(map[string][]model.AuditEvent),
		seen:   make(map[string]bool),
	}
}

func (s *MemoryStore) Append(_ context.Context, event model.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[event.ID] {
		return nil
	}
	s.seen[event.ID] = true
	s.events[event.MatterID] = append(s.events[event.MatterID], event)
	return nil
}

func (s *MemoryStore) List(_ context.Context, matterID string) ([]model.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.AuditEvent{}, s.events[matterID]...), nil
}

func (s *MemoryStore) Clear(_ context.Context, matterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events[matterID] {
		delete(s.seen, e.ID)
	}
	delete(s.events, matterID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
