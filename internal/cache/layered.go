package cache

import (
	"errors"
	"time"

	"github.com/ppiankov/casefile/internal/model"
)

// LayeredStore reads through memory to disk and writes to both
type LayeredStore struct {
	memory Store
	disk   Store
}

// NewLayeredStore creates a new layered store
func NewLayeredStore(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredStore {
	return &LayeredStore{
		memory: NewMemoryStore(memoryTTL, 10*time.Minute),
		disk:   NewDiskStore(diskDir, diskTTL),
	}
}

// NewSessionStore builds the store described by the config
func NewSessionStore(cfg model.StoreConfig) (*LayeredStore, error) {
	dir, err := ExpandDir(cfg.Dir)
	if err != nil {
		return nil, err
	}
	return NewLayeredStore(cfg.MemoryTTL, dir, cfg.DiskTTL), nil
}

// Get checks memory first, then disk
func (s *LayeredStore) Get(key string) ([]byte, error) {
	if val, err := s.memory.Get(key); err == nil {
		return val, nil
	}

	val, err := s.disk.Get(key)
	if err != nil {
		return nil, err
	}

	// Promote to memory
	_ = s.memory.Set(key, val, 0)
	return val, nil
}

// Set stores a value in both layers
func (s *LayeredStore) Set(key string, value []byte, ttl time.Duration) error {
	if err := s.disk.Set(key, value, ttl); err != nil {
		return err
	}
	return s.memory.Set(key, value, 0)
}

// Delete removes a value from both layers
func (s *LayeredStore) Delete(key string) error {
	_ = s.memory.Delete(key)
	return s.disk.Delete(key)
}

// Keys lists the keys persisted on disk
func (s *LayeredStore) Keys() ([]string, error) {
	return s.disk.Keys()
}

// Exists reports whether a live entry exists for key
func Exists(s Store, key string) (bool, error) {
	_, err := s.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
