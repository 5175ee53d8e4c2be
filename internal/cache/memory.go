package cache

import (
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps snapshots in process memory with expiry
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a new memory store
func NewMemoryStore(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a copy of the stored value
func (s *MemoryStore) Get(key string) ([]byte, error) {
	if val, found := s.cache.Get(key); found {
		return append([]byte(nil), val.([]byte)...), nil
	}
	return nil, ErrNotFound
}

// Set stores a copy of value. A zero ttl uses the default expiry.
func (s *MemoryStore) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	s.cache.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Delete removes a value
func (s *MemoryStore) Delete(key string) error {
	s.cache.Delete(key)
	return nil
}

// Keys lists unexpired keys in sorted order
func (s *MemoryStore) Keys() ([]string, error) {
	items := s.cache.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
