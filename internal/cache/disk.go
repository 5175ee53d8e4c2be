package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const snapshotExt = ".json"

// DiskStore persists snapshots as one file per key
type DiskStore struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewDiskStore creates a new disk store. A zero ttl never expires entries.
func NewDiskStore(dir string, ttl time.Duration) *DiskStore {
	return &DiskStore{
		dir: dir,
		ttl: ttl,
		now: time.Now,
	}
}

type diskEntry struct {
	Data      json.RawMessage `json:"data"`
	SavedAt   time.Time       `json:"saved_at"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

// Get retrieves a value, removing it when expired
func (s *DiskStore) Get(key string) ([]byte, error) {
	path := s.path(key)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
	}

	if entry.ExpiresAt != nil && s.now().After(*entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, ErrNotFound
	}

	return entry.Data, nil
}

// Set writes a value atomically. Values must be JSON documents.
func (s *DiskStore) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = s.ttl
	}
	if !json.Valid(value) {
		return fmt.Errorf("snapshot %s: value is not JSON", key)
	}

	now := s.now().UTC()
	entry := diskEntry{Data: value, SavedAt: now}
	if ttl > 0 {
		expires := now.Add(ttl)
		entry.ExpiresAt = &expires
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Delete removes a value. Deleting a missing key is not an error.
func (s *DiskStore) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Keys lists stored keys in sorted order
func (s *DiskStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list store dir: %w", err)
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), snapshotExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), snapshotExt))
	}
	sort.Strings(keys)
	return keys, nil
}

// path generates the file path for a key
func (s *DiskStore) path(key string) string {
	return filepath.Join(s.dir, key+snapshotExt)
}
