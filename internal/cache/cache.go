// Package cache persists matter session snapshots between CLI invocations.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no live entry exists for a key
	ErrNotFound = errors.New("not found")
	// ErrInvalidKey is returned for keys that cannot be stored
	ErrInvalidKey = errors.New("invalid key")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// Store defines the interface for snapshot storage
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Keys() ([]string, error)
}

// SnapshotKey generates the storage key for a matter
func SnapshotKey(matterID string) (string, error) {
	key := "matter-" + strings.TrimSpace(matterID)
	if matterID == "" || !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, matterID)
	}
	return key, nil
}

// MatterID reverses SnapshotKey
func MatterID(key string) (string, bool) {
	return strings.CutPrefix(key, "matter-")
}

// ExpandDir resolves a leading ~ to the user's home directory
func ExpandDir(dir string) (string, error) {
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~")), nil
}
