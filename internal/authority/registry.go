// Package authority holds the forum registry and the forum routing table.
package authority

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ppiankov/casefile/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// ErrUnknownAuthority is returned when an authority id is not seeded
var ErrUnknownAuthority = errors.New("unknown authority")

// ConfigError signals a deployment or seeding bug. It is never user-recoverable.
type ConfigError struct {
	ID  model.AuthorityID
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("authority registry misconfigured: %s: %v", e.ID, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

type seedFile struct {
	Authorities []model.Authority `yaml:"authorities"`
}

// Registry stores forum metadata and the escalation graph
type Registry struct {
	authorities map[model.AuthorityID]model.Authority
}

// NewRegistry creates a registry seeded with the given authorities
func NewRegistry(seed []model.Authority) *Registry {
	r := &Registry{
		authorities: make(map[model.AuthorityID]model.Authority, len(seed)),
	}
	r.Merge(seed)
	return r
}

// DefaultRegistry creates a registry from the built-in seed file
func DefaultRegistry() (*Registry, error) {
	seed, err := ParseSeed(seedYAML)
	if err != nil {
		return nil, fmt.Errorf("parse built-in seed: %w", err)
	}
	return NewRegistry(seed), nil
}

// ParseSeed decodes a YAML authority list
func ParseSeed(data []byte) ([]model.Authority, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal authorities: %w", err)
	}
	for i, a := range f.Authorities {
		if a.ID == "" {
			return nil, fmt.Errorf("authority %d: missing id", i)
		}
	}
	return f.Authorities, nil
}

// LoadFile reads a YAML authority list from disk
func LoadFile(path string) ([]model.Authority, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read authority file: %w", err)
	}
	return ParseSeed(data)
}

// Merge adds or replaces authorities wholesale (seeding only)
func (r *Registry) Merge(authorities []model.Authority) {
	for _, a := range authorities {
		if a.Version == 0 {
			a.Version = 1
		}
		r.authorities[a.ID] = a
	}
}

// Get returns the authority with the given id or a *ConfigError
func (r *Registry) Get(id model.AuthorityID) (model.Authority, error) {
	a, ok := r.authorities[id]
	if !ok {
		return model.Authority{}, &ConfigError{ID: id, Err: ErrUnknownAuthority}
	}
	return a, nil
}

// Ref returns the projection of an authority
func (r *Registry) Ref(id model.AuthorityID) (model.AuthorityRef, error) {
	a, err := r.Get(id)
	if err != nil {
		return model.AuthorityRef{}, err
	}
	return a.Ref(), nil
}

// Has reports whether the id is seeded
func (r *Registry) Has(id model.AuthorityID) bool {
	_, ok := r.authorities[id]
	return ok
}

// Update replaces an existing authority and bumps its version
func (r *Registry) Update(a model.Authority, now time.Time) error {
	current, err := r.Get(a.ID)
	if err != nil {
		return err
	}
	for _, route := range a.EscalationRoutes {
		if !r.Has(route) {
			return &ConfigError{ID: route, Err: ErrUnknownAuthority}
		}
	}

	a.Version = current.Version + 1
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}
	r.authorities[a.ID] = a
	return nil
}

// NeedsUpdate reports whether the authority is due for a content refresh
func (r *Registry) NeedsUpdate(id model.AuthorityID, now time.Time) (bool, error) {
	a, err := r.Get(id)
	if err != nil {
		return false, err
	}
	due := a.UpdatedAt.AddDate(0, 0, a.UpdateCadenceDays)
	return !now.Before(due), nil
}

// Stale lists every authority due for a refresh, sorted by id
func (r *Registry) Stale(now time.Time) []model.AuthorityID {
	var ids []model.AuthorityID
	for id := range r.authorities {
		if due, _ := r.NeedsUpdate(id, now); due {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Escalation resolves the escalation routes of an authority
func (r *Registry) Escalation(id model.AuthorityID) ([]model.AuthorityRef, error) {
	a, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	refs := make([]model.AuthorityRef, 0, len(a.EscalationRoutes))
	for _, next := range a.EscalationRoutes {
		ref, err := r.Ref(next)
		if err != nil {
			return nil, fmt.Errorf("escalation from %s: %w", id, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// All returns every authority sorted by id
func (r *Registry) All() []model.Authority {
	out := make([]model.Authority, 0, len(r.authorities))
	for _, a := range r.authorities {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
