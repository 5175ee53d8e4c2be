package model

import "time"

// AuthorityID identifies a forum in the authority registry
type AuthorityID string

// AuthorityType classifies a forum
type AuthorityType string

const (
	AuthorityCourt     AuthorityType = "court"
	AuthorityTribunal  AuthorityType = "tribunal"
	AuthorityRegulator AuthorityType = "regulator"
	AuthorityAgency    AuthorityType = "agency"
)

// Authority is a court, tribunal or complaint body with its escalation routes
type Authority struct {
	ID                AuthorityID   `json:"id" yaml:"id"`
	Name              string        `json:"name" yaml:"name"`
	Type              AuthorityType `json:"type" yaml:"type"`
	Jurisdiction      string        `json:"jurisdiction" yaml:"jurisdiction"`
	Version           int           `json:"version" yaml:"version"`
	UpdatedAt         time.Time     `json:"updatedAt" yaml:"updated_at"`
	UpdateCadenceDays int           `json:"updateCadenceDays" yaml:"update_cadence_days"`
	EscalationRoutes  []AuthorityID `json:"escalationRoutes" yaml:"escalation_routes"`
	URL               string        `json:"url,omitempty" yaml:"url,omitempty"`
}

// Ref projects the authority into a weak reference
func (a Authority) Ref() AuthorityRef {
	return AuthorityRef{
		ID:           a.ID,
		Name:         a.Name,
		Type:         a.Type,
		Jurisdiction: a.Jurisdiction,
	}
}

// AuthorityRef is a projection of an Authority, never the live registry entry
type AuthorityRef struct {
	ID           AuthorityID   `json:"id"`
	Name         string        `json:"name"`
	Type         AuthorityType `json:"type"`
	Jurisdiction string        `json:"jurisdiction"`
}

// ForumMap is the routing result for a matter
type ForumMap struct {
	Domain       Domain         `json:"domain"`
	PrimaryForum AuthorityRef   `json:"primaryForum"`
	Alternatives []AuthorityRef `json:"alternatives"`
	Escalation   []AuthorityRef `json:"escalation"`
}
