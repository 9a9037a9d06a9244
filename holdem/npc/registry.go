package npc

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// PersonaRegistry holds all NPC persona definitions.
type PersonaRegistry struct {
	mu       sync.RWMutex
	personas map[string]*Persona
}

// NewRegistry creates a registry seeded with personas.
func NewRegistry(personas ...*Persona) *PersonaRegistry {
	r := &PersonaRegistry{
		personas: make(map[string]*Persona),
	}
	for _, p := range personas {
		if p != nil && p.ID != "" {
			r.personas[p.ID] = p
		}
	}
	return r
}

// NewDefaultRegistry returns a registry holding DefaultPersonas.
func NewDefaultRegistry() *PersonaRegistry {
	return NewRegistry(DefaultPersonas...)
}

// LoadFromFile loads NPC personas from a JSON file.
func (r *PersonaRegistry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read personas file: %w", err)
	}
	return r.LoadFromJSON(data)
}

// LoadFromJSON loads NPC personas from raw JSON bytes.
func (r *PersonaRegistry) LoadFromJSON(data []byte) error {
	var list []*Persona
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse personas JSON: %w", err)
	}
	// Reject the whole file rather than seat a half-loaded roster.
	for _, p := range list {
		if p == nil || p.ID == "" {
			continue
		}
		if err := p.Brain.validate(); err != nil {
			return fmt.Errorf("persona %q: %w", p.ID, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range list {
		if p == nil || p.ID == "" {
			continue
		}
		r.personas[p.ID] = p
	}
	return nil
}

func (r *PersonaRegistry) Get(id string) *Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.personas[id]
}

// All returns the personas sorted by ID.
func (r *PersonaRegistry) All() []*Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Persona, 0, len(r.personas))
	for _, p := range r.personas {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByTier filters All by tier (1 shark, 2 regular, 3 filler).
func (r *PersonaRegistry) ByTier(tier int) []*Persona {
	var out []*Persona
	for _, p := range r.All() {
		if p.Tier == tier {
			out = append(out, p)
		}
	}
	return out
}

func (r *PersonaRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.personas)
}
