package vehicles

import (
	"sort"
	"sync"
)

// Registry is the in-process vehicle fleet, keyed by vehicle id.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]*Vehicle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Vehicle)}
}

// Add registers a vehicle; the last registration for an id wins.
func (r *Registry) Add(v *Vehicle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[v.ID] = v
}

// FindByID returns the vehicle with the given id, or nil.
func (r *Registry) FindByID(id string) *Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

// List returns the fleet ordered by id. The vehicles are copies: the
// registry's live entries keep changing while listings are serialized
// on other goroutines.
func (r *Registry) List() []*Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Vehicle, 0, len(r.byID))
	for _, v := range r.byID {
		c := *v
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len reports the fleet size.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// SeedDefaultFleet loads the bootstrap fleet used when the registry
// starts empty.
func (r *Registry) SeedDefaultFleet() {
	seeds := []struct {
		id, model, location string
		battery             int
	}{
		{"KB001", "Model S", "5,5", 85},
		{"KB002", "Model A", "10,10", 100},
		{"KB003", "Model T", "0,0", 14},
	}
	for _, s := range seeds {
		v, err := NewVehicle(s.id, s.model, s.location, s.battery)
		if err != nil {
			continue
		}
		r.Add(v)
	}
}
