package engine

import "sort"

// Entity is one player avatar as this client knows it.
type Entity struct {
	ID     int
	Name   string
	Color  string
	Health int
}

// Registry owns the id -> entity mapping and is the single source of
// truth for which avatars exist on this client.
type Registry struct {
	entities map[int]*Entity
}

func NewRegistry() *Registry {
	return &Registry{entities: make(map[int]*Entity)}
}

// Upsert registers an entity. A duplicate id is a no-op so that replayed
// snapshots never produce a second copy of an existing avatar.
func (r *Registry) Upsert(e Entity) bool {
	if _, ok := r.entities[e.ID]; ok {
		return false
	}
	cp := e
	r.entities[e.ID] = &cp
	return true
}

// Get returns the entity for id, or nil if it is not registered.
func (r *Registry) Get(id int) *Entity {
	return r.entities[id]
}

// Remove deletes the entity. Removing an absent id is a no-op; the
// caller cascades position and mode cleanup.
func (r *Registry) Remove(id int) bool {
	if _, ok := r.entities[id]; !ok {
		return false
	}
	delete(r.entities, id)
	return true
}

func (r *Registry) Len() int {
	return len(r.entities)
}

// IDs returns registered ids in ascending order so that iteration
// (collision tests in particular) is deterministic.
func (r *Registry) IDs() []int {
	ids := make([]int, 0, len(r.entities))
	for id := range r.entities {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
