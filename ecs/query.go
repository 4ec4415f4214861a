package ecs

import (
	"iter"
	"unsafe"
)

// match is an archetype a query reads from, with its column mapping.
type match struct {
	archetype *Archetype
	cols      []int
}

// Query iterates the entities holding a set of components. T is a struct
// of component pointers; see fields for the tag rules.
//
// Results are snapshotted by Execute, which the Scheduler calls right
// before the owning system runs. Matching archetypes are cached until the
// storage creates a new one.
type Query[T any] struct {
	storage *Storage
	fields  fields

	matches        []match
	archetypeCount int

	entities   []EntityId
	components []T
	executed   bool
}

// NewQuery creates a query over storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage and drops every cache. The Scheduler
// calls it during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.storage = storage
	q.fields = fieldsOf[T]()
	q.matches = nil
	q.archetypeCount = -1
	q.executed = false
}

func (q *Query[T]) refreshMatches() {
	n := len(q.storage.archetypes)
	if n == q.archetypeCount {
		return
	}
	q.archetypeCount = n

	q.matches = q.matches[:0]
	for _, a := range q.storage.GetArchetypes() {
		if cols, ok := q.fields.columns(a); ok {
			q.matches = append(q.matches, match{archetype: a, cols: cols})
		}
	}
}

// Execute snapshots the matching entities and their components.
func (q *Query[T]) Execute() {
	q.refreshMatches()

	q.entities = q.entities[:0]
	q.components = q.components[:0]

	var item T
	dst := unsafe.Pointer(&item)
	for _, m := range q.matches {
		for index := range m.archetype.slots() {
			if !q.fields.fill(dst, m.archetype, m.cols, index) {
				continue
			}
			q.entities = append(q.entities, NewEntityId(m.archetype.id, uint32(index)))
			q.components = append(q.components, item)
		}
	}
	q.executed = true
}

// Iter yields the entities and components of the last Execute, in
// archetype ID order and then slot order. It panics before the first
// Execute.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.executed {
		panic("Query.Iter() called before Query.Execute()")
	}
	return func(yield func(EntityId, T) bool) {
		for i, id := range q.entities {
			if !yield(id, q.components[i]) {
				return
			}
		}
	}
}

// Values is Iter without the entity IDs.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.executed {
		panic("Query.Values() called before Query.Execute()")
	}
	return func(yield func(T) bool) {
		for _, c := range q.components {
			if !yield(c) {
				return
			}
		}
	}
}

// Len is the number of entities matched by the last Execute.
func (q *Query[T]) Len() int {
	return len(q.entities)
}

// Get reads the components of a single entity directly from storage,
// without waiting for Execute. ok is false when the entity is gone or
// lacks a required component.
func (q *Query[T]) Get(id EntityId) (item T, ok bool) {
	a, found := q.storage.archetypes[id.ArchetypeId()]
	if !found {
		return item, false
	}
	cols, matches := q.fields.columns(a)
	if !matches {
		return item, false
	}
	ok = q.fields.fill(unsafe.Pointer(&item), a, cols, int(id.Index()))
	return item, ok
}

// GetRef is Get for an entity reference.
func (q *Query[T]) GetRef(ref *EntityRef) (T, bool) {
	id, ok := q.storage.ResolveEntityRef(ref)
	if !ok {
		var zero T
		return zero, false
	}
	return q.Get(id)
}
