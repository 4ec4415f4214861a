package ecs

import (
	"iter"
	"reflect"
	"slices"
	"strings"
	"weak"

	"github.com/kamstrup/intmap"
)

// sortTypes orders component types by name, the canonical order of an
// archetype's columns.
func sortTypes(types []reflect.Type) {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})
}

// componentType is the type a value is stored under: pointers are stored
// by their element type.
func componentType(v any) reflect.Type {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

// Archetype stores every entity with one exact set of component types.
// Each type has its own column; an entity occupies the same slot index in
// all of them, and the slot index is the lower half of its EntityId.
type Archetype struct {
	id       uint32
	types    []reflect.Type
	storages []iComponentStorage
	refs     *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

// NewArchetype creates an archetype for types, which must already be in
// sortTypes order. It panics on an unregistered type.
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]iComponentStorage, len(types)),
		refs:     intmap.New[EntityId, weak.Pointer[EntityRef]](256),
	}
	for i, t := range types {
		factory := registry.getFactory(t)
		if factory == nil {
			panic("component type " + t.String() + " not registered")
		}
		a.storages[i] = factory()
	}
	return a
}

// column returns the storage index of t, or -1.
func (a *Archetype) column(t reflect.Type) int {
	return slices.Index(a.types, t)
}

// Spawn stores one entity's components and returns its slot.
func (a *Archetype) Spawn(components []any) uint32 {
	slot := -1
	for _, c := range components {
		if col := a.column(componentType(c)); col >= 0 {
			slot = a.storages[col].Append(c)
		}
	}
	return uint32(slot)
}

// GetComponent returns a pointer to the component of type t in slot, or
// nil.
func (a *Archetype) GetComponent(slot uint32, t reflect.Type) any {
	col := a.column(t)
	if col < 0 {
		return nil
	}
	return a.storages[col].Get(int(slot))
}

// Delete frees slot and invalidates the entity's reference, if any. The
// slot may be reused by a later Spawn.
func (a *Archetype) Delete(slot uint32) {
	id := NewEntityId(a.id, slot)
	if wp, ok := a.refs.Get(id); ok {
		if ref := wp.Value(); ref != nil {
			ref.invalidate()
		}
		a.refs.Del(id)
	}
	for _, s := range a.storages {
		s.Delete(int(slot))
	}
}

// HasComponent reports whether the archetype has a column for t.
func (a *Archetype) HasComponent(t reflect.Type) bool {
	return a.column(t) >= 0
}

func (a *Archetype) ID() uint32 { return a.id }

// Types returns the component types in column order.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// TypeNames returns the component type names in column order.
func (a *Archetype) TypeNames() []string {
	names := make([]string, len(a.types))
	for i, t := range a.types {
		names[i] = t.String()
	}
	return names
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.storages) == 0 {
		return 0
	}
	return a.storages[0].Len()
}

// slots yields the occupied slot indices in increasing order.
func (a *Archetype) slots() iter.Seq[int] {
	if len(a.storages) == 0 {
		return func(func(int) bool) {}
	}
	return a.storages[0].Iter()
}

// Iter yields the IDs of the live entities in slot order.
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for slot := range a.slots() {
			if !yield(NewEntityId(a.id, uint32(slot))) {
				return
			}
		}
	}
}
