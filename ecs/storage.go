package ecs

import (
	"cmp"
	"reflect"
	"slices"
	"unsafe"
	"weak"
)

// Storage holds every entity of a world, grouped by archetype, plus the
// singleton components that belong to no entity.
type Storage struct {
	archetypes map[uint32]*Archetype
	registry   *ComponentRegistry
	singletons map[reflect.Type]*singletonEntry
}

type singletonEntry struct {
	typ     reflect.Type
	dataPtr unsafe.Pointer
	// value keeps the allocation behind dataPtr reachable.
	value any
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		registry:   registry,
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the component registry the storage was created with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// AddSingleton stores value as the singleton of its type, replacing any
// previous one. A pointer argument is stored as is, so the caller keeps
// sharing it with the storage; other values are copied.
func (s *Storage) AddSingleton(value any) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		panic("cannot add a nil singleton")
	}
	if rv.Kind() != reflect.Ptr {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		rv = ptr
	}
	s.singletons[rv.Type().Elem()] = &singletonEntry{
		typ:     rv.Type().Elem(),
		dataPtr: rv.UnsafePointer(),
		value:   rv.Interface(),
	}
}

// RemoveSingleton drops the singleton of the given type.
func (s *Storage) RemoveSingleton(t reflect.Type) bool {
	if _, ok := s.singletons[t]; !ok {
		return false
	}
	delete(s.singletons, t)
	return true
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// ReadSingleton returns the singleton of type T, or nil when none was added.
func ReadSingleton[T any](s *Storage) *T {
	entry := s.getSingletonEntry(reflect.TypeFor[T]())
	if entry == nil {
		return nil
	}
	return (*T)(entry.dataPtr)
}

// EntityCount returns the number of live entities across all archetypes.
func (s *Storage) EntityCount() int {
	n := 0
	for _, a := range s.archetypes {
		n += a.Len()
	}
	return n
}

// GetArchetypes returns every archetype ordered by ID.
func (s *Storage) GetArchetypes() []*Archetype {
	out := make([]*Archetype, 0, len(s.archetypes))
	for _, a := range s.archetypes {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b *Archetype) int { return cmp.Compare(a.id, b.id) })
	return out
}

// StorageStats is a snapshot of storage occupancy.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes a single archetype.
type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

// CollectStats walks the storage and reports its occupancy. Archetypes
// are listed by ID and singleton types by name.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		ArchetypeCount: len(s.archetypes),
		SingletonCount: len(s.singletons),
	}
	for _, a := range s.GetArchetypes() {
		n := a.Len()
		stats.TotalEntityCount += n
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             a.id,
			ComponentTypes: a.TypeNames(),
			EntityCount:    n,
		})
	}
	for t := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	slices.Sort(stats.SingletonTypes)
	return stats
}

// CreateEntityRef returns the shared reference for id, or nil when id
// names no archetype.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	a := s.archetypes[id.ArchetypeId()]
	if a == nil {
		return nil
	}
	if wp, ok := a.refs.Get(id); ok {
		if ref := wp.Value(); ref != nil {
			return ref
		}
		a.refs.Del(id)
	}
	ref := &EntityRef{Id: id, Archetype: a}
	a.refs.Put(id, weak.Make(ref))
	return ref
}

// ResolveEntityRef returns the current ID of the referenced entity.
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if !ref.Valid() {
		return 0, false
	}
	return ref.Id, true
}

// moveRef points the reference of from, if any, at to.
func moveRef(from *Archetype, fromId EntityId, to *Archetype, toId EntityId) {
	wp, ok := from.refs.Get(fromId)
	if !ok {
		return
	}
	from.refs.Del(fromId)
	if ref := wp.Value(); ref != nil {
		ref.Id, ref.Archetype = toId, to
		to.refs.Put(toId, wp)
	}
}

func (s *Storage) archetype(types []reflect.Type) *Archetype {
	id := hashTypes(types)
	a, ok := s.archetypes[id]
	if !ok {
		a = NewArchetype(id, types, s.registry)
		s.archetypes[id] = a
	}
	return a
}

// Spawn stores a new entity. Components may be values or pointers; either
// way the storage keeps its own copy. It panics on an empty call.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}
	a := s.archetype(componentTypes(components))
	return NewEntityId(a.id, a.Spawn(components))
}

// Delete removes the entity. Unknown IDs are ignored.
func (s *Storage) Delete(id EntityId) {
	if a, ok := s.archetypes[id.ArchetypeId()]; ok {
		a.Delete(id.Index())
	}
}

// move copies the entity into the archetype of types, adding extra, and
// frees its old slot. References follow it.
func (s *Storage) move(id EntityId, types []reflect.Type, extra any) EntityId {
	from := s.archetypes[id.ArchetypeId()]
	to := s.archetype(types)

	components := make([]any, 0, len(types))
	for _, t := range types {
		if c := from.GetComponent(id.Index(), t); c != nil {
			components = append(components, c)
		}
	}
	if extra != nil {
		components = append(components, extra)
	}

	newId := NewEntityId(to.id, to.Spawn(components))
	moveRef(from, id, to, newId)
	from.Delete(id.Index())
	return newId
}

// AddComponent moves the entity to the archetype that also holds the
// component's type and returns its new ID. Adding a type the entity
// already has overwrites the value in place.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	from, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return 0
	}
	t := componentType(component)
	if col := from.column(t); col >= 0 {
		dst := reflect.NewAt(t, dataPointer(from.storages[col].Get(int(id.Index()))))
		src := reflect.ValueOf(component)
		if src.Kind() == reflect.Ptr {
			src = src.Elem()
		}
		dst.Elem().Set(src)
		return id
	}

	types := append(slices.Clone(from.types), t)
	sortTypes(types)
	return s.move(id, types, component)
}

// RemoveComponent moves the entity to the archetype without t and returns
// its new ID. Removing the last component deletes the entity and returns
// zero.
func (s *Storage) RemoveComponent(id EntityId, t reflect.Type) EntityId {
	from, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !from.HasComponent(t) {
		return id
	}
	types := slices.DeleteFunc(slices.Clone(from.types), func(x reflect.Type) bool { return x == t })
	if len(types) == 0 {
		from.Delete(id.Index())
		return 0
	}
	return s.move(id, types, nil)
}

// GetComponent returns a pointer to the entity's component of type t, or
// nil.
func (s *Storage) GetComponent(id EntityId, t reflect.Type) any {
	a, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return nil
	}
	return a.GetComponent(id.Index(), t)
}

// HasComponent reports whether the entity's archetype holds t.
func (s *Storage) HasComponent(id EntityId, t reflect.Type) bool {
	a, ok := s.archetypes[id.ArchetypeId()]
	return ok && a.HasComponent(t)
}

// componentTypes returns the sorted component types of components.
func componentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, c := range components {
		t := componentType(c)
		switch t.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
			panic("components cannot be pointers, maps, channels, or functions")
		}
		types = append(types, t)
	}
	sortTypes(types)
	return types
}

// hashTypes is FNV-1a over the addresses of the runtime type descriptors.
func hashTypes(types []reflect.Type) uint32 {
	h := uint32(2166136261)
	for _, t := range types {
		p := uint64(uintptr(dataPointer(t)))
		h ^= uint32(p) ^ uint32(p>>32)
		h *= 16777619
	}
	return h
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's component of type T, or nil.
func ReadComponent[T any](reader ComponentReader, id EntityId) *T {
	c, _ := reader.GetComponent(id, reflect.TypeFor[T]()).(*T)
	return c
}
