package ecs

import "fmt"

// EntityId packs the archetype ID in the upper 32 bits and the slot index
// in the lower 32 bits. An ID changes when the entity moves to another
// archetype; hold an EntityRef to follow it. Zero is never a live entity.
type EntityId uint64

func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%08x:%d", e.ArchetypeId(), e.Index())
}

// EntityRef follows an entity across archetype moves. The storage keeps a
// weak pointer to it; when the entity is deleted Id becomes zero and
// Archetype nil. Refs are shared: CreateEntityRef returns the same pointer
// for the same entity while any holder keeps it alive, so refs can be
// compared and used as map keys.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}

// Valid reports whether the entity still exists.
func (r *EntityRef) Valid() bool {
	return r != nil && r.Id != 0
}

func (r *EntityRef) invalidate() {
	r.Id = 0
	r.Archetype = nil
}
