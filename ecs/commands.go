package ecs

import "reflect"

// Commands buffers structural changes made while systems run. The
// scheduler flushes the buffer after the last system of a frame, so
// queries never see entities move under them.
//
// Flush applies deletes first, then component removals and additions,
// then spawns, then deferred functions. Removals and additions aimed at
// an entity deleted in the same flush are dropped.
type Commands struct {
	spawns  [][]any
	deletes []EntityId
	refs    []*EntityRef
	adds    []componentCommand
	removes []componentCommand
	defers  []func()
}

type componentCommand struct {
	entity    EntityId
	component any
	typ       reflect.Type
}

func newCommands() *Commands {
	return &Commands{}
}

// Defer queues fn to run after the structural changes of the flush.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues a new entity.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Delete queues the removal of entity.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// DeleteRef queues the removal of the entity ref points at when the flush
// runs. Refs that are already invalid are ignored.
func (c *Commands) DeleteRef(ref *EntityRef) {
	c.refs = append(c.refs, ref)
}

func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, componentCommand{entity: entity, component: component})
}

func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, componentCommand{entity: entity, typ: compType})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.deletes) + len(c.refs) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies the queued commands to storage, empties the buffer and
// returns the number of commands applied.
func (c *Commands) Flush(storage *Storage) int {
	n := c.Len()
	deleted := make(map[EntityId]struct{}, len(c.deletes)+len(c.refs))

	for _, ref := range c.refs {
		if id, ok := storage.ResolveEntityRef(ref); ok {
			c.deletes = append(c.deletes, id)
		}
	}
	for _, id := range c.deletes {
		if _, ok := deleted[id]; ok {
			continue
		}
		storage.Delete(id)
		deleted[id] = struct{}{}
	}
	for _, cmd := range c.removes {
		if _, ok := deleted[cmd.entity]; !ok {
			storage.RemoveComponent(cmd.entity, cmd.typ)
		}
	}
	for _, cmd := range c.adds {
		if _, ok := deleted[cmd.entity]; !ok {
			storage.AddComponent(cmd.entity, cmd.component)
		}
	}
	for _, components := range c.spawns {
		storage.Spawn(components...)
	}
	for _, fn := range c.defers {
		fn()
	}

	clear(c.spawns)
	clear(c.refs)
	clear(c.adds)
	clear(c.defers)
	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.refs = c.refs[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
	return n
}
