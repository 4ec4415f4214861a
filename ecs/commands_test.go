package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/perfui/ecs"
)

func TestCommands(t *testing.T) {
	t.Run("flush applies queued operations", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		keep := storage.Spawn(Gauge{Value: 1}, Hidden{})
		drop := storage.Spawn(Gauge{Value: 2})

		var cmds ecs.Commands
		cmds.Spawn(Gauge{Value: 3})
		cmds.Delete(drop)
		cmds.RemoveComponent(keep, reflect.TypeFor[Hidden]())
		cmds.Flush(storage)

		if storage.EntityCount() != 2 {
			t.Errorf("expected 2 entities, got %d", storage.EntityCount())
		}
		hidden := ecs.NewQuery[struct{ *Hidden }](storage)
		hidden.Execute()
		if hidden.Len() != 0 {
			t.Error("Hidden should have been removed")
		}
	})

	t.Run("operations on deleted entities are dropped", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		id := storage.Spawn(Gauge{})

		var cmds ecs.Commands
		cmds.AddComponent(id, Label{Text: "late"})
		cmds.Delete(id)
		cmds.Flush(storage)

		if storage.EntityCount() != 0 {
			t.Errorf("expected no entities, got %d", storage.EntityCount())
		}
	})

	t.Run("defers run after structural changes", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())

		var cmds ecs.Commands
		seen := -1
		cmds.Defer(func() { seen = storage.EntityCount() })
		cmds.Spawn(Gauge{})
		cmds.Flush(storage)

		if seen != 1 {
			t.Errorf("defer should observe the spawn, saw %d entities", seen)
		}

		seen = -1
		cmds.Flush(storage)
		if seen != -1 {
			t.Error("flush should reset the buffer")
		}
	})
	t.Run("delete by ref follows moves", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		id := storage.Spawn(Gauge{})
		ref := storage.CreateEntityRef(id)

		var cmds ecs.Commands
		cmds.AddComponent(id, Label{Text: "moved"})
		cmds.Flush(storage)

		cmds.DeleteRef(ref)
		cmds.DeleteRef(ref)
		if cmds.Len() != 2 {
			t.Errorf("expected 2 queued commands, got %d", cmds.Len())
		}
		if n := cmds.Flush(storage); n != 2 {
			t.Errorf("expected 2 applied commands, got %d", n)
		}
		if storage.EntityCount() != 0 {
			t.Errorf("expected no entities, got %d", storage.EntityCount())
		}
		if ref.Valid() {
			t.Error("ref should be invalid after delete")
		}
	})
}
