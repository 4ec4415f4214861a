package ecsoverlay_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/perfui"
	"github.com/plus3/perfui/diag"
	"github.com/plus3/perfui/ecs"
	"github.com/plus3/perfui/ecsoverlay"
	"github.com/plus3/perfui/entries"
)

type fixed struct {
	label string
	calls int
}

func (f *fixed) Label() string { return f.label }

func (f *fixed) UpdateValue(perfui.Sources) (int, bool) {
	f.calls++
	return 7, true
}

func (f *fixed) FormatValue(v int) string { return perfui.FormatInt(2, int64(v)) }

// listWidget is stored by value and holds a slice, so it cannot be
// compared with ==.
type listWidget struct {
	labels []string
}

func (w listWidget) Label() string  { return w.labels[0] }
func (w listWidget) SortKey() int64 { return 0 }

func (w listWidget) Spawn(b *perfui.Builder) perfui.Parts {
	return perfui.Parts{Label: b.Label(w.labels[0])}
}

func (w listWidget) Update(*perfui.Updater, perfui.Parts) bool { return false }

type world struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	system    *ecsoverlay.OverlaySystem
}

func newWorld() *world {
	registry := ecs.NewComponentRegistry()
	ecsoverlay.Register(registry)
	storage := ecs.NewStorage(registry)
	w := &world{
		storage:   storage,
		scheduler: ecs.NewScheduler(storage),
		system:    &ecsoverlay.OverlaySystem{},
	}
	w.scheduler.Register(w.system)
	return w
}

func labels(o *perfui.Overlay) []string {
	var out []string
	for _, row := range o.Tree().Children(o.Panel()) {
		kids := o.Tree().Children(row)
		if e, ok := o.Tree().Get(kids[0]); ok {
			out = append(out, e.Text)
		}
	}
	return out
}

func TestOverlaySystem(t *testing.T) {
	t.Run("spawned rows are rendered in order", func(t *testing.T) {
		w := newWorld()
		root := ecsoverlay.Spawn(w.storage, perfui.DefaultRoot(),
			perfui.Text[int](&fixed{label: "a"}),
			perfui.Text[int](&fixed{label: "b"}),
		)
		ecsoverlay.SpawnRow(w.storage, root, perfui.Text[int](&fixed{label: "c"}))

		w.scheduler.Once(0.016)

		o, ok := w.system.Overlay(root)
		require.True(t, ok)
		assert.Equal(t, []string{"a: ", "b: ", "c: "}, labels(o))
		assert.Len(t, w.system.Overlays(), 1)
	})

	t.Run("deleting a row entity removes its subtree next pass", func(t *testing.T) {
		w := newWorld()
		root := ecsoverlay.Spawn(w.storage, perfui.DefaultRoot(), perfui.Text[int](&fixed{label: "keep"}))
		gone := ecsoverlay.SpawnRow(w.storage, root, perfui.Text[int](&fixed{label: "gone"}))

		w.scheduler.Once(0.016)
		o, _ := w.system.Overlay(root)
		before := o.Tracked()

		w.storage.Delete(gone)
		w.scheduler.Once(0.016)

		assert.Equal(t, []string{"keep: "}, labels(o))
		assert.Less(t, o.Tracked(), before)
		assert.Len(t, o.Rows(), 1)
	})

	t.Run("hidden roots stop updates and skip the system", func(t *testing.T) {
		w := newWorld()
		entry := &fixed{label: "x"}
		root := ecsoverlay.Spawn(w.storage, perfui.DefaultRoot(), perfui.Text[int](entry))
		w.scheduler.Once(0.016)
		require.Equal(t, 1, entry.calls)

		ecs.ReadComponent[ecsoverlay.Root](w.storage, root.Id).Hidden = true
		for range 10 {
			w.scheduler.Once(0.016)
		}

		assert.Equal(t, 1, entry.calls)
		o, _ := w.system.Overlay(root)
		assert.False(t, o.Visible())
		stats := w.scheduler.GetStats()
		assert.Equal(t, int64(9), stats.Systems[0].SkipCount, "the first hidden frame still applies the state")

		ecs.ReadComponent[ecsoverlay.Root](w.storage, root.Id).Hidden = false
		w.scheduler.Once(0.016)
		assert.Equal(t, 2, entry.calls)
		assert.True(t, o.Visible())
	})

	t.Run("deleting the root drops the overlay", func(t *testing.T) {
		w := newWorld()
		root := ecsoverlay.Spawn(w.storage, perfui.DefaultRoot(), perfui.Text[int](&fixed{label: "x"}))
		w.scheduler.Once(0.016)

		w.storage.Delete(root.Id)
		ecsoverlay.Spawn(w.storage, perfui.DefaultRoot())
		w.scheduler.Once(0.016)

		_, ok := w.system.Overlay(root)
		assert.False(t, ok)
		assert.Len(t, w.system.Overlays(), 1)
	})

	t.Run("config changes respawn rows", func(t *testing.T) {
		w := newWorld()
		root := ecsoverlay.Spawn(w.storage, perfui.DefaultRoot(), perfui.Text[int](&fixed{label: "x"}))
		w.scheduler.Once(0.016)

		cfg := perfui.DefaultRoot()
		cfg.DisplayLabels = false
		ecs.ReadComponent[ecsoverlay.Root](w.storage, root.Id).Config = cfg
		w.scheduler.Once(0.016)

		o, _ := w.system.Overlay(root)
		assert.Equal(t, []string{" 7"}, labels(o), "only the value is left")
		require.Len(t, o.Rows(), 1)
		kids := o.Tree().Children(o.RowElement(o.Rows()[0]))
		require.Len(t, kids, 1)
		value, _ := o.Tree().Get(kids[0])
		assert.Equal(t, " 7", value.Text)
	})

	t.Run("entries read the diagnostics singleton", func(t *testing.T) {
		w := newWorld()
		store := diag.NewStore()
		store.Add(diag.EntityCount, 12, time.Now())
		w.storage.AddSingleton(store)

		root := ecsoverlay.Spawn(w.storage, perfui.DefaultRoot(), perfui.Text[float64](entries.NewEntityCount()))
		w.scheduler.Once(0.016)

		o, _ := w.system.Overlay(root)
		kids := o.Tree().Children(o.RowElement(o.Rows()[0]))
		value, _ := o.Tree().Get(kids[1])
		assert.Equal(t, "    12", value.Text)
	})

	t.Run("widgets held by value with slices", func(t *testing.T) {
		w := newWorld()
		root := ecsoverlay.Spawn(w.storage, perfui.DefaultRoot())
		id := ecsoverlay.SpawnRow(w.storage, root, listWidget{labels: []string{"list"}})

		require.NotPanics(t, func() { w.scheduler.Once(0.016) })
		o, _ := w.system.Overlay(root)
		require.Len(t, o.Rows(), 1)
		first := o.Rows()[0]

		require.NotPanics(t, func() { w.scheduler.Once(0.016) })
		assert.Equal(t, []perfui.RowID{first}, o.Rows(), "an unchanged widget keeps its row")

		ecs.ReadComponent[ecsoverlay.Row](w.storage, id).Widget = listWidget{labels: []string{"other"}}
		w.scheduler.Once(0.016)
		assert.Equal(t, []string{"other: "}, labels(o))
		assert.NotEqual(t, []perfui.RowID{first}, o.Rows())
	})
}
