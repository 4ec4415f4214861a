// Package ecsoverlay attaches perfui overlays to an ECS world. An overlay
// is a Root entity; each Row entity points at its root and carries the
// widget to show. OverlaySystem keeps one perfui.Overlay per root in step
// with the entities every frame.
package ecsoverlay

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/plus3/perfui"
	"github.com/plus3/perfui/diag"
	"github.com/plus3/perfui/ecs"
)

// Root marks an overlay entity.
type Root struct {
	Config perfui.Root
	Hidden bool
}

// Row attaches Widget to the overlay of the Root entity.
type Row struct {
	Root   *ecs.EntityRef
	Widget perfui.Widget
	// Key orders rows that are discovered in the same frame. Spawn fills
	// it with perfui.NextSortKey.
	Key int64
}

// Services is an optional singleton with the clock and window sources
// passed to entries.
type Services struct {
	Clock  perfui.Clock
	Window perfui.WindowState
}

// Register registers the overlay components.
func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Root](registry)
	ecs.RegisterComponent[Row](registry)
}

// Spawn creates a root entity configured with cfg and one row per widget,
// in order. It returns the root's reference.
func Spawn(storage *ecs.Storage, cfg perfui.Root, widgets ...perfui.Widget) *ecs.EntityRef {
	root := storage.CreateEntityRef(storage.Spawn(Root{Config: cfg}))
	for _, w := range widgets {
		SpawnRow(storage, root, w)
	}
	return root
}

// SpawnRow adds a row showing w to the overlay of root.
func SpawnRow(storage *ecs.Storage, root *ecs.EntityRef, w perfui.Widget) ecs.EntityId {
	return storage.Spawn(Row{Root: root, Widget: w, Key: perfui.NextSortKey()})
}

type attachedRow struct {
	id     perfui.RowID
	widget perfui.Widget
	seen   bool
}

type tracked struct {
	seq     uint64
	root    *ecs.EntityRef
	config  perfui.Root
	overlay *perfui.Overlay
	rows    map[*ecs.EntityRef]*attachedRow
	seen    bool
}

type pendingRow struct {
	ref *ecs.EntityRef
	row Row
	t   *tracked
}

// OverlaySystem reconciles Root and Row entities with perfui overlays and
// ticks them. It reads the diag.Store and Services singletons when present.
type OverlaySystem struct {
	Roots       ecs.Query[struct{ *Root }]
	Rows        ecs.Query[struct{ *Row }]
	Diagnostics ecs.Singleton[diag.Store]
	Services    ecs.Singleton[Services]

	overlays map[*ecs.EntityRef]*tracked
	nextSeq  uint64
	pending  []pendingRow
}

// ShouldRun skips the frame while no overlay is shown: every root is hidden
// and the hidden state has already been applied.
func (s *OverlaySystem) ShouldRun(frame *ecs.UpdateFrame) bool {
	for item := range s.Roots.Values() {
		if !item.Hidden {
			return true
		}
	}
	for _, t := range s.overlays {
		if t.overlay.Visible() {
			return true
		}
	}
	return false
}

func (s *OverlaySystem) Execute(frame *ecs.UpdateFrame) {
	if s.overlays == nil {
		s.overlays = make(map[*ecs.EntityRef]*tracked)
	}
	storage := frame.Storage
	log := perfui.Logger()

	for _, t := range s.overlays {
		t.seen = false
		for _, r := range t.rows {
			r.seen = false
		}
	}

	for id, item := range s.Roots.Iter() {
		ref := storage.CreateEntityRef(id)
		t, ok := s.overlays[ref]
		if !ok {
			s.nextSeq++
			t = &tracked{
				seq:     s.nextSeq,
				root:    ref,
				config:  item.Config,
				overlay: perfui.New(item.Config),
				rows:    make(map[*ecs.EntityRef]*attachedRow),
			}
			s.overlays[ref] = t
			log.Debug("overlay created", "entity", id)
		} else if t.config != item.Config {
			t.config = item.Config
			t.overlay.Configure(item.Config)
		}
		t.overlay.SetVisible(!item.Hidden)
		t.seen = true
	}

	for ref, t := range s.overlays {
		if !t.seen {
			delete(s.overlays, ref)
			log.Debug("overlay dropped", "rows", len(t.rows))
		}
	}

	s.pending = s.pending[:0]
	for id, item := range s.Rows.Iter() {
		t, ok := s.overlays[item.Root]
		if !ok || item.Widget == nil {
			continue
		}
		ref := storage.CreateEntityRef(id)
		if r, ok := t.rows[ref]; ok && sameWidget(r.widget, item.Widget) {
			r.seen = true
			continue
		}
		s.pending = append(s.pending, pendingRow{ref: ref, row: *item.Row, t: t})
	}

	for _, t := range s.overlays {
		for ref, r := range t.rows {
			if !r.seen {
				t.overlay.Detach(r.id)
				delete(t.rows, ref)
			}
		}
	}

	slices.SortStableFunc(s.pending, func(a, b pendingRow) int { return cmp.Compare(a.row.Key, b.row.Key) })
	for _, p := range s.pending {
		p.t.rows[p.ref] = &attachedRow{
			id:     p.t.overlay.Attach(p.row.Widget),
			widget: p.row.Widget,
			seen:   true,
		}
	}

	src := s.sources()
	for _, t := range s.overlays {
		t.overlay.Tick(src)
	}
}

// sameWidget reports whether a row still carries the widget it was attached
// with. Widgets stored by value may hold slices or maps, so they are only
// compared with == when their dynamic value allows it.
func sameWidget(a, b perfui.Widget) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return reflect.DeepEqual(a, b)
}

func (s *OverlaySystem) sources() perfui.Sources {
	var src perfui.Sources
	if store := s.Diagnostics.Get(); store != nil {
		src.Diagnostics = store
	}
	if svc := s.Services.Get(); svc != nil {
		src.Clock = svc.Clock
		src.Window = svc.Window
	}
	return src
}

// Overlays returns the live overlays in the order their roots were first
// seen.
func (s *OverlaySystem) Overlays() []*perfui.Overlay {
	list := make([]*tracked, 0, len(s.overlays))
	for _, t := range s.overlays {
		list = append(list, t)
	}
	slices.SortFunc(list, func(a, b *tracked) int { return cmp.Compare(a.seq, b.seq) })

	out := make([]*perfui.Overlay, len(list))
	for i, t := range list {
		out[i] = t.overlay
	}
	return out
}

// Overlay returns the overlay of the given root.
func (s *OverlaySystem) Overlay(root *ecs.EntityRef) (*perfui.Overlay, bool) {
	t, ok := s.overlays[root]
	if !ok {
		return nil, false
	}
	return t.overlay, true
}
