package perfui

import (
	"cmp"
	"slices"

	"github.com/kamstrup/intmap"
)

// RowID identifies an attached widget within one Overlay.
type RowID uint32

type row struct {
	id     RowID
	seq    uint64
	widget Widget
	elem   ElementID
	parts  Parts
	// shown is set once the widget displayed a value.
	shown     bool
	highlight bool
}

// Overlay reconciles a set of attached widgets with the elements of its
// Tree. Attach and Detach only record intent; Tick applies them and
// refreshes every row's value. An Overlay is driven by a single goroutine.
type Overlay struct {
	root  Root
	tree  *Tree
	panel ElementID

	rows    *intmap.Map[RowID, *row]
	order   []*row
	removed []*row
	nextID  RowID
	nextSeq uint64

	visible    bool
	orderDirty bool
	updates    uint64

	builder Builder
	updater Updater
}

// New creates a visible overlay with no rows.
func New(root Root) *Overlay {
	o := &Overlay{
		tree:    NewTree(),
		rows:    intmap.New[RowID, *row](16),
		visible: true,
	}
	o.panel = o.tree.Spawn(0, Element{Kind: KindPanel})
	o.builder = Builder{tree: o.tree, root: &o.root}
	o.updater = Updater{tree: o.tree, root: &o.root}
	o.setRoot(root)
	return o
}

func (o *Overlay) setRoot(root Root) {
	o.root = root
	o.tree.SetBackground(o.panel, root.Background)
}

// Root returns the current configuration.
func (o *Overlay) Root() Root { return o.root }

// Tree returns the element tree for renderers.
func (o *Overlay) Tree() *Tree { return o.tree }

// Panel returns the top-level element holding the rows.
func (o *Overlay) Panel() ElementID { return o.panel }

// Attach registers w and returns its row id. Its elements are created on
// the next Tick. Rows are ordered by sort key, then by attach order.
func (o *Overlay) Attach(w Widget) RowID {
	o.nextID++
	o.nextSeq++
	r := &row{id: o.nextID, seq: o.nextSeq, widget: w}
	o.rows.Put(r.id, r)

	i, _ := slices.BinarySearchFunc(o.order, r, compareRows)
	o.order = slices.Insert(o.order, i, r)
	o.orderDirty = true
	return r.id
}

func compareRows(a, b *row) int {
	if c := cmp.Compare(a.widget.SortKey(), b.widget.SortKey()); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// Detach removes a row. Its elements are despawned on the next Tick.
// It reports whether id was attached.
func (o *Overlay) Detach(id RowID) bool {
	r, ok := o.rows.Get(id)
	if !ok {
		return false
	}
	o.rows.Del(id)
	if i := slices.Index(o.order, r); i >= 0 {
		o.order = slices.Delete(o.order, i, i+1)
	}
	if r.elem != 0 {
		o.removed = append(o.removed, r)
	}
	return true
}

// Configure replaces the root configuration. Every row is respawned on the
// next Tick so label visibility and fonts take effect.
func (o *Overlay) Configure(root Root) {
	for _, r := range o.order {
		if r.elem != 0 {
			o.tree.Despawn(r.elem)
			r.elem, r.parts, r.shown, r.highlight = 0, Parts{}, false, false
		}
	}
	o.setRoot(root)
	o.orderDirty = true
	Logger().Debug("overlay reconfigured", "rows", len(o.order))
}

// SetVisible shows or hides the overlay. A hidden overlay skips Tick
// entirely; no entry is evaluated until it is shown again.
func (o *Overlay) SetVisible(v bool) {
	o.visible = v
	o.tree.SetHidden(o.panel, !v)
}

func (o *Overlay) Visible() bool { return o.visible }

// Rows returns attached row ids in display order.
func (o *Overlay) Rows() []RowID {
	ids := make([]RowID, len(o.order))
	for i, r := range o.order {
		ids[i] = r.id
	}
	return ids
}

// Widget returns the widget attached as id.
func (o *Overlay) Widget(id RowID) (Widget, bool) {
	r, ok := o.rows.Get(id)
	if !ok {
		return nil, false
	}
	return r.widget, true
}

// RowElement returns the row element of id, zero before its first Tick.
func (o *Overlay) RowElement(id RowID) ElementID {
	if r, ok := o.rows.Get(id); ok {
		return r.elem
	}
	return 0
}

// Tracked is the number of rendered row subtrees, including detached
// rows awaiting removal.
func (o *Overlay) Tracked() int {
	n := len(o.removed)
	for _, r := range o.order {
		if r.elem != 0 {
			n++
		}
	}
	return n
}

// UpdateCount is the total number of widget updates performed.
func (o *Overlay) UpdateCount() uint64 { return o.updates }

// Tick runs one reconciliation pass: detached rows are despawned, new rows
// spawned, and every row updated from src. It does nothing while hidden.
func (o *Overlay) Tick(src Sources) {
	if !o.visible {
		return
	}

	for _, r := range o.removed {
		n := o.tree.Despawn(r.elem)
		Logger().Debug("row detached", "row", r.id, "label", r.widget.Label(), "elements", n)
	}
	clear(o.removed)
	o.removed = o.removed[:0]

	for _, r := range o.order {
		if r.elem == 0 {
			o.spawn(r)
		}
	}

	if o.orderDirty {
		ids := make([]ElementID, len(o.order))
		for i, r := range o.order {
			ids[i] = r.elem
		}
		o.tree.Reorder(o.panel, ids)
		o.orderDirty = false
	}

	o.updater.src = src
	for _, r := range o.order {
		o.updater.held, o.updater.last, o.updater.missed = r.shown, r.highlight, false
		highlight := r.widget.Update(&o.updater, r.parts)
		r.shown = r.shown || !o.updater.missed
		r.highlight = highlight
		o.tree.SetBackground(r.elem, o.root.rowBackground(highlight))
		o.updates++
	}
	o.updater.src = Sources{}
}

func (o *Overlay) spawn(r *row) {
	var hint int
	if h, ok := r.widget.(WidthHinter); ok {
		hint = max(h.WidthHint(), 0)
	}
	r.elem = o.tree.Spawn(o.panel, Element{
		Kind:       KindRow,
		Background: o.root.RowBackground,
		WidthHint:  hint,
	})
	o.builder.row = r.elem
	r.parts = r.widget.Spawn(&o.builder)
	o.orderDirty = true
	Logger().Debug("row attached", "row", r.id, "label", r.widget.Label())
}
