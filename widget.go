package perfui

import "strings"

// Widget renders one entry as elements under a row.
//
// Spawn creates the row's elements once. Update is called every frame the
// overlay is visible; it must only write through the Updater setters so that
// repeated updates with an unchanged value cost no tree revisions. It
// returns whether the row should be highlighted.
type Widget interface {
	Label() string
	SortKey() int64
	Spawn(b *Builder) Parts
	Update(u *Updater, p Parts) bool
}

// Parts records the elements a widget owns inside its row.
type Parts struct {
	Label ElementID
	Value ElementID
	Bar   ElementID
	Fill  ElementID
}

// Builder spawns elements for a new row.
type Builder struct {
	tree *Tree
	root *Root
	row  ElementID
}

func (b *Builder) Root() *Root    { return b.root }
func (b *Builder) Row() ElementID { return b.row }

// Spawn adds e under parent. A zero parent means the row.
func (b *Builder) Spawn(parent ElementID, e Element) ElementID {
	if parent == 0 {
		parent = b.row
	}
	return b.tree.Spawn(parent, e)
}

// Label spawns the label column text when the root shows labels and
// returns zero otherwise.
func (b *Builder) Label(text string) ElementID {
	if !b.root.DisplayLabels {
		return 0
	}
	return b.Spawn(0, Element{
		Kind:     KindText,
		Role:     RoleLabel,
		Text:     text + ": ",
		Color:    b.root.LabelColor,
		Font:     b.root.FontLabel,
		FontSize: b.root.FontSizeLabel,
	})
}

// Value spawns a value text element showing the placeholder until the
// first update.
func (b *Builder) Value(parent ElementID, align Align) ElementID {
	return b.Spawn(parent, Element{
		Kind:     KindText,
		Role:     RoleValue,
		Text:     strings.TrimSpace(b.root.TextErr),
		Color:    b.root.ErrColor,
		Font:     b.root.FontValue,
		FontSize: b.root.FontSizeValue,
		Align:    align,
	})
}

// Updater gives widgets access to the frame's sources and the tree setters.
type Updater struct {
	tree *Tree
	root *Root
	src  Sources

	// Per-row state of the widget being updated.
	held   bool
	last   bool
	missed bool
}

func (u *Updater) Root() *Root      { return u.root }
func (u *Updater) Sources() Sources { return u.src }
func (u *Updater) Tree() *Tree      { return u.tree }

// SetValueText writes a formatted value and its styling.
func (u *Updater) SetValueText(id ElementID, text string, c Color, highlight bool) {
	if id == 0 {
		return
	}
	u.tree.SetText(id, text)
	u.tree.SetColor(id, c)
	u.tree.SetFont(id, u.root.valueFont(highlight), highlight)
}

// SetUnavailable shows the placeholder in the error color.
func (u *Updater) SetUnavailable(id ElementID) {
	u.missed = true
	u.SetValueText(id, strings.TrimSpace(u.root.TextErr), u.root.ErrColor, false)
}

// Hold is called by a widget whose entry has no value this frame. When
// ok, the row keeps what it shows and the widget should return
// highlight unchanged.
func (u *Updater) Hold() (highlight, ok bool) {
	u.missed = true
	return u.last, u.held && u.root.HoldLastValue
}

// TextWidget shows an entry as a label and a right-aligned value.
type TextWidget[V any] struct {
	Entry Entry[V]
	// Key orders the row; zero keeps attach order.
	Key int64
}

// Text wraps e in a text widget.
func Text[V any](e Entry[V]) *TextWidget[V] {
	w := &TextWidget[V]{Entry: e}
	if s, ok := e.(Sorter); ok {
		w.Key = s.SortKey()
	}
	return w
}

func (w *TextWidget[V]) Label() string  { return w.Entry.Label() }
func (w *TextWidget[V]) SortKey() int64 { return w.Key }

// WidthHint forwards the entry's hint.
func (w *TextWidget[V]) WidthHint() int {
	if h, ok := w.Entry.(WidthHinter); ok {
		return h.WidthHint()
	}
	return 0
}

func (w *TextWidget[V]) Spawn(b *Builder) Parts {
	return Parts{
		Label: b.Label(w.Entry.Label()),
		Value: b.Value(0, AlignEnd),
	}
}

func (w *TextWidget[V]) Update(u *Updater, p Parts) bool {
	v, ok := w.Entry.UpdateValue(u.src)
	if !ok {
		if h, held := u.Hold(); held {
			return h
		}
		u.SetUnavailable(p.Value)
		return false
	}
	highlight := EntryHighlight(w.Entry, v)
	u.SetValueText(p.Value, w.Entry.FormatValue(v), EntryColor(w.Entry, v, u.root), highlight)
	return highlight
}

// EntryHighlight reports whether e flags v.
func EntryHighlight[V any](e Entry[V], v V) bool {
	if h, ok := e.(ValueHighlighter[V]); ok {
		return h.ValueHighlight(v)
	}
	return false
}

// EntryColor returns e's color for v, or the root default.
func EntryColor[V any](e Entry[V], v V, root *Root) Color {
	if c, ok := e.(ValueColorer[V]); ok {
		if col, ok := c.ValueColor(v); ok {
			return col
		}
	}
	return root.DefaultValueColor
}
