package perfui

import (
	"slices"

	"github.com/kamstrup/intmap"
)

// ElementID identifies an element in a Tree. Zero is never assigned.
type ElementID uint32

// ElementKind tells renderers how to draw an element.
type ElementKind uint8

const (
	KindPanel ElementKind = iota
	KindRow
	KindText
	KindBar
	KindFill
)

// Role describes what a text element shows.
type Role uint8

const (
	RoleNone Role = iota
	RoleLabel
	RoleValue
)

// Align positions text within its box.
type Align uint8

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

// Element is a node of the rendered overlay. Widgets create and update
// elements through the Tree setters; renderers only read them.
type Element struct {
	ID       ElementID
	Kind     ElementKind
	Role     Role
	Parent   ElementID
	Children []ElementID

	Text     string
	Color    Color
	Font     Font
	FontSize float32
	Emphasis bool
	Align    Align

	Background  Color
	Border      Color
	BorderWidth float32

	// FillStart and FillEnd are fractions of the parent bar covered by a
	// KindFill element.
	FillStart, FillEnd float32

	// Width and Height fix the element size in pixels; zero is automatic.
	Width, Height float32
	// Outside places bar text next to the bar instead of on top of it.
	Outside bool
	// WidthHint is the widest value of a row in characters, taken from a
	// WidthHinter widget. Zero leaves the row out of value column sizing.
	WidthHint int

	Hidden bool
}

// Tree is an arena of elements. Setters report whether they changed
// anything and only then bump the revision, so renderers can skip work on
// frames where nothing moved.
type Tree struct {
	elems    *intmap.Map[ElementID, *Element]
	nextID   ElementID
	revision uint64
}

func NewTree() *Tree {
	return &Tree{elems: intmap.New[ElementID, *Element](64)}
}

// Spawn inserts e under parent (zero for a top-level element) and returns
// its id.
func (t *Tree) Spawn(parent ElementID, e Element) ElementID {
	t.nextID++
	e.ID = t.nextID
	e.Parent = parent
	e.Children = nil
	t.elems.Put(e.ID, &e)
	if p, ok := t.elems.Get(parent); ok {
		p.Children = append(p.Children, e.ID)
	}
	t.revision++
	return e.ID
}

// Despawn removes id and all its descendants and returns how many
// elements were removed.
func (t *Tree) Despawn(id ElementID) int {
	e, ok := t.elems.Get(id)
	if !ok {
		return 0
	}
	if p, ok := t.elems.Get(e.Parent); ok {
		if i := slices.Index(p.Children, id); i >= 0 {
			p.Children = slices.Delete(p.Children, i, i+1)
		}
	}
	t.revision++
	return t.despawn(e)
}

func (t *Tree) despawn(e *Element) int {
	n := 1
	for _, c := range e.Children {
		if ce, ok := t.elems.Get(c); ok {
			n += t.despawn(ce)
		}
	}
	t.elems.Del(e.ID)
	return n
}

// Get returns the element for id. The pointer must be treated as read-only.
func (t *Tree) Get(id ElementID) (*Element, bool) {
	return t.elems.Get(id)
}

// Len is the number of live elements.
func (t *Tree) Len() int {
	return t.elems.Len()
}

// Revision increases whenever the tree changes.
func (t *Tree) Revision() uint64 {
	return t.revision
}

// Children returns the child ids of id in draw order.
func (t *Tree) Children(id ElementID) []ElementID {
	if e, ok := t.elems.Get(id); ok {
		return e.Children
	}
	return nil
}

// Reorder sets the child order of parent. ids must be a permutation of the
// current children; anything else is ignored.
func (t *Tree) Reorder(parent ElementID, ids []ElementID) bool {
	p, ok := t.elems.Get(parent)
	if !ok || len(ids) != len(p.Children) || slices.Equal(ids, p.Children) {
		return false
	}
	for _, id := range ids {
		if !slices.Contains(p.Children, id) {
			return false
		}
	}
	p.Children = append(p.Children[:0], ids...)
	t.revision++
	return true
}

// Walk visits id and its visible descendants depth first. Returning false
// from fn skips the element's children.
func (t *Tree) Walk(id ElementID, fn func(e *Element, depth int) bool) {
	t.walk(id, 0, fn)
}

func (t *Tree) walk(id ElementID, depth int, fn func(*Element, int) bool) {
	e, ok := t.elems.Get(id)
	if !ok || e.Hidden {
		return
	}
	if !fn(e, depth) {
		return
	}
	for _, c := range e.Children {
		t.walk(c, depth+1, fn)
	}
}

func (t *Tree) update(id ElementID, changed func(e *Element) bool) bool {
	e, ok := t.elems.Get(id)
	if !ok || !changed(e) {
		return false
	}
	t.revision++
	return true
}

func (t *Tree) SetText(id ElementID, s string) bool {
	return t.update(id, func(e *Element) bool {
		if e.Text == s {
			return false
		}
		e.Text = s
		return true
	})
}

func (t *Tree) SetColor(id ElementID, c Color) bool {
	return t.update(id, func(e *Element) bool {
		if e.Color == c {
			return false
		}
		e.Color = c
		return true
	})
}

func (t *Tree) SetBackground(id ElementID, c Color) bool {
	return t.update(id, func(e *Element) bool {
		if e.Background == c {
			return false
		}
		e.Background = c
		return true
	})
}

// SetFont sets the font and whether the text is emphasized.
func (t *Tree) SetFont(id ElementID, f Font, emphasis bool) bool {
	return t.update(id, func(e *Element) bool {
		if e.Font == f && e.Emphasis == emphasis {
			return false
		}
		e.Font, e.Emphasis = f, emphasis
		return true
	})
}

// SetFill sets the covered span of a fill element.
func (t *Tree) SetFill(id ElementID, start, end float32) bool {
	return t.update(id, func(e *Element) bool {
		if e.FillStart == start && e.FillEnd == end {
			return false
		}
		e.FillStart, e.FillEnd = start, end
		return true
	})
}

func (t *Tree) SetHidden(id ElementID, hidden bool) bool {
	return t.update(id, func(e *Element) bool {
		if e.Hidden == hidden {
			return false
		}
		e.Hidden = hidden
		return true
	})
}
