package perfui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree(t *testing.T) {
	t.Run("spawn and despawn recursively", func(t *testing.T) {
		tr := NewTree()
		root := tr.Spawn(0, Element{Kind: KindPanel})
		row := tr.Spawn(root, Element{Kind: KindRow})
		bar := tr.Spawn(row, Element{Kind: KindBar})
		tr.Spawn(bar, Element{Kind: KindFill})
		tr.Spawn(row, Element{Kind: KindText})

		assert.Equal(t, 5, tr.Len())
		assert.Equal(t, []ElementID{row}, tr.Children(root))

		assert.Equal(t, 4, tr.Despawn(row))
		assert.Equal(t, 1, tr.Len())
		assert.Empty(t, tr.Children(root))
		assert.Equal(t, 0, tr.Despawn(row))
	})

	t.Run("setters only bump revision on change", func(t *testing.T) {
		tr := NewTree()
		id := tr.Spawn(0, Element{Kind: KindText})
		rev := tr.Revision()

		assert.True(t, tr.SetText(id, "60"))
		assert.False(t, tr.SetText(id, "60"))
		assert.True(t, tr.SetColor(id, Red))
		assert.False(t, tr.SetColor(id, Red))
		assert.True(t, tr.SetFont(id, "mono", true))
		assert.False(t, tr.SetFont(id, "mono", true))
		assert.True(t, tr.SetFill(id, 0, 0.5))
		assert.False(t, tr.SetFill(id, 0, 0.5))
		assert.True(t, tr.SetBackground(id, Black))
		assert.False(t, tr.SetBackground(id, Black))

		assert.Equal(t, rev+5, tr.Revision())
		assert.False(t, tr.SetText(999, "x"))
	})

	t.Run("reorder", func(t *testing.T) {
		tr := NewTree()
		p := tr.Spawn(0, Element{})
		a := tr.Spawn(p, Element{})
		b := tr.Spawn(p, Element{})

		assert.False(t, tr.Reorder(p, []ElementID{a, b}))
		assert.True(t, tr.Reorder(p, []ElementID{b, a}))
		assert.Equal(t, []ElementID{b, a}, tr.Children(p))
		assert.False(t, tr.Reorder(p, []ElementID{b, 77}))
		assert.False(t, tr.Reorder(p, []ElementID{b}))
	})

	t.Run("walk skips hidden", func(t *testing.T) {
		tr := NewTree()
		p := tr.Spawn(0, Element{Text: "p"})
		a := tr.Spawn(p, Element{Text: "a"})
		tr.Spawn(a, Element{Text: "a1"})
		b := tr.Spawn(p, Element{Text: "b"})
		tr.SetHidden(b, true)

		var seen []string
		var depths []int
		tr.Walk(p, func(e *Element, depth int) bool {
			seen = append(seen, e.Text)
			depths = append(depths, depth)
			return true
		})
		assert.Equal(t, []string{"p", "a", "a1"}, seen)
		assert.Equal(t, []int{0, 1, 2}, depths)

		seen = seen[:0]
		tr.Walk(p, func(e *Element, _ int) bool {
			seen = append(seen, e.Text)
			return e.ID == p
		})
		assert.Equal(t, []string{"p", "a"}, seen)
	})

	t.Run("get", func(t *testing.T) {
		tr := NewTree()
		id := tr.Spawn(0, Element{Kind: KindBar, Width: 10})
		e, ok := tr.Get(id)
		require.True(t, ok)
		assert.Equal(t, id, e.ID)
		assert.Equal(t, float32(10), e.Width)
	})
}
