// Package ebiten draws perfui overlays on an ebiten screen and provides the
// clock and window sources backed by ebiten's state.
package ebiten

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/plus3/perfui"
	"github.com/plus3/perfui/diag"
)

// ElapsedCPU is the diagnostic the renderer records its own draw time
// under, in milliseconds. RenderCPUTime entries pick it up.
const ElapsedCPU diag.Path = "render/overlay/elapsed_cpu"

// basicSize is the pixel height basicfont.Face7x13 is designed for.
const basicSize = 13

type face struct {
	face text.Face
	size float32
}

// Renderer draws overlays. Fonts named in a Root are looked up among the
// registered faces; unknown names fall back to the built-in bitmap font.
type Renderer struct {
	faces       map[perfui.Font]face
	fallback    face
	layout      *perfui.Layout
	diagnostics *diag.Store
	warned      map[perfui.Font]bool
}

// NewRenderer returns a renderer recording its draw time into store, which
// may be nil.
func NewRenderer(store *diag.Store) *Renderer {
	return &Renderer{
		faces:       make(map[perfui.Font]face),
		fallback:    face{face: text.NewGoXFace(basicfont.Face7x13), size: basicSize},
		layout:      perfui.NewLayout(),
		diagnostics: store,
		warned:      make(map[perfui.Font]bool),
	}
}

// RegisterFont makes f available under name. size is the pixel size the
// face was created at; text is scaled from it to the requested size.
func (r *Renderer) RegisterFont(name perfui.Font, f text.Face, size float32) {
	r.faces[name] = face{face: f, size: size}
}

func (r *Renderer) lookup(name perfui.Font) face {
	if name == "" {
		return r.fallback
	}
	f, ok := r.faces[name]
	if !ok {
		if !r.warned[name] {
			r.warned[name] = true
			perfui.Logger().Warn("unknown font, using default", "font", string(name))
		}
		return r.fallback
	}
	return f
}

func scale(f face, size float32) float64 {
	if size <= 0 || f.size <= 0 {
		return 1
	}
	return float64(size / f.size)
}

// Measure implements perfui.Measurer.
func (r *Renderer) Measure(s string, font perfui.Font, size float32) (float32, float32) {
	f := r.lookup(font)
	w, h := text.Measure(s, f.face, 0)
	k := scale(f, size)
	return float32(w * k), float32(h * k)
}

// Layout exposes the boxes computed by the last Draw.
func (r *Renderer) Layout() *perfui.Layout {
	return r.layout
}

// Draw renders o over screen.
func (r *Renderer) Draw(screen *ebiten.Image, o *perfui.Overlay) {
	start := time.Now()
	bounds := screen.Bounds()
	panel := r.layout.Compute(o, float32(bounds.Dx()), float32(bounds.Dy()), r)
	if panel.W == 0 {
		return
	}

	o.Tree().Walk(o.Panel(), func(e *perfui.Element, _ int) bool {
		box, ok := r.layout.Rect(e.ID)
		if !ok {
			return true
		}
		switch e.Kind {
		case perfui.KindPanel, perfui.KindRow:
			fill(screen, box, e.Background)
		case perfui.KindBar:
			fill(screen, box, e.Background)
			if e.BorderWidth > 0 && e.Border.Visible() {
				vector.StrokeRect(screen, box.X, box.Y, box.W, box.H, e.BorderWidth, e.Border, false)
			}
		case perfui.KindFill:
			fill(screen, box, e.Color)
		case perfui.KindText:
			r.drawText(screen, e, box)
		}
		return true
	})

	if r.diagnostics != nil {
		elapsed := time.Since(start)
		r.diagnostics.Add(ElapsedCPU, float64(elapsed)/float64(time.Millisecond), start.Add(elapsed))
	}
}

func fill(screen *ebiten.Image, box perfui.Rect, c perfui.Color) {
	if !c.Visible() || box.W <= 0 || box.H <= 0 {
		return
	}
	vector.DrawFilledRect(screen, box.X, box.Y, box.W, box.H, c, false)
}

func (r *Renderer) drawText(screen *ebiten.Image, e *perfui.Element, box perfui.Rect) {
	if e.Text == "" || !e.Color.Visible() {
		return
	}
	f := r.lookup(e.Font)
	w, h := r.Measure(e.Text, e.Font, e.FontSize)
	x, y := place(box, w, h, e.Align)
	k := scale(f, e.FontSize)

	draw := func(dx float64) {
		op := &text.DrawOptions{}
		op.GeoM.Scale(k, k)
		op.GeoM.Translate(float64(x)+dx, float64(y))
		op.ColorScale.ScaleWithColor(color.Color(e.Color))
		text.Draw(screen, e.Text, f.face, op)
	}
	draw(0)
	if e.Emphasis {
		draw(1)
	}
}

// place aligns a w by h block horizontally inside box and centers it
// vertically.
func place(box perfui.Rect, w, h float32, align perfui.Align) (float32, float32) {
	x := box.X
	switch align {
	case perfui.AlignCenter:
		x += (box.W - w) / 2
	case perfui.AlignEnd:
		x += box.W - w
	}
	return x, box.Y + (box.H-h)/2
}
