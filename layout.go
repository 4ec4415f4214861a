package perfui

// Rect is a box in viewport pixels.
type Rect struct {
	X, Y, W, H float32
}

// Inset shrinks r by dx on the left and right and dy on the top and bottom.
func (r Rect) Inset(dx, dy float32) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: max(r.W-2*dx, 0), H: max(r.H-2*dy, 0)}
}

// Measurer reports the size of rendered text.
type Measurer interface {
	Measure(text string, font Font, size float32) (w, h float32)
}

const (
	cellPad      = 4
	minBarLength = 64
)

type rowSize struct {
	id           ElementID
	label, value float32
	// hinted is the value width implied by the row's width hint; zero
	// when the row has none.
	hinted       float32
	height       float32
	outsideText  ElementID
	outsideTextW float32
}

// Layout positions the elements of an overlay. It keeps its buffers between
// calls so a steady-state frame does not allocate.
type Layout struct {
	rects map[ElementID]Rect
	sizes []rowSize
}

func NewLayout() *Layout {
	return &Layout{rects: make(map[ElementID]Rect)}
}

// Rect returns the box computed for id by the last Compute.
func (l *Layout) Rect(id ElementID) (Rect, bool) {
	r, ok := l.rects[id]
	return r, ok
}

// Compute lays out o inside a viewport of the given size and returns the
// panel box. A hidden overlay yields an empty box.
func (l *Layout) Compute(o *Overlay, viewW, viewH float32, m Measurer) Rect {
	clear(l.rects)
	l.sizes = l.sizes[:0]

	t, root := o.tree, &o.root
	panel, ok := t.Get(o.panel)
	if !ok || panel.Hidden {
		return Rect{}
	}

	var labelCol, measured, hinted, lineH float32
	for _, id := range panel.Children {
		rs := l.measureRow(t, id, m)
		l.sizes = append(l.sizes, rs)
		labelCol = max(labelCol, rs.label)
		measured = max(measured, rs.value)
		hinted = max(hinted, rs.hinted)
		lineH = max(lineH, rs.height)
	}
	valueCol := measured
	switch {
	case root.ValuesColWidth > 0:
		valueCol = root.ValuesColWidth
	case hinted > 0:
		valueCol = hinted
	}

	vertical := root.Direction == Vertical
	ip, im, pad := root.InnerPadding, root.InnerMargin, root.Padding
	rowW := func(rs *rowSize) float32 {
		if vertical {
			return labelCol + valueCol + 2*ip
		}
		return rs.label + valueCol + 2*ip
	}
	rowH := lineH + 2*ip

	var contentW, contentH float32
	for i := range l.sizes {
		w := rowW(&l.sizes[i])
		if vertical {
			contentW = max(contentW, w+2*im)
			contentH += rowH + 2*im
		} else {
			contentW += w + 2*im
			contentH = max(contentH, rowH+2*im)
		}
	}

	box := Rect{W: contentW + 2*pad, H: contentH + 2*pad}
	switch root.Position {
	case TopLeft:
		box.X, box.Y = root.Margin, root.Margin
	case TopRight:
		box.X, box.Y = viewW-root.Margin-box.W, root.Margin
	case BottomLeft:
		box.X, box.Y = root.Margin, viewH-root.Margin-box.H
	case BottomRight:
		box.X, box.Y = viewW-root.Margin-box.W, viewH-root.Margin-box.H
	}
	l.rects[o.panel] = box

	x, y := box.X+pad+im, box.Y+pad+im
	for i := range l.sizes {
		rs := &l.sizes[i]
		r := Rect{X: x, Y: y, W: rowW(rs), H: rowH}
		l.rects[rs.id] = r

		label := labelCol
		if !vertical {
			label = rs.label
		}
		l.placeRow(t, rs, r.Inset(ip, ip), label, valueCol)

		if vertical {
			y += rowH + 2*im
		} else {
			x += r.W + 2*im
		}
	}
	return box
}

func (l *Layout) measureRow(t *Tree, id ElementID, m Measurer) rowSize {
	rs := rowSize{id: id}
	var text, bar, digit float32
	for _, cid := range t.Children(id) {
		c, ok := t.Get(cid)
		if !ok {
			continue
		}
		switch c.Kind {
		case KindText:
			w, h := m.Measure(c.Text, c.Font, c.FontSize)
			rs.height = max(rs.height, h+cellPad)
			if c.Role == RoleLabel {
				rs.label = w + 2*cellPad
				continue
			}
			if digit == 0 {
				digit, _ = m.Measure("0", c.Font, c.FontSize)
			}
			if c.Outside {
				rs.outsideText, rs.outsideTextW = cid, w
			} else {
				text = max(text, w)
			}
		case KindBar:
			length := c.Width
			if length <= 0 {
				length = minBarLength
			}
			bar = max(bar, length)
			rs.height = max(rs.height, c.Height+cellPad)
			for _, bid := range c.Children {
				if bt, ok := t.Get(bid); ok && bt.Kind == KindText {
					_, h := m.Measure(bt.Text, bt.Font, bt.FontSize)
					rs.height = max(rs.height, h+cellPad)
					if digit == 0 {
						digit, _ = m.Measure("0", bt.Font, bt.FontSize)
					}
				}
			}
		}
	}
	rs.value = max(text, bar) + 2*cellPad
	if rs.outsideText != 0 {
		rs.value += rs.outsideTextW + cellPad
	}

	if row, ok := t.Get(id); ok && row.WidthHint > 0 {
		hw := float32(row.WidthHint) * digit
		rs.hinted = max(hw, bar) + 2*cellPad
		if rs.outsideText != 0 {
			rs.hinted += hw + cellPad
		}
	}
	return rs
}

func (l *Layout) placeRow(t *Tree, rs *rowSize, inner Rect, labelW, valueW float32) {
	cell := Rect{X: inner.X + labelW, Y: inner.Y, W: valueW, H: inner.H}
	area := cell.Inset(cellPad, 0)

	if rs.outsideText != 0 {
		ot, _ := t.Get(rs.outsideText)
		tw := min(rs.outsideTextW, area.W)
		if ot.Align == AlignStart {
			l.rects[ot.ID] = Rect{X: area.X, Y: area.Y, W: tw, H: area.H}
			area.X += tw + cellPad
		} else {
			l.rects[ot.ID] = Rect{X: area.X + area.W - tw, Y: area.Y, W: tw, H: area.H}
		}
		area.W = max(area.W-tw-cellPad, 0)
	}

	for _, cid := range t.Children(rs.id) {
		c, ok := t.Get(cid)
		if !ok {
			continue
		}
		switch {
		case c.Kind == KindText && c.Role == RoleLabel:
			l.rects[cid] = Rect{X: inner.X, Y: inner.Y, W: labelW, H: inner.H}.Inset(cellPad, 0)
		case c.Kind == KindText && !c.Outside:
			l.rects[cid] = area
		case c.Kind == KindBar:
			l.placeBar(t, c, area)
		}
	}
}

func (l *Layout) placeBar(t *Tree, bar *Element, area Rect) {
	r := area.Inset(0, cellPad/2)
	if bar.Width > 0 && bar.Width < r.W {
		r.W = bar.Width
	}
	if bar.Height > 0 && bar.Height < r.H {
		r.Y += (r.H - bar.Height) / 2
		r.H = bar.Height
	}
	l.rects[bar.ID] = r

	inner := r.Inset(bar.BorderWidth, bar.BorderWidth)
	for _, cid := range bar.Children {
		c, ok := t.Get(cid)
		if !ok {
			continue
		}
		switch c.Kind {
		case KindFill:
			l.rects[cid] = Rect{
				X: inner.X + c.FillStart*inner.W,
				Y: inner.Y,
				W: (c.FillEnd - c.FillStart) * inner.W,
				H: inner.H,
			}
		case KindText:
			l.rects[cid] = inner.Inset(cellPad, 0)
		}
	}
}
