package perfui

type constEntry struct {
	label     string
	value     float64
	missing   bool
	threshold float64
	color     *Color
	key       int64
	calls     int
}

func (e *constEntry) Label() string { return e.label }

func (e *constEntry) UpdateValue(Sources) (float64, bool) {
	e.calls++
	return e.value, !e.missing
}

func (e *constEntry) FormatValue(v float64) string { return FormatFloat(3, 1, v) }

func (e *constEntry) ValueHighlight(v float64) bool {
	return e.threshold > 0 && v > e.threshold
}

func (e *constEntry) ValueColor(float64) (Color, bool) {
	if e.color == nil {
		return Color{}, false
	}
	return *e.color, true
}

func (e *constEntry) SortKey() int64 { return e.key }

type hintedEntry struct {
	constEntry
	hint int
}

func (e *hintedEntry) WidthHint() int { return e.hint }

// rowTexts returns the texts of the row's children in order.
func rowTexts(o *Overlay, id RowID) []string {
	var out []string
	for _, c := range o.Tree().Children(o.RowElement(id)) {
		if e, ok := o.Tree().Get(c); ok {
			out = append(out, e.Text)
		}
	}
	return out
}

// panelLabels returns the label text of every rendered row in display order.
func panelLabels(o *Overlay) []string {
	var out []string
	for _, rid := range o.Tree().Children(o.Panel()) {
		kids := o.Tree().Children(rid)
		if len(kids) == 0 {
			continue
		}
		e, _ := o.Tree().Get(kids[0])
		out = append(out, e.Text)
	}
	return out
}

type monoMeasurer struct{}

func (monoMeasurer) Measure(text string, _ Font, _ float32) (float32, float32) {
	return float32(len(text)) * 7, 13
}
