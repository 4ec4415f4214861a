package perfui

// Direction controls how rows are stacked.
type Direction uint8

const (
	Vertical Direction = iota
	Horizontal
)

// Corner anchors the overlay panel to a viewport corner.
type Corner uint8

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// Font names a font registered with the renderer. The empty name selects
// the renderer's default font.
type Font string

// Root is the configuration of one overlay instance.
type Root struct {
	// Background fills the whole panel.
	Background Color
	// RowBackground and RowBackgroundHighlight fill each row depending on
	// whether its entry flagged the current value.
	RowBackground          Color
	RowBackgroundHighlight Color

	DisplayLabels bool
	Direction     Direction

	// TextErr is shown in ErrColor until a value is first available, and
	// whenever it is unavailable unless HoldLastValue is set.
	TextErr string
	// HoldLastValue keeps a row's last good value and highlight while its
	// entry is unavailable.
	HoldLastValue     bool
	ErrColor          Color
	DefaultValueColor Color
	LabelColor        Color

	FontLabel     Font
	FontValue     Font
	FontHighlight Font
	FontSizeLabel float32
	FontSizeValue float32

	Position     Corner
	Margin       float32
	Padding      float32
	InnerMargin  float32
	InnerPadding float32

	// ValuesColWidth fixes the width of the value column. Zero sizes it to
	// the widest width hint of the attached entries, or to the widest
	// measured value when no entry gives a hint.
	ValuesColWidth float32
}

// DefaultRoot returns a translucent panel in the top-right corner with
// labels shown and rows stacked vertically.
func DefaultRoot() Root {
	return Root{
		Background:             RGBA(0, 0, 0, 0.5),
		RowBackground:          Transparent,
		RowBackgroundHighlight: RGBA(1, 0, 0, 1.0/16.0),
		DisplayLabels:          true,
		Direction:              Vertical,
		TextErr:                "N/A",
		HoldLastValue:          true,
		ErrColor:               RGB(0.5, 0.5, 0.5),
		DefaultValueColor:      RGB(0.75, 0.75, 0.75),
		LabelColor:             White,
		FontSizeLabel:          12,
		FontSizeValue:          12,
		Position:               TopRight,
		Margin:                 16,
		Padding:                2,
		ValuesColWidth:         128,
	}
}

// rowBackground picks the row fill for the highlight state.
func (r *Root) rowBackground(highlight bool) Color {
	if highlight {
		return r.RowBackgroundHighlight
	}
	return r.RowBackground
}

// valueFont picks the value font for the highlight state.
func (r *Root) valueFont(highlight bool) Font {
	if highlight {
		return r.FontHighlight
	}
	return r.FontValue
}
