// Package config reads overlay layouts from YAML.
//
//	root: {direction: horizontal, display_labels: false, position: bottom-left, margin: 8}
//	entries:
//	  - kind: fps
//	    label: Frames
//	    widget: bar
//	    gradient: [{value: 30, color: "#ff0000"}, {value: 60, color: "#00ff00"}]
//	    highlight: 20
//	    window: 60
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/plus3/perfui"
	"github.com/plus3/perfui/entries"
	"github.com/plus3/perfui/widgets"
)

// FileName is the file LoadOptional looks for.
const FileName = "perfui.yaml"

var (
	ErrUnknownEntry  = errors.New("unknown entry kind")
	ErrUnknownWidget = errors.New("unknown widget")
	ErrNotNumeric    = errors.New("entry value is not numeric")
	ErrInvalidValue  = errors.New("invalid value")
)

// Config is an overlay layout: root settings and the rows to attach.
type Config struct {
	Root    RootConfig    `yaml:"root"`
	Entries []EntryConfig `yaml:"entries"`
}

// RootConfig overrides fields of perfui.DefaultRoot. Unset fields keep
// their defaults.
type RootConfig struct {
	Direction     string   `yaml:"direction,omitempty"`
	DisplayLabels *bool    `yaml:"display_labels,omitempty"`
	Position      string   `yaml:"position,omitempty"`
	Margin        *float32 `yaml:"margin,omitempty"`
	Padding       *float32 `yaml:"padding,omitempty"`
	Background    string   `yaml:"background,omitempty"`
	Highlight     string   `yaml:"highlight,omitempty"`
	TextErr       *string  `yaml:"text_err,omitempty"`
	HoldLastValue *bool    `yaml:"hold_last_value,omitempty"`
	ValuesWidth   *float32 `yaml:"values_width,omitempty"`
	FontLabel     string   `yaml:"font_label,omitempty"`
	FontValue     string   `yaml:"font_value,omitempty"`
	FontHighlight string   `yaml:"font_highlight,omitempty"`
	FontSize      *float32 `yaml:"font_size,omitempty"`
}

// EntryConfig selects a built-in entry and adjusts its style.
type EntryConfig struct {
	Kind   string `yaml:"kind"`
	Label  string `yaml:"label,omitempty"`
	Widget string `yaml:"widget,omitempty"`

	Gradient  []StopConfig `yaml:"gradient,omitempty"`
	Highlight *float64     `yaml:"highlight,omitempty"`
	// HighlightAbove picks the threshold direction. Unset keeps the
	// entry's own direction, or above for entries without one.
	HighlightAbove *bool    `yaml:"highlight_above,omitempty"`
	Max            *float64 `yaml:"max,omitempty"`

	Window    *int   `yaml:"window,omitempty"`
	Smoothed  *bool  `yaml:"smoothed,omitempty"`
	Digits    *uint8 `yaml:"digits,omitempty"`
	Precision *uint8 `yaml:"precision,omitempty"`
	Units     *bool  `yaml:"units,omitempty"`
	Order     int64  `yaml:"order,omitempty"`

	Bar *BarConfig `yaml:"bar,omitempty"`
}

// StopConfig is one gradient stop.
type StopConfig struct {
	Value float32 `yaml:"value"`
	Color string  `yaml:"color"`
}

// BarConfig adjusts widgets.DefaultBarStyle.
type BarConfig struct {
	Text     string       `yaml:"text,omitempty"`
	Fill     string       `yaml:"fill,omitempty"`
	Color    string       `yaml:"color,omitempty"`
	Gradient []StopConfig `yaml:"gradient,omitempty"`
	Length   float32      `yaml:"length,omitempty"`
	Height   float32      `yaml:"height,omitempty"`
	Min      *float64     `yaml:"min,omitempty"`
	Max      *float64     `yaml:"max,omitempty"`
}

// Parse decodes a YAML document. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty document decodes to the zero Config.
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse overlay config: %w", err)
	}
	return &cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional reads perfui.yaml from dir if present. A missing file
// yields the default layout.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Default is the layout used without a config file: every built-in entry
// as a text row.
func Default() *Config {
	cfg := &Config{}
	for _, k := range entries.Kinds() {
		cfg.Entries = append(cfg.Entries, EntryConfig{Kind: k})
	}
	return cfg
}

// Build resolves the config into a root and the widgets to attach, in
// file order.
func (c *Config) Build() (perfui.Root, []perfui.Widget, error) {
	root, err := c.Root.build()
	if err != nil {
		return perfui.Root{}, nil, err
	}
	ws := make([]perfui.Widget, 0, len(c.Entries))
	for i, ec := range c.Entries {
		w, err := ec.build()
		if err != nil {
			return perfui.Root{}, nil, fmt.Errorf("entry %d (%s): %w", i, ec.Kind, err)
		}
		ws = append(ws, w)
	}
	return root, ws, nil
}

func (rc *RootConfig) build() (perfui.Root, error) {
	root := perfui.DefaultRoot()

	switch rc.Direction {
	case "", "vertical":
	case "horizontal":
		root.Direction = perfui.Horizontal
	default:
		return root, fmt.Errorf("direction %q: %w", rc.Direction, ErrInvalidValue)
	}

	switch rc.Position {
	case "":
	case "top-left":
		root.Position = perfui.TopLeft
	case "top-right":
		root.Position = perfui.TopRight
	case "bottom-left":
		root.Position = perfui.BottomLeft
	case "bottom-right":
		root.Position = perfui.BottomRight
	default:
		return root, fmt.Errorf("position %q: %w", rc.Position, ErrInvalidValue)
	}

	if rc.DisplayLabels != nil {
		root.DisplayLabels = *rc.DisplayLabels
	}
	if rc.Margin != nil {
		root.Margin = *rc.Margin
	}
	if rc.Padding != nil {
		root.Padding = *rc.Padding
	}
	if rc.TextErr != nil {
		root.TextErr = *rc.TextErr
	}
	if rc.HoldLastValue != nil {
		root.HoldLastValue = *rc.HoldLastValue
	}
	if rc.ValuesWidth != nil {
		root.ValuesColWidth = *rc.ValuesWidth
	}
	if rc.FontSize != nil {
		root.FontSizeLabel, root.FontSizeValue = *rc.FontSize, *rc.FontSize
	}
	root.FontLabel = perfui.Font(rc.FontLabel)
	root.FontValue = perfui.Font(rc.FontValue)
	root.FontHighlight = perfui.Font(rc.FontHighlight)

	var err error
	if rc.Background != "" {
		if root.Background, err = perfui.Hex(rc.Background); err != nil {
			return root, fmt.Errorf("background: %w", err)
		}
	}
	if rc.Highlight != "" {
		if root.RowBackgroundHighlight, err = perfui.Hex(rc.Highlight); err != nil {
			return root, fmt.Errorf("highlight: %w", err)
		}
	}
	return root, nil
}

func (ec *EntryConfig) build() (perfui.Widget, error) {
	h, ok := entries.New(ec.Kind)
	if !ok {
		return nil, ErrUnknownEntry
	}

	if !h.Valued && (len(ec.Gradient) > 0 || ec.Highlight != nil || ec.HighlightAbove != nil || ec.Max != nil) {
		return nil, fmt.Errorf("value styling on %s: %w", ec.Kind, ErrInvalidValue)
	}

	s := h.Style
	if ec.Label != "" {
		s.Name = ec.Label
	}
	if len(ec.Gradient) > 0 {
		g, err := gradient(ec.Gradient)
		if err != nil {
			return nil, err
		}
		s.Gradient = g
	}
	if ec.Highlight != nil {
		above := s.Highlight.Above || !s.Highlight.Set
		if ec.HighlightAbove != nil {
			above = *ec.HighlightAbove
		}
		s.Highlight = entries.Threshold{Value: *ec.Highlight, Above: above, Set: true}
	}
	if ec.Max != nil {
		s.MaxHint = ec.Max
	}
	if ec.Digits != nil {
		s.Digits = *ec.Digits
	}
	if ec.Precision != nil {
		s.Precision = *ec.Precision
	}
	if ec.Units != nil {
		s.Units = *ec.Units
	}
	if ec.Order != 0 {
		s.Order = ec.Order
	}

	if ec.Window != nil {
		if h.Window == nil || *ec.Window <= 0 {
			return nil, fmt.Errorf("window %d: %w", *ec.Window, ErrInvalidValue)
		}
		*h.Window = *ec.Window
	}
	if ec.Smoothed != nil {
		if h.Smoothed == nil {
			return nil, fmt.Errorf("smoothed: %w", ErrInvalidValue)
		}
		*h.Smoothed = *ec.Smoothed
	}

	switch ec.Widget {
	case "", "text":
		if ec.Bar != nil {
			return nil, fmt.Errorf("bar settings on a text widget: %w", ErrInvalidValue)
		}
		return h.Text(), nil
	case "bar":
		style, err := ec.Bar.build()
		if err != nil {
			return nil, err
		}
		w, ok := h.Bar(style)
		if !ok {
			return nil, ErrNotNumeric
		}
		return w, nil
	default:
		return nil, fmt.Errorf("%q: %w", ec.Widget, ErrUnknownWidget)
	}
}

func (bc *BarConfig) build() (widgets.BarStyle, error) {
	s := widgets.DefaultBarStyle()
	if bc == nil {
		return s, nil
	}

	switch bc.Text {
	case "", "center":
	case "none":
		s.TextPosition = widgets.NoText
	case "start":
		s.TextPosition = widgets.TextStart
	case "end":
		s.TextPosition = widgets.TextEnd
	case "outside-start":
		s.TextPosition = widgets.TextOutsideStart
	case "outside-end":
		s.TextPosition = widgets.TextOutsideEnd
	default:
		return s, fmt.Errorf("bar text %q: %w", bc.Text, ErrInvalidValue)
	}

	switch bc.Fill {
	case "", "left":
	case "center":
		s.Fill = widgets.FillCenter
	case "right":
		s.Fill = widgets.FillRight
	default:
		return s, fmt.Errorf("bar fill %q: %w", bc.Fill, ErrInvalidValue)
	}

	switch {
	case bc.Color != "" && len(bc.Gradient) > 0:
		return s, fmt.Errorf("bar color and gradient are exclusive: %w", ErrInvalidValue)
	case bc.Color != "":
		c, err := perfui.Hex(bc.Color)
		if err != nil {
			return s, fmt.Errorf("bar color: %w", err)
		}
		s.Color = perfui.SingleColor(c)
	case len(bc.Gradient) > 0:
		g, err := gradient(bc.Gradient)
		if err != nil {
			return s, fmt.Errorf("bar: %w", err)
		}
		s.Color = g
	}

	s.LengthPx, s.HeightPx = bc.Length, bc.Height
	s.Min, s.Max = bc.Min, bc.Max
	return s, nil
}

func gradient(stops []StopConfig) (*perfui.ColorGradient, error) {
	gs := make([]perfui.GradientStop, len(stops))
	for i, sc := range stops {
		c, err := perfui.Hex(sc.Color)
		if err != nil {
			return nil, fmt.Errorf("gradient stop %d: %w", i, err)
		}
		gs[i] = perfui.GradientStop{Value: sc.Value, Color: c}
	}
	g, err := perfui.NewColorGradient(gs...)
	if err != nil {
		return nil, fmt.Errorf("gradient: %w", err)
	}
	return g, nil
}
