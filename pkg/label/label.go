// Package label estimates rendered label-box geometry from text.
//
// The estimator works from a fixed font-metric model (per-character
// width, line height, padding) instead of live glyph measurement.
// Collision avoidance only needs conservative bounding estimates, and a
// fixed model keeps box geometry deterministic and independent of the
// rendering backend.
package label

import (
	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/geo"
)

// Alignment selects which edge of the box the text lines hug.
type Alignment string

const (
	AlignLeft  Alignment = "left"
	AlignRight Alignment = "right"
)

// Default font metrics in map units (degrees), tuned for the 6 pt
// labels of the landfall map.
const (
	DefaultCharWidth  = 0.3
	DefaultLineHeight = 0.35
	DefaultPadding    = 0.2
)

// Metrics is the font-metric model: a configuration, not a live
// font-rendering call.
type Metrics struct {
	CharWidth  float64   `json:"char_width" toml:"char_width"`
	LineHeight float64   `json:"line_height" toml:"line_height"`
	Padding    float64   `json:"padding" toml:"padding"`
	Alignment  Alignment `json:"alignment,omitempty" toml:"alignment"`
}

// DefaultMetrics returns the default font-metric model.
func DefaultMetrics() Metrics {
	return Metrics{
		CharWidth:  DefaultCharWidth,
		LineHeight: DefaultLineHeight,
		Padding:    DefaultPadding,
		Alignment:  AlignLeft,
	}
}

// Validate checks the metric model. Non-positive dimensions would
// produce degenerate boxes, so they abort a run before any cluster is
// processed.
func (m Metrics) Validate() error {
	if m.CharWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "char width must be positive, got %v", m.CharWidth)
	}
	if m.LineHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "line height must be positive, got %v", m.LineHeight)
	}
	if m.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "padding must not be negative, got %v", m.Padding)
	}
	switch m.Alignment {
	case "", AlignLeft, AlignRight:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "alignment must be left or right, got %q", m.Alignment)
	}
	return nil
}

// Line is one text line inside a box, with its anchor relative to the
// box's bottom-left corner.
type Line struct {
	Text string    `json:"text"`
	Rel  geo.Point `json:"rel"`
}

// Box is a label box sized to hold stacked text lines. Size depends
// only on the text and metrics, never on where the box is placed;
// a Box is immutable once estimated.
type Box struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Lines  []Line  `json:"lines"`
}

// Rect returns the box as a rectangle anchored at its bottom-left
// corner.
func (b Box) Rect(anchor geo.Point) geo.Rect {
	return geo.Rect{
		Min: anchor,
		Max: geo.Point{X: anchor.X + b.Width, Y: anchor.Y + b.Height},
	}
}

// Corners returns the four corners of the box placed at anchor.
func (b Box) Corners(anchor geo.Point) []geo.Point {
	return b.Rect(anchor).Corners()
}

// Estimate computes the box geometry for a set of label lines.
//
// The box is sized as width = 2*padding + longestLine*charWidth and
// height = 2*padding + n*lineHeight, with lines stacked top to bottom:
// line i anchors at height - (i+0.5)*lineHeight, vertically centered in
// its slot. A single line is simply the n=1 case of the same formula.
func Estimate(texts []string, m Metrics) (Box, error) {
	if err := m.Validate(); err != nil {
		return Box{}, err
	}
	if len(texts) == 0 {
		return Box{}, errors.New(errors.ErrCodeGeometryFailure, "no label lines to estimate")
	}

	maxLen := 0
	for _, t := range texts {
		if n := len([]rune(t)); n > maxLen {
			maxLen = n
		}
	}
	if maxLen == 0 {
		// All-empty labels still get a one-character slot so the box
		// never degenerates to zero width.
		maxLen = 1
	}

	b := Box{
		Width:  2*m.Padding + float64(maxLen)*m.CharWidth,
		Height: 2*m.Padding + float64(len(texts))*m.LineHeight,
		Lines:  make([]Line, len(texts)),
	}

	for i, t := range texts {
		y := b.Height - m.Padding - (float64(i)+0.5)*m.LineHeight
		x := m.Padding
		if m.Alignment == AlignRight {
			x = b.Width - m.Padding - float64(len([]rune(t)))*m.CharWidth
		}
		b.Lines[i] = Line{Text: t, Rel: geo.Point{X: x, Y: y}}
	}

	return b, nil
}
