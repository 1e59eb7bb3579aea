package chart

import (
	"math"
	"time"
)

// Anchor is the horizontal alignment of a text label relative to its
// position.
type Anchor uint8

const (
	AnchorStart Anchor = iota
	AnchorEnd
)

func (a Anchor) String() string {
	if a == AnchorEnd {
		return "end"
	}
	return "start"
}

func (a Anchor) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// TickLabelClass is the style category of all axis labels.
const TickLabelClass = "tick-label"

// Text is a positioned label.
type Text struct {
	X, Y    float64
	Content string
	Anchor  Anchor
	// Middle reports whether the label is vertically centred on Y rather
	// than sitting on it as a baseline.
	Middle bool
	Class  string
}

// Gridline is a horizontal rule spanning [X1,X2] at height Y.
type Gridline struct {
	X1, X2, Y float64
}

// DateFormatter turns a sample timestamp into a calendar date label.
type DateFormatter func(time.Time) string

// DefaultDateLayout is the en-US calendar date layout.
const DefaultDateLayout = "1/2/2006"

// DefaultDateFormatter formats dates the way an en-US locale would.
func DefaultDateFormatter(t time.Time) string {
	return t.Format(DefaultDateLayout)
}

// tickValue returns the label of gridline i, counted from the top.
func tickValue(i int, scale float64) float64 {
	return math.Round(float64(TickCount-1-i) * scale / (TickCount - 1))
}

func gridY(i int) float64 {
	return float64(i*LineMargin + YOffset)
}

func layoutGrid(scale, width float64) ([]Gridline, []Text) {
	lines := make([]Gridline, 0, TickCount)
	labels := make([]Text, 0, TickCount)
	for i := 0; i < TickCount; i++ {
		y := gridY(i)
		labels = append(labels, Text{
			X:       TextOffset,
			Y:       y,
			Content: formatFloat(tickValue(i, scale)),
			Anchor:  AnchorEnd,
			Middle:  true,
			Class:   TickLabelClass,
		})
		lines = append(lines, Gridline{
			X1: LineOffset,
			X2: width,
			Y:  y,
		})
	}
	return lines, labels
}

func layoutDates(d Dataset, width float64, format DateFormatter) []Text {
	labels := make([]Text, 0, d.Len())
	n := float64(d.Len())
	for i, s := range d.Samples {
		labels = append(labels, Text{
			X:       LineOffset + float64(i)*width/n,
			Y:       YOffset + LineMargin*TickCount,
			Content: format(s.Timestamp),
			Class:   TickLabelClass,
		})
	}
	return labels
}
