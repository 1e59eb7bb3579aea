package chart

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Layout constants, in pixels unless noted.
const (
	TickCount     = 7
	YScale        = 1.25
	YOffset       = 10
	LineMargin    = 22
	TextOffset    = 25
	LineOffset    = TextOffset + 5
	PlotPadding   = 13
	PlotSmoothing = 0.2
	StrokeWidth   = 2
	CircleRadius  = 8
)

// Point is a pixel-space coordinate.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// mapping converts sample indices and values into pixel coordinates for one
// dataset length, scale and width.
type mapping struct {
	n     int
	scale float64
	width float64
}

func newMapping(d Dataset, width float64) mapping {
	return mapping{
		n:     d.Len(),
		scale: d.Scale(),
		width: clamp(width, 0, math.MaxFloat64),
	}
}

// x returns the horizontal position of sample i. A single sample sits at the
// left edge of the plot area.
func (m mapping) x(i int) float64 {
	left := float64(LineOffset + PlotPadding)
	if m.n < 2 {
		return left
	}
	usable := m.width - LineOffset - 2*PlotPadding - CircleRadius
	return left + float64(i)*usable/float64(m.n-1)
}

// y returns the vertical position of value v. With a zero scale every value
// lies on the baseline.
func (m mapping) y(v float64) float64 {
	baseline := YOffset - StrokeWidth/2.0
	if m.scale == 0 {
		return baseline
	}
	return baseline + (1-v/m.scale)*float64(m.n+1)*LineMargin
}

func (m mapping) point(i int, v float64) Point {
	return Pt(m.x(i), m.y(v))
}

func clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
