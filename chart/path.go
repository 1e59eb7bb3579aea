package chart

import (
	"math"
	"strconv"
	"strings"
)

// Verb is the kind of a path command.
type Verb uint8

const (
	MoveTo Verb = iota
	CubeTo
)

func (v Verb) String() string {
	switch v {
	case MoveTo:
		return "M"
	case CubeTo:
		return "C"
	default:
		return "?"
	}
}

func (v Verb) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Command is one path drawing instruction. MoveTo commands only use To.
type Command struct {
	Verb  Verb
	Ctrl0 Point
	Ctrl1 Point
	To    Point
}

// Path is a sequence of drawing commands.
type Path []Command

// line describes the segment from a to b in polar form.
type line struct {
	length, angle float64
}

func lineBetween(a, b Point) line {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return line{
		length: math.Sqrt(dx*dx + dy*dy),
		angle:  math.Atan2(dy, dx),
	}
}

// controlPoint computes a Bézier control point for current from the line
// joining its neighbours. Missing neighbours (at either end of the series)
// are replaced by current itself, which flattens the curve there. reverse
// points the control point backwards along the line.
func controlPoint(current Point, previous, next *Point, reverse bool) Point {
	p, n := current, current
	if previous != nil {
		p = *previous
	}
	if next != nil {
		n = *next
	}
	o := lineBetween(p, n)
	angle := o.angle
	if reverse {
		angle += math.Pi
	}
	length := o.length * PlotSmoothing
	return Pt(
		current.X+math.Cos(angle)*length,
		current.Y+math.Sin(angle)*length,
	)
}

func at(points []Point, i int) *Point {
	if i < 0 || i >= len(points) {
		return nil
	}
	return &points[i]
}

// SmoothPath builds a Catmull-Rom style cubic Bézier path through points.
// The curve is an approximation and may overshoot between points; it is not
// shape preserving.
func SmoothPath(points []Point) Path {
	if len(points) == 0 {
		return nil
	}
	path := make(Path, 0, len(points))
	path = append(path, Command{Verb: MoveTo, To: points[0]})
	for i := 1; i < len(points); i++ {
		path = append(path, Command{
			Verb:  CubeTo,
			Ctrl0: controlPoint(points[i-1], at(points, i-2), &points[i], false),
			Ctrl1: controlPoint(points[i], at(points, i-1), at(points, i+1), true),
			To:    points[i],
		})
	}
	return path
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// String renders the path as SVG path data.
func (p Path) String() string {
	var b strings.Builder
	for i, c := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch c.Verb {
		case MoveTo:
			b.WriteString("M ")
			b.WriteString(formatFloat(c.To.X) + "," + formatFloat(c.To.Y))
		case CubeTo:
			b.WriteString("C ")
			for j, pt := range [...]Point{c.Ctrl0, c.Ctrl1, c.To} {
				if j > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(formatFloat(pt.X) + "," + formatFloat(pt.Y))
			}
		}
	}
	return b.String()
}
