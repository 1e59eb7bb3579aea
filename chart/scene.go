package chart

// Circle is a filled disc. Fill is empty when the style comes from Class.
type Circle struct {
	Center Point
	Radius float64
	Fill   string `json:",omitempty"`
	Class  string
}

// Marker highlights the most recent value of a series with an outer ring and
// an inner fill.
type Marker struct {
	Outer, Inner Circle
}

// Plot is the drawable form of one series.
type Plot struct {
	Series Series
	Points []Point
	Path   Path
	Marker *Marker `json:",omitempty"`
}

// Class is the style category of the plot's path.
func (p Plot) Class() string {
	return p.Series.String()
}

// Scene is everything needed to draw the chart at one width. Elements are
// listed in paint order within each field, and fields are painted in
// declaration order.
type Scene struct {
	Width, Height float64
	Scale         float64
	Gridlines     []Gridline
	TickLabels    []Text
	DateLabels    []Text
	Plots         []Plot
}

// Plot returns the plot of series s.
func (sc Scene) Plot(s Series) (Plot, bool) {
	for _, p := range sc.Plots {
		if p.Series == s {
			return p, true
		}
	}
	return Plot{}, false
}

// Height of the chart canvas: the grid, the date row and one margin below.
const Height = YOffset + LineMargin*TickCount + LineMargin

type options struct {
	formatDate DateFormatter
}

// Option customizes Render.
type Option func(*options)

// WithDateFormatter sets the formatter for the date labels under the plot.
func WithDateFormatter(f DateFormatter) Option {
	return func(o *options) {
		if f != nil {
			o.formatDate = f
		}
	}
}

func newMarker(s Series, at Point) *Marker {
	name := s.String()
	return &Marker{
		Outer: Circle{Center: at, Radius: CircleRadius, Fill: "white", Class: "outer " + name},
		Inner: Circle{Center: at, Radius: CircleRadius - 2, Class: "inner " + name},
	}
}

// Render lays out d for a viewport of the given width. It is a pure function
// of its arguments. A zero width is valid and yields degenerate geometry;
// negative widths are treated as zero.
func Render(d Dataset, width float64, opts ...Option) Scene {
	o := options{formatDate: DefaultDateFormatter}
	for _, opt := range opts {
		opt(&o)
	}
	m := newMapping(d, width)
	sc := Scene{
		Width:  m.width,
		Height: Height,
		Scale:  m.scale,
	}
	sc.Gridlines, sc.TickLabels = layoutGrid(m.scale, m.width)
	sc.DateLabels = layoutDates(d, m.width, o.formatDate)
	if d.Len() == 0 {
		return sc
	}
	sc.Plots = make([]Plot, 0, NumSeries)
	for _, s := range DrawOrder {
		points := make([]Point, d.Len())
		for i, sample := range d.Samples {
			points[i] = m.point(i, sample.Value(s))
		}
		sc.Plots = append(sc.Plots, Plot{
			Series: s,
			Points: points,
			Path:   SmoothPath(points),
			Marker: newMarker(s, points[len(points)-1]),
		})
	}
	return sc
}
