package chart

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const epsilon = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func nearPoint(a, b Point) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// datasetOf builds a dataset with one sample per value, every series sharing
// the same value, spaced a day apart.
func datasetOf(values ...float64) Dataset {
	start := time.Date(2018, 7, 24, 20, 0, 0, 0, time.UTC)
	var d Dataset
	for i, v := range values {
		d.Insert(Sample{
			Timestamp: start.Add(time.Duration(i) * 24 * time.Hour),
			Values:    [NumSeries]float64{v, v, v},
		})
	}
	return d
}

func checkFinite(t *testing.T, sc Scene) {
	t.Helper()
	for _, p := range sc.Plots {
		for _, c := range p.Path {
			for _, pt := range []Point{c.Ctrl0, c.Ctrl1, c.To} {
				if !finite(pt.X) || !finite(pt.Y) {
					t.Errorf("series %s has non-finite coordinate %v", p.Series, pt)
				}
			}
		}
		if p.Marker != nil && (!finite(p.Marker.Outer.Center.X) || !finite(p.Marker.Outer.Center.Y)) {
			t.Errorf("series %s has non-finite marker %v", p.Series, p.Marker.Outer.Center)
		}
	}
}

func TestMoveToMatchesFirstPoint(t *testing.T) {
	d := DefaultDataset()
	for _, width := range []float64{100, 320, 1024.5} {
		sc := Render(d, width)
		n := float64(d.Len())
		for _, p := range sc.Plots {
			first := p.Path[0]
			if first.Verb != MoveTo {
				t.Fatalf("expected first command to be a move, got %v", first.Verb)
			}
			wantX := float64(LineOffset + PlotPadding)
			wantY := YOffset - StrokeWidth/2.0 + (1-d.Samples[0].Value(p.Series)/d.Scale())*(n+1)*LineMargin
			if first.To != Pt(wantX, wantY) {
				t.Errorf("[%v %s] expected move to (%v,%v), got %v", width, p.Series, wantX, wantY, first.To)
			}
			if len(p.Path) != d.Len() {
				t.Errorf("expected %d commands, got %d", d.Len(), len(p.Path))
			}
		}
	}
}

func TestCoordinateMapping(t *testing.T) {
	d := datasetOf(0, 5, 0)
	sc := Render(d, 210)
	p, ok := sc.Plot(Total)
	if !ok {
		t.Fatalf("expected a plot for total")
	}
	// usable width is 210-30-26-8 = 146, so samples are 73px apart.
	expected := []Point{
		Pt(43, 97),
		Pt(116, 9+0.2*88),
		Pt(189, 97),
	}
	for i, e := range expected {
		if !nearPoint(p.Points[i], e) {
			t.Errorf("[%d] expected %v, got %v", i, e, p.Points[i])
		}
	}
}

func TestSingleSample(t *testing.T) {
	for _, width := range []float64{0, 1, 300} {
		sc := Render(datasetOf(42), width)
		checkFinite(t, sc)
		for _, p := range sc.Plots {
			if len(p.Path) != 1 {
				t.Errorf("expected a lone move command, got %d commands", len(p.Path))
			}
			if p.Points[0].X != LineOffset+PlotPadding {
				t.Errorf("expected x %v, got %v", LineOffset+PlotPadding, p.Points[0].X)
			}
		}
	}
}

func TestZeroScale(t *testing.T) {
	sc := Render(datasetOf(0, 0), 100)
	checkFinite(t, sc)
	baseline := YOffset - StrokeWidth/2.0
	for _, p := range sc.Plots {
		for i, pt := range p.Points {
			if pt.Y != baseline {
				t.Errorf("[%s %d] expected y on baseline %v, got %v", p.Series, i, baseline, pt.Y)
			}
		}
	}
	for i, l := range sc.TickLabels {
		if l.Content != "0" {
			t.Errorf("[%d] expected tick label 0, got %q", i, l.Content)
		}
	}
}

func TestZeroWidth(t *testing.T) {
	sc := Render(DefaultDataset(), 0)
	checkFinite(t, sc)
	if sc.Width != 0 {
		t.Errorf("expected width 0, got %v", sc.Width)
	}
	neg := Render(DefaultDataset(), -20)
	if diff := cmp.Diff(sc, neg); diff != "" {
		t.Errorf("negative width should render like zero width (-zero +negative):\n%s", diff)
	}
}

func TestEmptyDataset(t *testing.T) {
	sc := Render(Dataset{}, 300)
	if len(sc.Plots) != 0 {
		t.Errorf("expected no plots, got %d", len(sc.Plots))
	}
	if len(sc.Gridlines) != TickCount {
		t.Errorf("expected %d gridlines, got %d", TickCount, len(sc.Gridlines))
	}
	if len(sc.DateLabels) != 0 {
		t.Errorf("expected no date labels, got %d", len(sc.DateLabels))
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	d := DefaultDataset()
	a := Render(d, 480)
	b := Render(d, 480)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("renders differ (-first +second):\n%s", diff)
	}
}

func TestWidthScaling(t *testing.T) {
	d := DefaultDataset()
	narrow := Render(d, 300)
	wide := Render(d, 600)
	for s := Series(0); s < NumSeries; s++ {
		np, _ := narrow.Plot(s)
		wp, _ := wide.Plot(s)
		for i := 1; i < len(np.Points); i++ {
			nGap := np.Points[i].X - np.Points[i-1].X
			wGap := wp.Points[i].X - wp.Points[i-1].X
			if wGap <= nGap {
				t.Errorf("[%s %d] expected wider spacing, got %v <= %v", s, i, wGap, nGap)
			}
		}
		for i := range np.Points {
			if np.Points[i].Y != wp.Points[i].Y {
				t.Errorf("[%s %d] width changed y from %v to %v", s, i, np.Points[i].Y, wp.Points[i].Y)
			}
		}
	}
}

func TestEndpointControlPoints(t *testing.T) {
	sc := Render(datasetOf(0, 5, 0), 210)
	p, _ := sc.Plot(Valid)
	pts := p.Points
	// The first curve leaves P0 along the line P0->P1.
	first := p.Path[1]
	wantStart := Pt(
		pts[0].X+PlotSmoothing*(pts[1].X-pts[0].X),
		pts[0].Y+PlotSmoothing*(pts[1].Y-pts[0].Y),
	)
	if !nearPoint(first.Ctrl0, wantStart) {
		t.Errorf("expected first control point %v, got %v", wantStart, first.Ctrl0)
	}
	// The last curve arrives at P2 along the line P1->P2, reflected back.
	last := p.Path[2]
	wantEnd := Pt(
		pts[2].X+PlotSmoothing*(pts[1].X-pts[2].X),
		pts[2].Y+PlotSmoothing*(pts[1].Y-pts[2].Y),
	)
	if !nearPoint(last.Ctrl1, wantEnd) {
		t.Errorf("expected last control point %v, got %v", wantEnd, last.Ctrl1)
	}
	// The interior point uses both real neighbours, which lie level with
	// each other, so its control points are horizontal.
	if !near(first.Ctrl1.Y, pts[1].Y) || !near(last.Ctrl0.Y, pts[1].Y) {
		t.Errorf("expected horizontal control points at the peak, got %v and %v", first.Ctrl1, last.Ctrl0)
	}
	if !near(pts[1].X-first.Ctrl1.X, PlotSmoothing*(pts[2].X-pts[0].X)) {
		t.Errorf("expected control arm length %v, got %v", PlotSmoothing*(pts[2].X-pts[0].X), pts[1].X-first.Ctrl1.X)
	}
}

func TestTickLabels(t *testing.T) {
	// A maximum of 80 gives a scale of 100.
	sc := Render(datasetOf(10, 80), 300)
	if sc.Scale != 100 {
		t.Fatalf("expected scale 100, got %v", sc.Scale)
	}
	expected := []string{"100", "83", "67", "50", "33", "17", "0"}
	if len(sc.TickLabels) != len(expected) {
		t.Fatalf("expected %d labels, got %d", len(expected), len(sc.TickLabels))
	}
	for i, e := range expected {
		l := sc.TickLabels[i]
		if l.Content != e {
			t.Errorf("[%d] expected label %q, got %q", i, e, l.Content)
		}
		if l.Y != sc.Gridlines[i].Y || l.Y != float64(YOffset+i*LineMargin) {
			t.Errorf("[%d] expected label at gridline y %v, got %v", i, sc.Gridlines[i].Y, l.Y)
		}
		if l.Anchor != AnchorEnd || l.X != TextOffset {
			t.Errorf("[%d] expected end-anchored label at x %d, got %v at %v", i, TextOffset, l.Anchor, l.X)
		}
	}
	for i, g := range sc.Gridlines {
		if g.X1 != LineOffset || g.X2 != 300 {
			t.Errorf("[%d] expected gridline from %d to 300, got %v to %v", i, LineOffset, g.X1, g.X2)
		}
	}
}

func TestDateLabels(t *testing.T) {
	d := DefaultDataset()
	sc := Render(d, 500, WithDateFormatter(func(t time.Time) string {
		return t.Format("2006-01-02")
	}))
	expected := []string{"2018-07-24", "2018-07-27", "2018-07-29", "2018-08-01", "2018-08-03"}
	for i, e := range expected {
		l := sc.DateLabels[i]
		if l.Content != e {
			t.Errorf("[%d] expected %q, got %q", i, e, l.Content)
		}
		if want := LineOffset + float64(i)*500/5; l.X != want {
			t.Errorf("[%d] expected x %v, got %v", i, want, l.X)
		}
		if l.Y != YOffset+LineMargin*TickCount {
			t.Errorf("[%d] expected y %d, got %v", i, YOffset+LineMargin*TickCount, l.Y)
		}
	}
	if got := Render(d, 500).DateLabels[0].Content; got != "7/24/2018" {
		t.Errorf("expected default formatting 7/24/2018, got %q", got)
	}
}

func TestMarkers(t *testing.T) {
	sc := Render(DefaultDataset(), 400)
	if len(sc.Plots) != int(NumSeries) {
		t.Fatalf("expected %d plots, got %d", NumSeries, len(sc.Plots))
	}
	for i, p := range sc.Plots {
		if p.Series != DrawOrder[i] {
			t.Errorf("[%d] expected series %s, got %s", i, DrawOrder[i], p.Series)
		}
		last := p.Path[len(p.Path)-1].To
		if p.Marker.Outer.Center != last || p.Marker.Inner.Center != last {
			t.Errorf("[%s] expected markers at %v, got %v and %v", p.Series, last, p.Marker.Outer.Center, p.Marker.Inner.Center)
		}
		if p.Marker.Outer.Radius != CircleRadius || p.Marker.Inner.Radius != CircleRadius-2 {
			t.Errorf("[%s] unexpected marker radii %v/%v", p.Series, p.Marker.Outer.Radius, p.Marker.Inner.Radius)
		}
		if p.Marker.Outer.Class != "outer "+p.Series.String() || p.Marker.Inner.Class != "inner "+p.Series.String() {
			t.Errorf("[%s] unexpected marker classes %q/%q", p.Series, p.Marker.Outer.Class, p.Marker.Inner.Class)
		}
	}
}

func TestPathString(t *testing.T) {
	p := Path{
		{Verb: MoveTo, To: Pt(1, 2)},
		{Verb: CubeTo, Ctrl0: Pt(3, 4), Ctrl1: Pt(5.5, 6), To: Pt(7, 8)},
	}
	if got, want := p.String(), "M 1,2 C 3,4 5.5,6 7,8"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDatasetInsert(t *testing.T) {
	d := DefaultDataset()
	last, _ := d.Last()
	if d.Insert(Sample{Timestamp: last.Timestamp}) {
		t.Errorf("inserting a duplicate timestamp should fail")
	}
	early := Sample{Timestamp: d.Samples[0].Timestamp.Add(-time.Hour), Values: [NumSeries]float64{200}}
	if !d.Insert(early) {
		t.Errorf("inserting a new timestamp should succeed")
	}
	if d.Samples[0] != early {
		t.Errorf("expected the earlier sample first, got %v", d.Samples[0])
	}
	if d.Max() != 200 || d.Scale() != 250 {
		t.Errorf("expected max 200 and scale 250, got %v and %v", d.Max(), d.Scale())
	}
}

func TestParseSeries(t *testing.T) {
	for s := Series(0); s < NumSeries; s++ {
		got, err := ParseSeries(" " + s.String() + " ")
		if err != nil || got != s {
			t.Errorf("expected %s, got %s (%v)", s, got, err)
		}
	}
	if _, err := ParseSeries("bogus"); err == nil {
		t.Errorf("expected an error for an unknown series")
	}
}
