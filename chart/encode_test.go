package chart

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
)

func TestEncodeSVG(t *testing.T) {
	sc := Render(DefaultDataset(), 400)
	var buf bytes.Buffer
	if err := sc.EncodeSVG(&buf, SVGOptions{}); err != nil {
		t.Fatalf("encode svg: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<svg",
		"</svg>",
		`xmlns="http://www.w3.org/2000/svg"`,
		`class="total"`,
		`class="outer valid"`,
		`class="inner unverified"`,
		`text-anchor="end"`,
		`d="M 43,141 C`,
		">7/24/2018</text>",
		"<style>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected svg to contain %q", want)
		}
	}
	if n := strings.Count(out, "<path"); n != int(NumSeries) {
		t.Errorf("expected %d paths, got %d", NumSeries, n)
	}
	if n := strings.Count(out, "<line"); n != TickCount {
		t.Errorf("expected %d gridlines, got %d", TickCount, n)
	}
	// Series are painted bottom to top: unverified, valid, total.
	u := strings.Index(out, `class="unverified"`)
	v := strings.Index(out, `class="valid"`)
	tot := strings.Index(out, `class="total"`)
	if !(u < v && v < tot) {
		t.Errorf("expected paint order unverified < valid < total, got %d %d %d", u, v, tot)
	}
}

func TestEncodeSVGMinified(t *testing.T) {
	sc := Render(DefaultDataset(), 400)
	var plain, small bytes.Buffer
	if err := sc.EncodeSVG(&plain, SVGOptions{NoStyle: true}); err != nil {
		t.Fatalf("encode svg: %v", err)
	}
	if strings.Contains(plain.String(), "<style>") {
		t.Errorf("expected no stylesheet")
	}
	if err := sc.EncodeSVG(&small, SVGOptions{NoStyle: true, Minify: true}); err != nil {
		t.Fatalf("encode minified svg: %v", err)
	}
	if small.Len() >= plain.Len() {
		t.Errorf("expected minified output to be smaller, got %d >= %d", small.Len(), plain.Len())
	}
	if !strings.Contains(small.String(), "<path") {
		t.Errorf("expected minified output to keep paths")
	}
}

func TestEncodePNG(t *testing.T) {
	sc := Render(DefaultDataset(), 400)
	var buf bytes.Buffer
	if err := sc.EncodePNG(&buf, PNGOptions{}); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 400 || b.Dy() != Height {
		t.Errorf("expected a 400x%d image, got %dx%d", Height, b.Dx(), b.Dy())
	}
}

func TestRasterizeMarkers(t *testing.T) {
	sc := Render(DefaultDataset(), 400)
	img, err := sc.Rasterize(PNGOptions{})
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	for _, p := range sc.Plots {
		c := p.Marker.Inner.Center
		got := img.RGBAAt(int(c.X), int(c.Y))
		want := DefaultPalette.Series[p.Series]
		if diff(got.R, want.R) > 8 || diff(got.G, want.G) > 8 || diff(got.B, want.B) > 8 {
			t.Errorf("[%s] expected marker color %v at %v, got %v", p.Series, want, c, got)
		}
	}
}

func diff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}
