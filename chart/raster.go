package chart

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// PNGOptions controls EncodePNG.
type PNGOptions struct {
	// Palette colors the scene. The zero value selects DefaultPalette.
	Palette *Palette
	// FontSize of labels in points. Zero selects 9.
	FontSize float64
}

// Rasterize draws the scene into a new RGBA image.
func (sc Scene) Rasterize(opts PNGOptions) (*image.RGBA, error) {
	p := DefaultPalette
	if opts.Palette != nil {
		p = *opts.Palette
	}
	fontSize := opts.FontSize
	if fontSize == 0 {
		fontSize = 9
	}
	w := max(int(math.Ceil(sc.Width)), 1)
	h := max(int(math.Ceil(sc.Height)), 1)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(p.Background), image.Point{}, draw.Src)

	gc, err := drawing.NewRasterGraphicContext(img)
	if err != nil {
		return nil, fmt.Errorf("failed creating graphic context: %w", err)
	}

	gc.SetStrokeColor(p.Grid)
	gc.SetLineWidth(1)
	for _, g := range sc.Gridlines {
		gc.BeginPath()
		gc.MoveTo(g.X1, g.Y)
		gc.LineTo(g.X2, g.Y)
		gc.Stroke()
	}

	font, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed loading font: %w", err)
	}
	gc.SetFont(font)
	gc.SetFontSize(fontSize)
	gc.SetFillColor(p.Label)
	for _, labels := range [][]Text{sc.TickLabels, sc.DateLabels} {
		for _, t := range labels {
			if err := fillText(gc, t); err != nil {
				return nil, err
			}
		}
	}

	for _, plot := range sc.Plots {
		col := p.Series[plot.Series]
		gc.SetStrokeColor(col)
		gc.SetLineWidth(StrokeWidth)
		gc.BeginPath()
		for _, c := range plot.Path {
			switch c.Verb {
			case MoveTo:
				gc.MoveTo(c.To.X, c.To.Y)
			case CubeTo:
				gc.CubicCurveTo(c.Ctrl0.X, c.Ctrl0.Y, c.Ctrl1.X, c.Ctrl1.Y, c.To.X, c.To.Y)
			}
		}
		gc.Stroke()
		if plot.Marker == nil {
			continue
		}
		fillCircle(gc, plot.Marker.Outer, color.White, col)
		fillCircle(gc, plot.Marker.Inner, col, nil)
	}
	return img, nil
}

func fillText(gc *drawing.RasterGraphicContext, t Text) error {
	left, top, right, bottom, err := gc.GetStringBounds(t.Content)
	if err != nil {
		return fmt.Errorf("failed measuring %q: %w", t.Content, err)
	}
	x, y := t.X, t.Y
	if t.Anchor == AnchorEnd {
		x -= right - left
	}
	if t.Middle {
		y += (bottom - top) / 2
	}
	gc.BeginPath()
	if _, err := gc.CreateStringPath(t.Content, x, y); err != nil {
		return fmt.Errorf("failed drawing %q: %w", t.Content, err)
	}
	gc.Fill()
	return nil
}

func fillCircle(gc *drawing.RasterGraphicContext, c Circle, fill, stroke color.Color) {
	gc.BeginPath()
	gc.ArcTo(c.Center.X, c.Center.Y, c.Radius, c.Radius, 0, 2*math.Pi)
	gc.Close()
	gc.SetFillColor(fill)
	if stroke == nil {
		gc.Fill()
		return
	}
	gc.SetStrokeColor(stroke)
	gc.SetLineWidth(StrokeWidth)
	gc.FillStroke()
}

// EncodePNG writes the rasterized scene as a PNG image.
func (sc Scene) EncodePNG(w io.Writer, opts PNGOptions) error {
	img, err := sc.Rasterize(opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
