package chart

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
	"golang.org/x/net/html"
)

const svgMediaType = "image/svg+xml"

// SVGOptions controls EncodeSVG.
type SVGOptions struct {
	// Palette provides the embedded stylesheet. The zero value selects
	// DefaultPalette.
	Palette *Palette
	// NoStyle omits the embedded stylesheet, leaving styling to the page
	// that embeds the chart.
	NoStyle bool
	// Minify compacts the output.
	Minify bool
}

type attrs []html.Attribute

func (a attrs) set(key string, value any) attrs {
	var v string
	switch value := value.(type) {
	case float64:
		v = formatFloat(value)
	case int:
		v = fmt.Sprint(value)
	case string:
		v = value
	default:
		v = fmt.Sprint(value)
	}
	return append(a, html.Attribute{Key: key, Val: v})
}

func element(parent *html.Node, tag string, a attrs) *html.Node {
	n := &html.Node{
		Type: html.ElementNode,
		Data: tag,
		Attr: a,
	}
	if parent != nil {
		parent.AppendChild(n)
	}
	return n
}

func textElement(parent *html.Node, t Text) {
	a := attrs{}.
		set("class", t.Class).
		set("x", t.X).
		set("y", t.Y)
	if t.Middle {
		a = a.set("dominant-baseline", "middle")
	}
	if t.Anchor == AnchorEnd {
		a = a.set("text-anchor", "end")
	}
	e := element(parent, "text", a)
	e.AppendChild(&html.Node{Type: html.TextNode, Data: t.Content})
}

func circleElement(parent *html.Node, c Circle) {
	a := attrs{}.
		set("cx", c.Center.X).
		set("cy", c.Center.Y).
		set("r", c.Radius)
	if c.Fill != "" {
		a = a.set("fill", c.Fill)
	}
	element(parent, "circle", a.set("class", c.Class))
}

// SVG builds the scene as an SVG element tree.
func (sc Scene) SVG(opts SVGOptions) *html.Node {
	root := element(nil, "svg", attrs{}.
		set("xmlns", "http://www.w3.org/2000/svg").
		set("width", sc.Width).
		set("height", sc.Height).
		set("viewBox", fmt.Sprintf("0 0 %s %s", formatFloat(sc.Width), formatFloat(sc.Height))))
	if !opts.NoStyle {
		p := DefaultPalette
		if opts.Palette != nil {
			p = *opts.Palette
		}
		style := element(root, "style", nil)
		style.AppendChild(&html.Node{Type: html.TextNode, Data: p.Stylesheet()})
	}
	stroke := cssColor(DefaultPalette.Grid)
	if opts.Palette != nil {
		stroke = cssColor(opts.Palette.Grid)
	}
	for i, g := range sc.Gridlines {
		if i < len(sc.TickLabels) {
			textElement(root, sc.TickLabels[i])
		}
		element(root, "line", attrs{}.
			set("x1", g.X1).
			set("y1", g.Y).
			set("x2", g.X2).
			set("y2", g.Y).
			set("stroke", stroke))
	}
	for _, t := range sc.DateLabels {
		textElement(root, t)
	}
	for _, p := range sc.Plots {
		element(root, "path", attrs{}.
			set("d", p.Path.String()).
			set("class", p.Class()).
			set("fill", "none").
			set("stroke-width", StrokeWidth))
		if p.Marker != nil {
			circleElement(root, p.Marker.Outer)
			circleElement(root, p.Marker.Inner)
		}
	}
	return root
}

// EncodeSVG writes the scene as an SVG document.
func (sc Scene) EncodeSVG(w io.Writer, opts SVGOptions) error {
	if !opts.Minify {
		return html.Render(w, sc.SVG(opts))
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, sc.SVG(opts)); err != nil {
		return err
	}
	m := minify.New()
	m.AddFunc(svgMediaType, svg.Minify)
	if err := m.Minify(svgMediaType, w, &buf); err != nil {
		return fmt.Errorf("failed minifying svg: %w", err)
	}
	return nil
}
